package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/petitmarche/backend/pkg/enums"
)

// Order is the ledger row produced by checkout. Monetary columns satisfy
// total = subtotal + tax + shipping - discount, all non-negative.
type Order struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	OrderNumber     string              `gorm:"column:order_number;not null;uniqueIndex"`
	UserID          uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	AddressID       uuid.UUID           `gorm:"column:address_id;type:uuid;not null"`
	Status          enums.OrderStatus   `gorm:"column:status;type:order_status;not null;default:'pending'"`
	Subtotal        decimal.Decimal     `gorm:"column:subtotal;type:numeric(10,2);not null"`
	Tax             decimal.Decimal     `gorm:"column:tax;type:numeric(10,2);not null;default:0"`
	Shipping        decimal.Decimal     `gorm:"column:shipping;type:numeric(10,2);not null;default:0"`
	Discount        decimal.Decimal     `gorm:"column:discount;type:numeric(10,2);not null;default:0"`
	Total           decimal.Decimal     `gorm:"column:total;type:numeric(10,2);not null"`
	Currency        enums.Currency      `gorm:"column:currency;type:text;not null;default:'EUR'"`
	PaymentMethod   *string             `gorm:"column:payment_method"`
	PaymentStatus   enums.PaymentStatus `gorm:"column:payment_status;type:payment_status;not null;default:'pending'"`
	PaymentIntentID *string             `gorm:"column:payment_intent_id"`
	Notes           *string             `gorm:"column:notes"`
	ShippedAt       *time.Time          `gorm:"column:shipped_at"`
	DeliveredAt     *time.Time          `gorm:"column:delivered_at"`
	Items           []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Address         *Address            `gorm:"foreignKey:AddressID"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
