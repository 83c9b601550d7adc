package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/petitmarche/backend/pkg/enums"
)

// Address is a customer shipping or billing address. Orders keep the
// addressId as an immutable snapshot reference once placed.
type Address struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	UserID     uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	Type       enums.AddressType `gorm:"column:type;type:address_type;not null;default:'shipping'"`
	FirstName  string            `gorm:"column:first_name;not null"`
	LastName   string            `gorm:"column:last_name;not null"`
	Company    *string           `gorm:"column:company"`
	Line1      string            `gorm:"column:line1;not null"`
	Line2      *string           `gorm:"column:line2"`
	City       string            `gorm:"column:city;not null"`
	State      string            `gorm:"column:state;not null"`
	PostalCode string            `gorm:"column:postal_code;not null"`
	Country    string            `gorm:"column:country;not null;default:'France'"`
	Phone      *string           `gorm:"column:phone"`
	IsDefault  bool              `gorm:"column:is_default;not null;default:false"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
