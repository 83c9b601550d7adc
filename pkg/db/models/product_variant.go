package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductVariant is the SKU-level specialization of a product (size,
// color, ...) carrying its own stock and optional price override.
type ProductVariant struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	ProductID  uuid.UUID        `gorm:"column:product_id;type:uuid;not null;index"`
	Name       string           `gorm:"column:name;not null"`
	SKU        *string          `gorm:"column:sku;uniqueIndex"`
	Price      *decimal.Decimal `gorm:"column:price;type:numeric(10,2)"`
	SalePrice  *decimal.Decimal `gorm:"column:sale_price;type:numeric(10,2)"`
	Stock      int              `gorm:"column:stock;not null;default:0"`
	Attributes json.RawMessage  `gorm:"column:attributes;type:jsonb"`
	IsActive   bool             `gorm:"column:is_active;not null;default:true"`
	SortOrder  int              `gorm:"column:sort_order;not null;default:0"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
