package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product is a catalog listing. Stock lives on the variants; a product
// without variants sells without stock tracking.
type Product struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	CategoryID  uuid.UUID        `gorm:"column:category_id;type:uuid;not null;index"`
	Name        string           `gorm:"column:name;not null"`
	Slug        string           `gorm:"column:slug;not null;uniqueIndex"`
	Description *string          `gorm:"column:description"`
	SKU         *string          `gorm:"column:sku;uniqueIndex"`
	BasePrice   decimal.Decimal  `gorm:"column:base_price;type:numeric(10,2);not null"`
	SalePrice   *decimal.Decimal `gorm:"column:sale_price;type:numeric(10,2)"`
	Images      pq.StringArray   `gorm:"column:images;type:text[]"`
	Tags        pq.StringArray   `gorm:"column:tags;type:text[]"`
	IsActive    bool             `gorm:"column:is_active;not null;default:true"`
	IsFeatured  bool             `gorm:"column:is_featured;not null;default:false"`
	SortOrder   int              `gorm:"column:sort_order;not null;default:0"`
	Variants    []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// HasVariants reports whether purchases must name a variant.
func (p Product) HasVariants() bool {
	return len(p.Variants) > 0
}
