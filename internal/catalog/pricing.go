package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/petitmarche/backend/pkg/db/models"
)

// ProductCurrentPrice returns the effective price of a variant-less
// product: the sale price when one is set below the base price.
func ProductCurrentPrice(p models.Product) decimal.Decimal {
	if p.SalePrice != nil && p.SalePrice.LessThan(p.BasePrice) {
		return *p.SalePrice
	}
	return p.BasePrice
}

// ResolveUnitPrice picks the charged unit price for a line. Variant sale
// price wins over variant price, which wins over the product base price.
// A product-level sale never applies to variant lines.
func ResolveUnitPrice(p models.Product, v *models.ProductVariant) decimal.Decimal {
	if v == nil {
		return ProductCurrentPrice(p)
	}
	if v.SalePrice != nil {
		return *v.SalePrice
	}
	if v.Price != nil {
		return *v.Price
	}
	return p.BasePrice
}
