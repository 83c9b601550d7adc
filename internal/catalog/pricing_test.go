package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/petitmarche/backend/pkg/db/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestProductCurrentPrice(t *testing.T) {
	t.Parallel()

	base := models.Product{BasePrice: dec("19.99")}
	assert.True(t, ProductCurrentPrice(base).Equal(dec("19.99")))

	onSale := models.Product{BasePrice: dec("19.99"), SalePrice: decPtr("14.99")}
	assert.True(t, ProductCurrentPrice(onSale).Equal(dec("14.99")))

	// a sale price at or above base is ignored
	badSale := models.Product{BasePrice: dec("19.99"), SalePrice: decPtr("25.00")}
	assert.True(t, ProductCurrentPrice(badSale).Equal(dec("19.99")))
}

func TestResolveUnitPrice(t *testing.T) {
	t.Parallel()

	product := models.Product{BasePrice: dec("30.00")}

	assert.True(t, ResolveUnitPrice(product, nil).Equal(dec("30.00")))

	variant := &models.ProductVariant{Price: decPtr("32.00")}
	assert.True(t, ResolveUnitPrice(product, variant).Equal(dec("32.00")))

	variant.SalePrice = decPtr("27.50")
	assert.True(t, ResolveUnitPrice(product, variant).Equal(dec("27.50")))

	bare := &models.ProductVariant{}
	assert.True(t, ResolveUnitPrice(product, bare).Equal(dec("30.00")))
}

func TestResolveUnitPriceVariantFallbackIgnoresProductSale(t *testing.T) {
	t.Parallel()

	onSale := models.Product{BasePrice: dec("10.00"), SalePrice: decPtr("8.00")}

	// variant-less products honour the sale
	assert.True(t, ResolveUnitPrice(onSale, nil).Equal(dec("8.00")))

	// a variant without its own prices falls back to the base price
	bare := &models.ProductVariant{}
	assert.True(t, ResolveUnitPrice(onSale, bare).Equal(dec("10.00")))
}
