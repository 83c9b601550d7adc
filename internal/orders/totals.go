package orders

import "github.com/shopspring/decimal"

// LineTotal computes the extended price of an order line. Called
// explicitly wherever a snapshot line is built or edited, never via ORM
// lifecycle hooks.
func LineTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}
