package orders

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petitmarche/backend/pkg/db/models"
	"github.com/petitmarche/backend/pkg/enums"
)

func TestToViewIncludesAddress(t *testing.T) {
	t.Parallel()

	order := models.Order{
		ID:            uuid.New(),
		OrderNumber:   "ORD-1756700000000-ABCDEF123",
		UserID:        uuid.New(),
		Status:        enums.OrderStatusPending,
		Subtotal:      decimal.RequireFromString("30.00"),
		Tax:           decimal.RequireFromString("6.00"),
		Shipping:      decimal.RequireFromString("5.99"),
		Discount:      decimal.Zero,
		Total:         decimal.RequireFromString("41.99"),
		Currency:      enums.CurrencyEUR,
		PaymentStatus: enums.PaymentStatusPending,
		CreatedAt:     time.Now(),
		Address: &models.Address{
			ID:         uuid.New(),
			FirstName:  "Claire",
			LastName:   "Moreau",
			Line1:      "12 rue de la Paix",
			City:       "Lyon",
			State:      "Rhone",
			PostalCode: "69001",
			Country:    "France",
		},
	}

	view := ToView(order)
	require.NotNil(t, view.Address)
	assert.Equal(t, order.Address.ID, view.Address.ID)
	assert.Equal(t, "12 rue de la Paix", view.Address.Line1)
	assert.Equal(t, "Lyon", view.Address.City)
	assert.Equal(t, "France", view.Address.Country)
}

func TestToViewWithoutPreloadedAddress(t *testing.T) {
	t.Parallel()

	view := ToView(models.Order{ID: uuid.New(), Status: enums.OrderStatusPending})
	assert.Nil(t, view.Address)
}
