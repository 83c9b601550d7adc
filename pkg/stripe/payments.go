package stripe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"

	"github.com/petitmarche/backend/pkg/enums"
)

// ChargeIntent is the subset of a payment intent the storefront persists
// and returns to clients.
type ChargeIntent struct {
	ID           string
	ClientSecret string
}

// ChargeIntentRequest describes the payment to authorize for an order.
type ChargeIntentRequest struct {
	Amount      decimal.Decimal
	Currency    enums.Currency
	OrderID     string
	OrderNumber string
}

// CreateChargeIntent creates a payment intent for the order total. The
// amount is converted to minor units before hitting Stripe.
func (c *Client) CreateChargeIntent(ctx context.Context, req ChargeIntentRequest) (*ChargeIntent, error) {
	if c == nil || c.api == nil {
		return nil, errors.New("stripe client not initialized")
	}
	if req.Amount.IsNegative() || req.Amount.IsZero() {
		return nil, fmt.Errorf("charge amount must be positive, got %s", req.Amount)
	}
	if !req.Currency.IsValid() {
		return nil, fmt.Errorf("invalid currency %q", req.Currency)
	}

	params := &stripe.PaymentIntentCreateParams{
		Amount:   stripe.Int64(minorUnits(req.Amount)),
		Currency: stripe.String(strings.ToLower(req.Currency.String())),
		AutomaticPaymentMethods: &stripe.PaymentIntentCreateAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: map[string]string{
			"order_id":     req.OrderID,
			"order_number": req.OrderNumber,
		},
	}

	intent, err := c.api.V1PaymentIntents.Create(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	return &ChargeIntent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
	}, nil
}

func minorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
