package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/petitmarche/backend/internal/cart"
	"github.com/petitmarche/backend/internal/catalog"
	"github.com/petitmarche/backend/internal/orders"
	"github.com/petitmarche/backend/pkg/db"
	"github.com/petitmarche/backend/pkg/db/models"
	"github.com/petitmarche/backend/pkg/enums"
	pkgerrors "github.com/petitmarche/backend/pkg/errors"
	"github.com/petitmarche/backend/pkg/logger"
	"github.com/petitmarche/backend/pkg/metrics"
	"github.com/petitmarche/backend/pkg/stripe"
)

var (
	taxRate          = decimal.RequireFromString("0.20")
	flatShipping     = decimal.RequireFromString("5.99")
	freeShippingOver = decimal.RequireFromString("50.00")
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type addressLoader interface {
	FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.Address, error)
}

type paymentProvider interface {
	CreateChargeIntent(ctx context.Context, req stripe.ChargeIntentRequest) (*stripe.ChargeIntent, error)
}

// PlaceOrderInput captures a checkout request after validation.
type PlaceOrderInput struct {
	UserID        uuid.UUID
	AddressID     uuid.UUID
	PaymentMethod enums.PaymentMethod
	Notes         *string
}

// PlacedOrder is the checkout result: the persisted order plus the
// payment intent reference when the gateway call succeeded.
type PlacedOrder struct {
	Order               *models.Order
	PaymentIntentID     string
	PaymentClientSecret string
}

// Service orchestrates order placement.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*PlacedOrder, error)
}

type service struct {
	tx        txRunner
	catalog   catalog.Repository
	carts     cart.Repository
	orders    orders.Repository
	addresses addressLoader
	payments  paymentProvider
	logg      *logger.Logger
	metrics   *metrics.CheckoutMetrics
}

// NewService builds the checkout orchestrator. payments may be nil when
// no gateway is configured; orders then stay pending.
func NewService(
	tx txRunner,
	catalogRepo catalog.Repository,
	cartRepo cart.Repository,
	orderRepo orders.Repository,
	addresses addressLoader,
	payments paymentProvider,
	logg *logger.Logger,
	checkoutMetrics *metrics.CheckoutMetrics,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if addresses == nil {
		return nil, fmt.Errorf("address loader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		tx:        tx,
		catalog:   catalogRepo,
		carts:     cartRepo,
		orders:    orderRepo,
		addresses: addresses,
		payments:  payments,
		logg:      logg,
		metrics:   checkoutMetrics,
	}, nil
}

type lineItem struct {
	item     models.OrderItem
	variant  *uuid.UUID
	quantity int
}

func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*PlacedOrder, error) {
	started := time.Now()
	placed, err := s.placeOrder(ctx, input)
	if err != nil {
		s.metrics.ObserveDuration("failure", time.Since(started))
		if typed := pkgerrors.As(err); typed != nil {
			s.metrics.IncRejected(string(typed.Code()))
		}
		return nil, err
	}
	s.metrics.ObserveDuration("success", time.Since(started))
	s.metrics.IncPlaced(input.PaymentMethod.String())
	return placed, nil
}

func (s *service) placeOrder(ctx context.Context, input PlaceOrderInput) (*PlacedOrder, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.AddressID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address id required")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment method %q", input.PaymentMethod))
	}

	addr, err := s.addresses.FindByIDAndUser(ctx, input.AddressID, input.UserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}

	userCart, err := s.carts.FindActiveByUser(ctx, input.UserID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if err == gorm.ErrRecordNotFound || len(userCart.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
	}

	lines, subtotal, err := s.buildLines(ctx, userCart.Items)
	if err != nil {
		return nil, err
	}

	tax := subtotal.Mul(taxRate).Round(2)
	shipping := flatShipping
	if subtotal.GreaterThan(freeShippingOver) {
		shipping = decimal.Zero
	}
	total := subtotal.Add(tax).Add(shipping).Round(2)

	number, err := orders.NewOrderNumber(time.Now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate order number")
	}

	method := input.PaymentMethod.String()
	order := &models.Order{
		ID:            uuid.New(),
		OrderNumber:   number,
		UserID:        input.UserID,
		AddressID:     addr.ID,
		Status:        enums.OrderStatusPending,
		Subtotal:      subtotal,
		Tax:           tax,
		Shipping:      shipping,
		Discount:      decimal.Zero,
		Total:         total,
		Currency:      enums.CurrencyEUR,
		PaymentMethod: &method,
		PaymentStatus: enums.PaymentStatusPending,
		Notes:         input.Notes,
	}
	for _, line := range lines {
		item := line.item
		item.OrderID = order.ID
		order.Items = append(order.Items, item)
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		orderRepo := s.orders.WithTx(tx)
		catalogRepo := s.catalog.WithTx(tx)
		cartRepo := s.carts.WithTx(tx)

		if _, err := orderRepo.Create(ctx, order); err != nil {
			if db.IsUniqueViolation(err, "idx_orders_order_number") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order number collision, retry checkout")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		// the guarded decrement is the authoritative stock check; a lost
		// guard rolls back the whole order
		for _, line := range lines {
			if line.variant == nil {
				continue
			}
			ok, err := catalogRepo.DecrementStock(ctx, *line.variant, line.quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeOutOfStock,
					fmt.Sprintf("insufficient stock for %q", line.item.ProductName)).
					WithDetails(map[string]any{
						"product_id": line.item.ProductID,
						"variant_id": *line.variant,
						"requested":  line.quantity,
					})
			}
		}

		if err := cartRepo.ClearItems(ctx, userCart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	placed := &PlacedOrder{Order: order}
	s.requestPayment(ctx, input, order, placed)

	full, err := s.orders.FindByIDAndUser(ctx, order.ID, input.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
	}
	placed.Order = full
	return placed, nil
}

func (s *service) buildLines(ctx context.Context, items []models.CartItem) ([]lineItem, decimal.Decimal, error) {
	lines := make([]lineItem, 0, len(items))
	subtotal := decimal.Zero

	for _, ci := range items {
		product, err := s.catalog.FindProductByID(ctx, ci.ProductID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeProductGone, "product no longer exists")
			}
			return nil, decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		if !product.IsActive {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeProductGone,
				fmt.Sprintf("product %q is unavailable", product.Name))
		}

		var variant *models.ProductVariant
		if ci.VariantID != nil {
			for i := range product.Variants {
				if product.Variants[i].ID == *ci.VariantID {
					variant = &product.Variants[i]
					break
				}
			}
			if variant == nil || !variant.IsActive {
				return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeVariantGone,
					fmt.Sprintf("a variant of %q is unavailable", product.Name))
			}
			if variant.Stock < ci.Quantity {
				return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeOutOfStock,
					fmt.Sprintf("insufficient stock for %q", product.Name)).
					WithDetails(map[string]any{
						"product_id": product.ID,
						"variant_id": variant.ID,
						"requested":  ci.Quantity,
						"available":  variant.Stock,
					})
			}
		} else if product.HasVariants() {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("product %q requires a variant selection", product.Name))
		}

		unitPrice := catalog.ResolveUnitPrice(*product, variant)
		lineTotal := orders.LineTotal(ci.Quantity, unitPrice)
		subtotal = subtotal.Add(lineTotal)

		item := models.OrderItem{
			ID:          uuid.New(),
			ProductID:   product.ID,
			ProductName: product.Name,
			SKU:         product.SKU,
			Quantity:    ci.Quantity,
			Price:       unitPrice,
			Total:       lineTotal,
		}
		var variantID *uuid.UUID
		if variant != nil {
			id := variant.ID
			variantID = &id
			item.VariantID = &id
			item.VariantName = &variant.Name
			if variant.SKU != nil {
				item.SKU = variant.SKU
			}
		}
		lines = append(lines, lineItem{item: item, variant: variantID, quantity: ci.Quantity})
	}

	return lines, subtotal.Round(2), nil
}

// requestPayment runs after commit. Gateway failure never unwinds the
// order; it is logged and the order stays pending.
func (s *service) requestPayment(ctx context.Context, input PlaceOrderInput, order *models.Order, placed *PlacedOrder) {
	if input.PaymentMethod != enums.PaymentMethodStripe || s.payments == nil {
		return
	}

	ctx = s.logg.WithOrderID(ctx, order.ID.String())
	intent, err := s.payments.CreateChargeIntent(ctx, stripe.ChargeIntentRequest{
		Amount:      order.Total,
		Currency:    order.Currency,
		OrderID:     order.ID.String(),
		OrderNumber: order.OrderNumber,
	})
	if err != nil {
		s.metrics.IncRejected(string(pkgerrors.CodePaymentGateway))
		s.logg.Error(ctx, "payment intent creation failed, order left pending", err)
		return
	}

	if err := s.orders.UpdateFields(ctx, order.ID, map[string]any{
		"payment_intent_id": intent.ID,
	}); err != nil {
		s.logg.Error(ctx, "persist payment intent reference", err)
		return
	}
	placed.PaymentIntentID = intent.ID
	placed.PaymentClientSecret = intent.ClientSecret
}
