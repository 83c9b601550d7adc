package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/petitmarche/backend/pkg/db/models"
	"github.com/petitmarche/backend/pkg/enums"
	pkgerrors "github.com/petitmarche/backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// StockRestorer returns reserved stock when a cancelled order is unwound.
type StockRestorer interface {
	Release(ctx context.Context, tx *gorm.DB, variantID uuid.UUID, qty int) error
}

// SetStatusInput captures an admin-side status change.
type SetStatusInput struct {
	OrderID uuid.UUID
	Status  enums.OrderStatus
	Notes   *string
}

// Service defines order-level operations beyond repository reads.
type Service interface {
	Get(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	List(ctx context.Context, userID uuid.UUID, params ListParams) ([]models.Order, string, error)
	Cancel(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	SetStatus(ctx context.Context, input SetStatusInput) (*models.Order, error)
}

type service struct {
	repo  Repository
	tx    txRunner
	stock StockRestorer
}

// NewService builds an order service with the required dependencies.
func NewService(repo Repository, tx txRunner, stock StockRestorer) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock restorer required")
	}
	return &service{repo: repo, tx: tx, stock: stock}, nil
}

func (s *service) Get(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	order, err := s.repo.FindByIDAndUser(ctx, orderID, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, params ListParams) ([]models.Order, string, error) {
	if userID == uuid.Nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if params.Status != nil && !params.Status.IsValid() {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid status %q", *params.Status))
	}
	rows, next, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return rows, next, nil
}

// Cancel unwinds a not-yet-fulfilled order: stock restored per variant
// line and the status flipped, all in one transaction.
func (s *service) Cancel(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByIDAndUser(ctx, orderID, userID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if !Cancellable(order.Status) {
			return pkgerrors.New(pkgerrors.CodeBadTransition,
				fmt.Sprintf("order in status %q cannot be cancelled", order.Status))
		}

		for _, item := range order.Items {
			if item.VariantID == nil {
				continue
			}
			if err := s.stock.Release(ctx, tx, *item.VariantID, item.Quantity); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restore stock")
			}
		}

		return repo.UpdateFields(ctx, order.ID, map[string]any{
			"status": enums.OrderStatusCancelled,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, userID, orderID)
}

// SetStatus applies an administrative status change. Forward moves are
// unrestricted, refunds honour the lifecycle (no refunding a terminal
// order), and shippedAt/deliveredAt are stamped the first time their
// status is reached.
func (s *service) SetStatus(ctx context.Context, input SetStatusInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid status %q", input.Status))
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if input.Status == enums.OrderStatusRefunded && !CanTransition(order.Status, input.Status) {
			return pkgerrors.New(pkgerrors.CodeBadTransition,
				fmt.Sprintf("order in status %q cannot be refunded", order.Status))
		}

		fields := map[string]any{"status": input.Status}
		now := time.Now().UTC()
		if input.Status == enums.OrderStatusShipped && order.ShippedAt == nil {
			fields["shipped_at"] = now
		}
		if input.Status == enums.OrderStatusDelivered && order.DeliveredAt == nil {
			fields["delivered_at"] = now
		}
		if input.Notes != nil {
			fields["notes"] = *input.Notes
		}

		return repo.UpdateFields(ctx, order.ID, fields)
	})
	if err != nil {
		return nil, err
	}

	order, err := s.repo.FindByID(ctx, input.OrderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
	}
	return order, nil
}
