package controllers

import (
	"net/http"

	"github.com/petitmarche/backend/api/responses"
	"github.com/petitmarche/backend/api/validators"
	internalorders "github.com/petitmarche/backend/internal/orders"
	"github.com/petitmarche/backend/pkg/enums"
	pkgerrors "github.com/petitmarche/backend/pkg/errors"
	"github.com/petitmarche/backend/pkg/logger"
)

// AdminSetOrderStatus moves an order along the fulfilment lifecycle.
func AdminSetOrderStatus(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := parseIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload adminSetStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseOrderStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		order, err := svc.SetStatus(r.Context(), internalorders.SetStatusInput{
			OrderID: orderID,
			Status:  status,
			Notes:   payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalorders.ToView(*order))
	}
}

type adminSetStatusRequest struct {
	Status string  `json:"status" validate:"required"`
	Notes  *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}
