package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rohanmalik/boutique-backend/api/responses"
	"github.com/rohanmalik/boutique-backend/api/validators"
	ordersvc "github.com/rohanmalik/boutique-backend/internal/orders"
	"github.com/rohanmalik/boutique-backend/pkg/enums"
	pkgerrors "github.com/rohanmalik/boutique-backend/pkg/errors"
	"github.com/rohanmalik/boutique-backend/pkg/logger"
)

type orderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type paymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required"`
}

// AdminOrderList returns a filtered page of all orders.
func AdminOrderList(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		filters, err := parseOrderListFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// AdminOrderStatus moves an order along the fulfillment lifecycle.
func AdminOrderStatus(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		var body orderStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseOrderStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status"))
			return
		}

		view, err := svc.UpdateStatus(r.Context(), orderID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// AdminOrderPayment records money collection for an order.
func AdminOrderPayment(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		var body paymentStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParsePaymentStatus(body.PaymentStatus)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status"))
			return
		}

		view, err := svc.UpdatePaymentStatus(r.Context(), orderID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// AdminOrderCounts returns the dashboard totals per fulfillment status.
func AdminOrderCounts(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		counts, err := svc.CountByStatus(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"counts": counts})
	}
}

func parseOrderListFilters(r *http.Request) (ordersvc.ListFilters, error) {
	limit, err := validators.ParseQueryInt(r, "limit", defaultPageSize, 1, maxPageSize)
	if err != nil {
		return ordersvc.ListFilters{}, err
	}
	offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
	if err != nil {
		return ordersvc.ListFilters{}, err
	}

	filters := ordersvc.ListFilters{Limit: limit, Offset: offset}

	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, err := enums.ParseOrderStatus(raw)
		if err != nil {
			return ordersvc.ListFilters{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status")
		}
		filters.Status = &status
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("payment_status")); raw != "" {
		status, err := enums.ParsePaymentStatus(raw)
		if err != nil {
			return ordersvc.ListFilters{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status")
		}
		filters.PaymentStatus = &status
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("user_id")); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			return ordersvc.ListFilters{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
		}
		filters.UserID = &userID
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("date_from")); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return ordersvc.ListFilters{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date_from")
		}
		filters.DateFrom = &from
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("date_to")); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return ordersvc.ListFilters{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date_to")
		}
		filters.DateTo = &to
	}

	return filters, nil
}
