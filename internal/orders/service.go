package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rohanmalik/boutique-backend/pkg/db/models"
	"github.com/rohanmalik/boutique-backend/pkg/enums"
	pkgerrors "github.com/rohanmalik/boutique-backend/pkg/errors"
	"github.com/rohanmalik/boutique-backend/pkg/types"
)

// Service defines order reads for customers plus the admin back-office
// operations. Order creation happens in the checkout orchestrator.
type Service interface {
	ListMine(ctx context.Context, userID uuid.UUID) ([]View, error)
	GetMine(ctx context.Context, userID, orderID uuid.UUID) (*View, error)

	List(ctx context.Context, filters ListFilters) (*ListView, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*View, error)
	UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status enums.PaymentStatus) (*View, error)
	CountByStatus(ctx context.Context) (map[enums.OrderStatus]int64, error)
}

type service struct {
	repo Repository
}

// NewService builds the orders service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo}, nil
}

// ListMine returns the caller's order history, newest first.
func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]View, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to view orders")
	}

	records, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	views := make([]View, 0, len(records))
	for _, record := range records {
		views = append(views, buildView(&record))
	}
	return views, nil
}

// GetMine returns one of the caller's orders with its items.
func (s *service) GetMine(ctx context.Context, userID, orderID uuid.UUID) (*View, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to view orders")
	}
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	record, err := s.repo.FindByIDAndUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	view := buildView(record)
	return &view, nil
}

// List returns a filtered page of all orders for the back-office.
func (s *service) List(ctx context.Context, filters ListFilters) (*ListView, error) {
	records, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	views := make([]View, 0, len(records))
	for _, record := range records {
		views = append(views, buildView(&record))
	}
	return &ListView{Orders: views, Total: total}, nil
}

// UpdateStatus moves an order along the fulfillment lifecycle. Backwards and
// out-of-lifecycle moves are rejected with a state conflict.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*View, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	record, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if record.Status == status {
		view := buildView(record)
		return &view, nil
	}
	if !canTransitionStatus(record.Status, status) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", record.Status, status))
	}

	now := time.Now().UTC()
	updates := map[string]any{"status": status}
	switch status {
	case enums.OrderStatusDelivered:
		updates["delivered_at"] = now
		record.DeliveredAt = &now
	case enums.OrderStatusCancelled:
		updates["cancelled_at"] = now
		record.CancelledAt = &now
	}

	if err := s.repo.Update(ctx, record.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}

	record.Status = status
	view := buildView(record)
	return &view, nil
}

// UpdatePaymentStatus records money collection for a cash-on-delivery order.
func (s *service) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status enums.PaymentStatus) (*View, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
	}

	record, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if record.PaymentStatus == status {
		view := buildView(record)
		return &view, nil
	}
	if !canTransitionPayment(record.PaymentStatus, status) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move payment from %s to %s", record.PaymentStatus, status))
	}

	if err := s.repo.Update(ctx, record.ID, map[string]any{"payment_status": status}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment status")
	}

	record.PaymentStatus = status
	view := buildView(record)
	return &view, nil
}

// CountByStatus returns the back-office dashboard counts.
func (s *service) CountByStatus(ctx context.Context) (map[enums.OrderStatus]int64, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}
	return counts, nil
}

func canTransitionStatus(from, to enums.OrderStatus) bool {
	switch from {
	case enums.OrderStatusPending:
		return to == enums.OrderStatusProcessing || to == enums.OrderStatusCancelled
	case enums.OrderStatusProcessing:
		return to == enums.OrderStatusShipped || to == enums.OrderStatusCancelled
	case enums.OrderStatusShipped:
		return to == enums.OrderStatusDelivered
	default:
		// delivered, cancelled and failed are terminal.
		return false
	}
}

func canTransitionPayment(from, to enums.PaymentStatus) bool {
	switch from {
	case enums.PaymentStatusPending:
		return to == enums.PaymentStatusPaid
	case enums.PaymentStatusPaid:
		return to == enums.PaymentStatusRefunded
	default:
		return false
	}
}

// NewView shapes a stored order for the UI. The checkout orchestrator uses it
// to return the freshly placed order.
func NewView(record *models.Order) View {
	return buildView(record)
}

func buildView(record *models.Order) View {
	view := View{
		ID:              record.ID,
		OrderNumber:     record.OrderNumber,
		Status:          record.Status,
		PaymentMethod:   record.PaymentMethod,
		PaymentStatus:   record.PaymentStatus,
		ShippingAddress: record.ShippingAddress,
		BillingAddress:  record.BillingAddress,
		Notes:           record.Notes,
		SubtotalPaise:   record.SubtotalPaise,
		TotalPaise:      record.TotalPaise,
		Total:           types.RupeesFromPaise(int64(record.TotalPaise)),
		DeliveredAt:     record.DeliveredAt,
		CancelledAt:     record.CancelledAt,
		CreatedAt:       record.CreatedAt,
	}

	for _, item := range record.Items {
		view.ItemCount += item.Qty
		view.Items = append(view.Items, ItemView{
			ID:             item.ID,
			ProductID:      item.ProductID,
			Name:           item.Name,
			Size:           item.Size,
			Color:          item.Color,
			Image:          item.Image,
			Quantity:       item.Qty,
			UnitPricePaise: item.UnitPricePaise,
			UnitPrice:      types.RupeesFromPaise(int64(item.UnitPricePaise)),
			TotalPaise:     item.TotalPaise,
			Total:          types.RupeesFromPaise(int64(item.TotalPaise)),
		})
	}

	return view
}
