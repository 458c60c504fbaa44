package checkout

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rohanmalik/boutique-backend/internal/cart"
	"github.com/rohanmalik/boutique-backend/internal/orders"
	"github.com/rohanmalik/boutique-backend/pkg/db/models"
	"github.com/rohanmalik/boutique-backend/pkg/enums"
	pkgerrors "github.com/rohanmalik/boutique-backend/pkg/errors"
	"github.com/rohanmalik/boutique-backend/pkg/logger"
)

type cartAccess interface {
	Get(ctx context.Context, userID uuid.UUID) (*cart.View, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type productLoader interface {
	GetActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type emailLoader interface {
	EmailByID(ctx context.Context, id uuid.UUID) (string, error)
}

type submitGuard interface {
	Acquire(ctx context.Context, userID uuid.UUID) (bool, error)
	Release(ctx context.Context, userID uuid.UUID)
	NextOrderNumber(ctx context.Context) (string, error)
}

// Service orchestrates checkout: it guards the form and cart, writes the order
// and its lines, and clears the cart on success.
type Service interface {
	Open(ctx context.Context, userID uuid.UUID) (*Session, error)
	Submit(ctx context.Context, userID uuid.UUID, form Form) (*Result, error)
}

// Result reports where a submit ended up.
type Result struct {
	State enums.CheckoutState `json:"state"`
	Order *orders.View        `json:"order,omitempty"`
}

type service struct {
	carts      cartAccess
	ordersRepo orders.Repository
	products   productLoader
	emails     emailLoader
	guard      submitGuard
	logg       *logger.Logger
}

// NewService builds the checkout orchestrator.
func NewService(
	carts cartAccess,
	ordersRepo orders.Repository,
	products productLoader,
	emails emailLoader,
	guard submitGuard,
	logg *logger.Logger,
) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart access required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if guard == nil {
		return nil, fmt.Errorf("submit guard required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		carts:      carts,
		ordersRepo: ordersRepo,
		products:   products,
		emails:     emails,
		guard:      guard,
		logg:       logg,
	}, nil
}

// Open starts a session and pre-fills the form email from the identity.
func (s *service) Open(ctx context.Context, userID uuid.UUID) (*Session, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to check out")
	}

	session := NewSession()
	email := ""
	if s.emails != nil {
		if value, err := s.emails.EmailByID(ctx, userID); err == nil {
			email = value
		}
	}
	if err := session.Open(email); err != nil {
		return nil, err
	}
	return session, nil
}

// Submit walks one checkout attempt through the state machine. Guard failures
// leave the session in FormOpen with nothing persisted; persistence failures
// end in Failed with the cart intact for retry.
func (s *service) Submit(ctx context.Context, userID uuid.UUID, form Form) (*Result, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to check out")
	}

	session := NewSession()
	if err := session.Open(form.Email); err != nil {
		return nil, err
	}
	if err := session.beginSubmit(form); err != nil {
		return nil, err
	}

	acquired, err := s.guard.Acquire(ctx, userID)
	if err != nil {
		session.reopen()
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire checkout guard")
	}
	if !acquired {
		session.reopen()
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "checkout already in progress")
	}
	defer s.guard.Release(ctx, userID)

	// Form and cart guards run before anything touches storage.
	if err := form.Validate(); err != nil {
		session.reopen()
		return nil, err
	}
	cartView, err := s.carts.Get(ctx, userID)
	if err != nil {
		session.reopen()
		return nil, err
	}
	if len(cartView.Items) == 0 {
		session.reopen()
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	ctx = s.logg.WithUserID(ctx, userID.String())
	order, err := s.placeOrder(ctx, userID, form, cartView)
	if err != nil {
		session.fail()
		return &Result{State: session.State}, err
	}

	if err := s.carts.Clear(ctx, userID); err != nil {
		session.fail()
		s.logg.Error(s.logg.WithOrderID(ctx, order.ID.String()), "clear cart after checkout failed", err)
		return &Result{State: session.State}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}

	session.succeed()
	s.logg.Info(s.logg.WithOrderID(ctx, order.ID.String()), "checkout completed")

	view := orders.NewView(order)
	return &Result{State: session.State, Order: &view}, nil
}

// placeOrder writes the order row and its lines. The collaborator offers no
// multi-row transaction here, so a line-item failure compensates by marking
// the order failed instead of leaving an orphaned pending row.
func (s *service) placeOrder(ctx context.Context, userID uuid.UUID, form Form, cartView *cart.View) (*models.Order, error) {
	items, totalPaise, err := s.buildItems(ctx, cartView)
	if err != nil {
		return nil, err
	}

	sum := 0
	for _, item := range items {
		sum += item.TotalPaise
	}
	if sum != totalPaise {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order total does not match line totals")
	}

	// One form collects both addresses; shipping and billing store the same
	// snapshot.
	address := form.Snapshot()
	billing := address
	notes := strings.TrimSpace(form.Notes)
	var notesPtr *string
	if notes != "" {
		notesPtr = &notes
	}

	order := &models.Order{
		UserID:          userID,
		OrderNumber:     s.orderNumber(ctx),
		Status:          enums.OrderStatusPending,
		PaymentMethod:   enums.PaymentMethodCOD,
		PaymentStatus:   enums.PaymentStatusPending,
		ShippingAddress: &address,
		BillingAddress:  &billing,
		SubtotalPaise:   totalPaise,
		TotalPaise:      totalPaise,
		Notes:           notesPtr,
	}

	created, err := s.ordersRepo.Create(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	for i := range items {
		items[i].OrderID = created.ID
	}
	if err := s.ordersRepo.CreateItems(ctx, items); err != nil {
		s.compensate(ctx, created.ID)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
	}

	created.Items = items
	return created, nil
}

// buildItems snapshots one order line per cart line, pinning the price to the
// product's price at submission time. A product that left the catalog since
// the add keeps its cart-time price.
func (s *service) buildItems(ctx context.Context, cartView *cart.View) ([]models.OrderItem, int, error) {
	items := make([]models.OrderItem, 0, len(cartView.Items))
	total := 0

	for _, line := range cartView.Items {
		pricePaise := line.UnitPricePaise
		if product, err := s.products.GetActiveByID(ctx, line.ProductID); err == nil {
			pricePaise = product.PricePaise
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}

		lineTotal := pricePaise * line.Quantity
		total += lineTotal

		productID := line.ProductID
		item := models.OrderItem{
			ProductID:      &productID,
			Name:           line.Name,
			UnitPricePaise: pricePaise,
			Qty:            line.Quantity,
			TotalPaise:     lineTotal,
			Image:          line.Image,
		}
		if line.Size != "" {
			size := line.Size
			item.Size = &size
		}
		if line.Color != "" {
			color := line.Color
			item.Color = &color
		}
		items = append(items, item)
	}

	return items, total, nil
}

// compensate marks the order failed after a partial write. Best effort; a
// failure here is logged and the TTL'd guard still releases.
func (s *service) compensate(ctx context.Context, orderID uuid.UUID) {
	updates := map[string]any{"status": enums.OrderStatusFailed}
	if err := s.ordersRepo.Update(ctx, orderID, updates); err != nil {
		s.logg.Error(s.logg.WithOrderID(ctx, orderID.String()), "mark order failed after partial write", err)
	}
}

func (s *service) orderNumber(ctx context.Context) string {
	number, err := s.guard.NextOrderNumber(ctx)
	if err == nil {
		return number
	}
	s.logg.Warn(ctx, "order number sequence unavailable, falling back to random")

	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("ORD-%d", time.Now().UnixNano())
	}
	return fmt.Sprintf("ORD-%s-%s", time.Now().UTC().Format("20060102"), hex.EncodeToString(buf))
}
