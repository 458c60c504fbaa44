package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rohanmalik/boutique-backend/pkg/db/models"
	pkgerrors "github.com/rohanmalik/boutique-backend/pkg/errors"
	"github.com/rohanmalik/boutique-backend/pkg/types"
)

const stockWarning = "requested quantity exceeds available stock"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	GetActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes cart operations for the signed-in customer.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*View, error)
	AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*View, error)
	UpdateQuantity(ctx context.Context, userID uuid.UUID, key VariantKey, quantity int) (*View, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, key VariantKey) (*View, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo     CartRepository
	tx       txRunner
	products productLoader
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo CartRepository, tx txRunner, products productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		products: products,
	}, nil
}

// VariantKey identifies one cart line: the same product in a different size or
// color is a separate line.
type VariantKey struct {
	ProductID uuid.UUID
	Size      string
	Color     string
}

// AddItemInput captures the payload for adding a product to the cart.
type AddItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	Size      string
	Color     string
}

// ItemView is one cart line shaped for the UI.
type ItemView struct {
	ID               uuid.UUID              `json:"id"`
	ProductID        uuid.UUID              `json:"product_id"`
	Name             string                 `json:"name"`
	Size             string                 `json:"size,omitempty"`
	Color            string                 `json:"color,omitempty"`
	Image            *string                `json:"image,omitempty"`
	Quantity         int                    `json:"quantity"`
	UnitPricePaise   int                    `json:"unit_price_paise"`
	UnitPrice        decimal.Decimal        `json:"unit_price"`
	LineTotalPaise   int                    `json:"line_total_paise"`
	LineTotal        decimal.Decimal        `json:"line_total"`
	Warnings         types.CartItemWarnings `json:"warnings,omitempty"`
}

// View is the cart presented to the UI. Totals are always derived from the
// lines at read time; nothing stores a cached total.
type View struct {
	Items      []ItemView      `json:"items"`
	ItemCount  int             `json:"item_count"`
	TotalPaise int             `json:"total_paise"`
	Total      decimal.Decimal `json:"total"`
}

// Get returns the current cart, creating an empty one on first read.
func (s *service) Get(ctx context.Context, userID uuid.UUID) (*View, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to use the cart")
	}

	record, err := s.repo.FindOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return buildView(record), nil
}

// AddItem adds a product variant to the cart. Adding the same variant again
// merges quantities into the existing line instead of duplicating it.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*View, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to use the cart")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.products.GetActiveByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	size := strings.TrimSpace(input.Size)
	color := strings.TrimSpace(input.Color)
	if err := validateVariant(product, size, color); err != nil {
		return nil, err
	}

	record, err := s.repo.FindOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		existing, err := repo.FindItemByVariant(ctx, record.ID, product.ID, size, color)
		switch {
		case err == nil:
			existing.Quantity += input.Quantity
			existing.Warnings = stockWarnings(product, existing.Quantity)
			_, err = repo.UpdateItem(ctx, existing)
			return err

		case errors.Is(err, gorm.ErrRecordNotFound):
			var image *string
			if len(product.Images) > 0 {
				image = &product.Images[0]
			}
			line := &models.CartItem{
				CartID:         record.ID,
				ProductID:      product.ID,
				Size:           size,
				Color:          color,
				Quantity:       input.Quantity,
				Name:           product.Name,
				UnitPricePaise: product.PricePaise,
				Image:          image,
				Warnings:       stockWarnings(product, input.Quantity),
			}
			_, err = repo.CreateItem(ctx, line)
			return err

		default:
			return err
		}
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart line")
	}

	return s.Get(ctx, userID)
}

// UpdateQuantity sets the quantity on an existing line. Anything below one
// removes the line entirely.
func (s *service) UpdateQuantity(ctx context.Context, userID uuid.UUID, key VariantKey, quantity int) (*View, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to use the cart")
	}
	if quantity < 1 {
		return s.RemoveItem(ctx, userID, key)
	}

	record, err := s.repo.FindOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	item, err := s.repo.FindItemByVariant(ctx, record.ID, key.ProductID, key.Size, key.Color)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
	}

	item.Quantity = quantity
	item.Warnings = s.refreshStockWarnings(ctx, key.ProductID, quantity, item.Warnings)
	if _, err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
	}

	return s.Get(ctx, userID)
}

// RemoveItem deletes the line. Removing a line that is already gone succeeds.
func (s *service) RemoveItem(ctx context.Context, userID uuid.UUID, key VariantKey) (*View, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to use the cart")
	}

	record, err := s.repo.FindOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	item, err := s.repo.FindItemByVariant(ctx, record.ID, key.ProductID, key.Size, key.Color)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.Get(ctx, userID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
	}

	if err := s.repo.DeleteItem(ctx, item.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart item")
	}

	return s.Get(ctx, userID)
}

// Clear empties the cart.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to use the cart")
	}

	record, err := s.repo.FindOrCreateByUser(ctx, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	if err := s.repo.DeleteItemsByCart(ctx, record.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

// refreshStockWarnings recomputes the stock warning against current inventory.
// Inventory load failures keep the previous warnings; the cart stays usable.
func (s *service) refreshStockWarnings(ctx context.Context, productID uuid.UUID, quantity int, previous types.CartItemWarnings) types.CartItemWarnings {
	product, err := s.products.GetActiveByID(ctx, productID)
	if err != nil {
		return previous
	}
	return stockWarnings(product, quantity)
}

func validateVariant(product *models.Product, size, color string) error {
	if len(product.Sizes) > 0 && !containsFold(product.Sizes, size) {
		return pkgerrors.New(pkgerrors.CodeValidation, "select an available size")
	}
	if len(product.Colors) > 0 && !containsFold(product.Colors, color) {
		return pkgerrors.New(pkgerrors.CodeValidation, "select an available color")
	}
	return nil
}

// stockWarnings flags over-stock lines. Low stock never blocks the add; it is
// surfaced as a display warning only.
func stockWarnings(product *models.Product, quantity int) types.CartItemWarnings {
	var warnings types.CartItemWarnings
	if quantity > product.StockQty {
		warnings = warnings.Add(stockWarning)
	}
	return warnings
}

func containsFold(candidates []string, value string) bool {
	for _, candidate := range candidates {
		if strings.EqualFold(candidate, value) {
			return true
		}
	}
	return false
}

func buildView(record *models.Cart) *View {
	view := &View{
		Items:      make([]ItemView, 0, len(record.Items)),
		ItemCount:  record.ItemCount(),
		TotalPaise: record.SubtotalPaise(),
	}
	view.Total = types.RupeesFromPaise(int64(view.TotalPaise))

	for _, item := range record.Items {
		lineTotal := item.LineSubtotalPaise()
		view.Items = append(view.Items, ItemView{
			ID:             item.ID,
			ProductID:      item.ProductID,
			Name:           item.Name,
			Size:           item.Size,
			Color:          item.Color,
			Image:          item.Image,
			Quantity:       item.Quantity,
			UnitPricePaise: item.UnitPricePaise,
			UnitPrice:      types.RupeesFromPaise(int64(item.UnitPricePaise)),
			LineTotalPaise: lineTotal,
			LineTotal:      types.RupeesFromPaise(int64(lineTotal)),
			Warnings:       item.Warnings,
		})
	}

	return view
}
