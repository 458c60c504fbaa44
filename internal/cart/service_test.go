package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rohanmalik/boutique-backend/pkg/db/models"
	pkgerrors "github.com/rohanmalik/boutique-backend/pkg/errors"
)

func TestAddItemRequiresIdentity(t *testing.T) {
	t.Parallel()

	svc := newTestService(newStubRepo(), stubProducts{})
	_, err := svc.AddItem(context.Background(), uuid.Nil, AddItemInput{ProductID: uuid.New(), Quantity: 1})
	if err == nil {
		t.Fatal("expected error for missing identity")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("unexpected error code: %v", err)
	}
}

func TestAddItemMergesSameVariant(t *testing.T) {
	t.Parallel()

	product := testProduct("Silk Kurta", 150000, 10)
	repo := newStubRepo()
	svc := newTestService(repo, stubProducts{product: product})
	userID := uuid.New()
	ctx := context.Background()

	input := AddItemInput{ProductID: product.ID, Quantity: 1, Size: "M", Color: "Teal"}
	if _, err := svc.AddItem(ctx, userID, input); err != nil {
		t.Fatalf("first add: %v", err)
	}
	view, err := svc.AddItem(ctx, userID, input)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if len(view.Items) != 1 {
		t.Fatalf("expected a single merged line, got %d", len(view.Items))
	}
	if view.Items[0].Quantity != 2 {
		t.Fatalf("expected merged quantity 2, got %d", view.Items[0].Quantity)
	}
}

func TestAddItemDifferentSizeCreatesNewLine(t *testing.T) {
	t.Parallel()

	product := testProduct("Silk Kurta", 150000, 10)
	repo := newStubRepo()
	svc := newTestService(repo, stubProducts{product: product})
	userID := uuid.New()
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, userID, AddItemInput{ProductID: product.ID, Quantity: 1, Size: "M", Color: "Teal"}); err != nil {
		t.Fatalf("add M: %v", err)
	}
	view, err := svc.AddItem(ctx, userID, AddItemInput{ProductID: product.ID, Quantity: 1, Size: "L", Color: "Teal"})
	if err != nil {
		t.Fatalf("add L: %v", err)
	}

	if len(view.Items) != 2 {
		t.Fatalf("expected two lines for distinct sizes, got %d", len(view.Items))
	}
}

func TestCartTotalIsDerivedFromLines(t *testing.T) {
	t.Parallel()

	kurta := testProduct("Silk Kurta", 150000, 10)
	dupatta := testProduct("Block Print Dupatta", 80000, 10)
	dupatta.Sizes = nil
	dupatta.Colors = nil

	repo := newStubRepo()
	svc := newTestService(repo, stubProducts{byID: map[uuid.UUID]*models.Product{
		kurta.ID:   kurta,
		dupatta.ID: dupatta,
	}})
	userID := uuid.New()
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, userID, AddItemInput{ProductID: kurta.ID, Quantity: 2, Size: "M", Color: "Teal"}); err != nil {
		t.Fatalf("add kurta: %v", err)
	}
	view, err := svc.AddItem(ctx, userID, AddItemInput{ProductID: dupatta.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("add dupatta: %v", err)
	}

	if view.TotalPaise != 380000 {
		t.Fatalf("expected total 380000 paise, got %d", view.TotalPaise)
	}
	if view.Total.StringFixed(2) != "3800.00" {
		t.Fatalf("expected display total 3800.00, got %s", view.Total.StringFixed(2))
	}
	if view.ItemCount != 3 {
		t.Fatalf("expected item count 3, got %d", view.ItemCount)
	}
}

func TestUpdateQuantityBelowOneRemovesLine(t *testing.T) {
	t.Parallel()

	product := testProduct("Silk Kurta", 150000, 10)
	repo := newStubRepo()
	svc := newTestService(repo, stubProducts{product: product})
	userID := uuid.New()
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, userID, AddItemInput{ProductID: product.ID, Quantity: 2, Size: "M", Color: "Teal"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	key := VariantKey{ProductID: product.ID, Size: "M", Color: "Teal"}
	view, err := svc.UpdateQuantity(ctx, userID, key, 0)
	if err != nil {
		t.Fatalf("update to zero: %v", err)
	}
	if len(view.Items) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(view.Items))
	}
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	t.Parallel()

	product := testProduct("Silk Kurta", 150000, 10)
	repo := newStubRepo()
	svc := newTestService(repo, stubProducts{product: product})
	userID := uuid.New()
	ctx := context.Background()

	key := VariantKey{ProductID: product.ID, Size: "M", Color: "Teal"}
	view, err := svc.RemoveItem(ctx, userID, key)
	if err != nil {
		t.Fatalf("remove on empty cart: %v", err)
	}
	if len(view.Items) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(view.Items))
	}
}

func TestAddItemSnapshotsPriceAtAddTime(t *testing.T) {
	t.Parallel()

	product := testProduct("Silk Kurta", 150000, 10)
	repo := newStubRepo()
	products := &mutableProducts{product: product}
	svc := newTestService(repo, products)
	userID := uuid.New()
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, userID, AddItemInput{ProductID: product.ID, Quantity: 1, Size: "M", Color: "Teal"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	// A later catalog price change must not touch the existing line.
	products.product.PricePaise = 999900
	view, err := svc.Get(ctx, userID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if view.Items[0].UnitPricePaise != 150000 {
		t.Fatalf("expected snapshotted price 150000, got %d", view.Items[0].UnitPricePaise)
	}
}

func TestAddItemOverStockAttachesWarning(t *testing.T) {
	t.Parallel()

	product := testProduct("Silk Kurta", 150000, 1)
	repo := newStubRepo()
	svc := newTestService(repo, stubProducts{product: product})
	userID := uuid.New()

	view, err := svc.AddItem(context.Background(), userID, AddItemInput{ProductID: product.ID, Quantity: 3, Size: "M", Color: "Teal"})
	if err != nil {
		t.Fatalf("over-stock add should succeed: %v", err)
	}
	if len(view.Items[0].Warnings) != 1 {
		t.Fatalf("expected a stock warning, got %v", view.Items[0].Warnings)
	}
}

func TestAddItemRejectsUnknownVariant(t *testing.T) {
	t.Parallel()

	product := testProduct("Silk Kurta", 150000, 10)
	svc := newTestService(newStubRepo(), stubProducts{product: product})

	_, err := svc.AddItem(context.Background(), uuid.New(), AddItemInput{ProductID: product.ID, Quantity: 1, Size: "XXL", Color: "Teal"})
	if err == nil {
		t.Fatal("expected error for unavailable size")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error code: %v", err)
	}
}

func newTestService(repo CartRepository, products productLoader) Service {
	svc, err := NewService(repo, stubTxRunner{}, products)
	if err != nil {
		panic(err)
	}
	return svc
}

func testProduct(name string, pricePaise, stock int) *models.Product {
	return &models.Product{
		ID:         uuid.New(),
		Name:       name,
		Category:   "kurtas",
		PricePaise: pricePaise,
		Sizes:      []string{"S", "M", "L"},
		Colors:     []string{"Teal", "Rust"},
		StockQty:   stock,
		IsActive:   true,
	}
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubProducts struct {
	product *models.Product
	byID    map[uuid.UUID]*models.Product
}

func (s stubProducts) GetActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if s.byID != nil {
		if p, ok := s.byID[id]; ok {
			return p, nil
		}
		return nil, gorm.ErrRecordNotFound
	}
	if s.product != nil && s.product.ID == id {
		return s.product, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type mutableProducts struct {
	product *models.Product
}

func (m *mutableProducts) GetActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if m.product != nil && m.product.ID == id {
		return m.product, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubRepo struct {
	carts map[uuid.UUID]*models.Cart
	items map[uuid.UUID]*models.CartItem
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		carts: make(map[uuid.UUID]*models.Cart),
		items: make(map[uuid.UUID]*models.CartItem),
	}
}

func (s *stubRepo) WithTx(tx *gorm.DB) CartRepository { return s }

func (s *stubRepo) FindOrCreateByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if record, ok := s.carts[userID]; ok {
		return s.withItems(record), nil
	}
	record := &models.Cart{ID: uuid.New(), UserID: userID}
	s.carts[userID] = record
	return s.withItems(record), nil
}

func (s *stubRepo) FindByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if record, ok := s.carts[userID]; ok {
		return s.withItems(record), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) FindItemByVariant(ctx context.Context, cartID, productID uuid.UUID, size, color string) (*models.CartItem, error) {
	for _, item := range s.items {
		if item.CartID == cartID && item.ProductID == productID && item.Size == size && item.Color == color {
			return item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) CreateItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	s.items[item.ID] = item
	return item, nil
}

func (s *stubRepo) UpdateItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	s.items[item.ID] = item
	return item, nil
}

func (s *stubRepo) DeleteItem(ctx context.Context, id uuid.UUID) error {
	delete(s.items, id)
	return nil
}

func (s *stubRepo) DeleteItemsByCart(ctx context.Context, cartID uuid.UUID) error {
	for id, item := range s.items {
		if item.CartID == cartID {
			delete(s.items, id)
		}
	}
	return nil
}

func (s *stubRepo) withItems(record *models.Cart) *models.Cart {
	copied := *record
	copied.Items = nil
	for _, item := range s.items {
		if item.CartID == record.ID {
			copied.Items = append(copied.Items, *item)
		}
	}
	return &copied
}
