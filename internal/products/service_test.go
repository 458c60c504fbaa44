package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rohanmalik/boutique-backend/pkg/db/models"
	pkgerrors "github.com/rohanmalik/boutique-backend/pkg/errors"
)

func TestStorefrontListFiltersInactive(t *testing.T) {
	t.Parallel()

	repo := newStubRepo(
		catalogProduct("Silk Kurta", "kurtas", true, false),
		catalogProduct("Old Stock Saree", "sarees", false, false),
	)
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	result, err := svc.List(context.Background(), ListInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.Products) != 1 {
		t.Fatalf("expected only active products, got %d", len(result.Products))
	}
	if result.Products[0].Name != "Silk Kurta" {
		t.Fatalf("unexpected product %s", result.Products[0].Name)
	}

	adminResult, err := svc.AdminList(context.Background(), ListInput{})
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(adminResult.Products) != 2 {
		t.Fatalf("expected admin list to include inactive, got %d", len(adminResult.Products))
	}
}

func TestStorefrontListFeaturedFilter(t *testing.T) {
	t.Parallel()

	repo := newStubRepo(
		catalogProduct("Silk Kurta", "kurtas", true, true),
		catalogProduct("Cotton Kurta", "kurtas", true, false),
	)
	svc, _ := NewService(repo)

	featured := true
	result, err := svc.List(context.Background(), ListInput{Featured: &featured})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.Products) != 1 || !result.Products[0].IsFeatured {
		t.Fatalf("expected one featured product, got %+v", result.Products)
	}
}

func TestGetHidesInactiveProduct(t *testing.T) {
	t.Parallel()

	hidden := catalogProduct("Old Stock Saree", "sarees", false, false)
	repo := newStubRepo(hidden)
	svc, _ := NewService(repo)

	_, err := svc.Get(context.Background(), hidden.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for inactive product, got %v", err)
	}

	view, err := svc.AdminGet(context.Background(), hidden.ID)
	if err != nil {
		t.Fatalf("admin get: %v", err)
	}
	if view.IsActive {
		t.Fatal("expected inactive flag in admin view")
	}
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(newStubRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Category: "kurtas", PricePaise: 100})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for missing name, got %v", err)
	}

	_, err = svc.Create(ctx, CreateInput{Name: "Silk Kurta", Category: "kurtas", PricePaise: -1})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for negative price, got %v", err)
	}
}

func TestCreateAndUpdateRoundTrip(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	svc, _ := NewService(repo)
	ctx := context.Background()

	view, err := svc.Create(ctx, CreateInput{
		Name:       "Silk Kurta",
		Category:   "kurtas",
		PricePaise: 150000,
		Sizes:      []string{"S", "M", "L"},
		Colors:     []string{"Teal"},
		StockQty:   10,
		IsActive:   true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if view.Price.StringFixed(2) != "1500.00" {
		t.Fatalf("expected display price 1500.00, got %s", view.Price.StringFixed(2))
	}

	newPrice := 175000
	updated, err := svc.Update(ctx, view.ID, UpdateInput{PricePaise: &newPrice})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.PricePaise != 175000 {
		t.Fatalf("expected updated price, got %d", updated.PricePaise)
	}
}

func TestUpdateMissingProduct(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(newStubRepo())

	name := "Renamed"
	_, err := svc.Update(context.Background(), uuid.New(), UpdateInput{Name: &name})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func catalogProduct(name, category string, active, featured bool) *models.Product {
	return &models.Product{
		ID:         uuid.New(),
		Name:       name,
		Category:   category,
		PricePaise: 100000,
		StockQty:   5,
		IsActive:   active,
		IsFeatured: featured,
	}
}

type stubRepo struct {
	records map[uuid.UUID]*models.Product
}

func newStubRepo(seed ...*models.Product) *stubRepo {
	records := make(map[uuid.UUID]*models.Product, len(seed))
	for _, record := range seed {
		records[record.ID] = record
	}
	return &stubRepo{records: records}
}

func (s *stubRepo) Create(ctx context.Context, record *models.Product) (*models.Product, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	s.records[record.ID] = record
	return record, nil
}

func (s *stubRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Product, error) {
	record, ok := s.records[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if price, ok := updates["price_paise"].(int); ok {
		record.PricePaise = price
	}
	if name, ok := updates["name"].(string); ok {
		record.Name = name
	}
	if active, ok := updates["is_active"].(bool); ok {
		record.IsActive = active
	}
	return record, nil
}

func (s *stubRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.records[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.records, id)
	return nil
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if record, ok := s.records[id]; ok {
		return record, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) GetActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if record, ok := s.records[id]; ok && record.IsActive {
		return record, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) List(ctx context.Context, input ListInput) ([]models.Product, int64, error) {
	var list []models.Product
	for _, record := range s.records {
		if !input.IncludeInactive && !record.IsActive {
			continue
		}
		if input.Category != nil && record.Category != *input.Category {
			continue
		}
		if input.Featured != nil && record.IsFeatured != *input.Featured {
			continue
		}
		list = append(list, *record)
	}
	return list, int64(len(list)), nil
}
