package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/rohanmalik/boutique-backend/pkg/db/models"
	pkgerrors "github.com/rohanmalik/boutique-backend/pkg/errors"
)

type repo interface {
	Create(ctx context.Context, record *models.Product) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, input ListInput) ([]models.Product, int64, error)
}

// Service exposes the storefront catalog plus the admin product operations.
type Service interface {
	List(ctx context.Context, input ListInput) (*ListResult, error)
	Get(ctx context.Context, id uuid.UUID) (*View, error)

	AdminList(ctx context.Context, input ListInput) (*ListResult, error)
	AdminGet(ctx context.Context, id uuid.UUID) (*View, error)
	Create(ctx context.Context, input CreateInput) (*View, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*View, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo repo
}

// NewService constructs a product service instance.
func NewService(repository repo) (Service, error) {
	if repository == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repository}, nil
}

// List returns the storefront catalog: active products only.
func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	input.IncludeInactive = false
	return s.list(ctx, input)
}

// Get returns one storefront product; inactive products read as missing.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*View, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	record, err := s.repo.GetActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	view := buildView(record)
	return &view, nil
}

// AdminList returns the catalog for the back-office, inactive rows included.
func (s *service) AdminList(ctx context.Context, input ListInput) (*ListResult, error) {
	input.IncludeInactive = true
	return s.list(ctx, input)
}

// AdminGet returns one product regardless of its active flag.
func (s *service) AdminGet(ctx context.Context, id uuid.UUID) (*View, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	view := buildView(record)
	return &view, nil
}

// Create adds a product to the catalog.
func (s *service) Create(ctx context.Context, input CreateInput) (*View, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	record := &models.Product{
		Name:                strings.TrimSpace(input.Name),
		Description:         input.Description,
		Category:            strings.TrimSpace(input.Category),
		PricePaise:          input.PricePaise,
		CompareAtPricePaise: input.CompareAtPricePaise,
		Images:              pq.StringArray(input.Images),
		Sizes:               pq.StringArray(input.Sizes),
		Colors:              pq.StringArray(input.Colors),
		StockQty:            input.StockQty,
		IsActive:            input.IsActive,
		IsFeatured:          input.IsFeatured,
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert product")
	}

	view := buildView(created)
	return &view, nil
}

// Update applies the provided fields to an existing product.
func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*View, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	updates, err := buildUpdates(input)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return s.AdminGet(ctx, id)
	}

	record, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	view := buildView(record)
	return &view, nil
}

// Delete removes a product. Lines already in carts keep their snapshots.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) list(ctx context.Context, input ListInput) (*ListResult, error) {
	records, total, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	views := make([]View, 0, len(records))
	for _, record := range records {
		views = append(views, buildView(&record))
	}
	return &ListResult{Products: views, Total: total}, nil
}

func validateCreate(input CreateInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(input.Category) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	if input.PricePaise < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.CompareAtPricePaise != nil && *input.CompareAtPricePaise < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "compare-at price cannot be negative")
	}
	if input.StockQty < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	return nil
}

func buildUpdates(input UpdateInput) (map[string]any, error) {
	updates := map[string]any{}
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be blank")
		}
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Category != nil {
		if strings.TrimSpace(*input.Category) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category cannot be blank")
		}
		updates["category"] = strings.TrimSpace(*input.Category)
	}
	if input.PricePaise != nil {
		if *input.PricePaise < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		updates["price_paise"] = *input.PricePaise
	}
	if input.CompareAtPricePaise != nil {
		if *input.CompareAtPricePaise < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "compare-at price cannot be negative")
		}
		updates["compare_at_price_paise"] = *input.CompareAtPricePaise
	}
	if input.Images != nil {
		updates["images"] = toStringArray(*input.Images)
	}
	if input.Sizes != nil {
		updates["sizes"] = toStringArray(*input.Sizes)
	}
	if input.Colors != nil {
		updates["colors"] = toStringArray(*input.Colors)
	}
	if input.StockQty != nil {
		if *input.StockQty < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
		}
		updates["stock_qty"] = *input.StockQty
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if input.IsFeatured != nil {
		updates["is_featured"] = *input.IsFeatured
	}
	return updates, nil
}

func toStringArray(values []string) pq.StringArray {
	return pq.StringArray(values)
}
