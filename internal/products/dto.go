package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rohanmalik/boutique-backend/pkg/db/models"
	"github.com/rohanmalik/boutique-backend/pkg/types"
)

// CreateInput holds the validated payload to create a product.
type CreateInput struct {
	Name                string
	Description         *string
	Category            string
	PricePaise          int
	CompareAtPricePaise *int
	Images              []string
	Sizes               []string
	Colors              []string
	StockQty            int
	IsActive            bool
	IsFeatured          bool
}

// UpdateInput holds optional mutation values for a product.
type UpdateInput struct {
	Name                *string
	Description         *string
	Category            *string
	PricePaise          *int
	CompareAtPricePaise *int
	Images              *[]string
	Sizes               *[]string
	Colors              *[]string
	StockQty            *int
	IsActive            *bool
	IsFeatured          *bool
}

// ListInput describes the filters supported by the product lists.
type ListInput struct {
	Category        *string
	Featured        *bool
	IncludeInactive bool
	Limit           int
	Offset          int
}

// View is a product shaped for the UI.
type View struct {
	ID                  uuid.UUID        `json:"id"`
	Name                string           `json:"name"`
	Description         *string          `json:"description,omitempty"`
	Category            string           `json:"category"`
	PricePaise          int              `json:"price_paise"`
	Price               decimal.Decimal  `json:"price"`
	CompareAtPricePaise *int             `json:"compare_at_price_paise,omitempty"`
	CompareAtPrice      *decimal.Decimal `json:"compare_at_price,omitempty"`
	Images              []string         `json:"images"`
	Sizes               []string         `json:"sizes"`
	Colors              []string         `json:"colors"`
	StockQty            int              `json:"stock_qty"`
	InStock             bool             `json:"in_stock"`
	IsActive            bool             `json:"is_active"`
	IsFeatured          bool             `json:"is_featured"`
	CreatedAt           time.Time        `json:"created_at"`
}

// ListResult wraps a product page plus the total row count for the filter.
type ListResult struct {
	Products []View `json:"products"`
	Total    int64  `json:"total"`
}

func buildView(record *models.Product) View {
	view := View{
		ID:          record.ID,
		Name:        record.Name,
		Description: record.Description,
		Category:    record.Category,
		PricePaise:  record.PricePaise,
		Price:       types.RupeesFromPaise(int64(record.PricePaise)),
		Images:      []string(record.Images),
		Sizes:       []string(record.Sizes),
		Colors:      []string(record.Colors),
		StockQty:    record.StockQty,
		InStock:     record.StockQty > 0,
		IsActive:    record.IsActive,
		IsFeatured:  record.IsFeatured,
		CreatedAt:   record.CreatedAt,
	}
	if record.CompareAtPricePaise != nil {
		view.CompareAtPricePaise = record.CompareAtPricePaise
		compareAt := types.RupeesFromPaise(int64(*record.CompareAtPricePaise))
		view.CompareAtPrice = &compareAt
	}
	return view
}
