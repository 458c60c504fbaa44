package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rohanmalik/boutique-backend/api/responses"
	"github.com/rohanmalik/boutique-backend/api/validators"
	productsvc "github.com/rohanmalik/boutique-backend/internal/products"
	pkgerrors "github.com/rohanmalik/boutique-backend/pkg/errors"
	"github.com/rohanmalik/boutique-backend/pkg/logger"
)

type createProductRequest struct {
	Name                string   `json:"name" validate:"required"`
	Description         *string  `json:"description,omitempty"`
	Category            string   `json:"category" validate:"required"`
	PricePaise          int      `json:"price_paise" validate:"required,min=0"`
	CompareAtPricePaise *int     `json:"compare_at_price_paise,omitempty" validate:"omitempty,min=0"`
	Images              []string `json:"images,omitempty"`
	Sizes               []string `json:"sizes,omitempty"`
	Colors              []string `json:"colors,omitempty"`
	StockQty            int      `json:"stock_qty" validate:"min=0"`
	IsActive            *bool    `json:"is_active,omitempty"`
	IsFeatured          *bool    `json:"is_featured,omitempty"`
}

type updateProductRequest struct {
	Name                *string   `json:"name,omitempty"`
	Description         *string   `json:"description,omitempty"`
	Category            *string   `json:"category,omitempty"`
	PricePaise          *int      `json:"price_paise,omitempty" validate:"omitempty,min=0"`
	CompareAtPricePaise *int      `json:"compare_at_price_paise,omitempty" validate:"omitempty,min=0"`
	Images              *[]string `json:"images,omitempty"`
	Sizes               *[]string `json:"sizes,omitempty"`
	Colors              *[]string `json:"colors,omitempty"`
	StockQty            *int      `json:"stock_qty,omitempty" validate:"omitempty,min=0"`
	IsActive            *bool     `json:"is_active,omitempty"`
	IsFeatured          *bool     `json:"is_featured,omitempty"`
}

// AdminProductList returns the catalog for the back-office, inactive included.
func AdminProductList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		input, err := parseProductListInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.AdminList(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// AdminProductDetail returns one product regardless of its active flag.
func AdminProductDetail(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		view, err := svc.AdminGet(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// AdminProductCreate adds a product to the catalog.
func AdminProductCreate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var body createProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		isActive := true
		if body.IsActive != nil {
			isActive = *body.IsActive
		}
		isFeatured := false
		if body.IsFeatured != nil {
			isFeatured = *body.IsFeatured
		}

		view, err := svc.Create(r.Context(), productsvc.CreateInput{
			Name:                strings.TrimSpace(body.Name),
			Description:         body.Description,
			Category:            strings.TrimSpace(body.Category),
			PricePaise:          body.PricePaise,
			CompareAtPricePaise: body.CompareAtPricePaise,
			Images:              body.Images,
			Sizes:               body.Sizes,
			Colors:              body.Colors,
			StockQty:            body.StockQty,
			IsActive:            isActive,
			IsFeatured:          isFeatured,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// AdminProductUpdate applies a partial update to a product.
func AdminProductUpdate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		var body updateProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Update(r.Context(), id, productsvc.UpdateInput{
			Name:                body.Name,
			Description:         body.Description,
			Category:            body.Category,
			PricePaise:          body.PricePaise,
			CompareAtPricePaise: body.CompareAtPricePaise,
			Images:              body.Images,
			Sizes:               body.Sizes,
			Colors:              body.Colors,
			StockQty:            body.StockQty,
			IsActive:            body.IsActive,
			IsFeatured:          body.IsFeatured,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// AdminProductDelete removes a product from the catalog.
func AdminProductDelete(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
