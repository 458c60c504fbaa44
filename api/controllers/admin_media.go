package controllers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rohanmalik/boutique-backend/api/responses"
	"github.com/rohanmalik/boutique-backend/internal/imaging"
	mediasvc "github.com/rohanmalik/boutique-backend/internal/media"
	productsvc "github.com/rohanmalik/boutique-backend/internal/products"
	pkgerrors "github.com/rohanmalik/boutique-backend/pkg/errors"
	"github.com/rohanmalik/boutique-backend/pkg/logger"
)

const maxMultipartMemory = 32 << 20

// AdminProductImages accepts product photos from the admin form, optionally
// runs them through the edit pipeline, stores them, and appends the resulting
// URLs to the product. The edit session, when present, applies to every file
// in the request.
func AdminProductImages(media mediasvc.Service, products productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if media == nil || products == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body"))
			return
		}
		defer r.MultipartForm.RemoveAll()

		files := r.MultipartForm.File["images"]
		if len(files) == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "at least one image is required"))
			return
		}

		editState, err := parseEditState(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := products.AdminGet(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		urls := make([]string, 0, len(files))
		for _, header := range files {
			url, err := uploadOne(r, media, header, editState)
			if err != nil {
				// Roll back objects already stored so a half-failed request
				// leaves no orphans.
				for _, stored := range urls {
					media.Delete(r.Context(), stored)
				}
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			urls = append(urls, url)
		}

		images := append(view.Images, urls...)
		updated, err := products.Update(r.Context(), productID, productsvc.UpdateInput{Images: &images})
		if err != nil {
			for _, stored := range urls {
				media.Delete(r.Context(), stored)
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, updated)
	}
}

func uploadOne(r *http.Request, media mediasvc.Service, header *multipart.FileHeader, editState *imaging.EditState) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "open uploaded file")
	}
	defer file.Close()

	if editState == nil {
		return media.Upload(r.Context(), mediasvc.UploadInput{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			SizeBytes:   header.Size,
			Body:        file,
		})
	}

	rendered, err := media.RenderEdit(r.Context(), file, *editState)
	if err != nil {
		return "", err
	}

	return media.Upload(r.Context(), mediasvc.UploadInput{
		FileName:    jpegName(header.Filename),
		ContentType: "image/jpeg",
		SizeBytes:   int64(len(rendered)),
		Body:        bytes.NewReader(rendered),
	})
}

// parseEditState reads the optional edit_state form field.
func parseEditState(r *http.Request) (*imaging.EditState, error) {
	raw := strings.TrimSpace(r.FormValue("edit_state"))
	if raw == "" {
		return nil, nil
	}

	var state imaging.EditState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid edit state")
	}
	if err := state.Validate(); err != nil {
		return nil, err
	}
	return &state, nil
}

func jpegName(fileName string) string {
	base := strings.TrimSpace(fileName)
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}
	if base == "" {
		base = "image"
	}
	return base + ".jpg"
}
