package controllers

import (
	"net/http"

	"github.com/rohanmalik/boutique-backend/api/responses"
	"github.com/rohanmalik/boutique-backend/api/validators"
	usersvc "github.com/rohanmalik/boutique-backend/internal/users"
	pkgerrors "github.com/rohanmalik/boutique-backend/pkg/errors"
	"github.com/rohanmalik/boutique-backend/pkg/logger"
)

// AdminUserList returns a page of registered accounts.
func AdminUserList(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", defaultPageSize, 1, maxPageSize)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), limit, offset)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
