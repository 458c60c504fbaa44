package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/rohanmalik/boutique-backend/api/middleware"
	pkgerrors "github.com/rohanmalik/boutique-backend/pkg/errors"
)

// callerID resolves the authenticated user's id from the request context.
func callerID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return id, nil
}
