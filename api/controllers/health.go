package controllers

import (
	"net/http"

	"github.com/rohanmalik/boutique-backend/api/responses"
	"github.com/rohanmalik/boutique-backend/pkg/config"
	"github.com/rohanmalik/boutique-backend/pkg/db"
	pkgerrors "github.com/rohanmalik/boutique-backend/pkg/errors"
	"github.com/rohanmalik/boutique-backend/pkg/logger"
	"github.com/rohanmalik/boutique-backend/pkg/redis"
	"github.com/rohanmalik/boutique-backend/pkg/storage/gcs"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Boutique-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every hard dependency and reports the ones that are down.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger, gcsP gcs.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Boutique-Env", cfg.App.Env)

		failing := map[string]string{}
		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				failing["database"] = err.Error()
			}
		}
		if redisP != nil {
			if err := redisP.Ping(r.Context()); err != nil {
				failing["redis"] = err.Error()
			}
		}
		if gcsP != nil {
			if err := gcsP.Ping(r.Context()); err != nil {
				failing["gcs"] = err.Error()
			}
		}

		if len(failing) > 0 {
			err := pkgerrors.New(pkgerrors.CodeDependency, "dependencies unavailable").WithDetails(failing)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
