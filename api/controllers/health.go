package controllers

import (
	"net/http"

	"github.com/tiffinbox/backend/api/responses"
	"github.com/tiffinbox/backend/pkg/config"
	pkgerrors "github.com/tiffinbox/backend/pkg/errors"
	"github.com/tiffinbox/backend/pkg/logger"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Tiffinbox-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady verifies the backing stores respond before reporting ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, probes ...func(r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Tiffinbox-Env", cfg.App.Env)
		for _, probe := range probes {
			if probe == nil {
				continue
			}
			if err := probe(r); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "dependency unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
