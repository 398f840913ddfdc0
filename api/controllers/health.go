package controllers

import (
	"net/http"

	"github.com/CAHEKA/servisRest/api/responses"
	"github.com/CAHEKA/servisRest/pkg/config"
	"github.com/CAHEKA/servisRest/pkg/db"
	pkgerrors "github.com/CAHEKA/servisRest/pkg/errors"
	"github.com/CAHEKA/servisRest/pkg/logger"
)

// HealthLive reports process liveness.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ServisRest-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness by probing the datasources.
func HealthReady(cfg *config.Config, logg *logger.Logger, pingers ...db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-ServisRest-Env", cfg.App.Env)

		for _, p := range pingers {
			if p == nil {
				continue
			}
			if err := p.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "datasource unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
