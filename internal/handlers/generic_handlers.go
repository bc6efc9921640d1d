package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/config"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/utils"
)

const healthCheckTimeout = 3 * time.Second

// HealthChecker is anything that can report whether a backing service is reachable.
type HealthChecker func(ctx context.Context) error

// GenericHandler serves the unauthenticated health and version routes
type GenericHandler struct {
	app    *config.AppSettings
	checks map[string]HealthChecker
}

// NewGenericHandler creates a new GenericHandler. The database check is mandatory;
// further checks (e.g. redis) are added with AddCheck.
func NewGenericHandler(app *config.AppSettings, database HealthChecker) *GenericHandler {
	if app == nil {
		panic("app settings cannot be nil")
	}
	h := &GenericHandler{
		app:    app,
		checks: make(map[string]HealthChecker),
	}
	if database != nil {
		h.checks["database"] = database
	}
	return h
}

// AddCheck registers an additional dependency for the health endpoint.
func (h *GenericHandler) AddCheck(name string, check HealthChecker) {
	if check != nil {
		h.checks[name] = check
	}
}

// Health reports the state of every registered dependency. Any failure makes the
// whole service unhealthy.
func (h *GenericHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	components := make(map[string]string, len(names))
	details := make(map[string]string)
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			log.Error().Err(err).Str("component", name).Msg("Health check failed")
			components[name] = "unhealthy"
			details[name] = "unavailable"
			continue
		}
		components[name] = "healthy"
	}

	if len(details) > 0 {
		utils.Error(w, http.StatusServiceUnavailable, "service_unavailable", "Service is not healthy", details)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"status":     "healthy",
		"version":    h.app.Version,
		"components": components,
	})
}

// Version returns build information
func (h *GenericHandler) Version(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"name":        h.app.Name,
		"version":     h.app.Version,
		"environment": h.app.Environment,
	})
}
