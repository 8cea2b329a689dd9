// Package handlers provides HTTP handlers for the NGFS scenario catalogue.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/kclimate/krisk/internal/httpx"
	"github.com/kclimate/krisk/internal/pricing"
	"github.com/kclimate/krisk/internal/registry"
)

// Handler serves the scenario catalogue.
type Handler struct {
	log zerolog.Logger
}

// NewHandler creates a scenario handler.
func NewHandler(log zerolog.Logger) *Handler {
	return &Handler{log: log.With().Str("handler", "scenarios").Logger()}
}

// RegisterRoutes mounts the scenario routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/scenarios", h.HandleList)
	r.Get("/scenarios/{id}", h.HandleDetail)
}

// HandleList returns the four NGFS scenarios.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ids := registry.ScenarioIDs()
	out := make([]registry.Scenario, 0, len(ids))
	for _, id := range ids {
		s, err := registry.GetScenario(id)
		if err != nil {
			httpx.WriteDomainError(w, h.log, err)
			return
		}
		out = append(out, s)
	}
	httpx.WriteJSON(w, h.log, http.StatusOK, map[string]interface{}{
		"scenarios": out,
		"count":     len(out),
	})
}

// HandleDetail returns one scenario with its carbon price paths under both
// pricing regimes.
func (h *Handler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s, err := registry.GetScenario(id)
	if err != nil {
		// Unknown scenario id on the detail route is a 404, not a 400.
		httpx.WriteError(w, h.log, http.StatusNotFound, err.Error())
		return
	}

	globalPath, err := pricing.BuildPath(id, registry.RegimeGlobal, registry.AnalysisStartYear, registry.AnalysisEndYear)
	if err != nil {
		httpx.WriteDomainError(w, h.log, err)
		return
	}
	ketsPath, err := pricing.BuildPath(id, registry.RegimeKETS, registry.AnalysisStartYear, registry.AnalysisEndYear)
	if err != nil {
		httpx.WriteDomainError(w, h.log, err)
		return
	}

	httpx.WriteJSON(w, h.log, http.StatusOK, map[string]interface{}{
		"scenario":          s,
		"carbon_price_path": map[string]interface{}{"global": globalPath, "kets": ketsPath},
	})
}
