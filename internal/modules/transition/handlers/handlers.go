// Package handlers provides HTTP handlers for transition-risk analysis.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/kclimate/krisk/internal/domain"
	"github.com/kclimate/krisk/internal/httpx"
	"github.com/kclimate/krisk/internal/modules/company"
	"github.com/kclimate/krisk/internal/modules/transition"
)

// Handler serves transition-risk analysis over the seed portfolio.
type Handler struct {
	engine *transition.Engine
	log    zerolog.Logger
}

// NewHandler creates a transition handler.
func NewHandler(engine *transition.Engine, log zerolog.Logger) *Handler {
	return &Handler{
		engine: engine,
		log:    log.With().Str("handler", "transition").Logger(),
	}
}

// RegisterRoutes mounts the transition-risk routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/transition-risk/analysis", h.HandleAnalysis)
	r.Get("/transition-risk/summary", h.HandleSummary)
	r.Get("/transition-risk/comparison", h.HandleComparison)
}

// HandleAnalysis returns the per-facility transition result.
func (h *Handler) HandleAnalysis(w http.ResponseWriter, r *http.Request) {
	h.ServeAnalysis(w, r, company.All())
}

// HandleSummary returns the portfolio summary.
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	h.ServeSummary(w, r, company.All())
}

// HandleComparison returns the four-scenario comparison.
func (h *Handler) HandleComparison(w http.ResponseWriter, r *http.Request) {
	h.ServeComparison(w, r, company.All())
}

// ServeAnalysis runs the analysis over an explicit portfolio. The
// session-scoped routes reuse it with a partner's facilities.
func (h *Handler) ServeAnalysis(w http.ResponseWriter, r *http.Request, facilities []domain.Facility) {
	analysis, err := h.engine.Analyse(r.Context(), facilities, httpx.Scenario(r), httpx.Regime(r))
	if err != nil {
		httpx.WriteDomainError(w, h.log, err)
		return
	}
	httpx.WriteJSON(w, h.log, http.StatusOK, analysis)
}

// ServeSummary runs the summary over an explicit portfolio.
func (h *Handler) ServeSummary(w http.ResponseWriter, r *http.Request, facilities []domain.Facility) {
	summary, err := h.engine.Summarise(r.Context(), facilities, httpx.Scenario(r), httpx.Regime(r))
	if err != nil {
		httpx.WriteDomainError(w, h.log, err)
		return
	}
	httpx.WriteJSON(w, h.log, http.StatusOK, summary)
}

// ServeComparison runs the scenario comparison over an explicit portfolio.
func (h *Handler) ServeComparison(w http.ResponseWriter, r *http.Request, facilities []domain.Facility) {
	cmp, err := h.engine.CompareScenarios(r.Context(), facilities, httpx.Regime(r))
	if err != nil {
		httpx.WriteDomainError(w, h.log, err)
		return
	}
	httpx.WriteJSON(w, h.log, http.StatusOK, cmp)
}
