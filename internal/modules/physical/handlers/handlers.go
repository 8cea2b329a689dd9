// Package handlers provides HTTP handlers for physical-risk assessment.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/kclimate/krisk/internal/domain"
	"github.com/kclimate/krisk/internal/httpx"
	"github.com/kclimate/krisk/internal/modules/company"
	"github.com/kclimate/krisk/internal/modules/physical"
)

// Handler serves physical-risk assessments.
type Handler struct {
	engine *physical.Engine
	log    zerolog.Logger
}

// NewHandler creates a physical handler.
func NewHandler(engine *physical.Engine, log zerolog.Logger) *Handler {
	return &Handler{
		engine: engine,
		log:    log.With().Str("handler", "physical").Logger(),
	}
}

// RegisterRoutes mounts the physical-risk routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/physical-risk/assessment", h.HandleAssessment)
	r.Post("/physical-risk/simulate", h.HandleSimulate)
}

// HandleAssessment assesses the seed portfolio.
func (h *Handler) HandleAssessment(w http.ResponseWriter, r *http.Request) {
	h.ServeAssessment(w, r, company.All())
}

// simulateRequest is the POST body for ad-hoc simulation.
type simulateRequest struct {
	Scenario   string            `json:"scenario"`
	Year       int               `json:"year"`
	UseAPIData bool              `json:"use_api_data"`
	Facilities []domain.Facility `json:"facilities"`
}

// HandleSimulate assesses a posted portfolio without creating a session.
func (h *Handler) HandleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, h.log, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Scenario == "" {
		req.Scenario = httpx.DefaultScenario
	}
	if req.Year == 0 {
		req.Year = httpx.DefaultYear
	}
	if len(req.Facilities) == 0 {
		httpx.WriteError(w, h.log, http.StatusUnprocessableEntity, "at least one facility is required")
		return
	}
	for i := range req.Facilities {
		if err := req.Facilities[i].Validate(); err != nil {
			httpx.WriteDomainError(w, h.log, err)
			return
		}
	}

	assessment, err := h.engine.Assess(r.Context(), req.Facilities, req.Scenario, req.Year, req.UseAPIData)
	if err != nil {
		httpx.WriteDomainError(w, h.log, err)
		return
	}
	httpx.WriteJSON(w, h.log, http.StatusOK, assessment)
}

// ServeAssessment assesses an explicit portfolio; the session-scoped routes
// reuse it with a partner's facilities.
func (h *Handler) ServeAssessment(w http.ResponseWriter, r *http.Request, facilities []domain.Facility) {
	year, err := httpx.Year(r)
	if err != nil {
		httpx.WriteDomainError(w, h.log, err)
		return
	}
	assessment, err := h.engine.Assess(r.Context(), facilities, httpx.Scenario(r), year, httpx.UseAPIData(r))
	if err != nil {
		httpx.WriteDomainError(w, h.log, err)
		return
	}
	httpx.WriteJSON(w, h.log, http.StatusOK, assessment)
}
