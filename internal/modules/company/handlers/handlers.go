// Package handlers provides HTTP handlers for the seed company portfolio.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/kclimate/krisk/internal/httpx"
	"github.com/kclimate/krisk/internal/modules/company"
	"github.com/kclimate/krisk/internal/registry"
)

// Handler serves the seed facility data.
type Handler struct {
	log zerolog.Logger
}

// NewHandler creates a company handler.
func NewHandler(log zerolog.Logger) *Handler {
	return &Handler{log: log.With().Str("handler", "company").Logger()}
}

// RegisterRoutes mounts the company routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/company/facilities", h.HandleFacilities)
	r.Get("/company/facilities/{id}", h.HandleFacility)
	r.Get("/company/sectors", h.HandleSectors)
	r.Get("/company/companies", h.HandleCompanies)
	r.Get("/company/companies/{name}", h.HandleCompanySummary)
}

// HandleFacilities returns the seed portfolio, optionally filtered by sector.
func (h *Handler) HandleFacilities(w http.ResponseWriter, r *http.Request) {
	facilities := company.All()
	if sector := r.URL.Query().Get("sector"); sector != "" {
		facilities = company.BySector(sector)
	}
	httpx.WriteJSON(w, h.log, http.StatusOK, map[string]interface{}{
		"facilities": facilities,
		"count":      len(facilities),
	})
}

// HandleFacility returns a single seed facility.
func (h *Handler) HandleFacility(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	f, ok := company.ByID(id)
	if !ok {
		httpx.WriteError(w, h.log, http.StatusNotFound, "facility not found: "+id)
		return
	}
	httpx.WriteJSON(w, h.log, http.StatusOK, f)
}

// HandleSectors returns the sector tags of the seed set alongside the full
// set of recognised sector parameters.
func (h *Handler) HandleSectors(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, h.log, http.StatusOK, map[string]interface{}{
		"sectors":         company.Sectors(),
		"recognised_tags": registry.KnownSectors(),
	})
}

// HandleCompanies returns the distinct company names.
func (h *Handler) HandleCompanies(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, h.log, http.StatusOK, map[string]interface{}{
		"companies": company.Companies(),
	})
}

// HandleCompanySummary returns the aggregated totals for one company.
func (h *Handler) HandleCompanySummary(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s, ok := company.CompanySummary(name)
	if !ok {
		httpx.WriteError(w, h.log, http.StatusNotFound, "company not found: "+name)
		return
	}
	httpx.WriteJSON(w, h.log, http.StatusOK, s)
}
