// Package handlers provides HTTP handlers for ESG framework scoring and the
// disclosure workbook download.
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/kclimate/krisk/internal/domain"
	"github.com/kclimate/krisk/internal/httpx"
	"github.com/kclimate/krisk/internal/modules/company"
	"github.com/kclimate/krisk/internal/modules/esg"
	"github.com/kclimate/krisk/internal/modules/reports"
)

const workbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handler serves ESG assessments over the seed portfolio.
type Handler struct {
	engine  *esg.Engine
	reports *reports.Generator
	log     zerolog.Logger
}

// NewHandler creates an ESG handler.
func NewHandler(engine *esg.Engine, generator *reports.Generator, log zerolog.Logger) *Handler {
	return &Handler{
		engine:  engine,
		reports: generator,
		log:     log.With().Str("handler", "esg").Logger(),
	}
}

// RegisterRoutes mounts the ESG routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/esg/assessment", h.HandleAssessment)
	r.Get("/esg/disclosure-data", h.HandleDisclosureData)
	r.Get("/esg/frameworks", h.HandleFrameworks)
	r.Get("/esg/reports/disclosure", h.HandleDisclosureReport)
}

// HandleAssessment scores the seed portfolio under one framework.
func (h *Handler) HandleAssessment(w http.ResponseWriter, r *http.Request) {
	h.ServeAssessment(w, r, company.All())
}

// HandleDisclosureData returns the disclosure draft for the seed portfolio.
func (h *Handler) HandleDisclosureData(w http.ResponseWriter, r *http.Request) {
	h.ServeDisclosureData(w, r, company.All())
}

// HandleFrameworks lists the supported disclosure frameworks.
func (h *Handler) HandleFrameworks(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, h.log, http.StatusOK, map[string]interface{}{
		"frameworks": esg.FrameworkIDs(),
		"default":    httpx.DefaultFramework,
	})
}

// HandleDisclosureReport streams the disclosure workbook for the seed set.
func (h *Handler) HandleDisclosureReport(w http.ResponseWriter, r *http.Request) {
	h.ServeDisclosureReport(w, r, company.All())
}

// ServeAssessment scores an explicit portfolio.
func (h *Handler) ServeAssessment(w http.ResponseWriter, r *http.Request, facilities []domain.Facility) {
	assessment, err := h.engine.Assess(r.Context(), facilities, httpx.Framework(r))
	if err != nil {
		httpx.WriteDomainError(w, h.log, err)
		return
	}
	httpx.WriteJSON(w, h.log, http.StatusOK, assessment)
}

// ServeDisclosureData builds the disclosure draft for an explicit portfolio.
func (h *Handler) ServeDisclosureData(w http.ResponseWriter, r *http.Request, facilities []domain.Facility) {
	data, err := h.engine.GenerateDisclosure(r.Context(), facilities, httpx.Framework(r))
	if err != nil {
		httpx.WriteDomainError(w, h.log, err)
		return
	}
	httpx.WriteJSON(w, h.log, http.StatusOK, data)
}

// ServeDisclosureReport renders and streams the workbook for an explicit
// portfolio.
func (h *Handler) ServeDisclosureReport(w http.ResponseWriter, r *http.Request, facilities []domain.Facility) {
	year, err := httpx.Year(r)
	if err != nil {
		httpx.WriteDomainError(w, h.log, err)
		return
	}
	framework := httpx.Framework(r)

	f, err := h.reports.DisclosureWorkbook(r.Context(), facilities, framework, httpx.Scenario(r), httpx.Regime(r), year)
	if err != nil {
		httpx.WriteDomainError(w, h.log, err)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("disclosure_%s_%s.xlsx", framework, time.Now().Format("20060102"))
	w.Header().Set("Content-Type", workbookContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := f.Write(w); err != nil {
		h.log.Error().Err(err).Msg("failed to stream workbook")
	}
}
