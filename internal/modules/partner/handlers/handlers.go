// Package handlers provides HTTP handlers for partner sessions and the
// session-scoped analysis routes.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/kclimate/krisk/internal/domain"
	"github.com/kclimate/krisk/internal/httpx"
	"github.com/kclimate/krisk/internal/modules/partner"

	esghandlers "github.com/kclimate/krisk/internal/modules/esg/handlers"
	physicalhandlers "github.com/kclimate/krisk/internal/modules/physical/handlers"
	transitionhandlers "github.com/kclimate/krisk/internal/modules/transition/handlers"
)

// Handler serves partner session management. The analysis sub-routes
// delegate to the engine handlers with the session's portfolio.
type Handler struct {
	store      *partner.Store
	transition *transitionhandlers.Handler
	physical   *physicalhandlers.Handler
	esg        *esghandlers.Handler
	log        zerolog.Logger
}

// NewHandler creates a partner handler.
func NewHandler(store *partner.Store, t *transitionhandlers.Handler, p *physicalhandlers.Handler, e *esghandlers.Handler, log zerolog.Logger) *Handler {
	return &Handler{
		store:      store,
		transition: t,
		physical:   p,
		esg:        e,
		log:        log.With().Str("handler", "partner").Logger(),
	}
}

// RegisterRoutes mounts the partner routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/partner/sessions", func(r chi.Router) {
		r.Post("/", h.HandleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.HandleGet)
			r.Delete("/", h.HandleDelete)

			r.Get("/transition-risk/analysis", h.scoped(h.transition.ServeAnalysis))
			r.Get("/transition-risk/summary", h.scoped(h.transition.ServeSummary))
			r.Get("/transition-risk/comparison", h.scoped(h.transition.ServeComparison))
			r.Get("/physical-risk/assessment", h.scoped(h.physical.ServeAssessment))
			r.Get("/esg/assessment", h.scoped(h.esg.ServeAssessment))
			r.Get("/esg/disclosure-data", h.scoped(h.esg.ServeDisclosureData))
			r.Get("/esg/reports/disclosure", h.scoped(h.esg.ServeDisclosureReport))
		})
	})
}

type createRequest struct {
	CompanyName string            `json:"company_name"`
	Facilities  []domain.Facility `json:"facilities"`
}

// HandleCreate uploads a portfolio and opens a session.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, h.log, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	session, err := h.store.Create(req.CompanyName, req.Facilities)
	if err != nil {
		httpx.WriteDomainError(w, h.log, err)
		return
	}
	httpx.WriteJSON(w, h.log, http.StatusCreated, session)
}

// HandleGet returns session info, sliding its TTL.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	session, err := h.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteDomainError(w, h.log, err)
		return
	}
	httpx.WriteJSON(w, h.log, http.StatusOK, session)
}

// HandleDelete removes a session.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(chi.URLParam(r, "id")); err != nil {
		httpx.WriteDomainError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// scoped resolves the session portfolio and hands it to an engine route.
func (h *Handler) scoped(serve func(http.ResponseWriter, *http.Request, []domain.Facility)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		facilities, err := h.store.Facilities(chi.URLParam(r, "id"))
		if err != nil {
			httpx.WriteDomainError(w, h.log, err)
			return
		}
		serve(w, r, facilities)
	}
}
