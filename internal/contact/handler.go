// AngelaMos | 2026
// handler.go

package contact

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/saasify-contacts/internal/core"
	"github.com/carterperez-dev/saasify-contacts/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

// RegisterRoutes mounts the contact routes. Every route requires an
// authenticated principal; extra runs after authentication, e.g. a
// per-tenant rate limiter.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	extra ...func(http.Handler) http.Handler,
) {
	r.Route("/contacts", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(extra...)

		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/stats", h.Stats)
		r.Get("/{contactID}", h.Get)
		r.Put("/{contactID}", h.Update)
		r.Delete("/{contactID}", h.Delete)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if !h.decode(w, r, &req) {
		return
	}

	c, err := h.service.Create(r.Context(), middleware.GetPrincipal(r.Context()), req)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := ToContactResponse(c)
	core.Created(w, ContactEnvelope{
		Message: "Contact created successfully",
		Contact: &resp,
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := ListParams{
		Page:   parseIntQuery(r, "page", 1),
		Limit:  parseIntQuery(r, "limit", core.DefaultPageSize),
		Search: q.Get("search"),
		Tag:    q.Get("tag"),
	}

	contacts, meta, err := h.service.List(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		params,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToListResponse(contacts, meta))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Get(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		chi.URLParam(r, "contactID"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := ToContactResponse(c)
	core.OK(w, ContactEnvelope{Contact: &resp})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if !h.decode(w, r, &req) {
		return
	}

	c, err := h.service.Update(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		chi.URLParam(r, "contactID"),
		req,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := ToContactResponse(c)
	core.OK(w, ContactEnvelope{
		Message: "Contact updated successfully",
		Contact: &resp,
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		chi.URLParam(r, "contactID"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ContactEnvelope{Message: "Contact deleted successfully"})
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context(), middleware.GetPrincipal(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, StatsResponse{Stats: *stats})
}

type normalizer interface {
	Normalize()
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, req normalizer) bool {
	if err := core.DecodeJSON(w, r, req); err != nil {
		core.BadRequest(w, "invalid request body")
		return false
	}

	req.Normalize()

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return false
	}

	return true
}

// writeError answers missing and foreign contacts identically.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "Contact")
	case errors.Is(err, ErrDuplicateEmail):
		core.JSONError(w, core.DuplicateError("Contact with this email"))
	case errors.Is(err, ErrUnscoped), errors.Is(err, core.ErrUnauthorized):
		core.Unauthorized(w, "")
	default:
		core.InternalServerError(w, err)
	}
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}
