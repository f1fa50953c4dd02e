// AngelaMos | 2026
// handler.go

package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/saasify-contacts/internal/auth"
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

// RegisterRoutes mounts tenant user management. Listing is open to admins
// and managers, creating users to admins only.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/users", func(r chi.Router) {
		r.Use(authenticator)

		r.With(middleware.RequireRole(core.RoleAdmin, core.RoleManager)).
			Get("/", h.ListUsers)
		r.With(middleware.RequireAdmin).
			Post("/", h.CreateUser)
	})
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page := core.PageRequest{
		Page:  parseIntQuery(r, "page", 1),
		Limit: parseIntQuery(r, "limit", core.DefaultPageSize),
	}

	users, meta, err := h.service.ListUsers(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		page,
	)
	if err != nil {
		writeAuthzError(w, err)
		return
	}

	core.OK(w, UserListResponse{
		Users:      ToUserResponseList(users),
		Pagination: meta,
	})
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	req.Normalize()

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	user, err := h.service.CreateUser(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		req,
	)
	if err != nil {
		if errors.Is(err, auth.ErrEmailExists) {
			core.JSONError(w, core.DuplicateError("User with this email"))
			return
		}
		writeAuthzError(w, err)
		return
	}

	core.Created(w, ToUserResponse(user))
}

func writeAuthzError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrUnauthorized):
		core.Unauthorized(w, "")
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "")
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

var _ middleware.UserResolver = (*Service)(nil)
