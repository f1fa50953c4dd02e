// AngelaMos | 2026
// router.go

package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/saasify-contacts/internal/auth"
	"github.com/carterperez-dev/saasify-contacts/internal/config"
	"github.com/carterperez-dev/saasify-contacts/internal/contact"
	"github.com/carterperez-dev/saasify-contacts/internal/health"
	"github.com/carterperez-dev/saasify-contacts/internal/metrics"
	"github.com/carterperez-dev/saasify-contacts/internal/middleware"
	"github.com/carterperez-dev/saasify-contacts/internal/user"
)

// routes is everything mountRoutes needs. Limiters and Metrics are
// optional.
type routes struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *metrics.Metrics

	JWT   *auth.JWTManager
	Users middleware.UserResolver

	Health   *health.Handler
	Auth     *auth.Handler
	User     *user.Handler
	Contacts *contact.Handler

	GlobalLimiter *middleware.RateLimiter
	TenantLimiter *middleware.RateLimiter
}

func mountRoutes(router chi.Router, d routes) {
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(d.Logger))
	router.Use(middleware.Metrics(d.Metrics))
	if d.GlobalLimiter != nil {
		router.Use(d.GlobalLimiter.Handler)
	}
	router.Use(middleware.SecurityHeaders(d.Config.IsProduction()))
	router.Use(middleware.CORS(d.Config.CORS))

	if d.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}
	router.Get("/.well-known/jwks.json", d.JWT.GetJWKSHandler())

	authenticator := middleware.Authenticator(d.JWT, d.Users)

	var perTenant []func(http.Handler) http.Handler
	if d.TenantLimiter != nil {
		perTenant = append(perTenant, d.TenantLimiter.Handler)
	}

	router.Route("/api", func(r chi.Router) {
		d.Health.RegisterRoutes(r)
		d.Auth.RegisterRoutes(r, authenticator)
		d.User.RegisterRoutes(r, authenticator)
		d.Contacts.RegisterRoutes(r, authenticator, perTenant...)
	})
}
