package http

import (
	"net/http"
	"time"

	"github.com/MKhiriev/care-coord/internal/config"
	"github.com/MKhiriev/care-coord/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

func (h *Handler) Init() *chi.Mux {
	trusted, err := config.ParseTrustedProxies(h.settings.TrustedProxies)
	if err != nil {
		h.logger.Warn().Err(err).Msg("ignoring trusted proxies, forwarding headers will not be honoured")
	}
	h.trustedProxies = trusted

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTrustedRealIP)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.settings.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", traceIDHeader},
		ExposedHeaders:   []string{traceIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if h.settings.RequestTimeout > 0 {
		router.Use(middleware.Timeout(h.settings.RequestTimeout))
	}

	// routes without authorization
	router.Get("/health", h.health)

	router.Route("/auth", func(r chi.Router) {
		r.With(h.loginRateLimiter()).Post("/login", h.login)

		// reachable while a password change is pending
		r.Group(func(r chi.Router) {
			r.Use(h.authenticate)
			r.Get("/me", h.me)
			r.Post("/logout", h.logout)
			r.Put("/change-password", h.changePassword)
		})
	})

	router.Route("/users", func(r chi.Router) {
		r.Use(h.authenticate, h.requirePasswordRotated, h.requireOfficeWorker)
		r.Get("/", h.listUsers)
		r.Get("/{id}", h.getUser)

		r.Group(func(r chi.Router) {
			r.Use(h.requireManagement)
			r.Post("/", h.createWorker)
			r.Put("/{id}", h.updateWorker)
			r.Post("/{id}/reset-password", h.resetPassword)
			r.Delete("/{id}", h.deactivateUser)
		})
	})

	router.With(h.authenticate, h.requirePasswordRotated, h.requireAdmin).Get("/version", h.getServerVersion)

	router.NotFound(routeNotFound)
	router.MethodNotAllowed(routeNotFound)

	return router
}

// loginRateLimiter throttles login attempts per client IP. The key is the
// peer address, rewritten only for trusted proxies. A non-positive limit
// disables throttling.
func (h *Handler) loginRateLimiter() func(http.Handler) http.Handler {
	if h.settings.LoginRateLimit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return httprate.Limit(
		h.settings.LoginRateLimit,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			utils.WriteError(w, http.StatusTooManyRequests, MsgTooManyRequests)
		}),
	)
}
