package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpmiddleware "github.com/wolfman30/blake-psychology-site/internal/http/middleware"
	"github.com/wolfman30/blake-psychology-site/internal/site"
	"github.com/wolfman30/blake-psychology-site/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	Site               *site.Handler
	ContactLimiter     *httpmiddleware.RateLimiter
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	h := cfg.Site

	// Page and health
	r.Get("/", h.Page)
	r.Get("/faq/toggle", h.ToggleFAQ)
	r.Get("/health", h.Health)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	limited := func(next http.HandlerFunc) http.Handler {
		if cfg.ContactLimiter == nil {
			return next
		}
		return httpmiddleware.RateLimit(cfg.ContactLimiter)(next)
	}

	// Contact form; writes are rate limited per client IP
	r.Method(http.MethodPost, "/contact", limited(h.SubmitForm))
	r.Method(http.MethodPost, "/contact/fields", limited(h.UpdateField))
	r.Get("/contact/events", h.Events)

	// JSON API; the only surface other origins may call
	r.Route("/api", func(api chi.Router) {
		if len(cfg.CORSAllowedOrigins) > 0 {
			api.Use(httpmiddleware.NewCORS(httpmiddleware.CORSConfig{
				AllowedOrigins: cfg.CORSAllowedOrigins,
			}).Handler)
		}
		api.Get("/contact", h.ContactState)
		api.Method(http.MethodPost, "/contact/submit", limited(h.SubmitContact))
		api.Get("/faq", h.FAQ)
		api.Get("/faq/toggle", h.FAQToggle)
	})

	return r
}
