package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/blake-psychology-site/internal/api/router"
	appconfig "github.com/wolfman30/blake-psychology-site/internal/config"
	"github.com/wolfman30/blake-psychology-site/internal/contact"
	"github.com/wolfman30/blake-psychology-site/internal/content"
	httpmiddleware "github.com/wolfman30/blake-psychology-site/internal/http/middleware"
	"github.com/wolfman30/blake-psychology-site/internal/observability/metrics"
	"github.com/wolfman30/blake-psychology-site/internal/session"
	"github.com/wolfman30/blake-psychology-site/internal/site"
	"github.com/wolfman30/blake-psychology-site/pkg/logging"
)

// Runtime is the wired site: the HTTP handler plus the pieces that need a
// lifecycle.
type Runtime struct {
	Handler  http.Handler
	Registry *session.Registry
	Limiter  *httpmiddleware.RateLimiter
	Redis    *redis.Client
}

// Close releases background resources.
func (rt *Runtime) Close() {
	if rt.Limiter != nil {
		rt.Limiter.Stop()
	}
	if rt.Redis != nil {
		_ = rt.Redis.Close()
	}
}

// BuildContent returns the page content, applying CONTENT_FILE overrides when set.
func BuildContent(cfg *appconfig.Config, logger *logging.Logger) (content.Site, error) {
	if cfg.ContentFile == "" {
		return content.Default(), nil
	}
	site, err := content.LoadFile(cfg.ContentFile)
	if err != nil {
		return content.Site{}, fmt.Errorf("bootstrap: load content: %w", err)
	}
	logger.Info("page content loaded", "file", cfg.ContentFile, "faq_entries", len(site.FAQ))
	return site, nil
}

// BuildSite wires the page, contact form and FAQ behind the router. A nil
// registry disables metrics.
func BuildSite(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, reg *prometheus.Registry) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	var (
		siteMetrics    *metrics.SiteMetrics
		metricsHandler http.Handler
	)
	if cfg.MetricsEnabled && reg != nil {
		siteMetrics = metrics.NewSiteMetrics(reg)
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	siteContent, err := BuildContent(cfg, logger)
	if err != nil {
		return nil, err
	}

	redisClient := BuildRedisClient(ctx, cfg, logger, true)
	if redisClient != nil {
		logger.Info("contact drafts stored in redis", "addr", cfg.RedisAddr)
	}

	registry := session.NewRegistry(session.Config{
		Store:     BuildSessionStore(redisClient, cfg),
		Submitter: contact.NewSimulatedSubmitter(cfg.SubmitDelay),
		TTL:       cfg.SessionTTL,
		Logger:    logger,
		Metrics:   siteMetrics,
	})

	handler, err := site.NewHandler(site.Config{
		Content:      siteContent,
		Registry:     registry,
		CookieName:   cfg.SessionCookie,
		SecureCookie: cfg.IsProduction(),
		Logger:       logger,
		Metrics:      siteMetrics,
	})
	if err != nil {
		if redisClient != nil {
			_ = redisClient.Close()
		}
		return nil, fmt.Errorf("bootstrap: build site handler: %w", err)
	}

	limiter := httpmiddleware.NewRateLimiter(cfg.ContactRatePerSec, cfg.ContactRateBurst)

	return &Runtime{
		Handler: router.New(&router.Config{
			Logger:             logger,
			Site:               handler,
			ContactLimiter:     limiter,
			MetricsHandler:     metricsHandler,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		}),
		Registry: registry,
		Limiter:  limiter,
		Redis:    redisClient,
	}, nil
}
