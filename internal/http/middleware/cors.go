package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"
)

var (
	corsMethods = []string{http.MethodGet, http.MethodPost}
	corsHeaders = []string{"Content-Type", "X-Request-ID"}
)

// CORSConfig controls which browser origins may call the JSON API.
type CORSConfig struct {
	AllowedOrigins []string
	MaxAge         time.Duration
}

// CORS answers cross-origin requests to the JSON API. Credentials are always
// allowed because the visitor is identified by the session cookie; a "*"
// entry therefore echoes the caller's origin instead of sending a wildcard.
type CORS struct {
	allowAny bool
	origins  map[string]struct{}
	maxAge   string
}

// NewCORS builds the policy. Blank origins are ignored; MaxAge defaults to
// ten minutes.
func NewCORS(cfg CORSConfig) *CORS {
	c := &CORS{origins: map[string]struct{}{}}
	for _, origin := range cfg.AllowedOrigins {
		origin = strings.TrimSpace(origin)
		switch origin {
		case "":
		case "*":
			c.allowAny = true
		default:
			c.origins[origin] = struct{}{}
		}
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = 10 * time.Minute
	}
	c.maxAge = strconv.Itoa(int(cfg.MaxAge.Seconds()))
	return c
}

// Allows reports whether origin may read API responses.
func (c *CORS) Allows(origin string) bool {
	if origin == "" {
		return false
	}
	if c.allowAny {
		return true
	}
	_, ok := c.origins[origin]
	return ok
}

// Handler wraps next. Preflights are answered here and never reach next:
// 204 for an allowed origin and method, 403 for an unknown origin and 405 for
// a method the API does not serve. Simple requests from unknown origins pass
// through without CORS headers and the browser withholds the response.
func (c *CORS) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin == "" {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Add("Vary", "Origin")

		preflight := r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
		if !c.Allows(origin) {
			if preflight {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		h := w.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Credentials", "true")
		if !preflight {
			next.ServeHTTP(w, r)
			return
		}

		if !slices.Contains(corsMethods, r.Header.Get("Access-Control-Request-Method")) {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Set("Access-Control-Allow-Methods", strings.Join(corsMethods, ", "))
		h.Set("Access-Control-Allow-Headers", strings.Join(corsHeaders, ", "))
		h.Set("Access-Control-Max-Age", c.maxAge)
		w.WriteHeader(http.StatusNoContent)
	})
}
