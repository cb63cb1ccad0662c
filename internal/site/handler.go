package site

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/wolfman30/blake-psychology-site/internal/accordion"
	"github.com/wolfman30/blake-psychology-site/internal/contact"
	"github.com/wolfman30/blake-psychology-site/internal/content"
	"github.com/wolfman30/blake-psychology-site/internal/observability/metrics"
	"github.com/wolfman30/blake-psychology-site/internal/session"
	"github.com/wolfman30/blake-psychology-site/pkg/logging"
)

const maxBodyBytes = 64 << 10

// Config wires a Handler.
type Config struct {
	Content      content.Site
	Registry     *session.Registry
	CookieName   string
	SecureCookie bool
	Logger       *logging.Logger
	Metrics      *metrics.SiteMetrics
}

// Handler serves the page, the contact form endpoints and the FAQ API.
type Handler struct {
	site     content.Site
	registry *session.Registry
	pages    *template.Template
	cookie   string
	secure   bool
	logger   *logging.Logger
	metrics  *metrics.SiteMetrics
}

// NewHandler parses the embedded templates and returns a ready handler.
func NewHandler(cfg Config) (*Handler, error) {
	if cfg.Registry == nil {
		return nil, errors.New("site: registry is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "blake_session"
	}
	pages, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	return &Handler{
		site:     cfg.Content,
		registry: cfg.Registry,
		pages:    pages,
		cookie:   cfg.CookieName,
		secure:   cfg.SecureCookie,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
	}, nil
}

// visitor resolves the caller's session, issuing a cookie on first contact.
func (h *Handler) visitor(w http.ResponseWriter, r *http.Request) (*session.Visitor, error) {
	id := ""
	if c, err := r.Cookie(h.cookie); err == nil {
		if _, perr := uuid.Parse(c.Value); perr == nil {
			id = c.Value
		}
	}
	if id == "" {
		id = session.NewID()
		http.SetCookie(w, &http.Cookie{
			Name:     h.cookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			Secure:   h.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
	v, err := h.registry.Get(r.Context(), id)
	if err != nil {
		return nil, fmt.Errorf("site: load session: %w", err)
	}
	return v, nil
}

// Page renders the landing page.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	v, err := h.visitor(w, r)
	if err != nil {
		h.logger.Error("site: resolve visitor failed", "error", err)
		http.Error(w, "session unavailable", http.StatusServiceUnavailable)
		return
	}

	expanded, ok := h.parseExpanded(r.URL.Query().Get("faq"))
	data := buildPage(h.site, accordion.Restore(expanded, ok), v.Form.Snapshot(), v.TakeFlash())

	var buf bytes.Buffer
	if err := h.pages.ExecuteTemplate(&buf, "page.html", data); err != nil {
		h.logger.Error("site: render page failed", "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

// ToggleFAQ applies one accordion transition and redirects to the page URL
// for the resulting state.
func (h *Handler) ToggleFAQ(w http.ResponseWriter, r *http.Request) {
	next, ok, err := h.toggle(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, pageURL(next, ok), http.StatusSeeOther)
}

// FAQ returns the entries as JSON.
func (h *Handler) FAQ(w http.ResponseWriter, r *http.Request) {
	expanded, ok := h.parseExpanded(r.URL.Query().Get("expanded"))
	writeJSON(w, http.StatusOK, faqResponse{Entries: h.site.FAQ, Expanded: expandedPtr(expanded, ok)})
}

// FAQToggle returns the expanded index that follows a toggle.
func (h *Handler) FAQToggle(w http.ResponseWriter, r *http.Request) {
	next, ok, err := h.toggle(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, faqResponse{Expanded: expandedPtr(next, ok)})
}

type faqResponse struct {
	Entries  []content.FAQEntry `json:"entries,omitempty"`
	Expanded *int               `json:"expanded"`
}

func expandedPtr(i int, ok bool) *int {
	if !ok {
		return nil
	}
	return &i
}

func (h *Handler) toggle(r *http.Request) (int, bool, error) {
	q := r.URL.Query()
	index, err := strconv.Atoi(q.Get("index"))
	if err != nil {
		return 0, false, errors.New("index must be an integer")
	}
	if _, found := h.site.FAQEntryAt(index); !found {
		return 0, false, fmt.Errorf("index %d out of range", index)
	}
	acc := accordion.Restore(h.parseExpanded(q.Get("expanded")))
	acc.Toggle(index)
	h.metrics.ObserveFAQToggle(index)
	next, ok := acc.Expanded()
	return next, ok, nil
}

// parseExpanded reads an expanded index from a query value. Anything that is
// not a valid entry index means nothing is expanded.
func (h *Handler) parseExpanded(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	if _, found := h.site.FAQEntryAt(i); !found {
		return 0, false
	}
	return i, true
}

type fieldUpdate struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// UpdateField applies a single field edit.
func (h *Handler) UpdateField(w http.ResponseWriter, r *http.Request) {
	v, err := h.visitor(w, r)
	if err != nil {
		h.logger.Error("site: resolve visitor failed", "error", err)
		http.Error(w, "session unavailable", http.StatusServiceUnavailable)
		return
	}

	var req fieldUpdate
	if isJSON(r) {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form body", http.StatusBadRequest)
			return
		}
		req = fieldUpdate{Field: r.PostForm.Get("field"), Value: r.PostForm.Get("value")}
	}

	field, err := contact.ParseField(req.Field)
	if err == nil {
		err = v.Form.UpdateField(field, req.Value)
	}
	if err != nil {
		status := statusFor(err)
		if wantsJSON(r) {
			writeJSON(w, status, errorResponse{Error: err.Error(), State: v.Form.Snapshot()})
			return
		}
		http.Error(w, err.Error(), status)
		return
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, v.Form.Snapshot())
		return
	}
	http.Redirect(w, r, "/#contact", http.StatusSeeOther)
}

// SubmitForm handles the page's full form post.
func (h *Handler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	v, err := h.visitor(w, r)
	if err != nil {
		h.logger.Error("site: resolve visitor failed", "error", err)
		http.Error(w, "session unavailable", http.StatusServiceUnavailable)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	// Unchecked checkboxes are absent from the post, so every field is applied.
	for _, field := range contact.Fields() {
		if err := v.Form.UpdateField(field, r.PostForm.Get(string(field))); err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
	}

	if _, err := v.Form.Submit(r.Context()); err != nil && !errors.Is(err, contact.ErrInvalidForm) {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	http.Redirect(w, r, "/#contact", http.StatusSeeOther)
}

// ContactState returns the visitor's form snapshot.
func (h *Handler) ContactState(w http.ResponseWriter, r *http.Request) {
	v, err := h.visitor(w, r)
	if err != nil {
		h.logger.Error("site: resolve visitor failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "session unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, v.Form.Snapshot())
}

type errorResponse struct {
	Error  string                   `json:"error"`
	Errors contact.ValidationErrors `json:"errors,omitempty"`
	State  contact.Snapshot         `json:"state"`
}

// SubmitContact submits the current draft for script clients.
func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	v, err := h.visitor(w, r)
	if err != nil {
		h.logger.Error("site: resolve visitor failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "session unavailable"})
		return
	}

	_, err = v.Form.Submit(r.Context())
	if err != nil {
		resp := errorResponse{Error: err.Error(), State: v.Form.Snapshot()}
		var verr *contact.ValidationError
		if errors.As(err, &verr) {
			resp.Errors = verr.Errors
		}
		writeJSON(w, statusFor(err), resp)
		return
	}
	writeJSON(w, http.StatusAccepted, v.Form.Snapshot())
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, contact.ErrInvalidForm):
		return http.StatusUnprocessableEntity
	case errors.Is(err, contact.ErrSubmissionInFlight), errors.Is(err, contact.ErrFormLocked):
		return http.StatusConflict
	case errors.Is(err, contact.ErrUnknownField):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

func wantsJSON(r *http.Request) bool {
	return isJSON(r) || strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
