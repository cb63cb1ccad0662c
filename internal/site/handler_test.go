package site

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/blake-psychology-site/internal/contact"
	"github.com/wolfman30/blake-psychology-site/internal/content"
	"github.com/wolfman30/blake-psychology-site/internal/session"
	"github.com/wolfman30/blake-psychology-site/pkg/logging"
)

// gate holds every submission until released.
type gate struct {
	release chan struct{}
}

func newGate() *gate { return &gate{release: make(chan struct{})} }

func (g *gate) Submit(context.Context, contact.FormState) error {
	<-g.release
	return nil
}

type fixture struct {
	h        *Handler
	registry *session.Registry
	gate     *gate
	cookie   *http.Cookie
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	g := newGate()
	t.Cleanup(func() {
		select {
		case <-g.release:
		default:
			close(g.release)
		}
	})
	logger := logging.NewWithWriter("error", nil)
	registry := session.NewRegistry(session.Config{Submitter: g, TTL: time.Hour, Logger: logger})
	h, err := NewHandler(Config{
		Content:  content.Default(),
		Registry: registry,
		Logger:   logger,
	})
	require.NoError(t, err)
	return &fixture{h: h, registry: registry, gate: g}
}

func (f *fixture) serve(t *testing.T, fn http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	if f.cookie != nil {
		req.AddCookie(f.cookie)
	}
	rec := httptest.NewRecorder()
	fn(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name == "blake_session" {
			f.cookie = c
		}
	}
	return rec
}

func (f *fixture) visitor(t *testing.T) *session.Visitor {
	t.Helper()
	require.NotNil(t, f.cookie, "no session issued yet")
	v, err := f.registry.Get(context.Background(), f.cookie.Value)
	require.NoError(t, err)
	return v
}

func validForm() url.Values {
	return url.Values{
		"name":          {"Jane Doe"},
		"email":         {"jane@example.com"},
		"phone":         {"555-0100"},
		"message":       {"I'd like to book a consultation."},
		"preferredTime": {"Weekday mornings"},
		"consent":       {"on"},
	}
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestPageRendersContentAndIssuesSession(t *testing.T) {
	f := newFixture(t)
	rec := f.serve(t, f.h.Page, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	require.NotNil(t, f.cookie)
	assert.True(t, f.cookie.HttpOnly)

	body := rec.Body.String()
	assert.Contains(t, body, "Dr. Serena Blake")
	assert.Contains(t, body, "Do you accept insurance?")
	assert.Contains(t, body, "$200")
	assert.Contains(t, body, "Send Message")
	assert.Equal(t, 0, strings.Count(body, `aria-expanded="true"`), "all entries start collapsed")
}

func TestPageReusesSessionCookie(t *testing.T) {
	f := newFixture(t)
	f.serve(t, f.h.Page, httptest.NewRequest(http.MethodGet, "/", nil))
	first := f.cookie.Value

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(f.cookie)
	f.h.Page(rec, req)
	assert.Empty(t, rec.Result().Cookies())
	assert.Equal(t, 1, f.registry.Len())
	assert.Equal(t, first, f.cookie.Value)
}

func TestPageIgnoresMalformedCookie(t *testing.T) {
	f := newFixture(t)
	f.cookie = &http.Cookie{Name: "blake_session", Value: "../../etc"}
	f.serve(t, f.h.Page, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEqual(t, "../../etc", f.cookie.Value)
}

func TestPageExpandsRequestedEntry(t *testing.T) {
	f := newFixture(t)
	site := content.Default()

	rec := f.serve(t, f.h.Page, httptest.NewRequest(http.MethodGet, "/?faq=1", nil))
	body := rec.Body.String()
	assert.Equal(t, 1, strings.Count(body, `aria-expanded="true"`))
	assert.Contains(t, body, site.FAQ[1].Answer)
	assert.NotContains(t, body, site.FAQ[0].Answer)

	for _, q := range []string{"?faq=99", "?faq=-1", "?faq=abc"} {
		rec := f.serve(t, f.h.Page, httptest.NewRequest(http.MethodGet, "/"+q, nil))
		assert.Equal(t, 0, strings.Count(rec.Body.String(), `aria-expanded="true"`), q)
	}
}

func TestToggleFAQRedirects(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		query    string
		location string
	}{
		{"index=2", "/?faq=2#faq-2"},
		{"index=2&expanded=2", "/#faq"},
		{"index=0&expanded=2", "/?faq=0#faq-0"},
	}
	for _, tc := range cases {
		rec := f.serve(t, f.h.ToggleFAQ, httptest.NewRequest(http.MethodGet, "/faq/toggle?"+tc.query, nil))
		assert.Equal(t, http.StatusSeeOther, rec.Code, tc.query)
		assert.Equal(t, tc.location, rec.Header().Get("Location"), tc.query)
	}

	rec := f.serve(t, f.h.ToggleFAQ, httptest.NewRequest(http.MethodGet, "/faq/toggle?index=7", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFAQToggleAPI(t *testing.T) {
	f := newFixture(t)

	decode := func(rec *httptest.ResponseRecorder) faqResponse {
		t.Helper()
		var resp faqResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		return resp
	}

	resp := decode(f.serve(t, f.h.FAQToggle, httptest.NewRequest(http.MethodGet, "/api/faq/toggle?index=3", nil)))
	require.NotNil(t, resp.Expanded)
	assert.Equal(t, 3, *resp.Expanded)

	resp = decode(f.serve(t, f.h.FAQToggle, httptest.NewRequest(http.MethodGet, "/api/faq/toggle?index=3&expanded=3", nil)))
	assert.Nil(t, resp.Expanded)

	rec := f.serve(t, f.h.FAQToggle, httptest.NewRequest(http.MethodGet, "/api/faq/toggle?index=x", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	resp = decode(f.serve(t, f.h.FAQ, httptest.NewRequest(http.MethodGet, "/api/faq", nil)))
	assert.Len(t, resp.Entries, 5)
	assert.Nil(t, resp.Expanded)
}

func TestUpdateFieldJSON(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodPost, "/contact/fields", strings.NewReader(`{"field":"name","value":"Jane"}`))
	req.Header.Set("Content-Type", "application/json")

	rec := f.serve(t, f.h.UpdateField, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var snap contact.Snapshot
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&snap))
	assert.Equal(t, "Jane", snap.Fields.Name)
	assert.Equal(t, contact.StatusIdle, snap.Status)
}

func TestUpdateFieldForm(t *testing.T) {
	f := newFixture(t)
	rec := f.serve(t, f.h.UpdateField, postForm("/contact/fields", url.Values{"field": {"consent"}, "value": {"on"}}))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/#contact", rec.Header().Get("Location"))
	assert.True(t, f.visitor(t).Form.Fields().Consent)
}

func TestUpdateFieldUnknownField(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodPost, "/contact/fields", strings.NewReader(`{"field":"age","value":"40"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := f.serve(t, f.h.UpdateField, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateFieldClearsOnlyThatError(t *testing.T) {
	f := newFixture(t)
	rec := f.serve(t, f.h.SubmitContact, httptest.NewRequest(http.MethodPost, "/api/contact/submit", nil))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Errors, 6)
	assert.Equal(t, contact.MsgNameRequired, resp.Errors[contact.FieldName])

	req := httptest.NewRequest(http.MethodPost, "/contact/fields", strings.NewReader(`{"field":"email","value":"bad"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = f.serve(t, f.h.UpdateField, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var snap contact.Snapshot
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&snap))
	assert.False(t, snap.Errors.Has(contact.FieldEmail), "edited field error is cleared without revalidation")
	assert.True(t, snap.Errors.Has(contact.FieldName))
	assert.Len(t, snap.Errors, 5)
}

func TestSubmitFormInvalidRendersErrors(t *testing.T) {
	f := newFixture(t)
	form := validForm()
	form.Set("email", "jane@example")
	form.Del("consent")

	rec := f.serve(t, f.h.SubmitForm, postForm("/contact", form))
	require.Equal(t, http.StatusSeeOther, rec.Code)

	snap := f.visitor(t).Form.Snapshot()
	assert.Equal(t, contact.StatusIdle, snap.Status)
	assert.Equal(t, contact.MsgEmailInvalid, snap.Errors[contact.FieldEmail])
	assert.Equal(t, contact.MsgConsentRequired, snap.Errors[contact.FieldConsent])
	assert.Equal(t, "Jane Doe", snap.Fields.Name, "values survive a rejected submission")

	page := f.serve(t, f.h.Page, httptest.NewRequest(http.MethodGet, "/", nil)).Body.String()
	assert.Contains(t, page, contact.MsgEmailInvalid)
	assert.Contains(t, page, contact.MsgConsentRequired)
	assert.Contains(t, page, `value="Jane Doe"`)
}

func TestSubmitFormLifecycle(t *testing.T) {
	f := newFixture(t)

	rec := f.serve(t, f.h.SubmitForm, postForm("/contact", validForm()))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	v := f.visitor(t)
	assert.Equal(t, contact.StatusSubmitting, v.Form.Status())

	page := f.serve(t, f.h.Page, httptest.NewRequest(http.MethodGet, "/", nil)).Body.String()
	assert.Contains(t, page, "Sending...")
	assert.Contains(t, page, "<fieldset disabled")

	// A second post while in flight is rejected and changes nothing.
	rec = f.serve(t, f.h.SubmitForm, postForm("/contact", validForm()))
	assert.Equal(t, http.StatusConflict, rec.Code)

	close(f.gate.release)

	// The acknowledgment is stored once the submission finishes; renders
	// before that carry no flash and consume nothing.
	require.Eventually(t, func() bool {
		page = f.serve(t, f.h.Page, httptest.NewRequest(http.MethodGet, "/", nil)).Body.String()
		return strings.Contains(page, contact.Acknowledgment)
	}, time.Second, 5*time.Millisecond)
	assert.Contains(t, page, "Send Message")
	assert.Equal(t, contact.StatusIdle, v.Form.Status())
	assert.True(t, v.Form.Fields().IsZero())

	page = f.serve(t, f.h.Page, httptest.NewRequest(http.MethodGet, "/", nil)).Body.String()
	assert.NotContains(t, page, contact.Acknowledgment, "acknowledgment is shown once")
}

func TestSubmitContactAPI(t *testing.T) {
	f := newFixture(t)
	for field, values := range validForm() {
		body, err := json.Marshal(fieldUpdate{Field: field, Value: values[0]})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/contact/fields", strings.NewReader(string(body)))
		req.Header.Set("Content-Type", "application/json")
		require.Equal(t, http.StatusOK, f.serve(t, f.h.UpdateField, req).Code)
	}

	rec := f.serve(t, f.h.SubmitContact, httptest.NewRequest(http.MethodPost, "/api/contact/submit", nil))
	require.Equal(t, http.StatusAccepted, rec.Code)
	var snap contact.Snapshot
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&snap))
	assert.Equal(t, contact.StatusSubmitting, snap.Status)

	rec = f.serve(t, f.h.SubmitContact, httptest.NewRequest(http.MethodPost, "/api/contact/submit", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/contact/fields", strings.NewReader(`{"field":"name","value":"X"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = f.serve(t, f.h.UpdateField, req)
	assert.Equal(t, http.StatusConflict, rec.Code, "edits are locked while submitting")

	rec = f.serve(t, f.h.ContactState, httptest.NewRequest(http.MethodGet, "/api/contact", nil))
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&snap))
	assert.Equal(t, "Jane Doe", snap.Fields.Name)
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rec := httptest.NewRecorder()
	f.h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestNewHandlerRequiresRegistry(t *testing.T) {
	_, err := NewHandler(Config{})
	assert.Error(t, err)
}
