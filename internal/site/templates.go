package site

import (
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strconv"

	"github.com/wolfman30/blake-psychology-site/internal/accordion"
	"github.com/wolfman30/blake-psychology-site/internal/contact"
	"github.com/wolfman30/blake-psychology-site/internal/content"
)

//go:embed templates/*.html
var templateFS embed.FS

func parseTemplates() (*template.Template, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("site: parse templates: %w", err)
	}
	return tmpl, nil
}

type faqItem struct {
	Index     int
	Entry     content.FAQEntry
	Open      bool
	ToggleURL string
}

type inputView struct {
	Name        string
	Label       string
	Kind        string
	Placeholder string
	Value       string
	Error       string
}

type consentView struct {
	Checked bool
	Error   string
}

type pageData struct {
	Site       content.Site
	FAQ        []faqItem
	Inputs     []inputView
	Consent    consentView
	Submitting bool
	Flash      string
}

// inputs in display order; consent is rendered separately as a checkbox.
var inputSpecs = []struct {
	field       contact.Field
	label       string
	kind        string
	placeholder string
}{
	{contact.FieldName, "Name", "text", "Your full name"},
	{contact.FieldPhone, "Phone", "tel", "(323) 555-0192"},
	{contact.FieldEmail, "Email", "email", "you@example.com"},
	{contact.FieldMessage, "What brings you here?", "textarea", "Tell us about what's bringing you to therapy..."},
	{contact.FieldPreferredTime, "Preferred time to reach you", "text", "e.g., Weekday mornings, evenings after 6pm"},
}

func fieldValue(f contact.FormState, field contact.Field) string {
	switch field {
	case contact.FieldName:
		return f.Name
	case contact.FieldEmail:
		return f.Email
	case contact.FieldPhone:
		return f.Phone
	case contact.FieldMessage:
		return f.Message
	case contact.FieldPreferredTime:
		return f.PreferredTime
	}
	return ""
}

func buildPage(site content.Site, acc *accordion.Controller, snap contact.Snapshot, flash string) pageData {
	data := pageData{
		Site:       site,
		Submitting: snap.Status == contact.StatusSubmitting,
		Flash:      flash,
		Consent: consentView{
			Checked: snap.Fields.Consent,
			Error:   snap.Errors[contact.FieldConsent],
		},
	}
	for i, entry := range site.FAQ {
		data.FAQ = append(data.FAQ, faqItem{
			Index:     i,
			Entry:     entry,
			Open:      acc.IsOpen(i),
			ToggleURL: toggleURL(acc, i),
		})
	}
	for _, in := range inputSpecs {
		data.Inputs = append(data.Inputs, inputView{
			Name:        string(in.field),
			Label:       in.label,
			Kind:        in.kind,
			Placeholder: in.placeholder,
			Value:       fieldValue(snap.Fields, in.field),
			Error:       snap.Errors[in.field],
		})
	}
	return data
}

// toggleURL is the link behind FAQ entry i given the current accordion.
func toggleURL(acc *accordion.Controller, i int) string {
	q := url.Values{}
	q.Set("index", strconv.Itoa(i))
	if cur, ok := acc.Expanded(); ok {
		q.Set("expanded", strconv.Itoa(cur))
	}
	return "/faq/toggle?" + q.Encode()
}

// pageURL is where the page lives for a given accordion state.
func pageURL(expanded int, ok bool) string {
	if !ok {
		return "/#faq"
	}
	return fmt.Sprintf("/?faq=%d#faq-%d", expanded, expanded)
}
