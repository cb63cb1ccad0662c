// Package contact implements the contact form: field state, validation and
// the submission lifecycle.
package contact

import (
	"fmt"
	"sort"
	"strings"
)

// Field names a contact form input as it appears on the wire.
type Field string

const (
	FieldName          Field = "name"
	FieldEmail         Field = "email"
	FieldPhone         Field = "phone"
	FieldMessage       Field = "message"
	FieldPreferredTime Field = "preferredTime"
	FieldConsent       Field = "consent"
)

// Fields lists every form field in display order.
func Fields() []Field {
	return []Field{FieldName, FieldPhone, FieldEmail, FieldMessage, FieldPreferredTime, FieldConsent}
}

// ParseField maps a wire name to a Field.
func ParseField(name string) (Field, error) {
	for _, f := range Fields() {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// FormState holds the current value of every input. The zero value is the
// empty form.
type FormState struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Message       string `json:"message"`
	PreferredTime string `json:"preferredTime"`
	Consent       bool   `json:"consent"`
}

// IsZero reports whether every field holds its default.
func (f FormState) IsZero() bool {
	return f == FormState{}
}

// Set assigns raw to the named field. The consent checkbox takes a boolean
// parsed from raw; every other field takes the text as is.
func (f *FormState) Set(field Field, raw string) error {
	switch field {
	case FieldName:
		f.Name = raw
	case FieldEmail:
		f.Email = raw
	case FieldPhone:
		f.Phone = raw
	case FieldMessage:
		f.Message = raw
	case FieldPreferredTime:
		f.PreferredTime = raw
	case FieldConsent:
		f.Consent = Checked(raw)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// Checked interprets a checkbox value. Browsers post "on" for a ticked box.
func Checked(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// ValidationErrors maps a field to its active error message. A missing key
// means the field is valid.
type ValidationErrors map[Field]string

// Has reports whether field currently has an error.
func (v ValidationErrors) Has(field Field) bool {
	_, ok := v[field]
	return ok
}

// Clone returns an independent copy.
func (v ValidationErrors) Clone() ValidationErrors {
	out := make(ValidationErrors, len(v))
	for k, msg := range v {
		out[k] = msg
	}
	return out
}

// Fields returns the failing fields in a stable order.
func (v ValidationErrors) Fields() []Field {
	out := make([]Field, 0, len(v))
	for k := range v {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
