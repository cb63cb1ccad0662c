package contact

import (
	"regexp"
	"strings"
)

const (
	MsgNameRequired          = "Name is required"
	MsgEmailRequired         = "Email is required"
	MsgEmailInvalid          = "Please enter a valid email"
	MsgPhoneRequired         = "Phone number is required"
	MsgMessageRequired       = "Please tell us what brings you here"
	MsgPreferredTimeRequired = "Please specify your preferred contact time"
	MsgConsentRequired       = "You must agree to be contacted"
)

// Unanchored: any substring of the form x@y.z passes.
var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// Validate checks every field of f and returns the failures. It never
// short-circuits across fields; within email an empty value reports only the
// required message.
func Validate(f FormState) ValidationErrors {
	errs := ValidationErrors{}

	if blank(f.Name) {
		errs[FieldName] = MsgNameRequired
	}

	if blank(f.Email) {
		errs[FieldEmail] = MsgEmailRequired
	} else if !emailPattern.MatchString(f.Email) {
		errs[FieldEmail] = MsgEmailInvalid
	}

	if blank(f.Phone) {
		errs[FieldPhone] = MsgPhoneRequired
	}
	if blank(f.Message) {
		errs[FieldMessage] = MsgMessageRequired
	}
	if blank(f.PreferredTime) {
		errs[FieldPreferredTime] = MsgPreferredTimeRequired
	}
	if !f.Consent {
		errs[FieldConsent] = MsgConsentRequired
	}

	return errs
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
