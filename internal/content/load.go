package content

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML file of overrides on top of Default. Keys absent from
// the file keep their default; lists present in the file replace the default
// list. The FAQ entries and the acknowledgment text are fixed and cannot be
// overridden.
func LoadFile(path string) (Site, error) {
	site := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Site{}, fmt.Errorf("content: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &site); err != nil {
		return Site{}, fmt.Errorf("content: parse %s: %w", path, err)
	}
	if err := site.Validate(); err != nil {
		return Site{}, fmt.Errorf("content: invalid %s: %w", path, err)
	}
	return site, nil
}

// Validate checks that the content can be rendered.
func (s Site) Validate() error {
	if s.Clinician == "" {
		return errors.New("clinician is required")
	}
	if len(s.FAQ) != FAQEntries {
		return fmt.Errorf("faq must have %d entries, got %d", FAQEntries, len(s.FAQ))
	}
	for i, e := range s.FAQ {
		if e.Question == "" || e.Answer == "" {
			return fmt.Errorf("faq entry %d needs a question and an answer", i)
		}
	}
	for i, f := range s.Fees {
		if f.PriceCents < 0 || f.DurationMin <= 0 {
			return fmt.Errorf("fee %d (%s) has an invalid price or duration", i, f.Label)
		}
	}
	return nil
}
