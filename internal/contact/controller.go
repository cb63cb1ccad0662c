package contact

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/wolfman30/blake-psychology-site/internal/observability/metrics"
	"github.com/wolfman30/blake-psychology-site/pkg/logging"
)

// Status is the submission lifecycle flag.
type Status int

const (
	StatusIdle Status = iota
	StatusSubmitting
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSubmitting:
		return "submitting"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "idle", "":
		*s = StatusIdle
	case "submitting":
		*s = StatusSubmitting
	default:
		return fmt.Errorf("contact: unknown status %q", text)
	}
	return nil
}

// Snapshot is a point-in-time copy of a controller's state.
type Snapshot struct {
	Fields    FormState        `json:"fields"`
	Errors    ValidationErrors `json:"errors"`
	Status    Status           `json:"status"`
	LastError string           `json:"last_error,omitempty"`
}

// MarshalBinary encodes the snapshot for byte-oriented stores.
func (s Snapshot) MarshalBinary() ([]byte, error) {
	return json.Marshal(s)
}

// Controller owns one visitor's contact form. It is safe for concurrent use;
// requests for the same visitor are serialised on its mutex.
type Controller struct {
	mu      sync.Mutex
	fields  FormState
	errors  ValidationErrors
	status  Status
	lastErr error

	submitter Submitter
	notifier  Notifier
	ack       string
	logger    *logging.Logger
	metrics   *metrics.SiteMetrics
	onChange  func(Snapshot)
	now       func() time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics records submissions and edits.
func WithMetrics(m *metrics.SiteMetrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// WithOnChange registers a hook called with every new state. The hook runs
// while the controller lock is held and must not call back into it.
func WithOnChange(fn func(Snapshot)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// WithAcknowledgment overrides the success message.
func WithAcknowledgment(message string) Option {
	return func(c *Controller) {
		if message != "" {
			c.ack = message
		}
	}
}

// WithSnapshot restores fields and errors from a stored snapshot. A restored
// controller is always idle.
func WithSnapshot(s Snapshot) Option {
	return func(c *Controller) {
		c.fields = s.Fields
		if s.Errors != nil {
			c.errors = s.Errors.Clone()
		}
	}
}

// NewController creates a controller with an empty form. A nil submitter
// falls back to the simulated one; a nil notifier drops the acknowledgment.
func NewController(submitter Submitter, notifier Notifier, opts ...Option) *Controller {
	if submitter == nil {
		submitter = NewSimulatedSubmitter(DefaultLatency)
	}
	if notifier == nil {
		notifier = NotifierFunc(func(context.Context, string) {})
	}
	c := &Controller{
		errors:    ValidationErrors{},
		submitter: submitter,
		notifier:  notifier,
		ack:       Acknowledgment,
		logger:    logging.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UpdateField assigns raw to field and clears that field's error, if any.
// It does not re-validate: the error comes back only on the next Submit.
func (c *Controller) UpdateField(field Field, raw string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status == StatusSubmitting {
		return ErrFormLocked
	}
	if err := c.fields.Set(field, raw); err != nil {
		return err
	}
	delete(c.errors, field)
	c.metrics.ObserveFieldUpdate(string(field))
	c.changedLocked()
	return nil
}

// Submit validates the form. Invalid forms return a *ValidationError and
// nothing is sent. Valid forms move to submitting and are handed to the
// submitter in the background; the returned channel closes once the form is
// idle again. The caller's cancellation does not reach the submitter.
func (c *Controller) Submit(ctx context.Context) (<-chan struct{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status == StatusSubmitting {
		c.metrics.ObserveSubmission(metrics.OutcomeInFlight)
		return nil, ErrSubmissionInFlight
	}

	errs := Validate(c.fields)
	if len(errs) > 0 {
		c.errors = errs
		c.metrics.ObserveSubmission(metrics.OutcomeInvalid)
		for field := range errs {
			c.metrics.ObserveValidationError(string(field))
		}
		c.changedLocked()
		return nil, &ValidationError{Errors: errs.Clone()}
	}

	c.errors = ValidationErrors{}
	c.status = StatusSubmitting
	c.lastErr = nil
	c.metrics.ObserveSubmission(metrics.OutcomeAccepted)
	c.changedLocked()

	done := make(chan struct{})
	go c.deliver(context.WithoutCancel(ctx), c.fields, done)
	return done, nil
}

func (c *Controller) deliver(ctx context.Context, form FormState, done chan<- struct{}) {
	defer close(done)
	start := c.now()

	err := c.submitter.Submit(ctx, form)

	c.mu.Lock()
	c.status = StatusIdle
	if err != nil {
		c.lastErr = err
		c.changedLocked()
		c.mu.Unlock()
		c.metrics.ObserveSubmission(metrics.OutcomeFailed)
		c.logger.Error("contact submission failed", "error", err)
		return
	}
	c.fields = FormState{}
	c.changedLocked()
	c.mu.Unlock()

	c.metrics.ObserveSubmission(metrics.OutcomeDone)
	c.metrics.ObserveSubmissionLatency(c.now().Sub(start).Seconds())
	c.logger.Info("contact submission completed")
	c.notifier.Notify(ctx, c.ack)
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Status returns the submission status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Fields returns the current form values.
func (c *Controller) Fields() FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fields
}

// Errors returns a copy of the active field errors.
func (c *Controller) Errors() ValidationErrors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errors.Clone()
}

func (c *Controller) snapshotLocked() Snapshot {
	s := Snapshot{
		Fields: c.fields,
		Errors: c.errors.Clone(),
		Status: c.status,
	}
	if c.lastErr != nil {
		s.LastError = c.lastErr.Error()
	}
	return s
}

func (c *Controller) changedLocked() {
	if c.onChange != nil {
		c.onChange(c.snapshotLocked())
	}
}
