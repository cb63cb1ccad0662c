package contact

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
)

// DefaultLatency is how long the simulated submission takes.
const DefaultLatency = time.Second

// Acknowledgment is shown to the visitor once a submission completes.
const Acknowledgment = "Thank you for your message! Dr. Blake will get back to you within 24 hours."

// Submitter sends a validated form somewhere. Returning an error is the
// failure extension point: the controller goes back to idle, keeps the
// fields and records the error. Nothing retries.
type Submitter interface {
	Submit(ctx context.Context, form FormState) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, form FormState) error

func (f SubmitterFunc) Submit(ctx context.Context, form FormState) error {
	return f(ctx, form)
}

// Notifier delivers the acknowledgment to the visitor.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, message string)

func (f NotifierFunc) Notify(ctx context.Context, message string) {
	f(ctx, message)
}

var submitTracer = otel.Tracer("blake.internal.contact.submit")

// SimulatedSubmitter stands in for a real delivery channel: it waits a fixed
// latency and always succeeds.
type SimulatedSubmitter struct {
	latency time.Duration
	after   func(time.Duration) <-chan time.Time
}

// NewSimulatedSubmitter creates a submitter that waits latency on the wall clock.
// A non-positive latency falls back to DefaultLatency.
func NewSimulatedSubmitter(latency time.Duration) *SimulatedSubmitter {
	if latency <= 0 {
		latency = DefaultLatency
	}
	return &SimulatedSubmitter{latency: latency, after: time.After}
}

// WithTimer swaps the timer source; tests hand in a channel they control.
func (s *SimulatedSubmitter) WithTimer(after func(time.Duration) <-chan time.Time) *SimulatedSubmitter {
	if after != nil {
		s.after = after
	}
	return s
}

// Latency returns the simulated delay.
func (s *SimulatedSubmitter) Latency() time.Duration {
	return s.latency
}

// Submit blocks for the simulated latency. Cancelling ctx does not cut it
// short: a started submission always runs to completion.
func (s *SimulatedSubmitter) Submit(ctx context.Context, _ FormState) error {
	_, span := submitTracer.Start(ctx, "contact.submit.simulated")
	defer span.End()

	<-s.after(s.latency)
	return nil
}

var _ Submitter = (*SimulatedSubmitter)(nil)
