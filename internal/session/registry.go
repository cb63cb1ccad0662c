package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wolfman30/blake-psychology-site/internal/contact"
	"github.com/wolfman30/blake-psychology-site/internal/observability/metrics"
	"github.com/wolfman30/blake-psychology-site/pkg/logging"
)

const storeTimeout = 2 * time.Second

// Event is pushed to a visitor's live subscribers.
type Event struct {
	Type  string            `json:"type"` // "acknowledgment", "state"
	Text  string            `json:"text,omitempty"`
	State *contact.Snapshot `json:"state,omitempty"`
}

// Visitor is one browser session: its contact form plus the pending
// acknowledgment and live subscribers.
type Visitor struct {
	ID   string
	Form *contact.Controller

	mu       sync.Mutex
	flash    string
	subs     map[chan Event]struct{}
	lastSeen time.Time
}

// Notify delivers the acknowledgment. Live subscribers receive it directly;
// without any, it is kept as a flash for the next page render.
func (v *Visitor) Notify(_ context.Context, message string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if len(v.subs) == 0 {
		v.flash = message
		return
	}
	ev := Event{Type: "acknowledgment", Text: message}
	for ch := range v.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// TakeFlash returns and clears the pending acknowledgment.
func (v *Visitor) TakeFlash() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	msg := v.flash
	v.flash = ""
	return msg
}

// Subscribe registers a live listener. The returned cancel func must be called
// when the listener goes away.
func (v *Visitor) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 4)
	v.mu.Lock()
	if v.subs == nil {
		v.subs = make(map[chan Event]struct{})
	}
	v.subs[ch] = struct{}{}
	v.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			v.mu.Lock()
			delete(v.subs, ch)
			v.mu.Unlock()
		})
	}
}

func (v *Visitor) subscribers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.subs)
}

// Config tunes a Registry.
type Config struct {
	Store     Store
	Submitter contact.Submitter
	TTL       time.Duration
	Logger    *logging.Logger
	Metrics   *metrics.SiteMetrics
}

// Registry holds live visitors keyed by session ID.
type Registry struct {
	mu       sync.Mutex
	visitors map[string]*Visitor

	store     Store
	submitter contact.Submitter
	ttl       time.Duration
	logger    *logging.Logger
	metrics   *metrics.SiteMetrics
	now       func() time.Time
}

// NewRegistry creates a registry. A nil store keeps drafts in memory.
func NewRegistry(cfg Config) *Registry {
	if cfg.Store == nil {
		cfg.Store = NewMemoryStore()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 2 * time.Hour
	}
	return &Registry{
		visitors:  make(map[string]*Visitor),
		store:     cfg.Store,
		submitter: cfg.Submitter,
		ttl:       cfg.TTL,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
		now:       time.Now,
	}
}

// NewID returns a fresh session ID.
func NewID() string {
	return uuid.NewString()
}

// Get returns the visitor for id, restoring its draft from the store or
// creating an empty one.
func (r *Registry) Get(ctx context.Context, id string) (*Visitor, error) {
	r.mu.Lock()
	if v, ok := r.visitors[id]; ok {
		v.mu.Lock()
		v.lastSeen = r.now()
		v.mu.Unlock()
		r.mu.Unlock()
		return v, nil
	}
	r.mu.Unlock()

	snap, found, err := r.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Another request may have created it while the store was read.
	if v, ok := r.visitors[id]; ok {
		return v, nil
	}

	v := &Visitor{ID: id, lastSeen: r.now()}
	opts := []contact.Option{
		contact.WithLogger(r.logger.WithSession(id)),
		contact.WithMetrics(r.metrics),
		contact.WithOnChange(r.persist(id)),
	}
	if found {
		opts = append(opts, contact.WithSnapshot(snap))
	}
	v.Form = contact.NewController(r.submitter, v, opts...)
	r.visitors[id] = v
	r.metrics.SetActiveVisitors(len(r.visitors))
	return v, nil
}

// persist mirrors every state change into the store. An empty form with no
// errors is deleted rather than stored, so a completed submission leaves
// nothing behind.
func (r *Registry) persist(id string) func(contact.Snapshot) {
	logger := r.logger.WithSession(id)
	return func(snap contact.Snapshot) {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		var err error
		if snap.Fields.IsZero() && len(snap.Errors) == 0 && snap.LastError == "" {
			err = r.store.Delete(ctx, id)
		} else {
			err = r.store.Save(ctx, id, snap)
		}
		if err != nil {
			logger.Warn("session: persist draft failed", "error", err)
		}
	}
}

// Len returns the number of live visitors.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.visitors)
}

// Sweep drops visitors idle for longer than the TTL. Visitors with a
// submission in flight or a live subscriber are kept. Drafts stay in the
// store and are restored on the next request.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()
	evicted := 0
	for id, v := range r.visitors {
		v.mu.Lock()
		idle := v.lastSeen.Before(cutoff)
		v.mu.Unlock()
		if !idle || v.Form.Status() == contact.StatusSubmitting || v.subscribers() > 0 {
			continue
		}
		delete(r.visitors, id)
		evicted++
	}
	r.metrics.SetActiveVisitors(len(r.visitors))
	return evicted
}

// Run sweeps on every tick until ctx is done.
func (r *Registry) Run(ctx context.Context, period time.Duration) {
	if period <= 0 {
		period = 5 * time.Minute
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logger.Debug("session: swept idle visitors", "evicted", n)
			}
		}
	}
}
