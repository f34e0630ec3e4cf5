// Package poller runs the timed poll-diff loops that drive the engine.
//
// Each feed gets one poller and therefore one logical polling timeline:
// a tick's downstream apply always happens-before the next tick's fetch,
// and two fetches for the same feed never overlap. Feeds run concurrently
// and independently of each other.
package poller

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/courtside/proptracker/internal/domain/fingerprint"
	"github.com/courtside/proptracker/pkg/logger"
	"github.com/courtside/proptracker/pkg/metrics"
)

// Default poller configuration constants.
const (
	defaultInterval          = 30 * time.Second
	defaultDegradedThreshold = 3
)

// FetchFunc retrieves one payload from the feed. The host contract owns
// its own timeout; a hung fetch delays this feed's next tick and nothing
// else.
type FetchFunc func(ctx context.Context) (any, error)

// ApplyFunc propagates a changed payload downstream (store write,
// reconciliation). It is never invoked for an unchanged payload or after
// Stop.
type ApplyFunc func(ctx context.Context, payload any)

// Poller drives one feed's fetch/fingerprint/apply cycle.
type Poller struct {
	name     string
	fetch    FetchFunc
	apply    ApplyFunc
	interval time.Duration

	guard             *fingerprint.Guard
	degradedThreshold int
	failures          int

	cancelled atomic.Bool
	stopOnce  sync.Once
	stopCh    chan struct{}
	done      chan struct{}

	logger logger.Logger
}

// Option applies a configuration option to the Poller.
type Option func(*Poller)

// WithInterval sets the tick interval.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithDegradedThreshold sets how many consecutive fetch failures raise the
// degraded-connectivity signal.
func WithDegradedThreshold(n int) Option {
	return func(p *Poller) {
		if n > 0 {
			p.degradedThreshold = n
		}
	}
}

// WithGuard shares a fingerprint guard between pollers.
func WithGuard(g *fingerprint.Guard) Option {
	return func(p *Poller) {
		if g != nil {
			p.guard = g
		}
	}
}

// WithLogger sets a custom logger for the poller.
func WithLogger(lg logger.Logger) Option {
	return func(p *Poller) {
		if lg != nil {
			p.logger = lg
		}
	}
}

// New creates a poller for one named feed.
func New(name string, fetch FetchFunc, apply ApplyFunc, opts ...Option) *Poller {
	p := &Poller{
		name:              name,
		fetch:             fetch,
		apply:             apply,
		interval:          defaultInterval,
		guard:             fingerprint.NewGuard(),
		degradedThreshold: defaultDegradedThreshold,
		stopCh:            make(chan struct{}),
		done:              make(chan struct{}),
		logger:            logger.Get().Named("poller"),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.Named(name)
	return p
}

// Start launches the polling loop. The first tick fires immediately, then
// every interval until Stop or ctx cancellation.
func (p *Poller) Start(ctx context.Context) {
	go func() {
		defer close(p.done)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		p.tick(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-p.stopCh:
				return
			case <-ticker.C:
				p.tick(ctx)
			}
		}
	}()
}

// Stop cancels the loop. It is idempotent, and once it returns no further
// apply can occur: an in-flight fetch may complete but its result is
// discarded.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		p.cancelled.Store(true)
		close(p.stopCh)
	})
}

// Done is closed once the polling loop has exited.
func (p *Poller) Done() <-chan struct{} {
	return p.done
}

// tick runs one fetch/fingerprint/apply cycle. A failed fetch never stops
// the loop; it is reported and the next tick proceeds normally.
func (p *Poller) tick(ctx context.Context) {
	if p.cancelled.Load() {
		return
	}
	metrics.RecordPollTick(p.name)

	payload, err := p.fetch(ctx)
	if err != nil {
		p.failures++
		metrics.RecordPollFailure(p.name)
		p.logger.Warn(ctx, "fetch failed",
			logger.Error(err),
			logger.Int("consecutive", p.failures),
		)
		if p.failures >= p.degradedThreshold {
			metrics.SetFeedDegraded(p.name, true)
		}
		return
	}
	if p.failures > 0 {
		p.failures = 0
		metrics.SetFeedDegraded(p.name, false)
	}

	fp, err := fingerprint.Sum(payload)
	if err != nil {
		p.logger.Error(ctx, "payload not fingerprintable", logger.Error(err))
		return
	}
	if !p.guard.Changed(p.name, fp) {
		metrics.RecordPollNoop(p.name)
		return
	}

	// A cancellation that raced the fetch wins: the payload is dropped.
	if p.cancelled.Load() {
		return
	}
	metrics.RecordPollApply(p.name)
	p.apply(ctx, payload)
}
