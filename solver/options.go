package solver

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Option configures optional behavior of Solve.
type Option func(*Options)

// Options holds the tunables of one Solve call.
type Options struct {
	// TopK is the ledger capacity. Default 5.
	TopK int

	// Constraints are the role-coverage minimums. Default 2 tanks, 2 carries, tier 4.
	Constraints Constraints

	// Ctx is polled at every node next to the deadline; cancelling it ends
	// the search the same way an expired budget does. Default Background.
	Ctx context.Context

	// Logger receives a debug summary per call. Default no-op.
	Logger *zap.Logger

	// Distinct drops a snapshot whose member set is already retained.
	// Default false: identical teams reached via different branches compete
	// for the K slots like any other entry.
	Distinct bool

	// Clock reads wall-clock time. Default time.Now.
	Clock func() time.Time
}

// DefaultOptions returns Options with:
//   - TopK = DefaultTopK
//   - DefaultConstraints()
//   - Background context, no-op logger, time.Now clock
//   - no deduplication
func DefaultOptions() Options {
	return Options{
		TopK:        DefaultTopK,
		Constraints: DefaultConstraints(),
		Ctx:         context.Background(),
		Logger:      zap.NewNop(),
		Distinct:    false,
		Clock:       time.Now,
	}
}

// WithTopK sets the ledger capacity.
func WithTopK(k int) Option {
	return func(o *Options) {
		o.TopK = k
	}
}

// WithConstraints replaces the role-coverage minimums.
func WithConstraints(c Constraints) Option {
	return func(o *Options) {
		o.Constraints = c
	}
}

// WithContext sets the cancellation context. A nil ctx is ignored.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithDistinctTeams makes the ledger keep one entry per member set.
func WithDistinctTeams() Option {
	return func(o *Options) {
		o.Distinct = true
	}
}

// WithClock overrides the wall clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		if now != nil {
			o.Clock = now
		}
	}
}
