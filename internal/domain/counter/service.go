package counter

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"inventory/internal/core/apperror"
	"inventory/pkg/logger"
)

var tracer = otel.Tracer("inventory/counter")

// Config controls the value a freshly created counter starts from.
type Config struct {
	// LegacySkipFirst stores 1 on creation, so the first allocation for a new
	// name returns 2. Existing numbering from the previous system starts that way.
	LegacySkipFirst bool
}

// CreateValue is the value stored when a counter is created.
func (c Config) CreateValue() int64 {
	if c.LegacySkipFirst {
		return 1
	}
	return 0
}

// Observer receives one call per allocation attempt.
type Observer interface {
	ObserveAllocation(name, outcome string)
}

type nopObserver struct{}

func (nopObserver) ObserveAllocation(string, string) {}

// Allocator hands out strictly increasing values per counter name.
// It holds no state of its own; all coordination happens in the Repository.
type Allocator struct {
	repo     Repository
	cfg      Config
	observer Observer
}

// Option configures an Allocator.
type Option func(*Allocator)

// WithObserver reports allocation outcomes to o.
func WithObserver(o Observer) Option {
	return func(a *Allocator) {
		if o != nil {
			a.observer = o
		}
	}
}

// NewAllocator creates an allocator over repo.
func NewAllocator(repo Repository, cfg Config, opts ...Option) *Allocator {
	a := &Allocator{repo: repo, cfg: cfg, observer: nopObserver{}}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NextValue returns the next value for name, creating the counter on first use.
//
// When two callers both see the counter missing, the store's unique constraint
// picks one creator; the other gets AlreadyExists and goes straight to the
// increment. Storage errors are returned wrapped, never retried.
func (a *Allocator) NextValue(ctx context.Context, name string) (value int64, err error) {
	if strings.TrimSpace(name) == "" {
		return 0, apperror.NewValidation("counter name is required")
	}

	ctx, span := tracer.Start(ctx, "counter.NextValue",
		trace.WithAttributes(attribute.String("counter.name", name)))
	defer span.End()

	outcome := OutcomeExisting
	defer func() {
		if err != nil {
			outcome = OutcomeError
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		a.observer.ObserveAllocation(name, outcome)
	}()

	_, found, err := a.repo.FindByName(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("find counter %q: %w", name, err)
	}

	if !found {
		res, err := a.repo.Create(ctx, name, a.cfg.CreateValue())
		if err != nil {
			return 0, fmt.Errorf("create counter %q: %w", name, err)
		}
		switch res {
		case Created:
			outcome = OutcomeCreated
			logger.Debug(ctx, "counter created", "name", name, "initial", a.cfg.CreateValue())
		case AlreadyExists:
			outcome = OutcomeRaceLost
			logger.Debug(ctx, "counter created concurrently, using existing", "name", name)
		default:
			return 0, fmt.Errorf("create counter %q: unexpected outcome %d", name, res)
		}
	}

	value, err = a.repo.IncrementAndGet(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("increment counter %q: %w", name, err)
	}

	span.SetAttributes(attribute.Int64("counter.value", value))
	return value, nil
}
