package form

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/goliatone/go-entityform/pkg/metrics"
	"github.com/goliatone/go-entityform/pkg/model"
	"github.com/goliatone/go-entityform/pkg/suggest"
	"go.uber.org/zap"
)

// Mutations is the remote create/update pair of one entity.
type Mutations[E Record, P any] interface {
	Create(ctx context.Context, payload P) (E, error)
	Update(ctx context.Context, id string, payload P) (E, error)
}

// MutationFuncs adapts two functions into Mutations.
type MutationFuncs[E Record, P any] struct {
	CreateFunc func(ctx context.Context, payload P) (E, error)
	UpdateFunc func(ctx context.Context, id string, payload P) (E, error)
}

// Create implements Mutations.
func (m MutationFuncs[E, P]) Create(ctx context.Context, payload P) (E, error) {
	if m.CreateFunc == nil {
		var zero E
		return zero, errors.New("form: create mutation not configured")
	}
	return m.CreateFunc(ctx, payload)
}

// Update implements Mutations.
func (m MutationFuncs[E, P]) Update(ctx context.Context, id string, payload P) (E, error) {
	if m.UpdateFunc == nil {
		var zero E
		return zero, errors.New("form: update mutation not configured")
	}
	return m.UpdateFunc(ctx, id, payload)
}

// Option customises dispatchers and controllers.
type Option func(*options)

type options struct {
	logger     *zap.Logger
	metrics    metrics.Recorder
	suggester  suggest.Provider
	translator Translator
}

// WithLogger attaches a structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *options) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithMetrics records every submission attempt.
func WithMetrics(recorder metrics.Recorder) Option {
	return func(cfg *options) {
		if recorder != nil {
			cfg.metrics = recorder
		}
	}
}

func newOptions(opts []Option) options {
	cfg := options{logger: zap.NewNop(), metrics: metrics.Nop{}}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Dispatcher invokes the create or update mutation chosen by a Plan and
// redistributes server-side validation failures onto form state. One
// submission may be in flight at a time.
type Dispatcher[E Record, P any] struct {
	entity    string
	form      model.Form
	mutations Mutations[E, P]
	pending   atomic.Bool
	cfg       options
}

// NewDispatcher builds a dispatcher for the entity described by form.
func NewDispatcher[E Record, P any](form model.Form, mutations Mutations[E, P], opts ...Option) *Dispatcher[E, P] {
	cfg := newOptions(opts)
	return &Dispatcher[E, P]{
		entity:    form.Entity,
		form:      form,
		mutations: mutations,
		cfg:       cfg,
	}
}

// Pending reports whether a submission is in flight. Presentation layers use
// it to disable the submit control.
func (d *Dispatcher[E, P]) Pending() bool {
	return d.pending.Load()
}

// Dispatch sends payload through the mutation selected by plan. On a
// *ValidationError the messages are applied to state and the error is
// returned unchanged. Fields absent from the error payload keep their
// messages. Any other failure is recorded as a form-level message and
// returned wrapped. A cancelled context leaves state untouched.
func (d *Dispatcher[E, P]) Dispatch(ctx context.Context, plan Plan, payload P, state *State) (E, error) {
	var zero E
	if !d.pending.CompareAndSwap(false, true) {
		return zero, ErrSubmitPending
	}
	defer d.pending.Store(false)

	logger := d.cfg.logger.With(
		zap.String("entity", d.entity),
		zap.String("mode", plan.Mode.String()),
	)
	if plan.ID != "" {
		logger = logger.With(zap.String("id", plan.ID))
	}

	started := time.Now()
	var (
		record E
		err    error
	)
	switch plan.Mode {
	case ModeUpdate:
		if plan.ID == "" {
			return zero, fmt.Errorf("form: submit %s: update without id", d.entity)
		}
		record, err = d.mutations.Update(ctx, plan.ID, payload)
	default:
		record, err = d.mutations.Create(ctx, payload)
	}
	elapsed := time.Since(started)

	if err == nil {
		d.observe(plan, metrics.OutcomeSuccess, elapsed)
		logger.Info("submission accepted", zap.Duration("elapsed", elapsed))
		return record, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		d.observe(plan, metrics.OutcomeCanceled, elapsed)
		logger.Debug("submission canceled", zap.Error(err))
		return zero, err
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		mapping := MapValidation(d.form, verr.Validation)
		if state != nil {
			state.Apply(mapping)
		}
		d.observe(plan, metrics.OutcomeRejected, elapsed)
		logger.Info("submission rejected",
			zap.Int("field_errors", len(mapping.Fields)),
			zap.Strings("form_errors", mapping.Form))
		return zero, err
	}

	if state != nil {
		state.AddFormErrors(err.Error())
	}
	d.observe(plan, metrics.OutcomeFailed, elapsed)
	logger.Warn("submission failed", zap.Error(err))
	return zero, fmt.Errorf("form: submit %s: %w", d.entity, err)
}

func (d *Dispatcher[E, P]) observe(plan Plan, outcome string, elapsed time.Duration) {
	d.cfg.metrics.ObserveSubmission(d.entity, plan.Mode.String(), outcome, elapsed)
}
