package reconcile

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"k8s.io/utils/clock"
)

// Engine reconciles batches of incoming items through an Adapter.
type Engine struct {
	adapter Adapter
	clock   clock.PassiveClock
	logger  *zap.Logger
	metrics *Metrics
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithClock sets the clock used for sync timestamps.
func WithClock(c clock.PassiveClock) EngineOption {
	return func(e *Engine) { e.clock = c }
}

// WithLogger sets the logger for per-record failures.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics sets the metrics recorder. A nil recorder disables metrics.
func WithMetrics(m *Metrics) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine creates an engine for the given adapter.
func NewEngine(adapter Adapter, opts ...EngineOption) *Engine {
	e := &Engine{
		adapter: adapter,
		clock:   clock.RealClock{},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reconcile plans and applies a batch.
func (e *Engine) Reconcile(ctx context.Context, batch []Item, opts Options) (Summary, error) {
	start := e.clock.Now()

	plan, err := e.Plan(ctx, batch)
	if err != nil {
		e.metrics.observeBatch(e.adapter.Name(), "error", e.clock.Since(start))
		return Summary{}, err
	}

	summary, err := e.Apply(ctx, plan, opts)
	result := "ok"
	if err != nil {
		result = "error"
	}
	e.metrics.observeBatch(e.adapter.Name(), result, e.clock.Since(start))
	return summary, err
}

// Apply executes the plan's actions in order.
//
// A failed write is wrapped in a StorageError, logged and counted as failed; the
// remaining actions still run. Cancelling ctx stops the batch: the records not yet
// applied are counted as failed and a SyncError is returned with the partial summary.
func (e *Engine) Apply(ctx context.Context, plan *Plan, opts Options) (Summary, error) {
	var summary Summary
	name := e.adapter.Name()

	for i, action := range plan.Actions {
		if err := ctx.Err(); err != nil {
			remaining := len(plan.Actions) - i
			summary.Failed += remaining
			e.metrics.countRecords(name, "failed", remaining)
			return summary, &SyncError{
				Adapter: name,
				Op:      "apply",
				Err:     fmt.Errorf("stopped after %d of %d records: %w", i, len(plan.Actions), err),
			}
		}

		if action.Type == ActionNoop {
			summary.Unchanged++
			e.metrics.countRecords(name, "unchanged", 1)
			continue
		}

		if !opts.DryRun {
			syncedAt := e.clock.Now().UTC()
			if action.SyncedFloor.After(syncedAt) {
				syncedAt = action.SyncedFloor
			}

			if err := e.adapter.Upsert(ctx, action.Item, syncedAt); err != nil {
				serr := &StorageError{Key: action.Key, Err: err}
				e.logger.Warn("Record write failed",
					zap.String("adapter", name),
					zap.String("key", action.Key.String()),
					zap.String("action", string(action.Type)),
					zap.Error(serr),
				)
				summary.Failed++
				e.metrics.countRecords(name, "failed", 1)
				continue
			}
		}

		switch action.Type {
		case ActionInsert:
			summary.Inserted++
			e.metrics.countRecords(name, "inserted", 1)
		case ActionUpdate:
			summary.Updated++
			e.metrics.countRecords(name, "updated", 1)
			e.logger.Debug("Record updated",
				zap.String("adapter", name),
				zap.String("key", action.Key.String()),
				zap.Strings("changes", action.Changes),
			)
		}
	}

	return summary, nil
}
