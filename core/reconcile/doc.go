// Package reconcile provides a generic engine that reconciles a batch of incoming
// records against a persisted collection.
//
// # Architecture
//
// The reconcile system consists of two parts:
//
// 1. Engine: plans one action per record (insert, update or no-op) against an index
// loaded once per batch, then applies the writes in batch order.
//
// 2. Adapter: model-specific implementations that define how to load the index,
// extract keys, compare descriptive fields and upsert a record.
//
// # Guarantees
//
//   - Inserted+Updated+Unchanged+Failed always equals the batch size.
//   - A failing record is counted as failed and never aborts the batch.
//   - Identical records are never rewritten.
//   - Sync timestamps never move backwards.
//   - When a key appears twice in a batch, the later record wins.
//
// # Usage Example
//
//	engine := reconcile.NewEngine(contest.NewAdapter(repo),
//	    reconcile.WithLogger(log),
//	    reconcile.WithMetrics(metrics),
//	)
//
//	// Plan only
//	plan, err := engine.Plan(ctx, batch)
//
//	// Plan and write
//	summary, err := engine.Reconcile(ctx, batch, reconcile.Options{})
package reconcile
