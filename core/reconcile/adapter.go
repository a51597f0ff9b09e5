package reconcile

import (
	"context"
	"time"
)

// Adapter defines the interface for model-specific reconciliation logic.
// Each adapter implements how to load, key, compare and persist one model.
type Adapter interface {
	// Name returns the unique name of this adapter (e.g., "contest").
	Name() string

	// LoadIndex loads the persisted items for the given keys, indexed by key.
	// Keys without a persisted item are simply absent from the map.
	// An error here aborts the whole batch.
	LoadIndex(ctx context.Context, keys []Key) (map[Key]Item, error)

	// ExtractKey returns the entity key of an item.
	ExtractKey(item Item) Key

	// CompareFields compares the descriptive fields of a persisted and an incoming
	// item and returns one description per differing field
	// (e.g., "name: old=Cup new=Cup v2"). Both items are non-nil.
	CompareFields(persisted, incoming Item) []string

	// SyncedAt returns the last sync timestamp recorded on an item.
	SyncedAt(item Item) time.Time

	// Upsert atomically writes every field of the item with the given sync timestamp,
	// inserting it when the key is not persisted yet.
	Upsert(ctx context.Context, item Item, syncedAt time.Time) error
}
