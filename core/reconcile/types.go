package reconcile

import "time"

// Key identifies an entity across the batch and the persisted collection.
type Key struct {
	// Provider names the source system.
	Provider string `json:"provider"`
	// ExternalID is the provider-assigned identifier.
	ExternalID string `json:"external_id"`
}

// String renders the key as provider:external_id.
func (k Key) String() string {
	return k.Provider + ":" + k.ExternalID
}

// Item represents an entity with arbitrary fields.
// Adapters define the concrete type.
type Item any

// ActionType represents the type of planned write.
type ActionType string

const (
	// ActionInsert creates an entity that is not persisted yet.
	ActionInsert ActionType = "insert"
	// ActionUpdate rewrites an entity whose descriptive fields changed.
	ActionUpdate ActionType = "update"
	// ActionNoop leaves an identical entity untouched.
	ActionNoop ActionType = "noop"
)

// Action represents the planned outcome for one record of the batch.
type Action struct {
	// Type specifies the action to perform.
	Type ActionType `json:"type"`

	// Key is the entity identifier.
	Key Key `json:"key"`

	// Changes lists the differing fields for updates, e.g. "name: old=Cup new=Cup v2".
	Changes []string `json:"changes,omitempty"`

	// Item is the incoming record written by insert and update actions.
	Item Item `json:"-"`

	// SyncedFloor is the persisted sync timestamp the write must not go below.
	SyncedFloor time.Time `json:"-"`
}

// Plan contains the ordered actions for one batch.
type Plan struct {
	// Adapter is the name of the adapter that produced the plan.
	Adapter string `json:"adapter"`

	// Actions holds one action per batch record, in batch order.
	Actions []Action `json:"actions"`

	// Summary provides aggregate counts.
	Summary PlanSummary `json:"summary"`
}

// PlanSummary provides aggregate statistics for a plan.
type PlanSummary struct {
	// Inserts counts planned inserts.
	Inserts int `json:"inserts"`

	// Updates counts planned updates.
	Updates int `json:"updates"`

	// Unchanged counts records that need no write.
	Unchanged int `json:"unchanged"`
}

// Summary is the outcome of applying a plan.
// Inserted+Updated+Unchanged+Failed always equals the batch size.
type Summary struct {
	Inserted  int `json:"inserted"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Failed    int `json:"failed"`
}

// Total returns the number of records accounted for.
func (s Summary) Total() int {
	return s.Inserted + s.Updated + s.Unchanged + s.Failed
}

// Add accumulates another summary into s.
func (s *Summary) Add(o Summary) {
	s.Inserted += o.Inserted
	s.Updated += o.Updated
	s.Unchanged += o.Unchanged
	s.Failed += o.Failed
}

// Options controls apply behavior.
type Options struct {
	// DryRun counts planned outcomes without writing.
	DryRun bool
}
