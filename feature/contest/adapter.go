package contest

import (
	"context"
	"fmt"
	"time"

	"contest-sync/core/reconcile"
	"contest-sync/feature/contest/models"
)

// AdapterName identifies contest batches in logs and metrics.
const AdapterName = "contest"

// Adapter implements reconcile.Adapter for contests on top of a Repository.
type Adapter struct {
	repo Repository
}

// NewAdapter creates a contest adapter.
func NewAdapter(repo Repository) *Adapter {
	return &Adapter{repo: repo}
}

// Name returns the unique name of this adapter.
func (a *Adapter) Name() string {
	return AdapterName
}

// LoadIndex loads the persisted contests for the given keys.
func (a *Adapter) LoadIndex(ctx context.Context, keys []reconcile.Key) (map[reconcile.Key]reconcile.Item, error) {
	rows, err := a.repo.LoadIndex(ctx, keys)
	if err != nil {
		return nil, err
	}
	index := make(map[reconcile.Key]reconcile.Item, len(rows))
	for k, c := range rows {
		index[k] = c
	}
	return index, nil
}

// ExtractKey returns the (provider, external id) key of a contest.
func (a *Adapter) ExtractKey(item reconcile.Item) reconcile.Key {
	c := item.(models.Contest)
	return reconcile.Key{Provider: c.Provider, ExternalID: c.ExternalID}
}

// CompareFields lists the descriptive fields that differ.
// Identity and sync bookkeeping are not compared.
func (a *Adapter) CompareFields(persisted, incoming reconcile.Item) []string {
	old := persisted.(models.Contest)
	cur := incoming.(models.Contest)

	var diffs []string
	if old.Name != cur.Name {
		diffs = append(diffs, fmt.Sprintf("name: old=%s new=%s", old.Name, cur.Name))
	}
	if old.URL != cur.URL {
		diffs = append(diffs, fmt.Sprintf("url: old=%s new=%s", old.URL, cur.URL))
	}
	if !models.SameTime(old.StartTime, cur.StartTime) {
		diffs = append(diffs, fmt.Sprintf("start_time: old=%s new=%s", formatTime(old.StartTime), formatTime(cur.StartTime)))
	}
	if !models.SameTime(old.EndTime, cur.EndTime) {
		diffs = append(diffs, fmt.Sprintf("end_time: old=%s new=%s", formatTime(old.EndTime), formatTime(cur.EndTime)))
	}
	if old.DurationSeconds != cur.DurationSeconds {
		diffs = append(diffs, fmt.Sprintf("duration_seconds: old=%d new=%d", old.DurationSeconds, cur.DurationSeconds))
	}
	if old.Phase != cur.Phase {
		diffs = append(diffs, fmt.Sprintf("phase: old=%s new=%s", old.Phase, cur.Phase))
	}
	return diffs
}

// SyncedAt returns the last sync timestamp of a contest.
func (a *Adapter) SyncedAt(item reconcile.Item) time.Time {
	return item.(models.Contest).LastSyncedAt
}

// Upsert stamps the contest with syncedAt and writes it.
func (a *Adapter) Upsert(ctx context.Context, item reconcile.Item, syncedAt time.Time) error {
	c := item.(models.Contest)
	c.LastSyncedAt = syncedAt
	return a.repo.Upsert(ctx, c)
}

// Items converts contests into reconcile items, preserving order.
func Items(contests []models.Contest) []reconcile.Item {
	items := make([]reconcile.Item, len(contests))
	for i, c := range contests {
		items[i] = c
	}
	return items
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "<none>"
	}
	return t.UTC().Format(time.RFC3339)
}
