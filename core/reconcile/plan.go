package reconcile

import (
	"context"
	"time"
)

// Plan loads the persisted index once and decides, in batch order, whether each
// record is an insert, an update or a no-op.
//
// Records are compared against a working copy of the index that already reflects
// earlier records of the same batch, so a key seen twice is planned as a write of
// the later record.
func (e *Engine) Plan(ctx context.Context, batch []Item) (*Plan, error) {
	keys := uniqueKeys(e.adapter, batch)

	index, err := e.adapter.LoadIndex(ctx, keys)
	if err != nil {
		return nil, &SyncError{Adapter: e.adapter.Name(), Op: "load_index", Err: err}
	}

	working := make(map[Key]Item, len(index)+len(batch))
	floors := make(map[Key]time.Time, len(index))
	for k, v := range index {
		working[k] = v
		floors[k] = e.adapter.SyncedAt(v)
	}

	plan := &Plan{
		Adapter: e.adapter.Name(),
		Actions: make([]Action, 0, len(batch)),
	}

	for _, item := range batch {
		key := e.adapter.ExtractKey(item)
		action := Action{
			Key:         key,
			Item:        item,
			SyncedFloor: floors[key],
		}

		existing, found := working[key]
		switch {
		case !found:
			action.Type = ActionInsert
			plan.Summary.Inserts++
		default:
			action.Changes = e.adapter.CompareFields(existing, item)
			if len(action.Changes) == 0 {
				action.Type = ActionNoop
				plan.Summary.Unchanged++
			} else {
				action.Type = ActionUpdate
				plan.Summary.Updates++
			}
		}

		working[key] = item
		plan.Actions = append(plan.Actions, action)
	}

	return plan, nil
}

// uniqueKeys returns the distinct keys of the batch in first-seen order.
func uniqueKeys(adapter Adapter, batch []Item) []Key {
	seen := make(map[Key]struct{}, len(batch))
	keys := make([]Key, 0, len(batch))
	for _, item := range batch {
		k := adapter.ExtractKey(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}
