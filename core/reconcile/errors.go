package reconcile

import "fmt"

// StorageError reports a failed write for a single record.
// The record is counted as failed and the batch continues.
type StorageError struct {
	Key Key
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error for %s: %v", e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// SyncError reports a failure that aborts a whole batch.
type SyncError struct {
	// Adapter is the adapter name.
	Adapter string
	// Op is the step that failed (load_index, apply).
	Op string
	Err error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync %s failed during %s: %v", e.Adapter, e.Op, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}
