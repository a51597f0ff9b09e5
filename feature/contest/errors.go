package contest

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a contest does not exist.
var ErrNotFound = errors.New("contest not found")

// NormalizationError reports a raw record that cannot become a contest.
// The record is dropped; the rest of the batch is unaffected.
type NormalizationError struct {
	Provider   string
	ExternalID string
	Reason     string
}

func (e *NormalizationError) Error() string {
	id := e.ExternalID
	if id == "" {
		id = "<unknown>"
	}
	return fmt.Sprintf("normalize %s/%s: %s", e.Provider, id, e.Reason)
}
