package models

import "time"

// Contest statuses derived from the schedule.
const (
	StatusUpcoming = "upcoming"
	StatusRunning  = "running"
	StatusFinished = "finished"
)

// Contest is the canonical contest record.
type Contest struct {
	ID              string     `gorm:"column:id;primaryKey;size:36" bson:"_id" json:"id"`
	Provider        string     `gorm:"column:provider;size:64;not null;uniqueIndex:idx_contest_provider_external" bson:"provider" json:"provider"`
	ExternalID      string     `gorm:"column:external_id;size:128;not null;uniqueIndex:idx_contest_provider_external" bson:"external_id" json:"external_id"`
	Name            string     `gorm:"column:name;size:512;not null" bson:"name" json:"name"`
	URL             string     `gorm:"column:url;size:1024" bson:"url" json:"url"`
	StartTime       *time.Time `gorm:"column:start_time;index" bson:"start_time" json:"start_time"`
	EndTime         *time.Time `gorm:"column:end_time" bson:"end_time" json:"end_time"`
	DurationSeconds int64      `gorm:"column:duration_seconds" bson:"duration_seconds" json:"duration_seconds"`
	Phase           string     `gorm:"column:phase;size:32" bson:"phase" json:"phase"`
	LastSyncedAt    time.Time  `gorm:"column:last_synced_at" bson:"last_synced_at" json:"last_synced_at"`
}

// TableName overrides the table name.
func (Contest) TableName() string {
	return "contests"
}

// Status derives upcoming, running or finished from the schedule at the given instant.
// A contest without an end time is running once started.
func (c Contest) Status(now time.Time) string {
	switch {
	case c.StartTime != nil && now.Before(*c.StartTime):
		return StatusUpcoming
	case c.EndTime != nil && !now.Before(*c.EndTime):
		return StatusFinished
	default:
		return StatusRunning
	}
}

// TimePtr returns nil for the zero time and a UTC copy otherwise.
func TimePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	u := t.UTC()
	return &u
}

// SameTime reports whether two optional instants are equal.
func SameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// Filter narrows contest listings.
type Filter struct {
	// Provider keeps only contests of this provider.
	Provider string
	// Status keeps only upcoming, running or finished contests.
	Status string
	// Now is the reference instant for Status.
	Now time.Time
	// Limit caps the number of results. Zero means no limit.
	Limit int
}

// ContestList is one page of a listing.
type ContestList struct {
	Contests []Contest
	// Truncated reports that more contests matched than the limit allowed.
	Truncated bool
}
