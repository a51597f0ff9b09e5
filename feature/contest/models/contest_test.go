package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestContest_Status(t *testing.T) {
	start := time.Date(2024, 3, 9, 14, 35, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	tests := []struct {
		name    string
		contest Contest
		now     time.Time
		want    string
	}{
		{"Before Start", Contest{StartTime: &start, EndTime: &end}, start.Add(-time.Minute), StatusUpcoming},
		{"At Start", Contest{StartTime: &start, EndTime: &end}, start, StatusRunning},
		{"In Progress", Contest{StartTime: &start, EndTime: &end}, start.Add(time.Hour), StatusRunning},
		{"At End", Contest{StartTime: &start, EndTime: &end}, end, StatusFinished},
		{"No End Time", Contest{StartTime: &start}, start.Add(24 * time.Hour), StatusRunning},
		{"Only End Time", Contest{EndTime: &end}, end.Add(time.Second), StatusFinished},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.contest.Status(tt.now))
		})
	}
}

func TestTimeHelpers(t *testing.T) {
	assert.Nil(t, TimePtr(time.Time{}))

	local := time.Date(2024, 3, 9, 20, 5, 0, 0, time.FixedZone("IST", 19800))
	p := TimePtr(local)
	if assert.NotNil(t, p) {
		assert.Equal(t, time.UTC, p.Location())
		assert.True(t, p.Equal(local))
	}

	assert.True(t, SameTime(nil, nil))
	assert.False(t, SameTime(p, nil))
	assert.True(t, SameTime(p, &local))
}
