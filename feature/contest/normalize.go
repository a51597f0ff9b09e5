package contest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"contest-sync/core/utils"
	"contest-sync/feature/contest/models"
	"contest-sync/feature/contest/upstream"
)

// Normalize converts a raw provider record into a canonical contest.
//
// The identifier, the name and at least one of start or end time are required.
// Optional fields get deterministic defaults. LastSyncedAt is left zero; it is set
// when the contest is written.
func Normalize(raw upstream.RawRecord) (models.Contest, error) {
	switch r := raw.(type) {
	case upstream.CodeforcesRecord:
		return normalizeCodeforces(r)
	case upstream.CodeChefRecord:
		return normalizeCodeChef(r)
	case upstream.GenericRecord:
		return normalizeGeneric(r)
	default:
		provider := ""
		if raw != nil {
			provider = raw.ProviderName()
		}
		return models.Contest{}, &NormalizationError{Provider: provider, Reason: "unsupported record shape"}
	}
}

func normalizeCodeforces(r upstream.CodeforcesRecord) (models.Contest, error) {
	var id string
	if r.ID > 0 {
		id = strconv.FormatInt(r.ID, 10)
	}

	var start time.Time
	if r.StartTimeSeconds > 0 {
		start = time.Unix(r.StartTimeSeconds, 0)
	}

	c := models.Contest{
		Provider:        upstream.ProviderCodeforces,
		ExternalID:      id,
		Name:            strings.TrimSpace(r.Name),
		URL:             strings.TrimSpace(r.WebsiteURL),
		StartTime:       models.TimePtr(start),
		DurationSeconds: max(r.DurationSeconds, 0),
		Phase:           r.Phase,
	}
	if c.URL == "" && id != "" {
		c.URL = "https://codeforces.com/contests/" + id
	}

	return validate(fillSchedule(c))
}

func normalizeCodeChef(r upstream.CodeChefRecord) (models.Contest, error) {
	start, _ := utils.ToTime(r.StartISO)
	end, _ := utils.ToTime(r.EndISO)
	code := strings.TrimSpace(r.Code)

	c := models.Contest{
		Provider:        upstream.ProviderCodeChef,
		ExternalID:      code,
		Name:            strings.TrimSpace(r.Name),
		StartTime:       models.TimePtr(start),
		EndTime:         models.TimePtr(end),
		DurationSeconds: max(r.DurationMinutes, 0) * 60,
		Phase:           r.Section,
	}
	if code != "" {
		c.URL = "https://www.codechef.com/" + code
	}

	return validate(fillSchedule(c))
}

func normalizeGeneric(r upstream.GenericRecord) (models.Contest, error) {
	if r.Fields == nil {
		return models.Contest{}, &NormalizationError{Provider: r.Provider, Reason: "unsupported record shape"}
	}

	start, _ := utils.ToTime(firstOf(r.Fields, "start_time", "startTime", "start"))
	end, _ := utils.ToTime(firstOf(r.Fields, "end_time", "endTime", "end"))

	c := models.Contest{
		Provider:        r.Provider,
		ExternalID:      strings.TrimSpace(utils.ToString(firstOf(r.Fields, "id", "external_id", "code"))),
		Name:            strings.TrimSpace(utils.ToString(firstOf(r.Fields, "name", "title"))),
		URL:             strings.TrimSpace(utils.ToString(firstOf(r.Fields, "url", "link"))),
		StartTime:       models.TimePtr(start),
		EndTime:         models.TimePtr(end),
		DurationSeconds: max(utils.ToInt64(firstOf(r.Fields, "duration_seconds", "duration")), 0),
		Phase:           strings.TrimSpace(utils.ToString(firstOf(r.Fields, "phase", "status"))),
	}

	return validate(fillSchedule(c))
}

// fillSchedule derives the duration from the window, or the missing bound from the duration.
func fillSchedule(c models.Contest) models.Contest {
	d := time.Duration(c.DurationSeconds) * time.Second
	switch {
	case c.StartTime != nil && c.EndTime != nil:
		if c.EndTime.After(*c.StartTime) {
			c.DurationSeconds = int64(c.EndTime.Sub(*c.StartTime) / time.Second)
		}
	case c.StartTime != nil && d > 0:
		c.EndTime = models.TimePtr(c.StartTime.Add(d))
	case c.EndTime != nil && d > 0:
		c.StartTime = models.TimePtr(c.EndTime.Add(-d))
	}
	return c
}

func validate(c models.Contest) (models.Contest, error) {
	var reason string
	switch {
	case c.ExternalID == "":
		reason = "missing identifier"
	case c.Name == "":
		reason = "missing name"
	case c.StartTime == nil && c.EndTime == nil:
		reason = "missing start and end time"
	}
	if reason != "" {
		return models.Contest{}, &NormalizationError{Provider: c.Provider, ExternalID: c.ExternalID, Reason: reason}
	}
	if c.Provider == "" {
		return models.Contest{}, &NormalizationError{ExternalID: c.ExternalID, Reason: "missing provider"}
	}
	return c, nil
}

func firstOf(fields map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := fields[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// NormalizeAll normalizes a batch, returning the valid contests and one error per dropped record.
func NormalizeAll(raws []upstream.RawRecord) ([]models.Contest, []error) {
	contests := make([]models.Contest, 0, len(raws))
	var errs []error
	for i, raw := range raws {
		c, err := Normalize(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		contests = append(contests, c)
	}
	return contests, errs
}
