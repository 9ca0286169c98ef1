package models

import (
	"sort"
	"strings"
	"time"

	"tourhub/internal/apperr"
)

// DateLayout is the calendar-date format used for arrival, departure,
// check-in and check-out fields.
const DateLayout = "2006-01-02"

// validDateRange checks that both dates parse (when set) and that end is not
// before start.
func validDateRange(startField, start, endField, end string) error {
	var s, e time.Time
	var err error
	if start != "" {
		if s, err = time.Parse(DateLayout, start); err != nil {
			return apperr.Validation("%s must be a YYYY-MM-DD date", startField)
		}
	}
	if end != "" {
		if e, err = time.Parse(DateLayout, end); err != nil {
			return apperr.Validation("%s must be a YYYY-MM-DD date", endField)
		}
	}
	if start != "" && end != "" && e.Before(s) {
		return apperr.Validation("%s must not be before %s", endField, startField)
	}
	return nil
}

// NormalizeTags trims, de-duplicates and sorts a tag list. Blank tags are dropped.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[strings.ToLower(t)]; dup {
			continue
		}
		seen[strings.ToLower(t)] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// validScope rejects records that claim both an event and a tour.
func validScope(eventID, tourID string) error {
	if eventID != "" && tourID != "" {
		return apperr.Validation("a record may belong to an event or a tour, not both")
	}
	return nil
}

func validCapacity(usedField string, used int, capField string, capacity int) error {
	if used < 0 || capacity < 0 {
		return apperr.Validation("%s and %s must not be negative", usedField, capField)
	}
	if used > capacity {
		return apperr.Validation("%s (%d) exceeds %s (%d)", usedField, used, capField, capacity)
	}
	return nil
}
