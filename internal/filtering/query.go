package filtering

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// CriteriaFromQuery builds criteria from URL query parameters.
//
// List parameters accept repeated keys and comma-separated values
// (?region=Asia-Pacific,Middle%20East&rating=Ba1). Industry names may contain commas,
// so "industry" is only read from repeated keys. Date bounds use YYYY-MM-DD in the host
// zone or RFC3339; a day-only upper bound covers the whole day.
func CriteriaFromQuery(q url.Values) (*Criteria, error) {
	c := &Criteria{
		Regions:           listParam(q, "region", "regions"),
		Sectors:           listParam(q, "sector", "sectors"),
		Industries:        repeatedParam(q, "industry", "industries"),
		Ratings:           listParam(q, "rating", "ratings"),
		Outlooks:          listParam(q, "outlook", "outlooks"),
		WatchlistStatuses: listParam(q, "watchlist", "watchlist_status"),
	}

	var err error
	if c.RatingDate, err = rangeParam(q, "rating_from", "rating_to"); err != nil {
		return nil, err
	}
	if c.OutlookRevisionDate, err = rangeParam(q, "outlook_from", "outlook_to"); err != nil {
		return nil, err
	}
	if c.WatchlistEntryDate, err = rangeParam(q, "watch_from", "watch_to"); err != nil {
		return nil, err
	}

	return c, nil
}

func listParam(q url.Values, keys ...string) []string {
	var out []string
	for _, key := range keys {
		for _, raw := range q[key] {
			for _, part := range strings.Split(raw, ",") {
				if part = strings.TrimSpace(part); part != "" {
					out = append(out, part)
				}
			}
		}
	}
	return out
}

func repeatedParam(q url.Values, keys ...string) []string {
	var out []string
	for _, key := range keys {
		for _, raw := range q[key] {
			if raw = strings.TrimSpace(raw); raw != "" {
				out = append(out, raw)
			}
		}
	}
	return out
}

// rangeParam returns nil when neither bound is present
func rangeParam(q url.Values, fromKey, toKey string) (*DateRange, error) {
	from := strings.TrimSpace(q.Get(fromKey))
	to := strings.TrimSpace(q.Get(toKey))
	if from == "" && to == "" {
		return nil, nil
	}

	rng := &DateRange{}
	if from != "" {
		t, _, err := parseBound(from)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", fromKey, err)
		}
		rng.Start = &t
	}
	if to != "" {
		t, dayOnly, err := parseBound(to)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", toKey, err)
		}
		if dayOnly {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		rng.End = &t
	}

	return rng, nil
}

func parseBound(s string) (time.Time, bool, error) {
	if t, err := time.ParseInLocation(dateLayout, s, time.Local); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("expected YYYY-MM-DD or RFC3339, got %q", s)
	}
	return t, false, nil
}
