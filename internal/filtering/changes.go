package filtering

import (
	"fmt"
	"strings"
	"time"

	"github.com/wonny/creditwatch/backend/internal/contracts"
)

// ChangeKind names one of the same-day change queries
type ChangeKind string

const (
	ChangeRating    ChangeKind = "rating"
	ChangeOutlook   ChangeKind = "outlook"
	ChangeWatchlist ChangeKind = "watchlist"
)

// ChangeKinds returns all supported change kinds
func ChangeKinds() []ChangeKind {
	return []ChangeKind{ChangeRating, ChangeOutlook, ChangeWatchlist}
}

// changeKindNames lists the canonical kind names for error text
func changeKindNames() []string {
	kinds := ChangeKinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return names
}

// ParseChangeKind converts a path segment into a ChangeKind
func ParseChangeKind(s string) (ChangeKind, error) {
	switch ChangeKind(strings.ToLower(strings.TrimSpace(s))) {
	case ChangeRating, "ratings":
		return ChangeRating, nil
	case ChangeOutlook, "outlooks":
		return ChangeOutlook, nil
	case ChangeWatchlist, "watch", "watchlists":
		return ChangeWatchlist, nil
	default:
		return "", fmt.Errorf("unknown change kind %q (valid: %s)", s, strings.Join(changeKindNames(), ", "))
	}
}

// startOfDay truncates t to local midnight
func startOfDay(t time.Time) time.Time {
	t = t.Local()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// sameDay compares calendar dates in the host's local zone
func sameDay(t, today time.Time) bool {
	if t.IsZero() {
		return false
	}
	return startOfDay(t).Equal(today)
}

// RatingChangesToday returns issuers with any agency rating assigned today
func RatingChangesToday(issuers []contracts.Issuer, now time.Time) []contracts.Issuer {
	today := startOfDay(now)
	return selectIssuers(issuers, func(r contracts.RatingInfo) bool {
		return sameDay(r.RatingDate, today)
	})
}

// OutlookChangesToday returns issuers with any agency outlook revised today
func OutlookChangesToday(issuers []contracts.Issuer, now time.Time) []contracts.Issuer {
	today := startOfDay(now)
	return selectIssuers(issuers, func(r contracts.RatingInfo) bool {
		return sameDay(r.OutlookRevisionDate, today)
	})
}

// WatchlistChangesToday returns issuers placed on any agency watchlist today
func WatchlistChangesToday(issuers []contracts.Issuer, now time.Time) []contracts.Issuer {
	today := startOfDay(now)
	return selectIssuers(issuers, func(r contracts.RatingInfo) bool {
		return r.WatchlistEntryDate != nil && sameDay(*r.WatchlistEntryDate, today)
	})
}

func selectIssuers(issuers []contracts.Issuer, pred func(contracts.RatingInfo) bool) []contracts.Issuer {
	result := make([]contracts.Issuer, 0)
	for i := range issuers {
		if anyAgency(issuers[i].Ratings(), pred) {
			result = append(result, issuers[i])
		}
	}
	return result
}

// Engine binds the filtering functions to a clock
// ⭐ SSOT: 필터링/당일 변경 조회는 이 엔진에서만
type Engine struct {
	now func() time.Time
}

// NewEngine creates an engine; a nil clock falls back to time.Now
func NewEngine(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

// Filter applies criteria to issuers
func (e *Engine) Filter(issuers []contracts.Issuer, criteria *Criteria) []contracts.Issuer {
	return FilterIssuers(issuers, criteria)
}

// RatingChangesToday returns issuers with a rating action today
func (e *Engine) RatingChangesToday(issuers []contracts.Issuer) []contracts.Issuer {
	return RatingChangesToday(issuers, e.now())
}

// OutlookChangesToday returns issuers with an outlook revision today
func (e *Engine) OutlookChangesToday(issuers []contracts.Issuer) []contracts.Issuer {
	return OutlookChangesToday(issuers, e.now())
}

// WatchlistChangesToday returns issuers with a watchlist entry today
func (e *Engine) WatchlistChangesToday(issuers []contracts.Issuer) []contracts.Issuer {
	return WatchlistChangesToday(issuers, e.now())
}

// ChangesToday dispatches to the query for kind
func (e *Engine) ChangesToday(kind ChangeKind, issuers []contracts.Issuer) ([]contracts.Issuer, error) {
	switch kind {
	case ChangeRating:
		return e.RatingChangesToday(issuers), nil
	case ChangeOutlook:
		return e.OutlookChangesToday(issuers), nil
	case ChangeWatchlist:
		return e.WatchlistChangesToday(issuers), nil
	default:
		return nil, fmt.Errorf("unknown change kind %q", kind)
	}
}
