package filtering

import (
	"time"

	"github.com/wonny/creditwatch/backend/internal/contracts"
)

// DateRange is an inclusive [Start, End] window; a nil bound is open
type DateRange struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// Contains reports whether t falls inside the range, bounds included
func (r *DateRange) Contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}

// Criteria is a conjunction of filters; every empty field imposes no constraint
// ⭐ SSOT: 필터 조건 구조는 여기서만 정의
type Criteria struct {
	Regions           []string `json:"regions,omitempty"`
	Sectors           []string `json:"sectors,omitempty"`
	Industries        []string `json:"industries,omitempty"`
	Ratings           []string `json:"ratings,omitempty"`
	Outlooks          []string `json:"outlooks,omitempty"`
	WatchlistStatuses []string `json:"watchlistStatuses,omitempty"`

	RatingDate          *DateRange `json:"ratingDateRange,omitempty"`
	OutlookRevisionDate *DateRange `json:"outlookDateRange,omitempty"`
	WatchlistEntryDate  *DateRange `json:"watchlistDateRange,omitempty"`
}

// IsEmpty reports whether the criteria constrain nothing
func (c *Criteria) IsEmpty() bool {
	if c == nil {
		return true
	}
	return len(c.Regions) == 0 &&
		len(c.Sectors) == 0 &&
		len(c.Industries) == 0 &&
		len(c.Ratings) == 0 &&
		len(c.Outlooks) == 0 &&
		len(c.WatchlistStatuses) == 0 &&
		c.RatingDate == nil &&
		c.OutlookRevisionDate == nil &&
		c.WatchlistEntryDate == nil
}

// FilterIssuers returns the issuers matching every non-empty predicate of criteria.
// Order is preserved and the input slice is never modified.
func FilterIssuers(issuers []contracts.Issuer, criteria *Criteria) []contracts.Issuer {
	result := make([]contracts.Issuer, 0, len(issuers))

	if criteria.IsEmpty() {
		return append(result, issuers...)
	}

	m := newMatcher(criteria)
	for i := range issuers {
		if m.match(&issuers[i]) {
			result = append(result, issuers[i])
		}
	}

	return result
}

// matcher holds the criteria sets pre-indexed for membership tests
type matcher struct {
	criteria   *Criteria
	regions    map[string]struct{}
	sectors    map[string]struct{}
	industries map[string]struct{}
	ratings    map[string]struct{}
	outlooks   map[string]struct{}
	watch      map[string]struct{}
}

func newMatcher(c *Criteria) *matcher {
	return &matcher{
		criteria:   c,
		regions:    toSet(c.Regions),
		sectors:    toSet(c.Sectors),
		industries: toSet(c.Industries),
		ratings:    toSet(c.Ratings),
		outlooks:   toSet(c.Outlooks),
		watch:      toSet(c.WatchlistStatuses),
	}
}

func (m *matcher) match(issuer *contracts.Issuer) bool {
	if !inSet(m.regions, string(issuer.Region)) {
		return false
	}
	if !inSet(m.sectors, string(issuer.Sector)) {
		return false
	}
	if !inSet(m.industries, issuer.Industry) {
		return false
	}

	ratings := issuer.Ratings()

	if m.ratings != nil && !anyAgency(ratings, func(r contracts.RatingInfo) bool {
		return contains(m.ratings, r.CurrentRating)
	}) {
		return false
	}

	if m.outlooks != nil && !anyAgency(ratings, func(r contracts.RatingInfo) bool {
		return contains(m.outlooks, string(r.Outlook))
	}) {
		return false
	}

	if m.watch != nil && !anyAgency(ratings, func(r contracts.RatingInfo) bool {
		return contains(m.watch, string(r.WatchlistStatus))
	}) {
		return false
	}

	if rng := m.criteria.RatingDate; rng != nil && !anyAgency(ratings, func(r contracts.RatingInfo) bool {
		return rng.Contains(r.RatingDate)
	}) {
		return false
	}

	if rng := m.criteria.OutlookRevisionDate; rng != nil && !anyAgency(ratings, func(r contracts.RatingInfo) bool {
		return rng.Contains(r.OutlookRevisionDate)
	}) {
		return false
	}

	// 워치리스트 진입일이 없는 기관은 비교 대상에서 제외
	if rng := m.criteria.WatchlistEntryDate; rng != nil && !anyAgency(ratings, func(r contracts.RatingInfo) bool {
		return r.WatchlistEntryDate != nil && rng.Contains(*r.WatchlistEntryDate)
	}) {
		return false
	}

	return true
}

// anyAgency reports whether at least one agency view satisfies pred
func anyAgency(ratings [3]contracts.RatingInfo, pred func(contracts.RatingInfo) bool) bool {
	for _, r := range ratings {
		if pred(r) {
			return true
		}
	}
	return false
}

// toSet returns nil for an empty slice so that "no constraint" is a nil check
func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// inSet treats a nil set as "match everything"
func inSet(set map[string]struct{}, v string) bool {
	if set == nil {
		return true
	}
	return contains(set, v)
}

func contains(set map[string]struct{}, v string) bool {
	_, ok := set[v]
	return ok
}
