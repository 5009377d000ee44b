package presets

import (
	"net/url"
	"strings"

	"github.com/wonny/creditwatch/backend/internal/filtering"
)

// File is the YAML document holding saved filter presets
// ⭐ SSOT: 프리셋 파일 구조는 여기서만 정의
type File struct {
	Version int      `yaml:"version" json:"version"`
	Presets []Preset `yaml:"presets" json:"presets"`
}

// Preset is a named, reusable set of filter criteria
type Preset struct {
	Name        string       `yaml:"name" json:"name"`
	Description string       `yaml:"description,omitempty" json:"description,omitempty"`
	Criteria    CriteriaSpec `yaml:"criteria" json:"criteria"`
}

// CriteriaSpec mirrors filtering.Criteria with YAML-friendly date bounds
type CriteriaSpec struct {
	Regions           []string `yaml:"regions,omitempty" json:"regions,omitempty"`
	Sectors           []string `yaml:"sectors,omitempty" json:"sectors,omitempty"`
	Industries        []string `yaml:"industries,omitempty" json:"industries,omitempty"`
	Ratings           []string `yaml:"ratings,omitempty" json:"ratings,omitempty"`
	Outlooks          []string `yaml:"outlooks,omitempty" json:"outlooks,omitempty"`
	WatchlistStatuses []string `yaml:"watchlist_statuses,omitempty" json:"watchlist_statuses,omitempty"`

	RatingDate         *DateSpec `yaml:"rating_date,omitempty" json:"rating_date,omitempty"`
	OutlookDate        *DateSpec `yaml:"outlook_date,omitempty" json:"outlook_date,omitempty"`
	WatchlistEntryDate *DateSpec `yaml:"watchlist_date,omitempty" json:"watchlist_date,omitempty"`
}

// DateSpec is an inclusive range; either bound may be empty (open)
type DateSpec struct {
	From string `yaml:"from,omitempty" json:"from,omitempty"`
	To   string `yaml:"to,omitempty" json:"to,omitempty"`
}

// Criteria converts the preset into filter criteria.
// Dates follow the same rules as the HTTP query parameters.
func (s CriteriaSpec) Criteria() (*filtering.Criteria, error) {
	return filtering.CriteriaFromQuery(s.query())
}

// query encodes the preset as the equivalent /api/issuers query
func (s CriteriaSpec) query() url.Values {
	q := url.Values{}
	addAll := func(key string, values []string) {
		for _, v := range values {
			if v = strings.TrimSpace(v); v != "" {
				q.Add(key, v)
			}
		}
	}
	addRange := func(fromKey, toKey string, d *DateSpec) {
		if d == nil {
			return
		}
		if d.From != "" {
			q.Set(fromKey, d.From)
		}
		if d.To != "" {
			q.Set(toKey, d.To)
		}
	}

	addAll("region", s.Regions)
	addAll("sector", s.Sectors)
	addAll("industry", s.Industries)
	addAll("rating", s.Ratings)
	addAll("outlook", s.Outlooks)
	addAll("watchlist", s.WatchlistStatuses)
	addRange("rating_from", "rating_to", s.RatingDate)
	addRange("outlook_from", "outlook_to", s.OutlookDate)
	addRange("watch_from", "watch_to", s.WatchlistEntryDate)

	return q
}

// Set is a validated, name-indexed collection of presets
type Set struct {
	file   File
	byName map[string]*filtering.Criteria
	hash   string
}

// Get returns the criteria of a preset
func (s *Set) Get(name string) (*filtering.Criteria, bool) {
	if s == nil {
		return nil, false
	}
	c, ok := s.byName[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// List returns the presets in file order
func (s *Set) List() []Preset {
	if s == nil {
		return []Preset{}
	}
	return s.file.Presets
}

// Len returns the number of presets
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.file.Presets)
}

// Hash identifies the loaded content (sha256 of canonical JSON)
func (s *Set) Hash() string {
	if s == nil {
		return ""
	}
	return s.hash
}
