package normalizer

import (
	"fmt"
	"strings"
	"time"

	"github.com/wonny/creditwatch/backend/internal/contracts"
	"github.com/wonny/creditwatch/backend/internal/external/bridge"
	"github.com/wonny/creditwatch/backend/pkg/logger"
)

// NotRated is the rating assigned when an agency field is empty
const NotRated = "NR"

// Options controls normalization defaults
type Options struct {
	// LegacyDefaults maps unknown countries to Africa and unknown sectors to sovereign.
	// When false they become Unknown / unclassified.
	LegacyDefaults bool

	// Now supplies the timestamp used for missing or unparseable dates
	Now func() time.Time
}

// Normalizer turns raw bridge rows into issuer records.
// It never fails on a record: bad fields degrade individually.
// ⭐ SSOT: 원시 데이터 → Issuer 변환은 여기서만
type Normalizer struct {
	opts   Options
	logger *logger.Logger
}

// New creates a new normalizer
func New(opts Options, log *logger.Logger) *Normalizer {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Normalizer{
		opts:   opts,
		logger: log.WithComponent("normalizer"),
	}
}

// Normalize converts every record; the result has the same length and order as the input
func (n *Normalizer) Normalize(records []bridge.BondRecord) []contracts.Issuer {
	issuers := make([]contracts.Issuer, 0, len(records))
	inconsistent := 0

	for i := range records {
		issuer := n.NormalizeOne(records[i], i)

		for _, rating := range issuer.Ratings() {
			if !rating.WatchlistConsistent() {
				inconsistent++
			}
		}

		issuers = append(issuers, issuer)
	}

	if inconsistent > 0 {
		n.logger.WithFields(map[string]interface{}{
			"records":      len(records),
			"inconsistent": inconsistent,
		}).Warn("Watchlist status without entry date")
	}

	return issuers
}

// NormalizeOne converts a single record. index feeds the generated id when the ISIN is missing.
func (n *Normalizer) NormalizeOne(record bridge.BondRecord, index int) contracts.Issuer {
	isin := strings.TrimSpace(record.ISIN)

	id := isin
	if id == "" {
		id = fmt.Sprintf("issuer-%d", index+1)
	}

	name := strings.TrimSpace(record.Issuer)
	if name == "" {
		name = isin
	}
	if name == "" {
		name = id
	}

	return contracts.Issuer{
		ID:       id,
		ISIN:     isin,
		Name:     name,
		Region:   n.MapRegion(record.Country),
		Sector:   n.MapSector(record.Sector),
		Industry: strings.TrimSpace(record.Industry),
		Moodys:   n.rating(record.Moodys()),
		SP:       n.rating(record.SP()),
		Fitch:    n.rating(record.Fitch()),
	}
}

func (n *Normalizer) rating(fields bridge.AgencyFields) contracts.RatingInfo {
	current := strings.TrimSpace(fields.Rating)
	if current == "" {
		current = NotRated
	}

	info := contracts.RatingInfo{
		CurrentRating:       current,
		RatingDate:          n.ParseDate(fields.RatingDate),
		Outlook:             ParseOutlook(fields.Outlook),
		OutlookRevisionDate: n.ParseDate(fields.OutlookDate),
		WatchlistStatus:     ParseWatchlist(fields.Watch),
	}

	// 워치리스트 등재 시에만 진입일 사용 (날짜 없으면 비워둠)
	if info.OnWatchlist() && strings.TrimSpace(fields.WatchDate) != "" {
		entry := n.ParseDate(fields.WatchDate)
		info.WatchlistEntryDate = &entry
	}

	return info
}

// MapRegion maps an ISO country code to its macro-region
func (n *Normalizer) MapRegion(country string) contracts.Region {
	if region, ok := countryRegions[strings.ToUpper(strings.TrimSpace(country))]; ok {
		return region
	}
	if n.opts.LegacyDefaults {
		return contracts.RegionAfrica
	}
	return contracts.RegionUnknown
}

// MapSector maps a free-text sector name to a sector tag
func (n *Normalizer) MapSector(name string) contracts.Sector {
	lower := strings.ToLower(strings.TrimSpace(name))

	if lower != "" {
		for _, rule := range sectorRules {
			for _, keyword := range rule.keywords {
				if strings.Contains(lower, keyword) {
					return rule.sector
				}
			}
		}
	}

	if n.opts.LegacyDefaults {
		return contracts.SectorSovereign
	}
	return contracts.SectorUnclassified
}

// ParseOutlook normalizes an outlook string by its leading token (POS, NEG, DEV, STA);
// unrecognized values are stable
func ParseOutlook(s string) contracts.Outlook {
	lower := strings.ToLower(strings.TrimSpace(s))

	switch {
	case strings.HasPrefix(lower, "pos"):
		return contracts.OutlookPositive
	case strings.HasPrefix(lower, "neg"):
		return contracts.OutlookNegative
	case strings.HasPrefix(lower, "dev"):
		return contracts.OutlookDeveloping
	default:
		return contracts.OutlookStable
	}
}

// ParseWatchlist normalizes a watchlist designation
func ParseWatchlist(s string) contracts.WatchlistStatus {
	upper := strings.ToUpper(strings.TrimSpace(s))

	switch {
	case upper == "":
		return contracts.WatchlistNone
	case strings.Contains(upper, "POSITIVE") || strings.Contains(upper, "UPGRADE"):
		return contracts.WatchlistPositive
	case strings.Contains(upper, "NEGATIVE") || strings.Contains(upper, "DOWNGRADE"):
		return contracts.WatchlistNegative
	default:
		return contracts.WatchlistNone
	}
}

// dateLayouts are tried in order; layouts without a zone are read in local time
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"20060102",
}

// ParseDate parses an upstream date. Missing or unparseable values fall back to Now().
func (n *Normalizer) ParseDate(s string) time.Time {
	t, ok := parseDate(s)
	if !ok {
		return n.opts.Now()
	}
	return t
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
