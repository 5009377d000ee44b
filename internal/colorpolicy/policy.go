package colorpolicy

import (
	"fmt"
	"strings"
	"time"

	"github.com/wonny/creditwatch/backend/internal/contracts"
)

// Horizon is the typical window (in months) within which an agency resolves an outlook
type Horizon struct {
	MinMonths int `json:"min_months"`
	MaxMonths int `json:"max_months"` // 현재 미사용 (tri-state 정책 예약)
}

// horizons is the per-agency revision horizon table
var horizons = map[contracts.Agency]Horizon{
	contracts.AgencyMoodys: {MinMonths: 12, MaxMonths: 18},
	contracts.AgencySP:     {MinMonths: 6, MaxMonths: 24},
	contracts.AgencyFitch:  {MinMonths: 12, MaxMonths: 24},
}

// HorizonFor returns the revision horizon of an agency
func HorizonFor(agency contracts.Agency) (Horizon, bool) {
	h, ok := horizons[agency]
	return h, ok
}

// MonthsBetween returns the calendar-month difference between two dates.
// Day-of-month is ignored: Jan 31 -> Feb 1 is one month.
func MonthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()-from.Month())
}

// Strategy selects how outlook cells are colored
type Strategy string

const (
	// StrategySimple colors outlook by direction only; staleness comes from the revision-date cell
	StrategySimple Strategy = "simple"

	// StrategyHorizonAware folds the revision horizon into the outlook color
	StrategyHorizonAware Strategy = "horizon_aware"
)

// ParseStrategy converts a configured name into a Strategy
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "simple", "":
		return StrategySimple, nil
	case "horizon_aware", "horizon-aware", "horizonaware":
		return StrategyHorizonAware, nil
	default:
		return "", fmt.Errorf("unknown color policy %q (valid: simple, horizon_aware)", name)
	}
}

// Policy derives traffic-light statuses for grid cells
// ⭐ SSOT: 색상 판정은 이 정책에서만
type Policy struct {
	strategy Strategy
	now      func() time.Time
}

// New creates a policy with the given strategy.
// A nil clock falls back to time.Now.
func New(strategy Strategy, now func() time.Time) *Policy {
	if now == nil {
		now = time.Now
	}
	if strategy != StrategyHorizonAware {
		strategy = StrategySimple
	}
	return &Policy{strategy: strategy, now: now}
}

// Strategy returns the active strategy
func (p *Policy) Strategy() Strategy {
	return p.strategy
}

// OutlookCellColor returns the outlook cell color for one agency's view
func (p *Policy) OutlookCellColor(agency contracts.Agency, outlook contracts.Outlook, revisionDate time.Time) contracts.Status {
	if p.strategy == StrategySimple {
		return CalculateOutlookColor(outlook)
	}

	switch outlook {
	case contracts.OutlookPositive:
		return contracts.StatusGreen
	case contracts.OutlookNegative:
		return contracts.StatusRed
	}

	horizon, ok := HorizonFor(agency)
	if !ok || revisionDate.IsZero() {
		return contracts.StatusNone
	}

	if MonthsBetween(revisionDate, p.now()) >= horizon.MinMonths {
		return contracts.StatusRed
	}

	if outlook == contracts.OutlookStable || outlook == contracts.OutlookDeveloping {
		return contracts.StatusAmber
	}

	return contracts.StatusNone
}

// RevisionDateColor returns red once an outlook has aged past the agency's minimum horizon,
// amber while it is still fresh
func (p *Policy) RevisionDateColor(agency contracts.Agency, revisionDate time.Time) contracts.Status {
	horizon, ok := HorizonFor(agency)
	if !ok || revisionDate.IsZero() {
		return contracts.StatusNone
	}

	if MonthsBetween(revisionDate, p.now()) >= horizon.MinMonths {
		return contracts.StatusRed
	}
	return contracts.StatusAmber
}

// WatchlistColor returns the watchlist cell color
func (p *Policy) WatchlistColor(status contracts.WatchlistStatus) contracts.Status {
	return CalculateWatchlistColor(status)
}

// CalculateOutlookColor is the two-state outlook rule used by the grid
func CalculateOutlookColor(outlook contracts.Outlook) contracts.Status {
	switch outlook {
	case contracts.OutlookPositive:
		return contracts.StatusGreen
	case contracts.OutlookNegative:
		return contracts.StatusRed
	default:
		return contracts.StatusNone
	}
}

// CalculateWatchlistColor maps a watchlist status to a color
func CalculateWatchlistColor(status contracts.WatchlistStatus) contracts.Status {
	switch status {
	case contracts.WatchlistPositive:
		return contracts.StatusGreen
	case contracts.WatchlistNegative:
		return contracts.StatusRed
	default:
		return contracts.StatusNone
	}
}

// CellStatus holds the colors of one agency's cells in a grid row
type CellStatus struct {
	Outlook         contracts.Status `json:"outlook"`
	OutlookRevision contracts.Status `json:"outlook_revision"`
	Watchlist       contracts.Status `json:"watchlist"`
}

// Classify computes all cell colors of an issuer row
func (p *Policy) Classify(issuer *contracts.Issuer) map[contracts.Agency]CellStatus {
	cells := make(map[contracts.Agency]CellStatus, 3)
	for _, agency := range contracts.Agencies() {
		info, _ := issuer.Rating(agency)
		cells[agency] = CellStatus{
			Outlook:         p.OutlookCellColor(agency, info.Outlook, info.OutlookRevisionDate),
			OutlookRevision: p.RevisionDateColor(agency, info.OutlookRevisionDate),
			Watchlist:       p.WatchlistColor(info.WatchlistStatus),
		}
	}
	return cells
}
