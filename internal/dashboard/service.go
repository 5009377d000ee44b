package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/creditwatch/backend/internal/colorpolicy"
	"github.com/wonny/creditwatch/backend/internal/contracts"
	"github.com/wonny/creditwatch/backend/internal/external/bridge"
	"github.com/wonny/creditwatch/backend/internal/filtering"
	"github.com/wonny/creditwatch/backend/internal/normalizer"
	"github.com/wonny/creditwatch/backend/pkg/logger"
)

// BondSource supplies raw bond records (implemented by bridge.Client)
type BondSource interface {
	FetchBonds(ctx context.Context, limit int) (*bridge.BondsResponse, error)
	FetchBond(ctx context.Context, isin string) (*bridge.BondRecord, error)
}

// IssuerView is one grid row: the issuer and its per-agency cell colors
type IssuerView struct {
	Issuer contracts.Issuer                            `json:"issuer"`
	Cells  map[contracts.Agency]colorpolicy.CellStatus `json:"cells"`
}

// Summary describes how a result was produced
type Summary struct {
	Total     int                  `json:"total"`
	Matched   int                  `json:"matched"`
	FetchedAt time.Time            `json:"fetched_at"`
	Policy    colorpolicy.Strategy `json:"policy"`
}

// Result is the answer to one dashboard query
type Result struct {
	Issuers []IssuerView `json:"issuers"`
	Summary Summary      `json:"summary"`
}

// Digest holds the three today's-changes sets computed from one fetch
type Digest struct {
	Rating    []contracts.Issuer `json:"rating"`
	Outlook   []contracts.Issuer `json:"outlook"`
	Watchlist []contracts.Issuer `json:"watchlist"`
	Total     int                `json:"total"`
	FetchedAt time.Time          `json:"fetched_at"`
}

// Service answers dashboard queries.
// Every call fetches a fresh snapshot; nothing is shared between calls.
// ⭐ SSOT: fetch → normalize → filter → classify 흐름은 여기서만
type Service struct {
	source     BondSource
	normalizer *normalizer.Normalizer
	engine     *filtering.Engine
	policy     *colorpolicy.Policy
	limit      int
	now        func() time.Time
	logger     *logger.Logger
}

// NewService creates a new dashboard service
func NewService(
	source BondSource,
	norm *normalizer.Normalizer,
	engine *filtering.Engine,
	policy *colorpolicy.Policy,
	limit int,
	log *logger.Logger,
) *Service {
	return &Service{
		source:     source,
		normalizer: norm,
		engine:     engine,
		policy:     policy,
		limit:      limit,
		now:        time.Now,
		logger:     log.WithComponent("dashboard"),
	}
}

// Policy returns the active color strategy
func (s *Service) Policy() colorpolicy.Strategy {
	return s.policy.Strategy()
}

// Query returns the issuers matching criteria (nil or empty criteria match everything)
func (s *Service) Query(ctx context.Context, criteria *filtering.Criteria) (*Result, error) {
	issuers, fetchedAt, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	matched := s.engine.Filter(issuers, criteria)

	s.logger.WithFields(map[string]interface{}{
		"total":   len(issuers),
		"matched": len(matched),
		"empty":   criteria.IsEmpty(),
	}).Debug("Dashboard query completed")

	return s.result(matched, len(issuers), fetchedAt), nil
}

// ChangesToday returns the issuers with a change of the given kind today
func (s *Service) ChangesToday(ctx context.Context, kind filtering.ChangeKind) (*Result, error) {
	issuers, fetchedAt, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	matched, err := s.engine.ChangesToday(kind, issuers)
	if err != nil {
		return nil, err
	}

	return s.result(matched, len(issuers), fetchedAt), nil
}

// Digest computes all of today's changes from a single fetch
func (s *Service) Digest(ctx context.Context) (*Digest, error) {
	issuers, fetchedAt, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	return &Digest{
		Rating:    s.engine.RatingChangesToday(issuers),
		Outlook:   s.engine.OutlookChangesToday(issuers),
		Watchlist: s.engine.WatchlistChangesToday(issuers),
		Total:     len(issuers),
		FetchedAt: fetchedAt,
	}, nil
}

// Issuer returns a single issuer by ISIN
func (s *Service) Issuer(ctx context.Context, isin string) (*IssuerView, error) {
	record, err := s.source.FetchBond(ctx, isin)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bond %s: %w", isin, err)
	}

	issuer := s.normalizer.NormalizeOne(*record, 0)
	view := s.view(issuer)
	return &view, nil
}

// snapshot fetches and normalizes the full collection
func (s *Service) snapshot(ctx context.Context) ([]contracts.Issuer, time.Time, error) {
	resp, err := s.source.FetchBonds(ctx, s.limit)
	if err != nil {
		s.logger.WithError(err).Warn("Bond fetch failed")
		return nil, time.Time{}, fmt.Errorf("failed to fetch bonds: %w", err)
	}

	return s.normalizer.Normalize(resp.Bonds), s.now(), nil
}

func (s *Service) result(matched []contracts.Issuer, total int, fetchedAt time.Time) *Result {
	views := make([]IssuerView, 0, len(matched))
	for _, issuer := range matched {
		views = append(views, s.view(issuer))
	}

	return &Result{
		Issuers: views,
		Summary: Summary{
			Total:     total,
			Matched:   len(matched),
			FetchedAt: fetchedAt,
			Policy:    s.policy.Strategy(),
		},
	}
}

func (s *Service) view(issuer contracts.Issuer) IssuerView {
	return IssuerView{
		Issuer: issuer,
		Cells:  s.policy.Classify(&issuer),
	}
}
