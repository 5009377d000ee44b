package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/creditwatch/backend/internal/colorpolicy"
	"github.com/wonny/creditwatch/backend/internal/contracts"
	"github.com/wonny/creditwatch/backend/internal/external/bridge"
	"github.com/wonny/creditwatch/backend/internal/filtering"
	"github.com/wonny/creditwatch/backend/internal/normalizer"
	"github.com/wonny/creditwatch/backend/pkg/logger"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local)

type fakeSource struct {
	bonds      []bridge.BondRecord
	err        error
	fetchCalls int
	lastLimit  int
}

func (f *fakeSource) FetchBonds(ctx context.Context, limit int) (*bridge.BondsResponse, error) {
	f.fetchCalls++
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return &bridge.BondsResponse{Bonds: f.bonds, Count: len(f.bonds), Mode: bridge.ModeLive}, nil
}

func (f *fakeSource) FetchBond(ctx context.Context, isin string) (*bridge.BondRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.bonds {
		if f.bonds[i].ISIN == isin {
			return &f.bonds[i], nil
		}
	}
	return nil, bridge.ErrBondNotFound
}

// stale fills every date with a day long past so only the fields a test sets land on today
func stale(b bridge.BondRecord) bridge.BondRecord {
	const old = "2020-01-15"
	for _, f := range []*string{
		&b.MoodysRatingDate, &b.MoodysOutlookDate,
		&b.SPRatingDate, &b.SPOutlookDate,
		&b.FitchRatingDate, &b.FitchOutlookDate,
	} {
		if *f == "" {
			*f = old
		}
	}
	return b
}

func sampleBonds() []bridge.BondRecord {
	return []bridge.BondRecord{
		stale(bridge.BondRecord{
			ISIN:              "BR0000000001",
			Issuer:            "Brazil Bank",
			Country:           "BR",
			Sector:            "Financials",
			MoodysRating:      "Ba1",
			MoodysRatingDate:  "2023-03-10",
			MoodysOutlook:     "positive",
			MoodysOutlookDate: "2024-01-10",
			MoodysWatch:       "Positive",
			MoodysWatchDate:   "2024-05-01",
		}),
		stale(bridge.BondRecord{
			ISIN:             "DE0000000002",
			Issuer:           "German Utility",
			Country:          "DE",
			Sector:           "Utilities",
			FitchRating:      "A-",
			FitchRatingDate:  "2024-05-01",
			FitchOutlook:     "negative",
			FitchOutlookDate: "2022-05-01",
		}),
		stale(bridge.BondRecord{
			ISIN:          "JP0000000003",
			Issuer:        "Japan Tech",
			Country:       "JP",
			Sector:        "Information Technology",
			SPRating:      "BBB",
			SPOutlook:     "stable",
			SPOutlookDate: "2024-05-01",
		}),
	}
}

func newTestService(source BondSource, strategy colorpolicy.Strategy) *Service {
	clock := func() time.Time { return testNow }

	svc := NewService(
		source,
		normalizer.New(normalizer.Options{LegacyDefaults: true, Now: clock}, logger.Nop()),
		filtering.NewEngine(clock),
		colorpolicy.New(strategy, clock),
		500,
		logger.Nop(),
	)
	svc.now = clock
	return svc
}

func TestQuery_EmptyCriteria(t *testing.T) {
	source := &fakeSource{bonds: sampleBonds()}
	svc := newTestService(source, colorpolicy.StrategySimple)

	result, err := svc.Query(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, source.fetchCalls)
	assert.Equal(t, 500, source.lastLimit)
	assert.Equal(t, 3, result.Summary.Total)
	assert.Equal(t, 3, result.Summary.Matched)
	assert.Equal(t, colorpolicy.StrategySimple, result.Summary.Policy)
	assert.True(t, result.Summary.FetchedAt.Equal(testNow))

	require.Len(t, result.Issuers, 3)
	assert.Equal(t, "BR0000000001", result.Issuers[0].Issuer.ID)
	assert.Equal(t, "JP0000000003", result.Issuers[2].Issuer.ID)
}

func TestQuery_FilterAndClassify(t *testing.T) {
	svc := newTestService(&fakeSource{bonds: sampleBonds()}, colorpolicy.StrategySimple)

	result, err := svc.Query(context.Background(), &filtering.Criteria{Ratings: []string{"Ba1"}})
	require.NoError(t, err)

	require.Len(t, result.Issuers, 1)
	view := result.Issuers[0]
	assert.Equal(t, "Brazil Bank", view.Issuer.Name)
	assert.Equal(t, contracts.RegionLatinAmerica, view.Issuer.Region)

	moodys := view.Cells[contracts.AgencyMoodys]
	assert.Equal(t, contracts.StatusGreen, moodys.Outlook)
	assert.Equal(t, contracts.StatusGreen, moodys.Watchlist)
	// 2024-01 → 2024-05 = 4개월 < 12
	assert.Equal(t, contracts.StatusAmber, moodys.OutlookRevision)

	assert.Equal(t, 3, result.Summary.Total)
	assert.Equal(t, 1, result.Summary.Matched)
}

func TestQuery_HorizonAwarePolicy(t *testing.T) {
	svc := newTestService(&fakeSource{bonds: sampleBonds()}, colorpolicy.StrategyHorizonAware)

	result, err := svc.Query(context.Background(), &filtering.Criteria{Regions: []string{"Asia-Pacific"}})
	require.NoError(t, err)

	require.Len(t, result.Issuers, 1)
	sp := result.Issuers[0].Cells[contracts.AgencySP]
	assert.Equal(t, contracts.StatusAmber, sp.Outlook, "stable revised this month is amber")
	assert.Equal(t, colorpolicy.StrategyHorizonAware, result.Summary.Policy)
}

func TestQuery_UpstreamFailure(t *testing.T) {
	upstream := &bridge.UpstreamError{Kind: bridge.KindDataError, Message: "Daily data limit reached"}
	svc := newTestService(&fakeSource{err: upstream}, colorpolicy.StrategySimple)

	result, err := svc.Query(context.Background(), nil)
	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, errors.Is(err, bridge.ErrUpstreamData))
	assert.Contains(t, err.Error(), "Daily data limit reached")
}

func TestChangesToday(t *testing.T) {
	svc := newTestService(&fakeSource{bonds: sampleBonds()}, colorpolicy.StrategySimple)

	tests := []struct {
		kind     filtering.ChangeKind
		expected []string
	}{
		{filtering.ChangeRating, []string{"DE0000000002"}},
		{filtering.ChangeOutlook, []string{"JP0000000003"}},
		{filtering.ChangeWatchlist, []string{"BR0000000001"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			result, err := svc.ChangesToday(context.Background(), tt.kind)
			require.NoError(t, err)

			var ids []string
			for _, v := range result.Issuers {
				ids = append(ids, v.Issuer.ID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}

	_, err := svc.ChangesToday(context.Background(), filtering.ChangeKind("bogus"))
	assert.Error(t, err)
}

func TestDigest(t *testing.T) {
	source := &fakeSource{bonds: sampleBonds()}
	svc := newTestService(source, colorpolicy.StrategySimple)

	digest, err := svc.Digest(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, source.fetchCalls, "one fetch serves all three sets")
	assert.Equal(t, 3, digest.Total)
	assert.Len(t, digest.Rating, 1)
	assert.Len(t, digest.Outlook, 1)
	assert.Len(t, digest.Watchlist, 1)
}

func TestIssuer(t *testing.T) {
	svc := newTestService(&fakeSource{bonds: sampleBonds()}, colorpolicy.StrategySimple)

	view, err := svc.Issuer(context.Background(), "DE0000000002")
	require.NoError(t, err)
	assert.Equal(t, "German Utility", view.Issuer.Name)
	assert.Equal(t, contracts.StatusRed, view.Cells[contracts.AgencyFitch].Outlook)

	_, err = svc.Issuer(context.Background(), "XX")
	assert.True(t, errors.Is(err, bridge.ErrBondNotFound))
}
