package filtering

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/creditwatch/backend/internal/contracts"
)

func TestChangesToday(t *testing.T) {
	now := time.Date(2024, 9, 15, 14, 30, 0, 0, time.Local)
	todayLate := time.Date(2024, 9, 15, 23, 59, 0, 0, time.Local)
	todayEarly := time.Date(2024, 9, 15, 0, 0, 1, 0, time.Local)
	yesterday := time.Date(2024, 9, 14, 14, 30, 0, 0, time.Local)

	rated := newIssuer("RATED", contracts.RegionNorthAmerica, contracts.SectorFinancial)
	rated.Fitch.RatingDate = todayLate

	ratedYesterday := newIssuer("RATED-Y", contracts.RegionNorthAmerica, contracts.SectorFinancial)
	ratedYesterday.Moodys.RatingDate = yesterday

	revised := newIssuer("REVISED", contracts.RegionNorthAmerica, contracts.SectorFinancial)
	revised.SP.OutlookRevisionDate = todayEarly

	revisedYesterday := newIssuer("REVISED-Y", contracts.RegionNorthAmerica, contracts.SectorFinancial)
	revisedYesterday.SP.OutlookRevisionDate = yesterday

	watched := newIssuer("WATCHED", contracts.RegionNorthAmerica, contracts.SectorFinancial)
	watched.Moodys.WatchlistStatus = contracts.WatchlistNegative
	watched.Moodys.WatchlistEntryDate = ptr(todayEarly)

	watchedYesterday := newIssuer("WATCHED-Y", contracts.RegionNorthAmerica, contracts.SectorFinancial)
	watchedYesterday.Fitch.WatchlistStatus = contracts.WatchlistPositive
	watchedYesterday.Fitch.WatchlistEntryDate = ptr(yesterday)

	issuers := []contracts.Issuer{rated, ratedYesterday, revised, revisedYesterday, watched, watchedYesterday}

	assert.Equal(t, []string{"RATED"}, isins(RatingChangesToday(issuers, now)))
	assert.Equal(t, []string{"REVISED"}, isins(OutlookChangesToday(issuers, now)))
	assert.Equal(t, []string{"WATCHED"}, isins(WatchlistChangesToday(issuers, now)))
}

func TestChangesToday_EmptyInput(t *testing.T) {
	now := time.Now()
	assert.NotNil(t, RatingChangesToday(nil, now))
	assert.Empty(t, OutlookChangesToday(nil, now))
	assert.Empty(t, WatchlistChangesToday([]contracts.Issuer{}, now))
}

func TestEngine_EndToEnd(t *testing.T) {
	now := time.Date(2024, 9, 15, 9, 0, 0, 0, time.Local)
	engine := NewEngine(func() time.Time { return now })

	target := newIssuer("US0000000BA1", contracts.RegionNorthAmerica, contracts.SectorIndustrials)
	target.Moodys.CurrentRating = "Ba1"
	target.Moodys.Outlook = contracts.OutlookPositive
	target.Moodys.WatchlistStatus = contracts.WatchlistPositive
	target.Moodys.WatchlistEntryDate = ptr(now)

	other := newIssuer("OTHER", contracts.RegionNorthAmerica, contracts.SectorIndustrials)
	other.Moodys.CurrentRating = "Baa3"

	issuers := []contracts.Issuer{other, target}

	filtered := engine.Filter(issuers, &Criteria{Ratings: []string{"Ba1"}})
	assert.Equal(t, []string{"US0000000BA1"}, isins(filtered))

	watch := engine.WatchlistChangesToday(issuers)
	assert.Equal(t, []string{"US0000000BA1"}, isins(watch))

	got, err := engine.ChangesToday(ChangeWatchlist, issuers)
	require.NoError(t, err)
	assert.Equal(t, watch, got)

	_, err = engine.ChangesToday("upgrades", issuers)
	assert.Error(t, err)
}

func TestParseChangeKind(t *testing.T) {
	tests := []struct {
		in      string
		want    ChangeKind
		wantErr bool
	}{
		{"rating", ChangeRating, false},
		{"Ratings", ChangeRating, false},
		{"outlook", ChangeOutlook, false},
		{"watchlist", ChangeWatchlist, false},
		{"watch", ChangeWatchlist, false},
		{"", "", true},
		{"downgrades", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseChangeKind(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseChangeKind_ErrorListsKinds(t *testing.T) {
	_, err := ParseChangeKind("downgrades")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rating, outlook, watchlist")
	assert.Len(t, ChangeKinds(), 3)
}
