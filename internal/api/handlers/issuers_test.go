package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/creditwatch/backend/internal/colorpolicy"
	"github.com/wonny/creditwatch/backend/internal/dashboard"
	"github.com/wonny/creditwatch/backend/internal/external/bridge"
	"github.com/wonny/creditwatch/backend/internal/filtering"
	"github.com/wonny/creditwatch/backend/internal/normalizer"
	"github.com/wonny/creditwatch/backend/internal/presets"
	"github.com/wonny/creditwatch/backend/pkg/logger"
)

type stubSource struct {
	bonds []bridge.BondRecord
	err   error
}

func (s *stubSource) FetchBonds(ctx context.Context, limit int) (*bridge.BondsResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &bridge.BondsResponse{Bonds: s.bonds, Mode: bridge.ModeLive}, nil
}

func (s *stubSource) FetchBond(ctx context.Context, isin string) (*bridge.BondRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.bonds {
		if s.bonds[i].ISIN == isin {
			return &s.bonds[i], nil
		}
	}
	return nil, fmt.Errorf("%s: %w", isin, bridge.ErrBondNotFound)
}

type stubChecker struct {
	status *bridge.HealthStatus
	err    error
}

func (s *stubChecker) Health(ctx context.Context) (*bridge.HealthStatus, error) {
	return s.status, s.err
}

func testBonds() []bridge.BondRecord {
	today := time.Now().Format("2006-01-02")
	return []bridge.BondRecord{
		{
			ISIN: "BR0000000001", Issuer: "Brazil Bank", Country: "BR", Sector: "Financials",
			MoodysRating: "Ba1", MoodysRatingDate: "2020-01-01", MoodysOutlook: "positive", MoodysOutlookDate: "2020-01-01",
			MoodysWatch: "Positive", MoodysWatchDate: today,
			SPRatingDate: "2020-01-01", SPOutlookDate: "2020-01-01",
			FitchRatingDate: "2020-01-01", FitchOutlookDate: "2020-01-01",
		},
		{
			ISIN: "GB0000000002", Issuer: "UK Telecom", Country: "GB", Sector: "Communication Services",
			SPRating: "BBB-", SPRatingDate: "2020-01-01", SPOutlook: "negative", SPOutlookDate: "2020-01-01",
			MoodysRatingDate: "2020-01-01", MoodysOutlookDate: "2020-01-01",
			FitchRatingDate: "2020-01-01", FitchOutlookDate: "2020-01-01",
		},
	}
}

func newTestHandler(source dashboard.BondSource) (*IssuerHandler, *mux.Router) {
	return newPresetHandler(source, nil)
}

func newPresetHandler(source dashboard.BondSource, set *presets.Set) (*IssuerHandler, *mux.Router) {
	svc := dashboard.NewService(
		source,
		normalizer.New(normalizer.Options{LegacyDefaults: true}, logger.Nop()),
		filtering.NewEngine(nil),
		colorpolicy.New(colorpolicy.StrategySimple, nil),
		3000,
		logger.Nop(),
	)
	h := NewIssuerHandler(svc, set, logger.Nop())

	r := mux.NewRouter()
	r.HandleFunc("/api/presets", h.ListPresets).Methods("GET")
	r.HandleFunc("/api/issuers", h.List).Methods("GET")
	r.HandleFunc("/api/issuers/search", h.Search).Methods("POST")
	r.HandleFunc("/api/issuers/changes/{kind}", h.Changes).Methods("GET")
	r.HandleFunc("/api/issuers/{isin}", h.Get).Methods("GET")
	return h, r
}

func serve(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) dashboard.Result {
	t.Helper()
	var result dashboard.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	return result
}

func TestList(t *testing.T) {
	_, r := newTestHandler(&stubSource{bonds: testBonds()})

	rec := serve(r, "GET", "/api/issuers", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	result := decodeResult(t, rec)
	assert.Equal(t, 2, result.Summary.Total)
	assert.Len(t, result.Issuers, 2)

	rec = serve(r, "GET", "/api/issuers?region=Western%20Europe&sector=telecommunications", "")
	require.Equal(t, http.StatusOK, rec.Code)
	result = decodeResult(t, rec)
	require.Len(t, result.Issuers, 1)
	assert.Equal(t, "UK Telecom", result.Issuers[0].Issuer.Name)
}

func TestList_BadDate(t *testing.T) {
	_, r := newTestHandler(&stubSource{bonds: testBonds()})

	rec := serve(r, "GET", "/api/issuers?rating_from=yesterday", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ReasonBadRequest, body.Reason)
}

func TestSearch(t *testing.T) {
	_, r := newTestHandler(&stubSource{bonds: testBonds()})

	rec := serve(r, "POST", "/api/issuers/search", `{"ratings": ["Ba1"], "outlooks": ["positive"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeResult(t, rec)
	require.Len(t, result.Issuers, 1)
	assert.Equal(t, "BR0000000001", result.Issuers[0].Issuer.ISIN)

	// 빈 본문은 전체 조회
	rec = serve(r, "POST", "/api/issuers/search", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeResult(t, rec).Issuers, 2)

	rec = serve(r, "POST", "/api/issuers/search", `{"ratings": "Ba1"`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearch_UnknownField(t *testing.T) {
	_, r := newTestHandler(&stubSource{bonds: testBonds()})

	// "region" instead of "regions" must not silently match everything
	rec := serve(r, "POST", "/api/issuers/search", `{"region": ["Latin America"]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ReasonBadRequest, body.Reason)
	assert.Contains(t, body.Error, "region")
}

func TestChanges(t *testing.T) {
	_, r := newTestHandler(&stubSource{bonds: testBonds()})

	rec := serve(r, "GET", "/api/issuers/changes/watchlist", "")
	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeResult(t, rec)
	require.Len(t, result.Issuers, 1)
	assert.Equal(t, "Brazil Bank", result.Issuers[0].Issuer.Name)

	rec = serve(r, "GET", "/api/issuers/changes/rating", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeResult(t, rec).Issuers)

	rec = serve(r, "GET", "/api/issuers/changes/bogus", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGet(t *testing.T) {
	_, r := newTestHandler(&stubSource{bonds: testBonds()})

	rec := serve(r, "GET", "/api/issuers/GB0000000002", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var view dashboard.IssuerView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "UK Telecom", view.Issuer.Name)

	rec = serve(r, "GET", "/api/issuers/XS9999999999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpstreamErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		reason string
		msg    string
	}{
		{
			name:   "unavailable",
			err:    &bridge.UpstreamError{Kind: bridge.KindUnavailable, Message: "connection refused"},
			status: http.StatusServiceUnavailable,
			reason: "upstream_unavailable",
			msg:    "connection refused",
		},
		{
			name:   "data error",
			err:    &bridge.UpstreamError{Kind: bridge.KindDataError, Message: "Daily data limit reached"},
			status: http.StatusBadGateway,
			reason: "upstream_data_error",
			msg:    "Daily data limit reached",
		},
		{
			name:   "unexpected",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
			reason: ReasonInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, r := newTestHandler(&stubSource{err: tt.err})

			rec := serve(r, "GET", "/api/issuers", "")
			assert.Equal(t, tt.status, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.reason, body.Reason)
			if tt.msg != "" {
				assert.Equal(t, tt.msg, body.Error)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	h := NewHealthHandler(&stubChecker{status: &bridge.HealthStatus{Status: "OK", BloombergConnected: true}}, "simple", logger.Nop())

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest("GET", "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["bridge_connected"])
	assert.Equal(t, true, body["terminal_connected"])
	assert.Equal(t, "simple", body["color_policy"])

	down := NewHealthHandler(&stubChecker{err: errors.New("dial tcp: connection refused")}, "simple", logger.Nop())
	rec = httptest.NewRecorder()
	down.Health(rec, httptest.NewRequest("GET", "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["bridge_connected"])
	assert.Contains(t, body["bridge_error"], "connection refused")
}

const testPresets = `
version: 1
presets:
  - name: uk-telecom
    description: UK telecoms
    criteria:
      regions: [Western Europe]
      sectors: [telecommunications]
`

func TestList_Preset(t *testing.T) {
	set, _, err := presets.Parse([]byte(testPresets))
	require.NoError(t, err)
	_, r := newPresetHandler(&stubSource{bonds: testBonds()}, set)

	rec := serve(r, "GET", "/api/issuers?preset=uk-telecom", "")
	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeResult(t, rec)
	require.Len(t, result.Issuers, 1)
	assert.Equal(t, "UK Telecom", result.Issuers[0].Issuer.Name)

	rec = serve(r, "GET", "/api/issuers?preset=missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(r, "GET", "/api/issuers?preset=uk-telecom&rating=BBB-", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestList_PresetWithoutFile(t *testing.T) {
	_, r := newTestHandler(&stubSource{bonds: testBonds()})

	rec := serve(r, "GET", "/api/issuers?preset=uk-telecom", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(r, "GET", "/api/presets", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"presets":[],"hash":""}`, rec.Body.String())
}

func TestListPresets(t *testing.T) {
	set, _, err := presets.Parse([]byte(testPresets))
	require.NoError(t, err)
	_, r := newPresetHandler(&stubSource{}, set)

	rec := serve(r, "GET", "/api/presets", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Presets []presets.Preset `json:"presets"`
		Hash    string           `json:"hash"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Presets, 1)
	assert.Equal(t, "uk-telecom", body.Presets[0].Name)
	assert.Equal(t, set.Hash(), body.Hash)
}
