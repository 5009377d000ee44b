package bridge

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/creditwatch/backend/pkg/config"
	"github.com/wonny/creditwatch/backend/pkg/httputil"
	"github.com/wonny/creditwatch/backend/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{Bridge: config.BridgeConfig{BaseURL: server.URL, Timeout: timeout, Limit: 3000}}
	return NewClient(httputil.New(cfg, logger.Nop()), server.URL+"/", logger.Nop())
}

const liveBonds = `{
	"bonds": [{
		"isin": "US912828Z250",
		"issuer": "United States Treasury",
		"country": "US",
		"sector": "Government",
		"industry": "Government",
		"moodys_rating": "Aaa",
		"moodys_rating_date": "2023-01-15",
		"moodys_outlook": "stable",
		"moodys_outlook_date": "2023-01-15",
		"moodys_watch": "Not on watchlist",
		"sp_rating": "AA+",
		"fitch_rating": "AAA",
		"fitch_watch": "Negative",
		"fitch_watch_date": "2024-05-01"
	}],
	"count": 1,
	"timestamp": "2024-05-01T10:00:00",
	"mode": "live"
}`

func TestFetchBonds(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/bonds", r.URL.Path)
		assert.Equal(t, "500", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(liveBonds))
	}, 5*time.Second)

	resp, err := client.FetchBonds(context.Background(), 500)
	require.NoError(t, err)

	require.Len(t, resp.Bonds, 1)
	bond := resp.Bonds[0]
	assert.Equal(t, "US912828Z250", bond.ISIN)
	assert.Equal(t, "Aaa", bond.Moodys().Rating)
	assert.Equal(t, "AA+", bond.SP().Rating)
	assert.Equal(t, "2024-05-01", bond.Fitch().WatchDate)
	assert.Equal(t, ModeLive, resp.Mode)
}

func TestFetchBonds_ClampsLimit(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3000", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"bonds": null, "mode": "live"}`))
	}, 5*time.Second)

	resp, err := client.FetchBonds(context.Background(), 100000)
	require.NoError(t, err)
	assert.NotNil(t, resp.Bonds)
	assert.Empty(t, resp.Bonds)
}

func TestFetchBonds_ErrorPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"mode": "error", "error": "Daily data limit reached"}`))
	}, 5*time.Second)

	_, err := client.FetchBonds(context.Background(), 10)
	require.Error(t, err)

	assert.True(t, errors.Is(err, ErrUpstreamData))
	assert.False(t, errors.Is(err, ErrUpstreamUnavailable))

	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, "Daily data limit reached", upstream.Message)
	assert.Equal(t, KindDataError, upstream.Kind)
}

func TestFetchBonds_ExceptionWithSampleData(t *testing.T) {
	// the bridge attaches sample bonds to its 500 response; they must not leak through
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "session lost", "bonds": [{"isin": "X"}], "count": 1, "mode": "demo"}`))
	}, 5*time.Second)

	resp, err := client.FetchBonds(context.Background(), 10)
	assert.Nil(t, resp)
	assert.True(t, errors.Is(err, ErrUpstreamData))
	assert.Contains(t, err.Error(), "session lost")
}

func TestFetchBonds_DemoModeRejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"bonds": [{"isin": "US912828Z250"}], "count": 1, "mode": "demo"}`))
	}, 5*time.Second)

	_, err := client.FetchBonds(context.Background(), 10)
	assert.True(t, errors.Is(err, ErrUpstreamData))
}

func TestFetchBonds_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	cfg := &config.Config{Bridge: config.BridgeConfig{BaseURL: url, Timeout: time.Second}}
	client := NewClient(httputil.New(cfg, logger.Nop()), url, logger.Nop())

	_, err := client.FetchBonds(context.Background(), 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstreamUnavailable))
}

func TestFetchBonds_Timeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(liveBonds))
	}, 50*time.Millisecond)

	_, err := client.FetchBonds(context.Background(), 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstreamUnavailable))
}

func TestFetchBonds_GatewayError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>bad gateway</html>`))
	}, 5*time.Second)

	_, err := client.FetchBonds(context.Background(), 10)
	assert.True(t, errors.Is(err, ErrUpstreamUnavailable))
}

func TestFetchBond(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/bonds/US912828Z250":
			w.Write([]byte(`{"isin": "US912828Z250", "issuer": "United States Treasury", "moodys_rating": "Aaa"}`))
		case "/api/bonds/OFFLINE":
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error": "Bloomberg not connected"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error": "Bond not found"}`))
		}
	}, 5*time.Second)

	bond, err := client.FetchBond(context.Background(), "US912828Z250")
	require.NoError(t, err)
	assert.Equal(t, "United States Treasury", bond.Issuer)

	_, err = client.FetchBond(context.Background(), "XS0000000000")
	assert.True(t, errors.Is(err, ErrBondNotFound))

	_, err = client.FetchBond(context.Background(), "OFFLINE")
	assert.True(t, errors.Is(err, ErrUpstreamUnavailable))
	assert.Contains(t, err.Error(), "Bloomberg not connected")

	_, err = client.FetchBond(context.Background(), "  ")
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/health", r.URL.Path)
		w.Write([]byte(`{"status": "OK", "timestamp": "2024-05-01T10:00:00", "bloomberg_connected": true}`))
	}, 5*time.Second)

	health, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "OK", health.Status)
	assert.True(t, health.BloombergConnected)
}

func TestUpstreamError_Message(t *testing.T) {
	err := unavailable(errors.New("dial tcp: refused"), "dial tcp: refused")
	assert.Equal(t, "upstream bridge unavailable: dial tcp: refused", err.Error())
	assert.EqualError(t, errors.Unwrap(err), "dial tcp: refused")

	err = dataError("limit reached")
	assert.Equal(t, "upstream bridge data error: limit reached", err.Error())
}

func TestConnect(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/connect", r.URL.Path)
		w.Write([]byte(`{"success": true, "message": "Connected to Bloomberg Terminal"}`))
	}, 5*time.Second)

	result, err := client.Connect(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "Connected to Bloomberg Terminal", result.Message)
}

func TestConnect_Refused(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success": false, "error": "Failed to start session"}`))
	}, 5*time.Second)

	_, err := client.Connect(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstreamData))
	assert.Contains(t, err.Error(), "Failed to start session")

	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, KindDataError, upstream.Kind)
}

func TestConnect_GatewayError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>bad gateway</html>`))
	}, 5*time.Second)

	_, err := client.Connect(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstreamUnavailable))
}

func TestConnect_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	cfg := &config.Config{Bridge: config.BridgeConfig{BaseURL: url, Timeout: time.Second}}
	client := NewClient(httputil.New(cfg, logger.Nop()), url, logger.Nop())

	_, err := client.Connect(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstreamUnavailable))
}
