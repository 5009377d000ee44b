package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/wonny/creditwatch/backend/pkg/httputil"
	"github.com/wonny/creditwatch/backend/pkg/logger"
)

// MaxLimit is the largest bond count the bridge screens in one call
const MaxLimit = 3000

// Client handles communication with the terminal bridge
// ⭐ SSOT: 브리지 API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new bridge client
func NewClient(httpClient *httputil.Client, baseURL string, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.WithComponent("bridge"),
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// BaseURL returns the bridge root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchBonds fetches up to limit raw bond records.
// Demo or error payloads are failures: no sample data is ever passed through.
func (c *Client) FetchBonds(ctx context.Context, limit int) (*BondsResponse, error) {
	if limit <= 0 || limit > MaxLimit {
		limit = MaxLimit
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	fullURL := fmt.Sprintf("%s/api/bonds?%s", c.baseURL, params.Encode())

	status, body, err := c.get(ctx, fullURL)
	if err != nil {
		return nil, err
	}

	var payload BondsResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		if status >= http.StatusInternalServerError {
			return nil, unavailable(err, "bridge returned status %d", status)
		}
		return nil, dataError("malformed bonds response (status %d): %v", status, err)
	}

	if payload.Error != "" || payload.Mode == ModeError {
		msg := payload.Error
		if msg == "" {
			msg = "bridge reported an error without a message"
		}
		return nil, dataError("%s", msg)
	}

	if status != http.StatusOK {
		if status >= http.StatusInternalServerError {
			return nil, unavailable(nil, "bridge returned status %d", status)
		}
		return nil, dataError("bridge returned status %d", status)
	}

	if payload.Mode == ModeDemo {
		return nil, dataError("bridge is serving demo data (terminal not connected)")
	}

	if payload.Bonds == nil {
		payload.Bonds = []BondRecord{}
	}

	c.logger.WithFields(map[string]interface{}{
		"count": len(payload.Bonds),
		"limit": limit,
		"mode":  payload.Mode,
	}).Debug("Bonds fetched from bridge")

	return &payload, nil
}

// FetchBond fetches a single bond by ISIN
func (c *Client) FetchBond(ctx context.Context, isin string) (*BondRecord, error) {
	isin = strings.TrimSpace(isin)
	if isin == "" {
		return nil, fmt.Errorf("isin is required")
	}

	fullURL := fmt.Sprintf("%s/api/bonds/%s", c.baseURL, url.PathEscape(isin))

	status, body, err := c.get(ctx, fullURL)
	if err != nil {
		return nil, err
	}

	switch {
	case status == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", isin, ErrBondNotFound)

	case status == http.StatusServiceUnavailable:
		return nil, unavailable(nil, "%s", errorMessage(body, status))

	case status != http.StatusOK:
		if status > http.StatusServiceUnavailable || status == http.StatusBadGateway {
			return nil, unavailable(nil, "%s", errorMessage(body, status))
		}
		return nil, dataError("%s", errorMessage(body, status))
	}

	var record BondRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, dataError("malformed bond response: %v", err)
	}

	return &record, nil
}

// Health checks the bridge health endpoint
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	status, body, err := c.get(ctx, c.baseURL+"/api/health")
	if err != nil {
		return nil, err
	}

	if status != http.StatusOK {
		return nil, unavailable(nil, "health check returned status %d", status)
	}

	var health HealthStatus
	if err := json.Unmarshal(body, &health); err != nil {
		return nil, dataError("malformed health response: %v", err)
	}

	return &health, nil
}

// Connect asks the bridge to open its terminal session.
// A refused connection is a data error carrying the bridge's reason.
func (c *Client) Connect(ctx context.Context) (*ConnectResult, error) {
	status, body, err := c.read(ctx, func() (*http.Response, error) {
		return c.httpClient.Post(ctx, c.baseURL+"/api/connect", nil)
	})
	if err != nil {
		return nil, err
	}

	var result ConnectResult
	if err := json.Unmarshal(body, &result); err != nil {
		if status >= http.StatusInternalServerError {
			return nil, unavailable(err, "connect returned status %d", status)
		}
		return nil, dataError("malformed connect response (status %d): %v", status, err)
	}

	if !result.Success {
		msg := result.Error
		if msg == "" {
			msg = fmt.Sprintf("terminal connection failed (status %d)", status)
		}
		return nil, dataError("%s", msg)
	}

	c.logger.WithField("message", result.Message).Info("Bridge terminal session connected")

	return &result, nil
}

// get performs a GET request, see read
func (c *Client) get(ctx context.Context, fullURL string) (int, []byte, error) {
	return c.read(ctx, func() (*http.Response, error) {
		return c.httpClient.Get(ctx, fullURL)
	})
}

// read runs the request and maps transport failures to ErrUpstreamUnavailable
func (c *Client) read(ctx context.Context, send func() (*http.Response, error)) (int, []byte, error) {
	resp, err := send()
	if err != nil {
		// 호출자가 요청을 취소한 경우는 그대로 전달
		if ctx.Err() == context.Canceled {
			return 0, nil, ctx.Err()
		}
		return 0, nil, unavailable(err, "%v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, unavailable(err, "failed to read response body: %v", err)
	}

	return resp.StatusCode, body, nil
}

// errorMessage extracts the bridge's error text, falling back to the status code
func errorMessage(body []byte, status int) string {
	var payload errorPayload
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return fmt.Sprintf("bridge returned status %d", status)
}
