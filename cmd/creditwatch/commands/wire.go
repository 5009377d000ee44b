package commands

import (
	"fmt"
	"strings"

	"github.com/wonny/creditwatch/backend/internal/colorpolicy"
	"github.com/wonny/creditwatch/backend/internal/dashboard"
	"github.com/wonny/creditwatch/backend/internal/external/bridge"
	"github.com/wonny/creditwatch/backend/internal/filtering"
	"github.com/wonny/creditwatch/backend/internal/normalizer"
	"github.com/wonny/creditwatch/backend/internal/presets"
	"github.com/wonny/creditwatch/backend/pkg/config"
	"github.com/wonny/creditwatch/backend/pkg/httputil"
	"github.com/wonny/creditwatch/backend/pkg/logger"
	"github.com/wonny/creditwatch/backend/pkg/redis"
)

// app holds the wired components shared by every command
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	redis   *redis.Client
	bridge  *bridge.Client
	service *dashboard.Service
	presets *presets.Set
}

// Close releases external connections
func (a *app) Close() {
	if err := a.redis.Close(); err != nil {
		a.log.WithError(err).Warn("Failed to close redis")
	}
}

// loadConfig loads configuration and applies global flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if bridgeURL != "" {
		cfg.Bridge.BaseURL = strings.TrimRight(bridgeURL, "/")
	}
	if colorPolicy != "" {
		cfg.Dashboard.ColorPolicy = colorPolicy
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	return cfg, nil
}

// newApp wires config → logger → redis limiter → http client → bridge → dashboard service.
// retries > 0 enables outbound retry (background jobs only).
func newApp(retries int) (*app, error) {
	// 1. Load config
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Color policy (fail fast on a bad name)
	strategy, err := colorpolicy.ParseStrategy(cfg.Dashboard.ColorPolicy)
	if err != nil {
		return nil, err
	}

	// 4. Redis (optional shared bridge rate limit)
	redisClient, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	// 5. Create HTTP client
	httpClient := httputil.New(cfg, log)
	if redisClient.Enabled() {
		limiter := redis.NewRateLimiter(redisClient, "creditwatch")
		httpClient.WithRateLimiter(limiter, redis.BridgeRateLimit(cfg))
		log.WithFields(map[string]interface{}{
			"limit":  cfg.Redis.BridgeLimit,
			"window": cfg.Redis.BridgeWindow,
		}).Info("Shared bridge rate limit enabled")
	}
	if retries > 0 {
		httpClient.WithRetry(retries, httputil.DefaultRetryDelay)
	}

	// 6. Bridge client
	bridgeClient := bridge.NewClient(httpClient, cfg.Bridge.BaseURL, log)

	// 7. Dashboard service
	service := dashboard.NewService(
		bridgeClient,
		normalizer.New(normalizer.Options{LegacyDefaults: cfg.Dashboard.LegacyDefaults}, log),
		filtering.NewEngine(nil),
		colorpolicy.New(strategy, nil),
		cfg.Bridge.Limit,
		log,
	)

	// 8. Saved filter presets (optional)
	presetSet, err := loadPresets(cfg.Dashboard.PresetsFile, log)
	if err != nil {
		return nil, err
	}

	log.WithFields(map[string]interface{}{
		"bridge":          cfg.Bridge.BaseURL,
		"timeout":         cfg.Bridge.Timeout,
		"color_policy":    strategy,
		"legacy_defaults": cfg.Dashboard.LegacyDefaults,
	}).Debug("Components wired")

	return &app{
		cfg:     cfg,
		log:     log,
		redis:   redisClient,
		bridge:  bridgeClient,
		service: service,
		presets: presetSet,
	}, nil
}

// loadPresets loads the preset file when configured; an empty path yields a nil set
func loadPresets(path string, log *logger.Logger) (*presets.Set, error) {
	if path == "" {
		return nil, nil
	}

	set, warnings, err := presets.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load presets %s: %w", path, err)
	}
	for _, w := range warnings {
		log.WithFields(map[string]interface{}{
			"code": w.Code,
			"file": path,
		}).Warn(w.Message)
	}

	log.WithFields(map[string]interface{}{
		"file":    path,
		"presets": set.Len(),
		"hash":    set.Hash(),
	}).Info("Filter presets loaded")

	return set, nil
}
