package jobs

import (
	"context"
	"fmt"
	"sync"

	"github.com/wonny/creditwatch/backend/internal/contracts"
	"github.com/wonny/creditwatch/backend/internal/dashboard"
	"github.com/wonny/creditwatch/backend/pkg/logger"
)

// maxLoggedISINs caps the ISIN list per change kind in one log entry
const maxLoggedISINs = 50

// DigestSource computes today's changes (implemented by dashboard.Service)
type DigestSource interface {
	Digest(ctx context.Context) (*dashboard.Digest, error)
}

// ChangesDigestJob polls the bridge and logs today's rating, outlook and watchlist changes
type ChangesDigestJob struct {
	source   DigestSource
	schedule string
	logger   *logger.Logger

	mu   sync.RWMutex
	last *dashboard.Digest
}

// NewChangesDigestJob creates a new changes digest job
func NewChangesDigestJob(source DigestSource, schedule string, log *logger.Logger) *ChangesDigestJob {
	return &ChangesDigestJob{
		source:   source,
		schedule: schedule,
		logger:   log.WithComponent("monitor"),
	}
}

// Name returns the job name
func (j *ChangesDigestJob) Name() string {
	return "changes_digest"
}

// Schedule returns the configured cron schedule
func (j *ChangesDigestJob) Schedule() string {
	return j.schedule
}

// Run fetches a fresh snapshot and logs the digest
func (j *ChangesDigestJob) Run(ctx context.Context) error {
	digest, err := j.source.Digest(ctx)
	if err != nil {
		return fmt.Errorf("changes digest: %w", err)
	}

	j.mu.Lock()
	j.last = digest
	j.mu.Unlock()

	j.logger.WithFields(map[string]interface{}{
		"total":     digest.Total,
		"rating":    len(digest.Rating),
		"outlook":   len(digest.Outlook),
		"watchlist": len(digest.Watchlist),
	}).Info("Today's changes digest")

	for kind, issuers := range map[string][]contracts.Issuer{
		"rating":    digest.Rating,
		"outlook":   digest.Outlook,
		"watchlist": digest.Watchlist,
	} {
		if len(issuers) == 0 {
			continue
		}
		j.logger.WithFields(map[string]interface{}{
			"kind":  kind,
			"count": len(issuers),
			"isins": ISINs(issuers, maxLoggedISINs),
		}).Info("Issuers changed today")
	}

	return nil
}

// Last returns the most recent successful digest, or nil
func (j *ChangesDigestJob) Last() *dashboard.Digest {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.last
}

// ISINs lists up to limit identifiers, falling back to the issuer id when the ISIN is empty
func ISINs(issuers []contracts.Issuer, limit int) []string {
	if limit <= 0 || limit > len(issuers) {
		limit = len(issuers)
	}

	out := make([]string, 0, limit)
	for _, issuer := range issuers[:limit] {
		if issuer.ISIN != "" {
			out = append(out, issuer.ISIN)
		} else {
			out = append(out, issuer.ID)
		}
	}
	return out
}
