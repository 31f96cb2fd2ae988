package driven

import (
	"context"

	"github.com/akash-d122/helpdesk-triage/internal/core/domain"
)

// MetricsStore persists the historical accuracy figures that drive
// calibration. Read at assessment time, written on reviewer feedback.
type MetricsStore interface {
	// LoadStats returns the current stats, or domain.DefaultStats()
	// when none have been recorded yet.
	LoadStats(ctx context.Context) (domain.HistoricalStats, error)

	// SaveStats replaces the persisted stats.
	SaveStats(ctx context.Context, stats domain.HistoricalStats) error
}
