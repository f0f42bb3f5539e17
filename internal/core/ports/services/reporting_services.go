package services

import (
	"context"

	"github.com/exptrac/exptrac_backend/internal/core/domain"
)

// ReportingService defines read-only aggregate views. Reads settle the
// lifecycle state they surface: past-deadline goals are settled before
// counting and expired blocks are closed before reporting, so aggregates
// never show stale state.
type ReportingService interface {
	// GetDashboardSummary builds the landing-page aggregate for the owner.
	GetDashboardSummary(ctx context.Context, ownerID string) (*domain.DashboardSummary, error)

	// GetBlockReport returns every block of the owner with per-day totals.
	GetBlockReport(ctx context.Context, ownerID string) ([]domain.BlockReport, error)
}
