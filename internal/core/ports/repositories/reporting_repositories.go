package repositories

import (
	"context"
	"time"

	"github.com/exptrac/exptrac_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingRepository defines read-only aggregate queries for dashboards
// and reports.
type ReportingRepository interface {
	// GetBalanceTotals returns the sum of active-account balances and its
	// breakdown by payment method.
	GetBalanceTotals(ctx context.Context, ownerID string) (decimal.Decimal, []domain.MethodBalance, error)

	// GetIncomeTotals returns the owner's all-time income total and the
	// total since monthStart.
	GetIncomeTotals(ctx context.Context, ownerID string, monthStart time.Time) (total decimal.Decimal, monthly decimal.Decimal, err error)

	// GetIncomeBySource returns the owner's top income sources by total.
	GetIncomeBySource(ctx context.Context, ownerID string, limit int) ([]domain.SourceTotal, error)

	// GetExpenseTotalForDay sums the owner's line items dated on day.
	GetExpenseTotalForDay(ctx context.Context, ownerID string, day time.Time) (decimal.Decimal, error)

	// GetDaySpends returns a block's per-day expense totals.
	GetDaySpends(ctx context.Context, blockID string) ([]domain.DaySpend, error)
}
