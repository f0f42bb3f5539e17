package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/exptrac/exptrac_backend/internal/apperrors"
	"github.com/exptrac/exptrac_backend/internal/core/domain"
	portsrepo "github.com/exptrac/exptrac_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxReportingRepository struct {
	BaseRepository
}

// newPgxReportingRepository creates a new read-only reporting repository.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// GetBalanceTotals sums active-account balances, overall and per method.
func (r *PgxReportingRepository) GetBalanceTotals(ctx context.Context, ownerID string) (decimal.Decimal, []domain.MethodBalance, error) {
	query := `
		SELECT payment_method, COALESCE(SUM(balance), 0)
		FROM accounts
		WHERE owner_id = $1 AND status = 'active'
		GROUP BY payment_method
		ORDER BY payment_method;
	`
	rows, err := r.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return decimal.Zero, nil, fmt.Errorf("failed to query balance totals for owner %s: %w", ownerID, err)
	}
	defer rows.Close()

	total := decimal.Zero
	byMethod := []domain.MethodBalance{}
	for rows.Next() {
		var method string
		var sum decimal.Decimal
		if err := rows.Scan(&method, &sum); err != nil {
			return decimal.Zero, nil, fmt.Errorf("failed to scan balance total row: %w", err)
		}
		total = total.Add(sum)
		byMethod = append(byMethod, domain.MethodBalance{Method: domain.PaymentMethod(method), Total: sum})
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, nil, fmt.Errorf("error iterating balance total rows: %w", err)
	}

	return total, byMethod, nil
}

// GetIncomeTotals returns the all-time income total and the total since
// monthStart in a single pass.
func (r *PgxReportingRepository) GetIncomeTotals(ctx context.Context, ownerID string, monthStart time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0),
		       COALESCE(SUM(amount) FILTER (WHERE created_at >= $2), 0)
		FROM income_records
		WHERE owner_id = $1;
	`
	var total, monthly decimal.Decimal
	err := r.Pool.QueryRow(ctx, query, ownerID, domain.DateOnly(monthStart)).Scan(&total, &monthly)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to query income totals for owner %s: %w", ownerID, err)
	}
	return total, monthly, nil
}

// GetIncomeBySource returns the owner's top income sources by total.
func (r *PgxReportingRepository) GetIncomeBySource(ctx context.Context, ownerID string, limit int) ([]domain.SourceTotal, error) {
	query := `
		SELECT source, COALESCE(SUM(amount), 0) AS total
		FROM income_records
		WHERE owner_id = $1
		GROUP BY source
		ORDER BY total DESC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query income by source for owner %s: %w", ownerID, err)
	}
	defer rows.Close()

	totals := []domain.SourceTotal{}
	for rows.Next() {
		var source string
		var sum decimal.Decimal
		if err := rows.Scan(&source, &sum); err != nil {
			return nil, fmt.Errorf("failed to scan income source row: %w", err)
		}
		totals = append(totals, domain.SourceTotal{Source: domain.IncomeSource(source), Total: sum})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating income source rows: %w", err)
	}

	return totals, nil
}

// GetExpenseTotalForDay sums the owner's line items dated on day.
func (r *PgxReportingRepository) GetExpenseTotalForDay(ctx context.Context, ownerID string, day time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(li.amount), 0)
		FROM line_items li
		JOIN period_blocks pb ON pb.block_id = li.block_id
		WHERE pb.owner_id = $1 AND li.date = $2;
	`
	var total decimal.Decimal
	err := r.Pool.QueryRow(ctx, query, ownerID, domain.DateOnly(day)).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to query day expense total for owner %s: %w", ownerID, err)
	}
	return total, nil
}

// GetDaySpends returns one entry per day of the block's window, including
// days with no spending. IsToday is left for the caller to mark.
func (r *PgxReportingRepository) GetDaySpends(ctx context.Context, blockID string) ([]domain.DaySpend, error) {
	var startDate, endDate time.Time
	blockQuery := `SELECT start_date, end_date FROM period_blocks WHERE block_id = $1;`
	err := r.Pool.QueryRow(ctx, blockQuery, blockID).Scan(&startDate, &endDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find block %s for day spends: %w", blockID, err)
	}

	sumQuery := `
		SELECT date, COALESCE(SUM(amount), 0)
		FROM line_items
		WHERE block_id = $1
		GROUP BY date;
	`
	rows, err := r.Pool.Query(ctx, sumQuery, blockID)
	if err != nil {
		return nil, fmt.Errorf("failed to query day spends for block %s: %w", blockID, err)
	}
	defer rows.Close()

	totals := map[time.Time]decimal.Decimal{}
	for rows.Next() {
		var day time.Time
		var sum decimal.Decimal
		if err := rows.Scan(&day, &sum); err != nil {
			return nil, fmt.Errorf("failed to scan day spend row: %w", err)
		}
		totals[domain.DateOnly(day)] = sum
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating day spend rows: %w", err)
	}

	startDate = domain.DateOnly(startDate)
	endDate = domain.DateOnly(endDate)
	spends := []domain.DaySpend{}
	for day := startDate; !day.After(endDate); day = day.AddDate(0, 0, 1) {
		total, ok := totals[day]
		if !ok {
			total = decimal.Zero
		}
		spends = append(spends, domain.DaySpend{
			Day:   domain.DayTagFor(day),
			Date:  day,
			Total: total,
		})
	}

	return spends, nil
}
