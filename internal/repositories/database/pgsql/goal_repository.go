package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/exptrac/exptrac_backend/internal/apperrors"
	"github.com/exptrac/exptrac_backend/internal/core/domain"
	portsrepo "github.com/exptrac/exptrac_backend/internal/core/ports/repositories"
	"github.com/exptrac/exptrac_backend/internal/models"
	"github.com/exptrac/exptrac_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const goalColumns = `goal_id, owner_id, title, target_amount, start_date, deadline, status, created_at, created_by, last_updated_at, last_updated_by`

type PgxGoalRepository struct {
	BaseRepository
}

// newPgxGoalRepository creates a new repository for savings goals.
func newPgxGoalRepository(pool *pgxpool.Pool) portsrepo.GoalRepositoryFacade {
	return &PgxGoalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.GoalRepositoryFacade = (*PgxGoalRepository)(nil)

func scanGoal(row pgx.Row) (models.Goal, error) {
	var m models.Goal
	err := row.Scan(
		&m.GoalID,
		&m.OwnerID,
		&m.Title,
		&m.TargetAmount,
		&m.StartDate,
		&m.Deadline,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func insertGoalLinks(ctx context.Context, tx pgx.Tx, goalID string, accountIDs []string) error {
	if len(accountIDs) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, accountID := range accountIDs {
		batch.Queue(`INSERT INTO goal_accounts (goal_id, account_id) VALUES ($1, $2);`, goalID, accountID)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // FK violation: unknown account
			return fmt.Errorf("%w: goal references an unknown account", apperrors.ErrNotFound)
		}
		return apperrors.NewAppError(500, "failed to insert goal account links for "+goalID, err)
	}
	return nil
}

// SaveGoal persists a goal and its account links in one transaction.
func (r *PgxGoalRepository) SaveGoal(ctx context.Context, goal domain.Goal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelGoal(goal)
	insertQuery := `
		INSERT INTO goals (` + goalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = tx.Exec(ctx, insertQuery,
		m.GoalID,
		m.OwnerID,
		m.Title,
		m.TargetAmount,
		m.StartDate,
		m.Deadline,
		m.Status,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: goal %s already exists", apperrors.ErrDuplicate, m.GoalID)
		}
		return apperrors.NewAppError(500, "failed to insert goal "+m.GoalID, err)
	}

	if err := insertGoalLinks(ctx, tx, goal.GoalID, goal.AccountIDs); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// UpdateGoal updates a goal's mutable fields and replaces its account links.
func (r *PgxGoalRepository) UpdateGoal(ctx context.Context, goal domain.Goal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelGoal(goal)
	updateQuery := `
		UPDATE goals
		SET title = $2, target_amount = $3, deadline = $4, status = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE goal_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, updateQuery,
		m.GoalID,
		m.Title,
		m.TargetAmount,
		m.Deadline,
		m.Status,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update goal "+m.GoalID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM goal_accounts WHERE goal_id = $1;`, goal.GoalID); err != nil {
		return apperrors.NewAppError(500, "failed to clear goal account links for "+goal.GoalID, err)
	}
	if err := insertGoalLinks(ctx, tx, goal.GoalID, goal.AccountIDs); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// UpdateGoalStatus records a lifecycle transition.
func (r *PgxGoalRepository) UpdateGoalStatus(ctx context.Context, goalID string, status domain.GoalStatus, userID string, now time.Time) error {
	query := `
		UPDATE goals
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE goal_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, goalID, string(status), now, userID)
	if err != nil {
		return fmt.Errorf("failed to update status for goal %s: %w", goalID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteGoal removes the goal; its account links cascade.
func (r *PgxGoalRepository) DeleteGoal(ctx context.Context, goalID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM goals WHERE goal_id = $1;`, goalID)
	if err != nil {
		return fmt.Errorf("failed to delete goal %s: %w", goalID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindGoalByID retrieves a goal and its linked account IDs.
func (r *PgxGoalRepository) FindGoalByID(ctx context.Context, goalID string) (*domain.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE goal_id = $1;`

	m, err := scanGoal(r.Pool.QueryRow(ctx, query, goalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find goal by ID %s: %w", goalID, err)
	}

	accountIDs, err := r.findGoalAccountIDs(ctx, goalID)
	if err != nil {
		return nil, err
	}

	goal := mapping.ToDomainGoal(m, accountIDs)
	return &goal, nil
}

func (r *PgxGoalRepository) findGoalAccountIDs(ctx context.Context, goalID string) ([]string, error) {
	rows, err := r.Pool.Query(ctx, `SELECT account_id FROM goal_accounts WHERE goal_id = $1 ORDER BY account_id;`, goalID)
	if err != nil {
		return nil, fmt.Errorf("failed to query account links for goal %s: %w", goalID, err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan account link for goal %s: %w", goalID, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListGoals retrieves every goal of the owner, newest first, with links.
func (r *PgxGoalRepository) ListGoals(ctx context.Context, ownerID string) ([]domain.Goal, error) {
	query := `
		SELECT g.goal_id, g.owner_id, g.title, g.target_amount, g.start_date, g.deadline, g.status,
		       g.created_at, g.created_by, g.last_updated_at, g.last_updated_by,
		       COALESCE(array_agg(ga.account_id) FILTER (WHERE ga.account_id IS NOT NULL), '{}')
		FROM goals g
		LEFT JOIN goal_accounts ga ON ga.goal_id = g.goal_id
		WHERE g.owner_id = $1
		GROUP BY g.goal_id
		ORDER BY g.created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals for owner %s: %w", ownerID, err)
	}
	defer rows.Close()

	goals := []domain.Goal{}
	for rows.Next() {
		var m models.Goal
		var accountIDs []string
		err := rows.Scan(
			&m.GoalID,
			&m.OwnerID,
			&m.Title,
			&m.TargetAmount,
			&m.StartDate,
			&m.Deadline,
			&m.Status,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
			&accountIDs,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal row for owner %s: %w", ownerID, err)
		}
		goals = append(goals, mapping.ToDomainGoal(m, accountIDs))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goal rows for owner %s: %w", ownerID, err)
	}

	return goals, nil
}

// SumFlows totals income and expense for the accounts inside [from, to].
func (r *PgxGoalRepository) SumFlows(ctx context.Context, accountIDs []string, from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
	if len(accountIDs) == 0 {
		return decimal.Zero, decimal.Zero, nil
	}
	from = domain.DateOnly(from)
	to = domain.DateOnly(to)

	var income decimal.Decimal
	incomeQuery := `
		SELECT COALESCE(SUM(amount), 0)
		FROM income_records
		WHERE account_id = ANY($1) AND created_at::date BETWEEN $2 AND $3;
	`
	if err := r.Pool.QueryRow(ctx, incomeQuery, accountIDs, from, to).Scan(&income); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum income for goal window: %w", err)
	}

	var expense decimal.Decimal
	expenseQuery := `
		SELECT COALESCE(SUM(amount), 0)
		FROM line_items
		WHERE account_id = ANY($1) AND date BETWEEN $2 AND $3;
	`
	if err := r.Pool.QueryRow(ctx, expenseQuery, accountIDs, from, to).Scan(&expense); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum expenses for goal window: %w", err)
	}

	return income, expense, nil
}

// ListDailyFlows returns the per-day income/expense series with running
// savings totals, ordered by date. Days with no flow are omitted.
func (r *PgxGoalRepository) ListDailyFlows(ctx context.Context, accountIDs []string, from, to time.Time) ([]domain.DailyFlow, error) {
	if len(accountIDs) == 0 {
		return []domain.DailyFlow{}, nil
	}
	from = domain.DateOnly(from)
	to = domain.DateOnly(to)

	byDate := map[time.Time]*domain.DailyFlow{}

	incomeQuery := `
		SELECT created_at::date AS day, COALESCE(SUM(amount), 0)
		FROM income_records
		WHERE account_id = ANY($1) AND created_at::date BETWEEN $2 AND $3
		GROUP BY day;
	`
	rows, err := r.Pool.Query(ctx, incomeQuery, accountIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily income for goal window: %w", err)
	}
	for rows.Next() {
		var day time.Time
		var total decimal.Decimal
		if err := rows.Scan(&day, &total); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan daily income row: %w", err)
		}
		day = domain.DateOnly(day)
		byDate[day] = &domain.DailyFlow{Date: day, Income: total, Expense: decimal.Zero}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily income rows: %w", err)
	}

	expenseQuery := `
		SELECT date AS day, COALESCE(SUM(amount), 0)
		FROM line_items
		WHERE account_id = ANY($1) AND date BETWEEN $2 AND $3
		GROUP BY day;
	`
	rows, err = r.Pool.Query(ctx, expenseQuery, accountIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily expenses for goal window: %w", err)
	}
	for rows.Next() {
		var day time.Time
		var total decimal.Decimal
		if err := rows.Scan(&day, &total); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan daily expense row: %w", err)
		}
		day = domain.DateOnly(day)
		if flow, ok := byDate[day]; ok {
			flow.Expense = total
		} else {
			byDate[day] = &domain.DailyFlow{Date: day, Income: decimal.Zero, Expense: total}
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily expense rows: %w", err)
	}

	flows := make([]domain.DailyFlow, 0, len(byDate))
	for _, flow := range byDate {
		flows = append(flows, *flow)
	}
	sort.Slice(flows, func(i, j int) bool { return flows[i].Date.Before(flows[j].Date) })

	running := decimal.Zero
	for i := range flows {
		running = running.Add(flows[i].Income).Sub(flows[i].Expense)
		flows[i].CumulativeSavings = running
	}

	return flows, nil
}
