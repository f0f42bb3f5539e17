package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/exptrac/exptrac_backend/internal/apperrors"
	"github.com/exptrac/exptrac_backend/internal/core/domain"
	portsrepo "github.com/exptrac/exptrac_backend/internal/core/ports/repositories"
	"github.com/exptrac/exptrac_backend/internal/models"
	"github.com/exptrac/exptrac_backend/internal/utils/mapping"
	"github.com/exptrac/exptrac_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const incomeColumns = `income_id, owner_id, account_id, source, amount, description, created_at, created_by, last_updated_at, last_updated_by`

type PgxIncomeRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// newPgxIncomeRepository creates a new repository for income records.
func newPgxIncomeRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.IncomeRepositoryFacade {
	return &PgxIncomeRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.IncomeRepositoryFacade = (*PgxIncomeRepository)(nil)

func scanIncome(row pgx.Row) (models.IncomeRecord, error) {
	var m models.IncomeRecord
	err := row.Scan(
		&m.IncomeID,
		&m.OwnerID,
		&m.AccountID,
		&m.Source,
		&m.Amount,
		&m.Description,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// AddIncome credits the account and inserts the record in one transaction.
func (r *PgxIncomeRepository) AddIncome(ctx context.Context, record domain.IncomeRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	now := record.CreatedAt
	userID := record.CreatedBy

	locked, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, []string{record.AccountID})
	if err != nil {
		return err
	}
	if account := locked[record.AccountID]; !account.IsActive() {
		return fmt.Errorf("%w: account %s is not active", apperrors.ErrStateConflict, account.AccountID)
	}

	changes := map[string]decimal.Decimal{record.AccountID: record.Amount}
	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, changes, userID, now); err != nil {
		return apperrors.NewAppError(500, "failed to credit account for income", err)
	}

	m := mapping.ToModelIncomeRecord(record)
	insertQuery := `
		INSERT INTO income_records (` + incomeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = tx.Exec(ctx, insertQuery,
		m.IncomeID,
		m.OwnerID,
		m.AccountID,
		m.Source,
		m.Amount,
		m.Description,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert income record "+m.IncomeID, err)
	}

	return r.Commit(ctx, tx)
}

// EditIncome reverses the old credit and applies the new one atomically.
// The reversal is deliberately unguarded: expenses recorded against the old
// credit are not re-validated, mirroring direct balance corrections.
func (r *PgxIncomeRepository) EditIncome(ctx context.Context, old domain.IncomeRecord, updated domain.IncomeRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	now := updated.LastUpdatedAt
	userID := updated.LastUpdatedBy

	ids := []string{updated.AccountID}
	if old.AccountID != updated.AccountID {
		ids = append(ids, old.AccountID)
	}
	if _, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, ids); err != nil {
		return err
	}

	changes := map[string]decimal.Decimal{old.AccountID: old.Amount.Neg()}
	changes[updated.AccountID] = changes[updated.AccountID].Add(updated.Amount)
	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, changes, userID, now); err != nil {
		return apperrors.NewAppError(500, "failed to move balances for income edit", err)
	}

	m := mapping.ToModelIncomeRecord(updated)
	updateQuery := `
		UPDATE income_records
		SET account_id = $2, source = $3, amount = $4, description = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE income_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, updateQuery,
		m.IncomeID,
		m.AccountID,
		m.Source,
		m.Amount,
		m.Description,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update income record "+m.IncomeID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}

// DeleteIncome reverses the record's credit and removes it.
func (r *PgxIncomeRepository) DeleteIncome(ctx context.Context, record domain.IncomeRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	now := record.LastUpdatedAt
	userID := record.LastUpdatedBy

	if _, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, []string{record.AccountID}); err != nil {
		return err
	}

	changes := map[string]decimal.Decimal{record.AccountID: record.Amount.Neg()}
	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, changes, userID, now); err != nil {
		return apperrors.NewAppError(500, "failed to reverse credit for income delete", err)
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM income_records WHERE income_id = $1;`, record.IncomeID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete income record "+record.IncomeID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}

// FindIncomeByID retrieves an income record by its ID.
func (r *PgxIncomeRepository) FindIncomeByID(ctx context.Context, incomeID string) (*domain.IncomeRecord, error) {
	query := `SELECT ` + incomeColumns + ` FROM income_records WHERE income_id = $1;`

	m, err := scanIncome(r.Pool.QueryRow(ctx, query, incomeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find income record by ID %s: %w", incomeID, err)
	}

	record := mapping.ToDomainIncomeRecord(m)
	return &record, nil
}

// ListIncomes retrieves a paginated list of the owner's income, newest first.
func (r *PgxIncomeRepository) ListIncomes(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.IncomeRecord, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + incomeColumns + `
		FROM income_records
		WHERE owner_id = $1
	`
	orderByClause := `ORDER BY created_at DESC, income_id DESC`

	args := []interface{}{ownerID}
	query := baseQuery
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, decodeErr := pagination.DecodeDateBasedToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query += ` AND created_at < $2`
		args = append(args, lastCreatedAt)
	}
	query += " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query income records for owner %s: %w", ownerID, err)
	}
	defer rows.Close()

	recordModels := make([]models.IncomeRecord, 0, fetchLimit)
	for rows.Next() {
		m, err := scanIncome(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan income row for owner %s: %w", ownerID, err)
		}
		recordModels = append(recordModels, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating income rows for owner %s: %w", ownerID, err)
	}

	var nextTokenVal *string
	if len(recordModels) > limit {
		last := recordModels[limit-1]
		token := pagination.EncodeDateBasedToken(last.CreatedAt)
		nextTokenVal = &token
		recordModels = recordModels[:limit]
	}

	return mapping.ToDomainIncomeRecordSlice(recordModels), nextTokenVal, nil
}
