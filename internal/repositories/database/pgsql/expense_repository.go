package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

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

const lineItemColumns = `item_id, block_id, account_id, account_name, name, amount, payment_method, day, date, notes, created_at, created_by, last_updated_at, last_updated_by`

type PgxLineItemRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// newPgxLineItemRepository creates a new repository for expense line items.
// The account repository is injected for in-transaction balance work.
func newPgxLineItemRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.LineItemRepositoryFacade {
	return &PgxLineItemRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.LineItemRepositoryFacade = (*PgxLineItemRepository)(nil)

func scanLineItem(row pgx.Row) (models.LineItem, error) {
	var m models.LineItem
	var accountID sql.NullString
	err := row.Scan(
		&m.ItemID,
		&m.BlockID,
		&accountID,
		&m.AccountName,
		&m.Name,
		&m.Amount,
		&m.PaymentMethod,
		&m.Day,
		&m.Date,
		&m.Notes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if accountID.Valid {
		m.AccountID = &accountID.String
	}
	return m, err
}

// AddExpense debits the account and inserts the line item in one
// transaction, re-checking the guards under the row lock.
func (r *PgxLineItemRepository) AddExpense(ctx context.Context, item domain.LineItem) error {
	if item.AccountID == nil {
		return fmt.Errorf("%w: expense requires an account", apperrors.ErrValidation)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	now := item.CreatedAt
	userID := item.CreatedBy

	// Lock the block before the accounts so the open/window guard holds
	// against a concurrent expiry tick closing it.
	block, err := r.lockBlockInTx(ctx, tx, item.BlockID)
	if err != nil {
		return err
	}
	if block.Status != string(domain.BlockActive) {
		return fmt.Errorf("%w: block %s is closed", apperrors.ErrStateConflict, item.BlockID)
	}
	if item.Date.Before(block.StartDate) || item.Date.After(block.EndDate) {
		return fmt.Errorf("%w: block %s does not cover %s",
			apperrors.ErrStateConflict, item.BlockID, item.Date.Format(time.DateOnly))
	}

	locked, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, []string{*item.AccountID})
	if err != nil {
		return err
	}
	account := locked[*item.AccountID]
	if !account.IsActive() {
		return fmt.Errorf("%w: account %s is not active", apperrors.ErrStateConflict, account.AccountID)
	}
	if account.Balance.LessThan(item.Amount) {
		return fmt.Errorf("%w: account %s holds %s, needs %s",
			apperrors.ErrInsufficientFunds, account.AccountID, account.Balance, item.Amount)
	}

	changes := map[string]decimal.Decimal{*item.AccountID: item.Amount.Neg()}
	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, changes, userID, now); err != nil {
		return apperrors.NewAppError(500, "failed to debit account for expense", err)
	}

	m := mapping.ToModelLineItem(item)
	insertQuery := `
		INSERT INTO line_items (` + lineItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = tx.Exec(ctx, insertQuery,
		m.ItemID,
		m.BlockID,
		m.AccountID,
		m.AccountName,
		m.Name,
		m.Amount,
		m.PaymentMethod,
		m.Day,
		m.Date,
		m.Notes,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert line item "+m.ItemID, err)
	}

	if err := r.recomputeBlockTotalInTx(ctx, tx, item.BlockID, userID, now); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// EditExpense refunds the old amount and debits the new one atomically.
// Both accounts are locked in a stable order; the funds check runs against
// the post-refund balance, so failure rolls back with no visible change.
func (r *PgxLineItemRepository) EditExpense(ctx context.Context, old domain.LineItem, updated domain.LineItem) error {
	if updated.AccountID == nil {
		return fmt.Errorf("%w: expense requires an account", apperrors.ErrValidation)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	now := updated.LastUpdatedAt
	userID := updated.LastUpdatedBy

	block, err := r.lockBlockInTx(ctx, tx, updated.BlockID)
	if err != nil {
		return err
	}
	if block.Status != string(domain.BlockActive) || domain.DateOnly(now).After(block.EndDate) {
		return fmt.Errorf("%w: block %s is closed", apperrors.ErrStateConflict, updated.BlockID)
	}

	ids := []string{*updated.AccountID}
	if old.AccountID != nil && *old.AccountID != *updated.AccountID {
		ids = append(ids, *old.AccountID)
	}
	locked, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, ids)
	if err != nil {
		return err
	}

	changes := map[string]decimal.Decimal{}
	if old.AccountID != nil {
		changes[*old.AccountID] = old.Amount // refund
	}
	changes[*updated.AccountID] = changes[*updated.AccountID].Sub(updated.Amount)

	target := locked[*updated.AccountID]
	if !target.IsActive() {
		return fmt.Errorf("%w: account %s is not active", apperrors.ErrStateConflict, target.AccountID)
	}
	if target.Balance.Add(changes[*updated.AccountID]).IsNegative() {
		return fmt.Errorf("%w: account %s holds %s after refund, needs %s",
			apperrors.ErrInsufficientFunds, target.AccountID,
			target.Balance.Add(changes[*updated.AccountID]).Add(updated.Amount), updated.Amount)
	}

	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, changes, userID, now); err != nil {
		return apperrors.NewAppError(500, "failed to move balances for expense edit", err)
	}

	m := mapping.ToModelLineItem(updated)
	updateQuery := `
		UPDATE line_items
		SET account_id = $2, account_name = $3, name = $4, amount = $5,
		    payment_method = $6, notes = $7, last_updated_at = $8, last_updated_by = $9
		WHERE item_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, updateQuery,
		m.ItemID,
		m.AccountID,
		m.AccountName,
		m.Name,
		m.Amount,
		m.PaymentMethod,
		m.Notes,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update line item "+m.ItemID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := r.recomputeBlockTotalInTx(ctx, tx, updated.BlockID, userID, now); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// DeleteExpense removes the item, refunding its account when the account is
// still present and active.
func (r *PgxLineItemRepository) DeleteExpense(ctx context.Context, item domain.LineItem) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	now := time.Now().UTC()
	userID := item.LastUpdatedBy
	if userID == "" {
		userID = item.CreatedBy
	}

	if item.AccountID != nil {
		locked, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, []string{*item.AccountID})
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		if account, ok := locked[*item.AccountID]; ok && account.IsActive() {
			changes := map[string]decimal.Decimal{*item.AccountID: item.Amount}
			if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, changes, userID, now); err != nil {
				return apperrors.NewAppError(500, "failed to refund account for expense delete", err)
			}
		}
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM line_items WHERE item_id = $1;`, item.ItemID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete line item "+item.ItemID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := r.recomputeBlockTotalInTx(ctx, tx, item.BlockID, userID, now); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// lockBlockInTx locks the block row for the rest of the transaction and
// returns the state the guards re-check.
func (r *PgxLineItemRepository) lockBlockInTx(ctx context.Context, tx pgx.Tx, blockID string) (models.PeriodBlock, error) {
	var m models.PeriodBlock
	query := `SELECT block_id, status, start_date, end_date FROM period_blocks WHERE block_id = $1 FOR UPDATE;`
	err := tx.QueryRow(ctx, query, blockID).Scan(&m.BlockID, &m.Status, &m.StartDate, &m.EndDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return m, fmt.Errorf("%w: block %s", apperrors.ErrNotFound, blockID)
		}
		return m, apperrors.NewAppError(500, "failed to lock block "+blockID, err)
	}
	return m, nil
}

// recomputeBlockTotalInTx refreshes the block's cached expense total from
// its line items, inside the caller's transaction.
func (r *PgxLineItemRepository) recomputeBlockTotalInTx(ctx context.Context, tx pgx.Tx, blockID string, userID string, now time.Time) error {
	query := `
		UPDATE period_blocks
		SET total_expense = COALESCE((SELECT SUM(amount) FROM line_items WHERE block_id = $1), 0),
		    last_updated_at = $2, last_updated_by = $3
		WHERE block_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, blockID, now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to recompute total for block "+blockID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: block %s not found during total recompute", apperrors.ErrNotFound, blockID)
	}
	return nil
}

// FindLineItemByID retrieves a line item by its ID.
func (r *PgxLineItemRepository) FindLineItemByID(ctx context.Context, itemID string) (*domain.LineItem, error) {
	query := `SELECT ` + lineItemColumns + ` FROM line_items WHERE item_id = $1;`

	m, err := scanLineItem(r.Pool.QueryRow(ctx, query, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find line item by ID %s: %w", itemID, err)
	}

	item := mapping.ToDomainLineItem(m)
	return &item, nil
}

// ListItemsByBlock retrieves a paginated list of a block's items, newest first.
func (r *PgxLineItemRepository) ListItemsByBlock(ctx context.Context, blockID string, limit int, nextToken *string) ([]domain.LineItem, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + lineItemColumns + `
		FROM line_items
		WHERE block_id = $1
	`
	orderByClause := `ORDER BY date DESC, created_at DESC`

	args := []interface{}{blockID}
	query := baseQuery
	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query += ` AND (date, created_at) < ($2, $3)`
		args = append(args, lastDate, lastCreatedAt)
	}
	query += " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query line items for block %s: %w", blockID, err)
	}
	defer rows.Close()

	itemModels := make([]models.LineItem, 0, fetchLimit)
	for rows.Next() {
		m, err := scanLineItem(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan line item row for block %s: %w", blockID, err)
		}
		itemModels = append(itemModels, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating line item rows for block %s: %w", blockID, err)
	}

	var nextTokenVal *string
	if len(itemModels) > limit {
		last := itemModels[limit-1]
		token := pagination.EncodeToken(last.Date, last.CreatedAt)
		nextTokenVal = &token
		itemModels = itemModels[:limit]
	}

	return mapping.ToDomainLineItemSlice(itemModels), nextTokenVal, nil
}

// FindAllItemsByBlock retrieves every item of a block ordered by date, for
// per-day grouping.
func (r *PgxLineItemRepository) FindAllItemsByBlock(ctx context.Context, blockID string) ([]domain.LineItem, error) {
	query := `
		SELECT ` + lineItemColumns + `
		FROM line_items
		WHERE block_id = $1
		ORDER BY date, created_at;
	`
	rows, err := r.Pool.Query(ctx, query, blockID)
	if err != nil {
		return nil, fmt.Errorf("failed to query all line items for block %s: %w", blockID, err)
	}
	defer rows.Close()

	itemModels := []models.LineItem{}
	for rows.Next() {
		m, err := scanLineItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line item row for block %s: %w", blockID, err)
		}
		itemModels = append(itemModels, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line item rows for block %s: %w", blockID, err)
	}

	return mapping.ToDomainLineItemSlice(itemModels), nil
}
