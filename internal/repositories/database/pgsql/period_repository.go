package pgsql

import (
	"context"
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
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const blockColumns = `block_id, owner_id, title, kind, start_day, start_date, end_date, status, total_expense, created_at, created_by, last_updated_at, last_updated_by`

type PgxPeriodRepository struct {
	BaseRepository
}

// newPgxPeriodRepository creates a new repository for period block data.
func newPgxPeriodRepository(pool *pgxpool.Pool) portsrepo.PeriodRepositoryFacade {
	return &PgxPeriodRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PeriodRepositoryFacade = (*PgxPeriodRepository)(nil)

func scanBlock(row pgx.Row) (models.PeriodBlock, error) {
	var m models.PeriodBlock
	err := row.Scan(
		&m.BlockID,
		&m.OwnerID,
		&m.Title,
		&m.Kind,
		&m.StartDay,
		&m.StartDate,
		&m.EndDate,
		&m.Status,
		&m.TotalExpense,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveBlock inserts a new period block.
func (r *PgxPeriodRepository) SaveBlock(ctx context.Context, block domain.PeriodBlock) error {
	m := mapping.ToModelPeriodBlock(block)

	query := `
		INSERT INTO period_blocks (` + blockColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.BlockID,
		m.OwnerID,
		m.Title,
		m.Kind,
		m.StartDay,
		m.StartDate,
		m.EndDate,
		m.Status,
		m.TotalExpense,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: block %s already exists", apperrors.ErrDuplicate, m.BlockID)
		}
		return fmt.Errorf("failed to save block %s: %w", m.BlockID, err)
	}
	return nil
}

// FindBlockByID retrieves a block by its ID.
func (r *PgxPeriodRepository) FindBlockByID(ctx context.Context, blockID string) (*domain.PeriodBlock, error) {
	query := `SELECT ` + blockColumns + ` FROM period_blocks WHERE block_id = $1;`

	m, err := scanBlock(r.Pool.QueryRow(ctx, query, blockID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find block by ID %s: %w", blockID, err)
	}

	block := mapping.ToDomainPeriodBlock(m)
	return &block, nil
}

// FindActiveBlockContaining finds the owner's active block whose window
// contains the given day.
func (r *PgxPeriodRepository) FindActiveBlockContaining(ctx context.Context, ownerID string, day time.Time) (*domain.PeriodBlock, error) {
	query := `
		SELECT ` + blockColumns + `
		FROM period_blocks
		WHERE owner_id = $1 AND status = 'active' AND start_date <= $2 AND end_date >= $2
		ORDER BY start_date DESC
		LIMIT 1;
	`
	m, err := scanBlock(r.Pool.QueryRow(ctx, query, ownerID, domain.DateOnly(day)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find active block for owner %s: %w", ownerID, err)
	}

	block := mapping.ToDomainPeriodBlock(m)
	return &block, nil
}

// ListBlocks retrieves a paginated list of the owner's blocks, newest first.
func (r *PgxPeriodRepository) ListBlocks(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.PeriodBlock, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + blockColumns + `
		FROM period_blocks
		WHERE owner_id = $1
	`
	orderByClause := `ORDER BY start_date DESC, created_at DESC`

	args := []interface{}{ownerID}
	query := baseQuery
	if nextToken != nil && *nextToken != "" {
		lastStartDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query += ` AND (start_date, created_at) < ($2, $3)`
		args = append(args, lastStartDate, lastCreatedAt)
	}
	query += " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query blocks for owner %s: %w", ownerID, err)
	}
	defer rows.Close()

	blockModels := make([]models.PeriodBlock, 0, fetchLimit)
	for rows.Next() {
		m, err := scanBlock(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan block row for owner %s: %w", ownerID, err)
		}
		blockModels = append(blockModels, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating block rows for owner %s: %w", ownerID, err)
	}

	var nextTokenVal *string
	if len(blockModels) > limit {
		last := blockModels[limit-1]
		token := pagination.EncodeToken(last.StartDate, last.CreatedAt)
		nextTokenVal = &token
		blockModels = blockModels[:limit]
	}

	return mapping.ToDomainPeriodBlockSlice(blockModels), nextTokenVal, nil
}

// CountBlocksByStatus returns the owner's active and closed block counts.
func (r *PgxPeriodRepository) CountBlocksByStatus(ctx context.Context, ownerID string) (int, int, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'active'),
			COUNT(*) FILTER (WHERE status = 'closed')
		FROM period_blocks
		WHERE owner_id = $1;
	`
	var active, closed int
	if err := r.Pool.QueryRow(ctx, query, ownerID).Scan(&active, &closed); err != nil {
		return 0, 0, fmt.Errorf("failed to count blocks for owner %s: %w", ownerID, err)
	}
	return active, closed, nil
}

// UpdateBlockTitle renames a block.
func (r *PgxPeriodRepository) UpdateBlockTitle(ctx context.Context, blockID string, title string, userID string, now time.Time) error {
	query := `
		UPDATE period_blocks
		SET title = $2, last_updated_at = $3, last_updated_by = $4
		WHERE block_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, blockID, title, now, userID)
	if err != nil {
		return fmt.Errorf("failed to rename block %s: %w", blockID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CloseBlock marks a block closed. Closing an already-closed block affects
// no rows and is treated as success, keeping the expiry tick idempotent.
func (r *PgxPeriodRepository) CloseBlock(ctx context.Context, blockID string, userID string, now time.Time) error {
	query := `
		UPDATE period_blocks
		SET status = 'closed', last_updated_at = $2, last_updated_by = $3
		WHERE block_id = $1 AND status = 'active';
	`
	cmdTag, err := r.Pool.Exec(ctx, query, blockID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to close block %s: %w", blockID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Either already closed (fine) or missing (not fine).
		if _, findErr := r.FindBlockByID(ctx, blockID); findErr != nil {
			return findErr
		}
	}
	return nil
}
