package repositories

import (
	"context"
	"time"

	"github.com/exptrac/exptrac_backend/internal/core/domain"
)

// PeriodBlockReader defines read operations for period blocks
type PeriodBlockReader interface {
	// FindBlockByID retrieves a specific block by its unique identifier.
	FindBlockByID(ctx context.Context, blockID string) (*domain.PeriodBlock, error)

	// FindActiveBlockContaining finds the owner's active block whose window
	// contains the given day, if any.
	FindActiveBlockContaining(ctx context.Context, ownerID string, day time.Time) (*domain.PeriodBlock, error)

	// ListBlocks retrieves a paginated list of the owner's blocks, newest
	// first, using token-based pagination.
	ListBlocks(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.PeriodBlock, *string, error)

	// CountBlocksByStatus returns the owner's active and closed block counts.
	CountBlocksByStatus(ctx context.Context, ownerID string) (active int, closed int, err error)
}

// PeriodBlockWriter defines write operations for period blocks
type PeriodBlockWriter interface {
	// SaveBlock persists a new block.
	SaveBlock(ctx context.Context, block domain.PeriodBlock) error

	// UpdateBlockTitle renames a block.
	UpdateBlockTitle(ctx context.Context, blockID string, title string, userID string, now time.Time) error

	// CloseBlock marks a block closed. Closing an already-closed block is a
	// no-op, not an error.
	CloseBlock(ctx context.Context, blockID string, userID string, now time.Time) error
}

// PeriodRepositoryFacade combines all block-related repository interfaces
type PeriodRepositoryFacade interface {
	PeriodBlockReader
	PeriodBlockWriter
}
