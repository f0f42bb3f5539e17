package repositories

import (
	"context"

	"github.com/exptrac/exptrac_backend/internal/core/domain"
)

// LineItemReader defines read operations for expense line items
type LineItemReader interface {
	// FindLineItemByID retrieves a specific line item by its unique identifier.
	FindLineItemByID(ctx context.Context, itemID string) (*domain.LineItem, error)

	// ListItemsByBlock retrieves a paginated list of a block's line items,
	// newest first, using token-based pagination.
	ListItemsByBlock(ctx context.Context, blockID string, limit int, nextToken *string) ([]domain.LineItem, *string, error)

	// FindAllItemsByBlock retrieves every line item of a block, ordered by
	// date, for per-day grouping in block detail views.
	FindAllItemsByBlock(ctx context.Context, blockID string) ([]domain.LineItem, error)
}

// LineItemWriter defines the transactional mutations of the expense flow.
// Each method runs as a single database transaction: account rows are
// locked, guards are re-checked under lock, the balance delta and line item
// write are applied, and the block's cached total is recomputed before
// commit. On any failure the transaction rolls back with no visible change.
type LineItemWriter interface {
	// AddExpense debits the item's account and inserts the item. Returns
	// ErrInsufficientFunds when the locked balance cannot cover the amount
	// and ErrStateConflict when the account is not active.
	AddExpense(ctx context.Context, item domain.LineItem) error

	// EditExpense refunds the old amount to the old account and debits the
	// new amount from the (possibly different) new account. Fails with
	// ErrInsufficientFunds when the effective balance after refund cannot
	// cover the new amount.
	EditExpense(ctx context.Context, old domain.LineItem, updated domain.LineItem) error

	// DeleteExpense removes the item, refunding its account if the account
	// still exists and is active.
	DeleteExpense(ctx context.Context, item domain.LineItem) error
}

// LineItemRepositoryFacade combines all line-item repository interfaces
type LineItemRepositoryFacade interface {
	LineItemReader
	LineItemWriter
}
