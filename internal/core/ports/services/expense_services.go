package services

import (
	"context"

	"github.com/exptrac/exptrac_backend/internal/core/domain"
	"github.com/exptrac/exptrac_backend/internal/dto"
)

// ExpenseReaderSvc defines read operations for expense line items
type ExpenseReaderSvc interface {
	// GetExpense retrieves a line item, checking block ownership.
	GetExpense(ctx context.Context, ownerID string, itemID string) (*domain.LineItem, error)

	// ListBlockExpenses retrieves a paginated list of a block's line items.
	ListBlockExpenses(ctx context.Context, ownerID string, blockID string, limit int, nextToken *string) ([]domain.LineItem, *string, error)
}

// ExpenseWriterSvc defines the expense mutations. Each call is atomic: the
// account debit/refund, the item write and the block total recompute all
// commit together or not at all.
type ExpenseWriterSvc interface {
	// AddExpense records an expense in a block, debiting the account.
	AddExpense(ctx context.Context, ownerID string, blockID string, req dto.CreateExpenseRequest) (*domain.LineItem, error)

	// EditExpense changes the amount, account or details of an expense,
	// refunding the old amount before debiting the new. On failure no
	// balance change is visible.
	EditExpense(ctx context.Context, ownerID string, itemID string, req dto.UpdateExpenseRequest) (*domain.LineItem, error)

	// DeleteExpense removes an expense and refunds its account. Deleting an
	// already-deleted item is a no-op.
	DeleteExpense(ctx context.Context, ownerID string, itemID string) error
}

// ExpenseSvcFacade combines all expense service interfaces
type ExpenseSvcFacade interface {
	ExpenseReaderSvc
	ExpenseWriterSvc
}
