package repositories

import (
	"context"

	"github.com/exptrac/exptrac_backend/internal/core/domain"
)

// IncomeReader defines read operations for income records
type IncomeReader interface {
	// FindIncomeByID retrieves a specific income record by its unique identifier.
	FindIncomeByID(ctx context.Context, incomeID string) (*domain.IncomeRecord, error)

	// ListIncomes retrieves a paginated list of the owner's income records,
	// newest first, using token-based pagination.
	ListIncomes(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.IncomeRecord, *string, error)
}

// IncomeWriter defines the transactional mutations of the income flow.
// Each method runs as a single database transaction with the affected
// account row locked. Reversals subtract without a floor check: an account
// balance may transiently exceed what later corrections assume.
type IncomeWriter interface {
	// AddIncome credits the record's account and inserts the record.
	// Returns ErrStateConflict when the account is not active.
	AddIncome(ctx context.Context, record domain.IncomeRecord) error

	// EditIncome subtracts the old amount from the old account and credits
	// the new amount to the new account.
	EditIncome(ctx context.Context, old domain.IncomeRecord, updated domain.IncomeRecord) error

	// DeleteIncome subtracts the record's amount from its account and
	// removes the record.
	DeleteIncome(ctx context.Context, record domain.IncomeRecord) error
}

// IncomeRepositoryFacade combines all income repository interfaces
type IncomeRepositoryFacade interface {
	IncomeReader
	IncomeWriter
}
