package services

import (
	"context"

	"github.com/exptrac/exptrac_backend/internal/core/domain"
	"github.com/exptrac/exptrac_backend/internal/dto"
)

// IncomeReaderSvc defines read operations for income records
type IncomeReaderSvc interface {
	// GetIncome retrieves an income record owned by ownerID.
	GetIncome(ctx context.Context, ownerID string, incomeID string) (*domain.IncomeRecord, error)

	// ListIncomes retrieves a paginated list of the owner's income records.
	ListIncomes(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.IncomeRecord, *string, error)
}

// IncomeWriterSvc defines the income mutations. Each call is atomic with
// the account balance change.
type IncomeWriterSvc interface {
	// AddIncome records income, crediting the account.
	AddIncome(ctx context.Context, ownerID string, req dto.CreateIncomeRequest) (*domain.IncomeRecord, error)

	// EditIncome changes an income record, reversing the old credit before
	// applying the new one.
	EditIncome(ctx context.Context, ownerID string, incomeID string, req dto.UpdateIncomeRequest) (*domain.IncomeRecord, error)

	// DeleteIncome removes an income record, reversing its credit. Deleting
	// an already-deleted record is a no-op.
	DeleteIncome(ctx context.Context, ownerID string, incomeID string) error
}

// IncomeSvcFacade combines all income service interfaces
type IncomeSvcFacade interface {
	IncomeReaderSvc
	IncomeWriterSvc
}
