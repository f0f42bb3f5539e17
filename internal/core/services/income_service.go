package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/exptrac/exptrac_backend/internal/apperrors"
	"github.com/exptrac/exptrac_backend/internal/core/domain"
	portsrepo "github.com/exptrac/exptrac_backend/internal/core/ports/repositories"
	portssvc "github.com/exptrac/exptrac_backend/internal/core/ports/services"
	"github.com/exptrac/exptrac_backend/internal/dto"
	"github.com/google/uuid"
)

// incomeService implements the IncomeSvcFacade interface
type incomeService struct {
	BaseService
	incomeRepo  portsrepo.IncomeRepositoryFacade
	accountRepo portsrepo.AccountReader
}

// NewIncomeService creates a new income service
func NewIncomeService(incomeRepo portsrepo.IncomeRepositoryFacade, accountRepo portsrepo.AccountReader) portssvc.IncomeSvcFacade {
	return &incomeService{incomeRepo: incomeRepo, accountRepo: accountRepo}
}

var _ portssvc.IncomeSvcFacade = (*incomeService)(nil)

// findOwnedIncome fetches a record and hides records of other owners
// behind NotFound.
func (s *incomeService) findOwnedIncome(ctx context.Context, ownerID, incomeID string) (*domain.IncomeRecord, error) {
	record, err := s.incomeRepo.FindIncomeByID(ctx, incomeID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find income record",
				slog.String("income_id", incomeID))
		}
		return nil, err
	}
	if record.OwnerID != ownerID {
		s.LogDebug(ctx, "Income record found but belongs to a different owner",
			slog.String("income_id", incomeID),
			slog.String("requested_by", ownerID))
		return nil, apperrors.ErrNotFound
	}
	return record, nil
}

// findCreditableAccount fetches an account of the owner that can receive
// income.
func (s *incomeService) findCreditableAccount(ctx context.Context, ownerID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.OwnerID != ownerID {
		return nil, apperrors.ErrNotFound
	}
	if !account.IsActive() {
		return nil, fmt.Errorf("%w: account %s is suspended", apperrors.ErrStateConflict, accountID)
	}
	return account, nil
}

func (s *incomeService) AddIncome(ctx context.Context, ownerID string, req dto.CreateIncomeRequest) (*domain.IncomeRecord, error) {
	if _, err := s.findCreditableAccount(ctx, ownerID, req.AccountID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	record := domain.IncomeRecord{
		IncomeID:    uuid.NewString(),
		OwnerID:     ownerID,
		AccountID:   req.AccountID,
		Source:      req.Source,
		Amount:      req.Amount,
		Description: req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     ownerID,
			LastUpdatedAt: now,
			LastUpdatedBy: ownerID,
		},
	}
	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	if err := s.incomeRepo.AddIncome(ctx, record); err != nil {
		s.LogError(ctx, err, "Failed to record income",
			slog.String("income_id", record.IncomeID),
			slog.String("account_id", record.AccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Income recorded",
		slog.String("income_id", record.IncomeID),
		slog.String("source", string(record.Source)),
		slog.String("amount", record.Amount.String()))
	return &record, nil
}

func (s *incomeService) GetIncome(ctx context.Context, ownerID string, incomeID string) (*domain.IncomeRecord, error) {
	return s.findOwnedIncome(ctx, ownerID, incomeID)
}

func (s *incomeService) ListIncomes(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.IncomeRecord, *string, error) {
	records, token, err := s.incomeRepo.ListIncomes(ctx, ownerID, limit, nextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list income records",
			slog.String("owner_id", ownerID))
		return nil, nil, err
	}
	return records, token, nil
}

func (s *incomeService) EditIncome(ctx context.Context, ownerID string, incomeID string, req dto.UpdateIncomeRequest) (*domain.IncomeRecord, error) {
	old, err := s.findOwnedIncome(ctx, ownerID, incomeID)
	if err != nil {
		return nil, err
	}

	updated := *old
	if req.AccountID != nil && *req.AccountID != old.AccountID {
		account, err := s.findCreditableAccount(ctx, ownerID, *req.AccountID)
		if err != nil {
			return nil, err
		}
		updated.AccountID = account.AccountID
	}
	if req.Source != nil {
		updated.Source = *req.Source
	}
	if req.Amount != nil {
		updated.Amount = *req.Amount
	}
	if req.Description != nil {
		updated.Description = *req.Description
	}
	if err := updated.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	now := time.Now().UTC()
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = ownerID

	if err := s.incomeRepo.EditIncome(ctx, *old, updated); err != nil {
		s.LogError(ctx, err, "Failed to edit income record",
			slog.String("income_id", incomeID))
		return nil, err
	}

	s.LogInfo(ctx, "Income record edited",
		slog.String("income_id", incomeID),
		slog.String("amount", updated.Amount.String()))
	return &updated, nil
}

func (s *incomeService) DeleteIncome(ctx context.Context, ownerID string, incomeID string) error {
	record, err := s.findOwnedIncome(ctx, ownerID, incomeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Deleting an already-deleted record is a no-op
			return nil
		}
		return err
	}

	if err := s.incomeRepo.DeleteIncome(ctx, *record); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		s.LogError(ctx, err, "Failed to delete income record",
			slog.String("income_id", incomeID))
		return err
	}

	s.LogInfo(ctx, "Income record deleted",
		slog.String("income_id", incomeID),
		slog.String("amount", record.Amount.String()))
	return nil
}
