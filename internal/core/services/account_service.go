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

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service
func NewAccountService(repo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: repo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, ownerID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	dup, err := s.accountRepo.FindDuplicateAccount(ctx, ownerID, req.Name, req.Number, "")
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check for duplicate account",
			slog.String("owner_id", ownerID))
		return nil, err
	}
	if dup != nil {
		return nil, fmt.Errorf("%w: account %q with number %s already exists", apperrors.ErrDuplicate, req.Name, req.Number)
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:     uuid.NewString(),
		OwnerID:       ownerID,
		Name:          req.Name,
		Number:        req.Number,
		PaymentMethod: req.PaymentMethod,
		FundingSource: req.FundingSource,
		Balance:       req.InitialBalance,
		Status:        domain.AccountActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     ownerID,
			LastUpdatedAt: now,
			LastUpdatedBy: ownerID,
		},
	}
	if err := account.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account",
			slog.String("account_id", account.AccountID),
			slog.String("owner_id", ownerID))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("owner_id", ownerID))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, ownerID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID",
				slog.String("account_id", accountID))
		}
		return nil, err
	}

	// Return NotFound to obscure existence from other owners
	if account.OwnerID != ownerID {
		s.LogDebug(ctx, "Account found but belongs to a different owner",
			slog.String("account_id", accountID),
			slog.String("requested_by", ownerID))
		return nil, apperrors.ErrNotFound
	}

	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, ownerID string, activeOnly bool, limit int, offset int) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, ownerID, activeOnly, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts",
			slog.String("owner_id", ownerID),
			slog.Int("limit", limit),
			slog.Int("offset", offset))
		return nil, fmt.Errorf("failed to list accounts for owner %s: %w", ownerID, err)
	}

	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, ownerID string, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	account, err := s.GetAccountByID(ctx, ownerID, accountID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		account.Name = *req.Name
		updated = true
	}
	if req.Number != nil {
		account.Number = *req.Number
		updated = true
	}
	if req.PaymentMethod != nil {
		account.PaymentMethod = *req.PaymentMethod
		updated = true
	}
	if req.FundingSource != nil {
		account.FundingSource = *req.FundingSource
		updated = true
	}
	if req.Balance != nil {
		account.Balance = *req.Balance
		updated = true
	}
	if req.Status != nil {
		account.Status = *req.Status
		updated = true
	}
	if !updated {
		s.LogDebug(ctx, "No fields provided for account update",
			slog.String("account_id", accountID))
		return account, nil
	}

	if err := account.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	// Renames must not collide with another account of the owner
	if req.Name != nil || req.Number != nil {
		dup, err := s.accountRepo.FindDuplicateAccount(ctx, ownerID, account.Name, account.Number, accountID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to check for duplicate account",
				slog.String("owner_id", ownerID))
			return nil, err
		}
		if dup != nil {
			return nil, fmt.Errorf("%w: account %q with number %s already exists", apperrors.ErrDuplicate, account.Name, account.Number)
		}
	}

	now := time.Now().UTC()
	account.LastUpdatedAt = now
	account.LastUpdatedBy = ownerID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account",
			slog.String("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account updated successfully",
		slog.String("account_id", account.AccountID),
		slog.String("owner_id", ownerID))
	return account, nil
}

func (s *accountService) DeleteAccount(ctx context.Context, ownerID string, accountID string) error {
	_, err := s.GetAccountByID(ctx, ownerID, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Deleting an already-deleted account is a no-op
			return nil
		}
		return err
	}

	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		s.LogError(ctx, err, "Failed to delete account",
			slog.String("account_id", accountID))
		return err
	}

	s.LogInfo(ctx, "Account deleted successfully",
		slog.String("account_id", accountID),
		slog.String("owner_id", ownerID))
	return nil
}
