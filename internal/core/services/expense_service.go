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

// expenseService implements the ExpenseSvcFacade interface. Guard checks
// here give early, descriptive failures; the repository re-checks them
// under row locks inside the transaction, which is what actually holds
// under concurrency.
type expenseService struct {
	BaseService
	lineItemRepo portsrepo.LineItemRepositoryFacade
	accountRepo  portsrepo.AccountReader
	periodRepo   portsrepo.PeriodBlockReader
}

// NewExpenseService creates a new expense service
func NewExpenseService(lineItemRepo portsrepo.LineItemRepositoryFacade, accountRepo portsrepo.AccountReader, periodRepo portsrepo.PeriodBlockReader) portssvc.ExpenseSvcFacade {
	return &expenseService{lineItemRepo: lineItemRepo, accountRepo: accountRepo, periodRepo: periodRepo}
}

var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

// findOwnedItem fetches a line item and verifies ownership through its
// block. Items of other owners are hidden behind NotFound.
func (s *expenseService) findOwnedItem(ctx context.Context, ownerID, itemID string) (*domain.LineItem, *domain.PeriodBlock, error) {
	item, err := s.lineItemRepo.FindLineItemByID(ctx, itemID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find line item",
				slog.String("item_id", itemID))
		}
		return nil, nil, err
	}

	block, err := s.periodRepo.FindBlockByID(ctx, item.BlockID)
	if err != nil {
		s.LogError(ctx, err, "Failed to find block for line item",
			slog.String("item_id", itemID),
			slog.String("block_id", item.BlockID))
		return nil, nil, err
	}
	if block.OwnerID != ownerID {
		s.LogDebug(ctx, "Line item found but belongs to a different owner",
			slog.String("item_id", itemID),
			slog.String("requested_by", ownerID))
		return nil, nil, apperrors.ErrNotFound
	}

	return item, block, nil
}

// findSpendableAccount fetches an account of the owner and verifies it can
// participate in an expense of the given amount.
func (s *expenseService) findSpendableAccount(ctx context.Context, ownerID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account for expense",
				slog.String("account_id", accountID))
		}
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

func (s *expenseService) AddExpense(ctx context.Context, ownerID string, blockID string, req dto.CreateExpenseRequest) (*domain.LineItem, error) {
	block, err := s.periodRepo.FindBlockByID(ctx, blockID)
	if err != nil {
		return nil, err
	}
	if block.OwnerID != ownerID {
		return nil, apperrors.ErrNotFound
	}

	now := time.Now().UTC()
	today := domain.DateOnly(now)
	if block.IsClosed() || block.IsExpired(now) {
		return nil, fmt.Errorf("%w: block %s is closed", apperrors.ErrStateConflict, blockID)
	}
	if !block.Contains(today) {
		return nil, fmt.Errorf("%w: today falls outside the block window", apperrors.ErrStateConflict)
	}

	account, err := s.findSpendableAccount(ctx, ownerID, req.AccountID)
	if err != nil {
		return nil, err
	}
	if account.Balance.LessThan(req.Amount) {
		return nil, fmt.Errorf("%w: account %s holds %s, needs %s", apperrors.ErrInsufficientFunds, account.AccountID, account.Balance, req.Amount)
	}

	accountID := req.AccountID
	item := domain.LineItem{
		ItemID:        uuid.NewString(),
		BlockID:       blockID,
		AccountID:     &accountID,
		AccountName:   account.Name,
		Name:          req.Name,
		Amount:        req.Amount,
		PaymentMethod: account.PaymentMethod,
		Day:           domain.DayTagFor(today),
		Date:          today,
		Notes:         req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     ownerID,
			LastUpdatedAt: now,
			LastUpdatedBy: ownerID,
		},
	}
	if err := item.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	if err := s.lineItemRepo.AddExpense(ctx, item); err != nil {
		s.LogError(ctx, err, "Failed to record expense",
			slog.String("item_id", item.ItemID),
			slog.String("block_id", blockID))
		return nil, err
	}

	s.LogInfo(ctx, "Expense recorded",
		slog.String("item_id", item.ItemID),
		slog.String("block_id", blockID),
		slog.String("amount", item.Amount.String()))
	return &item, nil
}

func (s *expenseService) GetExpense(ctx context.Context, ownerID string, itemID string) (*domain.LineItem, error) {
	item, _, err := s.findOwnedItem(ctx, ownerID, itemID)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *expenseService) ListBlockExpenses(ctx context.Context, ownerID string, blockID string, limit int, nextToken *string) ([]domain.LineItem, *string, error) {
	block, err := s.periodRepo.FindBlockByID(ctx, blockID)
	if err != nil {
		return nil, nil, err
	}
	if block.OwnerID != ownerID {
		return nil, nil, apperrors.ErrNotFound
	}

	items, token, err := s.lineItemRepo.ListItemsByBlock(ctx, blockID, limit, nextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list block expenses",
			slog.String("block_id", blockID))
		return nil, nil, err
	}
	return items, token, nil
}

func (s *expenseService) EditExpense(ctx context.Context, ownerID string, itemID string, req dto.UpdateExpenseRequest) (*domain.LineItem, error) {
	old, block, err := s.findOwnedItem(ctx, ownerID, itemID)
	if err != nil {
		return nil, err
	}
	if block.IsClosed() || block.IsExpired(time.Now().UTC()) {
		return nil, fmt.Errorf("%w: block %s is closed", apperrors.ErrStateConflict, block.BlockID)
	}

	updated := *old
	if req.AccountID != nil && (old.AccountID == nil || *req.AccountID != *old.AccountID) {
		account, err := s.findSpendableAccount(ctx, ownerID, *req.AccountID)
		if err != nil {
			return nil, err
		}
		accountID := account.AccountID
		updated.AccountID = &accountID
		updated.AccountName = account.Name
		updated.PaymentMethod = account.PaymentMethod
	}
	if req.Name != nil {
		updated.Name = *req.Name
	}
	if req.Amount != nil {
		updated.Amount = *req.Amount
	}
	if req.Notes != nil {
		updated.Notes = *req.Notes
	}
	if updated.AccountID == nil {
		return nil, fmt.Errorf("%w: expense has no account; supply one to edit it", apperrors.ErrValidation)
	}
	if err := updated.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	now := time.Now().UTC()
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = ownerID

	if err := s.lineItemRepo.EditExpense(ctx, *old, updated); err != nil {
		s.LogError(ctx, err, "Failed to edit expense",
			slog.String("item_id", itemID))
		return nil, err
	}

	s.LogInfo(ctx, "Expense edited",
		slog.String("item_id", itemID),
		slog.String("amount", updated.Amount.String()))
	return &updated, nil
}

func (s *expenseService) DeleteExpense(ctx context.Context, ownerID string, itemID string) error {
	item, _, err := s.findOwnedItem(ctx, ownerID, itemID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Deleting an already-deleted item is a no-op
			return nil
		}
		return err
	}

	if err := s.lineItemRepo.DeleteExpense(ctx, *item); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		s.LogError(ctx, err, "Failed to delete expense",
			slog.String("item_id", itemID))
		return err
	}

	s.LogInfo(ctx, "Expense deleted",
		slog.String("item_id", itemID),
		slog.String("amount", item.Amount.String()))
	return nil
}
