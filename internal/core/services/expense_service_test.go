package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/exptrac/exptrac_backend/internal/apperrors"
	"github.com/exptrac/exptrac_backend/internal/core/domain"
	portssvc "github.com/exptrac/exptrac_backend/internal/core/ports/services"
	"github.com/exptrac/exptrac_backend/internal/core/services"
	"github.com/exptrac/exptrac_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ExpenseServiceTestSuite struct {
	suite.Suite
	mockLineItemRepo *MockLineItemRepository
	mockAccountRepo  *MockAccountRepository
	mockPeriodRepo   *MockPeriodRepository
	service          portssvc.ExpenseSvcFacade
	ownerID          string
	block            *domain.PeriodBlock
	account          *domain.Account
}

func (suite *ExpenseServiceTestSuite) SetupTest() {
	suite.mockLineItemRepo = new(MockLineItemRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockPeriodRepo = new(MockPeriodRepository)
	suite.service = services.NewExpenseService(suite.mockLineItemRepo, suite.mockAccountRepo, suite.mockPeriodRepo)
	suite.ownerID = uuid.NewString()

	today := domain.DateOnly(time.Now().UTC())
	suite.block = &domain.PeriodBlock{
		BlockID:   uuid.NewString(),
		OwnerID:   suite.ownerID,
		Kind:      domain.BlockWeekly,
		StartDate: today.AddDate(0, 0, -2),
		EndDate:   today.AddDate(0, 0, 4),
		Status:    domain.BlockActive,
	}
	suite.account = &domain.Account{
		AccountID:     uuid.NewString(),
		OwnerID:       suite.ownerID,
		Name:          "Everyday Wallet",
		Number:        "9841000000",
		PaymentMethod: domain.MethodKhalti,
		FundingSource: domain.FundingSalary,
		Balance:       decimal.NewFromInt(500),
		Status:        domain.AccountActive,
	}
}

func (suite *ExpenseServiceTestSuite) TestAddExpense_Success() {
	ctx := context.Background()
	req := dto.CreateExpenseRequest{
		AccountID: suite.account.AccountID,
		Name:      "Groceries",
		Amount:    decimal.NewFromInt(120),
		Notes:     "weekly shop",
	}

	suite.mockPeriodRepo.On("FindBlockByID", ctx, suite.block.BlockID).Return(suite.block, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.account.AccountID).Return(suite.account, nil).Once()
	suite.mockLineItemRepo.On("AddExpense", ctx, mock.AnythingOfType("domain.LineItem")).Return(nil).Once()

	item, err := suite.service.AddExpense(ctx, suite.ownerID, suite.block.BlockID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(item)
	suite.Equal(suite.block.BlockID, item.BlockID)
	suite.Require().NotNil(item.AccountID)
	suite.Equal(suite.account.AccountID, *item.AccountID)
	// Snapshots taken from the account at recording time
	suite.Equal(suite.account.Name, item.AccountName)
	suite.Equal(domain.MethodKhalti, item.PaymentMethod)
	today := domain.DateOnly(time.Now().UTC())
	suite.True(item.Date.Equal(today))
	suite.Equal(domain.DayTagFor(today), item.Day)
	suite.mockLineItemRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestAddExpense_InsufficientFunds() {
	ctx := context.Background()
	req := dto.CreateExpenseRequest{
		AccountID: suite.account.AccountID,
		Name:      "Laptop",
		Amount:    decimal.NewFromInt(900),
	}

	suite.mockPeriodRepo.On("FindBlockByID", ctx, suite.block.BlockID).Return(suite.block, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.account.AccountID).Return(suite.account, nil).Once()

	item, err := suite.service.AddExpense(ctx, suite.ownerID, suite.block.BlockID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.Nil(item)
	suite.mockLineItemRepo.AssertNotCalled(suite.T(), "AddExpense", mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestAddExpense_ClosedBlock() {
	ctx := context.Background()
	suite.block.Status = domain.BlockClosed
	req := dto.CreateExpenseRequest{AccountID: suite.account.AccountID, Name: "Groceries", Amount: decimal.NewFromInt(10)}

	suite.mockPeriodRepo.On("FindBlockByID", ctx, suite.block.BlockID).Return(suite.block, nil).Once()

	item, err := suite.service.AddExpense(ctx, suite.ownerID, suite.block.BlockID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrStateConflict)
	suite.Nil(item)
}

func (suite *ExpenseServiceTestSuite) TestAddExpense_ExpiredBlockRejected() {
	ctx := context.Background()
	today := domain.DateOnly(time.Now().UTC())
	suite.block.StartDate = today.AddDate(0, 0, -10)
	suite.block.EndDate = today.AddDate(0, 0, -3)
	req := dto.CreateExpenseRequest{AccountID: suite.account.AccountID, Name: "Groceries", Amount: decimal.NewFromInt(10)}

	suite.mockPeriodRepo.On("FindBlockByID", ctx, suite.block.BlockID).Return(suite.block, nil).Once()

	item, err := suite.service.AddExpense(ctx, suite.ownerID, suite.block.BlockID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrStateConflict)
	suite.Nil(item)
}

func (suite *ExpenseServiceTestSuite) TestAddExpense_SuspendedAccount() {
	ctx := context.Background()
	suite.account.Status = domain.AccountSuspended
	req := dto.CreateExpenseRequest{AccountID: suite.account.AccountID, Name: "Groceries", Amount: decimal.NewFromInt(10)}

	suite.mockPeriodRepo.On("FindBlockByID", ctx, suite.block.BlockID).Return(suite.block, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.account.AccountID).Return(suite.account, nil).Once()

	item, err := suite.service.AddExpense(ctx, suite.ownerID, suite.block.BlockID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrStateConflict)
	suite.Nil(item)
}

func (suite *ExpenseServiceTestSuite) TestEditExpense_SwitchesAccountSnapshot() {
	ctx := context.Background()
	oldAccountID := suite.account.AccountID
	item := &domain.LineItem{
		ItemID:        uuid.NewString(),
		BlockID:       suite.block.BlockID,
		AccountID:     &oldAccountID,
		AccountName:   suite.account.Name,
		Name:          "Groceries",
		Amount:        decimal.NewFromInt(120),
		PaymentMethod: suite.account.PaymentMethod,
		Day:           domain.DayTagFor(time.Now().UTC()),
		Date:          domain.DateOnly(time.Now().UTC()),
	}
	newAccount := &domain.Account{
		AccountID:     uuid.NewString(),
		OwnerID:       suite.ownerID,
		Name:          "Bank Main",
		Number:        "0012345678",
		PaymentMethod: domain.MethodBanking,
		FundingSource: domain.FundingSalary,
		Balance:       decimal.NewFromInt(1000),
		Status:        domain.AccountActive,
	}
	newAmount := decimal.NewFromInt(150)

	suite.mockLineItemRepo.On("FindLineItemByID", ctx, item.ItemID).Return(item, nil).Once()
	suite.mockPeriodRepo.On("FindBlockByID", ctx, suite.block.BlockID).Return(suite.block, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, newAccount.AccountID).Return(newAccount, nil).Once()
	suite.mockLineItemRepo.On("EditExpense", ctx, *item, mock.MatchedBy(func(updated domain.LineItem) bool {
		return *updated.AccountID == newAccount.AccountID &&
			updated.AccountName == newAccount.Name &&
			updated.PaymentMethod == domain.MethodBanking &&
			updated.Amount.Equal(newAmount)
	})).Return(nil).Once()

	updated, err := suite.service.EditExpense(ctx, suite.ownerID, item.ItemID, dto.UpdateExpenseRequest{
		AccountID: &newAccount.AccountID,
		Amount:    &newAmount,
	})

	suite.Require().NoError(err)
	suite.Equal(newAccount.Name, updated.AccountName)
	suite.mockLineItemRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestDeleteExpense_MissingIsNoOp() {
	ctx := context.Background()
	itemID := uuid.NewString()

	suite.mockLineItemRepo.On("FindLineItemByID", ctx, itemID).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.DeleteExpense(ctx, suite.ownerID, itemID)

	suite.NoError(err)
	suite.mockLineItemRepo.AssertNotCalled(suite.T(), "DeleteExpense", mock.Anything, mock.Anything)
}

func TestExpenseServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExpenseServiceTestSuite))
}

// --- Concurrency ---

// fakeLedger is a stateful in-memory stand-in for the account and line-item
// repositories. Its write methods apply the guards and the balance moves
// under one lock, the way the real repository does inside a transaction.
// blockClosed stands in for the block row state re-checked under that lock.
type fakeLedger struct {
	mu          sync.Mutex
	account     domain.Account
	items       []domain.LineItem
	blockClosed bool
}

func (f *fakeLedger) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if accountID != f.account.AccountID {
		return nil, apperrors.ErrNotFound
	}
	snapshot := f.account
	return &snapshot, nil
}

func (f *fakeLedger) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return map[string]domain.Account{f.account.AccountID: f.account}, nil
}

func (f *fakeLedger) FindDuplicateAccount(ctx context.Context, ownerID, name, number, excludeID string) (*domain.Account, error) {
	return nil, apperrors.ErrNotFound
}

func (f *fakeLedger) ListAccounts(ctx context.Context, ownerID string, activeOnly bool, limit int, offset int) ([]domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return []domain.Account{f.account}, nil
}

func (f *fakeLedger) FindLineItemByID(ctx context.Context, itemID string) (*domain.LineItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ItemID == itemID {
			snapshot := f.items[i]
			return &snapshot, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeLedger) ListItemsByBlock(ctx context.Context, blockID string, limit int, nextToken *string) ([]domain.LineItem, *string, error) {
	return nil, nil, nil
}

func (f *fakeLedger) FindAllItemsByBlock(ctx context.Context, blockID string) ([]domain.LineItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.LineItem{}, f.items...), nil
}

func (f *fakeLedger) AddExpense(ctx context.Context, item domain.LineItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.blockClosed {
		return apperrors.ErrStateConflict
	}
	if !f.account.IsActive() {
		return apperrors.ErrStateConflict
	}
	if f.account.Balance.LessThan(item.Amount) {
		return apperrors.ErrInsufficientFunds
	}
	f.account.Balance = f.account.Balance.Sub(item.Amount)
	f.items = append(f.items, item)
	return nil
}

func (f *fakeLedger) EditExpense(ctx context.Context, old domain.LineItem, updated domain.LineItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.blockClosed {
		return apperrors.ErrStateConflict
	}
	// Refund the old amount, debit the new one; reject before touching
	// anything when the refunded balance cannot cover the new amount.
	after := f.account.Balance.Add(old.Amount).Sub(updated.Amount)
	if after.IsNegative() {
		return apperrors.ErrInsufficientFunds
	}
	for i := range f.items {
		if f.items[i].ItemID == old.ItemID {
			f.account.Balance = after
			f.items[i] = updated
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (f *fakeLedger) DeleteExpense(ctx context.Context, item domain.LineItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ItemID == item.ItemID {
			f.account.Balance = f.account.Balance.Add(f.items[i].Amount)
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

// TestAddExpense_ConcurrentDebitsSerialize drives two simultaneous debits
// that each pass the optimistic pre-check but cannot both fit the balance.
// Exactly one must commit; the loser must see ErrInsufficientFunds and the
// final balance must reflect only the winner.
func TestAddExpense_ConcurrentDebitsSerialize(t *testing.T) {
	ownerID := uuid.NewString()
	today := domain.DateOnly(time.Now().UTC())
	block := &domain.PeriodBlock{
		BlockID:   uuid.NewString(),
		OwnerID:   ownerID,
		Kind:      domain.BlockWeekly,
		StartDate: today.AddDate(0, 0, -1),
		EndDate:   today.AddDate(0, 0, 5),
		Status:    domain.BlockActive,
	}
	ledger := &fakeLedger{
		account: domain.Account{
			AccountID:     uuid.NewString(),
			OwnerID:       ownerID,
			Name:          "Shared Wallet",
			Number:        "9841000000",
			PaymentMethod: domain.MethodEsewa,
			FundingSource: domain.FundingSalary,
			Balance:       decimal.NewFromInt(100),
			Status:        domain.AccountActive,
		},
	}

	periodRepo := new(MockPeriodRepository)
	periodRepo.On("FindBlockByID", mock.Anything, block.BlockID).Return(block, nil)

	svc := services.NewExpenseService(ledger, ledger, periodRepo)

	req := dto.CreateExpenseRequest{
		AccountID: ledger.account.AccountID,
		Name:      "Simultaneous spend",
		Amount:    decimal.NewFromInt(60),
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.AddExpense(context.Background(), ownerID, block.BlockID, req)
		}(i)
	}
	wg.Wait()

	var successes, rejections int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		default:
			require.ErrorIs(t, err, apperrors.ErrInsufficientFunds)
			rejections++
		}
	}

	assert.Equal(t, 1, successes, "exactly one debit must commit")
	assert.Equal(t, 1, rejections, "the other debit must be rejected")
	assert.True(t, ledger.account.Balance.Equal(decimal.NewFromInt(40)),
		"final balance must reflect only the committed debit, got %s", ledger.account.Balance)
	assert.Len(t, ledger.items, 1)
}

// newLedgerHarness wires a fakeLedger holding one active account with the
// given balance to an expense service whose period repository always serves
// an active weekly block.
func newLedgerHarness(ownerID string, balance int64) (*fakeLedger, *domain.PeriodBlock, portssvc.ExpenseSvcFacade) {
	today := domain.DateOnly(time.Now().UTC())
	block := &domain.PeriodBlock{
		BlockID:   uuid.NewString(),
		OwnerID:   ownerID,
		Kind:      domain.BlockWeekly,
		StartDate: today.AddDate(0, 0, -1),
		EndDate:   today.AddDate(0, 0, 5),
		Status:    domain.BlockActive,
	}
	ledger := &fakeLedger{
		account: domain.Account{
			AccountID:     uuid.NewString(),
			OwnerID:       ownerID,
			Name:          "Everyday Wallet",
			Number:        "9841000000",
			PaymentMethod: domain.MethodEsewa,
			FundingSource: domain.FundingSalary,
			Balance:       decimal.NewFromInt(balance),
			Status:        domain.AccountActive,
		},
	}
	periodRepo := new(MockPeriodRepository)
	periodRepo.On("FindBlockByID", mock.Anything, block.BlockID).Return(block, nil)
	return ledger, block, services.NewExpenseService(ledger, ledger, periodRepo)
}

// TestEditExpense_RefundCannotCoverNewAmount edits a recorded expense up to
// an amount the refunded balance cannot cover. The edit must be rejected and
// neither the balance nor the stored item may change.
func TestEditExpense_RefundCannotCoverNewAmount(t *testing.T) {
	ownerID := uuid.NewString()
	ledger, block, svc := newLedgerHarness(ownerID, 500)

	item, err := svc.AddExpense(context.Background(), ownerID, block.BlockID, dto.CreateExpenseRequest{
		AccountID: ledger.account.AccountID,
		Name:      "Groceries",
		Amount:    decimal.NewFromInt(120),
	})
	require.NoError(t, err)
	require.True(t, ledger.account.Balance.Equal(decimal.NewFromInt(380)))

	// 380 refunded back to 500 still cannot pay 600.
	newAmount := decimal.NewFromInt(600)
	updated, err := svc.EditExpense(context.Background(), ownerID, item.ItemID, dto.UpdateExpenseRequest{
		Amount: &newAmount,
	})

	require.ErrorIs(t, err, apperrors.ErrInsufficientFunds)
	assert.Nil(t, updated)
	assert.True(t, ledger.account.Balance.Equal(decimal.NewFromInt(380)),
		"a rejected edit must leave the balance untouched, got %s", ledger.account.Balance)
	require.Len(t, ledger.items, 1)
	assert.True(t, ledger.items[0].Amount.Equal(decimal.NewFromInt(120)),
		"a rejected edit must leave the recorded amount untouched")
}

// TestDeleteExpense_RefundsDebit records an expense and deletes it again.
// The delete must credit the debited amount back and remove the item.
func TestDeleteExpense_RefundsDebit(t *testing.T) {
	ownerID := uuid.NewString()
	ledger, block, svc := newLedgerHarness(ownerID, 500)

	item, err := svc.AddExpense(context.Background(), ownerID, block.BlockID, dto.CreateExpenseRequest{
		AccountID: ledger.account.AccountID,
		Name:      "Groceries",
		Amount:    decimal.NewFromInt(120),
	})
	require.NoError(t, err)
	require.True(t, ledger.account.Balance.Equal(decimal.NewFromInt(380)))

	err = svc.DeleteExpense(context.Background(), ownerID, item.ItemID)

	require.NoError(t, err)
	assert.True(t, ledger.account.Balance.Equal(decimal.NewFromInt(500)),
		"deleting the expense must restore the original balance, got %s", ledger.account.Balance)
	assert.Empty(t, ledger.items)
}

// TestAddExpense_BlockClosesBetweenCheckAndCommit models an expiry tick
// closing the block after the service's optimistic pre-check passed. The
// write must still fail on the state re-checked under the ledger's lock.
func TestAddExpense_BlockClosesBetweenCheckAndCommit(t *testing.T) {
	ownerID := uuid.NewString()
	ledger, block, svc := newLedgerHarness(ownerID, 500)
	ledger.blockClosed = true

	item, err := svc.AddExpense(context.Background(), ownerID, block.BlockID, dto.CreateExpenseRequest{
		AccountID: ledger.account.AccountID,
		Name:      "Groceries",
		Amount:    decimal.NewFromInt(120),
	})

	require.ErrorIs(t, err, apperrors.ErrStateConflict)
	assert.Nil(t, item)
	assert.True(t, ledger.account.Balance.Equal(decimal.NewFromInt(500)),
		"a rejected debit must leave the balance untouched")
	assert.Empty(t, ledger.items)
}
