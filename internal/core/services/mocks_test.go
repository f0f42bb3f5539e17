package services_test

import (
	"context"
	"time"

	"github.com/exptrac/exptrac_backend/internal/core/domain"
	portsrepo "github.com/exptrac/exptrac_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindDuplicateAccount(ctx context.Context, ownerID, name, number, excludeID string) (*domain.Account, error) {
	args := m.Called(ctx, ownerID, name, number, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, ownerID string, activeOnly bool, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, ownerID, activeOnly, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, balanceChanges, userID, now)
	return args.Error(0)
}

// MockPeriodRepository is a mock type for the PeriodRepositoryFacade interface
type MockPeriodRepository struct {
	mock.Mock
}

var _ portsrepo.PeriodRepositoryFacade = (*MockPeriodRepository)(nil)

func (m *MockPeriodRepository) FindBlockByID(ctx context.Context, blockID string) (*domain.PeriodBlock, error) {
	args := m.Called(ctx, blockID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PeriodBlock), args.Error(1)
}

func (m *MockPeriodRepository) FindActiveBlockContaining(ctx context.Context, ownerID string, day time.Time) (*domain.PeriodBlock, error) {
	args := m.Called(ctx, ownerID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PeriodBlock), args.Error(1)
}

func (m *MockPeriodRepository) ListBlocks(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.PeriodBlock, *string, error) {
	args := m.Called(ctx, ownerID, limit, nextToken)
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, token, args.Error(2)
	}
	return args.Get(0).([]domain.PeriodBlock), token, args.Error(2)
}

func (m *MockPeriodRepository) CountBlocksByStatus(ctx context.Context, ownerID string) (int, int, error) {
	args := m.Called(ctx, ownerID)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockPeriodRepository) SaveBlock(ctx context.Context, block domain.PeriodBlock) error {
	args := m.Called(ctx, block)
	return args.Error(0)
}

func (m *MockPeriodRepository) UpdateBlockTitle(ctx context.Context, blockID string, title string, userID string, now time.Time) error {
	args := m.Called(ctx, blockID, title, userID, now)
	return args.Error(0)
}

func (m *MockPeriodRepository) CloseBlock(ctx context.Context, blockID string, userID string, now time.Time) error {
	args := m.Called(ctx, blockID, userID, now)
	return args.Error(0)
}

// MockLineItemRepository is a mock type for the LineItemRepositoryFacade interface
type MockLineItemRepository struct {
	mock.Mock
}

var _ portsrepo.LineItemRepositoryFacade = (*MockLineItemRepository)(nil)

func (m *MockLineItemRepository) FindLineItemByID(ctx context.Context, itemID string) (*domain.LineItem, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LineItem), args.Error(1)
}

func (m *MockLineItemRepository) ListItemsByBlock(ctx context.Context, blockID string, limit int, nextToken *string) ([]domain.LineItem, *string, error) {
	args := m.Called(ctx, blockID, limit, nextToken)
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, token, args.Error(2)
	}
	return args.Get(0).([]domain.LineItem), token, args.Error(2)
}

func (m *MockLineItemRepository) FindAllItemsByBlock(ctx context.Context, blockID string) ([]domain.LineItem, error) {
	args := m.Called(ctx, blockID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LineItem), args.Error(1)
}

func (m *MockLineItemRepository) AddExpense(ctx context.Context, item domain.LineItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockLineItemRepository) EditExpense(ctx context.Context, old domain.LineItem, updated domain.LineItem) error {
	args := m.Called(ctx, old, updated)
	return args.Error(0)
}

func (m *MockLineItemRepository) DeleteExpense(ctx context.Context, item domain.LineItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

// MockIncomeRepository is a mock type for the IncomeRepositoryFacade interface
type MockIncomeRepository struct {
	mock.Mock
}

var _ portsrepo.IncomeRepositoryFacade = (*MockIncomeRepository)(nil)

func (m *MockIncomeRepository) FindIncomeByID(ctx context.Context, incomeID string) (*domain.IncomeRecord, error) {
	args := m.Called(ctx, incomeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IncomeRecord), args.Error(1)
}

func (m *MockIncomeRepository) ListIncomes(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.IncomeRecord, *string, error) {
	args := m.Called(ctx, ownerID, limit, nextToken)
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, token, args.Error(2)
	}
	return args.Get(0).([]domain.IncomeRecord), token, args.Error(2)
}

func (m *MockIncomeRepository) AddIncome(ctx context.Context, record domain.IncomeRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockIncomeRepository) EditIncome(ctx context.Context, old domain.IncomeRecord, updated domain.IncomeRecord) error {
	args := m.Called(ctx, old, updated)
	return args.Error(0)
}

func (m *MockIncomeRepository) DeleteIncome(ctx context.Context, record domain.IncomeRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// MockGoalRepository is a mock type for the GoalRepositoryFacade interface
type MockGoalRepository struct {
	mock.Mock
}

var _ portsrepo.GoalRepositoryFacade = (*MockGoalRepository)(nil)

func (m *MockGoalRepository) FindGoalByID(ctx context.Context, goalID string) (*domain.Goal, error) {
	args := m.Called(ctx, goalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Goal), args.Error(1)
}

func (m *MockGoalRepository) ListGoals(ctx context.Context, ownerID string) ([]domain.Goal, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Goal), args.Error(1)
}

func (m *MockGoalRepository) SumFlows(ctx context.Context, accountIDs []string, from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, accountIDs, from, to)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockGoalRepository) ListDailyFlows(ctx context.Context, accountIDs []string, from, to time.Time) ([]domain.DailyFlow, error) {
	args := m.Called(ctx, accountIDs, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DailyFlow), args.Error(1)
}

func (m *MockGoalRepository) SaveGoal(ctx context.Context, goal domain.Goal) error {
	args := m.Called(ctx, goal)
	return args.Error(0)
}

func (m *MockGoalRepository) UpdateGoal(ctx context.Context, goal domain.Goal) error {
	args := m.Called(ctx, goal)
	return args.Error(0)
}

func (m *MockGoalRepository) UpdateGoalStatus(ctx context.Context, goalID string, status domain.GoalStatus, userID string, now time.Time) error {
	args := m.Called(ctx, goalID, status, userID, now)
	return args.Error(0)
}

func (m *MockGoalRepository) DeleteGoal(ctx context.Context, goalID string) error {
	args := m.Called(ctx, goalID)
	return args.Error(0)
}

// MockReportingRepository is a mock type for the ReportingRepository interface
type MockReportingRepository struct {
	mock.Mock
}

var _ portsrepo.ReportingRepository = (*MockReportingRepository)(nil)

func (m *MockReportingRepository) GetBalanceTotals(ctx context.Context, ownerID string) (decimal.Decimal, []domain.MethodBalance, error) {
	args := m.Called(ctx, ownerID)
	var byMethod []domain.MethodBalance
	if args.Get(1) != nil {
		byMethod = args.Get(1).([]domain.MethodBalance)
	}
	return args.Get(0).(decimal.Decimal), byMethod, args.Error(2)
}

func (m *MockReportingRepository) GetIncomeTotals(ctx context.Context, ownerID string, monthStart time.Time) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, ownerID, monthStart)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockReportingRepository) GetIncomeBySource(ctx context.Context, ownerID string, limit int) ([]domain.SourceTotal, error) {
	args := m.Called(ctx, ownerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SourceTotal), args.Error(1)
}

func (m *MockReportingRepository) GetExpenseTotalForDay(ctx context.Context, ownerID string, day time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, ownerID, day)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockReportingRepository) GetDaySpends(ctx context.Context, blockID string) ([]domain.DaySpend, error) {
	args := m.Called(ctx, blockID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DaySpend), args.Error(1)
}
