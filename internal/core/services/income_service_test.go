package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/exptrac/exptrac_backend/internal/apperrors"
	"github.com/exptrac/exptrac_backend/internal/core/domain"
	portssvc "github.com/exptrac/exptrac_backend/internal/core/ports/services"
	"github.com/exptrac/exptrac_backend/internal/core/services"
	"github.com/exptrac/exptrac_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type IncomeServiceTestSuite struct {
	suite.Suite
	mockIncomeRepo  *MockIncomeRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.IncomeSvcFacade
	ownerID         string
	account         *domain.Account
}

func (suite *IncomeServiceTestSuite) SetupTest() {
	suite.mockIncomeRepo = new(MockIncomeRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewIncomeService(suite.mockIncomeRepo, suite.mockAccountRepo)
	suite.ownerID = uuid.NewString()
	suite.account = &domain.Account{
		AccountID:     uuid.NewString(),
		OwnerID:       suite.ownerID,
		Name:          "Salary Account",
		Number:        "0012345678",
		PaymentMethod: domain.MethodBanking,
		FundingSource: domain.FundingSalary,
		Balance:       decimal.NewFromInt(1000),
		Status:        domain.AccountActive,
	}
}

func (suite *IncomeServiceTestSuite) TestAddIncome_Success() {
	ctx := context.Background()
	req := dto.CreateIncomeRequest{
		AccountID:   suite.account.AccountID,
		Source:      domain.SourceSalary,
		Amount:      decimal.NewFromInt(2500),
		Description: "August salary",
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.account.AccountID).Return(suite.account, nil).Once()
	suite.mockIncomeRepo.On("AddIncome", ctx, mock.MatchedBy(func(r domain.IncomeRecord) bool {
		return r.OwnerID == suite.ownerID &&
			r.AccountID == suite.account.AccountID &&
			r.Source == domain.SourceSalary &&
			r.Amount.Equal(decimal.NewFromInt(2500))
	})).Return(nil).Once()

	record, err := suite.service.AddIncome(ctx, suite.ownerID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(record)
	suite.NotEmpty(record.IncomeID)
	suite.WithinDuration(time.Now(), record.CreatedAt, time.Second)
	suite.mockIncomeRepo.AssertExpectations(suite.T())
}

func (suite *IncomeServiceTestSuite) TestAddIncome_SuspendedAccount() {
	ctx := context.Background()
	suite.account.Status = domain.AccountSuspended
	req := dto.CreateIncomeRequest{AccountID: suite.account.AccountID, Source: domain.SourceGift, Amount: decimal.NewFromInt(50)}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.account.AccountID).Return(suite.account, nil).Once()

	record, err := suite.service.AddIncome(ctx, suite.ownerID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrStateConflict)
	suite.Nil(record)
	suite.mockIncomeRepo.AssertNotCalled(suite.T(), "AddIncome", mock.Anything, mock.Anything)
}

func (suite *IncomeServiceTestSuite) TestEditIncome_ReversalPair() {
	ctx := context.Background()
	old := &domain.IncomeRecord{
		IncomeID:  uuid.NewString(),
		OwnerID:   suite.ownerID,
		AccountID: suite.account.AccountID,
		Source:    domain.SourceSalary,
		Amount:    decimal.NewFromInt(2500),
	}
	newAmount := decimal.NewFromInt(2600)

	suite.mockIncomeRepo.On("FindIncomeByID", ctx, old.IncomeID).Return(old, nil).Once()
	suite.mockIncomeRepo.On("EditIncome", ctx, *old, mock.MatchedBy(func(updated domain.IncomeRecord) bool {
		return updated.Amount.Equal(newAmount) && updated.AccountID == old.AccountID
	})).Return(nil).Once()

	updated, err := suite.service.EditIncome(ctx, suite.ownerID, old.IncomeID, dto.UpdateIncomeRequest{Amount: &newAmount})

	suite.Require().NoError(err)
	suite.True(updated.Amount.Equal(newAmount))
	suite.mockIncomeRepo.AssertExpectations(suite.T())
}

func (suite *IncomeServiceTestSuite) TestGetIncome_OtherOwnerHidden() {
	ctx := context.Background()
	record := &domain.IncomeRecord{IncomeID: uuid.NewString(), OwnerID: uuid.NewString(), AccountID: uuid.NewString()}

	suite.mockIncomeRepo.On("FindIncomeByID", ctx, record.IncomeID).Return(record, nil).Once()

	got, err := suite.service.GetIncome(ctx, suite.ownerID, record.IncomeID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(got)
}

func (suite *IncomeServiceTestSuite) TestDeleteIncome_MissingIsNoOp() {
	ctx := context.Background()
	incomeID := uuid.NewString()

	suite.mockIncomeRepo.On("FindIncomeByID", ctx, incomeID).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.DeleteIncome(ctx, suite.ownerID, incomeID)

	suite.NoError(err)
	suite.mockIncomeRepo.AssertNotCalled(suite.T(), "DeleteIncome", mock.Anything, mock.Anything)
}

func TestIncomeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(IncomeServiceTestSuite))
}
