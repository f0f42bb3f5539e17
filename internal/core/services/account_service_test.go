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

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	service  portssvc.AccountSvcFacade
	ownerID  string
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockRepo)
	suite.ownerID = uuid.NewString()
}

func (suite *AccountServiceTestSuite) validCreateRequest() dto.CreateAccountRequest {
	return dto.CreateAccountRequest{
		Name:           "Everyday Wallet",
		Number:         "9841000000",
		PaymentMethod:  domain.MethodEsewa,
		FundingSource:  domain.FundingSalary,
		InitialBalance: decimal.NewFromInt(500),
	}
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := suite.validCreateRequest()

	suite.mockRepo.On("FindDuplicateAccount", ctx, suite.ownerID, req.Name, req.Number, "").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, suite.ownerID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.NotEmpty(account.AccountID)
	suite.Equal(suite.ownerID, account.OwnerID)
	suite.Equal(domain.AccountActive, account.Status)
	suite.True(account.Balance.Equal(decimal.NewFromInt(500)))
	suite.Equal(suite.ownerID, account.CreatedBy)
	suite.WithinDuration(time.Now(), account.CreatedAt, time.Second)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Duplicate() {
	ctx := context.Background()
	req := suite.validCreateRequest()
	existing := &domain.Account{AccountID: uuid.NewString(), OwnerID: suite.ownerID, Name: req.Name, Number: req.Number}

	suite.mockRepo.On("FindDuplicateAccount", ctx, suite.ownerID, req.Name, req.Number, "").
		Return(existing, nil).Once()

	account, err := suite.service.CreateAccount(ctx, suite.ownerID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Nil(account)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_OtherOwnerHidden() {
	ctx := context.Background()
	accountID := uuid.NewString()
	other := &domain.Account{AccountID: accountID, OwnerID: uuid.NewString(), Name: "Someone Else", Number: "98410001"}

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(other, nil).Once()

	account, err := suite.service.GetAccountByID(ctx, suite.ownerID, accountID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(account)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_BalanceCorrection() {
	ctx := context.Background()
	accountID := uuid.NewString()
	existing := &domain.Account{
		AccountID:     accountID,
		OwnerID:       suite.ownerID,
		Name:          "Everyday Wallet",
		Number:        "9841000000",
		PaymentMethod: domain.MethodEsewa,
		FundingSource: domain.FundingSalary,
		Balance:       decimal.NewFromInt(100),
		Status:        domain.AccountActive,
	}
	corrected := decimal.NewFromInt(250)

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(existing, nil).Once()
	suite.mockRepo.On("UpdateAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Balance.Equal(corrected) && a.LastUpdatedBy == suite.ownerID
	})).Return(nil).Once()

	account, err := suite.service.UpdateAccount(ctx, suite.ownerID, accountID, dto.UpdateAccountRequest{Balance: &corrected})

	suite.Require().NoError(err)
	suite.True(account.Balance.Equal(corrected))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_RenameChecksDuplicates() {
	ctx := context.Background()
	accountID := uuid.NewString()
	existing := &domain.Account{
		AccountID:     accountID,
		OwnerID:       suite.ownerID,
		Name:          "Everyday Wallet",
		Number:        "9841000000",
		PaymentMethod: domain.MethodEsewa,
		FundingSource: domain.FundingSalary,
		Balance:       decimal.NewFromInt(100),
		Status:        domain.AccountActive,
	}
	newName := "Savings Wallet"
	dup := &domain.Account{AccountID: uuid.NewString(), OwnerID: suite.ownerID, Name: newName, Number: existing.Number}

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(existing, nil).Once()
	suite.mockRepo.On("FindDuplicateAccount", ctx, suite.ownerID, newName, existing.Number, accountID).
		Return(dup, nil).Once()

	account, err := suite.service.UpdateAccount(ctx, suite.ownerID, accountID, dto.UpdateAccountRequest{Name: &newName})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Nil(account)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_MissingIsNoOp() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockRepo.On("FindAccountByID", ctx, accountID).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.DeleteAccount(ctx, suite.ownerID, accountID)

	suite.NoError(err)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeleteAccount", mock.Anything, mock.Anything)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
