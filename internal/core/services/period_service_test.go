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

type PeriodServiceTestSuite struct {
	suite.Suite
	mockPeriodRepo   *MockPeriodRepository
	mockLineItemRepo *MockLineItemRepository
	service          portssvc.PeriodSvcFacade
	ownerID          string
}

func (suite *PeriodServiceTestSuite) SetupTest() {
	suite.mockPeriodRepo = new(MockPeriodRepository)
	suite.mockLineItemRepo = new(MockLineItemRepository)
	suite.service = services.NewPeriodService(suite.mockPeriodRepo, suite.mockLineItemRepo)
	suite.ownerID = uuid.NewString()
}

// activeBlockEndingOn builds an active block whose window ends on endDate.
func (suite *PeriodServiceTestSuite) activeBlockEndingOn(endDate time.Time) *domain.PeriodBlock {
	start := endDate.AddDate(0, 0, -6)
	return &domain.PeriodBlock{
		BlockID:      uuid.NewString(),
		OwnerID:      suite.ownerID,
		Title:        domain.DefaultBlockTitle(domain.BlockWeekly, start),
		Kind:         domain.BlockWeekly,
		StartDay:     domain.DayTagFor(start),
		StartDate:    domain.DateOnly(start),
		EndDate:      domain.DateOnly(endDate),
		Status:       domain.BlockActive,
		TotalExpense: decimal.Zero,
	}
}

func (suite *PeriodServiceTestSuite) TestCreateBlock_Weekly() {
	ctx := context.Background()
	today := domain.DateOnly(time.Now().UTC())

	suite.mockPeriodRepo.On("FindActiveBlockContaining", ctx, suite.ownerID, today).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockPeriodRepo.On("SaveBlock", ctx, mock.AnythingOfType("domain.PeriodBlock")).Return(nil).Once()

	block, err := suite.service.CreateBlock(ctx, suite.ownerID, dto.CreateBlockRequest{Kind: domain.BlockWeekly})

	suite.Require().NoError(err)
	suite.Require().NotNil(block)
	suite.Equal(domain.BlockActive, block.Status)
	suite.True(block.StartDate.Equal(today))
	suite.True(block.EndDate.Equal(domain.ComputeEndDate(domain.BlockWeekly, today)))
	suite.Equal(domain.DayTagFor(today), block.StartDay)
	suite.Equal(domain.DefaultBlockTitle(domain.BlockWeekly, today), block.Title)
	suite.True(block.TotalExpense.IsZero())
	suite.mockPeriodRepo.AssertExpectations(suite.T())
}

func (suite *PeriodServiceTestSuite) TestCreateBlock_ConflictWhenActiveCoversToday() {
	ctx := context.Background()
	today := domain.DateOnly(time.Now().UTC())
	existing := suite.activeBlockEndingOn(today.AddDate(0, 0, 3))

	suite.mockPeriodRepo.On("FindActiveBlockContaining", ctx, suite.ownerID, today).
		Return(existing, nil).Once()

	block, err := suite.service.CreateBlock(ctx, suite.ownerID, dto.CreateBlockRequest{Kind: domain.BlockMonthly})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrStateConflict)
	suite.Nil(block)
	suite.mockPeriodRepo.AssertNotCalled(suite.T(), "SaveBlock", mock.Anything, mock.Anything)
}

func (suite *PeriodServiceTestSuite) TestCloseIfExpired_ExpiredBlockIsClosed() {
	ctx := context.Background()
	// Window ended yesterday
	expired := suite.activeBlockEndingOn(domain.DateOnly(time.Now().UTC()).AddDate(0, 0, -1))

	suite.mockPeriodRepo.On("FindBlockByID", ctx, expired.BlockID).Return(expired, nil).Once()
	suite.mockPeriodRepo.On("CloseBlock", ctx, expired.BlockID, suite.ownerID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	block, err := suite.service.CloseIfExpired(ctx, suite.ownerID, expired.BlockID)

	suite.Require().NoError(err)
	suite.Equal(domain.BlockClosed, block.Status)
	suite.mockPeriodRepo.AssertExpectations(suite.T())
}

func (suite *PeriodServiceTestSuite) TestCloseIfExpired_EndDateStillActive() {
	ctx := context.Background()
	// Window ends today: the end date itself still belongs to the block
	running := suite.activeBlockEndingOn(domain.DateOnly(time.Now().UTC()))

	suite.mockPeriodRepo.On("FindBlockByID", ctx, running.BlockID).Return(running, nil).Once()

	block, err := suite.service.CloseIfExpired(ctx, suite.ownerID, running.BlockID)

	suite.Require().NoError(err)
	suite.Equal(domain.BlockActive, block.Status)
	suite.mockPeriodRepo.AssertNotCalled(suite.T(), "CloseBlock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PeriodServiceTestSuite) TestCloseIfExpired_ClosedBlockPassesThrough() {
	ctx := context.Background()
	closed := suite.activeBlockEndingOn(domain.DateOnly(time.Now().UTC()).AddDate(0, 0, -10))
	closed.Status = domain.BlockClosed

	suite.mockPeriodRepo.On("FindBlockByID", ctx, closed.BlockID).Return(closed, nil).Once()

	block, err := suite.service.CloseIfExpired(ctx, suite.ownerID, closed.BlockID)

	suite.Require().NoError(err)
	suite.Equal(domain.BlockClosed, block.Status)
	suite.mockPeriodRepo.AssertNotCalled(suite.T(), "CloseBlock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PeriodServiceTestSuite) TestGetBlockDetail_OtherOwnerHidden() {
	ctx := context.Background()
	foreign := suite.activeBlockEndingOn(domain.DateOnly(time.Now().UTC()))
	foreign.OwnerID = uuid.NewString()

	suite.mockPeriodRepo.On("FindBlockByID", ctx, foreign.BlockID).Return(foreign, nil).Once()

	block, items, err := suite.service.GetBlockDetail(ctx, suite.ownerID, foreign.BlockID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(block)
	suite.Nil(items)
}

func (suite *PeriodServiceTestSuite) TestListBlocks_SettlesExpiredActives() {
	ctx := context.Background()
	today := domain.DateOnly(time.Now().UTC())
	expired := suite.activeBlockEndingOn(today.AddDate(0, 0, -2))
	running := suite.activeBlockEndingOn(today.AddDate(0, 0, 4))

	suite.mockPeriodRepo.On("ListBlocks", ctx, suite.ownerID, 20, (*string)(nil)).
		Return([]domain.PeriodBlock{*running, *expired}, nil, nil).Once()
	suite.mockPeriodRepo.On("CloseBlock", ctx, expired.BlockID, suite.ownerID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()
	suite.mockPeriodRepo.On("CountBlocksByStatus", ctx, suite.ownerID).Return(1, 5, nil).Once()

	blocks, token, counts, err := suite.service.ListBlocks(ctx, suite.ownerID, 20, nil)

	suite.Require().NoError(err)
	suite.Nil(token)
	suite.Len(blocks, 2)
	suite.Equal(domain.BlockActive, blocks[0].Status)
	suite.Equal(domain.BlockClosed, blocks[1].Status)
	suite.Equal(domain.BlockStatusCounts{Active: 1, Closed: 5}, counts)
	suite.mockPeriodRepo.AssertExpectations(suite.T())
}

func TestPeriodServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PeriodServiceTestSuite))
}
