package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/exptrac/exptrac_backend/internal/apperrors"
	"github.com/exptrac/exptrac_backend/internal/core/domain"
	portsrepo "github.com/exptrac/exptrac_backend/internal/core/ports/repositories"
	portssvc "github.com/exptrac/exptrac_backend/internal/core/ports/services"
)

// topIncomeSources is how many income sources the dashboard breaks out.
const topIncomeSources = 5

// blockReportPageSize is the page size used when walking every block of an
// owner for the block report.
const blockReportPageSize = 50

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	periodRepo    portsrepo.PeriodRepositoryFacade
	goalRepo      portsrepo.GoalRepositoryFacade
	goalSvc       portssvc.GoalReaderSvc
}

// NewReportingService creates a new reporting service
func NewReportingService(reportingRepo portsrepo.ReportingRepository, periodRepo portsrepo.PeriodRepositoryFacade, goalRepo portsrepo.GoalRepositoryFacade, goalSvc portssvc.GoalReaderSvc) portssvc.ReportingService {
	return &reportingService{
		reportingRepo: reportingRepo,
		periodRepo:    periodRepo,
		goalRepo:      goalRepo,
		goalSvc:       goalSvc,
	}
}

var _ portssvc.ReportingService = (*reportingService)(nil)

// markToday flags the spend entry matching today, if any.
func markToday(spends []domain.DaySpend, today time.Time) {
	for i := range spends {
		spends[i].IsToday = spends[i].Date.Equal(today)
	}
}

func (s *reportingService) GetDashboardSummary(ctx context.Context, ownerID string) (*domain.DashboardSummary, error) {
	now := time.Now().UTC()
	today := domain.DateOnly(now)

	totalBalance, byMethod, err := s.reportingRepo.GetBalanceTotals(ctx, ownerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load balance totals",
			slog.String("owner_id", ownerID))
		return nil, err
	}

	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	totalIncome, monthlyIncome, err := s.reportingRepo.GetIncomeTotals(ctx, ownerID, monthStart)
	if err != nil {
		s.LogError(ctx, err, "Failed to load income totals",
			slog.String("owner_id", ownerID))
		return nil, err
	}

	incomeBySource, err := s.reportingRepo.GetIncomeBySource(ctx, ownerID, topIncomeSources)
	if err != nil {
		s.LogError(ctx, err, "Failed to load income by source",
			slog.String("owner_id", ownerID))
		return nil, err
	}

	todayExpense, err := s.reportingRepo.GetExpenseTotalForDay(ctx, ownerID, today)
	if err != nil {
		s.LogError(ctx, err, "Failed to load today's expense total",
			slog.String("owner_id", ownerID))
		return nil, err
	}

	summary := &domain.DashboardSummary{
		TotalBalance:     totalBalance,
		BalancesByMethod: byMethod,
		TotalIncome:      totalIncome,
		MonthlyIncome:    monthlyIncome,
		IncomeBySource:   incomeBySource,
		TodayExpense:     todayExpense,
	}

	// An expired block never contains today, so the block surfaced here
	// is always genuinely active.
	activeBlock, err := s.periodRepo.FindActiveBlockContaining(ctx, ownerID, today)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to find active block for dashboard",
			slog.String("owner_id", ownerID))
		return nil, err
	}
	if activeBlock != nil {
		spends, err := s.reportingRepo.GetDaySpends(ctx, activeBlock.BlockID)
		if err != nil {
			s.LogError(ctx, err, "Failed to load day spends for active block",
				slog.String("block_id", activeBlock.BlockID))
			return nil, err
		}
		markToday(spends, today)
		summary.ActiveBlock = activeBlock
		summary.ActiveBlockDays = spends
	}

	// ListGoals settles past-deadline goals before counting.
	goals, counts, err := s.goalSvc.ListGoals(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	summary.GoalCounts = counts

	var predictions domain.PredictionCounts
	for i := range goals {
		goal := goals[i]
		if goal.Status.IsTerminal() {
			continue
		}
		windowEnd := today
		if windowEnd.After(domain.DateOnly(goal.Deadline)) {
			windowEnd = domain.DateOnly(goal.Deadline)
		}
		income, expense, err := s.goalRepo.SumFlows(ctx, goal.AccountIDs, goal.StartDate, windowEnd)
		if err != nil {
			s.LogError(ctx, err, "Failed to sum flows for goal prediction",
				slog.String("goal_id", goal.GoalID))
			return nil, err
		}
		progress := domain.ComputeProgress(goal, income, expense, now)
		switch progress.Prediction {
		case domain.PredictionNew:
			predictions.New++
		case domain.PredictionOnTrack:
			predictions.OnTrack++
		case domain.PredictionAtRisk:
			predictions.AtRisk++
		case domain.PredictionBehind:
			predictions.Behind++
		}
	}
	summary.GoalPredictions = predictions

	return summary, nil
}

func (s *reportingService) GetBlockReport(ctx context.Context, ownerID string) ([]domain.BlockReport, error) {
	now := time.Now().UTC()
	today := domain.DateOnly(now)

	reports := []domain.BlockReport{}
	var nextToken *string
	for {
		blocks, token, err := s.periodRepo.ListBlocks(ctx, ownerID, blockReportPageSize, nextToken)
		if err != nil {
			s.LogError(ctx, err, "Failed to list blocks for report",
				slog.String("owner_id", ownerID))
			return nil, err
		}

		for i := range blocks {
			block := blocks[i]
			if !block.IsClosed() && block.IsExpired(now) {
				if err := s.periodRepo.CloseBlock(ctx, block.BlockID, ownerID, now); err != nil {
					s.LogError(ctx, err, "Failed to close expired block for report",
						slog.String("block_id", block.BlockID))
					return nil, err
				}
				block.Status = domain.BlockClosed
			}

			spends, err := s.reportingRepo.GetDaySpends(ctx, block.BlockID)
			if err != nil {
				s.LogError(ctx, err, "Failed to load day spends for report",
					slog.String("block_id", block.BlockID))
				return nil, err
			}
			markToday(spends, today)
			reports = append(reports, domain.BlockReport{Block: block, Days: spends})
		}

		if token == nil {
			break
		}
		nextToken = token
	}

	return reports, nil
}
