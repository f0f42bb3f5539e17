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

// goalService implements the GoalSvcFacade interface
type goalService struct {
	BaseService
	goalRepo    portsrepo.GoalRepositoryFacade
	accountRepo portsrepo.AccountReader
}

// NewGoalService creates a new goal service
func NewGoalService(goalRepo portsrepo.GoalRepositoryFacade, accountRepo portsrepo.AccountReader) portssvc.GoalSvcFacade {
	return &goalService{goalRepo: goalRepo, accountRepo: accountRepo}
}

var _ portssvc.GoalSvcFacade = (*goalService)(nil)

// findOwnedGoal fetches a goal and hides goals of other owners behind
// NotFound.
func (s *goalService) findOwnedGoal(ctx context.Context, ownerID, goalID string) (*domain.Goal, error) {
	goal, err := s.goalRepo.FindGoalByID(ctx, goalID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find goal by ID",
				slog.String("goal_id", goalID))
		}
		return nil, err
	}
	if goal.OwnerID != ownerID {
		s.LogDebug(ctx, "Goal found but belongs to a different owner",
			slog.String("goal_id", goalID),
			slog.String("requested_by", ownerID))
		return nil, apperrors.ErrNotFound
	}
	return goal, nil
}

// checkAccountOwnership verifies every linked account exists and belongs
// to the owner.
func (s *goalService) checkAccountOwnership(ctx context.Context, ownerID string, accountIDs []string) error {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to load goal accounts",
			slog.String("owner_id", ownerID))
		return err
	}
	for _, id := range accountIDs {
		account, ok := accounts[id]
		if !ok || account.OwnerID != ownerID {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
	}
	return nil
}

// settle applies the lazy lifecycle transition in place: once the deadline
// has passed, the goal is completed or failed depending on the savings its
// accounts accumulated inside the window. Terminal goals pass through.
func (s *goalService) settle(ctx context.Context, goal *domain.Goal, now time.Time) error {
	if goal.Status.IsTerminal() || !domain.DateOnly(now).After(domain.DateOnly(goal.Deadline)) {
		return nil
	}

	income, expense, err := s.goalRepo.SumFlows(ctx, goal.AccountIDs, goal.StartDate, goal.Deadline)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum flows for goal settlement",
			slog.String("goal_id", goal.GoalID))
		return err
	}

	resolved := domain.ResolveStatus(*goal, income.Sub(expense), now)
	if resolved == goal.Status {
		return nil
	}

	if err := s.goalRepo.UpdateGoalStatus(ctx, goal.GoalID, resolved, goal.OwnerID, now); err != nil {
		s.LogError(ctx, err, "Failed to settle goal status",
			slog.String("goal_id", goal.GoalID))
		return err
	}
	goal.Status = resolved
	goal.LastUpdatedAt = now
	goal.LastUpdatedBy = goal.OwnerID
	s.LogInfo(ctx, "Goal settled",
		slog.String("goal_id", goal.GoalID),
		slog.String("status", string(resolved)))
	return nil
}

func (s *goalService) CreateGoal(ctx context.Context, ownerID string, req dto.CreateGoalRequest) (*domain.Goal, error) {
	now := time.Now().UTC()
	today := domain.DateOnly(now)

	start := today
	if req.StartDate != nil {
		parsed, err := time.Parse(time.DateOnly, *req.StartDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid start date: %s", apperrors.ErrValidation, err.Error())
		}
		start = domain.DateOnly(parsed)
	}
	deadline, err := time.Parse(time.DateOnly, req.Deadline)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid deadline: %s", apperrors.ErrValidation, err.Error())
	}
	deadline = domain.DateOnly(deadline)
	if !deadline.After(today) {
		return nil, fmt.Errorf("%w: deadline must lie in the future", apperrors.ErrValidation)
	}

	if err := s.checkAccountOwnership(ctx, ownerID, req.AccountIDs); err != nil {
		return nil, err
	}

	goal := domain.Goal{
		GoalID:       uuid.NewString(),
		OwnerID:      ownerID,
		Title:        req.Title,
		TargetAmount: req.TargetAmount,
		StartDate:    start,
		Deadline:     deadline,
		Status:       domain.GoalNew,
		AccountIDs:   req.AccountIDs,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     ownerID,
			LastUpdatedAt: now,
			LastUpdatedBy: ownerID,
		},
	}
	if err := goal.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	if err := s.goalRepo.SaveGoal(ctx, goal); err != nil {
		s.LogError(ctx, err, "Failed to save goal",
			slog.String("goal_id", goal.GoalID),
			slog.String("owner_id", ownerID))
		return nil, err
	}

	s.LogInfo(ctx, "Goal created successfully",
		slog.String("goal_id", goal.GoalID),
		slog.String("deadline", deadline.Format(time.DateOnly)))
	return &goal, nil
}

func (s *goalService) GetGoal(ctx context.Context, ownerID string, goalID string) (*domain.Goal, error) {
	goal, err := s.findOwnedGoal(ctx, ownerID, goalID)
	if err != nil {
		return nil, err
	}
	if err := s.settle(ctx, goal, time.Now().UTC()); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *goalService) GetGoalDetail(ctx context.Context, ownerID string, goalID string) (*domain.GoalDetail, error) {
	goal, err := s.GetGoal(ctx, ownerID, goalID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	today := domain.DateOnly(now)

	// Flows past the deadline never count towards the goal.
	windowEnd := today
	if windowEnd.After(domain.DateOnly(goal.Deadline)) {
		windowEnd = domain.DateOnly(goal.Deadline)
	}

	income, expense, err := s.goalRepo.SumFlows(ctx, goal.AccountIDs, goal.StartDate, windowEnd)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum flows for goal detail",
			slog.String("goal_id", goalID))
		return nil, err
	}

	flows, err := s.goalRepo.ListDailyFlows(ctx, goal.AccountIDs, goal.StartDate, windowEnd)
	if err != nil {
		s.LogError(ctx, err, "Failed to load daily flows for goal detail",
			slog.String("goal_id", goalID))
		return nil, err
	}

	return &domain.GoalDetail{
		Goal:     *goal,
		Progress: domain.ComputeProgress(*goal, income, expense, now),
		Flows:    flows,
	}, nil
}

func (s *goalService) ListGoals(ctx context.Context, ownerID string) ([]domain.Goal, domain.GoalStatusCounts, error) {
	goals, err := s.goalRepo.ListGoals(ctx, ownerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list goals",
			slog.String("owner_id", ownerID))
		return nil, domain.GoalStatusCounts{}, err
	}

	now := time.Now().UTC()
	counts := domain.GoalStatusCounts{Total: len(goals)}
	for i := range goals {
		if err := s.settle(ctx, &goals[i], now); err != nil {
			return nil, domain.GoalStatusCounts{}, err
		}
		switch goals[i].Status {
		case domain.GoalNew:
			counts.New++
		case domain.GoalRunning:
			counts.Running++
		case domain.GoalCompleted:
			counts.Completed++
		case domain.GoalFailed:
			counts.Failed++
		}
	}

	return goals, counts, nil
}

func (s *goalService) UpdateGoal(ctx context.Context, ownerID string, goalID string, req dto.UpdateGoalRequest) (*domain.Goal, error) {
	goal, err := s.GetGoal(ctx, ownerID, goalID)
	if err != nil {
		return nil, err
	}

	if req.Status != nil && *req.Status != goal.Status && goal.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: goal %s is already %s", apperrors.ErrStateConflict, goalID, goal.Status)
	}

	if req.Title != nil {
		goal.Title = *req.Title
	}
	if req.TargetAmount != nil {
		goal.TargetAmount = *req.TargetAmount
	}
	if req.Deadline != nil {
		deadline, err := time.Parse(time.DateOnly, *req.Deadline)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid deadline: %s", apperrors.ErrValidation, err.Error())
		}
		goal.Deadline = domain.DateOnly(deadline)
	}
	if req.Status != nil {
		goal.Status = *req.Status
	}
	if req.AccountIDs != nil {
		if err := s.checkAccountOwnership(ctx, ownerID, req.AccountIDs); err != nil {
			return nil, err
		}
		goal.AccountIDs = req.AccountIDs
	}
	if err := goal.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	now := time.Now().UTC()
	goal.LastUpdatedAt = now
	goal.LastUpdatedBy = ownerID

	if err := s.goalRepo.UpdateGoal(ctx, *goal); err != nil {
		s.LogError(ctx, err, "Failed to update goal",
			slog.String("goal_id", goalID))
		return nil, err
	}

	s.LogInfo(ctx, "Goal updated successfully",
		slog.String("goal_id", goalID))
	return goal, nil
}

func (s *goalService) DeleteGoal(ctx context.Context, ownerID string, goalID string) error {
	_, err := s.findOwnedGoal(ctx, ownerID, goalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Deleting an already-deleted goal is a no-op
			return nil
		}
		return err
	}

	if err := s.goalRepo.DeleteGoal(ctx, goalID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		s.LogError(ctx, err, "Failed to delete goal",
			slog.String("goal_id", goalID))
		return err
	}

	s.LogInfo(ctx, "Goal deleted successfully",
		slog.String("goal_id", goalID))
	return nil
}
