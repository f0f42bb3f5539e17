package services

import (
	"context"

	"github.com/exptrac/exptrac_backend/internal/core/domain"
	"github.com/exptrac/exptrac_backend/internal/dto"
)

// GoalReaderSvc defines read operations for savings goals. Reads apply the
// lazy lifecycle transition: a goal whose deadline has passed is settled to
// completed or failed before being returned.
type GoalReaderSvc interface {
	// GetGoal retrieves a goal owned by ownerID.
	GetGoal(ctx context.Context, ownerID string, goalID string) (*domain.Goal, error)

	// GetGoalDetail retrieves a goal with its projection metrics and daily
	// flow series.
	GetGoalDetail(ctx context.Context, ownerID string, goalID string) (*domain.GoalDetail, error)

	// ListGoals retrieves the owner's goals with status statistics.
	ListGoals(ctx context.Context, ownerID string) ([]domain.Goal, domain.GoalStatusCounts, error)
}

// GoalWriterSvc defines write operations for savings goals
type GoalWriterSvc interface {
	// CreateGoal validates and persists a new goal with its account links.
	CreateGoal(ctx context.Context, ownerID string, req dto.CreateGoalRequest) (*domain.Goal, error)

	// UpdateGoal updates a goal's title, target, deadline, status or
	// account links.
	UpdateGoal(ctx context.Context, ownerID string, goalID string, req dto.UpdateGoalRequest) (*domain.Goal, error)

	// DeleteGoal removes a goal. Deleting an already-deleted goal is a no-op.
	DeleteGoal(ctx context.Context, ownerID string, goalID string) error
}

// GoalSvcFacade combines all goal service interfaces
type GoalSvcFacade interface {
	GoalReaderSvc
	GoalWriterSvc
}
