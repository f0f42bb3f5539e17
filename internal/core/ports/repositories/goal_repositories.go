package repositories

import (
	"context"
	"time"

	"github.com/exptrac/exptrac_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// GoalReader defines read operations for savings goals
type GoalReader interface {
	// FindGoalByID retrieves a goal and its linked account IDs.
	FindGoalByID(ctx context.Context, goalID string) (*domain.Goal, error)

	// ListGoals retrieves every goal of the owner, newest first.
	ListGoals(ctx context.Context, ownerID string) ([]domain.Goal, error)

	// SumFlows totals the income credited to and expenses debited from the
	// given accounts inside [from, to], both inclusive.
	SumFlows(ctx context.Context, accountIDs []string, from, to time.Time) (income decimal.Decimal, expense decimal.Decimal, err error)

	// ListDailyFlows returns the per-day income/expense series for the
	// given accounts inside [from, to], with running savings totals.
	ListDailyFlows(ctx context.Context, accountIDs []string, from, to time.Time) ([]domain.DailyFlow, error)
}

// GoalWriter defines write operations for savings goals
type GoalWriter interface {
	// SaveGoal persists a goal and its account links in one transaction.
	SaveGoal(ctx context.Context, goal domain.Goal) error

	// UpdateGoal updates a goal's mutable fields and replaces its account links.
	UpdateGoal(ctx context.Context, goal domain.Goal) error

	// UpdateGoalStatus records a lifecycle transition.
	UpdateGoalStatus(ctx context.Context, goalID string, status domain.GoalStatus, userID string, now time.Time) error

	// DeleteGoal removes the goal and its account links.
	DeleteGoal(ctx context.Context, goalID string) error
}

// GoalRepositoryFacade combines all goal repository interfaces
type GoalRepositoryFacade interface {
	GoalReader
	GoalWriter
}
