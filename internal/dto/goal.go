package dto

import (
	"time"

	"github.com/exptrac/exptrac_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateGoalRequest defines the data needed to create a savings goal.
// StartDate defaults to today when omitted. Deadline must lie in the future.
type CreateGoalRequest struct {
	Title        string          `json:"title" binding:"required,min=3,max=200"`
	TargetAmount decimal.Decimal `json:"targetAmount" binding:"required,gt=0"`
	StartDate    *string         `json:"startDate" binding:"omitempty,datetime=2006-01-02"`
	Deadline     string          `json:"deadline" binding:"required,datetime=2006-01-02"`
	AccountIDs   []string        `json:"accountIDs" binding:"required,min=1,dive,uuid"`
}

// UpdateGoalRequest defines the data allowed when editing a goal.
// Pointers distinguish omitted fields from zero values.
type UpdateGoalRequest struct {
	Title        *string            `json:"title" binding:"omitempty,min=3,max=200"`
	TargetAmount *decimal.Decimal   `json:"targetAmount" binding:"omitempty,gt=0"`
	Deadline     *string            `json:"deadline" binding:"omitempty,datetime=2006-01-02"`
	Status       *domain.GoalStatus `json:"status" binding:"omitempty,oneof=new running completed failed"`
	AccountIDs   []string           `json:"accountIDs" binding:"omitempty,min=1,dive,uuid"`
}

// GoalResponse defines the data returned for a goal.
type GoalResponse struct {
	GoalID       string            `json:"goalID"`
	Title        string            `json:"title"`
	TargetAmount decimal.Decimal   `json:"targetAmount"`
	StartDate    string            `json:"startDate"` // YYYY-MM-DD
	Deadline     string            `json:"deadline"`
	Status       domain.GoalStatus `json:"status"`
	AccountIDs   []string          `json:"accountIDs"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// ToGoalResponse converts a domain.Goal to GoalResponse DTO
func ToGoalResponse(g *domain.Goal) GoalResponse {
	return GoalResponse{
		GoalID:       g.GoalID,
		Title:        g.Title,
		TargetAmount: g.TargetAmount,
		StartDate:    g.StartDate.Format(time.DateOnly),
		Deadline:     g.Deadline.Format(time.DateOnly),
		Status:       g.Status,
		AccountIDs:   g.AccountIDs,
		CreatedAt:    g.CreatedAt,
	}
}

// ListGoalsResponse wraps the goal list with status statistics.
type ListGoalsResponse struct {
	Goals  []GoalResponse          `json:"goals"`
	Counts domain.GoalStatusCounts `json:"counts"`
}

// ToListGoalsResponse converts goals plus counts to the list DTO
func ToListGoalsResponse(goals []domain.Goal, counts domain.GoalStatusCounts) ListGoalsResponse {
	res := make([]GoalResponse, len(goals))
	for i := range goals {
		res[i] = ToGoalResponse(&goals[i])
	}
	return ListGoalsResponse{Goals: res, Counts: counts}
}

// DailyFlowResponse is one day of a goal's chart series.
type DailyFlowResponse struct {
	Date              string          `json:"date"` // YYYY-MM-DD
	Income            decimal.Decimal `json:"income"`
	Expense           decimal.Decimal `json:"expense"`
	CumulativeSavings decimal.Decimal `json:"cumulativeSavings"`
}

// GoalDetailResponse is a goal with its projection metrics and chart series.
type GoalDetailResponse struct {
	Goal     GoalResponse        `json:"goal"`
	Progress domain.GoalProgress `json:"progress"`
	Flows    []DailyFlowResponse `json:"flows"`
}

// ToGoalDetailResponse converts a domain.GoalDetail to the response DTO
func ToGoalDetailResponse(d *domain.GoalDetail) GoalDetailResponse {
	flows := make([]DailyFlowResponse, len(d.Flows))
	for i, f := range d.Flows {
		flows[i] = DailyFlowResponse{
			Date:              f.Date.Format(time.DateOnly),
			Income:            f.Income,
			Expense:           f.Expense,
			CumulativeSavings: f.CumulativeSavings,
		}
	}
	return GoalDetailResponse{
		Goal:     ToGoalResponse(&d.Goal),
		Progress: d.Progress,
		Flows:    flows,
	}
}
