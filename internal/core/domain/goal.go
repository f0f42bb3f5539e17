package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// GoalStatus is the lifecycle state of a savings goal.
type GoalStatus string

const (
	GoalNew       GoalStatus = "new"
	GoalRunning   GoalStatus = "running"
	GoalCompleted GoalStatus = "completed"
	GoalFailed    GoalStatus = "failed"
)

// IsValid reports whether the value is a known goal status.
func (s GoalStatus) IsValid() bool {
	switch s {
	case GoalNew, GoalRunning, GoalCompleted, GoalFailed:
		return true
	}
	return false
}

// IsTerminal reports whether the status never changes again.
func (s GoalStatus) IsTerminal() bool {
	return s == GoalCompleted || s == GoalFailed
}

// Prediction is the projected outcome of an in-flight goal.
type Prediction string

const (
	PredictionNew     Prediction = "new"      // No elapsed days to project from
	PredictionOnTrack Prediction = "on_track" // Projection reaches the target
	PredictionAtRisk  Prediction = "at_risk"  // Projection reaches at least 70% of the target
	PredictionBehind  Prediction = "behind"
)

// atRiskThreshold is the fraction of the target a projection must reach to
// be rated at_risk rather than behind.
var atRiskThreshold = decimal.NewFromFloat(0.7)

// Goal is a savings target over a date window, measured against the income
// and expense flow of a linked set of accounts. Deleting a linked account
// severs the link; the goal itself survives.
type Goal struct {
	GoalID       string          `json:"goalID"` // Primary Key (UUID)
	OwnerID      string          `json:"ownerID"`
	Title        string          `json:"title"`
	TargetAmount decimal.Decimal `json:"targetAmount"` // Always positive
	StartDate    time.Time       `json:"startDate"`
	Deadline     time.Time       `json:"deadline"`
	Status       GoalStatus      `json:"status"`
	AccountIDs   []string        `json:"accountIDs"`
	AuditFields
}

// Validate checks the structural invariants of a goal.
func (g Goal) Validate() error {
	if l := len(g.Title); l < 3 || l > 200 {
		return fmt.Errorf("goal title must be between 3 and 200 characters, got %d", l)
	}
	if !g.TargetAmount.IsPositive() {
		return fmt.Errorf("goal target amount must be positive, got %s", g.TargetAmount)
	}
	if !DateOnly(g.Deadline).After(DateOnly(g.StartDate)) {
		return fmt.Errorf("goal deadline must be after its start date")
	}
	if !g.Status.IsValid() {
		return fmt.Errorf("invalid goal status %q", g.Status)
	}
	return nil
}

// GoalDetail bundles a goal with its projection metrics and the per-day
// flow series its charts are drawn from.
type GoalDetail struct {
	Goal     Goal         `json:"goal"`
	Progress GoalProgress `json:"progress"`
	Flows    []DailyFlow  `json:"flows"`
}

// GoalProgress is the full projection metric set for a goal at a point in
// time. Monetary figures are decimals; rates are percentages rounded to
// two places.
type GoalProgress struct {
	TotalIncome     decimal.Decimal `json:"totalIncome"`
	TotalExpense    decimal.Decimal `json:"totalExpense"`
	CurrentSavings  decimal.Decimal `json:"currentSavings"`
	AchievementRate decimal.Decimal `json:"achievementRate"` // 0..100
	DaysTotal       int             `json:"daysTotal"`
	DaysElapsed     int             `json:"daysElapsed"`
	DaysRemaining   int             `json:"daysRemaining"`
	ProgressPct     decimal.Decimal `json:"progressPct"` // Time elapsed, 0..100
	DailyRequired   decimal.Decimal `json:"dailyRequired"`
	Prediction      Prediction      `json:"statusPrediction"`
}

var hundred = decimal.NewFromInt(100)

// ComputeProgress derives every projection metric from the windowed income
// and expense sums of the goal's linked accounts. Pure: callers supply the
// sums and the current day.
func ComputeProgress(g Goal, totalIncome, totalExpense decimal.Decimal, today time.Time) GoalProgress {
	today = DateOnly(today)
	start := DateOnly(g.StartDate)
	deadline := DateOnly(g.Deadline)

	savings := totalIncome.Sub(totalExpense)

	achievement := savings.Div(g.TargetAmount).Mul(hundred)
	achievement = clampPct(achievement)

	daysTotal := daysBetween(start, deadline)
	daysElapsed := daysBetween(start, today)
	if daysElapsed < 0 {
		daysElapsed = 0
	}
	if daysElapsed > daysTotal {
		daysElapsed = daysTotal
	}
	daysRemaining := daysBetween(today, deadline)
	if daysRemaining < 0 {
		daysRemaining = 0
	}

	progress := hundred
	if daysTotal > 0 {
		progress = decimal.NewFromInt(int64(daysElapsed)).
			Div(decimal.NewFromInt(int64(daysTotal))).Mul(hundred)
		progress = clampPct(progress)
	}

	shortfall := g.TargetAmount.Sub(savings)
	if shortfall.IsNegative() {
		shortfall = decimal.Zero
	}
	dailyRequired := decimal.Zero
	if daysRemaining > 0 {
		dailyRequired = shortfall.Div(decimal.NewFromInt(int64(daysRemaining)))
	}

	return GoalProgress{
		TotalIncome:     totalIncome,
		TotalExpense:    totalExpense,
		CurrentSavings:  savings,
		AchievementRate: achievement.Round(2),
		DaysTotal:       daysTotal,
		DaysElapsed:     daysElapsed,
		DaysRemaining:   daysRemaining,
		ProgressPct:     progress.Round(2),
		DailyRequired:   dailyRequired.Round(2),
		Prediction:      predict(g.TargetAmount, savings, daysElapsed, daysTotal),
	}
}

// predict extrapolates the savings pace over the full window and bands the
// projection against the target. A goal whose savings already cover the
// target is on track even before any days have elapsed.
func predict(target, savings decimal.Decimal, daysElapsed, daysTotal int) Prediction {
	if savings.GreaterThanOrEqual(target) {
		return PredictionOnTrack
	}
	if daysElapsed == 0 {
		return PredictionNew
	}
	projected := savings.
		Div(decimal.NewFromInt(int64(daysElapsed))).
		Mul(decimal.NewFromInt(int64(daysTotal)))
	switch {
	case projected.GreaterThanOrEqual(target):
		return PredictionOnTrack
	case projected.GreaterThanOrEqual(target.Mul(atRiskThreshold)):
		return PredictionAtRisk
	default:
		return PredictionBehind
	}
}

// ResolveStatus applies the lazy lifecycle transition: once the deadline
// has passed, a non-terminal goal becomes completed or failed depending on
// whether savings reached the target. Terminal statuses never change.
func ResolveStatus(g Goal, savings decimal.Decimal, today time.Time) GoalStatus {
	if g.Status.IsTerminal() {
		return g.Status
	}
	if DateOnly(today).After(DateOnly(g.Deadline)) {
		if savings.GreaterThanOrEqual(g.TargetAmount) {
			return GoalCompleted
		}
		return GoalFailed
	}
	return g.Status
}

func clampPct(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	if d.GreaterThan(hundred) {
		return hundred
	}
	return d
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
