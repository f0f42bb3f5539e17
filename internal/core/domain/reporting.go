package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DaySpend is one day of a block's spending, used by the dashboard and
// block report charts.
type DaySpend struct {
	Day     DayTag          `json:"day"`
	Date    time.Time       `json:"date"`
	Total   decimal.Decimal `json:"total"`
	IsToday bool            `json:"isToday"`
}

// SourceTotal aggregates income by source.
type SourceTotal struct {
	Source IncomeSource    `json:"source"`
	Total  decimal.Decimal `json:"total"`
}

// MethodBalance aggregates active-account balances by payment method.
type MethodBalance struct {
	Method PaymentMethod   `json:"method"`
	Total  decimal.Decimal `json:"total"`
}

// DailyFlow is one day of income/expense flow inside a goal window, with
// the running savings total up to and including that day.
type DailyFlow struct {
	Date              time.Time       `json:"date"`
	Income            decimal.Decimal `json:"income"`
	Expense           decimal.Decimal `json:"expense"`
	CumulativeSavings decimal.Decimal `json:"cumulativeSavings"`
}

// GoalStatusCounts tallies a user's goals by lifecycle state.
type GoalStatusCounts struct {
	Total     int `json:"total"`
	New       int `json:"new"`
	Running   int `json:"running"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

// PredictionCounts tallies in-flight goals by projected outcome.
type PredictionCounts struct {
	New     int `json:"new"`
	OnTrack int `json:"onTrack"`
	AtRisk  int `json:"atRisk"`
	Behind  int `json:"behind"`
}

// DashboardSummary is the aggregate view backing the user's landing page.
type DashboardSummary struct {
	TotalBalance     decimal.Decimal  `json:"totalBalance"` // Sum over active accounts
	BalancesByMethod []MethodBalance  `json:"balancesByMethod"`
	TotalIncome      decimal.Decimal  `json:"totalIncome"`
	MonthlyIncome    decimal.Decimal  `json:"monthlyIncome"`
	IncomeBySource   []SourceTotal    `json:"incomeBySource"`
	TodayExpense     decimal.Decimal  `json:"todayExpense"`
	ActiveBlock      *PeriodBlock     `json:"activeBlock,omitempty"`
	ActiveBlockDays  []DaySpend       `json:"activeBlockDays,omitempty"`
	GoalCounts       GoalStatusCounts `json:"goalCounts"`
	GoalPredictions  PredictionCounts `json:"goalPredictions"`
}

// BlockReport is one block with its per-day spending breakdown.
type BlockReport struct {
	Block PeriodBlock `json:"block"`
	Days  []DaySpend  `json:"days"`
}
