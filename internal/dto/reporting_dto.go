package dto

import (
	"time"

	"github.com/exptrac/exptrac_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DaySpendResponse is one day of a block's spending chart.
type DaySpendResponse struct {
	Day     domain.DayTag   `json:"day"`
	Date    string          `json:"date"` // YYYY-MM-DD
	Total   decimal.Decimal `json:"total"`
	IsToday bool            `json:"isToday"`
}

func toDaySpendResponses(days []domain.DaySpend) []DaySpendResponse {
	res := make([]DaySpendResponse, len(days))
	for i, d := range days {
		res[i] = DaySpendResponse{
			Day:     d.Day,
			Date:    d.Date.Format(time.DateOnly),
			Total:   d.Total,
			IsToday: d.IsToday,
		}
	}
	return res
}

// DashboardSummaryResponse is the landing-page aggregate.
type DashboardSummaryResponse struct {
	TotalBalance     decimal.Decimal         `json:"totalBalance"`
	BalancesByMethod []domain.MethodBalance  `json:"balancesByMethod"`
	TotalIncome      decimal.Decimal         `json:"totalIncome"`
	MonthlyIncome    decimal.Decimal         `json:"monthlyIncome"`
	IncomeBySource   []domain.SourceTotal    `json:"incomeBySource"`
	TodayExpense     decimal.Decimal         `json:"todayExpense"`
	ActiveBlock      *BlockResponse          `json:"activeBlock,omitempty"`
	ActiveBlockDays  []DaySpendResponse      `json:"activeBlockDays,omitempty"`
	GoalCounts       domain.GoalStatusCounts `json:"goalCounts"`
	GoalPredictions  domain.PredictionCounts `json:"goalPredictions"`
}

// ToDashboardSummaryResponse converts the domain aggregate to the response DTO
func ToDashboardSummaryResponse(s *domain.DashboardSummary) DashboardSummaryResponse {
	res := DashboardSummaryResponse{
		TotalBalance:     s.TotalBalance,
		BalancesByMethod: s.BalancesByMethod,
		TotalIncome:      s.TotalIncome,
		MonthlyIncome:    s.MonthlyIncome,
		IncomeBySource:   s.IncomeBySource,
		TodayExpense:     s.TodayExpense,
		GoalCounts:       s.GoalCounts,
		GoalPredictions:  s.GoalPredictions,
	}
	if s.ActiveBlock != nil {
		block := ToBlockResponse(s.ActiveBlock)
		res.ActiveBlock = &block
		res.ActiveBlockDays = toDaySpendResponses(s.ActiveBlockDays)
	}
	return res
}

// BlockReportResponse is one block of the report tree.
type BlockReportResponse struct {
	Block BlockResponse      `json:"block"`
	Days  []DaySpendResponse `json:"days"`
}

// ToBlockReportResponse converts the per-block report rows to response DTOs
func ToBlockReportResponse(reports []domain.BlockReport) []BlockReportResponse {
	res := make([]BlockReportResponse, len(reports))
	for i := range reports {
		res[i] = BlockReportResponse{
			Block: ToBlockResponse(&reports[i].Block),
			Days:  toDaySpendResponses(reports[i].Days),
		}
	}
	return res
}
