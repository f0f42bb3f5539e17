package dto

import (
	"time"

	"github.com/exptrac/exptrac_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateIncomeRequest defines the data needed to record income.
type CreateIncomeRequest struct {
	AccountID   string              `json:"accountID" binding:"required,uuid"`
	Source      domain.IncomeSource `json:"source" binding:"required,oneof=salary budget loan share_amount bonus investment freelance rental commission gift refund dividend interest others"`
	Amount      decimal.Decimal     `json:"amount" binding:"required,gt=0"`
	Description string              `json:"description" binding:"omitempty,max=500"`
}

// UpdateIncomeRequest defines the data allowed when editing income.
// Pointers distinguish omitted fields from zero values.
type UpdateIncomeRequest struct {
	AccountID   *string              `json:"accountID" binding:"omitempty,uuid"`
	Source      *domain.IncomeSource `json:"source" binding:"omitempty,oneof=salary budget loan share_amount bonus investment freelance rental commission gift refund dividend interest others"`
	Amount      *decimal.Decimal     `json:"amount" binding:"omitempty,gt=0"`
	Description *string              `json:"description" binding:"omitempty,max=500"`
}

// ListIncomesParams defines query parameters for listing income records.
type ListIncomesParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// IncomeResponse defines the data returned for an income record.
type IncomeResponse struct {
	IncomeID    string              `json:"incomeID"`
	AccountID   string              `json:"accountID"`
	Source      domain.IncomeSource `json:"source"`
	Amount      decimal.Decimal     `json:"amount"`
	Description string              `json:"description"`
	CreatedAt   time.Time           `json:"createdAt"`
}

// ToIncomeResponse converts a domain.IncomeRecord to IncomeResponse DTO
func ToIncomeResponse(r *domain.IncomeRecord) IncomeResponse {
	return IncomeResponse{
		IncomeID:    r.IncomeID,
		AccountID:   r.AccountID,
		Source:      r.Source,
		Amount:      r.Amount,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
	}
}

// ListIncomesResponse wraps the paginated income list.
type ListIncomesResponse struct {
	Incomes   []IncomeResponse `json:"incomes"`
	NextToken *string          `json:"nextToken,omitempty"`
}

// ToListIncomesResponse converts income records plus pagination state to the list DTO
func ToListIncomesResponse(records []domain.IncomeRecord, nextToken *string) ListIncomesResponse {
	res := make([]IncomeResponse, len(records))
	for i := range records {
		res[i] = ToIncomeResponse(&records[i])
	}
	return ListIncomesResponse{Incomes: res, NextToken: nextToken}
}
