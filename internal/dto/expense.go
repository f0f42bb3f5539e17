package dto

import (
	"time"

	"github.com/exptrac/exptrac_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExpenseRequest defines the data needed to record an expense in a
// block. The expense is dated today; day tag and payment-method snapshot
// come from the account.
type CreateExpenseRequest struct {
	AccountID string          `json:"accountID" binding:"required,uuid"`
	Name      string          `json:"name" binding:"required,min=2,max=100"`
	Amount    decimal.Decimal `json:"amount" binding:"required,gt=0"`
	Notes     string          `json:"notes" binding:"omitempty,max=500"`
}

// UpdateExpenseRequest defines the data allowed when editing an expense.
// Pointers distinguish omitted fields from zero values.
type UpdateExpenseRequest struct {
	AccountID *string          `json:"accountID" binding:"omitempty,uuid"`
	Name      *string          `json:"name" binding:"omitempty,min=2,max=100"`
	Amount    *decimal.Decimal `json:"amount" binding:"omitempty,gt=0"`
	Notes     *string          `json:"notes" binding:"omitempty,max=500"`
}

// ListExpensesParams defines query parameters for listing a block's items.
type ListExpensesParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ExpenseResponse defines the data returned for a line item.
type ExpenseResponse struct {
	ItemID        string               `json:"itemID"`
	BlockID       string               `json:"blockID"`
	AccountID     *string              `json:"accountID"`
	AccountName   string               `json:"accountName"`
	Name          string               `json:"name"`
	Amount        decimal.Decimal      `json:"amount"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod"`
	Day           domain.DayTag        `json:"day"`
	Date          string               `json:"date"` // YYYY-MM-DD
	Notes         string               `json:"notes"`
	CreatedAt     time.Time            `json:"createdAt"`
}

// ToExpenseResponse converts a domain.LineItem to ExpenseResponse DTO
func ToExpenseResponse(item *domain.LineItem) ExpenseResponse {
	return ExpenseResponse{
		ItemID:        item.ItemID,
		BlockID:       item.BlockID,
		AccountID:     item.AccountID,
		AccountName:   item.AccountName,
		Name:          item.Name,
		Amount:        item.Amount,
		PaymentMethod: item.PaymentMethod,
		Day:           item.Day,
		Date:          item.Date.Format(time.DateOnly),
		Notes:         item.Notes,
		CreatedAt:     item.CreatedAt,
	}
}

// ListExpensesResponse wraps the paginated line-item list.
type ListExpensesResponse struct {
	Expenses  []ExpenseResponse `json:"expenses"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToListExpensesResponse converts line items plus pagination state to the list DTO
func ToListExpensesResponse(items []domain.LineItem, nextToken *string) ListExpensesResponse {
	res := make([]ExpenseResponse, len(items))
	for i := range items {
		res[i] = ToExpenseResponse(&items[i])
	}
	return ListExpensesResponse{Expenses: res, NextToken: nextToken}
}
