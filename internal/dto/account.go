package dto

import (
	"time"

	"github.com/exptrac/exptrac_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Name           string               `json:"name" binding:"required,min=2,max=100"`
	Number         string               `json:"number" binding:"required,min=5,max=50"`
	PaymentMethod  domain.PaymentMethod `json:"paymentMethod" binding:"required,oneof=banking esewa khalti others"`
	FundingSource  domain.FundingSource `json:"fundingSource" binding:"required,oneof=salary pocket_money normal_budget others"`
	InitialBalance decimal.Decimal      `json:"initialBalance" binding:"omitempty,gte=0"`
}

// UpdateAccountRequest defines the data allowed when updating an account.
// Pointers distinguish omitted fields from zero values.
type UpdateAccountRequest struct {
	Name          *string               `json:"name" binding:"omitempty,min=2,max=100"`
	Number        *string               `json:"number" binding:"omitempty,min=5,max=50"`
	PaymentMethod *domain.PaymentMethod `json:"paymentMethod" binding:"omitempty,oneof=banking esewa khalti others"`
	FundingSource *domain.FundingSource `json:"fundingSource" binding:"omitempty,oneof=salary pocket_money normal_budget others"`
	Balance       *decimal.Decimal      `json:"balance" binding:"omitempty,gte=0"` // Direct correction
	Status        *domain.AccountStatus `json:"status" binding:"omitempty,oneof=active suspended"`
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	ActiveOnly bool `form:"activeOnly,default=false"`
	Limit      int  `form:"limit,default=50"`
	Offset     int  `form:"offset,default=0"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID     string               `json:"accountID"`
	Name          string               `json:"name"`
	Number        string               `json:"number"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod"`
	FundingSource domain.FundingSource `json:"fundingSource"`
	Balance       decimal.Decimal      `json:"balance"`
	Status        domain.AccountStatus `json:"status"`
	CreatedAt     time.Time            `json:"createdAt"`
	LastUpdatedAt time.Time            `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		Name:          acc.Name,
		Number:        acc.Number,
		PaymentMethod: acc.PaymentMethod,
		FundingSource: acc.FundingSource,
		Balance:       acc.Balance,
		Status:        acc.Status,
		CreatedAt:     acc.CreatedAt,
		LastUpdatedAt: acc.LastUpdatedAt,
	}
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToListAccountsResponse converts a slice of domain.Account to the list DTO
func ToListAccountsResponse(accounts []domain.Account) ListAccountsResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return ListAccountsResponse{Accounts: res}
}
