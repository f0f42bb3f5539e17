package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// IncomeSource categorizes where an income record came from.
type IncomeSource string

const (
	SourceSalary      IncomeSource = "salary"
	SourceBudget      IncomeSource = "budget"
	SourceLoan        IncomeSource = "loan"
	SourceShareAmount IncomeSource = "share_amount"
	SourceBonus       IncomeSource = "bonus"
	SourceInvestment  IncomeSource = "investment"
	SourceFreelance   IncomeSource = "freelance"
	SourceRental      IncomeSource = "rental"
	SourceCommission  IncomeSource = "commission"
	SourceGift        IncomeSource = "gift"
	SourceRefund      IncomeSource = "refund"
	SourceDividend    IncomeSource = "dividend"
	SourceInterest    IncomeSource = "interest"
	SourceOthers      IncomeSource = "others"
)

// IncomeSources lists every valid income source, in display order.
var IncomeSources = []IncomeSource{
	SourceSalary, SourceBudget, SourceLoan, SourceShareAmount,
	SourceBonus, SourceInvestment, SourceFreelance, SourceRental,
	SourceCommission, SourceGift, SourceRefund, SourceDividend,
	SourceInterest, SourceOthers,
}

// IsValid reports whether the value is one of the closed set of sources.
func (s IncomeSource) IsValid() bool {
	for _, src := range IncomeSources {
		if s == src {
			return true
		}
	}
	return false
}

// IncomeRecord is money credited to an account. Unlike expenses, income is
// not tied to a period block; goal and dashboard windows slice it by date.
type IncomeRecord struct {
	IncomeID    string          `json:"incomeID"` // Primary Key (UUID)
	OwnerID     string          `json:"ownerID"`
	AccountID   string          `json:"accountID"` // FK -> accounts, deleted with the account
	Source      IncomeSource    `json:"source"`
	Amount      decimal.Decimal `json:"amount"` // Always positive
	Description string          `json:"description"`
	AuditFields
}

// Validate checks the structural invariants of an income record.
func (r IncomeRecord) Validate() error {
	if !r.Source.IsValid() {
		return fmt.Errorf("invalid income source %q", r.Source)
	}
	if !r.Amount.IsPositive() {
		return fmt.Errorf("income amount must be positive, got %s", r.Amount)
	}
	return nil
}
