package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PaymentMethod identifies the payment channel an account settles through.
type PaymentMethod string

const (
	MethodBanking PaymentMethod = "banking"
	MethodEsewa   PaymentMethod = "esewa"
	MethodKhalti  PaymentMethod = "khalti"
	MethodOthers  PaymentMethod = "others"
)

// PaymentMethods lists every valid payment method, in display order.
var PaymentMethods = []PaymentMethod{MethodBanking, MethodEsewa, MethodKhalti, MethodOthers}

// IsValid reports whether the value is one of the closed set of methods.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodBanking, MethodEsewa, MethodKhalti, MethodOthers:
		return true
	}
	return false
}

// FundingSource identifies where the money held in an account comes from.
type FundingSource string

const (
	FundingSalary     FundingSource = "salary"
	FundingPocket     FundingSource = "pocket_money"
	FundingBudget     FundingSource = "normal_budget"
	FundingOtherFunds FundingSource = "others"
)

// IsValid reports whether the value is one of the closed set of sources.
func (s FundingSource) IsValid() bool {
	switch s {
	case FundingSalary, FundingPocket, FundingBudget, FundingOtherFunds:
		return true
	}
	return false
}

// AccountStatus is the lifecycle state of an account.
type AccountStatus string

const (
	AccountActive    AccountStatus = "active"
	AccountSuspended AccountStatus = "suspended"
)

// IsValid reports whether the value is a known account status.
func (s AccountStatus) IsValid() bool {
	return s == AccountActive || s == AccountSuspended
}

// Account represents a real-world money holding (bank account, wallet)
// owned by a single user. Balance is the authoritative current amount and
// never goes below zero at rest.
type Account struct {
	AccountID     string          `json:"accountID"` // Primary Key (UUID)
	OwnerID       string          `json:"ownerID"`   // Identity of the owning user
	Name          string          `json:"name"`
	Number        string          `json:"number"` // Account / mobile number
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	FundingSource FundingSource   `json:"fundingSource"`
	Balance       decimal.Decimal `json:"balance"`
	Status        AccountStatus   `json:"status"`
	AuditFields
}

// IsActive reports whether the account may participate in transactions.
func (a Account) IsActive() bool {
	return a.Status == AccountActive
}

// Validate checks the structural invariants of an account.
func (a Account) Validate() error {
	if l := len(a.Name); l < 2 || l > 100 {
		return fmt.Errorf("account name must be between 2 and 100 characters, got %d", l)
	}
	if l := len(a.Number); l < 5 || l > 50 {
		return fmt.Errorf("account number must be between 5 and 50 characters, got %d", l)
	}
	if !a.PaymentMethod.IsValid() {
		return fmt.Errorf("invalid payment method %q", a.PaymentMethod)
	}
	if !a.FundingSource.IsValid() {
		return fmt.Errorf("invalid funding source %q", a.FundingSource)
	}
	if !a.Status.IsValid() {
		return fmt.Errorf("invalid account status %q", a.Status)
	}
	if a.Balance.IsNegative() {
		return fmt.Errorf("account balance must not be negative, got %s", a.Balance)
	}
	return nil
}
