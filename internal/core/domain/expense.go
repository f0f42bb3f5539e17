package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is a single expense recorded inside a period block. AccountID is
// nullable: deleting an account detaches its items but keeps them visible
// through the AccountName snapshot taken at recording time.
type LineItem struct {
	ItemID        string          `json:"itemID"`  // Primary Key (UUID)
	BlockID       string          `json:"blockID"` // FK -> period_blocks
	AccountID     *string         `json:"accountID"`
	AccountName   string          `json:"accountName"` // Snapshot for display after account deletion
	Name          string          `json:"name"`
	Amount        decimal.Decimal `json:"amount"` // Always positive
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Day           DayTag          `json:"day"`
	Date          time.Time       `json:"date"`
	Notes         string          `json:"notes"`
	AuditFields
}

// Validate checks the structural invariants of a line item.
func (li LineItem) Validate() error {
	if l := len(li.Name); l < 2 || l > 100 {
		return fmt.Errorf("expense name must be between 2 and 100 characters, got %d", l)
	}
	if !li.Amount.IsPositive() {
		return fmt.Errorf("expense amount must be positive, got %s", li.Amount)
	}
	if !li.PaymentMethod.IsValid() {
		return fmt.Errorf("invalid payment method %q", li.PaymentMethod)
	}
	if !li.Day.IsValid() {
		return fmt.Errorf("invalid day tag %q", li.Day)
	}
	return nil
}
