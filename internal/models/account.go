package models

import (
	"github.com/shopspring/decimal"
)

// Account is the accounts table row.
type Account struct {
	AccountID     string          `db:"account_id"`
	OwnerID       string          `db:"owner_id"`
	Name          string          `db:"name"`
	Number        string          `db:"number"`
	PaymentMethod string          `db:"payment_method"`
	FundingSource string          `db:"funding_source"`
	Balance       decimal.Decimal `db:"balance"`
	Status        string          `db:"status"`
	AuditFields
}
