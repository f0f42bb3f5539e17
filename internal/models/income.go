package models

import (
	"github.com/shopspring/decimal"
)

// IncomeRecord is the income_records table row.
type IncomeRecord struct {
	IncomeID    string          `db:"income_id"`
	OwnerID     string          `db:"owner_id"`
	AccountID   string          `db:"account_id"`
	Source      string          `db:"source"`
	Amount      decimal.Decimal `db:"amount"`
	Description string          `db:"description"`
	AuditFields
}
