package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodBlock is the period_blocks table row.
type PeriodBlock struct {
	BlockID      string          `db:"block_id"`
	OwnerID      string          `db:"owner_id"`
	Title        string          `db:"title"`
	Kind         string          `db:"kind"`
	StartDay     string          `db:"start_day"`
	StartDate    time.Time       `db:"start_date"`
	EndDate      time.Time       `db:"end_date"`
	Status       string          `db:"status"`
	TotalExpense decimal.Decimal `db:"total_expense"`
	AuditFields
}
