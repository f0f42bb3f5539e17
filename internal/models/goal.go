package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal is the goals table row. Account links live in goal_accounts.
type Goal struct {
	GoalID       string          `db:"goal_id"`
	OwnerID      string          `db:"owner_id"`
	Title        string          `db:"title"`
	TargetAmount decimal.Decimal `db:"target_amount"`
	StartDate    time.Time       `db:"start_date"`
	Deadline     time.Time       `db:"deadline"`
	Status       string          `db:"status"`
	AuditFields
}
