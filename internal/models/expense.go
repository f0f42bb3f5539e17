package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is the line_items table row. AccountID is nullable: deleting an
// account sets it NULL while AccountName keeps the display snapshot.
type LineItem struct {
	ItemID        string          `db:"item_id"`
	BlockID       string          `db:"block_id"`
	AccountID     *string         `db:"account_id"`
	AccountName   string          `db:"account_name"`
	Name          string          `db:"name"`
	Amount        decimal.Decimal `db:"amount"`
	PaymentMethod string          `db:"payment_method"`
	Day           string          `db:"day"`
	Date          time.Time       `db:"date"`
	Notes         string          `db:"notes"`
	AuditFields
}
