package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// BlockKind is the cadence of a period block.
type BlockKind string

const (
	BlockWeekly  BlockKind = "weekly"
	BlockMonthly BlockKind = "monthly"
)

// IsValid reports whether the value is a known block kind.
func (k BlockKind) IsValid() bool {
	return k == BlockWeekly || k == BlockMonthly
}

// BlockStatus is the lifecycle state of a period block.
type BlockStatus string

const (
	BlockActive BlockStatus = "active"
	BlockClosed BlockStatus = "closed"
)

// DayTag is the lowercase weekday name used to bucket line items within a
// block. The week runs Sunday through Saturday.
type DayTag string

const (
	DaySunday    DayTag = "sunday"
	DayMonday    DayTag = "monday"
	DayTuesday   DayTag = "tuesday"
	DayWednesday DayTag = "wednesday"
	DayThursday  DayTag = "thursday"
	DayFriday    DayTag = "friday"
	DaySaturday  DayTag = "saturday"
)

// WeekDayTags lists the day tags Sunday-first, matching chart ordering.
var WeekDayTags = []DayTag{
	DaySunday, DayMonday, DayTuesday, DayWednesday,
	DayThursday, DayFriday, DaySaturday,
}

// DayTagFor returns the tag for the weekday of t.
func DayTagFor(t time.Time) DayTag {
	return WeekDayTags[int(t.Weekday())]
}

// IsValid reports whether the value is a known day tag.
func (d DayTag) IsValid() bool {
	for _, tag := range WeekDayTags {
		if d == tag {
			return true
		}
	}
	return false
}

// DateOnly truncates t to midnight UTC. All block window arithmetic works
// on these normalized dates so comparisons are whole-day comparisons.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ComputeEndDate derives the immutable end date of a block from its kind
// and start date.
//
// Weekly blocks run to the next Saturday; a block that starts on a Saturday
// gets a full seven-day week rather than ending the same day. Monthly
// blocks run to the last day of the starting month regardless of the start
// day, so a block opened on Jan 31 ends on Jan 31.
func ComputeEndDate(kind BlockKind, start time.Time) time.Time {
	start = DateOnly(start)
	switch kind {
	case BlockWeekly:
		days := (int(time.Saturday) - int(start.Weekday()) + 7) % 7
		if days == 0 {
			days = 7
		}
		return start.AddDate(0, 0, days)
	case BlockMonthly:
		// Day 0 of next month is the last day of this month.
		return time.Date(start.Year(), start.Month()+1, 0, 0, 0, 0, 0, time.UTC)
	default:
		return start
	}
}

// DefaultBlockTitle generates the display title used when none is supplied.
func DefaultBlockTitle(kind BlockKind, start time.Time) string {
	start = DateOnly(start)
	if kind == BlockMonthly {
		return fmt.Sprintf("Month of %s", start.Format("January 2006"))
	}
	return fmt.Sprintf("Week of %s", start.Format("Jan 02, 2006"))
}

// PeriodBlock is a bounded accounting window that groups line items and
// caches their running total. At most one block per owner may be active
// with a window containing today.
type PeriodBlock struct {
	BlockID      string          `json:"blockID"` // Primary Key (UUID)
	OwnerID      string          `json:"ownerID"`
	Title        string          `json:"title"`
	Kind         BlockKind       `json:"kind"`
	StartDay     DayTag          `json:"startDay"` // Weekday tag of StartDate
	StartDate    time.Time       `json:"startDate"`
	EndDate      time.Time       `json:"endDate"` // Derived, immutable
	Status       BlockStatus     `json:"status"`
	TotalExpense decimal.Decimal `json:"totalExpense"` // Cached sum of line items
	AuditFields
}

// BlockStatusCounts tallies a user's blocks by lifecycle state.
type BlockStatusCounts struct {
	Active int `json:"active"`
	Closed int `json:"closed"`
}

// Contains reports whether day falls inside the block window, inclusive on
// both ends.
func (b PeriodBlock) Contains(day time.Time) bool {
	day = DateOnly(day)
	return !day.Before(DateOnly(b.StartDate)) && !day.After(DateOnly(b.EndDate))
}

// IsExpired reports whether the block window has fully elapsed at the given
// instant. The end date itself still belongs to the block; expiry begins
// the following day.
func (b PeriodBlock) IsExpired(now time.Time) bool {
	return DateOnly(now).After(DateOnly(b.EndDate))
}

// IsClosed reports whether the block no longer accepts mutations.
func (b PeriodBlock) IsClosed() bool {
	return b.Status == BlockClosed
}
