package domain_test

import (
	"testing"
	"time"

	"github.com/exptrac/exptrac_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeEndDate_Weekly(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		want  time.Time
	}{
		{
			name:  "midweek start ends next saturday",
			start: date(2025, time.March, 5), // Wednesday
			want:  date(2025, time.March, 8),
		},
		{
			name:  "sunday start ends following saturday",
			start: date(2025, time.March, 2),
			want:  date(2025, time.March, 8),
		},
		{
			name:  "friday start ends next day",
			start: date(2025, time.March, 7),
			want:  date(2025, time.March, 8),
		},
		{
			name:  "saturday start gets a full week",
			start: date(2025, time.March, 8),
			want:  date(2025, time.March, 15),
		},
		{
			name:  "weekly window crosses month boundary",
			start: date(2025, time.January, 30), // Thursday
			want:  date(2025, time.February, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.ComputeEndDate(domain.BlockWeekly, tt.start)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestComputeEndDate_Monthly(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		want  time.Time
	}{
		{
			name:  "first of month ends on last day",
			start: date(2025, time.March, 1),
			want:  date(2025, time.March, 31),
		},
		{
			name:  "last day of month ends same day",
			start: date(2025, time.January, 31),
			want:  date(2025, time.January, 31),
		},
		{
			name:  "february non-leap",
			start: date(2025, time.February, 10),
			want:  date(2025, time.February, 28),
		},
		{
			name:  "february leap year",
			start: date(2024, time.February, 10),
			want:  date(2024, time.February, 29),
		},
		{
			name:  "december ends on the 31st, not next year",
			start: date(2025, time.December, 15),
			want:  date(2025, time.December, 31),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.ComputeEndDate(domain.BlockMonthly, tt.start)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestPeriodBlock_IsExpired(t *testing.T) {
	block := domain.PeriodBlock{
		StartDate: date(2025, time.March, 2),
		EndDate:   date(2025, time.March, 8),
		Status:    domain.BlockActive,
	}

	// The end date itself still belongs to the block, even late in the day.
	assert.False(t, block.IsExpired(time.Date(2025, time.March, 8, 23, 59, 0, 0, time.UTC)))
	assert.True(t, block.IsExpired(time.Date(2025, time.March, 9, 0, 0, 1, 0, time.UTC)))
	assert.False(t, block.IsExpired(date(2025, time.March, 5)))
}

func TestPeriodBlock_Contains(t *testing.T) {
	block := domain.PeriodBlock{
		StartDate: date(2025, time.March, 2),
		EndDate:   date(2025, time.March, 8),
	}

	assert.True(t, block.Contains(date(2025, time.March, 2)))
	assert.True(t, block.Contains(date(2025, time.March, 8)))
	assert.False(t, block.Contains(date(2025, time.March, 1)))
	assert.False(t, block.Contains(date(2025, time.March, 9)))
}

func TestDayTagFor(t *testing.T) {
	assert.Equal(t, domain.DaySunday, domain.DayTagFor(date(2025, time.March, 2)))
	assert.Equal(t, domain.DaySaturday, domain.DayTagFor(date(2025, time.March, 8)))
	assert.Equal(t, domain.DayWednesday, domain.DayTagFor(date(2025, time.March, 5)))
}

func TestDefaultBlockTitle(t *testing.T) {
	assert.Equal(t, "Week of Mar 02, 2025", domain.DefaultBlockTitle(domain.BlockWeekly, date(2025, time.March, 2)))
	assert.Equal(t, "Month of March 2025", domain.DefaultBlockTitle(domain.BlockMonthly, date(2025, time.March, 2)))
}
