package domain_test

import (
	"testing"
	"time"

	"github.com/exptrac/exptrac_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testGoal(target int64, start, deadline time.Time) domain.Goal {
	return domain.Goal{
		GoalID:       "goal-1",
		OwnerID:      "user-1",
		Title:        "Emergency fund",
		TargetAmount: decimal.NewFromInt(target),
		StartDate:    start,
		Deadline:     deadline,
		Status:       domain.GoalRunning,
	}
}

func TestComputeProgress_Metrics(t *testing.T) {
	start := date(2025, time.March, 1)
	deadline := date(2025, time.March, 31)
	g := testGoal(1000, start, deadline)

	// Day 10 of a 30-day window: 1200 in, 300 out.
	p := domain.ComputeProgress(g,
		decimal.NewFromInt(1200), decimal.NewFromInt(300),
		date(2025, time.March, 11))

	assert.True(t, decimal.NewFromInt(900).Equal(p.CurrentSavings), "savings: %s", p.CurrentSavings)
	assert.True(t, decimal.NewFromInt(90).Equal(p.AchievementRate), "achievement: %s", p.AchievementRate)
	assert.Equal(t, 30, p.DaysTotal)
	assert.Equal(t, 10, p.DaysElapsed)
	assert.Equal(t, 20, p.DaysRemaining)
	assert.True(t, decimal.NewFromFloat(33.33).Equal(p.ProgressPct), "progress: %s", p.ProgressPct)
	// 100 short over 20 days.
	assert.True(t, decimal.NewFromInt(5).Equal(p.DailyRequired), "daily: %s", p.DailyRequired)
	// 900/10*30 = 2700 projected >= 1000.
	assert.Equal(t, domain.PredictionOnTrack, p.Prediction)
}

func TestComputeProgress_AchievementRateClamped(t *testing.T) {
	g := testGoal(1000, date(2025, time.March, 1), date(2025, time.March, 31))

	over := domain.ComputeProgress(g,
		decimal.NewFromInt(5000), decimal.Zero, date(2025, time.March, 11))
	assert.True(t, decimal.NewFromInt(100).Equal(over.AchievementRate))
	assert.True(t, over.DailyRequired.IsZero())

	under := domain.ComputeProgress(g,
		decimal.NewFromInt(100), decimal.NewFromInt(400), date(2025, time.March, 11))
	assert.True(t, under.AchievementRate.IsZero(), "negative savings clamps to 0, got %s", under.AchievementRate)
	assert.True(t, decimal.NewFromInt(-300).Equal(under.CurrentSavings))
}

func TestComputeProgress_PredictionBands(t *testing.T) {
	g := testGoal(1000, date(2025, time.March, 1), date(2025, time.March, 31))
	today := date(2025, time.March, 16) // day 15 of 30: projection doubles savings

	tests := []struct {
		name    string
		savings int64
		want    domain.Prediction
	}{
		{"projection reaches target", 500, domain.PredictionOnTrack},
		{"projection at exactly 70% of target", 350, domain.PredictionAtRisk},
		{"projection below 70% of target", 340, domain.PredictionBehind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := domain.ComputeProgress(g, decimal.NewFromInt(tt.savings), decimal.Zero, today)
			assert.Equal(t, tt.want, p.Prediction)
		})
	}
}

func TestComputeProgress_ZeroElapsedDays(t *testing.T) {
	g := testGoal(1000, date(2025, time.March, 1), date(2025, time.March, 31))

	p := domain.ComputeProgress(g, decimal.Zero, decimal.Zero, date(2025, time.March, 1))

	assert.Equal(t, domain.PredictionNew, p.Prediction)
	assert.Equal(t, 0, p.DaysElapsed)
	assert.Equal(t, 30, p.DaysRemaining)
	assert.True(t, p.ProgressPct.IsZero())
}

func TestComputeProgress_PastDeadline(t *testing.T) {
	g := testGoal(1000, date(2025, time.March, 1), date(2025, time.March, 31))

	p := domain.ComputeProgress(g,
		decimal.NewFromInt(600), decimal.Zero, date(2025, time.April, 10))

	assert.Equal(t, 0, p.DaysRemaining)
	assert.Equal(t, 30, p.DaysElapsed, "elapsed caps at the window length")
	assert.True(t, decimal.NewFromInt(100).Equal(p.ProgressPct))
	// No days left: nothing per-day can be asked anymore.
	assert.True(t, p.DailyRequired.IsZero(), "daily: %s", p.DailyRequired)
}

func TestComputeProgress_TargetMetOnStartDay(t *testing.T) {
	g := testGoal(1000, date(2025, time.March, 1), date(2025, time.March, 31))

	p := domain.ComputeProgress(g,
		decimal.NewFromInt(1500), decimal.Zero, date(2025, time.March, 1))

	assert.Equal(t, 0, p.DaysElapsed)
	assert.Equal(t, domain.PredictionOnTrack, p.Prediction,
		"a covered target is on track even with zero elapsed days")
	assert.True(t, decimal.NewFromInt(100).Equal(p.AchievementRate))
	assert.True(t, p.DailyRequired.IsZero())
}

func TestResolveStatus(t *testing.T) {
	g := testGoal(1000, date(2025, time.March, 1), date(2025, time.March, 31))

	tests := []struct {
		name    string
		status  domain.GoalStatus
		savings decimal.Decimal
		today   time.Time
		want    domain.GoalStatus
	}{
		{"running before deadline stays running", domain.GoalRunning, decimal.Zero, date(2025, time.March, 15), domain.GoalRunning},
		{"deadline day itself does not transition", domain.GoalRunning, decimal.Zero, date(2025, time.March, 31), domain.GoalRunning},
		{"past deadline with target met completes", domain.GoalRunning, decimal.NewFromInt(1000), date(2025, time.April, 1), domain.GoalCompleted},
		{"past deadline short of target fails", domain.GoalRunning, decimal.NewFromInt(999), date(2025, time.April, 1), domain.GoalFailed},
		{"completed never reverts", domain.GoalCompleted, decimal.Zero, date(2025, time.April, 1), domain.GoalCompleted},
		{"failed never reverts", domain.GoalFailed, decimal.NewFromInt(5000), date(2025, time.April, 1), domain.GoalFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := g
			g.Status = tt.status
			assert.Equal(t, tt.want, domain.ResolveStatus(g, tt.savings, tt.today))
		})
	}
}

func TestGoal_Validate(t *testing.T) {
	valid := testGoal(1000, date(2025, time.March, 1), date(2025, time.March, 31))
	assert.NoError(t, valid.Validate())

	shortTitle := valid
	shortTitle.Title = "ab"
	assert.Error(t, shortTitle.Validate())

	zeroTarget := valid
	zeroTarget.TargetAmount = decimal.Zero
	assert.Error(t, zeroTarget.Validate())

	inverted := valid
	inverted.Deadline = valid.StartDate
	assert.Error(t, inverted.Validate())
}
