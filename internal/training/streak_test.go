package training

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestStreakEmptyHistory(t *testing.T) {
	for _, period := range []string{PeriodOnce, PeriodDaily, PeriodWeekly, PeriodMonthly} {
		assert.Equal(t, 0, Streak(period, nil), "no completions should mean no streak for %s", period)
	}
}

func TestStreakOnceTask(t *testing.T) {
	dates := []time.Time{day(2026, 3, 10), day(2026, 3, 3), day(2026, 2, 1)}
	assert.Equal(t, 1, Streak(PeriodOnce, dates), "a one-shot task is either done or not")
}

func TestStreakDaily(t *testing.T) {
	// Three consecutive days, newest first.
	dates := []time.Time{day(2026, 3, 3), day(2026, 3, 2), day(2026, 3, 1)}
	assert.Equal(t, 3, Streak(PeriodDaily, dates))

	// Completed days 1,2,3, skipped day 4, completed day 5: only the most
	// recent completion counts toward the current streak.
	dates = []time.Time{day(2026, 3, 5), day(2026, 3, 3), day(2026, 3, 2), day(2026, 3, 1)}
	assert.Equal(t, 1, Streak(PeriodDaily, dates), "a gap resets the current streak")

	dates = []time.Time{day(2026, 3, 5)}
	assert.Equal(t, 1, Streak(PeriodDaily, dates))
}

func TestStreakDailyAcrossMonthBoundary(t *testing.T) {
	dates := []time.Time{day(2026, 3, 1), day(2026, 2, 28), day(2026, 2, 27)}
	assert.Equal(t, 3, Streak(PeriodDaily, dates))
}

func TestStreakDailyDSTTransition(t *testing.T) {
	location, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tz database unavailable: %v", err)
	}

	// March 8, 2026 is the US spring-forward day (23 hours long). Counting
	// by calendar date keeps it one day from its neighbors.
	dates := []time.Time{
		time.Date(2026, 3, 9, 12, 0, 0, 0, location),
		time.Date(2026, 3, 8, 12, 0, 0, 0, location),
		time.Date(2026, 3, 7, 12, 0, 0, 0, location),
	}
	assert.Equal(t, 3, Streak(PeriodDaily, dates), "DST transitions should not break a daily streak")
}

func TestStreakWeekly(t *testing.T) {
	// Three Mondays in a row.
	dates := []time.Time{day(2026, 1, 19), day(2026, 1, 12), day(2026, 1, 5)}
	assert.Equal(t, 3, Streak(PeriodWeekly, dates))

	// Six days apart on different weekdays does not chain.
	dates = []time.Time{day(2026, 1, 19), day(2026, 1, 13)}
	assert.Equal(t, 1, Streak(PeriodWeekly, dates), "weekly streaks require the same weekday")

	// Two weeks apart breaks the chain even on the same weekday.
	dates = []time.Time{day(2026, 1, 19), day(2026, 1, 5)}
	assert.Equal(t, 1, Streak(PeriodWeekly, dates))
}

func TestStreakMonthly(t *testing.T) {
	dates := []time.Time{day(2026, 3, 10), day(2026, 2, 20), day(2026, 1, 5)}
	assert.Equal(t, 3, Streak(PeriodMonthly, dates))

	// December to January wraps.
	dates = []time.Time{day(2026, 1, 15), day(2025, 12, 2)}
	assert.Equal(t, 2, Streak(PeriodMonthly, dates))

	// Skipping a month breaks the chain.
	dates = []time.Time{day(2026, 3, 10), day(2026, 1, 5)}
	assert.Equal(t, 1, Streak(PeriodMonthly, dates))
}

func TestStreakMonthlyIgnoresYear(t *testing.T) {
	// Only the month number is compared, so a February two years earlier
	// still chains to a March completion.
	dates := []time.Time{day(2026, 3, 10), day(2024, 2, 20)}
	assert.Equal(t, 2, Streak(PeriodMonthly, dates))
}
