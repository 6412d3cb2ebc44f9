package training

import "time"

// Streak returns the number of consecutive qualifying periods ending at the
// most recent verified completion, under the task's period policy. dates must
// be sorted descending and contain only verified completions. Returns 0 when
// there are no completions.
func Streak(period string, dates []time.Time) int {
	if len(dates) == 0 {
		return 0
	}

	// One-shot tasks have no streak concept: done or not done.
	if period == PeriodOnce {
		return 1
	}

	streak := 1
	for i := 0; i < len(dates)-1; i++ {
		if !consecutive(period, dates[i], dates[i+1]) {
			break
		}
		streak++
	}
	return streak
}

// consecutive reports whether prev (the older completion) directly precedes
// cur under the period policy.
func consecutive(period string, cur, prev time.Time) bool {
	switch period {
	case PeriodDaily:
		return daysBetween(prev, cur) == 1
	case PeriodWeekly:
		return daysBetween(prev, cur) <= 7 && cur.Weekday() == prev.Weekday()
	case PeriodMonthly:
		// Month number only; the year is intentionally not compared, so two
		// completions in the same month a year apart chain together.
		prevMonth := cur.Month() - 1
		if prevMonth == 0 {
			prevMonth = time.December
		}
		return prev.Month() == prevMonth
	default:
		return false
	}
}

// daysBetween counts calendar days from a to b, DST-safe.
func daysBetween(a, b time.Time) int {
	aDay := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, a.Location())
	bDay := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, b.Location())

	days := 0
	for d := aDay; d.Before(bDay); d = d.AddDate(0, 0, 1) {
		days++
	}
	return days
}
