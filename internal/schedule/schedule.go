// Package schedule computes the next execution instant for recurring
// report schedules. NextRun is a pure function: callers inject "now" so
// results are reproducible in tests.
package schedule

import (
	"fmt"
	"time"

	"orghub-server/internal/models"
)

// Spec describes a report's recurrence policy.
type Spec struct {
	Frequency  models.ReportFrequency
	DayOfWeek  *int   // 0=Sunday..6=Saturday, required iff weekly
	DayOfMonth *int   // 1-31, required iff monthly
	TimeOfDay  string // "HH:MM", 24-hour
	Timezone   string // accepted and stored; computation is simplified to UTC
}

// InvalidScheduleError reports a schedule that cannot be evaluated:
// malformed time-of-day, or a weekly/monthly frequency missing its
// companion field.
type InvalidScheduleError struct {
	Reason string
}

func (e *InvalidScheduleError) Error() string {
	return "invalid schedule: " + e.Reason
}

// NextRun computes the next execution instant strictly after now.
//
// The candidate starts at today's time-of-day. If that is not strictly
// after now, it advances by one natural period (daily +1 day, weekly
// +7 days, monthly +1 calendar month). Weekly schedules shift forward,
// wrapping at 7 days, onto the requested weekday before the advance is
// considered, so the result is the soonest matching weekday. Monthly
// schedules clamp the day to the last valid day of the target month when
// DayOfMonth exceeds it; clamping is policy, not an error.
//
// "custom" performs only the time-of-day step and no periodic advance,
// so its result can be in the past; callers supplying custom schedules
// own their own re-triggering. The Timezone field is accepted but the
// computation runs in UTC, matching the simplification of the system
// this replaces.
func NextRun(spec Spec, now time.Time) (time.Time, error) {
	hour, minute, err := parseTimeOfDay(spec.TimeOfDay)
	if err != nil {
		return time.Time{}, err
	}

	now = now.UTC()
	candidate := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, time.UTC)

	switch spec.Frequency {
	case models.FrequencyDaily:
		if !candidate.After(now) {
			candidate = candidate.AddDate(0, 0, 1)
		}
		return candidate, nil

	case models.FrequencyWeekly:
		if spec.DayOfWeek == nil {
			return time.Time{}, &InvalidScheduleError{Reason: "weekly frequency requires dayOfWeek"}
		}
		target := *spec.DayOfWeek
		if target < 0 || target > 6 {
			return time.Time{}, &InvalidScheduleError{Reason: fmt.Sprintf("dayOfWeek %d out of range 0-6", target)}
		}
		// Shift forward onto the requested weekday, never backward,
		// then advance a full week if that instant has already passed.
		// This yields the soonest matching weekday strictly after now.
		shift := (target - int(candidate.Weekday()) + 7) % 7
		candidate = candidate.AddDate(0, 0, shift)
		if !candidate.After(now) {
			candidate = candidate.AddDate(0, 0, 7)
		}
		return candidate, nil

	case models.FrequencyMonthly:
		if spec.DayOfMonth == nil {
			return time.Time{}, &InvalidScheduleError{Reason: "monthly frequency requires dayOfMonth"}
		}
		target := *spec.DayOfMonth
		if target < 1 || target > 31 {
			return time.Time{}, &InvalidScheduleError{Reason: fmt.Sprintf("dayOfMonth %d out of range 1-31", target)}
		}
		year, month := now.Year(), now.Month()
		candidate = time.Date(year, month, clampDay(target, year, month), hour, minute, 0, 0, time.UTC)
		if !candidate.After(now) {
			// time.Date normalizes month 13 to January of the next year.
			year, month, _ = time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).Date()
			candidate = time.Date(year, month, clampDay(target, year, month), hour, minute, 0, 0, time.UTC)
		}
		return candidate, nil

	case models.FrequencyCustom:
		// Time-of-day step only; callers re-trigger custom schedules
		// externally.
		return candidate, nil

	default:
		return time.Time{}, &InvalidScheduleError{Reason: fmt.Sprintf("unknown frequency %q", spec.Frequency)}
	}
}

// clampDay returns min(day, last day of the given month).
func clampDay(day int, year int, month time.Month) int {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > last {
		return last
	}
	return day
}

// parseTimeOfDay accepts exactly two digits, a colon, and two digits.
func parseTimeOfDay(s string) (hour, minute int, err error) {
	if len(s) != 5 || s[2] != ':' ||
		!isDigit(s[0]) || !isDigit(s[1]) || !isDigit(s[3]) || !isDigit(s[4]) {
		return 0, 0, &InvalidScheduleError{Reason: fmt.Sprintf("timeOfDay %q is not in HH:MM format", s)}
	}
	hour = int(s[0]-'0')*10 + int(s[1]-'0')
	minute = int(s[3]-'0')*10 + int(s[4]-'0')
	if hour > 23 || minute > 59 {
		return 0, 0, &InvalidScheduleError{Reason: fmt.Sprintf("timeOfDay %q out of range", s)}
	}
	return hour, minute, nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
