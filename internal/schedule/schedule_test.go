package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orghub-server/internal/models"
)

func intPtr(v int) *int { return &v }

func TestNextRunDaily(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		timeOfDay string
		want      time.Time
	}{
		{
			name:      "today's slot already passed",
			now:       time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
			timeOfDay: "09:00",
			want:      time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC),
		},
		{
			name:      "today's slot still ahead",
			now:       time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC),
			timeOfDay: "09:00",
			want:      time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
		},
		{
			name:      "exactly at the slot rolls to tomorrow",
			now:       time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
			timeOfDay: "09:00",
			want:      time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC),
		},
		{
			name:      "month boundary",
			now:       time.Date(2024, 1, 31, 23, 30, 0, 0, time.UTC),
			timeOfDay: "06:15",
			want:      time.Date(2024, 2, 1, 6, 15, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextRun(Spec{Frequency: models.FrequencyDaily, TimeOfDay: tt.timeOfDay}, tt.now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.After(tt.now))
			assert.LessOrEqual(t, got.Sub(tt.now), 24*time.Hour)
		})
	}
}

func TestNextRunWeekly(t *testing.T) {
	wednesday := intPtr(3)

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			// 2024-01-15 is a Monday.
			name: "two days ahead of target weekday",
			now:  time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC),
			want: time.Date(2024, 1, 17, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "target day, slot still ahead",
			now:  time.Date(2024, 1, 17, 8, 0, 0, 0, time.UTC),
			want: time.Date(2024, 1, 17, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "target day, slot passed, next week",
			now:  time.Date(2024, 1, 17, 10, 0, 0, 0, time.UTC),
			want: time.Date(2024, 1, 24, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "day before target with slot passed still hits tomorrow",
			now:  time.Date(2024, 1, 16, 10, 0, 0, 0, time.UTC),
			want: time.Date(2024, 1, 17, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "day after target wraps forward",
			now:  time.Date(2024, 1, 18, 8, 0, 0, 0, time.UTC),
			want: time.Date(2024, 1, 24, 9, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextRun(Spec{
				Frequency: models.FrequencyWeekly,
				DayOfWeek: wednesday,
				TimeOfDay: "09:00",
			}, tt.now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, time.Wednesday, got.Weekday())
			assert.True(t, got.After(tt.now))
		})
	}
}

func TestNextRunMonthly(t *testing.T) {
	tests := []struct {
		name       string
		now        time.Time
		dayOfMonth int
		want       time.Time
	}{
		{
			name:       "slot ahead this month",
			now:        time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC),
			dayOfMonth: 15,
			want:       time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC),
		},
		{
			name:       "slot passed, next month",
			now:        time.Date(2024, 1, 20, 8, 0, 0, 0, time.UTC),
			dayOfMonth: 15,
			want:       time.Date(2024, 2, 15, 9, 0, 0, 0, time.UTC),
		},
		{
			name:       "day 31 clamps to 30-day month",
			now:        time.Date(2024, 3, 31, 10, 0, 0, 0, time.UTC),
			dayOfMonth: 31,
			want:       time.Date(2024, 4, 30, 9, 0, 0, 0, time.UTC),
		},
		{
			name:       "day 31 clamps to leap February",
			now:        time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC),
			dayOfMonth: 31,
			want:       time.Date(2024, 2, 29, 9, 0, 0, 0, time.UTC),
		},
		{
			name:       "day 31 clamps to non-leap February",
			now:        time.Date(2023, 1, 31, 10, 0, 0, 0, time.UTC),
			dayOfMonth: 31,
			want:       time.Date(2023, 2, 28, 9, 0, 0, 0, time.UTC),
		},
		{
			name:       "december rolls into january",
			now:        time.Date(2024, 12, 20, 8, 0, 0, 0, time.UTC),
			dayOfMonth: 15,
			want:       time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextRun(Spec{
				Frequency:  models.FrequencyMonthly,
				DayOfMonth: intPtr(tt.dayOfMonth),
				TimeOfDay:  "09:00",
			}, tt.now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.After(tt.now))
		})
	}
}

func TestNextRunCustomOnlyAppliesTimeOfDay(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	got, err := NextRun(Spec{Frequency: models.FrequencyCustom, TimeOfDay: "09:00"}, now)
	require.NoError(t, err)
	// Custom schedules get no periodic advance, even when the slot has
	// already passed; re-triggering is the caller's problem.
	assert.Equal(t, time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC), got)
}

func TestNextRunIsPure(t *testing.T) {
	now := time.Date(2024, 5, 2, 7, 30, 0, 0, time.UTC)
	spec := Spec{Frequency: models.FrequencyWeekly, DayOfWeek: intPtr(5), TimeOfDay: "18:45"}

	first, err := NextRun(spec, now)
	require.NoError(t, err)
	second, err := NextRun(spec, now)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNextRunNonUTCNowIsNormalized(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, loc) // 08:00 UTC
	got, err := NextRun(Spec{Frequency: models.FrequencyDaily, TimeOfDay: "09:00"}, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC), got)
}

func TestNextRunInvalidSpecs(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		spec Spec
	}{
		{"malformed time of day", Spec{Frequency: models.FrequencyDaily, TimeOfDay: "9am"}},
		{"missing minutes", Spec{Frequency: models.FrequencyDaily, TimeOfDay: "09:"}},
		{"space-padded hour", Spec{Frequency: models.FrequencyDaily, TimeOfDay: " 9:00"}},
		{"single-digit parts", Spec{Frequency: models.FrequencyDaily, TimeOfDay: "9:5  "}},
		{"trailing garbage after a short minute", Spec{Frequency: models.FrequencyDaily, TimeOfDay: "09:5x"}},
		{"negative minute", Spec{Frequency: models.FrequencyDaily, TimeOfDay: "09:-5"}},
		{"hour out of range", Spec{Frequency: models.FrequencyDaily, TimeOfDay: "24:00"}},
		{"minute out of range", Spec{Frequency: models.FrequencyDaily, TimeOfDay: "09:60"}},
		{"weekly without dayOfWeek", Spec{Frequency: models.FrequencyWeekly, TimeOfDay: "09:00"}},
		{"weekly dayOfWeek out of range", Spec{Frequency: models.FrequencyWeekly, DayOfWeek: intPtr(7), TimeOfDay: "09:00"}},
		{"monthly without dayOfMonth", Spec{Frequency: models.FrequencyMonthly, TimeOfDay: "09:00"}},
		{"monthly dayOfMonth out of range", Spec{Frequency: models.FrequencyMonthly, DayOfMonth: intPtr(0), TimeOfDay: "09:00"}},
		{"unknown frequency", Spec{Frequency: "hourly", TimeOfDay: "09:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NextRun(tt.spec, now)
			require.Error(t, err)
			var invalid *InvalidScheduleError
			assert.ErrorAs(t, err, &invalid)
		})
	}
}
