package tool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStartOfDay(t *testing.T) {
	madrid, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)

	tests := []struct {
		name string
		at   time.Time
		loc  *time.Location
		want time.Time
	}{
		{"utc", time.Date(2026, 3, 10, 15, 4, 5, 0, time.UTC), time.UTC, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)},
		// 23:30 UTC is already the next day in Madrid (UTC+1 in March before DST)
		{"gym zone ahead of utc", time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC), madrid, time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)},
		{"early morning in gym zone", time.Date(2026, 3, 10, 0, 30, 0, 0, time.UTC), madrid, time.Date(2026, 3, 9, 23, 0, 0, 0, time.UTC)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := StartOfDay(tc.at, tc.loc)
			require.True(t, tc.want.Equal(got), "got %s", got)
			require.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestDayRange_DST(t *testing.T) {
	madrid, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)

	// clocks go forward on 2026-03-29 in Madrid
	from, to := DayRange(time.Date(2026, 3, 29, 12, 0, 0, 0, time.UTC), madrid)
	require.True(t, time.Date(2026, 3, 28, 23, 0, 0, 0, time.UTC).Equal(from))
	require.Equal(t, 23*time.Hour, to.Sub(from))
}

func TestMonthRange(t *testing.T) {
	from, to := MonthRange(time.Date(2026, 12, 15, 0, 0, 0, 0, time.UTC), time.UTC)
	require.True(t, time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC).Equal(from))
	require.True(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC).Equal(to))
}
