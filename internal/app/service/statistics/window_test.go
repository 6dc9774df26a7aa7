package statistics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fatflowers/gymcore/pkg/apperr"
)

func TestResolveWindow(t *testing.T) {
	from := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		req        *DashboardRequest
		wantWindow Window
		wantRange  Range
	}{
		{"default", nil, WindowThisMonth, Range{time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)}},
		{"today", &DashboardRequest{Window: WindowToday}, WindowToday, Range{time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC), time.Date(2026, 6, 16, 0, 0, 0, 0, time.UTC)}},
		{"last month", &DashboardRequest{Window: WindowLastMonth}, WindowLastMonth, Range{time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)}},
		{"custom", &DashboardRequest{Window: WindowCustom, From: &from, To: &to}, WindowCustom, Range{from, to}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w, r, err := resolveWindow(tc.req, now, time.UTC)
			require.NoError(t, err)
			require.Equal(t, tc.wantWindow, w)
			require.True(t, tc.wantRange.From.Equal(r.From), "from %s", r.From)
			require.True(t, tc.wantRange.To.Equal(r.To), "to %s", r.To)
		})
	}
}

func TestResolveWindow_Invalid(t *testing.T) {
	from := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		req  *DashboardRequest
	}{
		{"unknown window", &DashboardRequest{Window: "yesterday"}},
		{"custom without bounds", &DashboardRequest{Window: WindowCustom}},
		{"custom with empty range", &DashboardRequest{Window: WindowCustom, From: &from, To: &from}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := resolveWindow(tc.req, now, time.UTC)
			require.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}
