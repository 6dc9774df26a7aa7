package statistics

import (
	"fmt"
	"time"

	"github.com/fatflowers/gymcore/pkg/apperr"
	"github.com/fatflowers/gymcore/pkg/tool"
	"github.com/fatflowers/gymcore/pkg/validation"
)

type Window string

const (
	WindowToday     Window = "today"
	WindowThisMonth Window = "this_month"
	WindowLastMonth Window = "last_month"
	WindowCustom    Window = "custom"
)

// DashboardRequest selects the window for the windowed figures. An empty Window means
// this_month; custom requires From < To.
type DashboardRequest struct {
	Window Window     `json:"window" validate:"omitempty,oneof=today this_month last_month custom"`
	From   *time.Time `json:"from" validate:"required_if=Window custom"`
	To     *time.Time `json:"to" validate:"required_if=Window custom"`
}

// Range is a half-open [From, To) interval in UTC.
type Range struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

func resolveWindow(req *DashboardRequest, now time.Time, loc *time.Location) (Window, Range, error) {
	if req == nil {
		req = &DashboardRequest{}
	}
	if err := validation.Struct(req); err != nil {
		return "", Range{}, err
	}
	switch req.Window {
	case WindowToday:
		from, to := tool.DayRange(now, loc)
		return WindowToday, Range{From: from, To: to}, nil
	case "", WindowThisMonth:
		from, to := tool.MonthRange(now, loc)
		return WindowThisMonth, Range{From: from, To: to}, nil
	case WindowLastMonth:
		thisMonth, _ := tool.MonthRange(now, loc)
		from, to := tool.MonthRange(thisMonth.Add(-time.Nanosecond), loc)
		return WindowLastMonth, Range{From: from, To: to}, nil
	case WindowCustom:
		if !req.From.Before(*req.To) {
			return "", Range{}, fmt.Errorf("%w: from must be before to", apperr.ErrValidation)
		}
		return WindowCustom, Range{From: req.From.UTC(), To: req.To.UTC()}, nil
	}
	return "", Range{}, fmt.Errorf("%w: unknown window %q", apperr.ErrValidation, req.Window)
}
