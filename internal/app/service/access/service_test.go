package access

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/gymcore/internal/app/service/membership"
	"github.com/fatflowers/gymcore/internal/models"
	"github.com/fatflowers/gymcore/internal/platform/db/dbtest"
	"github.com/fatflowers/gymcore/pkg/apperr"
	cfgpkg "github.com/fatflowers/gymcore/pkg/config"
	"github.com/fatflowers/gymcore/pkg/tool"
	"github.com/fatflowers/gymcore/pkg/types"
)

var start = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

type fixture struct {
	db          *gorm.DB
	clock       *clockwork.FakeClock
	memberships *membership.Service
	access      *Service
	plan        *models.MembershipPlan
}

func newFixture(t *testing.T, timezone string) *fixture {
	t.Helper()
	gdb := dbtest.New(t)
	clock := clockwork.NewFakeClockAt(start)
	log := zap.NewNop().Sugar()
	ms := membership.NewService(gdb, log, clock, nil)
	plan, err := ms.CreatePlan(context.Background(), &membership.PlanRequest{
		Name: "Monthly", Type: types.PlanTypeMonthly, Price: decimal.NewFromInt(40), DurationDays: 30,
	})
	require.NoError(t, err)
	cfg := &cfgpkg.Config{Gym: cfgpkg.GymConfig{Timezone: timezone}}
	return &fixture{db: gdb, clock: clock, memberships: ms, access: NewService(gdb, log, ms, cfg), plan: plan}
}

func (f *fixture) user(t *testing.T, active bool) *models.User {
	t.Helper()
	u := &models.User{ID: tool.NewID(), Name: "Luis", Role: types.RoleClient, IsActive: active, CreatedAt: start}
	require.NoError(t, f.db.Create(u).Error)
	return u
}

func (f *fixture) member(t *testing.T) *models.User {
	t.Helper()
	u := f.user(t, true)
	_, err := f.memberships.Create(context.Background(), &membership.CreateRequest{UserID: u.ID, PlanID: f.plan.ID})
	require.NoError(t, err)
	return u
}

func (f *fixture) openSessions(t *testing.T, userID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&models.CheckIn{}).Where("user_id = ? AND check_out_time IS NULL", userID).Count(&n).Error)
	return n
}

func TestCheckInCheckOutCycle(t *testing.T) {
	f := newFixture(t, "UTC")
	ctx := context.Background()
	u := f.member(t)

	first, err := f.access.CheckIn(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, first.CheckInTime.Equal(start))
	require.True(t, first.IsOpen())

	f.clock.Advance(10 * time.Minute)
	_, err = f.access.CheckIn(ctx, u.ID)
	require.ErrorIs(t, err, apperr.ErrSessionAlreadyOpen)

	f.clock.Advance(50 * time.Minute)
	closed, err := f.access.CheckOut(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, closed.CheckOutTime)
	require.True(t, closed.CheckOutTime.Equal(start.Add(time.Hour)))
	require.True(t, closed.CheckInTime.Equal(start))

	second, err := f.access.CheckIn(ctx, u.ID)
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	var total int64
	require.NoError(t, f.db.Model(&models.CheckIn{}).Where("user_id = ?", u.ID).Count(&total).Error)
	require.EqualValues(t, 2, total)
	require.EqualValues(t, 1, f.openSessions(t, u.ID))
}

func TestCheckOut_NotFound(t *testing.T) {
	f := newFixture(t, "UTC")
	ctx := context.Background()
	u := f.member(t)

	_, err := f.access.CheckOut(ctx, "missing")
	require.ErrorIs(t, err, apperr.ErrNotFound)

	ci, err := f.access.CheckIn(ctx, u.ID)
	require.NoError(t, err)
	_, err = f.access.CheckOut(ctx, ci.ID)
	require.NoError(t, err)
	_, err = f.access.CheckOut(ctx, ci.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.access.CheckOut(ctx, "")
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCheckIn_RequiresEffectivelyActiveMembership(t *testing.T) {
	f := newFixture(t, "UTC")
	ctx := context.Background()

	inactive := f.user(t, false)
	noMembership := f.user(t, true)

	suspended := f.member(t)
	cur, err := f.memberships.Current(ctx, suspended.ID)
	require.NoError(t, err)
	_, err = f.memberships.Suspend(ctx, cur.ID)
	require.NoError(t, err)

	cancelled := f.member(t)
	cur, err = f.memberships.Current(ctx, cancelled.ID)
	require.NoError(t, err)
	_, err = f.memberships.Cancel(ctx, cur.ID)
	require.NoError(t, err)

	tests := []struct {
		name   string
		userID string
		want   error
	}{
		{"unknown user", "ghost", apperr.ErrNotFound},
		{"empty user", "", apperr.ErrValidation},
		{"inactive user", inactive.ID, apperr.ErrMembershipInvalid},
		{"no membership", noMembership.ID, apperr.ErrMembershipInvalid},
		{"suspended", suspended.ID, apperr.ErrMembershipInvalid},
		{"cancelled", cancelled.ID, apperr.ErrMembershipInvalid},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.access.CheckIn(ctx, tc.userID)
			require.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestCheckIn_ExpiredMembership(t *testing.T) {
	f := newFixture(t, "UTC")
	ctx := context.Background()
	u := f.member(t)

	f.clock.Advance(31 * 24 * time.Hour)
	_, err := f.access.CheckIn(ctx, u.ID)
	require.ErrorIs(t, err, apperr.ErrMembershipInvalid)

	cur, err := f.memberships.Current(ctx, u.ID)
	require.NoError(t, err)
	_, err = f.memberships.Renew(ctx, cur.ID, &membership.RenewRequest{Days: 30})
	require.NoError(t, err)
	_, err = f.access.CheckIn(ctx, u.ID)
	require.NoError(t, err)
}

func TestCheckIn_ConcurrentCallsOpenOneSession(t *testing.T) {
	f := newFixture(t, "UTC")
	ctx := context.Background()
	u := f.member(t)

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.access.CheckIn(ctx, u.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, apperr.ErrSessionAlreadyOpen):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, rejected)
	assert.EqualValues(t, 1, f.openSessions(t, u.ID))
}

func TestIsInside_ScopedToGymDay(t *testing.T) {
	f := newFixture(t, "UTC")
	ctx := context.Background()
	u := f.member(t)

	inside, err := f.access.IsInside(ctx, u.ID)
	require.NoError(t, err)
	require.False(t, inside)

	ci, err := f.access.CheckIn(ctx, u.ID)
	require.NoError(t, err)
	inside, err = f.access.IsInside(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, inside)

	open, err := f.access.OpenSessionToday(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, ci.ID, open.ID)

	// left open overnight: no longer inside, yet the open row still blocks a new check-in
	f.clock.Advance(24 * time.Hour)
	inside, err = f.access.IsInside(ctx, u.ID)
	require.NoError(t, err)
	require.False(t, inside)
	_, err = f.access.CheckIn(ctx, u.ID)
	require.ErrorIs(t, err, apperr.ErrSessionAlreadyOpen)

	_, err = f.access.CheckOut(ctx, ci.ID)
	require.NoError(t, err)
	_, err = f.access.CheckIn(ctx, u.ID)
	require.NoError(t, err)
	inside, err = f.access.IsInside(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, inside)
}

func TestCheckIn_OvernightSessionClosedOnNextVisit(t *testing.T) {
	f := newFixture(t, "UTC")
	ctx := context.Background()
	u := f.member(t)

	stale, err := f.access.CheckIn(ctx, u.ID)
	require.NoError(t, err)
	f.clock.Advance(24 * time.Hour)

	today, err := f.access.OpenSessionToday(ctx, u.ID)
	require.NoError(t, err)
	require.Nil(t, today)
	openToday, err := f.access.ListOpenToday(ctx)
	require.NoError(t, err)
	require.Empty(t, openToday)

	_, err = f.access.CheckIn(ctx, u.ID)
	require.ErrorIs(t, err, apperr.ErrSessionAlreadyOpen)
	var openErr *SessionOpenError
	require.ErrorAs(t, err, &openErr)
	require.Equal(t, stale.ID, openErr.CheckInID)
	require.Equal(t, u.ID, openErr.UserID)
	require.True(t, openErr.CheckInTime.Equal(start))

	blocking, err := f.access.OpenSession(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, stale.ID, blocking.ID)

	closed, err := f.access.CheckOut(ctx, openErr.CheckInID)
	require.NoError(t, err)
	require.True(t, closed.CheckOutTime.Equal(start.Add(24*time.Hour)))

	fresh, err := f.access.CheckIn(ctx, u.ID)
	require.NoError(t, err)
	require.NotEqual(t, stale.ID, fresh.ID)
	blocking, err = f.access.OpenSession(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, fresh.ID, blocking.ID)
}

func TestOpenSession_NilWhenOutside(t *testing.T) {
	f := newFixture(t, "UTC")
	open, err := f.access.OpenSession(context.Background(), f.member(t).ID)
	require.NoError(t, err)
	require.Nil(t, open)
}

func TestIsInside_UsesGymTimezone(t *testing.T) {
	// 08:00 UTC on 2026-03-10 is 03:00 in Bogota (UTC-5)
	f := newFixture(t, "America/Bogota")
	ctx := context.Background()
	u := f.member(t)

	_, err := f.access.CheckIn(ctx, u.ID)
	require.NoError(t, err)

	// 22:00 UTC is 17:00 the same day in Bogota, though already late in the UTC day
	f.clock.Advance(14 * time.Hour)
	inside, err := f.access.IsInside(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, inside)

	// 05:30 UTC next day is 00:30 next day in Bogota
	f.clock.Advance(7*time.Hour + 30*time.Minute)
	inside, err = f.access.IsInside(ctx, u.ID)
	require.NoError(t, err)
	require.False(t, inside)
	require.True(t, time.Date(2026, 3, 11, 5, 0, 0, 0, time.UTC).Equal(f.access.StartOfToday()))
}

func TestListOpenToday(t *testing.T) {
	f := newFixture(t, "UTC")
	ctx := context.Background()
	a := f.member(t)
	b := f.member(t)
	c := f.member(t)

	_, err := f.access.CheckIn(ctx, a.ID)
	require.NoError(t, err)
	ci, err := f.access.CheckIn(ctx, b.ID)
	require.NoError(t, err)
	_, err = f.access.CheckOut(ctx, ci.ID)
	require.NoError(t, err)

	open, err := f.access.ListOpenToday(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)
	require.Contains(t, open, a.ID)
	require.NotContains(t, open, c.ID)
}
