package membership

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/gymcore/internal/models"
	"github.com/fatflowers/gymcore/internal/platform/db/dbtest"
	"github.com/fatflowers/gymcore/pkg/tool"
	"github.com/fatflowers/gymcore/pkg/types"
)

var day0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *gorm.DB, *clockwork.FakeClock) {
	t.Helper()
	gdb := dbtest.New(t)
	clock := clockwork.NewFakeClockAt(day0)
	return NewService(gdb, zap.NewNop().Sugar(), clock, nil), gdb, clock
}

func seedUser(t *testing.T, gdb *gorm.DB) *models.User {
	t.Helper()
	u := &models.User{ID: tool.NewID(), Name: "Ana", Role: types.RoleClient, IsActive: true, CreatedAt: day0}
	require.NoError(t, gdb.Create(u).Error)
	return u
}

func seedPlan(t *testing.T, s *Service, durationDays int) *models.MembershipPlan {
	t.Helper()
	p, err := s.CreatePlan(context.Background(), &PlanRequest{
		Name:         "Monthly",
		Type:         types.PlanTypeMonthly,
		Price:        decimal.RequireFromString("49.90"),
		DurationDays: durationDays,
		Benefits:     []string{"gym floor", "lockers"},
	})
	require.NoError(t, err)
	return p
}

func countLogs(t *testing.T, gdb *gorm.DB, membershipID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, gdb.Model(&models.MembershipLog{}).Where("membership_id = ?", membershipID).Count(&n).Error)
	return n
}
