package statistics

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/fatflowers/gymcore/internal/app/service/membership"
	"github.com/fatflowers/gymcore/internal/models"
	"github.com/fatflowers/gymcore/pkg/cache"
	cfgpkg "github.com/fatflowers/gymcore/pkg/config"
	"github.com/fatflowers/gymcore/pkg/logctx"
	"github.com/fatflowers/gymcore/pkg/metrics"
	"github.com/fatflowers/gymcore/pkg/tool"
	"github.com/fatflowers/gymcore/pkg/types"
)

type MemberStats struct {
	Total   int64 `json:"total"`
	Active  int64 `json:"active"`
	Expired int64 `json:"expired"`
	New     int64 `json:"new"`
}

type RevenueStats struct {
	Window        decimal.Decimal `json:"window"`
	ThisMonth     decimal.Decimal `json:"this_month"`
	LastMonth     decimal.Decimal `json:"last_month"`
	GrowthPercent float64         `json:"growth_percent"`
}

type AttendanceStats struct {
	Today     int64 `json:"today"`
	ThisMonth int64 `json:"this_month"`
	Window    int64 `json:"window"`
}

type Dashboard struct {
	Window         Window          `json:"window"`
	Range          Range           `json:"range"`
	Members        MemberStats     `json:"members"`
	Revenue        RevenueStats    `json:"revenue"`
	Attendance     AttendanceStats `json:"attendance"`
	LowStock       int64           `json:"low_stock"`
	PeakHours      []HourCount     `json:"peak_hours"`
	RecentActivity []ActivityItem  `json:"recent_activity"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

// Service computes dashboard aggregates. Every section is an independent read; they run
// concurrently and are not isolated from each other.
type Service struct {
	db          *gorm.DB
	log         *zap.SugaredLogger
	memberships *membership.Service
	cache       *cache.Cache
	ttl         time.Duration
	loc         *time.Location
}

func New(db *gorm.DB, log *zap.SugaredLogger, memberships *membership.Service, c *cache.Cache, cfg *cfgpkg.Config) *Service {
	return &Service{
		db:          db,
		log:         log,
		memberships: memberships,
		cache:       c,
		ttl:         cfg.Redis.StatsTTL,
		loc:         cfg.Location(),
	}
}

// Dashboard returns the figures for the requested window. Results may be served from the
// cache for up to the configured TTL; cache failures only get logged.
func (s *Service) Dashboard(ctx context.Context, req *DashboardRequest) (*Dashboard, error) {
	start := time.Now()
	defer metrics.ObserveBusinessProcess("statistics", "dashboard", start)

	now := s.memberships.Now()
	window, rng, err := resolveWindow(req, now, s.loc)
	if err != nil {
		return nil, err
	}

	key := cache.Key(cache.DashboardScope, string(window), strconv.FormatInt(rng.From.Unix(), 10), strconv.FormatInt(rng.To.Unix(), 10))
	var cached Dashboard
	if found, err := s.cache.Get(ctx, key, &cached); err != nil {
		logctx.FromCtx(ctx, s.log).Warnw("dashboard cache read failed", "key", key, "err", err)
	} else if found {
		return &cached, nil
	}

	d, err := s.compute(ctx, window, rng, now)
	if err != nil {
		return nil, err
	}
	if s.ttl > 0 {
		if err := s.cache.Set(ctx, key, d, s.ttl); err != nil {
			logctx.FromCtx(ctx, s.log).Warnw("dashboard cache write failed", "key", key, "err", err)
		}
	}
	return d, nil
}

func (s *Service) compute(ctx context.Context, window Window, rng Range, now time.Time) (*Dashboard, error) {
	d := &Dashboard{Window: window, Range: rng, GeneratedAt: now}
	todayFrom, todayTo := tool.DayRange(now, s.loc)
	monthFrom, monthTo := tool.MonthRange(now, s.loc)
	lastFrom, lastTo := tool.MonthRange(monthFrom.Add(-time.Nanosecond), s.loc)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := s.memberStats(gctx, rng, now)
		if err != nil {
			return err
		}
		d.Members = stats
		return nil
	})
	g.Go(func() (err error) {
		d.Revenue.Window, err = s.sumSales(gctx, rng.From, rng.To)
		return err
	})
	g.Go(func() (err error) {
		d.Revenue.ThisMonth, err = s.sumSales(gctx, monthFrom, monthTo)
		return err
	})
	g.Go(func() (err error) {
		d.Revenue.LastMonth, err = s.sumSales(gctx, lastFrom, lastTo)
		return err
	})
	g.Go(func() (err error) {
		d.Attendance.Today, err = s.countCheckIns(gctx, todayFrom, todayTo)
		return err
	})
	g.Go(func() (err error) {
		d.Attendance.ThisMonth, err = s.countCheckIns(gctx, monthFrom, monthTo)
		return err
	})
	g.Go(func() (err error) {
		d.Attendance.Window, err = s.countCheckIns(gctx, rng.From, rng.To)
		return err
	})
	g.Go(func() (err error) {
		d.LowStock, err = s.countLowStock(gctx)
		return err
	})
	g.Go(func() error {
		times, err := s.checkInTimesSince(gctx, now.Add(-peakHoursLookback))
		if err != nil {
			return err
		}
		d.PeakHours = PeakHours(times, s.loc, peakHoursTop)
		return nil
	})
	g.Go(func() error {
		sales, err := s.recentSales(gctx, recentSalesSample)
		if err != nil {
			return err
		}
		checkIns, err := s.recentCheckIns(gctx, recentCheckInSample)
		if err != nil {
			return err
		}
		d.RecentActivity = RecentActivity(sales, checkIns, recentActivityLimit)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to compute dashboard: %w", err)
	}
	d.Revenue.GrowthPercent = GrowthPercent(d.Revenue.ThisMonth, d.Revenue.LastMonth)
	return d, nil
}

// Data access helpers.
func (s *Service) memberStats(ctx context.Context, rng Range, now time.Time) (MemberStats, error) {
	var clientIDs []string
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("role = ?", types.RoleClient).
		Pluck("id", &clientIDs).Error; err != nil {
		return MemberStats{}, fmt.Errorf("failed to list clients: %w", err)
	}
	var fresh int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("role = ? AND created_at >= ? AND created_at < ?", types.RoleClient, rng.From, rng.To).
		Count(&fresh).Error; err != nil {
		return MemberStats{}, fmt.Errorf("failed to count new clients: %w", err)
	}
	all, err := s.memberships.ListAll(ctx)
	if err != nil {
		return MemberStats{}, err
	}
	active, expired := CountMembers(clientIDs, all, now)
	return MemberStats{Total: int64(len(clientIDs)), Active: active, Expired: expired, New: fresh}, nil
}

func (s *Service) sumSales(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	if err := s.db.WithContext(ctx).Model(&models.Sale{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Pluck("amount", &amounts).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum sales: %w", err)
	}
	return SumAmounts(amounts), nil
}

func (s *Service) countCheckIns(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.CheckIn{}).
		Where("check_in_time >= ? AND check_in_time < ?", from, to).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count check-ins: %w", err)
	}
	return n, nil
}

func (s *Service) countLowStock(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("is_active = ? AND stock <= min_stock", true).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count low stock products: %w", err)
	}
	return n, nil
}

func (s *Service) checkInTimesSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	var items []*models.CheckIn
	if err := s.db.WithContext(ctx).
		Select("check_in_time").
		Where("check_in_time >= ?", since).
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list check-ins: %w", err)
	}
	times := make([]time.Time, 0, len(items))
	for _, ci := range items {
		times = append(times, ci.CheckInTime)
	}
	return times, nil
}

func (s *Service) recentSales(ctx context.Context, limit int) ([]*models.Sale, error) {
	var items []*models.Sale
	if err := s.db.WithContext(ctx).Order("created_at desc, id desc").Limit(limit).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list recent sales: %w", err)
	}
	return items, nil
}

func (s *Service) recentCheckIns(ctx context.Context, limit int) ([]*models.CheckIn, error) {
	var items []*models.CheckIn
	if err := s.db.WithContext(ctx).Order("check_in_time desc, id desc").Limit(limit).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list recent check-ins: %w", err)
	}
	return items, nil
}
