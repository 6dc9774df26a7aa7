package access

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fatflowers/gymcore/internal/app/service/membership"
	"github.com/fatflowers/gymcore/internal/models"
	"github.com/fatflowers/gymcore/pkg/apperr"
	cfgpkg "github.com/fatflowers/gymcore/pkg/config"
	"github.com/fatflowers/gymcore/pkg/logctx"
	"github.com/fatflowers/gymcore/pkg/metrics"
	"github.com/fatflowers/gymcore/pkg/tool"
	"github.com/fatflowers/gymcore/pkg/types"
)

// Service tracks who is on the premises. Each user is either outside (no open check-in)
// or inside (exactly one open check-in); the partial unique index on check_ins keeps it so.
type Service struct {
	db          *gorm.DB
	log         *zap.SugaredLogger
	memberships *membership.Service
	loc         *time.Location
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, memberships *membership.Service, cfg *cfgpkg.Config) *Service {
	return &Service{db: db, log: log, memberships: memberships, loc: cfg.Location()}
}

// CheckIn opens a session for userID. The insert is a single conditional statement, so two
// concurrent calls for the same user cannot both succeed.
func (s *Service) CheckIn(ctx context.Context, userID string) (ci *models.CheckIn, err error) {
	defer func() { metrics.ObserveAccessEvent("check_in", err) }()
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", apperr.ErrValidation)
	}
	if err := s.ensureCanEnter(ctx, userID); err != nil {
		return nil, err
	}

	now := s.memberships.Now()
	ci = &models.CheckIn{ID: tool.NewID(), UserID: userID, CheckInTime: now, CreatedAt: now, UpdatedAt: now}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(ci)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to open check-in: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		open, err := s.OpenSession(ctx, userID)
		if err != nil {
			return nil, err
		}
		if open == nil {
			// closed between the insert and the lookup
			return nil, fmt.Errorf("user %s: %w", userID, apperr.ErrSessionAlreadyOpen)
		}
		return nil, &SessionOpenError{UserID: userID, CheckInID: open.ID, CheckInTime: open.CheckInTime}
	}
	logctx.FromCtx(ctx, s.log).Infow("check-in opened", "check_in_id", ci.ID, "user_id", userID)
	s.memberships.InvalidateDashboards(ctx)
	return ci, nil
}

// CheckOut closes an open session. Unknown ids and already closed sessions both yield NotFound.
func (s *Service) CheckOut(ctx context.Context, checkInID string) (ci *models.CheckIn, err error) {
	defer func() { metrics.ObserveAccessEvent("check_out", err) }()
	if checkInID == "" {
		return nil, fmt.Errorf("%w: check_in_id is required", apperr.ErrValidation)
	}

	now := s.memberships.Now()
	res := s.db.WithContext(ctx).Model(&models.CheckIn{}).
		Where("id = ? AND check_out_time IS NULL", checkInID).
		Updates(map[string]any{"check_out_time": now, "updated_at": now})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to close check-in: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("open check-in %s: %w", checkInID, apperr.ErrNotFound)
	}

	ci = &models.CheckIn{}
	if err := s.db.WithContext(ctx).Where("id = ?", checkInID).First(ci).Error; err != nil {
		return nil, fmt.Errorf("failed to load check-in: %w", err)
	}
	logctx.FromCtx(ctx, s.log).Infow("check-in closed", "check_in_id", ci.ID, "user_id", ci.UserID)
	s.memberships.InvalidateDashboards(ctx)
	return ci, nil
}

// IsInside reports whether userID has a session opened today that is still open.
func (s *Service) IsInside(ctx context.Context, userID string) (bool, error) {
	ci, err := s.OpenSessionToday(ctx, userID)
	if err != nil {
		return false, err
	}
	return ci != nil, nil
}

// OpenSessionToday returns the user's open check-in if it started today in the gym's time
// zone, nil otherwise. A session left open since yesterday is not reported.
func (s *Service) OpenSessionToday(ctx context.Context, userID string) (*models.CheckIn, error) {
	var ci models.CheckIn
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND check_out_time IS NULL AND check_in_time >= ?", userID, s.StartOfToday()).
		First(&ci).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get open check-in: %w", err)
	}
	return &ci, nil
}

// OpenSession returns the user's open check-in whatever day it started on, nil when the user
// is outside. This is the row that blocks a new check-in.
func (s *Service) OpenSession(ctx context.Context, userID string) (*models.CheckIn, error) {
	var ci models.CheckIn
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND check_out_time IS NULL", userID).
		First(&ci).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get open check-in: %w", err)
	}
	return &ci, nil
}

// ListOpenToday returns every session opened today and still open, keyed by user id.
func (s *Service) ListOpenToday(ctx context.Context) (map[string]*models.CheckIn, error) {
	var items []*models.CheckIn
	if err := s.db.WithContext(ctx).
		Where("check_out_time IS NULL AND check_in_time >= ?", s.StartOfToday()).
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list open check-ins: %w", err)
	}
	open := make(map[string]*models.CheckIn, len(items))
	for _, ci := range items {
		open[ci.UserID] = ci
	}
	return open, nil
}

// StartOfToday is midnight of the current gym day, in UTC.
func (s *Service) StartOfToday() time.Time {
	return tool.StartOfDay(s.memberships.Now(), s.loc)
}

func (s *Service) ensureCanEnter(ctx context.Context, userID string) error {
	var u models.User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %s: %w", userID, apperr.ErrNotFound)
		}
		return fmt.Errorf("failed to get user: %w", err)
	}
	if !u.IsActive {
		return fmt.Errorf("user %s is inactive: %w", userID, apperr.ErrMembershipInvalid)
	}
	m, err := s.memberships.Current(ctx, userID)
	if err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("user %s has no membership: %w", userID, apperr.ErrMembershipInvalid)
	}
	if status := membership.ComputeEffectiveStatus(m, s.memberships.Now()); status != types.MembershipStatusActive {
		return fmt.Errorf("membership %s is %s: %w", m.ID, status, apperr.ErrMembershipInvalid)
	}
	return nil
}
