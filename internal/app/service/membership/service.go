package membership

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fatflowers/gymcore/internal/models"
	"github.com/fatflowers/gymcore/pkg/apperr"
	"github.com/fatflowers/gymcore/pkg/cache"
	"github.com/fatflowers/gymcore/pkg/logctx"
	"github.com/fatflowers/gymcore/pkg/metrics"
	"github.com/fatflowers/gymcore/pkg/tool"
	"github.com/fatflowers/gymcore/pkg/types"
	"github.com/fatflowers/gymcore/pkg/validation"
)

type CreateRequest struct {
	UserID      string `json:"user_id" validate:"required"`
	PlanID      string `json:"plan_id" validate:"required"`
	AutoRenewal bool   `json:"auto_renewal"`
}

// RenewRequest extends a membership by either Months or Days, never both.
type RenewRequest struct {
	Months int `json:"months" validate:"gte=0,lte=120"`
	Days   int `json:"days" validate:"gte=0,lte=3650"`
}

func (r *RenewRequest) validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	if (r.Months > 0) == (r.Days > 0) {
		return fmt.Errorf("%w: exactly one of months or days must be positive", apperr.ErrValidation)
	}
	return nil
}

// Service owns membership plans and memberships. It is the only writer of both tables.
type Service struct {
	db    *gorm.DB
	log   *zap.SugaredLogger
	clock clockwork.Clock
	cache *cache.Cache
}

// NewService builds the service. c may be nil when no dashboard cache is configured.
func NewService(db *gorm.DB, log *zap.SugaredLogger, clock clockwork.Clock, c *cache.Cache) *Service {
	return &Service{db: db, log: log, clock: clock, cache: c}
}

// Now is the service clock in UTC. Everything persisted by the core is UTC.
func (s *Service) Now() time.Time {
	return s.clock.Now().UTC()
}

// Create sells a new membership starting now. Payment is assumed to be confirmed by the caller.
func (s *Service) Create(ctx context.Context, req *CreateRequest) (m *models.Membership, err error) {
	defer func() { metrics.ObserveMembershipOp("create", err) }()
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if _, err := s.getUser(ctx, s.db, req.UserID); err != nil {
		return nil, err
	}
	plan, err := s.getPlan(ctx, s.db, req.PlanID)
	if err != nil {
		return nil, err
	}
	if !plan.IsActive {
		return nil, fmt.Errorf("plan %s is inactive: %w", req.PlanID, apperr.ErrNotFound)
	}

	now := s.Now()
	m = &models.Membership{
		ID:          tool.NewID(),
		UserID:      req.UserID,
		PlanID:      plan.ID,
		PlanName:    plan.Name,
		PricePaid:   plan.Price,
		StartDate:   now,
		EndDate:     now.AddDate(0, 0, plan.DurationDays),
		Status:      types.MembershipStatusActive,
		AutoRenewal: req.AutoRenewal,
		CreatedAt:   now,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.saveWithLog(ctx, tx, nil, m, types.MembershipChangeReasonCreate)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create membership: %w", err)
	}
	logctx.FromCtx(ctx, s.log).Infow("membership created", "membership_id", m.ID, "user_id", m.UserID, "plan_id", m.PlanID, "end_date", m.EndDate)
	s.InvalidateDashboards(ctx)
	return m, nil
}

// Renew extends the stored end date, not now, and re-activates the membership.
func (s *Service) Renew(ctx context.Context, membershipID string, req *RenewRequest) (m *models.Membership, err error) {
	defer func() { metrics.ObserveMembershipOp("renew", err) }()
	if err := req.validate(); err != nil {
		return nil, err
	}
	return s.mutate(ctx, membershipID, types.MembershipChangeReasonRenew, func(m *models.Membership) (bool, error) {
		m.EndDate = m.EndDate.AddDate(0, req.Months, req.Days)
		m.Status = types.MembershipStatusActive
		return true, nil
	})
}

// Cancel is idempotent: an already cancelled membership is returned untouched.
func (s *Service) Cancel(ctx context.Context, membershipID string) (m *models.Membership, err error) {
	defer func() { metrics.ObserveMembershipOp("cancel", err) }()
	return s.mutate(ctx, membershipID, types.MembershipChangeReasonCancel, func(m *models.Membership) (bool, error) {
		if m.Status == types.MembershipStatusCancelled {
			return false, nil
		}
		m.Status = types.MembershipStatusCancelled
		return true, nil
	})
}

func (s *Service) Suspend(ctx context.Context, membershipID string) (m *models.Membership, err error) {
	defer func() { metrics.ObserveMembershipOp("suspend", err) }()
	return s.mutate(ctx, membershipID, types.MembershipChangeReasonSuspend, func(m *models.Membership) (bool, error) {
		switch m.Status {
		case types.MembershipStatusSuspended:
			return false, nil
		case types.MembershipStatusActive:
			m.Status = types.MembershipStatusSuspended
			return true, nil
		default:
			return false, fmt.Errorf("cannot suspend %s membership: %w", m.Status, apperr.ErrConflict)
		}
	})
}

func (s *Service) Resume(ctx context.Context, membershipID string) (m *models.Membership, err error) {
	defer func() { metrics.ObserveMembershipOp("resume", err) }()
	return s.mutate(ctx, membershipID, types.MembershipChangeReasonResume, func(m *models.Membership) (bool, error) {
		switch m.Status {
		case types.MembershipStatusActive:
			return false, nil
		case types.MembershipStatusSuspended:
			m.Status = types.MembershipStatusActive
			return true, nil
		default:
			return false, fmt.Errorf("cannot resume %s membership: %w", m.Status, apperr.ErrConflict)
		}
	})
}

// Current returns the user's current membership, or nil when the user never had one.
func (s *Service) Current(ctx context.Context, userID string) (*models.Membership, error) {
	var m models.Membership
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date desc, created_at desc, id desc").
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get current membership: %w", err)
	}
	return &m, nil
}

// History lists every membership of a user, current first.
func (s *Service) History(ctx context.Context, userID string) ([]*models.Membership, error) {
	if _, err := s.getUser(ctx, s.db, userID); err != nil {
		return nil, err
	}
	var items []*models.Membership
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date desc, created_at desc, id desc").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	return items, nil
}

// ListAll returns every membership; callers reduce it with CurrentByUser.
func (s *Service) ListAll(ctx context.Context) ([]*models.Membership, error) {
	var items []*models.Membership
	if err := s.db.WithContext(ctx).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	return items, nil
}

// mutate loads the membership under a row lock, applies change and persists it together with its log row.
// change returns false when there is nothing to write.
func (s *Service) mutate(ctx context.Context, membershipID string, reason types.MembershipChangeReason, change func(*models.Membership) (bool, error)) (*models.Membership, error) {
	if membershipID == "" {
		return nil, fmt.Errorf("%w: membership_id is required", apperr.ErrValidation)
	}
	var after *models.Membership
	changed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var original models.Membership
		if err := lockForUpdate(tx.WithContext(ctx)).Where("id = ?", membershipID).First(&original).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("membership %s: %w", membershipID, apperr.ErrNotFound)
			}
			return fmt.Errorf("failed to load membership: %w", err)
		}
		before := original
		m := original
		ok, err := change(&m)
		if err != nil {
			return err
		}
		after = &m
		if !ok {
			return nil
		}
		changed = true
		return s.saveWithLog(ctx, tx, &before, &m, reason)
	})
	if err != nil {
		return nil, err
	}
	if changed {
		logctx.FromCtx(ctx, s.log).Infow("membership updated", "membership_id", after.ID, "reason", reason, "status", after.Status, "end_date", after.EndDate)
		s.InvalidateDashboards(ctx)
	}
	return after, nil
}

// InvalidateDashboards drops cached dashboards after a write that changes their figures.
// Failures are logged only; cached entries expire on their own.
func (s *Service) InvalidateDashboards(ctx context.Context) {
	if err := s.cache.InvalidatePrefix(ctx, cache.DashboardScope); err != nil {
		logctx.FromCtx(ctx, s.log).Warnw("dashboard cache invalidation failed", "err", err)
	}
}

// Data access helpers.

// lockForUpdate makes concurrent read-modify-write cycles on the same row queue up, so two
// renewals both extend the end date. sqlite has no row locks and serializes writers anyway.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func (s *Service) saveWithLog(ctx context.Context, tx *gorm.DB, before, after *models.Membership, reason types.MembershipChangeReason) error {
	after.UpdatedAt = s.Now()
	write := tx.WithContext(ctx).Save
	if before == nil {
		write = tx.WithContext(ctx).Create
	}
	if err := write(after).Error; err != nil {
		return fmt.Errorf("failed to save membership: %w", err)
	}
	entry := &models.MembershipLog{
		ID:           tool.NewID(),
		MembershipID: after.ID,
		UserID:       after.UserID,
		Reason:       reason,
		Before:       datatypes.NewJSONType(before),
		After:        datatypes.NewJSONType(after),
		CreatedAt:    s.Now(),
	}
	if err := tx.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to save membership log: %w", err)
	}
	return nil
}

func (s *Service) getUser(ctx context.Context, db *gorm.DB, userID string) (*models.User, error) {
	var u models.User
	if err := db.WithContext(ctx).Where("id = ?", userID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", userID, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (s *Service) getPlan(ctx context.Context, db *gorm.DB, planID string) (*models.MembershipPlan, error) {
	var p models.MembershipPlan
	if err := db.WithContext(ctx).Where("id = ?", planID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("plan %s: %w", planID, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return &p, nil
}
