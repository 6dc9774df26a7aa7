package membership

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/fatflowers/gymcore/internal/models"
	"github.com/fatflowers/gymcore/pkg/apperr"
	"github.com/fatflowers/gymcore/pkg/logctx"
	"github.com/fatflowers/gymcore/pkg/metrics"
	"github.com/fatflowers/gymcore/pkg/tool"
	"github.com/fatflowers/gymcore/pkg/types"
	"github.com/fatflowers/gymcore/pkg/validation"
)

type PlanRequest struct {
	Name         string          `json:"name" validate:"required,max=128"`
	Type         types.PlanType  `json:"type" validate:"required,oneof=DAILY WEEKLY MONTHLY QUARTERLY ANNUAL"`
	Price        decimal.Decimal `json:"price"`
	DurationDays int             `json:"duration_days" validate:"gt=0"`
	Benefits     []string        `json:"benefits" validate:"omitempty,dive,required"`
	// IsActive defaults to true on create; on update nil keeps the current value.
	IsActive *bool `json:"is_active"`
}

func (r *PlanRequest) validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	if r.Price.IsNegative() {
		return fmt.Errorf("%w: price must be at least 0", apperr.ErrValidation)
	}
	return nil
}

func (r *PlanRequest) apply(p *models.MembershipPlan) {
	p.Name = r.Name
	p.Type = r.Type
	p.Price = r.Price
	p.DurationDays = r.DurationDays
	p.Benefits = datatypes.JSONSlice[string](lo.Ternary(r.Benefits == nil, []string{}, r.Benefits))
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}
}

func (s *Service) ListPlans(ctx context.Context, includeInactive bool) ([]*models.MembershipPlan, error) {
	q := s.db.WithContext(ctx).Order("duration_days asc, name asc")
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	var plans []*models.MembershipPlan
	if err := q.Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}

func (s *Service) GetPlan(ctx context.Context, planID string) (*models.MembershipPlan, error) {
	return s.getPlan(ctx, s.db, planID)
}

func (s *Service) CreatePlan(ctx context.Context, req *PlanRequest) (*models.MembershipPlan, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	now := s.Now()
	p := &models.MembershipPlan{ID: tool.NewID(), IsActive: true, CreatedAt: now, UpdatedAt: now}
	req.apply(p)
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}
	logctx.FromCtx(ctx, s.log).Infow("plan created", "plan_id", p.ID, "name", p.Name, "duration_days", p.DurationDays)
	return p, nil
}

// UpdatePlan edits the plan only. Memberships already sold keep their dates and snapshot.
func (s *Service) UpdatePlan(ctx context.Context, planID string, req *PlanRequest) (*models.MembershipPlan, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	p, err := s.getPlan(ctx, s.db, planID)
	if err != nil {
		return nil, err
	}
	req.apply(p)
	p.UpdatedAt = s.Now()
	if err := s.db.WithContext(ctx).Save(p).Error; err != nil {
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}
	logctx.FromCtx(ctx, s.log).Infow("plan updated", "plan_id", p.ID)
	return p, nil
}

// DeletePlan soft-deletes a plan. It fails with Conflict while any membership on the plan is
// effectively active; expired-but-stored-ACTIVE memberships do not block it.
func (s *Service) DeletePlan(ctx context.Context, planID string) (err error) {
	defer func() { metrics.ObserveMembershipOp("delete_plan", err) }()
	p, err := s.getPlan(ctx, s.db, planID)
	if err != nil {
		return err
	}

	var candidates []*models.Membership
	if err := s.db.WithContext(ctx).
		Where("plan_id = ? AND status = ?", planID, types.MembershipStatusActive).
		Find(&candidates).Error; err != nil {
		return fmt.Errorf("failed to list plan memberships: %w", err)
	}
	now := s.Now()
	if active := lo.CountBy(candidates, func(m *models.Membership) bool { return IsEffectivelyActive(m, now) }); active > 0 {
		return fmt.Errorf("plan %s has %d active memberships: %w", planID, active, apperr.ErrConflict)
	}

	if !p.IsActive {
		return nil
	}
	if err := s.db.WithContext(ctx).Model(p).Updates(map[string]any{"is_active": false, "updated_at": now}).Error; err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	logctx.FromCtx(ctx, s.log).Infow("plan deleted", "plan_id", planID)
	return nil
}
