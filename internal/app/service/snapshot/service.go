package snapshot

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/gymcore/internal/app/service/access"
	"github.com/fatflowers/gymcore/internal/app/service/membership"
	"github.com/fatflowers/gymcore/internal/models"
	"github.com/fatflowers/gymcore/pkg/apperr"
	"github.com/fatflowers/gymcore/pkg/types"
)

// Service composes read-only member views. The reads behind one snapshot are independent,
// so a concurrent write may show up in one part and not yet in another.
type Service struct {
	db          *gorm.DB
	log         *zap.SugaredLogger
	memberships *membership.Service
	access      *access.Service
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, memberships *membership.Service, access *access.Service) *Service {
	return &Service{db: db, log: log, memberships: memberships, access: access}
}

func (s *Service) ComposeMemberSnapshot(ctx context.Context, userID string) (*MemberSnapshot, error) {
	now := s.memberships.Now()

	var u models.User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", userID, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	current, err := s.memberships.Current(ctx, userID)
	if err != nil {
		return nil, err
	}
	var plan *models.MembershipPlan
	if current != nil {
		plan, err = s.memberships.GetPlan(ctx, current.PlanID)
		if errors.Is(err, apperr.ErrNotFound) {
			plan, err = nil, nil
		}
		if err != nil {
			return nil, err
		}
	}

	open, err := s.access.OpenSessionToday(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Compose(&u, current, plan, open, now), nil
}

// ListMemberSnapshots composes a snapshot for every client, ordered by name.
func (s *Service) ListMemberSnapshots(ctx context.Context) ([]*MemberSnapshot, error) {
	now := s.memberships.Now()

	var users []*models.User
	if err := s.db.WithContext(ctx).
		Where("role = ?", types.RoleClient).
		Order("name asc, id asc").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	memberships, err := s.memberships.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	plans, err := s.memberships.ListPlans(ctx, true)
	if err != nil {
		return nil, err
	}
	open, err := s.access.ListOpenToday(ctx)
	if err != nil {
		return nil, err
	}
	return ComposeAll(users, memberships, plans, open, now), nil
}
