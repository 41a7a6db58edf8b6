// service/badge_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Ricardo-Z-Li/access-control-system-sub000/dao"
	acs_errors "github.com/Ricardo-Z-Li/access-control-system-sub000/errors"
	logger "github.com/Ricardo-Z-Li/access-control-system-sub000/logging"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/model"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/util"
)

// IBadgeService defines the interface for badge lifecycle operations
type IBadgeService interface {
	CreateBadge(ctx context.Context, badge model.Badge) (*model.Badge, error)
	UpdateBadge(ctx context.Context, badge model.Badge) (*model.Badge, error)
	DeleteBadge(ctx context.Context, badgeID string) error
	GetBadge(ctx context.Context, badgeID string) (*model.Badge, error)
	ListBadges(ctx context.Context, limit int, offset int) ([]*model.Badge, error)
	CompleteRotation(ctx context.Context, badgeID string, rotationPeriodDays int) (*model.Badge, error)
}

// BadgeService handles business logic for badge operations
type BadgeService struct {
	badgeDAO        *dao.BadgeDAO
	validationUtil  *util.ValidationUtil
	cacheService    *util.CacheService
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
}

var _ IBadgeService = &BadgeService{}

func NewBadgeService(badgeDAO *dao.BadgeDAO, validationUtil *util.ValidationUtil, cacheService *util.CacheService, notificationSvc *util.NotificationService, eventBus *util.EventBus) *BadgeService {
	return &BadgeService{
		badgeDAO:        badgeDAO,
		validationUtil:  validationUtil,
		cacheService:    cacheService,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
	}
}

func (s *BadgeService) CreateBadge(ctx context.Context, badge model.Badge) (*model.Badge, error) {
	if err := s.validationUtil.ValidateBadge(badge); err != nil {
		return nil, fmt.Errorf("%w: %v", acs_errors.ErrInvalidBadgeData, err)
	}

	badgeID, err := s.badgeDAO.CreateBadge(ctx, badge)
	if err != nil {
		return nil, err
	}

	created, err := s.badgeDAO.GetBadge(ctx, badgeID)
	if err != nil {
		return nil, err
	}

	if err := s.cacheService.SetBadge(ctx, *created); err != nil {
		logger.Warn("Failed to cache created badge", zap.Error(err), zap.String("badgeID", badgeID))
	}
	return created, nil
}

func (s *BadgeService) UpdateBadge(ctx context.Context, badge model.Badge) (*model.Badge, error) {
	if err := s.validationUtil.ValidateBadge(badge); err != nil {
		return nil, fmt.Errorf("%w: %v", acs_errors.ErrInvalidBadgeData, err)
	}

	updated, err := s.badgeDAO.UpdateBadge(ctx, badge)
	if err != nil {
		return nil, err
	}

	if err := s.cacheService.DeleteBadge(ctx, badge.ID); err != nil {
		logger.Warn("Failed to invalidate badge cache", zap.Error(err), zap.String("badgeID", badge.ID))
	}
	return updated, nil
}

func (s *BadgeService) DeleteBadge(ctx context.Context, badgeID string) error {
	if err := s.badgeDAO.DeleteBadge(ctx, badgeID); err != nil {
		return err
	}
	if err := s.cacheService.DeleteBadge(ctx, badgeID); err != nil {
		logger.Warn("Failed to invalidate badge cache", zap.Error(err), zap.String("badgeID", badgeID))
	}
	return nil
}

func (s *BadgeService) GetBadge(ctx context.Context, badgeID string) (*model.Badge, error) {
	return s.badgeDAO.GetBadge(ctx, badgeID)
}

func (s *BadgeService) ListBadges(ctx context.Context, limit int, offset int) ([]*model.Badge, error) {
	return s.badgeDAO.ListBadges(ctx, limit, offset)
}

// CompleteRotation records a finished code rotation: the badge becomes
// current again and its next due date is scheduled out by the rotation
// period.
func (s *BadgeService) CompleteRotation(ctx context.Context, badgeID string, rotationPeriodDays int) (*model.Badge, error) {
	badge, err := s.badgeDAO.GetBadge(ctx, badgeID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	nextDue := now.Add(time.Duration(rotationPeriodDays) * 24 * time.Hour)
	badge.LastRotatedAt = &now
	badge.RotationDueAt = &nextDue
	badge.NeedsRotation = false
	if badge.Status == model.BadgeStatusDisabled {
		// A badge disabled for an overdue rotation comes back once rotated.
		badge.Status = model.BadgeStatusActive
	}

	updated, err := s.badgeDAO.UpdateBadge(ctx, *badge)
	if err != nil {
		return nil, err
	}
	if err := s.cacheService.DeleteBadge(ctx, badgeID); err != nil {
		logger.Warn("Failed to invalidate badge cache", zap.Error(err), zap.String("badgeID", badgeID))
	}

	logger.Info("Badge rotation completed",
		zap.String("badgeID", badgeID),
		zap.Time("nextDue", nextDue))
	return updated, nil
}
