// service/profile_service.go
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Ricardo-Z-Li/access-control-system-sub000/dao"
	acs_errors "github.com/Ricardo-Z-Li/access-control-system-sub000/errors"
	logger "github.com/Ricardo-Z-Li/access-control-system-sub000/logging"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/model"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/timerule"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/util"
)

// IProfileService defines the interface for access profile operations
type IProfileService interface {
	CreateProfile(ctx context.Context, profile model.AccessProfile) (*model.AccessProfile, error)
	UpdateProfile(ctx context.Context, profile model.AccessProfile) (*model.AccessProfile, error)
	DeleteProfile(ctx context.Context, profileID string) error
	GetProfile(ctx context.Context, profileID string) (*model.AccessProfile, error)
	ListProfiles(ctx context.Context, limit int, offset int) ([]*model.AccessProfile, error)
	ValidateTimeRule(raw string) error
}

// ProfileService handles business logic for access profile operations
type ProfileService struct {
	profileDAO      *dao.ProfileDAO
	validationUtil  *util.ValidationUtil
	cacheService    *util.CacheService
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
}

var _ IProfileService = &ProfileService{}

func NewProfileService(profileDAO *dao.ProfileDAO, validationUtil *util.ValidationUtil, cacheService *util.CacheService, notificationSvc *util.NotificationService, eventBus *util.EventBus) *ProfileService {
	return &ProfileService{
		profileDAO:      profileDAO,
		validationUtil:  validationUtil,
		cacheService:    cacheService,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
	}
}

func (s *ProfileService) CreateProfile(ctx context.Context, profile model.AccessProfile) (*model.AccessProfile, error) {
	if err := s.validationUtil.ValidateProfile(profile); err != nil {
		return nil, fmt.Errorf("%w: %v", acs_errors.ErrInvalidProfileData, err)
	}

	profileID, err := s.profileDAO.CreateProfile(ctx, profile)
	if err != nil {
		return nil, err
	}

	created, err := s.profileDAO.GetProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	if err := s.cacheService.SetProfile(ctx, *created); err != nil {
		logger.Warn("Failed to cache created profile", zap.Error(err), zap.String("profileID", profileID))
	}
	if err := s.notificationSvc.NotifyProfileChange(ctx, "created", *created); err != nil {
		logger.Warn("Failed to send profile creation notification", zap.Error(err))
	}
	return created, nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, profile model.AccessProfile) (*model.AccessProfile, error) {
	if err := s.validationUtil.ValidateProfile(profile); err != nil {
		return nil, fmt.Errorf("%w: %v", acs_errors.ErrInvalidProfileData, err)
	}

	updated, err := s.profileDAO.UpdateProfile(ctx, profile)
	if err != nil {
		return nil, err
	}

	if err := s.cacheService.DeleteProfile(ctx, profile.ID); err != nil {
		logger.Warn("Failed to invalidate profile cache", zap.Error(err), zap.String("profileID", profile.ID))
	}
	if err := s.notificationSvc.NotifyProfileChange(ctx, "updated", *updated); err != nil {
		logger.Warn("Failed to send profile update notification", zap.Error(err))
	}
	return updated, nil
}

func (s *ProfileService) DeleteProfile(ctx context.Context, profileID string) error {
	if err := s.profileDAO.DeleteProfile(ctx, profileID); err != nil {
		return err
	}
	if err := s.cacheService.DeleteProfile(ctx, profileID); err != nil {
		logger.Warn("Failed to invalidate profile cache", zap.Error(err), zap.String("profileID", profileID))
	}
	if err := s.notificationSvc.NotifyProfileChange(ctx, "deleted", model.AccessProfile{ID: profileID}); err != nil {
		logger.Warn("Failed to send profile deletion notification", zap.Error(err))
	}
	return nil
}

func (s *ProfileService) GetProfile(ctx context.Context, profileID string) (*model.AccessProfile, error) {
	if cached, err := s.cacheService.GetProfile(ctx, profileID); err == nil && cached != nil {
		return cached, nil
	}
	return s.profileDAO.GetProfile(ctx, profileID)
}

func (s *ProfileService) ListProfiles(ctx context.Context, limit int, offset int) ([]*model.AccessProfile, error) {
	return s.profileDAO.ListProfiles(ctx, limit, offset)
}

// ValidateTimeRule checks a single time-rule expression without touching
// any profile. Used by the administrative rule editor.
func (s *ProfileService) ValidateTimeRule(raw string) error {
	_, err := timerule.Parse(raw)
	return err
}
