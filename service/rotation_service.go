// service/rotation_service.go
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	logger "github.com/Ricardo-Z-Li/access-control-system-sub000/logging"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/model"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/pdp/engine"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/util"
)

// BadgeStatusUpdater flips a badge's lifecycle status in the backing store.
type BadgeStatusUpdater interface {
	UpdateBadgeStatus(ctx context.Context, badgeID string, status model.BadgeStatus) error
}

// RotationService decides whether a badge's embedded code is current,
// inside its update grace window, or overdue. An overdue badge is disabled
// on the spot so it stops working everywhere, not just at the reader that
// caught it.
type RotationService struct {
	directory       engine.Directory
	statusUpdater   BadgeStatusUpdater
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
	gracePeriod     time.Duration
}

var _ engine.RotationEvaluator = &RotationService{}

func NewRotationService(
	directory engine.Directory,
	statusUpdater BadgeStatusUpdater,
	notificationSvc *util.NotificationService,
	eventBus *util.EventBus,
	graceDays int,
) *RotationService {
	return &RotationService{
		directory:       directory,
		statusUpdater:   statusUpdater,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
		gracePeriod:     time.Duration(graceDays) * 24 * time.Hour,
	}
}

func (s *RotationService) EvaluateRotationStatus(ctx context.Context, badgeID string, asOf time.Time) (model.RotationStatus, error) {
	badge, err := s.directory.LookupBadge(ctx, badgeID)
	if err != nil {
		return "", err
	}
	if badge == nil {
		// The caller resolved this badge moments ago; treat a vanished
		// badge as current rather than inventing a failure mode.
		return model.RotationOK, nil
	}

	if badge.RotationDueAt == nil {
		if badge.NeedsRotation {
			return model.RotationUpdateRequired, nil
		}
		return model.RotationOK, nil
	}

	due := *badge.RotationDueAt
	if asOf.Before(due) && !badge.NeedsRotation {
		return model.RotationOK, nil
	}

	if asOf.After(due.Add(s.gracePeriod)) {
		s.disableOverdueBadge(ctx, badge)
		return model.RotationUpdateOverdue, nil
	}

	return model.RotationUpdateRequired, nil
}

// FlagRotationDue marks badges whose rotation deadline has passed, so the
// next swipe surfaces the update requirement. Called by the maintenance
// loop.
func (s *RotationService) FlagRotationDue(ctx context.Context, badge *model.Badge) error {
	if s.statusUpdater == nil {
		return nil
	}

	s.eventBus.Publish(ctx, util.EventBadgeRotationDue, *badge)
	if err := s.notificationSvc.NotifyBadgeRotationDue(ctx, *badge); err != nil {
		logger.Warn("Failed to send rotation due notification",
			zap.Error(err), zap.String("badgeID", badge.ID))
	}
	return nil
}

func (s *RotationService) disableOverdueBadge(ctx context.Context, badge *model.Badge) {
	if s.statusUpdater == nil {
		return
	}

	if err := s.statusUpdater.UpdateBadgeStatus(ctx, badge.ID, model.BadgeStatusDisabled); err != nil {
		logger.Error("Failed to disable overdue badge",
			zap.Error(err), zap.String("badgeID", badge.ID))
		return
	}

	logger.Info("Disabled badge with overdue code rotation",
		zap.String("badgeID", badge.ID),
		zap.String("employeeID", badge.EmployeeID))

	s.eventBus.Publish(ctx, util.EventBadgeDisabled, *badge)
	if err := s.notificationSvc.NotifyBadgeDisabled(ctx, *badge); err != nil {
		logger.Warn("Failed to send badge disabled notification",
			zap.Error(err), zap.String("badgeID", badge.ID))
	}
}
