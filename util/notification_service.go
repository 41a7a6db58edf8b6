// util/notification_service.go

package util

import (
	"context"

	"go.uber.org/zap"

	logger "github.com/Ricardo-Z-Li/access-control-system-sub000/logging"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/model"
)

type NotificationService struct {
	// A message queue client would live here once one is wired in
}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyAccessDenied alerts security staff about a denied swipe. Today this
// only logs; the hook exists so a queue or pager integration can slot in.
func (n *NotificationService) NotifyAccessDenied(ctx context.Context, badgeID, resourceID, reasonCode string) error {
	logger.Info("NOTIFICATION: Access denied",
		zap.String("badgeID", badgeID),
		zap.String("resourceID", resourceID),
		zap.String("reasonCode", reasonCode))
	return nil
}

func (n *NotificationService) NotifyBadgeRotationDue(ctx context.Context, badge model.Badge) error {
	logger.Info("NOTIFICATION: Badge code rotation due",
		zap.String("badgeID", badge.ID),
		zap.String("employeeID", badge.EmployeeID))
	return nil
}

func (n *NotificationService) NotifyBadgeDisabled(ctx context.Context, badge model.Badge) error {
	logger.Info("NOTIFICATION: Badge disabled",
		zap.String("badgeID", badge.ID),
		zap.String("employeeID", badge.EmployeeID))
	return nil
}

func (n *NotificationService) NotifyProfileChange(ctx context.Context, changeType string, profile model.AccessProfile) error {
	logger.Info("NOTIFICATION: Access profile change",
		zap.String("changeType", changeType),
		zap.String("profileID", profile.ID),
		zap.String("profileName", profile.Name))
	return nil
}

func (n *NotificationService) NotifyResourceChange(ctx context.Context, changeType string, resource model.Resource) error {
	logger.Info("NOTIFICATION: Resource change",
		zap.String("changeType", changeType),
		zap.String("resourceID", resource.ID),
		zap.String("resourceName", resource.Name))
	return nil
}

func (n *NotificationService) NotifyAdmins(ctx context.Context, message string) error {
	logger.Info("Notifying admins", zap.String("message", message))
	return nil
}

func (n *NotificationService) SendEmail(ctx context.Context, recipient, subject, body string) error {
	// Mock email sending
	logger.Info("Sending email",
		zap.String("recipient", recipient),
		zap.String("subject", subject))
	return nil
}
