// service/access_service.go
package service

import (
	"context"

	"go.uber.org/zap"

	logger "github.com/Ricardo-Z-Li/access-control-system-sub000/logging"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/pdp/engine"
	pdp_model "github.com/Ricardo-Z-Li/access-control-system-sub000/pdp/model"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/util"
)

// IAccessService defines the interface for badge swipe evaluation
type IAccessService interface {
	ProcessAccess(ctx context.Context, request pdp_model.AccessRequest) pdp_model.AccessDecision
}

// AccessEvent is the payload published on access.granted and access.denied.
type AccessEvent struct {
	Request  pdp_model.AccessRequest
	Decision pdp_model.AccessDecision
}

// AccessService fronts the decision pipeline: it forwards swipes to the
// evaluator and fans the outcome out on the event bus.
type AccessService struct {
	evaluator       *engine.Evaluator
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
}

var _ IAccessService = &AccessService{}

func NewAccessService(evaluator *engine.Evaluator, notificationSvc *util.NotificationService, eventBus *util.EventBus) *AccessService {
	service := &AccessService{
		evaluator:       evaluator,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
	}

	eventBus.Subscribe(util.EventAccessDenied, service.handleAccessDenied)

	return service
}

func (s *AccessService) ProcessAccess(ctx context.Context, request pdp_model.AccessRequest) pdp_model.AccessDecision {
	decision := s.evaluator.ProcessAccess(ctx, request.BadgeID, request.ResourceID, request.Timestamp)

	event := AccessEvent{Request: request, Decision: decision}
	if decision.Decision == pdp_model.DecisionAllow {
		s.eventBus.Publish(ctx, util.EventAccessGranted, event)
	} else {
		s.eventBus.Publish(ctx, util.EventAccessDenied, event)
	}

	return decision
}

func (s *AccessService) handleAccessDenied(ctx context.Context, event util.Event) error {
	accessEvent, ok := event.Payload.(AccessEvent)
	if !ok {
		logger.Error("Invalid access event payload", zap.Any("payload", event.Payload))
		return nil
	}

	if err := s.notificationSvc.NotifyAccessDenied(ctx,
		accessEvent.Request.BadgeID,
		accessEvent.Request.ResourceID,
		string(accessEvent.Decision.ReasonCode)); err != nil {
		logger.Warn("Failed to send access denied notification", zap.Error(err))
	}

	if accessEvent.Decision.ReasonCode == pdp_model.ReasonSystemError {
		if err := s.notificationSvc.NotifyAdmins(ctx,
			"access evaluation hit an internal fault for badge "+accessEvent.Request.BadgeID); err != nil {
			logger.Warn("Failed to notify admins about system error", zap.Error(err))
		}
	}

	return nil
}
