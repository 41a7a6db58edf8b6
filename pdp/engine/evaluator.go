// pdp/engine/evaluator.go

// Package engine implements the access decision pipeline: an ordered,
// short-circuiting evaluation of one badge swipe against credential state,
// group permissions, time rules, access quotas and resource dependencies.
// The pipeline is stateless per call; its only write side effect is one
// audit entry per request.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Ricardo-Z-Li/access-control-system-sub000/audit"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/clock"
	logger "github.com/Ricardo-Z-Li/access-control-system-sub000/logging"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/model"
	pdp_model "github.com/Ricardo-Z-Li/access-control-system-sub000/pdp/model"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/timerule"
)

// Directory is the read-only lookup surface the pipeline evaluates against.
// Implementations are cache-backed; lookups return (nil, nil) on a miss.
type Directory interface {
	LookupBadge(ctx context.Context, id string) (*model.Badge, error)
	LookupEmployee(ctx context.Context, id string) (*model.Employee, error)
	LookupResource(ctx context.Context, id string) (*model.Resource, error)
	LookupGroup(ctx context.Context, id string) (*model.Group, error)
	ActiveProfilesForGroup(ctx context.Context, groupID string) ([]*model.AccessProfile, error)
	FindDependencies(ctx context.Context, resourceID string) ([]*model.ResourceDependency, error)
}

// RotationEvaluator is the external credential-lifecycle collaborator. The
// pipeline only branches on the result; it never mutates badge state.
type RotationEvaluator interface {
	EvaluateRotationStatus(ctx context.Context, badgeID string, asOf time.Time) (model.RotationStatus, error)
}

type Evaluator struct {
	directory Directory
	auditSvc  audit.Service
	rotation  RotationEvaluator
	clk       clock.Clock
}

func NewEvaluator(directory Directory, auditSvc audit.Service, rotation RotationEvaluator, clk clock.Clock) *Evaluator {
	return &Evaluator{
		directory: directory,
		auditSvc:  auditSvc,
		rotation:  rotation,
		clk:       clk,
	}
}

// ProcessAccess evaluates one badge swipe and appends exactly one audit
// entry, including for malformed requests and internal faults. It never
// panics and never returns an error: unexpected faults become
// DENY/SYSTEM_ERROR and the pipeline stays available for the next request.
func (e *Evaluator) ProcessAccess(ctx context.Context, badgeID, resourceID string, timestamp time.Time) pdp_model.AccessDecision {
	request := pdp_model.AccessRequest{
		BadgeID:    badgeID,
		ResourceID: resourceID,
		Timestamp:  timestamp,
	}

	decision, employeeID := e.safeEvaluate(ctx, request)
	e.writeAudit(ctx, request, employeeID, decision)

	logger.Info("Access decision",
		zap.String("badgeID", badgeID),
		zap.String("resourceID", resourceID),
		zap.String("decision", string(decision.Decision)),
		zap.String("reason", string(decision.ReasonCode)))

	return decision
}

// safeEvaluate runs the pipeline and converts any panic or collaborator
// failure into DENY/SYSTEM_ERROR.
func (e *Evaluator) safeEvaluate(ctx context.Context, request pdp_model.AccessRequest) (decision pdp_model.AccessDecision, employeeID string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic during access evaluation",
				zap.Any("panic", r),
				zap.String("badgeID", request.BadgeID),
				zap.String("resourceID", request.ResourceID))
			decision = pdp_model.Deny(pdp_model.ReasonSystemError, "internal error")
		}
	}()

	decision, employeeID, err := e.evaluate(ctx, request)
	if err != nil {
		logger.Error("Access evaluation failed",
			zap.Error(err),
			zap.String("badgeID", request.BadgeID),
			zap.String("resourceID", request.ResourceID))
		return pdp_model.Deny(pdp_model.ReasonSystemError, "internal error"), employeeID
	}
	return decision, employeeID
}

// evaluate runs the ordered stages. The first failing stage determines the
// deny reason; an error return means an unexpected collaborator fault.
func (e *Evaluator) evaluate(ctx context.Context, request pdp_model.AccessRequest) (pdp_model.AccessDecision, string, error) {
	// Stage 1: request validity
	if strings.TrimSpace(request.BadgeID) == "" || strings.TrimSpace(request.ResourceID) == "" || request.Timestamp.IsZero() {
		return pdp_model.Deny(pdp_model.ReasonInvalidRequest, "badge id, resource id and timestamp are required"), "", nil
	}

	// Stage 2: credential lookup
	badge, err := e.directory.LookupBadge(ctx, request.BadgeID)
	if err != nil {
		return pdp_model.AccessDecision{}, "", fmt.Errorf("badge lookup: %w", err)
	}
	if badge == nil {
		return pdp_model.Deny(pdp_model.ReasonBadgeNotFound, "unknown badge"), "", nil
	}

	// Stage 3: credential status
	if badge.Status != model.BadgeStatusActive {
		return pdp_model.Deny(pdp_model.ReasonBadgeInactive, fmt.Sprintf("badge is %s", badge.Status)), badge.EmployeeID, nil
	}

	// Stage 4: credential expiry
	if badge.ExpiredAt(request.Timestamp) {
		return pdp_model.Deny(pdp_model.ReasonBadgeExpired, "badge has expired"), badge.EmployeeID, nil
	}

	// Stage 5: rotation status
	rotationStatus, err := e.rotation.EvaluateRotationStatus(ctx, badge.ID, request.Timestamp)
	if err != nil {
		return pdp_model.AccessDecision{}, badge.EmployeeID, fmt.Errorf("rotation status: %w", err)
	}
	switch rotationStatus {
	case model.RotationUpdateRequired:
		return pdp_model.Deny(pdp_model.ReasonBadgeUpdateReq, "badge code rotation required"), badge.EmployeeID, nil
	case model.RotationUpdateOverdue:
		return pdp_model.Deny(pdp_model.ReasonBadgeUpdateOverdue, "badge code rotation overdue"), badge.EmployeeID, nil
	}

	// Stage 6: identity resolution
	if badge.EmployeeID == "" {
		return pdp_model.Deny(pdp_model.ReasonEmployeeNotFound, "badge is not assigned to an employee"), "", nil
	}
	employee, err := e.directory.LookupEmployee(ctx, badge.EmployeeID)
	if err != nil {
		return pdp_model.AccessDecision{}, badge.EmployeeID, fmt.Errorf("employee lookup: %w", err)
	}
	if employee == nil {
		return pdp_model.Deny(pdp_model.ReasonEmployeeNotFound, "badge owner not found"), badge.EmployeeID, nil
	}

	// Stage 7: resource lookup
	resource, err := e.directory.LookupResource(ctx, request.ResourceID)
	if err != nil {
		return pdp_model.AccessDecision{}, employee.ID, fmt.Errorf("resource lookup: %w", err)
	}
	if resource == nil {
		return pdp_model.Deny(pdp_model.ReasonResourceNotFound, "unknown resource"), employee.ID, nil
	}

	// Stage 8: permission check; group membership is purely additive
	permitted, err := e.hasPermission(ctx, employee, resource.ID)
	if err != nil {
		return pdp_model.AccessDecision{}, employee.ID, err
	}
	if !permitted {
		return pdp_model.Deny(pdp_model.ReasonNoPermission, "no group grants access to this resource"), employee.ID, nil
	}

	// Stage 9: resource operational state. OFFLINE and PENDING share the
	// RESOURCE_LOCKED reason so readers see a stable, closed reason set.
	switch resource.State {
	case model.ResourceStateLocked, model.ResourceStateOffline, model.ResourceStatePending:
		return pdp_model.Deny(pdp_model.ReasonResourceLocked, fmt.Sprintf("resource is %s", resource.State)), employee.ID, nil
	case model.ResourceStateOccupied:
		return pdp_model.Deny(pdp_model.ReasonResourceOccupied, "resource is occupied"), employee.ID, nil
	}

	// Stage 10: time window; only the single governing profile applies
	profile, err := e.governingProfile(ctx, employee)
	if err != nil {
		return pdp_model.AccessDecision{}, employee.ID, err
	}
	if resource.TimeControlled && profile != nil && len(profile.TimeRules) > 0 {
		matched, err := e.withinTimeWindow(profile, request.Timestamp)
		if err != nil {
			return pdp_model.AccessDecision{}, employee.ID, err
		}
		if !matched {
			return pdp_model.Deny(pdp_model.ReasonNoPermission, "access not allowed at this time"), employee.ID, nil
		}
	}

	// Stage 11: access quotas
	withinLimits, err := e.checkLimits(ctx, employee.ID, profile, request.Timestamp)
	if err != nil {
		return pdp_model.AccessDecision{}, employee.ID, err
	}
	if !withinLimits {
		return pdp_model.Deny(pdp_model.ReasonNoPermission, "access quota exceeded"), employee.ID, nil
	}

	// Stage 12: resource dependencies
	satisfied, err := e.dependenciesSatisfied(ctx, resource.ID, employee.ID, request.Timestamp)
	if err != nil {
		return pdp_model.AccessDecision{}, employee.ID, err
	}
	if !satisfied {
		return pdp_model.Deny(pdp_model.ReasonNoPermission, "missing prerequisite access"), employee.ID, nil
	}

	// Stage 13: grant
	return pdp_model.Allow(), employee.ID, nil
}

func (e *Evaluator) hasPermission(ctx context.Context, employee *model.Employee, resourceID string) (bool, error) {
	if len(employee.GroupIDs) == 0 {
		return false, nil
	}
	for _, groupID := range employee.GroupIDs {
		group, err := e.directory.LookupGroup(ctx, groupID)
		if err != nil {
			return false, fmt.Errorf("group lookup: %w", err)
		}
		if group != nil && group.Includes(resourceID) {
			return true, nil
		}
	}
	return false, nil
}

// withinTimeWindow reports whether the timestamp matches at least one of
// the governing profile's rules. A stored rule that no longer parses is
// skipped with a warning; skipping can only narrow access, never widen it.
func (e *Evaluator) withinTimeWindow(profile *model.AccessProfile, ts time.Time) (bool, error) {
	var rules []*timerule.Rule
	for _, raw := range profile.TimeRules {
		rule, err := timerule.Parse(raw)
		if err != nil {
			logger.Warn("Skipping unparsable time rule",
				zap.String("profileID", profile.ID),
				zap.String("rule", raw),
				zap.Error(err))
			continue
		}
		rules = append(rules, rule)
	}
	if len(rules) == 0 {
		// every stored rule was unparsable: fail closed
		return false, nil
	}
	return timerule.MatchesAny(rules, ts), nil
}

// writeAudit appends the one audit entry for this request. A failed append
// must not suppress the decision already computed; it is surfaced in the
// log for operational visibility.
func (e *Evaluator) writeAudit(ctx context.Context, request pdp_model.AccessRequest, employeeID string, decision pdp_model.AccessDecision) {
	ts := request.Timestamp
	if ts.IsZero() {
		ts = e.clk.Now()
	}

	entry := audit.AuditLog{
		Timestamp:  ts,
		BadgeID:    request.BadgeID,
		EmployeeID: employeeID,
		ResourceID: request.ResourceID,
		Decision:   string(decision.Decision),
		ReasonCode: string(decision.ReasonCode),
		Message:    decision.Message,
	}
	if err := e.auditSvc.LogAccess(ctx, entry); err != nil {
		logger.Error("Failed to append audit entry",
			zap.Error(err),
			zap.String("badgeID", request.BadgeID),
			zap.String("resourceID", request.ResourceID),
			zap.String("decision", string(decision.Decision)))
	}
}
