package model

type Decision string

const (
	DecisionAllow Decision = "ALLOW"
	DecisionDeny  Decision = "DENY"
)

// ReasonCode is the closed set of machine-readable decision reasons.
type ReasonCode string

const (
	ReasonAllow              ReasonCode = "ALLOW"
	ReasonInvalidRequest     ReasonCode = "INVALID_REQUEST"
	ReasonBadgeNotFound      ReasonCode = "BADGE_NOT_FOUND"
	ReasonBadgeInactive      ReasonCode = "BADGE_INACTIVE"
	ReasonBadgeExpired       ReasonCode = "BADGE_EXPIRED"
	ReasonBadgeUpdateReq     ReasonCode = "BADGE_UPDATE_REQUIRED"
	ReasonBadgeUpdateOverdue ReasonCode = "BADGE_UPDATE_OVERDUE"
	ReasonEmployeeNotFound   ReasonCode = "EMPLOYEE_NOT_FOUND"
	ReasonResourceNotFound   ReasonCode = "RESOURCE_NOT_FOUND"
	ReasonNoPermission       ReasonCode = "NO_PERMISSION"
	ReasonResourceLocked     ReasonCode = "RESOURCE_LOCKED"
	ReasonResourceOccupied   ReasonCode = "RESOURCE_OCCUPIED"
	ReasonSystemError        ReasonCode = "SYSTEM_ERROR"
)

// AccessDecision is the outcome of one evaluation.
type AccessDecision struct {
	Decision   Decision   `json:"decision"`
	ReasonCode ReasonCode `json:"reason_code"`
	Message    string     `json:"message,omitempty"`
}

func Allow() AccessDecision {
	return AccessDecision{Decision: DecisionAllow, ReasonCode: ReasonAllow, Message: "access granted"}
}

func Deny(reason ReasonCode, message string) AccessDecision {
	return AccessDecision{Decision: DecisionDeny, ReasonCode: reason, Message: message}
}
