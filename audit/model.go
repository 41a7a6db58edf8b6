// audit/model.go
package audit

import "time"

const (
	DecisionAllow = "ALLOW"
	DecisionDeny  = "DENY"
)

// AuditLog is the immutable record of one access decision. The audit trail
// is the ground truth for quota counting and dependency checks; there is no
// separate counter store.
type AuditLog struct {
	ID         string    `json:"id"`
	Sequence   uint64    `json:"sequence,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	BadgeID    string    `json:"badge_id"`
	EmployeeID string    `json:"employee_id,omitempty"`
	ResourceID string    `json:"resource_id"`
	Decision   string    `json:"decision"`
	ReasonCode string    `json:"reason_code"`
	Message    string    `json:"message,omitempty"`
}

// Query filters audit entries. Zero-valued fields are unfiltered; a zero
// From means an unbounded lookback.
type Query struct {
	EmployeeID string    `json:"employee_id,omitempty"`
	ResourceID string    `json:"resource_id,omitempty"`
	Decision   string    `json:"decision,omitempty"`
	From       time.Time `json:"from,omitempty"`
	To         time.Time `json:"to,omitempty"`
}

// Accepts reports whether the entry passes the query's filters. From and To
// are inclusive bounds on the entry timestamp.
func (q Query) Accepts(entry AuditLog) bool {
	if q.EmployeeID != "" && entry.EmployeeID != q.EmployeeID {
		return false
	}
	if q.ResourceID != "" && entry.ResourceID != q.ResourceID {
		return false
	}
	if q.Decision != "" && entry.Decision != q.Decision {
		return false
	}
	if !q.From.IsZero() && entry.Timestamp.Before(q.From) {
		return false
	}
	if !q.To.IsZero() && entry.Timestamp.After(q.To) {
		return false
	}
	return true
}
