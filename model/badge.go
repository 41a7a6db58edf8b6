package model

import "time"

type BadgeStatus string

const (
	BadgeStatusActive   BadgeStatus = "ACTIVE"
	BadgeStatusDisabled BadgeStatus = "DISABLED"
	BadgeStatusLost     BadgeStatus = "LOST"
)

// Badge is the physical credential presented at a reader. A badge is owned
// by at most one employee and is never deleted while audit history
// references it.
type Badge struct {
	ID         string      `json:"id"`
	Status     BadgeStatus `json:"status"`
	EmployeeID string      `json:"employee_id,omitempty"`
	ExpiresAt  *time.Time  `json:"expires_at,omitempty"`

	// Code-rotation metadata, maintained by the rotation workflow
	LastRotatedAt *time.Time `json:"last_rotated_at,omitempty"`
	RotationDueAt *time.Time `json:"rotation_due_at,omitempty"`
	NeedsRotation bool       `json:"needs_rotation"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ExpiredAt reports whether the badge's expiration date falls before the
// date of the given instant. Comparison is at day granularity: a badge
// expiring today is still valid for the rest of the day.
func (b *Badge) ExpiredAt(at time.Time) bool {
	if b.ExpiresAt == nil {
		return false
	}
	expiry := dateOf(*b.ExpiresAt)
	return expiry.Before(dateOf(at))
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

type RotationStatus string

const (
	RotationOK             RotationStatus = "OK"
	RotationUpdateRequired RotationStatus = "UPDATE_REQUIRED"
	RotationUpdateOverdue  RotationStatus = "UPDATE_OVERDUE"
)
