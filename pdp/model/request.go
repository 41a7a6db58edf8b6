package model

import "time"

// AccessRequest is one badge swipe: a credential presented at a resource
// at an instant.
type AccessRequest struct {
	BadgeID    string    `json:"badge_id"`
	ResourceID string    `json:"resource_id"`
	Timestamp  time.Time `json:"timestamp"`
}
