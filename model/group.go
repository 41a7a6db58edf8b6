package model

import "time"

// Group binds employees to the resources they may access. Permission is
// purely additive: an employee may access a resource iff some group it
// belongs to includes that resource.
type Group struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	MemberIDs   []string  `json:"member_ids"`
	ResourceIDs []string  `json:"resource_ids"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (g *Group) Includes(resourceID string) bool {
	for _, id := range g.ResourceIDs {
		if id == resourceID {
			return true
		}
	}
	return false
}
