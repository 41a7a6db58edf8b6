package model

import "time"

type Employee struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"` // e.g., "EMPLOYEE", "CONTRACTOR", "VISITOR"
	BadgeID   string    `json:"badge_id,omitempty"`
	GroupIDs  []string  `json:"group_ids"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type EmployeeSearchCriteria struct {
	ID       string     `json:"id,omitempty"`
	Name     string     `json:"name,omitempty"`
	Role     string     `json:"role,omitempty"`
	GroupID  string     `json:"group_id,omitempty"`
	FromDate *time.Time `json:"from_date,omitempty"`
	ToDate   *time.Time `json:"to_date,omitempty"`
	Limit    int        `json:"limit,omitempty"`
	Offset   int        `json:"offset,omitempty"`
}
