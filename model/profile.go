package model

import "time"

// AccessProfile is a named policy bundle: time rules, access quotas and a
// priority. When multiple active profiles apply to an employee, exactly one
// governs the request: the one with the lowest priority number.
type AccessProfile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
	Priority    int    `json:"priority"` // lower number = higher precedence

	// Quotas; zero or negative means unlimited
	MaxDailyAccess  int `json:"max_daily_access"`
	MaxWeeklyAccess int `json:"max_weekly_access"`

	// Raw time-rule expressions, parsed by the timerule package
	TimeRules []string `json:"time_rules,omitempty"`

	// Associations this profile governs
	GroupIDs    []string `json:"group_ids,omitempty"`
	EmployeeIDs []string `json:"employee_ids,omitempty"`
	BadgeIDs    []string `json:"badge_ids,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ResourceDependency declares that accessing ResourceID requires a prior
// grant on RequiredResourceID. TimeWindowMinutes bounds how old that grant
// may be; zero means any prior grant qualifies.
type ResourceDependency struct {
	ID                 string    `json:"id"`
	ResourceID         string    `json:"resource_id"`
	RequiredResourceID string    `json:"required_resource_id"`
	TimeWindowMinutes  int       `json:"time_window_minutes,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}
