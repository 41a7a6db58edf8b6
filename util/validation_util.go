// util/validation_util.go

package util

import (
	"fmt"

	"github.com/Ricardo-Z-Li/access-control-system-sub000/model"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/timerule"
)

type ValidationUtil struct{}

func NewValidationUtil() *ValidationUtil {
	return &ValidationUtil{}
}

func (v *ValidationUtil) ValidateBadge(badge model.Badge) error {
	if badge.ID == "" {
		return fmt.Errorf("badge ID cannot be empty")
	}
	switch badge.Status {
	case model.BadgeStatusActive, model.BadgeStatusDisabled, model.BadgeStatusLost:
	default:
		return fmt.Errorf("badge status must be ACTIVE, DISABLED or LOST")
	}
	return nil
}

func (v *ValidationUtil) ValidateEmployee(employee model.Employee) error {
	if employee.ID == "" {
		return fmt.Errorf("employee ID cannot be empty")
	}
	if employee.Name == "" {
		return fmt.Errorf("employee name cannot be empty")
	}
	return nil
}

func (v *ValidationUtil) ValidateGroup(group model.Group) error {
	if group.ID == "" {
		return fmt.Errorf("group ID cannot be empty")
	}
	if group.Name == "" {
		return fmt.Errorf("group name cannot be empty")
	}
	return nil
}

func (v *ValidationUtil) ValidateResource(resource model.Resource) error {
	if resource.ID == "" {
		return fmt.Errorf("resource ID cannot be empty")
	}
	if resource.Name == "" {
		return fmt.Errorf("resource name cannot be empty")
	}
	switch resource.Category {
	case model.ResourceCategoryDoor, model.ResourceCategoryWorkstation, model.ResourceCategoryPrinter:
	default:
		return fmt.Errorf("resource category must be DOOR, WORKSTATION or PRINTER")
	}
	switch resource.State {
	case model.ResourceStateAvailable, model.ResourceStateOccupied, model.ResourceStateLocked,
		model.ResourceStateOffline, model.ResourceStatePending:
	default:
		return fmt.Errorf("resource state must be AVAILABLE, OCCUPIED, LOCKED, OFFLINE or PENDING")
	}
	return nil
}

func (v *ValidationUtil) ValidateProfile(profile model.AccessProfile) error {
	if profile.ID == "" {
		return fmt.Errorf("profile ID cannot be empty")
	}
	if profile.Name == "" {
		return fmt.Errorf("profile name cannot be empty")
	}
	if profile.Priority < 0 {
		return fmt.Errorf("profile priority cannot be negative")
	}
	for _, raw := range profile.TimeRules {
		if _, err := timerule.Parse(raw); err != nil {
			return fmt.Errorf("invalid time rule %q: %w", raw, err)
		}
	}
	return nil
}

func (v *ValidationUtil) ValidateDependency(dep model.ResourceDependency) error {
	if dep.ResourceID == "" {
		return fmt.Errorf("dependency resource ID cannot be empty")
	}
	if dep.RequiredResourceID == "" {
		return fmt.Errorf("dependency required resource ID cannot be empty")
	}
	if dep.ResourceID == dep.RequiredResourceID {
		return fmt.Errorf("resource cannot depend on itself")
	}
	if dep.TimeWindowMinutes < 0 {
		return fmt.Errorf("dependency time window cannot be negative")
	}
	return nil
}
