package model

import "time"

type ResourceState string

const (
	ResourceStateAvailable ResourceState = "AVAILABLE"
	ResourceStateOccupied  ResourceState = "OCCUPIED"
	ResourceStateLocked    ResourceState = "LOCKED"
	ResourceStateOffline   ResourceState = "OFFLINE"
	ResourceStatePending   ResourceState = "PENDING"
)

type ResourceCategory string

const (
	ResourceCategoryDoor        ResourceCategory = "DOOR"
	ResourceCategoryWorkstation ResourceCategory = "WORKSTATION"
	ResourceCategoryPrinter     ResourceCategory = "PRINTER"
)

// Resource is a controlled asset: a door, a workstation, a printer.
// TimeControlled resources are additionally subject to the time rules of
// the governing access profile.
type Resource struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Category       ResourceCategory `json:"category"`
	State          ResourceState    `json:"state"`
	TimeControlled bool             `json:"time_controlled"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}
