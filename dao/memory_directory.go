// dao/memory_directory.go
package dao

import (
	"context"
	"sync"

	"github.com/Ricardo-Z-Li/access-control-system-sub000/model"
)

// MemoryDirectory is a map-backed Directory implementation for tests and
// standalone deployments. All reads return copies of nothing mutable beyond
// the stored pointers; callers must treat returned entities as read-only.
type MemoryDirectory struct {
	mu           sync.RWMutex
	badges       map[string]*model.Badge
	employees    map[string]*model.Employee
	groups       map[string]*model.Group
	resources    map[string]*model.Resource
	profiles     map[string]*model.AccessProfile
	groupToProfs map[string][]string
	dependencies map[string][]*model.ResourceDependency
}

func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		badges:       make(map[string]*model.Badge),
		employees:    make(map[string]*model.Employee),
		groups:       make(map[string]*model.Group),
		resources:    make(map[string]*model.Resource),
		profiles:     make(map[string]*model.AccessProfile),
		groupToProfs: make(map[string][]string),
		dependencies: make(map[string][]*model.ResourceDependency),
	}
}

func (d *MemoryDirectory) PutBadge(b *model.Badge) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.badges[b.ID] = b
}

func (d *MemoryDirectory) PutEmployee(e *model.Employee) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.employees[e.ID] = e
}

func (d *MemoryDirectory) PutGroup(g *model.Group) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.groups[g.ID] = g
}

func (d *MemoryDirectory) PutResource(r *model.Resource) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resources[r.ID] = r
}

// PutProfile stores a profile and indexes it under each of its group
// associations.
func (d *MemoryDirectory) PutProfile(p *model.AccessProfile) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.profiles[p.ID] = p
	for _, groupID := range p.GroupIDs {
		found := false
		for _, id := range d.groupToProfs[groupID] {
			if id == p.ID {
				found = true
				break
			}
		}
		if !found {
			d.groupToProfs[groupID] = append(d.groupToProfs[groupID], p.ID)
		}
	}
}

func (d *MemoryDirectory) PutDependency(dep *model.ResourceDependency) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dependencies[dep.ResourceID] = append(d.dependencies[dep.ResourceID], dep)
}

func (d *MemoryDirectory) LookupBadge(ctx context.Context, id string) (*model.Badge, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.badges[id], nil
}

func (d *MemoryDirectory) LookupEmployee(ctx context.Context, id string) (*model.Employee, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.employees[id], nil
}

func (d *MemoryDirectory) LookupResource(ctx context.Context, id string) (*model.Resource, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.resources[id], nil
}

func (d *MemoryDirectory) LookupGroup(ctx context.Context, id string) (*model.Group, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.groups[id], nil
}

func (d *MemoryDirectory) ActiveProfilesForGroup(ctx context.Context, groupID string) ([]*model.AccessProfile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var active []*model.AccessProfile
	for _, profileID := range d.groupToProfs[groupID] {
		if p := d.profiles[profileID]; p != nil && p.Active {
			active = append(active, p)
		}
	}
	return active, nil
}

func (d *MemoryDirectory) FindDependencies(ctx context.Context, resourceID string) ([]*model.ResourceDependency, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.dependencies[resourceID], nil
}
