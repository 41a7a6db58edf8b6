// test/mock/directory.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Ricardo-Z-Li/access-control-system-sub000/model"
)

// MockDirectory is a mock implementation of engine.Directory
type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) LookupBadge(ctx context.Context, id string) (*model.Badge, error) {
	args := m.Called(ctx, id)
	badge, _ := args.Get(0).(*model.Badge)
	return badge, args.Error(1)
}

func (m *MockDirectory) LookupEmployee(ctx context.Context, id string) (*model.Employee, error) {
	args := m.Called(ctx, id)
	employee, _ := args.Get(0).(*model.Employee)
	return employee, args.Error(1)
}

func (m *MockDirectory) LookupResource(ctx context.Context, id string) (*model.Resource, error) {
	args := m.Called(ctx, id)
	resource, _ := args.Get(0).(*model.Resource)
	return resource, args.Error(1)
}

func (m *MockDirectory) LookupGroup(ctx context.Context, id string) (*model.Group, error) {
	args := m.Called(ctx, id)
	group, _ := args.Get(0).(*model.Group)
	return group, args.Error(1)
}

func (m *MockDirectory) ActiveProfilesForGroup(ctx context.Context, groupID string) ([]*model.AccessProfile, error) {
	args := m.Called(ctx, groupID)
	profiles, _ := args.Get(0).([]*model.AccessProfile)
	return profiles, args.Error(1)
}

func (m *MockDirectory) FindDependencies(ctx context.Context, resourceID string) ([]*model.ResourceDependency, error) {
	args := m.Called(ctx, resourceID)
	deps, _ := args.Get(0).([]*model.ResourceDependency)
	return deps, args.Error(1)
}
