// service/directory_service.go
package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Ricardo-Z-Li/access-control-system-sub000/dao"
	acs_errors "github.com/Ricardo-Z-Li/access-control-system-sub000/errors"
	logger "github.com/Ricardo-Z-Li/access-control-system-sub000/logging"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/model"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/pdp/engine"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/util"
)

// DirectoryService resolves entities for the decision pipeline. Badge,
// employee, resource and profile reads go through the Redis cache first and
// fall back to Neo4j; group and dependency reads always hit Neo4j. A
// not-found entity is reported as (nil, nil) so the pipeline can map it to
// its own reason code; only infrastructure faults surface as errors.
type DirectoryService struct {
	badgeDAO      *dao.BadgeDAO
	employeeDAO   *dao.EmployeeDAO
	groupDAO      *dao.GroupDAO
	resourceDAO   *dao.ResourceDAO
	profileDAO    *dao.ProfileDAO
	dependencyDAO *dao.DependencyDAO
	cacheService  *util.CacheService
}

var _ engine.Directory = &DirectoryService{}

func NewDirectoryService(
	badgeDAO *dao.BadgeDAO,
	employeeDAO *dao.EmployeeDAO,
	groupDAO *dao.GroupDAO,
	resourceDAO *dao.ResourceDAO,
	profileDAO *dao.ProfileDAO,
	dependencyDAO *dao.DependencyDAO,
	cacheService *util.CacheService,
) *DirectoryService {
	return &DirectoryService{
		badgeDAO:      badgeDAO,
		employeeDAO:   employeeDAO,
		groupDAO:      groupDAO,
		resourceDAO:   resourceDAO,
		profileDAO:    profileDAO,
		dependencyDAO: dependencyDAO,
		cacheService:  cacheService,
	}
}

func (s *DirectoryService) LookupBadge(ctx context.Context, id string) (*model.Badge, error) {
	if cached, err := s.cacheService.GetBadge(ctx, id); err != nil {
		logger.Warn("Badge cache read failed, falling back to store",
			zap.Error(err), zap.String("badgeID", id))
	} else if cached != nil {
		return cached, nil
	}

	badge, err := s.badgeDAO.GetBadge(ctx, id)
	if errors.Is(err, acs_errors.ErrBadgeNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := s.cacheService.SetBadge(ctx, *badge); err != nil {
		logger.Warn("Failed to cache badge", zap.Error(err), zap.String("badgeID", id))
	}
	return badge, nil
}

func (s *DirectoryService) LookupEmployee(ctx context.Context, id string) (*model.Employee, error) {
	if cached, err := s.cacheService.GetEmployee(ctx, id); err != nil {
		logger.Warn("Employee cache read failed, falling back to store",
			zap.Error(err), zap.String("employeeID", id))
	} else if cached != nil {
		return cached, nil
	}

	employee, err := s.employeeDAO.GetEmployee(ctx, id)
	if errors.Is(err, acs_errors.ErrEmployeeNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := s.cacheService.SetEmployee(ctx, *employee); err != nil {
		logger.Warn("Failed to cache employee", zap.Error(err), zap.String("employeeID", id))
	}
	return employee, nil
}

func (s *DirectoryService) LookupResource(ctx context.Context, id string) (*model.Resource, error) {
	if cached, err := s.cacheService.GetResource(ctx, id); err != nil {
		logger.Warn("Resource cache read failed, falling back to store",
			zap.Error(err), zap.String("resourceID", id))
	} else if cached != nil {
		return cached, nil
	}

	resource, err := s.resourceDAO.GetResource(ctx, id)
	if errors.Is(err, acs_errors.ErrResourceNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := s.cacheService.SetResource(ctx, *resource); err != nil {
		logger.Warn("Failed to cache resource", zap.Error(err), zap.String("resourceID", id))
	}
	return resource, nil
}

func (s *DirectoryService) LookupGroup(ctx context.Context, id string) (*model.Group, error) {
	group, err := s.groupDAO.GetGroup(ctx, id)
	if errors.Is(err, acs_errors.ErrGroupNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return group, nil
}

func (s *DirectoryService) ActiveProfilesForGroup(ctx context.Context, groupID string) ([]*model.AccessProfile, error) {
	return s.profileDAO.GetActiveProfilesForGroup(ctx, groupID)
}

func (s *DirectoryService) FindDependencies(ctx context.Context, resourceID string) ([]*model.ResourceDependency, error) {
	return s.dependencyDAO.GetDependenciesForResource(ctx, resourceID)
}

// InvalidateBadge drops the cached copy after a badge mutation.
func (s *DirectoryService) InvalidateBadge(ctx context.Context, badgeID string) {
	if err := s.cacheService.DeleteBadge(ctx, badgeID); err != nil {
		logger.Warn("Failed to invalidate badge cache", zap.Error(err), zap.String("badgeID", badgeID))
	}
}

func (s *DirectoryService) InvalidateEmployee(ctx context.Context, employeeID string) {
	if err := s.cacheService.DeleteEmployee(ctx, employeeID); err != nil {
		logger.Warn("Failed to invalidate employee cache", zap.Error(err), zap.String("employeeID", employeeID))
	}
}

func (s *DirectoryService) InvalidateResource(ctx context.Context, resourceID string) {
	if err := s.cacheService.DeleteResource(ctx, resourceID); err != nil {
		logger.Warn("Failed to invalidate resource cache", zap.Error(err), zap.String("resourceID", resourceID))
	}
}
