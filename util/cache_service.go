// util/cache_service.go

package util

import (
	"context"

	"github.com/Ricardo-Z-Li/access-control-system-sub000/db"
	"github.com/Ricardo-Z-Li/access-control-system-sub000/model"
)

type CacheService struct{}

func NewCacheService() *CacheService {
	return &CacheService{}
}

func (c *CacheService) GetBadge(ctx context.Context, badgeID string) (*model.Badge, error) {
	return db.GetCachedBadge(ctx, badgeID)
}

func (c *CacheService) SetBadge(ctx context.Context, badge model.Badge) error {
	return db.CacheBadge(ctx, &badge)
}

func (c *CacheService) DeleteBadge(ctx context.Context, badgeID string) error {
	return db.DeleteCachedBadge(ctx, badgeID)
}

func (c *CacheService) GetEmployee(ctx context.Context, employeeID string) (*model.Employee, error) {
	return db.GetCachedEmployee(ctx, employeeID)
}

func (c *CacheService) SetEmployee(ctx context.Context, employee model.Employee) error {
	return db.CacheEmployee(ctx, &employee)
}

func (c *CacheService) DeleteEmployee(ctx context.Context, employeeID string) error {
	return db.DeleteCachedEmployee(ctx, employeeID)
}

func (c *CacheService) GetResource(ctx context.Context, resourceID string) (*model.Resource, error) {
	return db.GetCachedResource(ctx, resourceID)
}

func (c *CacheService) SetResource(ctx context.Context, resource model.Resource) error {
	return db.CacheResource(ctx, &resource)
}

func (c *CacheService) DeleteResource(ctx context.Context, resourceID string) error {
	return db.DeleteCachedResource(ctx, resourceID)
}

func (c *CacheService) GetProfile(ctx context.Context, profileID string) (*model.AccessProfile, error) {
	return db.GetCachedProfile(ctx, profileID)
}

func (c *CacheService) SetProfile(ctx context.Context, profile model.AccessProfile) error {
	return db.CacheProfile(ctx, &profile)
}

func (c *CacheService) DeleteProfile(ctx context.Context, profileID string) error {
	return db.DeleteCachedProfile(ctx, profileID)
}
