// api/util/cache_service.go

package util

import (
	"context"

	"github.com/argus-admin/argus/api/db"
	"github.com/argus-admin/argus/api/model"
)

type CacheService struct{}

func NewCacheService() *CacheService {
	return &CacheService{}
}

func (c *CacheService) GetUser(ctx context.Context, userID int) (*model.User, error) {
	return db.GetCachedUser(ctx, userID)
}

func (c *CacheService) SetUser(ctx context.Context, user model.User) error {
	return db.CacheUser(ctx, &user)
}

func (c *CacheService) DeleteUser(ctx context.Context, userID int) error {
	return db.DeleteCachedUser(ctx, userID)
}

func (c *CacheService) GetRole(ctx context.Context, roleID int) (*model.Role, error) {
	return db.GetCachedRole(ctx, roleID)
}

func (c *CacheService) SetRole(ctx context.Context, role model.Role) error {
	return db.CacheRole(ctx, &role)
}

func (c *CacheService) DeleteRole(ctx context.Context, roleID int) error {
	return db.DeleteCachedRole(ctx, roleID)
}

func (c *CacheService) GetDepartment(ctx context.Context, departmentID int) (*model.Department, error) {
	return db.GetCachedDepartment(ctx, departmentID)
}

func (c *CacheService) SetDepartment(ctx context.Context, department model.Department) error {
	return db.CacheDepartment(ctx, &department)
}

func (c *CacheService) DeleteDepartment(ctx context.Context, departmentID int) error {
	return db.DeleteCachedDepartment(ctx, departmentID)
}
