// api/dao/dao.go

// Package dao defines the repository capability set the services depend
// on, plus an in-memory implementation and a Neo4j-backed one. Business
// logic only ever sees these interfaces, so the persistence backend can be
// swapped without touching the services.
package dao

import (
	"context"

	"github.com/argus-admin/argus/api/depttree"
	"github.com/argus-admin/argus/api/model"
)

// UserDAO is the principal repository.
type UserDAO interface {
	GetUser(ctx context.Context, id int) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	ListUsers(ctx context.Context, criteria model.UserSearchCriteria, pageNum, pageSize int) (int, []model.User, error)
	CreateUser(ctx context.Context, user model.User) (*model.User, error)
	UpdateUser(ctx context.Context, user model.User) (*model.User, error)
	DeleteUser(ctx context.Context, id int) error
	UsersByDepartment(ctx context.Context, deptID int) ([]model.User, error)
	UsersByRole(ctx context.Context, roleID int) ([]model.User, error)
}

// RoleDAO is the role repository. SetRoleStatus runs the principal-side
// suspend/restore cascade atomically with the status flip.
type RoleDAO interface {
	GetRole(ctx context.Context, id int) (*model.Role, error)
	GetRoleByKey(ctx context.Context, key string) (*model.Role, error)
	ListRoles(ctx context.Context, criteria model.RoleSearchCriteria, pageNum, pageSize int) (int, []model.Role, error)
	CreateRole(ctx context.Context, role model.Role) (*model.Role, error)
	UpdateRole(ctx context.Context, role model.Role) (*model.Role, error)
	DeleteRole(ctx context.Context, id int) error
	SetRoleStatus(ctx context.Context, id int, status model.Status) (affected int, err error)
	ListMenus(ctx context.Context) ([]model.Menu, error)
}

// DepartmentDAO is the department repository. Delete and SetStatus carry
// their user cascades (reassignment, disable) inside the same atomic
// mutation: either the whole cascade lands or nothing does.
type DepartmentDAO interface {
	Forest(ctx context.Context) (*depttree.Forest, error)
	GetDepartment(ctx context.Context, id int) (*model.Department, error)
	CreateDepartment(ctx context.Context, dept model.Department) (*model.Department, error)
	UpdateDepartment(ctx context.Context, id int, patch model.DepartmentPatch) (*model.Department, error)
	DeleteDepartment(ctx context.Context, id int, defaultDeptID int) (reassigned int, err error)
	SetDepartmentStatus(ctx context.Context, id int, status model.Status) (disabled int, err error)
}
