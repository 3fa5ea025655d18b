// api/dao/memory_test.go
package dao_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/argus-admin/argus/api/dao"
	argus_errors "github.com/argus-admin/argus/api/errors"
	"github.com/argus-admin/argus/api/model"
)

func TestMemoryStoreComputesUserPaths(t *testing.T) {
	store := dao.NewSeededMemoryStore()

	u, err := store.GetUser(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "0,1,2,5", u.DeptPath)
	assert.Equal(t, "Frontend Group", u.DeptName)
}

func TestGetUserByUsername(t *testing.T) {
	store := dao.NewSeededMemoryStore()

	u, err := store.GetUserByUsername(context.Background(), "pm")
	require.NoError(t, err)
	assert.Equal(t, 4, u.ID)

	_, err = store.GetUserByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, argus_errors.ErrUserNotFound)
}

func TestListUsersFiltersAndPaginates(t *testing.T) {
	store := dao.NewSeededMemoryStore()
	ctx := context.Background()

	total, users, err := store.ListUsers(ctx, model.UserSearchCriteria{}, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	assert.Len(t, users, 3)

	// Page past the end is empty, total unchanged.
	total, users, err = store.ListUsers(ctx, model.UserSearchCriteria{}, 4, 3)
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	assert.Empty(t, users)

	// Username matches nickname too, case-insensitively.
	total, users, err = store.ListUsers(ctx, model.UserSearchCriteria{Username: "tess"}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "test", users[0].Username)

	total, _, err = store.ListUsers(ctx, model.UserSearchCriteria{Status: model.StatusDisabled}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	total, _, err = store.ListUsers(ctx, model.UserSearchCriteria{DeptID: 2}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestCreateUser(t *testing.T) {
	store := dao.NewSeededMemoryStore()
	ctx := context.Background()

	created, err := store.CreateUser(ctx, model.User{
		Username: "newbie",
		DeptID:   5,
		Status:   model.StatusActive,
		RoleIDs:  []int{3},
	})
	require.NoError(t, err)
	assert.Equal(t, 8, created.ID)
	assert.Equal(t, "0,1,2,5", created.DeptPath)
	assert.Equal(t, "Frontend Group", created.DeptName)
	assert.NotEmpty(t, created.CreateTime)

	_, err = store.CreateUser(ctx, model.User{Username: "admin", DeptID: 1})
	assert.ErrorIs(t, err, argus_errors.ErrUserConflict)
}

func TestUpdateUserRecomputesPath(t *testing.T) {
	store := dao.NewSeededMemoryStore()
	ctx := context.Background()

	u, err := store.GetUser(ctx, 2)
	require.NoError(t, err)
	u.DeptID = 6

	updated, err := store.UpdateUser(ctx, *u)
	require.NoError(t, err)
	assert.Equal(t, "0,1,2,6", updated.DeptPath)
	assert.Equal(t, "Backend Group", updated.DeptName)
	// CreateTime is preserved across updates.
	assert.Equal(t, "2023-01-02 12:00:00", updated.CreateTime)
}

func TestDeleteRoleLeavesAssignmentsBehind(t *testing.T) {
	store := dao.NewSeededMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.DeleteRole(ctx, 5))

	// The holder keeps the stale role id; resolution layers skip it.
	u, err := store.GetUser(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{5}, u.RoleIDs)

	_, err = store.GetRole(ctx, 5)
	assert.ErrorIs(t, err, argus_errors.ErrRoleNotFound)
}

func TestSetRoleStatusCascade(t *testing.T) {
	store := dao.NewSeededMemoryStore()
	ctx := context.Background()

	affected, err := store.SetRoleStatus(ctx, 2, model.StatusDisabled)
	require.NoError(t, err)
	assert.Equal(t, 1, affected)

	u, err := store.GetUser(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, u.RoleIDs)
	assert.Equal(t, []int{2}, u.DisabledRoleIDs)
	assert.Empty(t, u.EffectiveRoleIDs())

	// Disabling again touches nobody: the suspension is recorded once.
	affected, err = store.SetRoleStatus(ctx, 2, model.StatusDisabled)
	require.NoError(t, err)
	assert.Equal(t, 0, affected)

	// Re-enabling restores exactly the previous assignment state.
	affected, err = store.SetRoleStatus(ctx, 2, model.StatusActive)
	require.NoError(t, err)
	assert.Equal(t, 1, affected)

	u, err = store.GetUser(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, u.RoleIDs)
	assert.Empty(t, u.DisabledRoleIDs)
	assert.Equal(t, []int{2}, u.EffectiveRoleIDs())
}

func TestCreateRoleDefaults(t *testing.T) {
	store := dao.NewSeededMemoryStore()

	created, err := store.CreateRole(context.Background(), model.Role{Name: "Auditor", Key: "auditor"})
	require.NoError(t, err)
	assert.Equal(t, 8, created.ID)
	assert.Equal(t, model.StatusActive, created.Status)
	assert.Equal(t, 8, created.Sort)

	_, err = store.CreateRole(context.Background(), model.Role{Name: "Admin Again", Key: "admin"})
	assert.ErrorIs(t, err, argus_errors.ErrRoleConflict)
}

func TestUpdateRoleKeyImmutable(t *testing.T) {
	store := dao.NewSeededMemoryStore()

	role, err := store.GetRole(context.Background(), 3)
	require.NoError(t, err)
	role.Key = "hacker"
	role.Name = "Renamed Developer"

	updated, err := store.UpdateRole(context.Background(), *role)
	require.NoError(t, err)
	assert.Equal(t, "dev", updated.Key)
	assert.Equal(t, "Renamed Developer", updated.Name)
}

func TestListRolesFilters(t *testing.T) {
	store := dao.NewSeededMemoryStore()
	ctx := context.Background()

	total, roles, err := store.ListRoles(ctx, model.RoleSearchCriteria{Key: "dev"}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Developer", roles[0].Name)

	total, _, err = store.ListRoles(ctx, model.RoleSearchCriteria{Status: model.StatusDisabled}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestDeleteDepartmentCascade(t *testing.T) {
	store := dao.NewSeededMemoryStore()
	ctx := context.Background()

	// Department 5 (Frontend Group) holds user 3 and sits in the custom
	// scope set of user 4.
	reassigned, err := store.DeleteDepartment(ctx, 5, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, reassigned)

	u, err := store.GetUser(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, u.DeptID)
	assert.Equal(t, "Headquarters", u.DeptName)
	assert.Equal(t, "0,1", u.DeptPath)

	// Custom data-scope references to the removed department are pruned.
	pm, err := store.GetUser(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{6}, pm.CustomDeptIDs)

	_, err = store.GetDepartment(ctx, 5)
	assert.ErrorIs(t, err, argus_errors.ErrDepartmentNotFound)
}

func TestDeleteDepartmentWithChildrenRejected(t *testing.T) {
	store := dao.NewSeededMemoryStore()

	_, err := store.DeleteDepartment(context.Background(), 2, 1)
	assert.ErrorIs(t, err, argus_errors.ErrDepartmentHasChildren)

	// Nothing changed: the subtree and its members are intact.
	u, err := store.GetUser(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, u.DeptID)
}

func TestSetDepartmentStatusDisablesActiveMembersOnce(t *testing.T) {
	store := dao.NewSeededMemoryStore()
	ctx := context.Background()

	// Put one already-disabled user into Engineering next to the active one.
	u, err := store.GetUser(ctx, 2)
	require.NoError(t, err)
	_, err = store.CreateUser(ctx, model.User{Username: "parked", DeptID: 2, Status: model.StatusDisabled})
	require.NoError(t, err)

	disabled, err := store.SetDepartmentStatus(ctx, 2, model.StatusDisabled)
	require.NoError(t, err)
	assert.Equal(t, 1, disabled)

	u, err = store.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDisabled, u.Status)

	// Re-enabling the department never touches member status.
	enabled, err := store.SetDepartmentStatus(ctx, 2, model.StatusActive)
	require.NoError(t, err)
	assert.Equal(t, 0, enabled)

	u, err = store.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDisabled, u.Status)
}

func TestUpdateDepartmentRenameReflectsOnMembers(t *testing.T) {
	store := dao.NewSeededMemoryStore()
	ctx := context.Background()

	name := "Core Engineering"
	_, err := store.UpdateDepartment(ctx, 2, model.DepartmentPatch{Name: &name})
	require.NoError(t, err)

	u, err := store.GetUser(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Core Engineering", u.DeptName)
}

func TestUsersByDepartmentAndRole(t *testing.T) {
	store := dao.NewSeededMemoryStore()
	ctx := context.Background()

	users, err := store.UsersByDepartment(ctx, 2)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "test", users[0].Username)

	holders, err := store.UsersByRole(ctx, 1)
	require.NoError(t, err)
	require.Len(t, holders, 1)
	assert.Equal(t, "admin", holders[0].Username)
}

func TestForestReturnsClone(t *testing.T) {
	store := dao.NewSeededMemoryStore()
	ctx := context.Background()

	forest, err := store.Forest(ctx)
	require.NoError(t, err)
	_, err = forest.Remove(8)
	require.NoError(t, err)

	// The store's own forest is unaffected by mutations on the clone.
	fresh, err := store.Forest(ctx)
	require.NoError(t, err)
	_, ok := fresh.Find(8)
	assert.True(t, ok)
}
