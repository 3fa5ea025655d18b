// api/service/department_service_test.go
package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	argus_errors "github.com/argus-admin/argus/api/errors"
	"github.com/argus-admin/argus/api/model"
	"github.com/argus-admin/argus/api/scope"
)

func TestListTreeAdminSeesEverything(t *testing.T) {
	f := newFixture()

	tree, err := f.dept.ListTree(context.Background(), adminPrincipal(), model.DepartmentSearchCriteria{})
	require.NoError(t, err)

	require.Len(t, tree, 3)
	assert.Equal(t, "Headquarters", tree[0].Name)
	assert.Equal(t, "Marketing", tree[1].Name)
	assert.Equal(t, "Finance", tree[2].Name)
	require.Len(t, tree[0].Children, 3)
}

func TestListTreeDeptScopeSeesOwnDepartmentOnly(t *testing.T) {
	f := newFixture()
	p := scope.Principal{ID: 2, DeptID: 2, DeptPath: "0,1,2", RoleKeys: []string{"test"}, DataScope: model.ScopeDept}

	tree, err := f.dept.ListTree(context.Background(), p, model.DepartmentSearchCriteria{})
	require.NoError(t, err)

	require.Len(t, tree, 1)
	assert.Equal(t, "Engineering", tree[0].Name)
	assert.Empty(t, tree[0].Children)
}

func TestListTreeDeptAndChildScopeSeesSubtree(t *testing.T) {
	f := newFixture()
	p := scope.Principal{ID: 2, DeptID: 2, DeptPath: "0,1,2", RoleKeys: []string{"dev"}, DataScope: model.ScopeDeptAndChild}

	tree, err := f.dept.ListTree(context.Background(), p, model.DepartmentSearchCriteria{})
	require.NoError(t, err)

	require.Len(t, tree, 1)
	assert.Equal(t, "Engineering", tree[0].Name)
	require.Len(t, tree[0].Children, 2)
	assert.Equal(t, "Frontend Group", tree[0].Children[0].Name)
	assert.Equal(t, "Backend Group", tree[0].Children[1].Name)
}

func TestListTreeCustomScopeSeesDeclaredSubtrees(t *testing.T) {
	f := newFixture()
	p := scope.Principal{ID: 4, DeptID: 6, RoleKeys: []string{"pm"}, DataScope: model.ScopeCustom, CustomDeptIDs: []int{6, 5}}

	tree, err := f.dept.ListTree(context.Background(), p, model.DepartmentSearchCriteria{})
	require.NoError(t, err)

	require.Len(t, tree, 2)
	assert.Equal(t, "Backend Group", tree[0].Name)
	assert.Equal(t, "Frontend Group", tree[1].Name)
}

func TestListTreeSelfScopeSeesNothing(t *testing.T) {
	f := newFixture()
	p := scope.Principal{ID: 5, DeptID: 7, RoleKeys: []string{"market"}, DataScope: model.ScopeSelf}

	tree, err := f.dept.ListTree(context.Background(), p, model.DepartmentSearchCriteria{})
	require.NoError(t, err)
	assert.Empty(t, tree)
}

func TestListTreeNameFilterPromotesMatches(t *testing.T) {
	f := newFixture()

	tree, err := f.dept.ListTree(context.Background(), adminPrincipal(), model.DepartmentSearchCriteria{Name: "group"})
	require.NoError(t, err)

	// Both groups match; their non-matching parent is gone, so they surface
	// as roots.
	require.Len(t, tree, 2)
	assert.Equal(t, "Frontend Group", tree[0].Name)
	assert.Equal(t, "Backend Group", tree[1].Name)
}

func TestListTreeStatusFilter(t *testing.T) {
	f := newFixture()

	tree, err := f.dept.ListTree(context.Background(), adminPrincipal(), model.DepartmentSearchCriteria{Status: model.StatusDisabled})
	require.NoError(t, err)

	require.Len(t, tree, 1)
	assert.Equal(t, "Operations", tree[0].Name)
}

func TestGetDepartment(t *testing.T) {
	f := newFixture()

	d, err := f.dept.GetDepartment(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Engineering", d.Name)

	_, err = f.dept.GetDepartment(context.Background(), 404)
	assert.ErrorIs(t, err, argus_errors.ErrDepartmentNotFound)
}

func TestCreateDepartment(t *testing.T) {
	f := newFixture()

	created, err := f.dept.CreateDepartment(context.Background(), model.Department{Name: "Design", ParentID: 2}, adminPrincipal())
	require.NoError(t, err)
	assert.Equal(t, 9, created.ID)
	assert.Equal(t, model.StatusActive, created.Status)

	_, err = f.dept.CreateDepartment(context.Background(), model.Department{Name: "  "}, adminPrincipal())
	assert.ErrorIs(t, err, argus_errors.ErrInvalidDepartmentData)
}

func TestUpdateDepartment(t *testing.T) {
	f := newFixture()
	name := "Platform Engineering"

	updated, err := f.dept.UpdateDepartment(context.Background(), 2, model.DepartmentPatch{Name: &name}, adminPrincipal())
	require.NoError(t, err)
	assert.Equal(t, "Platform Engineering", updated.Name)

	empty := " "
	_, err = f.dept.UpdateDepartment(context.Background(), 2, model.DepartmentPatch{Name: &empty}, adminPrincipal())
	assert.ErrorIs(t, err, argus_errors.ErrInvalidDepartmentData)

	_, err = f.dept.UpdateDepartment(context.Background(), 404, model.DepartmentPatch{Name: &name}, adminPrincipal())
	assert.ErrorIs(t, err, argus_errors.ErrDepartmentNotFound)
}

func TestDeleteDepartmentReassignsMembers(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.dept.DeleteDepartment(ctx, 5, adminPrincipal()))

	// The member moved to the default department (id 1).
	u, err := f.store.GetUser(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, u.DeptID)
}

func TestDeleteDepartmentWithChildrenForbidden(t *testing.T) {
	f := newFixture()

	err := f.dept.DeleteDepartment(context.Background(), 2, adminPrincipal())
	assert.ErrorIs(t, err, argus_errors.ErrDepartmentHasChildren)

	_, getErr := f.dept.GetDepartment(context.Background(), 2)
	assert.NoError(t, getErr)
}

func TestSetDepartmentStatus(t *testing.T) {
	f := newFixture()

	disabled, err := f.dept.SetDepartmentStatus(context.Background(), 2, model.StatusDisabled, adminPrincipal())
	require.NoError(t, err)
	assert.Equal(t, 1, disabled)

	_, err = f.dept.SetDepartmentStatus(context.Background(), 2, "9", adminPrincipal())
	assert.ErrorIs(t, err, argus_errors.ErrInvalidDepartmentData)

	_, err = f.dept.SetDepartmentStatus(context.Background(), 404, model.StatusDisabled, adminPrincipal())
	assert.ErrorIs(t, err, argus_errors.ErrDepartmentNotFound)
}

func TestListDepartmentUsers(t *testing.T) {
	f := newFixture()

	users, err := f.dept.ListDepartmentUsers(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "test", users[0].Username)

	_, err = f.dept.ListDepartmentUsers(context.Background(), 404)
	assert.ErrorIs(t, err, argus_errors.ErrDepartmentNotFound)
}

func TestSelectorTreeMarksDisabled(t *testing.T) {
	f := newFixture()

	options, err := f.dept.SelectorTree(context.Background())
	require.NoError(t, err)
	require.Len(t, options, 3)

	hq := options[0]
	assert.Equal(t, "Headquarters", hq.Label)
	assert.False(t, hq.Disabled)
	require.Len(t, hq.Children, 3)
	// Operations is seeded disabled: present but not selectable.
	assert.Equal(t, "Operations", hq.Children[2].Label)
	assert.True(t, hq.Children[2].Disabled)
}
