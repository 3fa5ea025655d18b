// api/scope/evaluator_test.go
package scope_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/argus-admin/argus/api/model"
	"github.com/argus-admin/argus/api/scope"
)

func TestIsAdmin(t *testing.T) {
	assert.True(t, scope.Principal{RoleKeys: []string{"dev", "admin"}}.IsAdmin())
	assert.False(t, scope.Principal{RoleKeys: []string{"dev"}}.IsAdmin())
	assert.False(t, scope.Principal{}.IsAdmin())
}

func TestCanAccessAdminBypassesScope(t *testing.T) {
	// Even a nonsensical scope value cannot stop an admin.
	p := scope.Principal{ID: 1, RoleKeys: []string{"admin"}, DataScope: "99"}
	r := scope.Record{OwnerID: 42, DeptID: 8, DeptPath: "0,8"}

	assert.True(t, scope.CanAccess(p, r, scope.ActionView))
	assert.True(t, scope.CanAccess(p, r, scope.ActionDelete))
}

func TestCanAccessAllScope(t *testing.T) {
	p := scope.Principal{ID: 2, DataScope: model.ScopeAll, RoleKeys: []string{"dev"}}
	assert.True(t, scope.CanAccess(p, scope.Record{OwnerID: 42, DeptID: 8}, scope.ActionView))
}

func TestCanAccessSelfScope(t *testing.T) {
	p := scope.Principal{ID: 5, DataScope: model.ScopeSelf, RoleKeys: []string{"market"}}

	assert.True(t, scope.CanAccess(p, scope.Record{OwnerID: 5}, scope.ActionEdit))
	assert.False(t, scope.CanAccess(p, scope.Record{OwnerID: 6}, scope.ActionView))
	// A record with no owner never matches.
	assert.False(t, scope.CanAccess(p, scope.Record{OwnerID: 0}, scope.ActionView))
}

func TestCanAccessDeptScope(t *testing.T) {
	p := scope.Principal{ID: 2, DeptID: 3, DataScope: model.ScopeDept, RoleKeys: []string{"test"}}

	assert.True(t, scope.CanAccess(p, scope.Record{OwnerID: 9, DeptID: 3}, scope.ActionView))
	assert.False(t, scope.CanAccess(p, scope.Record{OwnerID: 9, DeptID: 4}, scope.ActionView))
	assert.False(t, scope.CanAccess(p, scope.Record{OwnerID: 9, DeptID: 0}, scope.ActionView))
}

func TestCanAccessDeptAndChildScope(t *testing.T) {
	p := scope.Principal{ID: 3, DeptID: 2, DeptPath: "0,1,2", DataScope: model.ScopeDeptAndChild, RoleKeys: []string{"dev"}}

	tests := []struct {
		name       string
		recordPath string
		want       bool
	}{
		{"own department", "0,1,2", true},
		{"direct child", "0,1,2,5", true},
		{"deep descendant", "0,1,2,5,9", true},
		{"sibling branch", "0,1,3", false},
		{"ancestor", "0,1", false},
		// "0,12" starts with the characters of "0,1" but id 12 is not id 1.
		{"string-prefix collision", "0,12", false},
		{"empty path", "", false},
		{"malformed path", "0,x,2", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := scope.Record{OwnerID: 9, DeptID: 99, DeptPath: tt.recordPath}
			assert.Equal(t, tt.want, scope.CanAccess(p, r, scope.ActionView))
		})
	}
}

func TestCanAccessDeptAndChildScopeEmptyPrincipalPath(t *testing.T) {
	// A principal without a resolved path sees nothing rather than everything.
	p := scope.Principal{ID: 3, DeptID: 2, DataScope: model.ScopeDeptAndChild, RoleKeys: []string{"dev"}}
	assert.False(t, scope.CanAccess(p, scope.Record{DeptID: 2, DeptPath: "0,1,2"}, scope.ActionView))
}

func TestCanAccessCustomScope(t *testing.T) {
	p := scope.Principal{ID: 4, DataScope: model.ScopeCustom, CustomDeptIDs: []int{6, 5}, RoleKeys: []string{"pm"}}

	assert.True(t, scope.CanAccess(p, scope.Record{OwnerID: 9, DeptID: 5}, scope.ActionView))
	assert.True(t, scope.CanAccess(p, scope.Record{OwnerID: 9, DeptID: 6}, scope.ActionView))
	assert.False(t, scope.CanAccess(p, scope.Record{OwnerID: 9, DeptID: 7}, scope.ActionView))
	assert.False(t, scope.CanAccess(p, scope.Record{OwnerID: 9, DeptID: 0}, scope.ActionView))
}

func TestCanAccessUnknownScopeDenies(t *testing.T) {
	p := scope.Principal{ID: 4, DataScope: "7", RoleKeys: []string{"pm"}}
	assert.False(t, scope.CanAccess(p, scope.Record{OwnerID: 4, DeptID: 4}, scope.ActionView))

	empty := scope.Principal{ID: 4, RoleKeys: []string{"pm"}}
	assert.False(t, scope.CanAccess(empty, scope.Record{OwnerID: 4, DeptID: 4}, scope.ActionView))
}

func TestFilterByAccessPreservesOrder(t *testing.T) {
	p := scope.Principal{ID: 2, DeptID: 3, DataScope: model.ScopeDept, RoleKeys: []string{"test"}}
	records := []scope.Record{
		{OwnerID: 1, DeptID: 3},
		{OwnerID: 2, DeptID: 4},
		{OwnerID: 3, DeptID: 3},
		{OwnerID: 4, DeptID: 5},
	}

	got := scope.FilterByAccess(p, records, scope.ActionView)

	assert.Equal(t, []scope.Record{{OwnerID: 1, DeptID: 3}, {OwnerID: 3, DeptID: 3}}, got)
	assert.Len(t, records, 4)
}

func TestParsePath(t *testing.T) {
	ids, ok := scope.ParsePath("0,1,2")
	assert.True(t, ok)
	assert.Equal(t, []int{0, 1, 2}, ids)

	ids, ok = scope.ParsePath("0, 1, 2")
	assert.True(t, ok)
	assert.Equal(t, []int{0, 1, 2}, ids)

	_, ok = scope.ParsePath("")
	assert.False(t, ok)

	_, ok = scope.ParsePath("0,,2")
	assert.False(t, ok)

	_, ok = scope.ParsePath("0,a,2")
	assert.False(t, ok)
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "0,1,2", scope.JoinPath([]int{0, 1, 2}))
	assert.Equal(t, "", scope.JoinPath(nil))
}

func TestPrincipalRecord(t *testing.T) {
	u := model.User{ID: 7, DeptID: 4, DeptPath: "0,4"}
	assert.Equal(t, scope.Record{OwnerID: 7, DeptID: 4, DeptPath: "0,4"}, scope.PrincipalRecord(u))
}
