// api/navigation/resolver_test.go
package navigation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/argus-admin/argus/api/model"
	"github.com/argus-admin/argus/api/navigation"
)

func sampleTree() []model.RouteNode {
	return []model.RouteNode{
		{
			Path: "/system",
			Meta: model.RouteMeta{Title: "System"},
			Children: []model.RouteNode{
				{Path: "user", Name: "User", Meta: model.RouteMeta{Permissions: []string{"system:user:list"}}},
				{Path: "role", Name: "Role", Meta: model.RouteMeta{Permissions: []string{"system:role:list"}}},
				{Path: "dept", Name: "Dept", Meta: model.RouteMeta{Permissions: []string{"system:dept:list"}}},
			},
		},
		{
			Path: "/reports",
			Meta: model.RouteMeta{Title: "Reports", Roles: []string{"finance"}},
		},
	}
}

func TestGenerateAdminGetsFullTree(t *testing.T) {
	routes := navigation.Generate(sampleTree(), []string{"admin"}, nil)

	require.Len(t, routes, 3)
	assert.Equal(t, "/system", routes[0].Path)
	assert.Len(t, routes[0].Children, 3)
	assert.Equal(t, "/reports", routes[1].Path)
	assert.Equal(t, navigation.NotFoundPath, routes[2].Path)
}

func TestGenerateFiltersByPermission(t *testing.T) {
	routes := navigation.Generate(sampleTree(), []string{"dev"}, []string{"system:user:list", "system:role:list"})

	require.Len(t, routes, 2)
	system := routes[0]
	assert.Equal(t, "/system", system.Path)
	// Sibling order is preserved under filtering.
	require.Len(t, system.Children, 2)
	assert.Equal(t, "user", system.Children[0].Path)
	assert.Equal(t, "role", system.Children[1].Path)
	assert.Equal(t, navigation.NotFoundPath, routes[1].Path)
}

func TestGenerateFiltersByRole(t *testing.T) {
	routes := navigation.Generate(sampleTree(), []string{"finance"}, []string{"system:user:list"})

	require.Len(t, routes, 3)
	assert.Equal(t, "/reports", routes[1].Path)

	routes = navigation.Generate(sampleTree(), []string{"dev"}, []string{"system:user:list"})
	for _, r := range routes {
		assert.NotEqual(t, "/reports", r.Path)
	}
}

func TestGenerateNoPermissionsKeepsOpenNodes(t *testing.T) {
	routes := navigation.Generate(sampleTree(), []string{"market"}, nil)

	// The /system parent declares no permissions itself, so it survives with
	// an empty child list; the catch-all still terminates the set.
	require.Len(t, routes, 2)
	assert.Equal(t, "/system", routes[0].Path)
	assert.Empty(t, routes[0].Children)
	assert.Equal(t, navigation.NotFoundPath, routes[1].Path)
}

func TestGenerateCatchAllIsLast(t *testing.T) {
	routes := navigation.Generate(sampleTree(), []string{"admin"}, nil)
	last := routes[len(routes)-1]
	assert.Equal(t, navigation.NotFoundPath, last.Path)
	assert.Equal(t, "/404", last.Redirect)
}

func TestGenerateDoesNotMutateInput(t *testing.T) {
	tree := sampleTree()
	navigation.Generate(tree, []string{"dev"}, []string{"system:user:list"})
	assert.Len(t, tree[0].Children, 3)
}

func TestRegistryApplyOnce(t *testing.T) {
	reg := navigation.NewRegistry()
	routes := navigation.Generate(sampleTree(), []string{"admin"}, nil)

	assert.True(t, reg.Apply(routes))
	assert.True(t, reg.Applied())
	assert.Len(t, reg.Routes(), len(routes))

	// A second Apply without a Clear is rejected.
	assert.False(t, reg.Apply(routes))

	reg.Clear()
	assert.False(t, reg.Applied())
	assert.Empty(t, reg.Routes())

	// After a Clear the next cycle can apply again.
	assert.True(t, reg.Apply(routes))
}

func TestRegistryRoutesReturnsCopy(t *testing.T) {
	reg := navigation.NewRegistry()
	require.True(t, reg.Apply(sampleTree()))

	got := reg.Routes()
	got[0].Path = "/mutated"

	assert.Equal(t, "/system", reg.Routes()[0].Path)
}
