// api/navigation/resolver.go
package navigation

import (
	"sync"

	"github.com/argus-admin/argus/api/model"
)

// Generate filters the permission route tree down to what the principal may
// navigate. Admins get the whole tree. Every other principal keeps a node
// iff the node declares no required permissions or the principal holds at
// least one of them; children of kept nodes are filtered recursively.
// Sibling order is preserved and the catch-all route is appended last.
// The input tree is never mutated.
func Generate(tree []model.RouteNode, roleKeys []string, permissions []string) []model.RouteNode {
	var accessible []model.RouteNode
	if hasAdminRole(roleKeys) {
		accessible = copyRoutes(tree)
	} else {
		accessible = filterRoutes(tree, roleKeys, permissions)
	}

	return append(accessible, model.RouteNode{
		Path:     NotFoundPath,
		Redirect: "/404",
		Meta:     model.RouteMeta{Hidden: true},
	})
}

func hasAdminRole(roleKeys []string) bool {
	for _, key := range roleKeys {
		if key == model.AdminRoleKey {
			return true
		}
	}
	return false
}

func filterRoutes(routes []model.RouteNode, roleKeys []string, permissions []string) []model.RouteNode {
	out := make([]model.RouteNode, 0, len(routes))
	for _, route := range routes {
		if !routeAccessible(route, roleKeys, permissions) {
			continue
		}
		kept := route
		kept.Children = filterRoutes(route.Children, roleKeys, permissions)
		out = append(out, kept)
	}
	return out
}

func routeAccessible(route model.RouteNode, roleKeys []string, permissions []string) bool {
	if len(route.Meta.Roles) > 0 && !intersects(route.Meta.Roles, roleKeys) {
		return false
	}
	if len(route.Meta.Permissions) > 0 && !intersects(route.Meta.Permissions, permissions) {
		return false
	}
	return true
}

func intersects(required, held []string) bool {
	for _, r := range required {
		for _, h := range held {
			if r == h {
				return true
			}
		}
	}
	return false
}

func copyRoutes(routes []model.RouteNode) []model.RouteNode {
	out := make([]model.RouteNode, 0, len(routes))
	for _, route := range routes {
		copied := route
		copied.Children = copyRoutes(route.Children)
		out = append(out, copied)
	}
	return out
}

// Registry is the external navigation sink. The resolver's output is
// applied exactly once per login cycle and fully cleared on logout or
// token reset; Apply after a previous Apply without a Clear is rejected so
// a clear-before-generate sequencing bug surfaces immediately.
type Registry struct {
	mu      sync.RWMutex
	applied bool
	routes  []model.RouteNode
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Apply installs the accessible routes for the current login cycle.
func (r *Registry) Apply(routes []model.RouteNode) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.applied {
		return false
	}
	r.routes = copyRoutes(routes)
	r.applied = true
	return true
}

// Clear removes every dynamically-registered route.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = nil
	r.applied = false
}

// Routes returns the currently installed accessible routes.
func (r *Registry) Routes() []model.RouteNode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copyRoutes(r.routes)
}

// Applied reports whether a route set is currently installed.
func (r *Registry) Applied() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.applied
}
