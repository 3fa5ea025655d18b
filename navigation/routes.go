// api/navigation/routes.go
package navigation

import "github.com/argus-admin/argus/api/model"

// NotFoundPath is the terminal catch-all route. It is appended after every
// dynamically accepted route; registering it earlier would shadow paths the
// principal is allowed to reach.
const NotFoundPath = "/:pathMatch(.*)*"

// PublicRoutes returns the navigation tree reachable without
// authentication.
func PublicRoutes() []model.RouteNode {
	return []model.RouteNode{
		{
			Path: "/login",
			Name: "Login",
			Meta: model.RouteMeta{Title: "Login", Hidden: true},
		},
		{
			Path:     "/",
			Redirect: "/dashboard",
			Children: []model.RouteNode{
				{
					Path: "dashboard",
					Name: "Dashboard",
					Meta: model.RouteMeta{Title: "Dashboard", Icon: "HomeFilled"},
				},
				{
					Path: "profile",
					Name: "Profile",
					Meta: model.RouteMeta{Title: "Profile", Hidden: true},
				},
			},
		},
		{
			Path: "/404",
			Name: "NotFound",
			Meta: model.RouteMeta{Title: "404", Hidden: true},
		},
	}
}

// PermissionRoutes returns the permission-gated navigation tree.
func PermissionRoutes() []model.RouteNode {
	return []model.RouteNode{
		{
			Path:     "/system",
			Redirect: "/system/user",
			Meta:     model.RouteMeta{Title: "System", Icon: "Setting"},
			Children: []model.RouteNode{
				{
					Path: "user",
					Name: "User",
					Meta: model.RouteMeta{
						Title:       "Users",
						Icon:        "User",
						Permissions: []string{"system:user:list"},
					},
				},
				{
					Path: "role",
					Name: "Role",
					Meta: model.RouteMeta{
						Title:       "Roles",
						Icon:        "UserFilled",
						Permissions: []string{"system:role:list"},
					},
				},
				{
					Path: "dept",
					Name: "Dept",
					Meta: model.RouteMeta{
						Title:       "Departments",
						Icon:        "OfficeBuilding",
						Permissions: []string{"system:dept:list"},
					},
				},
			},
		},
	}
}
