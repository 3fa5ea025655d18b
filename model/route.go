package model

// RouteMeta carries the access requirements and presentation hints of a
// navigation route.
type RouteMeta struct {
	Title       string   `json:"title,omitempty"`
	Icon        string   `json:"icon,omitempty"`
	Hidden      bool     `json:"hidden,omitempty"`
	Roles       []string `json:"roles,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// RouteNode is one node of the declarative navigation tree. The tree is
// read-only configuration; resolvers filter copies of it and never mutate
// the source.
type RouteNode struct {
	Path     string      `json:"path"`
	Name     string      `json:"name,omitempty"`
	Redirect string      `json:"redirect,omitempty"`
	Meta     RouteMeta   `json:"meta,omitempty"`
	Children []RouteNode `json:"children,omitempty"`
}
