package model

// AdminRoleKey is the reserved role key. The role carrying it always exists
// and can never be deleted or disabled.
const AdminRoleKey = "admin"

type Role struct {
	ID          int      `json:"roleId"`
	Name        string   `json:"roleName"`
	Key         string   `json:"roleKey"`
	Sort        int      `json:"roleSort"`
	Status      Status   `json:"status"`
	Remark      string   `json:"remark,omitempty"`
	MenuIDs     []int    `json:"menuIds"`
	Permissions []string `json:"permissions"`
	CreateTime  string   `json:"createTime,omitempty"`
}

// IsAdmin reports whether this is the reserved administrator role.
func (r Role) IsAdmin() bool {
	return r.Key == AdminRoleKey
}

type RoleSearchCriteria struct {
	Name   string `json:"roleName,omitempty"`
	Key    string `json:"roleKey,omitempty"`
	Status Status `json:"status,omitempty"`
}

// RolePage is the paginated role listing envelope payload.
type RolePage struct {
	Total int    `json:"total"`
	List  []Role `json:"list"`
}

// Menu is a flat navigation menu entry assignable to roles.
type Menu struct {
	ID       int    `json:"menuId"`
	Name     string `json:"menuName"`
	ParentID int    `json:"parentId"`
}
