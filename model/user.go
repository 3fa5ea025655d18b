package model

// DataScope is the five-tier data-visibility policy attached to a user.
// Wire values mirror the admin console's dictionary.
type DataScope string

const (
	ScopeAll          DataScope = "1" // every record
	ScopeCustom       DataScope = "2" // records in an explicit department set
	ScopeDept         DataScope = "3" // records in the user's own department
	ScopeDeptAndChild DataScope = "4" // own department and its descendants
	ScopeSelf         DataScope = "5" // records owned by the user
)

type User struct {
	ID              int       `json:"userId"`
	Username        string    `json:"username"`
	Nickname        string    `json:"nickname,omitempty"`
	DeptID          int       `json:"deptId"`
	DeptName        string    `json:"deptName,omitempty"`
	DeptPath        string    `json:"deptPath,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	Email           string    `json:"email,omitempty"`
	Avatar          string    `json:"avatar,omitempty"`
	Status          Status    `json:"status"`
	RoleIDs         []int     `json:"roleIds"`
	RoleNames       []string  `json:"roles"`
	DisabledRoleIDs []int     `json:"disabledRoleIds,omitempty"`
	DataScope       DataScope `json:"dataScope,omitempty"`
	CustomDeptIDs   []int     `json:"deptIds,omitempty"`
	CreateTime      string    `json:"createTime,omitempty"`
}

// EffectiveRoleIDs derives the user's active role set: assigned roles minus
// roles currently suspended by a role-level disable. The assigned list is
// never mutated, which keeps a role re-enable fully reversible.
func (u User) EffectiveRoleIDs() []int {
	if len(u.DisabledRoleIDs) == 0 {
		return append([]int(nil), u.RoleIDs...)
	}
	suspended := make(map[int]struct{}, len(u.DisabledRoleIDs))
	for _, id := range u.DisabledRoleIDs {
		suspended[id] = struct{}{}
	}
	effective := make([]int, 0, len(u.RoleIDs))
	for _, id := range u.RoleIDs {
		if _, ok := suspended[id]; !ok {
			effective = append(effective, id)
		}
	}
	return effective
}

// HasRole reports whether the user holds the given role id, counting only
// effective (non-suspended) assignments.
func (u User) HasRole(roleID int) bool {
	for _, id := range u.EffectiveRoleIDs() {
		if id == roleID {
			return true
		}
	}
	return false
}

type UserSearchCriteria struct {
	Username string `json:"username,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Status   Status `json:"status,omitempty"`
	DeptID   int    `json:"deptId,omitempty"`
}

type UserPage struct {
	Total int    `json:"total"`
	List  []User `json:"list"`
}
