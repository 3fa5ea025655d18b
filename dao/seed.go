// api/dao/seed.go
package dao

import "github.com/argus-admin/argus/api/model"

// SeedDepartments returns the default organisation forest: a headquarters
// tree plus two standalone root departments.
func SeedDepartments() []model.Department {
	return []model.Department{
		{ID: 1, Name: "Headquarters", ParentID: 0, OrderNum: 1, Leader: "Alice Zhang", Phone: "13800138000", Email: "alice@example.com", Status: model.StatusActive, CreateTime: "2023-01-01 12:00:00"},
		{ID: 2, Name: "Engineering", ParentID: 1, OrderNum: 1, Leader: "Ben Li", Phone: "13800138001", Email: "ben@example.com", Status: model.StatusActive, CreateTime: "2023-01-02 12:00:00"},
		{ID: 3, Name: "Quality Assurance", ParentID: 1, OrderNum: 2, Leader: "Carol Qian", Phone: "13800138002", Email: "carol@example.com", Status: model.StatusActive, CreateTime: "2023-01-03 12:00:00"},
		{ID: 4, Name: "Operations", ParentID: 1, OrderNum: 3, Leader: "Dan Sun", Phone: "13800138003", Email: "dan@example.com", Status: model.StatusDisabled, CreateTime: "2023-01-04 12:00:00"},
		{ID: 5, Name: "Frontend Group", ParentID: 2, OrderNum: 1, Leader: "Eva Wang", Phone: "13800138004", Email: "eva@example.com", Status: model.StatusActive, CreateTime: "2023-01-05 12:00:00"},
		{ID: 6, Name: "Backend Group", ParentID: 2, OrderNum: 2, Leader: "Frank Zhao", Phone: "13800138005", Email: "frank@example.com", Status: model.StatusActive, CreateTime: "2023-01-06 12:00:00"},
		{ID: 7, Name: "Marketing", ParentID: 0, OrderNum: 2, Leader: "Grace Wu", Phone: "13800138006", Email: "grace@example.com", Status: model.StatusActive, CreateTime: "2023-01-07 12:00:00"},
		{ID: 8, Name: "Finance", ParentID: 0, OrderNum: 3, Leader: "Henry Zheng", Phone: "13800138007", Email: "henry@example.com", Status: model.StatusActive, CreateTime: "2023-01-08 12:00:00"},
	}
}

// SeedRoles returns the default role set. Role 1 is the reserved admin
// role and must always exist.
func SeedRoles() []model.Role {
	return []model.Role{
		{ID: 1, Name: "Administrator", Key: "admin", Sort: 1, Status: model.StatusActive, Remark: "super administrator", MenuIDs: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, Permissions: []string{"*:*:*"}, CreateTime: "2023-01-01 12:00:00"},
		{ID: 2, Name: "Tester", Key: "test", Sort: 2, Status: model.StatusActive, MenuIDs: []int{1, 2, 3, 4}, Permissions: []string{"system:user:list"}, CreateTime: "2023-01-02 12:00:00"},
		{ID: 3, Name: "Developer", Key: "dev", Sort: 3, Status: model.StatusActive, MenuIDs: []int{1, 2, 3, 5}, Permissions: []string{"system:user:list", "system:role:list"}, CreateTime: "2023-01-03 12:00:00"},
		{ID: 4, Name: "Project Manager", Key: "pm", Sort: 4, Status: model.StatusActive, MenuIDs: []int{1, 2, 3, 4, 5, 6}, Permissions: []string{"system:user:list", "system:dept:list"}, CreateTime: "2023-01-04 12:00:00"},
		{ID: 5, Name: "Marketing", Key: "market", Sort: 5, Status: model.StatusActive, MenuIDs: []int{1, 2, 3, 7}, Permissions: []string{"system:user:list"}, CreateTime: "2023-01-05 12:00:00"},
		{ID: 6, Name: "Finance", Key: "finance", Sort: 6, Status: model.StatusActive, MenuIDs: []int{1, 2, 3, 8}, Permissions: []string{"system:user:list"}, CreateTime: "2023-01-06 12:00:00"},
		{ID: 7, Name: "Operations", Key: "ops", Sort: 7, Status: model.StatusDisabled, MenuIDs: []int{1, 2, 3, 10}, Permissions: []string{"system:user:list"}, CreateTime: "2023-01-07 12:00:00"},
	}
}

// SeedUsers returns the default principals; together they cover every data
// scope tier.
func SeedUsers() []model.User {
	return []model.User{
		{ID: 1, Username: "admin", Nickname: "Administrator", DeptID: 1, Phone: "13900139000", Email: "admin@example.com", Status: model.StatusActive, RoleIDs: []int{1}, RoleNames: []string{"Administrator"}, DataScope: model.ScopeAll, CreateTime: "2023-01-01 12:00:00"},
		{ID: 2, Username: "test", Nickname: "Tess Trial", DeptID: 2, Phone: "13900139001", Email: "test@example.com", Status: model.StatusActive, RoleIDs: []int{2}, RoleNames: []string{"Tester"}, DataScope: model.ScopeDept, CustomDeptIDs: []int{2}, CreateTime: "2023-01-02 12:00:00"},
		{ID: 3, Username: "dev", Nickname: "Devon Reed", DeptID: 5, Phone: "13900139002", Email: "dev@example.com", Status: model.StatusDisabled, RoleIDs: []int{3}, RoleNames: []string{"Developer"}, DataScope: model.ScopeDeptAndChild, CustomDeptIDs: []int{5}, CreateTime: "2023-01-03 12:00:00"},
		{ID: 4, Username: "pm", Nickname: "Paula Moss", DeptID: 6, Phone: "13900139003", Email: "pm@example.com", Status: model.StatusActive, RoleIDs: []int{4}, RoleNames: []string{"Project Manager"}, DataScope: model.ScopeCustom, CustomDeptIDs: []int{6, 5}, CreateTime: "2023-01-04 12:00:00"},
		{ID: 5, Username: "marketing", Nickname: "Mark Ito", DeptID: 7, Phone: "13900139004", Email: "marketing@example.com", Status: model.StatusActive, RoleIDs: []int{5}, RoleNames: []string{"Marketing"}, DataScope: model.ScopeSelf, CreateTime: "2023-01-05 12:00:00"},
		{ID: 6, Username: "finance", Nickname: "Fiona Nash", DeptID: 8, Phone: "13900139005", Email: "finance@example.com", Status: model.StatusActive, RoleIDs: []int{6}, RoleNames: []string{"Finance"}, DataScope: model.ScopeDept, CustomDeptIDs: []int{8}, CreateTime: "2023-01-06 12:00:00"},
		{ID: 7, Username: "ops", Nickname: "Omar Price", DeptID: 4, Phone: "13900139006", Email: "ops@example.com", Status: model.StatusActive, RoleIDs: []int{7}, RoleNames: []string{"Operations"}, DataScope: model.ScopeDeptAndChild, CreateTime: "2023-01-07 12:00:00"},
	}
}

// SeedMenus returns the flat navigation menu catalogue.
func SeedMenus() []model.Menu {
	return []model.Menu{
		{ID: 1, Name: "System", ParentID: 0},
		{ID: 2, Name: "User Management", ParentID: 1},
		{ID: 3, Name: "Role Management", ParentID: 1},
		{ID: 4, Name: "Menu Management", ParentID: 1},
		{ID: 5, Name: "Department Management", ParentID: 1},
		{ID: 6, Name: "Position Management", ParentID: 1},
		{ID: 7, Name: "Dictionary Management", ParentID: 1},
		{ID: 8, Name: "Parameter Settings", ParentID: 1},
		{ID: 9, Name: "Notifications", ParentID: 1},
		{ID: 10, Name: "Audit Logs", ParentID: 1},
	}
}

// NewSeededMemoryStore is the store used by main and most tests.
func NewSeededMemoryStore() *MemoryStore {
	return NewMemoryStore(SeedDepartments(), SeedUsers(), SeedRoles(), SeedMenus())
}
