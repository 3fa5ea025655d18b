package model

// Status is the shared active/disabled flag used by departments, roles and
// users. The wire values mirror the admin console's dictionary: "0" means
// active, "1" means disabled.
type Status string

const (
	StatusActive   Status = "0"
	StatusDisabled Status = "1"
)

// Department is a node in the organisation forest. ParentID 0 marks a root.
// IDs are assigned once on creation and never change.
type Department struct {
	ID         int    `json:"deptId"`
	Name       string `json:"deptName"`
	ParentID   int    `json:"parentId"`
	OrderNum   int    `json:"orderNum"`
	Leader     string `json:"leader,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
	Status     Status `json:"status"`
	CreateTime string `json:"createTime,omitempty"`
}

// DepartmentNode is a department together with its ordered children, as
// returned by tree queries and the list endpoint.
type DepartmentNode struct {
	Department
	Children []*DepartmentNode `json:"children,omitempty"`
}

// DepartmentPatch carries the updatable fields of a department. Nil fields
// are left untouched by an update.
type DepartmentPatch struct {
	Name     *string `json:"deptName,omitempty"`
	OrderNum *int    `json:"orderNum,omitempty"`
	Leader   *string `json:"leader,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Email    *string `json:"email,omitempty"`
	Status   *Status `json:"status,omitempty"`
}

// DepartmentSearchCriteria filters the department list.
type DepartmentSearchCriteria struct {
	Name   string `json:"deptName,omitempty"`
	Status Status `json:"status,omitempty"`
}

// DeptOption is one entry of the department selector tree used by forms.
type DeptOption struct {
	Value    int           `json:"value"`
	Label    string        `json:"label"`
	Disabled bool          `json:"disabled,omitempty"`
	Children []*DeptOption `json:"children,omitempty"`
}
