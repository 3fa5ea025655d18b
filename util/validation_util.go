// api/util/validation_util.go

package util

import (
	"fmt"
	"strings"

	"github.com/argus-admin/argus/api/model"
)

type ValidationUtil struct{}

func NewValidationUtil() *ValidationUtil {
	return &ValidationUtil{}
}

func validStatus(s model.Status) bool {
	return s == model.StatusActive || s == model.StatusDisabled
}

func validDataScope(s model.DataScope) bool {
	switch s {
	case model.ScopeAll, model.ScopeCustom, model.ScopeDept, model.ScopeDeptAndChild, model.ScopeSelf:
		return true
	}
	return false
}

func (v *ValidationUtil) ValidateDepartment(department model.Department) error {
	if strings.TrimSpace(department.Name) == "" {
		return fmt.Errorf("department name cannot be empty")
	}
	if department.ParentID < 0 {
		return fmt.Errorf("department parent ID cannot be negative")
	}
	if department.OrderNum < 0 {
		return fmt.Errorf("department order number cannot be negative")
	}
	if department.Status != "" && !validStatus(department.Status) {
		return fmt.Errorf("department status must be %q or %q", model.StatusActive, model.StatusDisabled)
	}
	return nil
}

func (v *ValidationUtil) ValidateRole(role model.Role) error {
	if strings.TrimSpace(role.Name) == "" {
		return fmt.Errorf("role name cannot be empty")
	}
	if strings.TrimSpace(role.Key) == "" {
		return fmt.Errorf("role key cannot be empty")
	}
	if role.Sort < 0 {
		return fmt.Errorf("role sort cannot be negative")
	}
	if role.Status != "" && !validStatus(role.Status) {
		return fmt.Errorf("role status must be %q or %q", model.StatusActive, model.StatusDisabled)
	}
	return nil
}

func (v *ValidationUtil) ValidateUser(user model.User) error {
	if strings.TrimSpace(user.Username) == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if user.DeptID <= 0 {
		return fmt.Errorf("user must belong to a department")
	}
	if user.Status != "" && !validStatus(user.Status) {
		return fmt.Errorf("user status must be %q or %q", model.StatusActive, model.StatusDisabled)
	}
	if user.DataScope != "" && !validDataScope(user.DataScope) {
		return fmt.Errorf("unknown data scope %q", user.DataScope)
	}
	if user.DataScope == model.ScopeCustom && len(user.CustomDeptIDs) == 0 {
		return fmt.Errorf("custom data scope requires at least one department")
	}
	return nil
}
