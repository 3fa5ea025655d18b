// api/errors/role_errors.go
package errors

import "errors"

var (
	ErrRoleNotFound       = errors.New("role not found")
	ErrRoleConflict       = errors.New("role conflict")
	ErrInvalidRoleData    = errors.New("invalid role data")
	ErrAdminRoleProtected = errors.New("admin role cannot be deleted or disabled")
)
