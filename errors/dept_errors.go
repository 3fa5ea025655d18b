// api/errors/dept_errors.go
package errors

import "errors"

var (
	ErrDepartmentNotFound    = errors.New("department not found")
	ErrDepartmentHasChildren = errors.New("department has child departments")
	ErrInvalidDepartmentData = errors.New("invalid department data")
	ErrDepartmentConflict    = errors.New("department conflict")
)
