// api/errors/user_errors.go
package errors

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUserConflict    = errors.New("user conflict")
	ErrInvalidUserData = errors.New("invalid user data")
)
