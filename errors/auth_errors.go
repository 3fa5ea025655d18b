// api/errors/auth_errors.go
package errors

import "errors"

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrTokenExpired       = errors.New("token has expired")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrEmptyRoleSet       = errors.New("principal has no roles assigned")
	ErrInternalServer     = errors.New("internal server error")
	ErrInvalidPagination  = errors.New("invalid pagination parameters")
)
