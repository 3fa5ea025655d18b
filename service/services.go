// api/service/services.go
package service

// Services bundles the domain services for wiring into controllers.
type Services struct {
	Dept IDepartmentService
	Role IRoleService
	User IUserService
}
