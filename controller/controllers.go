// api/controller/controllers.go
package controller

import (
	"github.com/argus-admin/argus/api/auth"
	"github.com/argus-admin/argus/api/service"
)

type Controllers struct {
	Auth *AuthController
	User *UserController
	Role *RoleController
	Dept *DepartmentController
}

func InitializeControllers(services *service.Services, sessions *auth.Manager) *Controllers {
	return &Controllers{
		Auth: NewAuthController(sessions, services.User),
		User: NewUserController(services.User),
		Role: NewRoleController(services.Role),
		Dept: NewDepartmentController(services.Dept),
	}
}
