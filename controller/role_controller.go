// api/controller/role_controller.go
package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	argus_errors "github.com/argus-admin/argus/api/errors"
	"github.com/argus-admin/argus/api/model"
	"github.com/argus-admin/argus/api/service"
	"github.com/argus-admin/argus/api/util"
	helper_util "github.com/argus-admin/argus/api/util/helper"
)

type RoleController struct {
	roleService service.IRoleService
}

func NewRoleController(roleService service.IRoleService) *RoleController {
	return &RoleController{
		roleService: roleService,
	}
}

// RegisterRoutes registers the API routes
func (rc *RoleController) RegisterRoutes(r *gin.RouterGroup) {
	role := r.Group("/role")
	{
		role.GET("/list", rc.ListRoles)
		role.GET("/menus", rc.ListMenus)
		role.GET("/:id", rc.GetRole)
		role.POST("", rc.CreateRole)
		role.PUT("/:id", rc.UpdateRole)
		role.DELETE("/:id", rc.DeleteRole)
		role.PATCH("/:id/status", rc.SetRoleStatus)
	}
}

// ListRoles endpoint
func (rc *RoleController) ListRoles(c *gin.Context) {
	pageNum, pageSize, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}

	criteria := model.RoleSearchCriteria{
		Name:   c.Query("roleName"),
		Key:    c.Query("roleKey"),
		Status: model.Status(c.Query("status")),
	}

	page, err := rc.roleService.ListRoles(c, criteria, pageNum, pageSize)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list roles", err)
		return
	}

	util.RespondWithData(c, page)
}

// ListMenus endpoint
func (rc *RoleController) ListMenus(c *gin.Context) {
	menus, err := rc.roleService.ListMenus(c)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list menus", err)
		return
	}
	util.RespondWithData(c, menus)
}

// GetRole endpoint
func (rc *RoleController) GetRole(c *gin.Context) {
	roleID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid role ID", err)
		return
	}

	role, err := rc.roleService.GetRole(c, roleID)
	if err != nil {
		if errors.Is(err, argus_errors.ErrRoleNotFound) {
			util.RespondWithError(c, http.StatusNotFound, "Role not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve role", err)
		}
		return
	}

	util.RespondWithData(c, role)
}

// CreateRole endpoint
func (rc *RoleController) CreateRole(c *gin.Context) {
	var role model.Role
	if err := c.ShouldBindJSON(&role); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid role data", argus_errors.ErrInvalidRoleData)
		return
	}
	principal, ok := util.GetPrincipalFromContext(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", argus_errors.ErrUnauthorized)
		return
	}

	createdRole, err := rc.roleService.CreateRole(c, role, principal)
	if err != nil {
		switch {
		case errors.Is(err, argus_errors.ErrRoleConflict):
			util.RespondWithError(c, http.StatusBadRequest, "Role key already exists", err)
		case errors.Is(err, argus_errors.ErrInvalidRoleData):
			util.RespondWithError(c, http.StatusBadRequest, err.Error(), err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to create role", err)
		}
		return
	}

	util.RespondWithData(c, createdRole)
}

// UpdateRole endpoint
func (rc *RoleController) UpdateRole(c *gin.Context) {
	roleID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid role ID", err)
		return
	}
	var role model.Role
	if err := c.ShouldBindJSON(&role); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid role data", err)
		return
	}
	role.ID = roleID
	principal, ok := util.GetPrincipalFromContext(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", argus_errors.ErrUnauthorized)
		return
	}

	updatedRole, err := rc.roleService.UpdateRole(c, role, principal)
	if err != nil {
		switch {
		case errors.Is(err, argus_errors.ErrRoleNotFound):
			util.RespondWithError(c, http.StatusNotFound, "Role not found", err)
		case errors.Is(err, argus_errors.ErrAdminRoleProtected):
			util.RespondWithError(c, http.StatusForbidden, "The admin role cannot be disabled", err)
		case errors.Is(err, argus_errors.ErrInvalidRoleData):
			util.RespondWithError(c, http.StatusBadRequest, err.Error(), err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to update role", err)
		}
		return
	}

	util.RespondWithData(c, updatedRole)
}

// DeleteRole endpoint
func (rc *RoleController) DeleteRole(c *gin.Context) {
	roleID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid role ID", err)
		return
	}
	principal, ok := util.GetPrincipalFromContext(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", argus_errors.ErrUnauthorized)
		return
	}

	if err := rc.roleService.DeleteRole(c, roleID, principal); err != nil {
		switch {
		case errors.Is(err, argus_errors.ErrRoleNotFound):
			util.RespondWithError(c, http.StatusNotFound, "Role not found", err)
		case errors.Is(err, argus_errors.ErrAdminRoleProtected):
			util.RespondWithError(c, http.StatusForbidden, "The admin role cannot be deleted", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to delete role", err)
		}
		return
	}

	util.RespondWithData(c, nil)
}

// SetRoleStatus endpoint
func (rc *RoleController) SetRoleStatus(c *gin.Context) {
	roleID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid role ID", err)
		return
	}
	var body struct {
		Status model.Status `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid status data", err)
		return
	}
	principal, ok := util.GetPrincipalFromContext(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", argus_errors.ErrUnauthorized)
		return
	}

	affected, err := rc.roleService.SetRoleStatus(c, roleID, body.Status, principal)
	if err != nil {
		switch {
		case errors.Is(err, argus_errors.ErrRoleNotFound):
			util.RespondWithError(c, http.StatusNotFound, "Role not found", err)
		case errors.Is(err, argus_errors.ErrAdminRoleProtected):
			util.RespondWithError(c, http.StatusForbidden, "The admin role cannot be disabled", err)
		case errors.Is(err, argus_errors.ErrInvalidRoleData):
			util.RespondWithError(c, http.StatusBadRequest, err.Error(), err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to update role status", err)
		}
		return
	}

	util.RespondWithData(c, gin.H{"affectedUsers": affected})
}
