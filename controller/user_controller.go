// api/controller/user_controller.go
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

type UserController struct {
	userService service.IUserService
}

func NewUserController(userService service.IUserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// RegisterRoutes registers the API routes
func (uc *UserController) RegisterRoutes(r *gin.RouterGroup) {
	user := r.Group("/user")
	{
		user.GET("/list", uc.ListUsers)
		user.GET("/:id", uc.GetUser)
		user.POST("", uc.CreateUser)
		user.PUT("/:id", uc.UpdateUser)
		user.DELETE("/:id", uc.DeleteUser)
		user.PATCH("/:id/status", uc.SetUserStatus)
	}
}

// ListUsers endpoint returns the page of users the caller's data scope
// allows them to see.
func (uc *UserController) ListUsers(c *gin.Context) {
	principal, ok := util.GetPrincipalFromContext(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", argus_errors.ErrUnauthorized)
		return
	}
	pageNum, pageSize, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}

	deptID := 0
	if raw := c.Query("deptId"); raw != "" {
		deptID, err = strconv.Atoi(raw)
		if err != nil {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid department ID", err)
			return
		}
	}

	criteria := model.UserSearchCriteria{
		Username: c.Query("username"),
		Phone:    c.Query("phone"),
		Email:    c.Query("email"),
		Status:   model.Status(c.Query("status")),
		DeptID:   deptID,
	}

	page, err := uc.userService.ListUsers(c, principal, criteria, pageNum, pageSize)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list users", err)
		return
	}

	util.RespondWithData(c, page)
}

// GetUser endpoint
func (uc *UserController) GetUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid user ID", err)
		return
	}

	user, err := uc.userService.GetUser(c, userID)
	if err != nil {
		if errors.Is(err, argus_errors.ErrUserNotFound) {
			util.RespondWithError(c, http.StatusNotFound, "User not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve user", err)
		}
		return
	}

	util.RespondWithData(c, user)
}

// CreateUser endpoint
func (uc *UserController) CreateUser(c *gin.Context) {
	var user model.User
	if err := c.ShouldBindJSON(&user); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid user data", argus_errors.ErrInvalidUserData)
		return
	}
	principal, ok := util.GetPrincipalFromContext(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", argus_errors.ErrUnauthorized)
		return
	}

	createdUser, err := uc.userService.CreateUser(c, user, principal)
	if err != nil {
		switch {
		case errors.Is(err, argus_errors.ErrUserConflict):
			util.RespondWithError(c, http.StatusBadRequest, "Username already exists", err)
		case errors.Is(err, argus_errors.ErrInvalidUserData):
			util.RespondWithError(c, http.StatusBadRequest, err.Error(), err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to create user", err)
		}
		return
	}

	util.RespondWithData(c, createdUser)
}

// UpdateUser endpoint
func (uc *UserController) UpdateUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid user ID", err)
		return
	}
	var user model.User
	if err := c.ShouldBindJSON(&user); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid user data", err)
		return
	}
	user.ID = userID
	principal, ok := util.GetPrincipalFromContext(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", argus_errors.ErrUnauthorized)
		return
	}

	updatedUser, err := uc.userService.UpdateUser(c, user, principal)
	if err != nil {
		switch {
		case errors.Is(err, argus_errors.ErrUserNotFound):
			util.RespondWithError(c, http.StatusNotFound, "User not found", err)
		case errors.Is(err, argus_errors.ErrInvalidUserData):
			util.RespondWithError(c, http.StatusBadRequest, err.Error(), err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to update user", err)
		}
		return
	}

	util.RespondWithData(c, updatedUser)
}

// DeleteUser endpoint
func (uc *UserController) DeleteUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid user ID", err)
		return
	}
	principal, ok := util.GetPrincipalFromContext(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", argus_errors.ErrUnauthorized)
		return
	}

	if err := uc.userService.DeleteUser(c, userID, principal); err != nil {
		switch {
		case errors.Is(err, argus_errors.ErrUserNotFound):
			util.RespondWithError(c, http.StatusNotFound, "User not found", err)
		case errors.Is(err, argus_errors.ErrInvalidUserData):
			util.RespondWithError(c, http.StatusBadRequest, err.Error(), err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to delete user", err)
		}
		return
	}

	util.RespondWithData(c, nil)
}

// SetUserStatus endpoint
func (uc *UserController) SetUserStatus(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid user ID", err)
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

	if err := uc.userService.SetUserStatus(c, userID, body.Status, principal); err != nil {
		switch {
		case errors.Is(err, argus_errors.ErrUserNotFound):
			util.RespondWithError(c, http.StatusNotFound, "User not found", err)
		case errors.Is(err, argus_errors.ErrInvalidUserData):
			util.RespondWithError(c, http.StatusBadRequest, err.Error(), err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to update user status", err)
		}
		return
	}

	util.RespondWithData(c, nil)
}
