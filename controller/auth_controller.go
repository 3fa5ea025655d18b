// api/controller/auth_controller.go
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/argus-admin/argus/api/auth"
	argus_errors "github.com/argus-admin/argus/api/errors"
	"github.com/argus-admin/argus/api/service"
	"github.com/argus-admin/argus/api/util"
)

type AuthController struct {
	sessions    *auth.Manager
	userService service.IUserService
}

func NewAuthController(sessions *auth.Manager, userService service.IUserService) *AuthController {
	return &AuthController{
		sessions:    sessions,
		userService: userService,
	}
}

// RegisterPublicRoutes registers the endpoints reachable without a token.
func (ac *AuthController) RegisterPublicRoutes(r *gin.RouterGroup) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", ac.Login)
		authGroup.GET("/saved-login", ac.SavedLogin)
	}
}

// RegisterRoutes registers the endpoints that require an authenticated
// session.
func (ac *AuthController) RegisterRoutes(r *gin.RouterGroup) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/logout", ac.Logout)
		authGroup.PUT("/password", ac.UpdatePassword)
	}
	user := r.Group("/user")
	{
		user.GET("/info", ac.UserInfo)
		user.GET("/routes", ac.UserRoutes)
	}
}

type loginRequest struct {
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"rememberMe"`
}

// Login endpoint opens a session and returns the bearer token.
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Username and password are required", err)
		return
	}

	session, err := ac.sessions.Login(c, req.Username, req.Password, req.RememberMe)
	if err != nil {
		switch {
		case errors.Is(err, argus_errors.ErrInvalidCredentials):
			util.RespondWithError(c, http.StatusUnauthorized, "Invalid username or password", err)
		case errors.Is(err, argus_errors.ErrAccountDisabled):
			util.RespondWithError(c, http.StatusForbidden, "Account is disabled", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Login failed", err)
		}
		return
	}

	util.RespondWithData(c, gin.H{"token": session.Token()})
}

// SavedLogin endpoint returns remembered credentials for the login form.
func (ac *AuthController) SavedLogin(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		util.RespondWithError(c, http.StatusBadRequest, "Username is required", nil)
		return
	}

	info, err := ac.sessions.SavedLogin(c, username)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to load saved login", err)
		return
	}
	util.RespondWithData(c, info)
}

// Logout endpoint ends the session. It always succeeds: local session
// state is cleared even when nothing was found for the token.
func (ac *AuthController) Logout(c *gin.Context) {
	token := c.GetString("token")
	ac.sessions.Logout(c, token)
	util.RespondWithData(c, nil)
}

type passwordRequest struct {
	Username        string `json:"username" binding:"required"`
	OldPassword     string `json:"oldPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
	ConfirmPassword string `json:"confirmPassword"`
}

const minPasswordLength = 6

// UpdatePassword endpoint rotates the caller's password.
func (ac *AuthController) UpdatePassword(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid password data", err)
		return
	}
	if len(req.NewPassword) < minPasswordLength {
		util.RespondWithError(c, http.StatusBadRequest, "Password must be at least 6 characters", argus_errors.ErrInvalidUserData)
		return
	}
	if req.ConfirmPassword != "" && req.ConfirmPassword != req.NewPassword {
		util.RespondWithError(c, http.StatusBadRequest, "Password confirmation does not match", argus_errors.ErrInvalidUserData)
		return
	}

	if err := ac.sessions.UpdatePassword(c, req.Username, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, argus_errors.ErrInvalidCredentials):
			util.RespondWithError(c, http.StatusUnauthorized, "Current password is incorrect", err)
		case errors.Is(err, argus_errors.ErrUserNotFound):
			util.RespondWithError(c, http.StatusNotFound, "User not found", err)
		case errors.Is(err, argus_errors.ErrInvalidUserData):
			util.RespondWithError(c, http.StatusBadRequest, err.Error(), err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to update password", err)
		}
		return
	}

	util.RespondWithData(c, nil)
}

// UserInfo endpoint returns the caller's profile together with their
// effective role keys and permission strings.
func (ac *AuthController) UserInfo(c *gin.Context) {
	principal, ok := util.GetPrincipalFromContext(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", argus_errors.ErrUnauthorized)
		return
	}
	sessionValue, _ := c.Get("session")
	session, ok := sessionValue.(*auth.Session)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", argus_errors.ErrUnauthorized)
		return
	}

	user, err := ac.userService.GetUser(c, principal.ID)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to load user info", err)
		return
	}

	util.RespondWithData(c, gin.H{
		"user":        user,
		"roles":       principal.RoleKeys,
		"permissions": session.Permissions(),
	})
}

// UserRoutes endpoint returns the navigation routes installed for the
// caller's session.
func (ac *AuthController) UserRoutes(c *gin.Context) {
	sessionValue, _ := c.Get("session")
	session, ok := sessionValue.(*auth.Session)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", argus_errors.ErrUnauthorized)
		return
	}
	util.RespondWithData(c, session.Routes())
}
