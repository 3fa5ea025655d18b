// api/service/user_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/argus-admin/argus/api/audit"
	"github.com/argus-admin/argus/api/dao"
	argus_errors "github.com/argus-admin/argus/api/errors"
	logger "github.com/argus-admin/argus/api/logging"
	"github.com/argus-admin/argus/api/model"
	"github.com/argus-admin/argus/api/scope"
	"github.com/argus-admin/argus/api/util"
)

// IUserService defines the interface for user operations
type IUserService interface {
	ListUsers(ctx context.Context, principal scope.Principal, criteria model.UserSearchCriteria, pageNum, pageSize int) (*model.UserPage, error)
	GetUser(ctx context.Context, userID int) (*model.User, error)
	CreateUser(ctx context.Context, user model.User, actor scope.Principal) (*model.User, error)
	UpdateUser(ctx context.Context, user model.User, actor scope.Principal) (*model.User, error)
	DeleteUser(ctx context.Context, userID int, actor scope.Principal) error
	SetUserStatus(ctx context.Context, userID int, status model.Status, actor scope.Principal) error
}

// UserService handles business logic for user operations
type UserService struct {
	userDAO         dao.UserDAO
	roleDAO         dao.RoleDAO
	validationUtil  *util.ValidationUtil
	cacheService    *util.CacheService
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
	auditSvc        audit.Service
}

var _ IUserService = &UserService{}

// NewUserService creates a new instance of UserService
func NewUserService(userDAO dao.UserDAO, roleDAO dao.RoleDAO, validationUtil *util.ValidationUtil, cacheService *util.CacheService, notificationSvc *util.NotificationService, eventBus *util.EventBus, auditSvc audit.Service) *UserService {
	service := &UserService{
		userDAO:         userDAO,
		roleDAO:         roleDAO,
		validationUtil:  validationUtil,
		cacheService:    cacheService,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
		auditSvc:        auditSvc,
	}

	eventBus.Subscribe(util.EventUserCreated, service.handleUserChanged)
	eventBus.Subscribe(util.EventUserUpdated, service.handleUserChanged)

	return service
}

func (s *UserService) handleUserChanged(ctx context.Context, event util.Event) error {
	user := event.Payload.(model.User)
	logger.Info("User change event received",
		zap.String("eventType", event.Type),
		zap.Int("userID", user.ID))

	changeType := "updated"
	if event.Type == util.EventUserCreated {
		changeType = "created"
	}
	if err := s.notificationSvc.NotifyUserChange(ctx, changeType, user); err != nil {
		logger.Warn("Failed to send user change notification", zap.Error(err), zap.Int("userID", user.ID))
	}
	return nil
}

// ListUsers returns the page of users the principal's data scope lets them
// see. Scope filtering runs before pagination so totals reflect visibility,
// not raw table size.
func (s *UserService) ListUsers(ctx context.Context, principal scope.Principal, criteria model.UserSearchCriteria, pageNum, pageSize int) (*model.UserPage, error) {
	_, all, err := s.userDAO.ListUsers(ctx, criteria, 0, 0)
	if err != nil {
		logger.Error("Error listing users", zap.Error(err))
		return nil, argus_errors.ErrInternalServer
	}

	visible := make([]model.User, 0, len(all))
	for _, u := range all {
		if !scope.CanAccess(principal, scope.PrincipalRecord(u), scope.ActionView) {
			continue
		}
		s.decorateRoles(ctx, &u)
		visible = append(visible, u)
	}

	total := len(visible)
	start := (pageNum - 1) * pageSize
	if start < 0 || start >= total {
		return &model.UserPage{Total: total, List: []model.User{}}, nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return &model.UserPage{Total: total, List: visible[start:end]}, nil
}

// GetUser retrieves a user by ID with their effective role names resolved.
func (s *UserService) GetUser(ctx context.Context, userID int) (*model.User, error) {
	cachedUser, err := s.cacheService.GetUser(ctx, userID)
	if err == nil && cachedUser != nil {
		return cachedUser, nil
	}

	user, err := s.userDAO.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, argus_errors.ErrUserNotFound) {
			return nil, argus_errors.ErrUserNotFound
		}
		logger.Error("Error retrieving user", zap.Error(err), zap.Int("userID", userID))
		return nil, argus_errors.ErrInternalServer
	}
	s.decorateRoles(ctx, user)

	if err := s.cacheService.SetUser(ctx, *user); err != nil {
		logger.Warn("Failed to cache user", zap.Error(err), zap.Int("userID", userID))
	}

	return user, nil
}

// CreateUser handles the creation of a new user
func (s *UserService) CreateUser(ctx context.Context, user model.User, actor scope.Principal) (*model.User, error) {
	if user.Status == "" {
		user.Status = model.StatusActive
	}
	if user.DataScope == "" {
		user.DataScope = model.ScopeSelf
	}
	if err := s.validationUtil.ValidateUser(user); err != nil {
		return nil, fmt.Errorf("%w: %v", argus_errors.ErrInvalidUserData, err)
	}

	user.CreateTime = time.Now().Format("2006-01-02 15:04:05")

	created, err := s.userDAO.CreateUser(ctx, user)
	if err != nil {
		logger.Error("Error creating user", zap.Error(err), zap.Int("actorID", actor.ID))
		return nil, err
	}
	s.decorateRoles(ctx, created)

	if err := s.cacheService.SetUser(ctx, *created); err != nil {
		logger.Warn("Failed to cache user", zap.Error(err), zap.Int("userID", created.ID))
	}

	s.eventBus.Publish(ctx, util.EventUserCreated, *created)
	s.recordAudit(ctx, actor, "user.create", created.ID, true)

	logger.Info("User created successfully", zap.Int("userID", created.ID), zap.Int("actorID", actor.ID))
	return created, nil
}

// UpdateUser handles updates to an existing user
func (s *UserService) UpdateUser(ctx context.Context, user model.User, actor scope.Principal) (*model.User, error) {
	if err := s.validationUtil.ValidateUser(user); err != nil {
		return nil, fmt.Errorf("%w: %v", argus_errors.ErrInvalidUserData, err)
	}

	updated, err := s.userDAO.UpdateUser(ctx, user)
	if err != nil {
		logger.Error("Error updating user", zap.Error(err), zap.Int("userID", user.ID), zap.Int("actorID", actor.ID))
		return nil, err
	}
	s.decorateRoles(ctx, updated)

	if err := s.cacheService.SetUser(ctx, *updated); err != nil {
		logger.Warn("Failed to update user in cache", zap.Error(err), zap.Int("userID", user.ID))
	}

	s.eventBus.Publish(ctx, util.EventUserUpdated, *updated)
	s.recordAudit(ctx, actor, "user.update", user.ID, true)

	logger.Info("User updated successfully", zap.Int("userID", user.ID), zap.Int("actorID", actor.ID))
	return updated, nil
}

// DeleteUser removes a user account.
func (s *UserService) DeleteUser(ctx context.Context, userID int, actor scope.Principal) error {
	if userID == actor.ID {
		return fmt.Errorf("%w: cannot delete the account you are logged in with", argus_errors.ErrInvalidUserData)
	}

	if err := s.userDAO.DeleteUser(ctx, userID); err != nil {
		logger.Error("Error deleting user", zap.Error(err), zap.Int("userID", userID), zap.Int("actorID", actor.ID))
		return err
	}

	if err := s.cacheService.DeleteUser(ctx, userID); err != nil {
		logger.Warn("Failed to delete user from cache", zap.Error(err), zap.Int("userID", userID))
	}

	s.eventBus.Publish(ctx, util.EventUserDeleted, userID)
	s.recordAudit(ctx, actor, "user.delete", userID, true)

	logger.Info("User deleted successfully", zap.Int("userID", userID), zap.Int("actorID", actor.ID))
	return nil
}

// SetUserStatus flips a user's active flag.
func (s *UserService) SetUserStatus(ctx context.Context, userID int, status model.Status, actor scope.Principal) error {
	if status != model.StatusActive && status != model.StatusDisabled {
		return fmt.Errorf("%w: unknown status %q", argus_errors.ErrInvalidUserData, status)
	}

	user, err := s.userDAO.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	user.Status = status

	updated, err := s.userDAO.UpdateUser(ctx, *user)
	if err != nil {
		logger.Error("Error setting user status", zap.Error(err), zap.Int("userID", userID), zap.Int("actorID", actor.ID))
		return err
	}

	if err := s.cacheService.SetUser(ctx, *updated); err != nil {
		logger.Warn("Failed to update user in cache", zap.Error(err), zap.Int("userID", userID))
	}

	s.eventBus.Publish(ctx, util.EventUserUpdated, *updated)
	s.recordAudit(ctx, actor, "user.status", userID, true)

	logger.Info("User status updated",
		zap.Int("userID", userID),
		zap.String("status", string(status)),
		zap.Int("actorID", actor.ID))
	return nil
}

// decorateRoles rewrites the user's displayed role names from their
// effective roles. A suspended or deleted role contributes nothing.
func (s *UserService) decorateRoles(ctx context.Context, user *model.User) {
	effective := user.EffectiveRoleIDs()
	names := make([]string, 0, len(effective))
	for _, roleID := range effective {
		role, err := s.roleDAO.GetRole(ctx, roleID)
		if err != nil {
			continue
		}
		names = append(names, role.Name)
	}
	user.RoleNames = names
}

func (s *UserService) recordAudit(ctx context.Context, actor scope.Principal, action string, entityID int, success bool) {
	err := s.auditSvc.Record(ctx, audit.Entry{
		UserID:   actor.ID,
		Action:   action,
		Entity:   "user",
		EntityID: entityID,
		Success:  success,
	})
	if err != nil {
		logger.Warn("Failed to record audit entry", zap.Error(err), zap.String("action", action))
	}
}
