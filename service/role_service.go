// api/service/role_service.go
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

// IRoleService defines the interface for role operations
type IRoleService interface {
	ListRoles(ctx context.Context, criteria model.RoleSearchCriteria, pageNum, pageSize int) (*model.RolePage, error)
	GetRole(ctx context.Context, roleID int) (*model.Role, error)
	CreateRole(ctx context.Context, role model.Role, actor scope.Principal) (*model.Role, error)
	UpdateRole(ctx context.Context, role model.Role, actor scope.Principal) (*model.Role, error)
	DeleteRole(ctx context.Context, roleID int, actor scope.Principal) error
	SetRoleStatus(ctx context.Context, roleID int, status model.Status, actor scope.Principal) (int, error)
	ListMenus(ctx context.Context) ([]model.Menu, error)
}

// RoleService handles business logic for role operations
type RoleService struct {
	roleDAO         dao.RoleDAO
	validationUtil  *util.ValidationUtil
	cacheService    *util.CacheService
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
	auditSvc        audit.Service
}

var _ IRoleService = &RoleService{}

// NewRoleService creates a new instance of RoleService
func NewRoleService(roleDAO dao.RoleDAO, validationUtil *util.ValidationUtil, cacheService *util.CacheService, notificationSvc *util.NotificationService, eventBus *util.EventBus, auditSvc audit.Service) *RoleService {
	service := &RoleService{
		roleDAO:         roleDAO,
		validationUtil:  validationUtil,
		cacheService:    cacheService,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
		auditSvc:        auditSvc,
	}

	eventBus.Subscribe(util.EventRoleCreated, service.handleRoleChanged)
	eventBus.Subscribe(util.EventRoleUpdated, service.handleRoleChanged)
	eventBus.Subscribe(util.EventRoleStatus, service.handleRoleChanged)

	return service
}

func (s *RoleService) handleRoleChanged(ctx context.Context, event util.Event) error {
	role := event.Payload.(model.Role)
	logger.Info("Role change event received",
		zap.String("eventType", event.Type),
		zap.Int("roleID", role.ID))

	changeType := "updated"
	if event.Type == util.EventRoleCreated {
		changeType = "created"
	}
	if err := s.notificationSvc.NotifyRoleChange(ctx, changeType, role); err != nil {
		logger.Warn("Failed to send role change notification", zap.Error(err), zap.Int("roleID", role.ID))
	}
	return nil
}

// ListRoles retrieves a page of roles matching the criteria
func (s *RoleService) ListRoles(ctx context.Context, criteria model.RoleSearchCriteria, pageNum, pageSize int) (*model.RolePage, error) {
	total, roles, err := s.roleDAO.ListRoles(ctx, criteria, pageNum, pageSize)
	if err != nil {
		logger.Error("Error listing roles", zap.Error(err))
		return nil, argus_errors.ErrInternalServer
	}
	return &model.RolePage{Total: total, List: roles}, nil
}

// GetRole retrieves a role by its ID
func (s *RoleService) GetRole(ctx context.Context, roleID int) (*model.Role, error) {
	cachedRole, err := s.cacheService.GetRole(ctx, roleID)
	if err == nil && cachedRole != nil {
		return cachedRole, nil
	}

	role, err := s.roleDAO.GetRole(ctx, roleID)
	if err != nil {
		if errors.Is(err, argus_errors.ErrRoleNotFound) {
			return nil, argus_errors.ErrRoleNotFound
		}
		logger.Error("Error retrieving role", zap.Error(err), zap.Int("roleID", roleID))
		return nil, argus_errors.ErrInternalServer
	}

	if err := s.cacheService.SetRole(ctx, *role); err != nil {
		logger.Warn("Failed to cache role", zap.Error(err), zap.Int("roleID", roleID))
	}

	return role, nil
}

// CreateRole handles the creation of a new role
func (s *RoleService) CreateRole(ctx context.Context, role model.Role, actor scope.Principal) (*model.Role, error) {
	if err := s.validationUtil.ValidateRole(role); err != nil {
		return nil, fmt.Errorf("%w: %v", argus_errors.ErrInvalidRoleData, err)
	}
	if role.Key == model.AdminRoleKey {
		return nil, argus_errors.ErrRoleConflict
	}

	role.CreateTime = time.Now().Format("2006-01-02 15:04:05")

	created, err := s.roleDAO.CreateRole(ctx, role)
	if err != nil {
		logger.Error("Error creating role", zap.Error(err), zap.Int("actorID", actor.ID))
		return nil, err
	}

	if err := s.cacheService.SetRole(ctx, *created); err != nil {
		logger.Warn("Failed to cache role", zap.Error(err), zap.Int("roleID", created.ID))
	}

	s.eventBus.Publish(ctx, util.EventRoleCreated, *created)
	s.recordAudit(ctx, actor, "role.create", created.ID, true)

	logger.Info("Role created successfully", zap.Int("roleID", created.ID), zap.Int("actorID", actor.ID))
	return created, nil
}

// UpdateRole handles updates to an existing role. The role key is immutable
// and the reserved admin role can never be disabled through an update.
func (s *RoleService) UpdateRole(ctx context.Context, role model.Role, actor scope.Principal) (*model.Role, error) {
	existing, err := s.roleDAO.GetRole(ctx, role.ID)
	if err != nil {
		return nil, err
	}
	if existing.IsAdmin() && role.Status == model.StatusDisabled {
		return nil, argus_errors.ErrAdminRoleProtected
	}
	if role.Name == "" {
		role.Name = existing.Name
	}
	role.Key = existing.Key
	if err := s.validationUtil.ValidateRole(role); err != nil {
		return nil, fmt.Errorf("%w: %v", argus_errors.ErrInvalidRoleData, err)
	}

	updated, err := s.roleDAO.UpdateRole(ctx, role)
	if err != nil {
		logger.Error("Error updating role", zap.Error(err), zap.Int("roleID", role.ID), zap.Int("actorID", actor.ID))
		return nil, err
	}

	if err := s.cacheService.SetRole(ctx, *updated); err != nil {
		logger.Warn("Failed to update role in cache", zap.Error(err), zap.Int("roleID", role.ID))
	}

	s.eventBus.Publish(ctx, util.EventRoleUpdated, *updated)
	s.recordAudit(ctx, actor, "role.update", role.ID, true)

	logger.Info("Role updated successfully", zap.Int("roleID", role.ID), zap.Int("actorID", actor.ID))
	return updated, nil
}

// DeleteRole removes a role. The reserved admin role is protected; the
// rejection happens before any state is touched.
func (s *RoleService) DeleteRole(ctx context.Context, roleID int, actor scope.Principal) error {
	existing, err := s.roleDAO.GetRole(ctx, roleID)
	if err != nil {
		return err
	}
	if existing.IsAdmin() {
		s.recordAudit(ctx, actor, "role.delete", roleID, false)
		return argus_errors.ErrAdminRoleProtected
	}

	if err := s.roleDAO.DeleteRole(ctx, roleID); err != nil {
		logger.Error("Error deleting role", zap.Error(err), zap.Int("roleID", roleID), zap.Int("actorID", actor.ID))
		return err
	}

	if err := s.cacheService.DeleteRole(ctx, roleID); err != nil {
		logger.Warn("Failed to delete role from cache", zap.Error(err), zap.Int("roleID", roleID))
	}

	s.eventBus.Publish(ctx, util.EventRoleDeleted, *existing)
	s.recordAudit(ctx, actor, "role.delete", roleID, true)

	logger.Info("Role deleted successfully", zap.Int("roleID", roleID), zap.Int("actorID", actor.ID))
	return nil
}

// SetRoleStatus flips a role's status and runs the holder-side cascade.
// Disabling suspends the role for every holder without touching their
// assignments, so re-enabling restores exactly the previous state. The
// reserved admin role can never be disabled.
func (s *RoleService) SetRoleStatus(ctx context.Context, roleID int, status model.Status, actor scope.Principal) (int, error) {
	if status != model.StatusActive && status != model.StatusDisabled {
		return 0, fmt.Errorf("%w: unknown status %q", argus_errors.ErrInvalidRoleData, status)
	}

	existing, err := s.roleDAO.GetRole(ctx, roleID)
	if err != nil {
		return 0, err
	}
	if existing.IsAdmin() && status == model.StatusDisabled {
		s.recordAudit(ctx, actor, "role.status", roleID, false)
		return 0, argus_errors.ErrAdminRoleProtected
	}

	affected, err := s.roleDAO.SetRoleStatus(ctx, roleID, status)
	if err != nil {
		logger.Error("Error setting role status", zap.Error(err), zap.Int("roleID", roleID), zap.Int("actorID", actor.ID))
		return 0, err
	}

	if err := s.cacheService.DeleteRole(ctx, roleID); err != nil {
		logger.Warn("Failed to invalidate role cache", zap.Error(err), zap.Int("roleID", roleID))
	}

	changed := *existing
	changed.Status = status
	s.eventBus.Publish(ctx, util.EventRoleStatus, changed)
	s.recordAudit(ctx, actor, "role.status", roleID, true)

	logger.Info("Role status updated",
		zap.Int("roleID", roleID),
		zap.String("status", string(status)),
		zap.Int("affectedUsers", affected),
		zap.Int("actorID", actor.ID))
	return affected, nil
}

// ListMenus returns the flat menu catalogue for role assignment forms.
func (s *RoleService) ListMenus(ctx context.Context) ([]model.Menu, error) {
	menus, err := s.roleDAO.ListMenus(ctx)
	if err != nil {
		logger.Error("Error listing menus", zap.Error(err))
		return nil, argus_errors.ErrInternalServer
	}
	return menus, nil
}

func (s *RoleService) recordAudit(ctx context.Context, actor scope.Principal, action string, entityID int, success bool) {
	err := s.auditSvc.Record(ctx, audit.Entry{
		UserID:   actor.ID,
		Action:   action,
		Entity:   "role",
		EntityID: entityID,
		Success:  success,
	})
	if err != nil {
		logger.Warn("Failed to record audit entry", zap.Error(err), zap.String("action", action))
	}
}
