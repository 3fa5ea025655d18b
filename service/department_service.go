// api/service/department_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/argus-admin/argus/api/audit"
	"github.com/argus-admin/argus/api/dao"
	"github.com/argus-admin/argus/api/depttree"
	argus_errors "github.com/argus-admin/argus/api/errors"
	logger "github.com/argus-admin/argus/api/logging"
	"github.com/argus-admin/argus/api/model"
	"github.com/argus-admin/argus/api/scope"
	"github.com/argus-admin/argus/api/util"
)

// IDepartmentService defines the interface for department operations
type IDepartmentService interface {
	ListTree(ctx context.Context, principal scope.Principal, criteria model.DepartmentSearchCriteria) ([]*model.DepartmentNode, error)
	GetDepartment(ctx context.Context, deptID int) (*model.Department, error)
	CreateDepartment(ctx context.Context, dept model.Department, actor scope.Principal) (*model.Department, error)
	UpdateDepartment(ctx context.Context, deptID int, patch model.DepartmentPatch, actor scope.Principal) (*model.Department, error)
	DeleteDepartment(ctx context.Context, deptID int, actor scope.Principal) error
	SetDepartmentStatus(ctx context.Context, deptID int, status model.Status, actor scope.Principal) (int, error)
	ListDepartmentUsers(ctx context.Context, deptID int) ([]model.User, error)
	SelectorTree(ctx context.Context) ([]*model.DeptOption, error)
}

// DepartmentService handles business logic for department operations
type DepartmentService struct {
	deptDAO         dao.DepartmentDAO
	userDAO         dao.UserDAO
	validationUtil  *util.ValidationUtil
	cacheService    *util.CacheService
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
	auditSvc        audit.Service
	defaultDeptID   int
}

var _ IDepartmentService = &DepartmentService{}

// NewDepartmentService creates a new instance of DepartmentService
func NewDepartmentService(deptDAO dao.DepartmentDAO, userDAO dao.UserDAO, validationUtil *util.ValidationUtil, cacheService *util.CacheService, notificationSvc *util.NotificationService, eventBus *util.EventBus, auditSvc audit.Service, defaultDeptID int) *DepartmentService {
	service := &DepartmentService{
		deptDAO:         deptDAO,
		userDAO:         userDAO,
		validationUtil:  validationUtil,
		cacheService:    cacheService,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
		auditSvc:        auditSvc,
		defaultDeptID:   defaultDeptID,
	}

	eventBus.Subscribe(util.EventDeptCreated, service.handleDepartmentCreated)
	eventBus.Subscribe(util.EventDeptUpdated, service.handleDepartmentUpdated)
	eventBus.Subscribe(util.EventDeptDeleted, service.handleDepartmentDeleted)

	return service
}

func (s *DepartmentService) handleDepartmentCreated(ctx context.Context, event util.Event) error {
	dept := event.Payload.(model.Department)
	logger.Info("Department created event received", zap.Int("deptID", dept.ID))

	if err := s.notificationSvc.NotifyDepartmentChange(ctx, "created", dept); err != nil {
		logger.Warn("Failed to send department creation notification", zap.Error(err), zap.Int("deptID", dept.ID))
	}
	return nil
}

func (s *DepartmentService) handleDepartmentUpdated(ctx context.Context, event util.Event) error {
	dept := event.Payload.(model.Department)
	logger.Info("Department updated event received", zap.Int("deptID", dept.ID))

	if err := s.notificationSvc.NotifyDepartmentChange(ctx, "updated", dept); err != nil {
		logger.Warn("Failed to send department update notification", zap.Error(err), zap.Int("deptID", dept.ID))
	}
	if err := s.cacheService.DeleteDepartment(ctx, dept.ID); err != nil {
		logger.Warn("Failed to invalidate department cache", zap.Error(err), zap.Int("deptID", dept.ID))
	}
	return nil
}

func (s *DepartmentService) handleDepartmentDeleted(ctx context.Context, event util.Event) error {
	deptID := event.Payload.(int)
	logger.Info("Department deleted event received", zap.Int("deptID", deptID))

	if err := s.notificationSvc.NotifyDepartmentChange(ctx, "deleted", model.Department{ID: deptID}); err != nil {
		logger.Warn("Failed to send department deletion notification", zap.Error(err), zap.Int("deptID", deptID))
	}
	return nil
}

// ListTree returns the department forest visible to the principal, filtered
// by the search criteria. Filtering happens on the flat records; a matching
// department whose parent was filtered out is promoted to a root so search
// results never vanish just because an ancestor did not match.
func (s *DepartmentService) ListTree(ctx context.Context, principal scope.Principal, criteria model.DepartmentSearchCriteria) ([]*model.DepartmentNode, error) {
	forest, err := s.deptDAO.Forest(ctx)
	if err != nil {
		logger.Error("Error loading department forest", zap.Error(err))
		return nil, argus_errors.ErrInternalServer
	}

	visible := s.visibleForest(forest, principal)

	if criteria.Name != "" || criteria.Status != "" {
		var matched []model.Department
		for _, d := range visible.Flatten() {
			if criteria.Name != "" && !strings.Contains(strings.ToLower(d.Name), strings.ToLower(criteria.Name)) {
				continue
			}
			if criteria.Status != "" && d.Status != criteria.Status {
				continue
			}
			matched = append(matched, d)
		}
		visible = depttree.BuildVisible(matched)
	}

	return visible.Roots(), nil
}

// visibleForest narrows the forest to what the principal's data scope
// allows. Admins and all-scope principals see everything.
func (s *DepartmentService) visibleForest(forest *depttree.Forest, principal scope.Principal) *depttree.Forest {
	if principal.IsAdmin() || principal.DataScope == model.ScopeAll {
		return forest
	}

	var keep []model.Department
	switch principal.DataScope {
	case model.ScopeCustom:
		for _, id := range principal.CustomDeptIDs {
			for _, descID := range forest.DescendantIDs(id) {
				if d, ok := forest.Find(descID); ok {
					keep = append(keep, d)
				}
			}
		}
	case model.ScopeDept:
		if d, ok := forest.Find(principal.DeptID); ok {
			keep = append(keep, d)
		}
	case model.ScopeDeptAndChild:
		for _, descID := range forest.DescendantIDs(principal.DeptID) {
			if d, ok := forest.Find(descID); ok {
				keep = append(keep, d)
			}
		}
	default:
		// ScopeSelf and unknown scopes see no part of the organisation.
	}
	return depttree.BuildVisible(keep)
}

// GetDepartment retrieves a department by its ID
func (s *DepartmentService) GetDepartment(ctx context.Context, deptID int) (*model.Department, error) {
	cachedDept, err := s.cacheService.GetDepartment(ctx, deptID)
	if err == nil && cachedDept != nil {
		return cachedDept, nil
	}

	dept, err := s.deptDAO.GetDepartment(ctx, deptID)
	if err != nil {
		if errors.Is(err, argus_errors.ErrDepartmentNotFound) {
			return nil, argus_errors.ErrDepartmentNotFound
		}
		logger.Error("Error retrieving department", zap.Error(err), zap.Int("deptID", deptID))
		return nil, argus_errors.ErrInternalServer
	}

	if err := s.cacheService.SetDepartment(ctx, *dept); err != nil {
		logger.Warn("Failed to cache department", zap.Error(err), zap.Int("deptID", deptID))
	}

	return dept, nil
}

// CreateDepartment handles the creation of a new department
func (s *DepartmentService) CreateDepartment(ctx context.Context, dept model.Department, actor scope.Principal) (*model.Department, error) {
	if err := s.validationUtil.ValidateDepartment(dept); err != nil {
		return nil, fmt.Errorf("%w: %v", argus_errors.ErrInvalidDepartmentData, err)
	}

	if dept.Status == "" {
		dept.Status = model.StatusActive
	}
	dept.CreateTime = time.Now().Format("2006-01-02 15:04:05")

	created, err := s.deptDAO.CreateDepartment(ctx, dept)
	if err != nil {
		logger.Error("Error creating department", zap.Error(err), zap.Int("actorID", actor.ID))
		return nil, err
	}

	if err := s.cacheService.SetDepartment(ctx, *created); err != nil {
		logger.Warn("Failed to cache department", zap.Error(err), zap.Int("deptID", created.ID))
	}

	s.eventBus.Publish(ctx, util.EventDeptCreated, *created)
	s.recordAudit(ctx, actor, "dept.create", created.ID, true)

	logger.Info("Department created successfully", zap.Int("deptID", created.ID), zap.Int("actorID", actor.ID))
	return created, nil
}

// UpdateDepartment applies a partial update. The department's ID and parent
// are immutable; moving a subtree is not supported.
func (s *DepartmentService) UpdateDepartment(ctx context.Context, deptID int, patch model.DepartmentPatch, actor scope.Principal) (*model.Department, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, fmt.Errorf("%w: department name cannot be empty", argus_errors.ErrInvalidDepartmentData)
	}

	updated, err := s.deptDAO.UpdateDepartment(ctx, deptID, patch)
	if err != nil {
		logger.Error("Error updating department", zap.Error(err), zap.Int("deptID", deptID), zap.Int("actorID", actor.ID))
		return nil, err
	}

	if err := s.cacheService.SetDepartment(ctx, *updated); err != nil {
		logger.Warn("Failed to update department in cache", zap.Error(err), zap.Int("deptID", deptID))
	}

	s.eventBus.Publish(ctx, util.EventDeptUpdated, *updated)
	s.recordAudit(ctx, actor, "dept.update", deptID, true)

	logger.Info("Department updated successfully", zap.Int("deptID", deptID), zap.Int("actorID", actor.ID))
	return updated, nil
}

// DeleteDepartment removes a leaf department. Members are reassigned to the
// default department and custom scope references are pruned in the same
// atomic mutation; a department with children is rejected outright.
func (s *DepartmentService) DeleteDepartment(ctx context.Context, deptID int, actor scope.Principal) error {
	reassigned, err := s.deptDAO.DeleteDepartment(ctx, deptID, s.defaultDeptID)
	if err != nil {
		logger.Error("Error deleting department", zap.Error(err), zap.Int("deptID", deptID), zap.Int("actorID", actor.ID))
		s.recordAudit(ctx, actor, "dept.delete", deptID, false)
		return err
	}

	if err := s.cacheService.DeleteDepartment(ctx, deptID); err != nil {
		logger.Warn("Failed to delete department from cache", zap.Error(err), zap.Int("deptID", deptID))
	}

	s.eventBus.Publish(ctx, util.EventDeptDeleted, deptID)
	s.recordAudit(ctx, actor, "dept.delete", deptID, true)

	logger.Info("Department deleted successfully",
		zap.Int("deptID", deptID),
		zap.Int("reassignedUsers", reassigned),
		zap.Int("actorID", actor.ID))
	return nil
}

// SetDepartmentStatus flips a department's status. Disabling cascades to
// the department's currently active members and returns how many were
// disabled; re-enabling never touches members.
func (s *DepartmentService) SetDepartmentStatus(ctx context.Context, deptID int, status model.Status, actor scope.Principal) (int, error) {
	if status != model.StatusActive && status != model.StatusDisabled {
		return 0, fmt.Errorf("%w: unknown status %q", argus_errors.ErrInvalidDepartmentData, status)
	}

	disabled, err := s.deptDAO.SetDepartmentStatus(ctx, deptID, status)
	if err != nil {
		logger.Error("Error setting department status", zap.Error(err), zap.Int("deptID", deptID), zap.Int("actorID", actor.ID))
		return 0, err
	}

	if err := s.cacheService.DeleteDepartment(ctx, deptID); err != nil {
		logger.Warn("Failed to invalidate department cache", zap.Error(err), zap.Int("deptID", deptID))
	}

	s.eventBus.Publish(ctx, util.EventDeptDisabled, deptID)
	s.recordAudit(ctx, actor, "dept.status", deptID, true)

	logger.Info("Department status updated",
		zap.Int("deptID", deptID),
		zap.String("status", string(status)),
		zap.Int("disabledUsers", disabled),
		zap.Int("actorID", actor.ID))
	return disabled, nil
}

// ListDepartmentUsers returns the users directly assigned to a department.
func (s *DepartmentService) ListDepartmentUsers(ctx context.Context, deptID int) ([]model.User, error) {
	if _, err := s.deptDAO.GetDepartment(ctx, deptID); err != nil {
		return nil, err
	}
	users, err := s.userDAO.UsersByDepartment(ctx, deptID)
	if err != nil {
		logger.Error("Error listing department users", zap.Error(err), zap.Int("deptID", deptID))
		return nil, argus_errors.ErrInternalServer
	}
	return users, nil
}

// SelectorTree returns the full department forest shaped for form
// selectors. Disabled departments stay in the tree but are not selectable.
func (s *DepartmentService) SelectorTree(ctx context.Context) ([]*model.DeptOption, error) {
	forest, err := s.deptDAO.Forest(ctx)
	if err != nil {
		logger.Error("Error loading department forest", zap.Error(err))
		return nil, argus_errors.ErrInternalServer
	}
	return optionsFromNodes(forest.Roots()), nil
}

func optionsFromNodes(nodes []*model.DepartmentNode) []*model.DeptOption {
	out := make([]*model.DeptOption, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, &model.DeptOption{
			Value:    n.ID,
			Label:    n.Name,
			Disabled: n.Status == model.StatusDisabled,
			Children: optionsFromNodes(n.Children),
		})
	}
	return out
}

func (s *DepartmentService) recordAudit(ctx context.Context, actor scope.Principal, action string, entityID int, success bool) {
	err := s.auditSvc.Record(ctx, audit.Entry{
		UserID:   actor.ID,
		Action:   action,
		Entity:   "department",
		EntityID: entityID,
		Success:  success,
	})
	if err != nil {
		logger.Warn("Failed to record audit entry", zap.Error(err), zap.String("action", action))
	}
}
