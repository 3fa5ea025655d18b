// api/util/notification_service.go

package util

import (
	"context"

	"go.uber.org/zap"

	logger "github.com/argus-admin/argus/api/logging"
	"github.com/argus-admin/argus/api/model"
)

type NotificationService struct {
	// You might want to add dependencies here, such as a message queue client
}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

func (n *NotificationService) NotifyDepartmentChange(ctx context.Context, changeType string, dept model.Department) error {
	logger.Info("Notifying department change",
		zap.String("changeType", changeType),
		zap.Int("deptID", dept.ID),
		zap.String("deptName", dept.Name))
	return nil
}

func (n *NotificationService) NotifyRoleChange(ctx context.Context, changeType string, role model.Role) error {
	logger.Info("Notifying role change",
		zap.String("changeType", changeType),
		zap.Int("roleID", role.ID),
		zap.String("roleName", role.Name))
	return nil
}

func (n *NotificationService) NotifyUserChange(ctx context.Context, changeType string, user model.User) error {
	logger.Info("Notifying user change",
		zap.String("changeType", changeType),
		zap.Int("userID", user.ID),
		zap.String("username", user.Username))
	return nil
}

func (n *NotificationService) NotifyAdmins(ctx context.Context, message string) error {
	logger.Info("Notifying admins", zap.String("message", message))
	return nil
}
