// api/service/main_test.go
package service_test

import (
	"os"
	"testing"

	"go.uber.org/zap"

	"github.com/argus-admin/argus/api/audit"
	"github.com/argus-admin/argus/api/dao"
	logger "github.com/argus-admin/argus/api/logging"
	"github.com/argus-admin/argus/api/model"
	"github.com/argus-admin/argus/api/scope"
	"github.com/argus-admin/argus/api/service"
	"github.com/argus-admin/argus/api/util"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	zap.ReplaceGlobals(logger.Log)
	os.Exit(m.Run())
}

// fixture wires the three services over one seeded in-memory store, a noop
// audit sink and no Redis.
type fixture struct {
	store *dao.MemoryStore
	dept  *service.DepartmentService
	role  *service.RoleService
	user  *service.UserService
}

func newFixture() *fixture {
	store := dao.NewSeededMemoryStore()
	bus := util.NewEventBus()
	validation := util.NewValidationUtil()
	cache := util.NewCacheService()
	notify := util.NewNotificationService()
	audits := audit.NewService(audit.NoopRepository{})

	return &fixture{
		store: store,
		dept:  service.NewDepartmentService(store, store, validation, cache, notify, bus, audits, 1),
		role:  service.NewRoleService(store, validation, cache, notify, bus, audits),
		user:  service.NewUserService(store, store, validation, cache, notify, bus, audits),
	}
}

func adminPrincipal() scope.Principal {
	return scope.Principal{ID: 1, DeptID: 1, DeptPath: "0,1", RoleKeys: []string{"admin"}, DataScope: model.ScopeAll}
}
