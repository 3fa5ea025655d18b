// api/controller/main_test.go
package controller_test

import (
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	logger "github.com/argus-admin/argus/api/logging"
	"github.com/argus-admin/argus/api/model"
	"github.com/argus-admin/argus/api/scope"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.Log = zap.NewNop()
	zap.ReplaceGlobals(logger.Log)
	os.Exit(m.Run())
}

// withPrincipal injects an authenticated admin principal the way the token
// middleware would.
func withPrincipal() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("principal", scope.Principal{
			ID:        1,
			DeptID:    1,
			DeptPath:  "0,1",
			RoleKeys:  []string{model.AdminRoleKey},
			DataScope: model.ScopeAll,
		})
		c.Next()
	}
}
