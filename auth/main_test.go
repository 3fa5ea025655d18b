// api/auth/main_test.go
package auth_test

import (
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/argus-admin/argus/api/audit"
	"github.com/argus-admin/argus/api/auth"
	"github.com/argus-admin/argus/api/dao"
	logger "github.com/argus-admin/argus/api/logging"
	"github.com/argus-admin/argus/api/util"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	zap.ReplaceGlobals(logger.Log)
	os.Exit(m.Run())
}

// newManager wires a session manager over a seeded store, an in-memory
// login store and the demo credentials.
func newManager(store *dao.MemoryStore, ttl time.Duration) (*auth.Manager, *auth.MemoryLoginStore, *auth.StaticVerifier) {
	logins := auth.NewMemoryLoginStore()
	verifier := auth.NewStaticVerifier(auth.SeedPasswords())
	issuer := auth.NewTokenIssuer("test-signing-key", ttl)
	manager := auth.NewManager(
		store,
		store,
		verifier,
		logins,
		issuer,
		util.NewEventBus(),
		audit.NewService(audit.NoopRepository{}),
		time.Hour,
	)
	return manager, logins, verifier
}
