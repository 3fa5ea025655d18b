// api/auth/session_test.go
package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/argus-admin/argus/api/audit"
	"github.com/argus-admin/argus/api/auth"
	"github.com/argus-admin/argus/api/dao"
	"github.com/argus-admin/argus/api/db"
	argus_errors "github.com/argus-admin/argus/api/errors"
	"github.com/argus-admin/argus/api/model"
	"github.com/argus-admin/argus/api/navigation"
	"github.com/argus-admin/argus/api/util"
)

func TestLoginSuccess(t *testing.T) {
	manager, _, _ := newManager(dao.NewSeededMemoryStore(), time.Hour)

	session, err := manager.Login(context.Background(), "admin", "123456", false)
	require.NoError(t, err)
	assert.Equal(t, auth.StateAuthenticated, session.State())
	assert.NotEmpty(t, session.Token())
	assert.Equal(t, "admin", session.Username())
}

func TestLoginBadCredentials(t *testing.T) {
	manager, _, _ := newManager(dao.NewSeededMemoryStore(), time.Hour)

	_, err := manager.Login(context.Background(), "admin", "wrong", false)
	assert.ErrorIs(t, err, argus_errors.ErrInvalidCredentials)

	_, err = manager.Login(context.Background(), "ghost", "123456", false)
	assert.ErrorIs(t, err, argus_errors.ErrInvalidCredentials)
}

func TestLoginDisabledAccount(t *testing.T) {
	manager, _, _ := newManager(dao.NewSeededMemoryStore(), time.Hour)

	// User "dev" is seeded disabled; the password itself is correct.
	_, err := manager.Login(context.Background(), "dev", "123456", false)
	assert.ErrorIs(t, err, argus_errors.ErrAccountDisabled)
}

func TestLoginRememberMe(t *testing.T) {
	manager, logins, _ := newManager(dao.NewSeededMemoryStore(), time.Hour)
	ctx := context.Background()

	_, err := manager.Login(ctx, "admin", "123456", true)
	require.NoError(t, err)

	saved, err := manager.SavedLogin(ctx, "admin")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "admin", saved.Username)
	assert.Equal(t, "123456", saved.Password)
	assert.True(t, saved.RememberMe)

	// Logging in without rememberMe drops the stored credentials.
	_, err = manager.Login(ctx, "admin", "123456", false)
	require.NoError(t, err)

	saved, err = logins.Load(ctx, "admin")
	require.NoError(t, err)
	assert.Nil(t, saved)
}

func TestValidateResolvesPrincipal(t *testing.T) {
	manager, _, _ := newManager(dao.NewSeededMemoryStore(), time.Hour)
	ctx := context.Background()

	session, err := manager.Login(ctx, "admin", "123456", false)
	require.NoError(t, err)

	got, principal, err := manager.Validate(ctx, session.Token())
	require.NoError(t, err)
	assert.Same(t, session, got)
	assert.Equal(t, 1, principal.ID)
	assert.Equal(t, []string{"admin"}, principal.RoleKeys)
	assert.Equal(t, model.ScopeAll, principal.DataScope)
	assert.Contains(t, session.Permissions(), "*:*:*")

	// The first principal load installs the session's navigation routes,
	// terminated by the catch-all.
	routes := session.Routes()
	require.NotEmpty(t, routes)
	assert.Equal(t, navigation.NotFoundPath, routes[len(routes)-1].Path)
}

func TestValidateRejectsGarbageToken(t *testing.T) {
	manager, _, _ := newManager(dao.NewSeededMemoryStore(), time.Hour)

	_, _, err := manager.Validate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, argus_errors.ErrUnauthorized)
}

func TestValidateExpiredTokenTearsDownSession(t *testing.T) {
	manager, _, _ := newManager(dao.NewSeededMemoryStore(), -time.Minute)
	ctx := context.Background()

	session, err := manager.Login(ctx, "admin", "123456", false)
	require.NoError(t, err)

	_, _, err = manager.Validate(ctx, session.Token())
	assert.ErrorIs(t, err, argus_errors.ErrTokenExpired)
	assert.Equal(t, auth.StateExpired, session.State())
	assert.Empty(t, session.Routes())
}

func TestValidateReopensSessionAfterRestart(t *testing.T) {
	store := dao.NewSeededMemoryStore()
	first, _, _ := newManager(store, time.Hour)
	ctx := context.Background()

	session, err := first.Login(ctx, "test", "123456", false)
	require.NoError(t, err)

	// A second manager sharing the signing key has no session for the
	// token; a valid token reopens one from its claims.
	second, _, _ := newManager(store, time.Hour)
	reopened, principal, err := second.Validate(ctx, session.Token())
	require.NoError(t, err)
	assert.Equal(t, auth.StateAuthenticated, reopened.State())
	assert.Equal(t, "test", reopened.Username())
	assert.Equal(t, 2, principal.ID)
}

func TestValidateDisabledUser(t *testing.T) {
	store := dao.NewSeededMemoryStore()
	manager, _, _ := newManager(store, time.Hour)
	ctx := context.Background()

	session, err := manager.Login(ctx, "test", "123456", false)
	require.NoError(t, err)

	// Disable the account after login; the next principal load refuses it.
	u, err := store.GetUser(ctx, 2)
	require.NoError(t, err)
	u.Status = model.StatusDisabled
	_, err = store.UpdateUser(ctx, *u)
	require.NoError(t, err)

	_, _, err = manager.Validate(ctx, session.Token())
	assert.ErrorIs(t, err, argus_errors.ErrAccountDisabled)
}

func TestEmptyRoleSetIsFatal(t *testing.T) {
	store := dao.NewSeededMemoryStore()
	manager, _, _ := newManager(store, time.Hour)
	ctx := context.Background()

	session, err := manager.Login(ctx, "test", "123456", false)
	require.NoError(t, err)

	// Deleting the only role the user holds empties the effective set.
	require.NoError(t, store.DeleteRole(ctx, 2))

	_, _, err = manager.Validate(ctx, session.Token())
	assert.ErrorIs(t, err, argus_errors.ErrEmptyRoleSet)

	// The session was torn down so the next attempt starts clean.
	assert.Equal(t, auth.StateAnonymous, session.State())
	assert.Empty(t, session.Routes())
	_, ok := session.Principal()
	assert.False(t, ok)
}

func TestSuspendedOnlyRoleIsFatal(t *testing.T) {
	store := dao.NewSeededMemoryStore()
	manager, _, _ := newManager(store, time.Hour)
	ctx := context.Background()

	session, err := manager.Login(ctx, "test", "123456", false)
	require.NoError(t, err)

	_, err = store.SetRoleStatus(ctx, 2, model.StatusDisabled)
	require.NoError(t, err)

	_, _, err = manager.Validate(ctx, session.Token())
	assert.ErrorIs(t, err, argus_errors.ErrEmptyRoleSet)
	assert.Equal(t, auth.StateAnonymous, session.State())
}

func TestLogoutClearsEverything(t *testing.T) {
	manager, _, _ := newManager(dao.NewSeededMemoryStore(), time.Hour)
	ctx := context.Background()

	session, err := manager.Login(ctx, "admin", "123456", false)
	require.NoError(t, err)
	_, _, err = manager.Validate(ctx, session.Token())
	require.NoError(t, err)

	manager.Logout(ctx, session.Token())

	assert.Equal(t, auth.StateLoggedOut, session.State())
	assert.Empty(t, session.Routes())
	assert.Empty(t, session.Permissions())
	_, ok := session.Principal()
	assert.False(t, ok)
}

func TestLogoutUnknownTokenIsNoop(t *testing.T) {
	manager, _, _ := newManager(dao.NewSeededMemoryStore(), time.Hour)
	manager.Logout(context.Background(), "unknown-token")
}

func TestResetToken(t *testing.T) {
	manager, _, _ := newManager(dao.NewSeededMemoryStore(), time.Hour)
	ctx := context.Background()

	session, err := manager.Login(ctx, "admin", "123456", false)
	require.NoError(t, err)
	_, _, err = manager.Validate(ctx, session.Token())
	require.NoError(t, err)

	manager.ResetToken(ctx, session.Token())

	assert.Equal(t, auth.StateAnonymous, session.State())
	assert.Empty(t, session.Routes())
}

func TestUpdatePassword(t *testing.T) {
	manager, logins, verifier := newManager(dao.NewSeededMemoryStore(), time.Hour)
	ctx := context.Background()

	require.NoError(t, logins.Save(ctx, db.SavedLogin{Username: "admin", Password: "123456", RememberMe: true}, time.Hour))

	err := manager.UpdatePassword(ctx, "admin", "wrong", "rotated")
	assert.ErrorIs(t, err, argus_errors.ErrInvalidCredentials)

	err = manager.UpdatePassword(ctx, "admin", "123456", "")
	assert.ErrorIs(t, err, argus_errors.ErrInvalidUserData)

	require.NoError(t, manager.UpdatePassword(ctx, "admin", "123456", "rotated"))
	assert.NoError(t, verifier.Verify(ctx, "admin", "rotated"))
	assert.ErrorIs(t, verifier.Verify(ctx, "admin", "123456"), argus_errors.ErrInvalidCredentials)

	// Remembered credentials carrying the old password are dropped.
	saved, err := logins.Load(ctx, "admin")
	require.NoError(t, err)
	assert.Nil(t, saved)
}

// countingUserDAO wraps the store to count directory lookups. An optional
// gate blocks GetUser so a test can hold a principal load in flight.
type countingUserDAO struct {
	dao.UserDAO
	mu   sync.Mutex
	gets int
	gate chan struct{}
}

func (c *countingUserDAO) GetUser(ctx context.Context, id int) (*model.User, error) {
	c.mu.Lock()
	c.gets++
	c.mu.Unlock()
	if c.gate != nil {
		<-c.gate
	}
	return c.UserDAO.GetUser(ctx, id)
}

func (c *countingUserDAO) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gets
}

func newCountingManager(store *dao.MemoryStore, counting *countingUserDAO) *auth.Manager {
	return auth.NewManager(
		counting,
		store,
		auth.NewStaticVerifier(auth.SeedPasswords()),
		auth.NewMemoryLoginStore(),
		auth.NewTokenIssuer("test-signing-key", time.Hour),
		util.NewEventBus(),
		audit.NewService(audit.NoopRepository{}),
		time.Hour,
	)
}

func TestCachedPrincipalSkipsDirectory(t *testing.T) {
	store := dao.NewSeededMemoryStore()
	counting := &countingUserDAO{UserDAO: store}
	manager := newCountingManager(store, counting)
	ctx := context.Background()

	session, err := manager.Login(ctx, "admin", "123456", false)
	require.NoError(t, err)

	_, _, err = manager.Validate(ctx, session.Token())
	require.NoError(t, err)
	_, _, err = manager.Validate(ctx, session.Token())
	require.NoError(t, err)

	// Login itself resolves the user through GetUserByUsername, so both
	// Validate calls together cost a single GetUser.
	assert.Equal(t, 1, counting.count())
}

func TestConcurrentPrincipalLoadsCoalesce(t *testing.T) {
	store := dao.NewSeededMemoryStore()
	counting := &countingUserDAO{UserDAO: store, gate: make(chan struct{})}
	manager := newCountingManager(store, counting)
	ctx := context.Background()

	session, err := manager.Login(ctx, "admin", "123456", false)
	require.NoError(t, err)

	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := manager.Validate(ctx, session.Token())
			assert.NoError(t, err)
		}()
	}

	// The leader is parked on the gate; give the rest time to pile onto the
	// same in-flight load, then release.
	time.Sleep(100 * time.Millisecond)
	close(counting.gate)
	wg.Wait()

	assert.Equal(t, 1, counting.count())
}
