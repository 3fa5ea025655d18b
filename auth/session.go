// api/auth/session.go

// Package auth owns the session lifecycle: credential verification, token
// minting, principal resolution and the per-session navigation routes.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/argus-admin/argus/api/audit"
	"github.com/argus-admin/argus/api/dao"
	"github.com/argus-admin/argus/api/db"
	argus_errors "github.com/argus-admin/argus/api/errors"
	logger "github.com/argus-admin/argus/api/logging"
	"github.com/argus-admin/argus/api/model"
	"github.com/argus-admin/argus/api/navigation"
	"github.com/argus-admin/argus/api/scope"
	"github.com/argus-admin/argus/api/util"
)

// State is the session lifecycle phase.
type State string

const (
	StateAnonymous      State = "ANONYMOUS"
	StateAuthenticating State = "AUTHENTICATING"
	StateAuthenticated  State = "AUTHENTICATED"
	StateExpired        State = "EXPIRED"
	StateLoggedOut      State = "LOGGED_OUT"
)

// Session is one authenticated login cycle. The navigation registry is
// owned by the session: routes are applied exactly once after the first
// successful principal load and cleared when the session ends.
type Session struct {
	mu          sync.Mutex
	state       State
	token       string
	userID      int
	username    string
	principal   *scope.Principal
	permissions []string
	routes      *navigation.Registry
}

// State returns the session's current lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Token returns the session token.
func (s *Session) Token() string {
	return s.token
}

// Username returns the login name the session was opened with.
func (s *Session) Username() string {
	return s.username
}

// Routes returns the navigation routes installed for this session.
func (s *Session) Routes() []model.RouteNode {
	return s.routes.Routes()
}

// Principal returns the cached principal, if one has been loaded.
func (s *Session) Principal() (scope.Principal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.principal == nil {
		return scope.Principal{}, false
	}
	return *s.principal, true
}

// Permissions returns the permission strings of the effective roles.
func (s *Session) Permissions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.permissions...)
}

// Manager drives session state for every live token.
type Manager struct {
	userDAO     dao.UserDAO
	roleDAO     dao.RoleDAO
	verifier    CredentialVerifier
	loginStore  LoginStore
	issuer      *TokenIssuer
	eventBus    *util.EventBus
	auditSvc    audit.Service
	rememberTTL time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
	group    singleflight.Group
}

func NewManager(userDAO dao.UserDAO, roleDAO dao.RoleDAO, verifier CredentialVerifier, loginStore LoginStore, issuer *TokenIssuer, eventBus *util.EventBus, auditSvc audit.Service, rememberTTL time.Duration) *Manager {
	return &Manager{
		userDAO:     userDAO,
		roleDAO:     roleDAO,
		verifier:    verifier,
		loginStore:  loginStore,
		issuer:      issuer,
		eventBus:    eventBus,
		auditSvc:    auditSvc,
		rememberTTL: rememberTTL,
	}
}

// Login verifies the credentials and opens a new session. A failed
// verification or a disabled account leaves no session behind. When
// rememberMe is set the credentials are persisted for the remember window;
// otherwise any previously remembered credentials for the username are
// dropped.
func (m *Manager) Login(ctx context.Context, username, password string, rememberMe bool) (*Session, error) {
	session := &Session{state: StateAuthenticating, username: username, routes: navigation.NewRegistry()}

	if err := m.verifier.Verify(ctx, username, password); err != nil {
		m.recordAudit(ctx, 0, username, "auth.login", false)
		logger.Warn("Login rejected: bad credentials", zap.String("username", username))
		return nil, argus_errors.ErrInvalidCredentials
	}

	user, err := m.userDAO.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, argus_errors.ErrUserNotFound) {
			m.recordAudit(ctx, 0, username, "auth.login", false)
			return nil, argus_errors.ErrInvalidCredentials
		}
		logger.Error("Error loading user during login", zap.Error(err), zap.String("username", username))
		return nil, argus_errors.ErrInternalServer
	}
	if user.Status == model.StatusDisabled {
		m.recordAudit(ctx, user.ID, username, "auth.login", false)
		return nil, argus_errors.ErrAccountDisabled
	}

	token, err := m.issuer.Mint(*user)
	if err != nil {
		logger.Error("Error minting session token", zap.Error(err), zap.String("username", username))
		return nil, argus_errors.ErrInternalServer
	}

	session.mu.Lock()
	session.state = StateAuthenticated
	session.token = token
	session.userID = user.ID
	session.mu.Unlock()

	m.mu.Lock()
	if m.sessions == nil {
		m.sessions = make(map[string]*Session)
	}
	m.sessions[token] = session
	m.mu.Unlock()

	if err := db.StoreToken(ctx, token, user.ID, m.issuer.TTL()); err != nil {
		logger.Warn("Failed to persist session token", zap.Error(err), zap.String("username", username))
	}

	if rememberMe {
		info := db.SavedLogin{Username: username, Password: password, RememberMe: true}
		if err := m.loginStore.Save(ctx, info, m.rememberTTL); err != nil {
			logger.Warn("Failed to persist remembered login", zap.Error(err), zap.String("username", username))
		}
	} else {
		if err := m.loginStore.Clear(ctx, username); err != nil {
			logger.Warn("Failed to clear remembered login", zap.Error(err), zap.String("username", username))
		}
	}

	m.eventBus.Publish(ctx, util.EventUserLogin, *user)
	m.recordAudit(ctx, user.ID, username, "auth.login", true)

	logger.Info("Login successful", zap.String("username", username), zap.Int("userID", user.ID))
	return session, nil
}

// Validate resolves a bearer token to its session and principal. The
// principal load is coalesced, so concurrent requests arriving before the
// first load finishes share a single directory lookup.
func (m *Manager) Validate(ctx context.Context, token string) (*Session, scope.Principal, error) {
	claims, err := m.issuer.Parse(token)
	if err != nil {
		if errors.Is(err, argus_errors.ErrTokenExpired) {
			m.expireSession(ctx, token)
		}
		return nil, scope.Principal{}, err
	}

	m.mu.RLock()
	session := m.sessions[token]
	m.mu.RUnlock()
	if session == nil {
		// Token minted before a restart: reopen the session.
		session = &Session{
			state:    StateAuthenticated,
			token:    token,
			userID:   claims.UserID,
			username: claims.Username,
			routes:   navigation.NewRegistry(),
		}
		m.mu.Lock()
		if m.sessions == nil {
			m.sessions = make(map[string]*Session)
		}
		if existing, ok := m.sessions[token]; ok {
			session = existing
		} else {
			m.sessions[token] = session
		}
		m.mu.Unlock()
	}

	principal, err := m.LoadPrincipal(ctx, session)
	if err != nil {
		return nil, scope.Principal{}, err
	}
	return session, principal, nil
}

// LoadPrincipal returns the session's principal, resolving it from the
// directory on first use. The cached principal is reused only while its
// role set is non-empty; an empty role set is a fatal session error and
// tears the session down so the next attempt starts clean.
func (m *Manager) LoadPrincipal(ctx context.Context, session *Session) (scope.Principal, error) {
	session.mu.Lock()
	if session.principal != nil && len(session.principal.RoleKeys) > 0 {
		principal := *session.principal
		session.mu.Unlock()
		return principal, nil
	}
	session.mu.Unlock()

	result, err, _ := m.group.Do(session.token, func() (interface{}, error) {
		return m.resolvePrincipal(ctx, session)
	})
	if err != nil {
		if errors.Is(err, argus_errors.ErrEmptyRoleSet) {
			m.teardown(ctx, session, StateAnonymous)
		}
		return scope.Principal{}, err
	}
	return result.(scope.Principal), nil
}

func (m *Manager) resolvePrincipal(ctx context.Context, session *Session) (scope.Principal, error) {
	user, err := m.userDAO.GetUser(ctx, session.userID)
	if err != nil {
		if errors.Is(err, argus_errors.ErrUserNotFound) {
			return scope.Principal{}, argus_errors.ErrUnauthorized
		}
		logger.Error("Error loading principal", zap.Error(err), zap.Int("userID", session.userID))
		return scope.Principal{}, argus_errors.ErrInternalServer
	}
	if user.Status == model.StatusDisabled {
		return scope.Principal{}, argus_errors.ErrAccountDisabled
	}

	roleKeys, permissions, err := m.effectiveAccess(ctx, *user)
	if err != nil {
		return scope.Principal{}, err
	}
	if len(roleKeys) == 0 {
		logger.Error("Principal resolved to an empty role set",
			zap.Int("userID", user.ID),
			zap.String("username", user.Username))
		return scope.Principal{}, argus_errors.ErrEmptyRoleSet
	}

	principal := scope.Principal{
		ID:            user.ID,
		DeptID:        user.DeptID,
		DeptPath:      user.DeptPath,
		RoleKeys:      roleKeys,
		DataScope:     user.DataScope,
		CustomDeptIDs: append([]int(nil), user.CustomDeptIDs...),
	}

	session.mu.Lock()
	session.principal = &principal
	session.permissions = permissions
	session.mu.Unlock()

	// First load of the cycle installs the navigation routes.
	routes := navigation.Generate(navigation.PermissionRoutes(), roleKeys, permissions)
	if session.routes.Apply(routes) {
		logger.Debug("Navigation routes installed",
			zap.Int("userID", user.ID),
			zap.Int("routeCount", len(routes)))
	}

	return principal, nil
}

// effectiveAccess resolves the user's effective roles into role keys and
// the union of their permission strings. Roles that were deleted since
// assignment contribute nothing.
func (m *Manager) effectiveAccess(ctx context.Context, user model.User) ([]string, []string, error) {
	keys := make([]string, 0, len(user.RoleIDs))
	seen := make(map[string]struct{})
	var permissions []string

	for _, roleID := range user.EffectiveRoleIDs() {
		role, err := m.roleDAO.GetRole(ctx, roleID)
		if err != nil {
			if errors.Is(err, argus_errors.ErrRoleNotFound) {
				continue
			}
			logger.Error("Error resolving role", zap.Error(err), zap.Int("roleID", roleID))
			return nil, nil, argus_errors.ErrInternalServer
		}
		if role.Status == model.StatusDisabled {
			continue
		}
		keys = append(keys, role.Key)
		for _, p := range role.Permissions {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			permissions = append(permissions, p)
		}
	}
	return keys, permissions, nil
}

// Logout ends the session. Local state is cleared unconditionally even if
// the bookkeeping around it fails.
func (m *Manager) Logout(ctx context.Context, token string) {
	m.mu.RLock()
	session := m.sessions[token]
	m.mu.RUnlock()

	if session != nil {
		m.recordAudit(ctx, session.userID, session.username, "auth.logout", true)
		m.eventBus.Publish(ctx, util.EventUserLogout, session.username)
		m.teardown(ctx, session, StateLoggedOut)
		logger.Info("Logout", zap.String("username", session.username))
		return
	}

	// Unknown token: nothing to tear down beyond the map entry.
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

// ResetToken drops the session and its routes without the logout
// bookkeeping. Used when the client must re-authenticate from scratch.
func (m *Manager) ResetToken(ctx context.Context, token string) {
	m.mu.RLock()
	session := m.sessions[token]
	m.mu.RUnlock()
	if session == nil {
		return
	}
	m.teardown(ctx, session, StateAnonymous)
}

func (m *Manager) expireSession(ctx context.Context, token string) {
	m.mu.RLock()
	session := m.sessions[token]
	m.mu.RUnlock()
	if session == nil {
		return
	}
	logger.Info("Session expired", zap.String("username", session.username))
	m.teardown(ctx, session, StateExpired)
}

// teardown clears every piece of session state: principal, permissions,
// navigation routes and the manager's token entry.
func (m *Manager) teardown(ctx context.Context, session *Session, terminal State) {
	if err := db.RevokeToken(ctx, session.token); err != nil {
		logger.Warn("Failed to revoke session token", zap.Error(err), zap.String("username", session.username))
	}
	session.mu.Lock()
	session.state = terminal
	session.principal = nil
	session.permissions = nil
	session.mu.Unlock()
	session.routes.Clear()

	m.mu.Lock()
	delete(m.sessions, session.token)
	m.mu.Unlock()
	m.group.Forget(session.token)
}

// SavedLogin returns remembered credentials for the login form, or nil
// when none were saved or the remember window has lapsed.
func (m *Manager) SavedLogin(ctx context.Context, username string) (*db.SavedLogin, error) {
	return m.loginStore.Load(ctx, username)
}

// UpdatePassword rotates a user's password after verifying the current
// one, and drops any remembered credentials that still carry the old one.
func (m *Manager) UpdatePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	if err := m.verifier.Verify(ctx, username, oldPassword); err != nil {
		return err
	}
	if newPassword == "" {
		return fmt.Errorf("%w: new password cannot be empty", argus_errors.ErrInvalidUserData)
	}
	if err := m.verifier.SetPassword(ctx, username, newPassword); err != nil {
		return err
	}
	if err := m.loginStore.Clear(ctx, username); err != nil {
		logger.Warn("Failed to clear remembered login after password change",
			zap.Error(err), zap.String("username", username))
	}
	m.recordAudit(ctx, 0, username, "auth.password", true)
	return nil
}

func (m *Manager) recordAudit(ctx context.Context, userID int, username, action string, success bool) {
	err := m.auditSvc.Record(ctx, audit.Entry{
		UserID:   userID,
		Username: username,
		Action:   action,
		Entity:   "session",
		Success:  success,
	})
	if err != nil {
		logger.Warn("Failed to record audit entry", zap.Error(err), zap.String("action", action))
	}
}
