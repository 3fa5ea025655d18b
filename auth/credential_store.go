// api/auth/credential_store.go
package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"sync"
	"time"

	"github.com/argus-admin/argus/api/db"
	argus_errors "github.com/argus-admin/argus/api/errors"
)

// CredentialVerifier checks a username/password pair.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) error
	SetPassword(ctx context.Context, username, newPassword string) error
}

// LoginStore persists remembered credentials between sessions.
type LoginStore interface {
	Save(ctx context.Context, info db.SavedLogin, ttl time.Duration) error
	Load(ctx context.Context, username string) (*db.SavedLogin, error)
	Clear(ctx context.Context, username string) error
}

// StaticVerifier holds password digests in memory. It backs the demo
// deployment and the tests; a real identity provider would replace it.
type StaticVerifier struct {
	mu      sync.RWMutex
	digests map[string][32]byte
}

var _ CredentialVerifier = (*StaticVerifier)(nil)

func NewStaticVerifier(passwords map[string]string) *StaticVerifier {
	digests := make(map[string][32]byte, len(passwords))
	for username, password := range passwords {
		digests[username] = sha256.Sum256([]byte(password))
	}
	return &StaticVerifier{digests: digests}
}

func (v *StaticVerifier) Verify(_ context.Context, username, password string) error {
	v.mu.RLock()
	defer v.mu.RUnlock()

	digest, ok := v.digests[username]
	if !ok {
		return argus_errors.ErrInvalidCredentials
	}
	candidate := sha256.Sum256([]byte(password))
	if subtle.ConstantTimeCompare(digest[:], candidate[:]) != 1 {
		return argus_errors.ErrInvalidCredentials
	}
	return nil
}

func (v *StaticVerifier) SetPassword(_ context.Context, username, newPassword string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.digests[username]; !ok {
		return argus_errors.ErrUserNotFound
	}
	v.digests[username] = sha256.Sum256([]byte(newPassword))
	return nil
}

// SeedPasswords returns the demo credentials matching the seeded users.
func SeedPasswords() map[string]string {
	return map[string]string{
		"admin":     "123456",
		"test":      "123456",
		"dev":       "123456",
		"pm":        "123456",
		"marketing": "123456",
		"finance":   "123456",
		"ops":       "123456",
	}
}

// RedisLoginStore keeps remembered logins in Redis, encrypted at rest.
type RedisLoginStore struct{}

var _ LoginStore = RedisLoginStore{}

func (RedisLoginStore) Save(ctx context.Context, info db.SavedLogin, ttl time.Duration) error {
	return db.SaveLoginInfo(ctx, info, ttl)
}

func (RedisLoginStore) Load(ctx context.Context, username string) (*db.SavedLogin, error) {
	return db.GetLoginInfo(ctx, username)
}

func (RedisLoginStore) Clear(ctx context.Context, username string) error {
	return db.ClearLoginInfo(ctx, username)
}

// MemoryLoginStore is the in-process fallback used by tests and by
// deployments without Redis. TTLs are honoured lazily on Load.
type MemoryLoginStore struct {
	mu      sync.Mutex
	entries map[string]memoryLoginEntry
}

type memoryLoginEntry struct {
	info      db.SavedLogin
	expiresAt time.Time
}

var _ LoginStore = (*MemoryLoginStore)(nil)

func NewMemoryLoginStore() *MemoryLoginStore {
	return &MemoryLoginStore{entries: make(map[string]memoryLoginEntry)}
}

func (m *MemoryLoginStore) Save(_ context.Context, info db.SavedLogin, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[info.Username] = memoryLoginEntry{info: info, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (m *MemoryLoginStore) Load(_ context.Context, username string) (*db.SavedLogin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[username]
	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(m.entries, username)
		return nil, nil
	}
	info := entry.info
	return &info, nil
}

func (m *MemoryLoginStore) Clear(_ context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, username)
	return nil
}
