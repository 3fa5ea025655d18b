// api/auth/credential_store_test.go
package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/argus-admin/argus/api/auth"
	"github.com/argus-admin/argus/api/db"
	argus_errors "github.com/argus-admin/argus/api/errors"
)

func TestStaticVerifier(t *testing.T) {
	v := auth.NewStaticVerifier(map[string]string{"admin": "123456"})
	ctx := context.Background()

	assert.NoError(t, v.Verify(ctx, "admin", "123456"))
	assert.ErrorIs(t, v.Verify(ctx, "admin", "wrong"), argus_errors.ErrInvalidCredentials)
	assert.ErrorIs(t, v.Verify(ctx, "ghost", "123456"), argus_errors.ErrInvalidCredentials)
}

func TestStaticVerifierSetPassword(t *testing.T) {
	v := auth.NewStaticVerifier(map[string]string{"admin": "123456"})
	ctx := context.Background()

	require.NoError(t, v.SetPassword(ctx, "admin", "rotated"))
	assert.NoError(t, v.Verify(ctx, "admin", "rotated"))
	assert.ErrorIs(t, v.Verify(ctx, "admin", "123456"), argus_errors.ErrInvalidCredentials)

	assert.ErrorIs(t, v.SetPassword(ctx, "ghost", "x"), argus_errors.ErrUserNotFound)
}

func TestMemoryLoginStore(t *testing.T) {
	store := auth.NewMemoryLoginStore()
	ctx := context.Background()
	info := db.SavedLogin{Username: "admin", Password: "123456", RememberMe: true}

	require.NoError(t, store.Save(ctx, info, time.Hour))

	loaded, err := store.Load(ctx, "admin")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, info, *loaded)

	require.NoError(t, store.Clear(ctx, "admin"))
	loaded, err = store.Load(ctx, "admin")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestMemoryLoginStoreHonoursTTL(t *testing.T) {
	store := auth.NewMemoryLoginStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, db.SavedLogin{Username: "admin"}, -time.Second))

	loaded, err := store.Load(ctx, "admin")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
