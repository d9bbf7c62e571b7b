package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "7",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestTokenStoreSetAndGet(t *testing.T) {
	store := NewTokenStore(zap.NewNop())
	assert.Empty(t, store.Token())

	store.SetToken("abc")
	assert.Equal(t, "abc", store.Token())
}

func TestLogoutClearsTokenAndRunsHooks(t *testing.T) {
	store := NewTokenStore(zap.NewNop())
	store.SetToken("abc")

	var calls int
	store.OnLogout(func() { calls++ })

	store.Logout()
	assert.Empty(t, store.Token())
	assert.Equal(t, 1, calls)

	// repeated logout after session end is a no-op
	store.Logout()
	assert.Equal(t, 1, calls)
}

func TestLogoutReArmsAfterNewToken(t *testing.T) {
	store := NewTokenStore(zap.NewNop())
	var calls int
	store.OnLogout(func() { calls++ })

	store.SetToken("first")
	store.Logout()
	store.SetToken("second")
	store.Logout()

	assert.Equal(t, 2, calls)
}

func TestExpiresAt(t *testing.T) {
	store := NewTokenStore(zap.NewNop())
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	store.SetToken(signedToken(t, exp))

	got, ok := store.ExpiresAt()
	require.True(t, ok)
	assert.Equal(t, exp.Unix(), got.Unix())
}

func TestExpiresAtOpaqueToken(t *testing.T) {
	store := NewTokenStore(zap.NewNop())
	store.SetToken("not-a-jwt")

	_, ok := store.ExpiresAt()
	assert.False(t, ok)
}

func TestValid(t *testing.T) {
	store := NewTokenStore(zap.NewNop())
	now := time.Now()

	assert.False(t, store.Valid(now), "empty store is invalid")

	store.SetToken(signedToken(t, now.Add(time.Hour)))
	assert.True(t, store.Valid(now))

	store.SetToken(signedToken(t, now.Add(-time.Hour)))
	assert.False(t, store.Valid(now), "expired token is invalid")

	store.SetToken("opaque-token")
	assert.True(t, store.Valid(now), "opaque tokens have no expiry to check")
}
