package auth

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/endcrown/liberty-engine/internal/config"
	"github.com/endcrown/liberty-engine/internal/logging"
	"github.com/endcrown/liberty-engine/internal/setting"
)

// newTestDB opens an isolated in-memory database migrated with the auth and
// setting tables.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	d, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, Migrate(d))
	require.NoError(t, setting.Migrate(d))
	return d
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:       "test-secret",
		AccessTokenTTL:  30 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		FrontendURL:     "http://localhost:8080",
		ConfirmBaseURL:  "http://localhost:3001",
	}
}

func quietLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func createUser(t *testing.T, d *gorm.DB, username string, roles ...Role) *User {
	t.Helper()

	user := &User{
		Username:       username,
		Password:       "secret-password",
		EmailConfirmed: true,
		Roles:          roles,
	}
	email := username + "@example.com"
	user.Email = &email
	require.NoError(t, d.Create(user).Error)
	return user
}

func TestIssueAccessToken_ClaimsCarryIdentityAndRoles(t *testing.T) {
	d := newTestDB(t)
	tokens := NewTokenService(d, testConfig())

	user := createUser(t, d, "alice",
		Role{Name: "loggedin"},
		Role{Name: "sysop", IsAdmin: true},
	)

	raw, err := tokens.IssueAccessToken(context.Background(), user)
	require.NoError(t, err)

	claims, err := tokens.Verify(raw)
	require.NoError(t, err)

	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.ElementsMatch(t, []string{"loggedin", "sysop"}, claims.RoleNames)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, TokenAccess, claims.Kind)
}

func TestIssueAccessToken_NoAdminRole(t *testing.T) {
	d := newTestDB(t)
	tokens := NewTokenService(d, testConfig())

	user := createUser(t, d, "bob", Role{Name: "loggedin"})

	raw, err := tokens.IssueAccessToken(context.Background(), user)
	require.NoError(t, err)

	claims, err := tokens.Verify(raw)
	require.NoError(t, err)
	assert.False(t, claims.IsAdmin)
}

func TestIssueRefreshToken_MinimalClaims(t *testing.T) {
	d := newTestDB(t)
	tokens := NewTokenService(d, testConfig())

	user := createUser(t, d, "carol", Role{Name: "sysop", IsAdmin: true})

	raw, err := tokens.IssueRefreshToken(user)
	require.NoError(t, err)

	claims, err := tokens.Verify(raw)
	require.NoError(t, err)

	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, TokenRefresh, claims.Kind)
	assert.Empty(t, claims.Username)
	assert.Empty(t, claims.RoleNames)
	assert.False(t, claims.IsAdmin)
}

func TestVerify_ExpiredToken(t *testing.T) {
	d := newTestDB(t)
	cfg := testConfig()
	cfg.AccessTokenTTL = -time.Minute
	tokens := NewTokenService(d, cfg)

	user := createUser(t, d, "dave")

	raw, err := tokens.IssueAccessToken(context.Background(), user)
	require.NoError(t, err)

	_, err = tokens.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	d := newTestDB(t)
	tokens := NewTokenService(d, testConfig())

	other := testConfig()
	other.SecretKey = "a-rotated-secret"
	rotated := NewTokenService(d, other)

	user := createUser(t, d, "erin")

	raw, err := tokens.IssueAccessToken(context.Background(), user)
	require.NoError(t, err)

	_, err = rotated.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Garbage(t *testing.T) {
	tokens := NewTokenService(newTestDB(t), testConfig())

	_, err := tokens.Verify("definitely.not.a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyKind_RejectsMismatchedKind(t *testing.T) {
	d := newTestDB(t)
	tokens := NewTokenService(d, testConfig())

	user := createUser(t, d, "frank")

	access, err := tokens.IssueAccessToken(context.Background(), user)
	require.NoError(t, err)
	refresh, err := tokens.IssueRefreshToken(user)
	require.NoError(t, err)

	_, err = tokens.VerifyKind(access, TokenRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = tokens.VerifyKind(refresh, TokenAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tokens.VerifyKind(access, TokenAccess)
	assert.NoError(t, err)
}
