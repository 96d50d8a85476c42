package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAnonymousSentinel(t *testing.T) {
	anon := Anonymous()

	assert.True(t, anon.IsAnonymous())
	assert.Equal(t, AnonymousUsername, anon.Username)
	assert.True(t, anon.EmailConfirmed)
	assert.Empty(t, anon.Roles)
	assert.False(t, anon.HasAnyRole("loggedin", "sysop"))
	assert.False(t, anon.IsAdmin())

	// Mutating the returned sentinel must not leak into later calls.
	anon.Username = "mallory"
	assert.Equal(t, AnonymousUsername, Anonymous().Username)
}

func TestHasAnyRole(t *testing.T) {
	user := &User{Roles: []Role{{Name: "loggedin"}, {Name: "editor"}}}

	assert.True(t, user.HasAnyRole("editor"))
	assert.True(t, user.HasAnyRole("sysop", "loggedin"))
	assert.False(t, user.HasAnyRole("sysop"))
	assert.False(t, user.HasAnyRole())
}

func TestIsAdminAggregatesRoles(t *testing.T) {
	assert.False(t, (&User{Roles: []Role{{Name: "loggedin"}}}).IsAdmin())
	assert.True(t, (&User{Roles: []Role{{Name: "loggedin"}, {Name: "sysop", IsAdmin: true}}}).IsAdmin())
}

func TestUserPageFullTitle(t *testing.T) {
	user := &User{Username: "alice"}
	assert.Equal(t, "User:alice", user.UserPageFullTitle())
}

func TestPasswordExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.False(t, (&User{}).PasswordExpired(now))
	assert.False(t, (&User{PasswordExpiry: &future}).PasswordExpired(now))
	assert.True(t, (&User{PasswordExpiry: &past}).PasswordExpired(now))
}
