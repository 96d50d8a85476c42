package auth

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// User is an account record. Password is a virtual field: setting it before a
// save triggers the BeforeSave hook, which validates it, hashes it into
// PasswordHash and discards the plaintext. Plaintext is never persisted.
type User struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Username          string     `gorm:"size:128;uniqueIndex;not null" json:"username"`
	Password          string     `gorm:"-" json:"-"`
	PasswordHash      string     `gorm:"size:128" json:"-"`
	PasswordExpiry    *time.Time `json:"-"`
	Email             *string    `gorm:"size:128" json:"email,omitempty"`
	EmailConfirmed    bool       `gorm:"not null;default:false" json:"emailConfirmed"`
	ConfirmCode       *string    `gorm:"size:96" json:"-"`
	ConfirmCodeExpiry *time.Time `json:"-"`
	Roles             []Role     `gorm:"many2many:user_roles;constraint:OnDelete:CASCADE" json:"roles,omitempty"`
	CreatedAt         time.Time  `json:"-"`
	UpdatedAt         time.Time  `json:"-"`
}

// Role is a named permission bundle. Users hold roles through the user_roles
// join table; article grants reference roles by id.
type Role struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"size:128;uniqueIndex;not null" json:"name"`
	IsAdmin bool   `gorm:"not null;default:false" json:"isAdmin"`
}

// AnonymousUsername is the fixed username of the anonymous sentinel.
const AnonymousUsername = "(anonymous)"

var anonymous = User{
	Username:       AnonymousUsername,
	EmailConfirmed: true,
}

// Anonymous returns the sentinel account representing an unauthenticated
// caller: no id, fixed username, confirmed by construction, no roles.
func Anonymous() *User {
	u := anonymous
	return &u
}

// IsAnonymous reports whether this is the anonymous sentinel (no id).
func (u *User) IsAnonymous() bool {
	return u.ID == 0
}

// PasswordExpired reports whether a forced re-authentication is due.
func (u *User) PasswordExpired(now time.Time) bool {
	return u.PasswordExpiry != nil && now.After(*u.PasswordExpiry)
}

// UserPageFullTitle is the full title of this user's wiki page.
func (u *User) UserPageFullTitle() string {
	return fmt.Sprintf("User:%s", u.Username)
}

// HasAnyRole reports whether the user holds at least one role whose name is
// in names. It evaluates the resolved in-memory role set; the anonymous
// sentinel evaluates against its empty set.
func (u *User) HasAnyRole(names ...string) bool {
	for _, role := range u.Roles {
		for _, name := range names {
			if role.Name == name {
				return true
			}
		}
	}
	return false
}

// IsAdmin reports whether any held role carries the admin flag.
func (u *User) IsAdmin() bool {
	for _, role := range u.Roles {
		if role.IsAdmin {
			return true
		}
	}
	return false
}

// RoleNames returns the names of all held roles.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		names = append(names, role.Name)
	}
	return names
}

// BeforeSave hashes a pending plaintext password, replacing the stored hash.
// Saves that don't touch Password leave the hash untouched.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.Password == "" {
		return nil
	}
	if err := validatePassword(u.Password); err != nil {
		return err
	}
	hash, err := HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.Password = ""
	return nil
}
