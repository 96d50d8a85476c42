package wiki

import (
	"context"

	"gorm.io/gorm"

	"github.com/endcrown/liberty-engine/internal/auth"
)

// Action is one of the per-article permission kinds.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionRename Action = "rename"
	ActionDelete Action = "delete"
)

// Allows reports whether this grant carries the flag for action.
func (p ArticlePermission) Allows(action Action) bool {
	switch action {
	case ActionRead:
		return p.Read
	case ActionCreate:
		return p.Create
	case ActionEdit:
		return p.Edit
	case ActionRename:
		return p.Rename
	case ActionDelete:
		return p.Delete
	}
	return false
}

// CheckPermission evaluates resolved in-memory sets: access is granted if ANY
// held role has a grant carrying the action flag. Union semantics — a deny on
// one role never overrides an allow on another. No roles or no grants means
// deny for every action.
func CheckPermission(roles []auth.Role, grants []ArticlePermission, action Action) bool {
	if len(roles) == 0 || len(grants) == 0 {
		return false
	}

	byRole := make(map[uint]ArticlePermission, len(grants))
	for _, grant := range grants {
		byRole[grant.RoleID] = grant
	}

	for _, role := range roles {
		if grant, ok := byRole[role.ID]; ok && grant.Allows(action) {
			return true
		}
	}
	return false
}

// GrantsFor loads the grants of one article for the given roles.
func GrantsFor(ctx context.Context, d *gorm.DB, articleID uint, roles []auth.Role) ([]ArticlePermission, error) {
	if len(roles) == 0 {
		return nil, nil
	}

	roleIDs := make([]uint, 0, len(roles))
	for _, role := range roles {
		roleIDs = append(roleIDs, role.ID)
	}

	var grants []ArticlePermission
	err := d.WithContext(ctx).
		Where("article_id = ? AND role_id IN ?", articleID, roleIDs).
		Find(&grants).Error
	if err != nil {
		return nil, err
	}
	return grants, nil
}

// HasPermission resolves the grants for the user's role set, then evaluates.
// The anonymous sentinel holds no roles and is denied everything here.
func HasPermission(ctx context.Context, d *gorm.DB, articleID uint, user *auth.User, action Action) (bool, error) {
	grants, err := GrantsFor(ctx, d, articleID, user.Roles)
	if err != nil {
		return false, err
	}
	return CheckPermission(user.Roles, grants, action), nil
}
