package auth

import (
	"github.com/endcrown/liberty-engine/internal/middleware"
)

// AccessVerifier adapts TokenService to middleware.TokenVerifier, rejecting
// anything but an access token.
type AccessVerifier struct {
	Tokens *TokenService
}

func (v AccessVerifier) VerifyAccess(token string) (middleware.TokenClaims, error) {
	claims, err := v.Tokens.VerifyKind(token, TokenAccess)
	if err != nil {
		return middleware.TokenClaims{}, err
	}

	return middleware.TokenClaims{
		UserID:    claims.UserID,
		Username:  claims.Username,
		RoleNames: claims.RoleNames,
		IsAdmin:   claims.IsAdmin,
	}, nil
}
