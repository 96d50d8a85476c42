package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/endcrown/liberty-engine/internal/config"
)

// TokenKind distinguishes the two token flavors carried in the type claim.
type TokenKind string

const (
	// TokenAccess tokens are self-contained: they carry identity and role
	// claims so request handling needs no account lookup.
	TokenAccess TokenKind = "ACCESS"
	// TokenRefresh tokens carry only the account id. A leaked one forces a
	// fresh access-token mint, and with it a fresh role lookup.
	TokenRefresh TokenKind = "REFRESH"
)

// Claims is the signed claim set embedded in every token.
type Claims struct {
	jwt.RegisteredClaims
	UserID    uint      `json:"id"`
	Username  string    `json:"username,omitempty"`
	Email     string    `json:"email,omitempty"`
	RoleNames []string  `json:"roleNames,omitempty"`
	IsAdmin   bool      `json:"isAdmin,omitempty"`
	Kind      TokenKind `json:"type"`
}

// TokenService issues and verifies signed, time-limited tokens. Both kinds
// are signed with the same shared secret (HS256).
type TokenService struct {
	db         *gorm.DB
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService builds a TokenService from explicit configuration.
func NewTokenService(d *gorm.DB, cfg *config.Config) *TokenService {
	return &TokenService{
		db:         d,
		secret:     []byte(cfg.SecretKey),
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
	}
}

// IssueAccessToken resolves the user's roles and signs an access token
// embedding id, username, email, role names and the aggregated admin flag.
func (s *TokenService) IssueAccessToken(ctx context.Context, user *User) (string, error) {
	var roles []Role
	if err := s.db.WithContext(ctx).Model(user).Association("Roles").Find(&roles); err != nil {
		return "", fmt.Errorf("resolving roles: %w", err)
	}

	roleNames := make([]string, 0, len(roles))
	isAdmin := false
	for _, role := range roles {
		if role.IsAdmin {
			isAdmin = true
		}
		roleNames = append(roleNames, role.Name)
	}

	email := ""
	if user.Email != nil {
		email = *user.Email
	}

	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
		UserID:    user.ID,
		Username:  user.Username,
		Email:     email,
		RoleNames: roleNames,
		IsAdmin:   isAdmin,
		Kind:      TokenAccess,
	}

	return s.sign(claims)
}

// IssueRefreshToken signs a minimal long-lived token carrying only the
// account id.
func (s *TokenService) IssueRefreshToken(user *User) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
		},
		UserID: user.ID,
		Kind:   TokenRefresh,
	}

	return s.sign(claims)
}

func (s *TokenService) sign(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string. Expired tokens, bad signatures
// and malformed input all return ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// VerifyKind verifies a token and additionally requires its type claim to
// match kind, so a refresh token can never authorize a request and an access
// token can never mint a new one.
func (s *TokenService) VerifyKind(tokenString string, kind TokenKind) (*Claims, error) {
	claims, err := s.Verify(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Kind != kind {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
