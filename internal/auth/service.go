package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"

	"github.com/endcrown/liberty-engine/internal/config"
	"github.com/endcrown/liberty-engine/internal/logging"
	"github.com/endcrown/liberty-engine/internal/mail"
	"github.com/endcrown/liberty-engine/internal/setting"
)

// confirmCodeBytes random bytes, hex-encoded, make a 96-character code.
const confirmCodeBytes = 48

// confirmCodeLifetime is how long an issued confirmation code stays valid.
const confirmCodeLifetime = 24 * time.Hour

// Service orchestrates sign-up, login, token refresh and the email
// confirmation handshake.
type Service struct {
	db       *gorm.DB
	tokens   *TokenService
	mailer   mail.Mailer
	settings *setting.Store
	cfg      *config.Config
	log      logging.Logger
}

func NewService(d *gorm.DB, tokens *TokenService, mailer mail.Mailer, settings *setting.Store, cfg *config.Config, log logging.Logger) *Service {
	return &Service{
		db:       d,
		tokens:   tokens,
		mailer:   mailer,
		settings: settings,
		cfg:      cfg,
		log:      log,
	}
}

// Tokens exposes the token service for middleware wiring.
func (s *Service) Tokens() *TokenService {
	return s.tokens
}

type signUpInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

func (in signUpInput) validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Username, validation.Required, validation.Length(2, 128)),
		validation.Field(&in.Password, validation.Required, validation.Length(6, 128)),
		validation.Field(&in.Email, is.Email),
	)
}

// SignUp creates an account. When the userEmailShouldBeConfirmed setting is
// on, the account starts unconfirmed with a random confirmation code valid
// for a day, and a confirmation mail is dispatched; a delivery failure is
// logged but the account is created regardless. Otherwise the account is
// confirmed by construction.
func (s *Service) SignUp(ctx context.Context, username, password, email string) (*User, error) {
	username = norm.NFC.String(strings.TrimSpace(username))
	if err := (signUpInput{Username: username, Password: password, Email: email}).validate(); err != nil {
		return nil, err
	}

	var existing User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil, validation.Errors{"username": errors.New("already taken")}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := &User{
		Username: username,
		Password: password,
	}
	if email != "" {
		user.Email = &email
	}

	if !s.settings.GetBool(setting.KeyUserEmailShouldBeConfirmed) {
		user.EmailConfirmed = true
		if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
			return nil, err
		}
		return user, nil
	}

	code, err := generateConfirmCode()
	if err != nil {
		return nil, err
	}
	expiry := time.Now().Add(confirmCodeLifetime)
	user.EmailConfirmed = false
	user.ConfirmCode = &code
	user.ConfirmCodeExpiry = &expiry

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}

	msg := mail.Message{
		To:      email,
		Subject: "Confirm your email address",
		Text: fmt.Sprintf(
			"The confirmation code is valid for one day.\n"+
				"If you are not the user %s, please delete this mail.\n"+
				"%s/mail-confirm?username=%s&code=%s",
			username, s.cfg.ConfirmBaseURL, url.QueryEscape(username), code),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		// Sign-up still succeeds; the account stays pending confirmation.
		s.log.Error(ctx, "confirmation mail dispatch failed, check mail config", "username", username, "error", err)
	}

	return user, nil
}

// Login verifies credentials and issues an access/refresh token pair. Unknown
// username and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (access, refresh string, err error) {
	var user User
	err = s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", ErrInvalidCredentials
		}
		return "", "", err
	}

	if !CheckPassword(password, user.PasswordHash) {
		return "", "", ErrInvalidCredentials
	}

	access, err = s.tokens.IssueAccessToken(ctx, &user)
	if err != nil {
		return "", "", err
	}
	refresh, err = s.tokens.IssueRefreshToken(&user)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Refresh verifies a refresh token and mints a fresh access token with a
// fresh role lookup, rather than trusting possibly stale role claims.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.VerifyKind(refreshToken, TokenRefresh)
	if err != nil {
		return "", err
	}

	var user User
	err = s.db.WithContext(ctx).First(&user, claims.UserID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidToken
		}
		return "", err
	}

	return s.tokens.IssueAccessToken(ctx, &user)
}

// ConfirmEmail completes the handshake. The transition happens only when the
// code is outstanding, unexpired and an exact match; every failure collapses
// to ErrConfirmation with no state change.
func (s *Service) ConfirmEmail(ctx context.Context, username, code string) error {
	var user User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrConfirmation
		}
		return err
	}

	if user.ConfirmCode == nil || user.ConfirmCodeExpiry == nil {
		return ErrConfirmation
	}
	if !time.Now().Before(*user.ConfirmCodeExpiry) || *user.ConfirmCode != code {
		return ErrConfirmation
	}

	return s.db.WithContext(ctx).Model(&user).Updates(map[string]any{
		"email_confirmed":     true,
		"confirm_code":        nil,
		"confirm_code_expiry": nil,
	}).Error
}

// ChangePassword re-authenticates with the current password before storing a
// new hash via the model hook.
func (s *Service) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	var user User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return err
	}

	if !CheckPassword(current, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	user.Password = next
	return s.db.WithContext(ctx).Save(&user).Error
}

// FindByUsername loads an account with its resolved role set.
func (s *Service) FindByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).Preload("Roles").Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads an account with its resolved role set.
func (s *Service) FindByID(ctx context.Context, id uint) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).Preload("Roles").First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns every account, roles resolved. Admin-only surface.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	err := s.db.WithContext(ctx).Preload("Roles").Order("id").Find(&users).Error
	return users, err
}

func generateConfirmCode() (string, error) {
	buf := make([]byte, confirmCodeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
