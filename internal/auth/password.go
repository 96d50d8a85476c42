package auth

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"golang.org/x/crypto/bcrypt"
)

// hashCost is the bcrypt work factor applied to every password.
var hashCost = 10

// SetHashCost overrides the bcrypt work factor process-wide. Intended for
// main at startup and for tests that want cheap hashes.
func SetHashCost(cost int) {
	hashCost = cost
}

// HashPassword derives a salted one-way hash of password. The salt is random
// per call, so hashing the same password twice yields different hashes.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// CheckPassword reports whether password matches hash. The comparison is
// constant-time-equivalent; a mismatch returns false, never an error.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func validatePassword(password string) error {
	err := validation.Validate(password, validation.Required, validation.Length(6, 128))
	if err != nil {
		return validation.Errors{"password": err}
	}
	return nil
}
