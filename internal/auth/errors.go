package auth

import "errors"

// ErrInvalidCredentials is returned on any login failure. It is deliberately
// generic: callers never learn whether the username or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidToken is returned when a token's signature is invalid, its expiry
// has passed, or its kind doesn't match the operation.
var ErrInvalidToken = errors.New("invalid or expired token")

// ErrConfirmation collapses every confirmation failure (unknown username,
// expired code, mismatched code) into one rejection, so the callback leaks
// nothing about which check failed.
var ErrConfirmation = errors.New("confirmation rejected")
