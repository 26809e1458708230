package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"filedrive/internal/apperror"
)

const passwordCost = bcrypt.DefaultCost

// HashPassword hashes a plain password for storage. bcrypt only accepts up to
// 72 bytes; longer input is a validation failure, not a server error.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperror.NewValidationError("Password must be at most 72 bytes long.")
	}
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword returns ErrInvalidCredentials unless password matches hash.
func CheckPassword(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
