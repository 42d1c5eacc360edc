package auth

import (
	"golang.org/x/crypto/bcrypt"

	apperrors "mugenreco-backend/pkg/errors"
)

// HashPassword derives a bcrypt hash for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperrors.NewInternalError("failed to hash password").WithCause(err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored hash.
func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
