package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// PasswordVerifier defines the interface for comparing passwords.
type PasswordVerifier interface {
	// Compare compares a hashed password with its possible plaintext equivalent.
	// Returns nil on success, or an error on failure (e.g., mismatch).
	Compare(hashedPassword, password string) error

	// CompareDummy spends about as long as Compare without a real hash.
	// Login calls it for unknown emails so response times do not reveal
	// which accounts exist.
	CompareDummy(password string)
}

// BcryptVerifier implements PasswordVerifier using bcrypt.
type BcryptVerifier struct {
	dummyOnce sync.Once
	dummyHash []byte
}

// NewBcryptVerifier creates a new BcryptVerifier.
func NewBcryptVerifier() *BcryptVerifier {
	return &BcryptVerifier{}
}

// Compare implements the PasswordVerifier interface using bcrypt.
func (v *BcryptVerifier) Compare(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// CompareDummy implements the PasswordVerifier interface.
func (v *BcryptVerifier) CompareDummy(password string) {
	v.dummyOnce.Do(func() {
		// The error is impossible for a fixed, short input.
		v.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(v.dummyHash, []byte(password))
}
