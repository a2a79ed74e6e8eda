package mocks

import (
	"errors"
	"sync"

	"github.com/phrazzld/inception-api/internal/service/auth"
)

// ErrPasswordMismatch is returned by MockPasswordVerifier when ShouldSucceed is false.
var ErrPasswordMismatch = errors.New("password mismatch")

// MockPasswordVerifier implements auth.PasswordVerifier for testing
type MockPasswordVerifier struct {
	// ShouldSucceed determines whether the password comparison should succeed
	ShouldSucceed bool

	// CompareFn allows for custom comparison logic in tests
	CompareFn func(hashedPassword, password string) error

	mu           sync.Mutex
	compareCalls int
	dummyCalls   int
}

var _ auth.PasswordVerifier = (*MockPasswordVerifier)(nil)

// Compare implements the auth.PasswordVerifier interface
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	m.mu.Lock()
	m.compareCalls++
	m.mu.Unlock()

	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if m.ShouldSucceed {
		return nil
	}
	return ErrPasswordMismatch
}

// CompareDummy implements the auth.PasswordVerifier interface
func (m *MockPasswordVerifier) CompareDummy(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dummyCalls++
}

// CompareCallCount returns how many times Compare was called.
func (m *MockPasswordVerifier) CompareCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.compareCalls
}

// DummyCallCount returns how many times CompareDummy was called.
func (m *MockPasswordVerifier) DummyCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dummyCalls
}
