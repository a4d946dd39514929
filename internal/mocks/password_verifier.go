package mocks

import (
	"sync"

	"github.com/phrazzld/bmi-api/internal/service/auth"
)

// MockPasswordVerifier implements auth.PasswordVerifier and records its calls.
type MockPasswordVerifier struct {
	ShouldSucceed bool
	CompareFn     func(hashedPassword, password string) error

	mu        sync.Mutex
	calls     int
	lastHash  string
	lastPlain string
}

var _ auth.PasswordVerifier = (*MockPasswordVerifier)(nil)

// Compare returns nil when ShouldSucceed is set and auth.ErrInvalidCredentials otherwise.
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	m.mu.Lock()
	m.calls++
	m.lastHash, m.lastPlain = hashedPassword, password
	m.mu.Unlock()

	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if m.ShouldSucceed {
		return nil
	}
	return auth.ErrInvalidCredentials
}

// Calls reports how many times Compare ran.
func (m *MockPasswordVerifier) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastCall returns the arguments of the most recent Compare.
func (m *MockPasswordVerifier) LastCall() (hashedPassword, password string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastHash, m.lastPlain
}
