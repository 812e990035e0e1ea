// Package mocks provides mock implementations of the crypto services for testing.
package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockCipherEngine is a mock implementation of CipherEngine for testing.
type MockCipherEngine struct {
	mock.Mock
}

// Encrypt mocks the Encrypt method of CipherEngine.
func (m *MockCipherEngine) Encrypt(plaintext []byte) (string, error) {
	args := m.Called(plaintext)
	return args.String(0), args.Error(1)
}

// Decrypt mocks the Decrypt method of CipherEngine.
func (m *MockCipherEngine) Decrypt(encodedValue string) ([]byte, error) {
	args := m.Called(encodedValue)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
