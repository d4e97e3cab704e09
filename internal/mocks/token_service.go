package mocks

import (
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// TokenService is a mock of the ID token verifier.
type TokenService struct {
	mock.Mock
}

func (m *TokenService) ParseAccessToken(token string) (uuid.UUID, error) {
	ret := m.Called(token)
	return ret.Get(0).(uuid.UUID), ret.Error(1)
}

// NewTokenService creates a TokenService mock whose expectations are asserted on cleanup.
func NewTokenService(t interface {
	mock.TestingT
	Cleanup(func())
}) *TokenService {
	m := &TokenService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// AppCheckVerifier is a mock of model.AppCheckVerifier.
type AppCheckVerifier struct {
	mock.Mock
}

func (m *AppCheckVerifier) ParseAppCheckToken(token string) (string, error) {
	ret := m.Called(token)
	return ret.String(0), ret.Error(1)
}

// NewAppCheckVerifier creates an AppCheckVerifier mock whose expectations are asserted on cleanup.
func NewAppCheckVerifier(t interface {
	mock.TestingT
	Cleanup(func())
}) *AppCheckVerifier {
	m := &AppCheckVerifier{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
