package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/onebytwo/account-eraser/internal/model"
)

// AccountService is a mock of the account deletion service.
type AccountService struct {
	mock.Mock
}

func (m *AccountService) DeleteAccount(ctx context.Context) (model.DeleteAccountResult, error) {
	ret := m.Called(ctx)
	return ret.Get(0).(model.DeleteAccountResult), ret.Error(1)
}

// NewAccountService creates an AccountService mock whose expectations are asserted on cleanup.
func NewAccountService(t interface {
	mock.TestingT
	Cleanup(func())
}) *AccountService {
	m := &AccountService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Authenticator is a mock of the erasure auth gate.
type Authenticator struct {
	mock.Mock
}

func (m *Authenticator) Authenticate(ctx context.Context) (uuid.UUID, error) {
	ret := m.Called(ctx)
	return ret.Get(0).(uuid.UUID), ret.Error(1)
}

// NewAuthenticator creates an Authenticator mock whose expectations are asserted on cleanup.
func NewAuthenticator(t interface {
	mock.TestingT
	Cleanup(func())
}) *Authenticator {
	m := &Authenticator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Purger is a mock of the record purger.
type Purger struct {
	mock.Mock
}

func (m *Purger) Purge(ctx context.Context, uid uuid.UUID) error {
	return m.Called(ctx, uid).Error(0)
}

// NewPurger creates a Purger mock whose expectations are asserted on cleanup.
func NewPurger(t interface {
	mock.TestingT
	Cleanup(func())
}) *Purger {
	m := &Purger{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// FileRemover is a mock of the file eraser.
type FileRemover struct {
	mock.Mock
}

func (m *FileRemover) Erase(ctx context.Context, uid uuid.UUID) model.Advisory {
	return m.Called(ctx, uid).Get(0).(model.Advisory)
}

// NewFileRemover creates a FileRemover mock whose expectations are asserted on cleanup.
func NewFileRemover(t interface {
	mock.TestingT
	Cleanup(func())
}) *FileRemover {
	m := &FileRemover{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// IdentityRemover is a mock of the identity eraser.
type IdentityRemover struct {
	mock.Mock
}

func (m *IdentityRemover) Erase(ctx context.Context, uid uuid.UUID) error {
	return m.Called(ctx, uid).Error(0)
}

// NewIdentityRemover creates an IdentityRemover mock whose expectations are asserted on cleanup.
func NewIdentityRemover(t interface {
	mock.TestingT
	Cleanup(func())
}) *IdentityRemover {
	m := &IdentityRemover{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
