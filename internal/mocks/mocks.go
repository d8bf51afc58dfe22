// Package mocks provides testify mocks for the ports interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen/fuel-quote-service/internal/domain"
	"github.com/jsamuelsen/fuel-quote-service/internal/ports"
)

// T is the subset of testing.TB the constructors need.
type T interface {
	mock.TestingT
	Cleanup(func())
}

// MockAccountRepository mocks ports.AccountRepository.
type MockAccountRepository struct {
	mock.Mock
}

// NewMockAccountRepository returns a mock whose expectations are asserted on cleanup.
func NewMockAccountRepository(t T) *MockAccountRepository {
	m := &MockAccountRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockAccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	args := m.Called(ctx, username)

	account, _ := args.Get(0).(*domain.Account)

	return account, args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, username, passwordHash string) (*domain.Account, error) {
	args := m.Called(ctx, username, passwordHash)

	account, _ := args.Get(0).(*domain.Account)

	return account, args.Error(1)
}

func (m *MockAccountRepository) CompleteProfile(ctx context.Context, username string, profile domain.Profile) error {
	return m.Called(ctx, username, profile).Error(0)
}

func (m *MockAccountRepository) UpdateProfile(ctx context.Context, username string, profile domain.Profile) error {
	return m.Called(ctx, username, profile).Error(0)
}

// MockQuoteRepository mocks ports.QuoteRepository.
type MockQuoteRepository struct {
	mock.Mock
}

// NewMockQuoteRepository returns a mock whose expectations are asserted on cleanup.
func NewMockQuoteRepository(t T) *MockQuoteRepository {
	m := &MockQuoteRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockQuoteRepository) CountForUser(ctx context.Context, userID int64) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockQuoteRepository) Insert(ctx context.Context, quote *domain.Quote) (*domain.Quote, error) {
	args := m.Called(ctx, quote)

	stored, _ := args.Get(0).(*domain.Quote)

	return stored, args.Error(1)
}

func (m *MockQuoteRepository) ListForUser(ctx context.Context, userID int64) ([]domain.Quote, error) {
	args := m.Called(ctx, userID)

	quotes, _ := args.Get(0).([]domain.Quote)

	return quotes, args.Error(1)
}

// MockPasswordHasher mocks ports.PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

// NewMockPasswordHasher returns a mock whose expectations are asserted on cleanup.
func NewMockPasswordHasher(t T) *MockPasswordHasher {
	m := &MockPasswordHasher{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockPasswordHasher) Hash(plaintext string) (string, error) {
	args := m.Called(plaintext)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Verify(plaintext, hash string) bool {
	return m.Called(plaintext, hash).Bool(0)
}

// MockTokenIssuer mocks ports.TokenIssuer.
type MockTokenIssuer struct {
	mock.Mock
}

// NewMockTokenIssuer returns a mock whose expectations are asserted on cleanup.
func NewMockTokenIssuer(t T) *MockTokenIssuer {
	m := &MockTokenIssuer{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockTokenIssuer) Issue(username string) (string, error) {
	args := m.Called(username)
	return args.String(0), args.Error(1)
}

func (m *MockTokenIssuer) Verify(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

var (
	_ ports.AccountRepository = (*MockAccountRepository)(nil)
	_ ports.QuoteRepository   = (*MockQuoteRepository)(nil)
	_ ports.PasswordHasher    = (*MockPasswordHasher)(nil)
	_ ports.TokenIssuer       = (*MockTokenIssuer)(nil)
)
