// Package app contains the application services: account registration,
// authentication and profile management, and quote pricing with history.
// Services orchestrate the domain through ports and never see HTTP or SQL.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/jsamuelsen/fuel-quote-service/internal/domain"
	"github.com/jsamuelsen/fuel-quote-service/internal/platform/logging"
	"github.com/jsamuelsen/fuel-quote-service/internal/ports"
)

const msgRegistered = "User registered successfully"

// unknownUserPassword is hashed once; logins for absent usernames verify
// against that hash so both rejection paths cost one comparison.
const unknownUserPassword = "fuel-quote-unknown-user"

// Outcome labels passed to ports.Metrics.
const (
	outcomeSuccess  = "success"
	outcomeRejected = "rejected"
	outcomeError    = "error"
)

// RegisterResult is returned after a successful registration.
type RegisterResult struct {
	Message string
	Token   string
}

// LoginResult is returned after a successful login.
// RedirectTo tells the client which page to show next.
type LoginResult struct {
	Token      string
	RedirectTo string
}

// ProfileUpdate is a full replacement of an account's profile fields.
type ProfileUpdate struct {
	Username string
	Profile  domain.Profile
}

// AccountService owns registration, authentication and profile management.
// Apart from the lazily computed unknown-user hash it holds no mutable state.
type AccountService struct {
	accounts ports.AccountRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenIssuer
	metrics  ports.Metrics
	logger   *slog.Logger

	unknownOnce sync.Once
	unknownHash string
}

// AccountServiceConfig contains the dependencies of AccountService.
// Metrics and Logger are optional.
type AccountServiceConfig struct {
	Accounts ports.AccountRepository
	Hasher   ports.PasswordHasher
	Tokens   ports.TokenIssuer
	Metrics  ports.Metrics
	Logger   *slog.Logger
}

// NewAccountService creates an account service from cfg.
// It panics if a required dependency is missing.
func NewAccountService(cfg AccountServiceConfig) *AccountService {
	if cfg.Accounts == nil || cfg.Hasher == nil || cfg.Tokens == nil {
		panic("app: AccountService requires Accounts, Hasher and Tokens")
	}

	metrics := cfg.Metrics
	if metrics == nil {
		metrics = ports.NoopMetrics{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &AccountService{
		accounts: cfg.Accounts,
		hasher:   cfg.Hasher,
		tokens:   cfg.Tokens,
		metrics:  metrics,
		logger:   logger.With(slog.String("component", "app.AccountService")),
	}
}

// Register creates an account with an incomplete profile and returns a session token.
// Duplicate usernames fail with a ConflictError whether caught by the lookup or by
// the store's uniqueness constraint.
func (s *AccountService) Register(ctx context.Context, username, password string) (*RegisterResult, error) {
	logger := loggerFor(ctx, s.logger).With(slog.String("method", "Register"))

	if missing := missingCredentials(username, password); len(missing) > 0 {
		s.metrics.Registration(outcomeRejected)
		return nil, domain.NewMissingFieldsError(missing...)
	}

	_, err := s.accounts.FindByUsername(ctx, username)
	switch {
	case err == nil:
		s.metrics.Registration(outcomeRejected)
		logger.InfoContext(ctx, "registration rejected, username taken")

		return nil, domain.NewUsernameTakenError()
	case !domain.IsNotFound(err):
		s.metrics.Registration(outcomeError)
		return nil, fmt.Errorf("looking up account: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.metrics.Registration(outcomeError)
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	account, err := s.accounts.Create(ctx, username, hash)
	if err != nil {
		if domain.IsConflict(err) {
			s.metrics.Registration(outcomeRejected)
			logger.InfoContext(ctx, "registration lost a uniqueness race")

			return nil, err
		}

		s.metrics.Registration(outcomeError)

		return nil, fmt.Errorf("creating account: %w", err)
	}

	token, err := s.tokens.Issue(account.Username)
	if err != nil {
		s.metrics.Registration(outcomeError)
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	s.metrics.Registration(outcomeSuccess)
	logger.InfoContext(ctx, "account registered", slog.Int64("user_id", account.ID))

	return &RegisterResult{Message: msgRegistered, Token: token}, nil
}

// Login verifies credentials and returns a session token plus the next route.
// An unknown username and a wrong password produce the same error.
func (s *AccountService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	logger := loggerFor(ctx, s.logger).With(slog.String("method", "Login"))

	if missing := missingCredentials(username, password); len(missing) > 0 {
		s.metrics.Login(outcomeRejected)
		return nil, domain.NewMissingFieldsError(missing...)
	}

	account, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		if domain.IsNotFound(err) {
			s.verifyUnknownUser(password)
			s.metrics.Login(outcomeRejected)

			return nil, domain.NewInvalidCredentialsError()
		}

		s.metrics.Login(outcomeError)

		return nil, fmt.Errorf("looking up account: %w", err)
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		s.metrics.Login(outcomeRejected)
		logger.InfoContext(ctx, "login rejected", slog.Int64("user_id", account.ID))

		return nil, domain.NewInvalidCredentialsError()
	}

	token, err := s.tokens.Issue(account.Username)
	if err != nil {
		s.metrics.Login(outcomeError)
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	s.metrics.Login(outcomeSuccess)
	logger.InfoContext(ctx, "login succeeded", slog.Int64("user_id", account.ID))

	return &LoginResult{Token: token, RedirectTo: account.LandingRoute()}, nil
}

// verifyUnknownUser spends the same hash comparison a known account would.
// The outcome is ignored.
func (s *AccountService) verifyUnknownUser(password string) {
	s.unknownOnce.Do(func() {
		if hash, err := s.hasher.Hash(unknownUserPassword); err == nil {
			s.unknownHash = hash
		}
	})

	_ = s.hasher.Verify(password, s.unknownHash)
}

// CompleteProfile stores the profile and marks it complete in one update.
// Calling it again overwrites the stored fields.
func (s *AccountService) CompleteProfile(ctx context.Context, username string, profile domain.Profile) error {
	if missing := profile.MissingFields(); len(missing) > 0 {
		return domain.NewMissingFieldsError(missing...)
	}

	if err := s.accounts.CompleteProfile(ctx, username, profile); err != nil {
		if domain.IsNotFound(err) {
			return err
		}

		return fmt.Errorf("completing profile: %w", err)
	}

	loggerFor(ctx, s.logger).InfoContext(ctx, "profile completed", slog.String("method", "CompleteProfile"))

	return nil
}

// GetProfile returns the stored profile of a user whose profile is complete.
// Absent accounts and incomplete profiles are both ProfileNotFound.
func (s *AccountService) GetProfile(ctx context.Context, username string) (*domain.Profile, error) {
	account, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewProfileNotFoundError()
		}

		return nil, fmt.Errorf("looking up account: %w", err)
	}

	if !account.ProfileComplete {
		return nil, domain.NewProfileNotFoundError()
	}

	profile := account.Profile

	return &profile, nil
}

// UpdateProfile replaces the profile fields without changing completion state
// and echoes the submitted values. Missing fields are reported before the
// username is looked at.
func (s *AccountService) UpdateProfile(ctx context.Context, update ProfileUpdate) (*ProfileUpdate, error) {
	if missing := update.Profile.MissingFields(); len(missing) > 0 {
		return nil, domain.NewMissingFieldsError(missing...)
	}

	if err := s.accounts.UpdateProfile(ctx, update.Username, update.Profile); err != nil {
		if domain.IsNotFound(err) {
			return nil, err
		}

		return nil, fmt.Errorf("updating profile: %w", err)
	}

	loggerFor(ctx, s.logger).InfoContext(ctx, "profile updated", slog.String("method", "UpdateProfile"))

	echo := update

	return &echo, nil
}

func missingCredentials(username, password string) []string {
	var missing []string
	if strings.TrimSpace(username) == "" {
		missing = append(missing, "username")
	}

	if password == "" {
		missing = append(missing, "password")
	}

	return missing
}

// loggerFor prefers the request-scoped logger so request and trace ids follow the call.
func loggerFor(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := logging.Lookup(ctx); ok {
		return logger
	}

	return fallback
}
