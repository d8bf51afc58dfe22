// Package memory provides process-local implementations of the account and
// quote repositories. State starts empty (or seeded through Seed) and is
// guarded by a single mutex, so concurrent requests never race on it.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jsamuelsen/fuel-quote-service/internal/domain"
)

// Store holds accounts and quotes in memory.
// It satisfies both ports.AccountRepository and ports.QuoteRepository.
type Store struct {
	mu sync.RWMutex

	accounts   map[string]*domain.Account
	quotes     []domain.Quote
	nextUserID int64
	nextQuote  int64

	now func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		accounts:   make(map[string]*domain.Account),
		nextUserID: 1,
		nextQuote:  1,
		now:        time.Now,
	}
}

// Seed inserts accounts directly, assigning ids to those without one.
// Intended for local development and tests. A username or explicit id that is
// already taken, in the store or earlier in the batch, rejects the whole batch.
func (s *Store) Seed(accounts ...domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	usedIDs := make(map[int64]string, len(s.accounts)+len(accounts))
	for _, a := range s.accounts {
		usedIDs[a.ID] = a.Username
	}

	names := make(map[string]struct{}, len(accounts))
	for _, a := range accounts {
		if _, exists := s.accounts[a.Username]; exists {
			return domain.NewUsernameTakenError()
		}

		if _, dup := names[a.Username]; dup {
			return domain.NewUsernameTakenError()
		}

		names[a.Username] = struct{}{}

		if a.ID == 0 {
			continue
		}

		if owner, taken := usedIDs[a.ID]; taken {
			return domain.NewConflictErrorWithDetails(domain.EntityAccount, "id already assigned",
				fmt.Sprintf("id %d belongs to %q", a.ID, owner))
		}

		usedIDs[a.ID] = a.Username
	}

	for _, a := range accounts {
		if a.ID == 0 {
			for {
				a.ID = s.nextUserID
				s.nextUserID++

				if _, taken := usedIDs[a.ID]; !taken {
					break
				}
			}

			usedIDs[a.ID] = a.Username
		}

		if a.ID >= s.nextUserID {
			s.nextUserID = a.ID + 1
		}

		if a.CreatedAt.IsZero() {
			a.CreatedAt = s.now()
		}

		s.accounts[a.Username] = &a
	}

	return nil
}

// FindByUsername implements ports.AccountRepository.
func (s *Store) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[username]
	if !ok {
		return nil, domain.NewUserNotFoundError()
	}

	found := *account

	return &found, nil
}

// Create implements ports.AccountRepository. The existence check and insert
// happen under one lock, which is this store's uniqueness constraint.
func (s *Store) Create(ctx context.Context, username, passwordHash string) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[username]; exists {
		return nil, domain.NewUsernameTakenError()
	}

	account := &domain.Account{
		ID:           s.nextUserID,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    s.now(),
	}
	s.nextUserID++
	s.accounts[username] = account

	created := *account

	return &created, nil
}

// CompleteProfile implements ports.AccountRepository.
func (s *Store) CompleteProfile(ctx context.Context, username string, profile domain.Profile) error {
	return s.updateProfile(ctx, username, profile, true)
}

// UpdateProfile implements ports.AccountRepository.
func (s *Store) UpdateProfile(ctx context.Context, username string, profile domain.Profile) error {
	return s.updateProfile(ctx, username, profile, false)
}

func (s *Store) updateProfile(ctx context.Context, username string, profile domain.Profile, complete bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[username]
	if !ok {
		return domain.NewUserNotFoundError()
	}

	account.Profile = profile
	if complete {
		account.ProfileComplete = true
	}

	return nil
}

// CountForUser implements ports.QuoteRepository.
func (s *Store) CountForUser(ctx context.Context, userID int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, q := range s.quotes {
		if q.UserID == userID {
			count++
		}
	}

	return count, nil
}

// Insert implements ports.QuoteRepository.
func (s *Store) Insert(ctx context.Context, quote *domain.Quote) (*domain.Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *quote
	stored.ID = s.nextQuote
	stored.CreatedAt = s.now()
	s.nextQuote++

	s.quotes = append(s.quotes, stored)

	return &stored, nil
}

// ListForUser implements ports.QuoteRepository.
// Ties on CreatedAt are broken by the higher id first.
func (s *Store) ListForUser(ctx context.Context, userID int64) ([]domain.Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	quotes := make([]domain.Quote, 0)
	for _, q := range s.quotes {
		if q.UserID == userID {
			quotes = append(quotes, q)
		}
	}

	sort.SliceStable(quotes, func(i, j int) bool {
		if quotes[i].CreatedAt.Equal(quotes[j].CreatedAt) {
			return quotes[i].ID > quotes[j].ID
		}

		return quotes[i].CreatedAt.After(quotes[j].CreatedAt)
	})

	return quotes, nil
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string {
	return "memory-store"
}

// Check implements ports.HealthChecker. An in-memory store is always reachable.
func (s *Store) Check(context.Context) error {
	return nil
}
