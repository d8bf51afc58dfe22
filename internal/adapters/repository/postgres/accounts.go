package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jsamuelsen/fuel-quote-service/internal/domain"
)

const (
	selectAccountByUsername = `SELECT id, username, password_hash, profile_complete,
       COALESCE(full_name, ''), COALESCE(address1, ''), COALESCE(address2, ''),
       COALESCE(city, ''), COALESCE(state, ''), COALESCE(zipcode, ''), created_at
FROM users
WHERE username = $1`

	insertAccount = `INSERT INTO users (username, password_hash)
VALUES ($1, $2)
RETURNING id, profile_complete, created_at`

	completeProfile = `UPDATE users
SET full_name = $2, address1 = $3, address2 = $4, city = $5, state = $6, zipcode = $7,
    profile_complete = TRUE
WHERE username = $1`

	updateProfile = `UPDATE users
SET full_name = $2, address1 = $3, address2 = $4, city = $5, state = $6, zipcode = $7
WHERE username = $1`
)

// AccountRepository implements ports.AccountRepository on the users table.
type AccountRepository struct {
	db DBTX
}

// NewAccountRepository returns a repository backed by db.
func NewAccountRepository(db DBTX) *AccountRepository {
	return &AccountRepository{db: db}
}

// FindByUsername implements ports.AccountRepository.
func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	var a domain.Account

	err := r.db.QueryRowContext(ctx, selectAccountByUsername, username).Scan(
		&a.ID,
		&a.Username,
		&a.PasswordHash,
		&a.ProfileComplete,
		&a.Profile.FullName,
		&a.Profile.Address1,
		&a.Profile.Address2,
		&a.Profile.City,
		&a.Profile.State,
		&a.Profile.Zipcode,
		&a.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewUserNotFoundError()
	}

	if err != nil {
		return nil, fmt.Errorf("selecting account: %w", err)
	}

	return &a, nil
}

// Create implements ports.AccountRepository. The users_username_key constraint
// rejects concurrent duplicate registrations.
func (r *AccountRepository) Create(ctx context.Context, username, passwordHash string) (*domain.Account, error) {
	a := domain.Account{
		Username:     username,
		PasswordHash: passwordHash,
	}

	err := r.db.QueryRowContext(ctx, insertAccount, username, passwordHash).
		Scan(&a.ID, &a.ProfileComplete, &a.CreatedAt)
	if isUniqueViolation(err) {
		return nil, domain.NewUsernameTakenError()
	}

	if err != nil {
		return nil, fmt.Errorf("inserting account: %w", err)
	}

	return &a, nil
}

// CompleteProfile implements ports.AccountRepository.
func (r *AccountRepository) CompleteProfile(ctx context.Context, username string, profile domain.Profile) error {
	return r.writeProfile(ctx, completeProfile, username, profile)
}

// UpdateProfile implements ports.AccountRepository.
func (r *AccountRepository) UpdateProfile(ctx context.Context, username string, profile domain.Profile) error {
	return r.writeProfile(ctx, updateProfile, username, profile)
}

func (r *AccountRepository) writeProfile(ctx context.Context, query, username string, p domain.Profile) error {
	res, err := r.db.ExecContext(ctx, query,
		username, p.FullName, p.Address1, p.Address2, p.City, p.State, p.Zipcode)
	if err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return domain.NewUserNotFoundError()
	}

	return nil
}
