package postgres

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/fuel-quote-service/internal/adapters/repository/postgres/migrations"
	"github.com/jsamuelsen/fuel-quote-service/internal/domain"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual),
		sqlmock.MonitorPingsOption(true),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	return db, mock
}

var accountColumns = []string{
	"id", "username", "password_hash", "profile_complete",
	"full_name", "address1", "address2", "city", "state", "zipcode", "created_at",
}

func TestAccountRepository_FindByUsername(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAccountRepository(db)
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(selectAccountByUsername).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(accountColumns).
			AddRow(int64(7), "alice", "$2a$hash", true, "Alice A", "1 Main St", "", "Houston", "TX", "77001", created))

	account, err := repo.FindByUsername(context.Background(), "alice")

	require.NoError(t, err)
	assert.Equal(t, int64(7), account.ID)
	assert.True(t, account.ProfileComplete)
	assert.Equal(t, "Houston", account.Profile.City)
	assert.Equal(t, created, account.CreatedAt)
}

func TestAccountRepository_FindByUsername_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAccountRepository(db)

	mock.ExpectQuery(selectAccountByUsername).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByUsername(context.Background(), "ghost")

	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAccountRepository_FindByUsername_DriverError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAccountRepository(db)

	mock.ExpectQuery(selectAccountByUsername).
		WithArgs("alice").
		WillReturnError(errors.New("connection reset"))

	_, err := repo.FindByUsername(context.Background(), "alice")

	require.Error(t, err)
	assert.False(t, domain.IsNotFound(err))
	assert.Contains(t, err.Error(), "selecting account")
}

func TestAccountRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAccountRepository(db)
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(insertAccount).
		WithArgs("alice", "$2a$hash").
		WillReturnRows(sqlmock.NewRows([]string{"id", "profile_complete", "created_at"}).
			AddRow(int64(1), false, created))

	account, err := repo.Create(context.Background(), "alice", "$2a$hash")

	require.NoError(t, err)
	assert.Equal(t, int64(1), account.ID)
	assert.Equal(t, "alice", account.Username)
	assert.False(t, account.ProfileComplete)
}

func TestAccountRepository_Create_UniqueViolation(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAccountRepository(db)

	mock.ExpectQuery(insertAccount).
		WithArgs("alice", "$2a$hash").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

	_, err := repo.Create(context.Background(), "alice", "$2a$hash")

	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestAccountRepository_WriteProfile(t *testing.T) {
	profile := domain.Profile{
		FullName: "Alice A",
		Address1: "1 Main St",
		City:     "Houston",
		State:    "TX",
		Zipcode:  "77001",
	}

	tests := []struct {
		name  string
		query string
		call  func(*AccountRepository) error
	}{
		{
			name:  "complete",
			query: completeProfile,
			call: func(r *AccountRepository) error {
				return r.CompleteProfile(context.Background(), "alice", profile)
			},
		},
		{
			name:  "update",
			query: updateProfile,
			call: func(r *AccountRepository) error {
				return r.UpdateProfile(context.Background(), "alice", profile)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)

			mock.ExpectExec(tt.query).
				WithArgs("alice", "Alice A", "1 Main St", "", "Houston", "TX", "77001").
				WillReturnResult(sqlmock.NewResult(0, 1))

			require.NoError(t, tt.call(NewAccountRepository(db)))
		})

		t.Run(tt.name+" unknown user", func(t *testing.T) {
			db, mock := newMock(t)

			mock.ExpectExec(tt.query).
				WillReturnResult(sqlmock.NewResult(0, 0))

			err := tt.call(NewAccountRepository(db))

			require.ErrorIs(t, err, domain.ErrNotFound)
		})
	}
}

func TestQuoteRepository_CountForUser(t *testing.T) {
	db, mock := newMock(t)
	repo := NewQuoteRepository(db)

	mock.ExpectQuery(countQuotesForUser).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	n, err := repo.CountForUser(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestQuoteRepository_Insert(t *testing.T) {
	db, mock := newMock(t)
	repo := NewQuoteRepository(db)
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	in := &domain.Quote{
		UserID:           3,
		GallonsRequested: 100,
		DeliveryAddress:  "1 Main St",
		DeliveryDate:     "2024-05-01",
		PricePerGallon:   1.74,
		TotalAmountDue:   174,
	}

	mock.ExpectQuery(insertQuote).
		WithArgs(int64(3), 100.0, "1 Main St", "2024-05-01", 1.74, 174.0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(11), created))

	stored, err := repo.Insert(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, int64(11), stored.ID)
	assert.Equal(t, created, stored.CreatedAt)
	assert.Zero(t, in.ID, "input must not be mutated")
}

func TestQuoteRepository_ListForUser(t *testing.T) {
	db, mock := newMock(t)
	repo := NewQuoteRepository(db)
	newer := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)

	mock.ExpectQuery(listQuotesForUser).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "gallons_requested", "delivery_address", "delivery_date",
			"price_per_gallon", "total_amount_due", "created_at",
		}).
			AddRow(int64(2), int64(3), 1500.0, "1 Main St", "2024-05-02", 1.73, 2595.0, newer).
			AddRow(int64(1), int64(3), 100.0, "1 Main St", "2024-05-01", 1.76, 176.0, older))

	quotes, err := repo.ListForUser(context.Background(), 3)

	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, int64(2), quotes[0].ID)
	assert.Equal(t, 2595.0, quotes[0].TotalAmountDue)
}

func TestQuoteRepository_ListForUser_Empty(t *testing.T) {
	db, mock := newMock(t)
	repo := NewQuoteRepository(db)

	mock.ExpectQuery(listQuotesForUser).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	quotes, err := repo.ListForUser(context.Background(), 9)

	require.NoError(t, err)
	assert.NotNil(t, quotes)
	assert.Empty(t, quotes)
}

func TestMigrate(t *testing.T) {
	db, _ := newMock(t)

	original := gooseUp
	t.Cleanup(func() { gooseUp = original })

	var gotDir string
	gooseUp = func(_ context.Context, _ *sql.DB, dir string) error {
		gotDir = dir
		return nil
	}

	require.NoError(t, Migrate(context.Background(), db))
	assert.Equal(t, ".", gotDir)

	gooseUp = func(context.Context, *sql.DB, string) error {
		return errors.New("dirty database")
	}

	err := Migrate(context.Background(), db)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "running migrations")
}

func TestMigrationsEmbedded(t *testing.T) {
	files, err := fs.Glob(migrations.FS, "*.sql")

	require.NoError(t, err)
	assert.Equal(t, []string{"00001_create_users.sql", "00002_create_quotes.sql"}, files)
}

func TestHealthChecker(t *testing.T) {
	db, mock := newMock(t)
	checker := NewHealthChecker(db)

	mock.ExpectPing()
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	assert.Equal(t, "postgres", checker.Name())
	require.NoError(t, checker.Check(context.Background()))
	require.Error(t, checker.Check(context.Background()))
}
