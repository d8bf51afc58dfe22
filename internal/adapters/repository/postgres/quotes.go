package postgres

import (
	"context"
	"fmt"

	"github.com/jsamuelsen/fuel-quote-service/internal/domain"
)

const (
	countQuotesForUser = `SELECT COUNT(*) FROM quotes WHERE user_id = $1`

	insertQuote = `INSERT INTO quotes
    (user_id, gallons_requested, delivery_address, delivery_date, price_per_gallon, total_amount_due)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at`

	listQuotesForUser = `SELECT id, user_id, gallons_requested, delivery_address, delivery_date,
       price_per_gallon::float8, total_amount_due::float8, created_at
FROM quotes
WHERE user_id = $1
ORDER BY created_at DESC, id DESC`
)

// QuoteRepository implements ports.QuoteRepository on the quotes table.
type QuoteRepository struct {
	db DBTX
}

// NewQuoteRepository returns a repository backed by db.
func NewQuoteRepository(db DBTX) *QuoteRepository {
	return &QuoteRepository{db: db}
}

// CountForUser implements ports.QuoteRepository.
func (r *QuoteRepository) CountForUser(ctx context.Context, userID int64) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, countQuotesForUser, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting quotes: %w", err)
	}

	return n, nil
}

// Insert implements ports.QuoteRepository.
func (r *QuoteRepository) Insert(ctx context.Context, quote *domain.Quote) (*domain.Quote, error) {
	stored := *quote

	err := r.db.QueryRowContext(ctx, insertQuote,
		quote.UserID,
		quote.GallonsRequested,
		quote.DeliveryAddress,
		quote.DeliveryDate,
		quote.PricePerGallon,
		quote.TotalAmountDue,
	).Scan(&stored.ID, &stored.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting quote: %w", err)
	}

	return &stored, nil
}

// ListForUser implements ports.QuoteRepository.
func (r *QuoteRepository) ListForUser(ctx context.Context, userID int64) ([]domain.Quote, error) {
	rows, err := r.db.QueryContext(ctx, listQuotesForUser, userID)
	if err != nil {
		return nil, fmt.Errorf("listing quotes: %w", err)
	}
	defer rows.Close()

	quotes := make([]domain.Quote, 0)
	for rows.Next() {
		var q domain.Quote
		if err := rows.Scan(
			&q.ID,
			&q.UserID,
			&q.GallonsRequested,
			&q.DeliveryAddress,
			&q.DeliveryDate,
			&q.PricePerGallon,
			&q.TotalAmountDue,
			&q.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning quote: %w", err)
		}

		quotes = append(quotes, q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating quotes: %w", err)
	}

	return quotes, nil
}
