package dto

import (
	"time"

	"github.com/jsamuelsen/fuel-quote-service/internal/domain"
	"github.com/jsamuelsen/fuel-quote-service/internal/domain/pricing"
)

// QuoteRequest is the body of quote creation and preview.
// State may be omitted, in which case the profile's state is used.
type QuoteRequest struct {
	Username         string  `json:"username" validate:"max=64"`
	GallonsRequested float64 `json:"gallonsRequested"`
	DeliveryAddress  string  `json:"deliveryAddress" validate:"max=200"`
	DeliveryDate     string  `json:"deliveryDate" validate:"max=32"`
	State            string  `json:"state" validate:"omitempty,len=2"`
}

// Input converts the request into a domain quote input.
func (r *QuoteRequest) Input() domain.QuoteInput {
	return domain.QuoteInput{
		GallonsRequested: r.GallonsRequested,
		DeliveryAddress:  r.DeliveryAddress,
		DeliveryDate:     r.DeliveryDate,
		State:            r.State,
	}
}

// QuoteResponse is the wire form of a persisted quote.
type QuoteResponse struct {
	ID               int64     `json:"quote_id"`
	UserID           int64     `json:"userID"`
	GallonsRequested float64   `json:"gallonsRequested"`
	DeliveryAddress  string    `json:"deliveryAddress"`
	DeliveryDate     string    `json:"deliveryDate"`
	PricePerGallon   float64   `json:"pricePerGallon"`
	TotalAmountDue   float64   `json:"totalAmountDue"`
	CreatedAt        time.Time `json:"createdAt"`
}

// NewQuoteResponse converts a domain quote for the wire.
func NewQuoteResponse(q *domain.Quote) *QuoteResponse {
	return &QuoteResponse{
		ID:               q.ID,
		UserID:           q.UserID,
		GallonsRequested: q.GallonsRequested,
		DeliveryAddress:  q.DeliveryAddress,
		DeliveryDate:     q.DeliveryDate,
		PricePerGallon:   q.PricePerGallon,
		TotalAmountDue:   q.TotalAmountDue,
		CreatedAt:        q.CreatedAt,
	}
}

// NewQuoteHistoryResponse converts quotes in order. An empty history
// encodes as [] rather than null.
func NewQuoteHistoryResponse(quotes []domain.Quote) []*QuoteResponse {
	out := make([]*QuoteResponse, 0, len(quotes))
	for i := range quotes {
		out = append(out, NewQuoteResponse(&quotes[i]))
	}

	return out
}

// PreviewResponse is returned by POST /quotes/preview.
type PreviewResponse struct {
	GallonsRequested float64 `json:"gallonsRequested"`
	PricePerGallon   float64 `json:"pricePerGallon"`
	TotalAmountDue   float64 `json:"totalAmountDue"`
}

// NewPreviewResponse converts a pricing result for the wire.
func NewPreviewResponse(gallons float64, r *pricing.Result) *PreviewResponse {
	return &PreviewResponse{
		GallonsRequested: gallons,
		PricePerGallon:   r.PricePerGallon,
		TotalAmountDue:   r.TotalAmountDue,
	}
}
