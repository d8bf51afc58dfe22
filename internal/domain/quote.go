package domain

import "time"

// Quote is a priced fuel delivery request owned by one account.
// Once persisted it is never modified or deleted.
type Quote struct {
	// ID is assigned by storage and increases with creation order.
	ID int64

	// UserID is the owning account's internal id.
	UserID int64

	GallonsRequested float64
	DeliveryAddress  string
	DeliveryDate     string

	PricePerGallon float64

	// TotalAmountDue always equals round2(PricePerGallon * GallonsRequested).
	TotalAmountDue float64

	// CreatedAt is assigned by storage and orders quote history.
	CreatedAt time.Time
}

// QuoteInput is what a user submits when asking for a quote.
type QuoteInput struct {
	GallonsRequested float64
	DeliveryAddress  string
	DeliveryDate     string

	// State is the destination jurisdiction code, e.g. "TX".
	State string
}
