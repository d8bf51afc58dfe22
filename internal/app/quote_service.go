package app

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/jsamuelsen/fuel-quote-service/internal/domain"
	"github.com/jsamuelsen/fuel-quote-service/internal/domain/pricing"
	"github.com/jsamuelsen/fuel-quote-service/internal/ports"
)

// QuoteService prices fuel delivery requests and keeps each user's quote history.
// It depends on port interfaces, not concrete implementations.
type QuoteService struct {
	accounts ports.AccountRepository
	quotes   ports.QuoteRepository
	engine     *pricing.Engine
	maxGallons float64
	metrics    ports.Metrics
	logger     *slog.Logger
}

// QuoteServiceConfig contains the dependencies of QuoteService.
// A nil Engine prices with the default rate table and a zero MaxGallons
// selects pricing.DefaultMaxGallons.
type QuoteServiceConfig struct {
	Accounts   ports.AccountRepository
	Quotes     ports.QuoteRepository
	Engine     *pricing.Engine
	MaxGallons float64
	Metrics    ports.Metrics
	Logger     *slog.Logger
}

// NewQuoteService creates a quote service from cfg.
// It panics if either repository is missing.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.Accounts == nil || cfg.Quotes == nil {
		panic("app: QuoteService requires Accounts and Quotes")
	}

	engine := cfg.Engine
	if engine == nil {
		engine = pricing.New(nil)
	}

	maxGallons := cfg.MaxGallons
	if maxGallons <= 0 {
		maxGallons = pricing.DefaultMaxGallons
	}

	metrics := cfg.Metrics
	if metrics == nil {
		metrics = ports.NoopMetrics{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QuoteService{
		accounts: cfg.Accounts,
		quotes:   cfg.Quotes,
		engine:     engine,
		maxGallons: maxGallons,
		metrics:    metrics,
		logger:     logger.With(slog.String("component", "app.QuoteService")),
	}
}

// CreateQuote prices the request for username and persists it.
// The loyalty discount applies when the user already owns at least one quote.
func (s *QuoteService) CreateQuote(ctx context.Context, username string, in domain.QuoteInput) (*domain.Quote, error) {
	logger := loggerFor(ctx, s.logger).With(slog.String("method", "CreateQuote"))

	priced, err := s.price(ctx, username, in)
	if err != nil {
		s.metrics.QuoteCreated(outcomeFor(err), in.GallonsRequested)
		return nil, err
	}

	stored, err := s.quotes.Insert(ctx, &domain.Quote{
		UserID:           priced.userID,
		GallonsRequested: in.GallonsRequested,
		DeliveryAddress:  in.DeliveryAddress,
		DeliveryDate:     in.DeliveryDate,
		PricePerGallon:   priced.result.PricePerGallon,
		TotalAmountDue:   priced.result.TotalAmountDue,
	})
	if err != nil {
		s.metrics.QuoteCreated(outcomeError, in.GallonsRequested)
		return nil, fmt.Errorf("inserting quote: %w", err)
	}

	s.metrics.QuoteCreated(outcomeSuccess, in.GallonsRequested)
	logger.InfoContext(ctx, "quote created",
		slog.Int64("quote_id", stored.ID),
		slog.Int64("user_id", stored.UserID),
		slog.Bool("has_history", priced.hasHistory),
		slog.Float64("price_per_gallon", stored.PricePerGallon),
	)

	return stored, nil
}

// PreviewQuote prices the request exactly as CreateQuote would without
// persisting anything or assigning a quote id.
func (s *QuoteService) PreviewQuote(ctx context.Context, username string, in domain.QuoteInput) (*pricing.Result, error) {
	priced, err := s.price(ctx, username, in)
	if err != nil {
		s.metrics.QuotePreviewed(outcomeFor(err))
		return nil, err
	}

	s.metrics.QuotePreviewed(outcomeSuccess)

	result := priced.result

	return &result, nil
}

// GetQuoteHistory returns every quote owned by username, most recent first.
// A user with no quotes gets an empty slice.
func (s *QuoteService) GetQuoteHistory(ctx context.Context, username string) ([]domain.Quote, error) {
	account, err := s.lookup(ctx, username)
	if err != nil {
		return nil, err
	}

	quotes, err := s.quotes.ListForUser(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("listing quotes: %w", err)
	}

	loggerFor(ctx, s.logger).DebugContext(ctx, "quote history read",
		slog.String("method", "GetQuoteHistory"),
		slog.Int("count", len(quotes)),
	)

	return quotes, nil
}

type pricedQuote struct {
	userID     int64
	hasHistory bool
	result     pricing.Result
}

// price validates in, resolves the user and their history, and runs the engine.
// A blank state falls back to the state on the user's profile.
func (s *QuoteService) price(ctx context.Context, username string, in domain.QuoteInput) (*pricedQuote, error) {
	if err := validateQuoteInput(in, s.maxGallons); err != nil {
		return nil, err
	}

	account, err := s.lookup(ctx, username)
	if err != nil {
		return nil, err
	}

	state := strings.TrimSpace(in.State)
	if state == "" {
		state = strings.TrimSpace(account.Profile.State)
	}

	if state == "" {
		return nil, domain.NewMissingFieldsError("state")
	}

	count, err := s.quotes.CountForUser(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("counting quotes: %w", err)
	}

	hasHistory := count > 0

	result := s.engine.Price(pricing.Request{
		Gallons:      in.GallonsRequested,
		State:        state,
		DeliveryDate: in.DeliveryDate,
		HasHistory:   hasHistory,
	})
	if !result.Valid() {
		return nil, domain.NewValidationErrorWithValue("gallonsRequested",
			"quote total exceeds the maximum amount due", in.GallonsRequested)
	}

	return &pricedQuote{
		userID:     account.ID,
		hasHistory: hasHistory,
		result:     result,
	}, nil
}

func (s *QuoteService) lookup(ctx context.Context, username string) (*domain.Account, error) {
	account, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewUserNotFoundError()
		}

		return nil, fmt.Errorf("looking up account: %w", err)
	}

	return account, nil
}

func validateQuoteInput(in domain.QuoteInput, maxGallons float64) error {
	var missing []string
	if strings.TrimSpace(in.DeliveryAddress) == "" {
		missing = append(missing, "deliveryAddress")
	}

	if strings.TrimSpace(in.DeliveryDate) == "" {
		missing = append(missing, "deliveryDate")
	}

	if len(missing) > 0 {
		return domain.NewMissingFieldsError(missing...)
	}

	g := in.GallonsRequested
	if math.IsNaN(g) || math.IsInf(g, 0) || g <= 0 {
		return domain.NewValidationErrorWithValue("gallonsRequested", "must be greater than 0", g)
	}

	if g > maxGallons {
		return domain.NewValidationError("gallonsRequested",
			"must be at most "+strconv.FormatFloat(maxGallons, 'f', -1, 64))
	}

	return nil
}

// outcomeFor classifies err for metrics: expected domain failures are rejections.
func outcomeFor(err error) string {
	if domain.IsValidation(err) || domain.IsNotFound(err) {
		return outcomeRejected
	}

	return outcomeError
}
