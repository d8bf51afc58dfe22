// Package pricing computes per-gallon prices and totals for fuel quotes.
//
// The engine is pure: no I/O, no clock, no shared state. Given the same
// request it always returns the same result.
//
// Rates compose in a fixed order:
//
//	margin    = location(state) + volume(gallons) + profit
//	margin   -= history            (only when the account has prior quotes)
//	perGallon = round2(base * (1 + margin))
//	total     = round2(perGallon * gallons)
//
// Rounding happens once for the unit price, and the total is derived from the
// rounded unit price so the displayed figures always agree.
package pricing

import (
	"math"
	"strings"
)

const (
	// MaxTotalAmountDue is the largest total a quote may carry.
	MaxTotalAmountDue = 999_999_999_999.99

	// DefaultMaxGallons bounds a single request unless configured otherwise.
	DefaultMaxGallons = 10_000_000
)

// Request carries the attributes that drive a price.
// Gallons must be greater than zero; callers reject anything else.
type Request struct {
	Gallons float64
	State   string

	// DeliveryDate is part of the pricing contract but no current rate depends on it.
	DeliveryDate string

	HasHistory bool
}

// Result is a priced request.
type Result struct {
	PricePerGallon float64
	TotalAmountDue float64
}

// Valid reports whether both figures are finite, non-negative and the total
// does not exceed MaxTotalAmountDue.
func (r Result) Valid() bool {
	for _, v := range []float64{r.PricePerGallon, r.TotalAmountDue} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return false
		}
	}

	return r.TotalAmountDue <= MaxTotalAmountDue
}

// RateTable supplies the factors the engine combines.
// Factors are fractions of the base price (0.02 means 2%).
type RateTable interface {
	BasePrice() float64
	LocationFactor(state string) float64
	VolumeFactor(gallons float64) float64
	HistoryFactor() float64
	ProfitFactor() float64
}

// Engine prices requests against a rate table.
type Engine struct {
	rates RateTable
}

// New returns an engine backed by rates. A nil table uses DefaultRateTable.
func New(rates RateTable) *Engine {
	if rates == nil {
		rates = DefaultRateTable()
	}

	return &Engine{rates: rates}
}

// Price computes the per-gallon price and total for req.
func (e *Engine) Price(req Request) Result {
	margin := e.rates.LocationFactor(req.State) +
		e.rates.VolumeFactor(req.Gallons) +
		e.rates.ProfitFactor()

	if req.HasHistory {
		margin -= e.rates.HistoryFactor()
	}

	perGallon := Round2(e.rates.BasePrice() * (1 + margin))

	return Result{
		PricePerGallon: perGallon,
		TotalAmountDue: Total(perGallon, req.Gallons),
	}
}

// Total is the amount due for gallons at an already rounded unit price.
func Total(pricePerGallon, gallons float64) float64 {
	return Round2(pricePerGallon * gallons)
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// StaticRateTable is a RateTable with fixed coefficients.
type StaticRateTable struct {
	Base float64

	// HomeState gets InStateFactor; every other state gets OutOfStateFactor.
	HomeState        string
	InStateFactor    float64
	OutOfStateFactor float64

	// Orders strictly above VolumeThreshold gallons get LargeVolumeFactor.
	VolumeThreshold   float64
	SmallVolumeFactor float64
	LargeVolumeFactor float64

	History float64
	Profit  float64
}

// DefaultRateTable is calibrated so that 100 gallons to TX for a returning
// customer costs 1.74 per gallon (174.00 total).
func DefaultRateTable() *StaticRateTable {
	return &StaticRateTable{
		Base:              1.50,
		HomeState:         "TX",
		InStateFactor:     0.02,
		OutOfStateFactor:  0.04,
		VolumeThreshold:   1000,
		SmallVolumeFactor: 0.03,
		LargeVolumeFactor: 0.02,
		History:           0.01,
		Profit:            0.12,
	}
}

// BasePrice implements RateTable.
func (t *StaticRateTable) BasePrice() float64 { return t.Base }

// LocationFactor implements RateTable. State codes compare case-insensitively.
func (t *StaticRateTable) LocationFactor(state string) float64 {
	if strings.EqualFold(strings.TrimSpace(state), t.HomeState) {
		return t.InStateFactor
	}

	return t.OutOfStateFactor
}

// VolumeFactor implements RateTable.
func (t *StaticRateTable) VolumeFactor(gallons float64) float64 {
	if gallons > t.VolumeThreshold {
		return t.LargeVolumeFactor
	}

	return t.SmallVolumeFactor
}

// HistoryFactor implements RateTable.
func (t *StaticRateTable) HistoryFactor() float64 { return t.History }

// ProfitFactor implements RateTable.
func (t *StaticRateTable) ProfitFactor() float64 { return t.Profit }
