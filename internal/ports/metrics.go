package ports

// Metrics receives domain measurements from the application services.
// Outcome is one of "success", "rejected" or "error".
type Metrics interface {
	Registration(outcome string)
	Login(outcome string)
	QuoteCreated(outcome string, gallons float64)
	QuotePreviewed(outcome string)
}

// NoopMetrics discards every measurement.
type NoopMetrics struct{}

func (NoopMetrics) Registration(string) {}

func (NoopMetrics) Login(string) {}

func (NoopMetrics) QuoteCreated(string, float64) {}

func (NoopMetrics) QuotePreviewed(string) {}
