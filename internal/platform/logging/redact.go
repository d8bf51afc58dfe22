package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// Common regex patterns for sensitive data.
var (
	// JWT pattern: three base64 segments separated by dots
	jwtPattern = regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`)

	// Bearer token pattern
	bearerPattern = regexp.MustCompile(`(?i)^bearer\s+.+$`)

	// Basic auth pattern
	basicAuthPattern = regexp.MustCompile(`(?i)^basic\s+.+$`)

	// Postgres URL with inline credentials
	postgresURLPattern = regexp.MustCompile(`^postgres(ql)?://[^:/@]+:[^@]+@`)
)

// DefaultRedactOptions returns the masq options used on every handler.
// Credentials, password hashes, session tokens and connection strings never
// reach a log sink.
func DefaultRedactOptions() []masq.Option {
	return []masq.Option{
		// Credentials and password hashes
		masq.WithFieldName("password"),
		masq.WithFieldName("Password"),
		masq.WithFieldName("passwordHash"),
		masq.WithFieldName("password_hash"),
		masq.WithFieldName("PasswordHash"),
		masq.WithFieldName("credential"),
		masq.WithFieldName("credentials"),

		// Session tokens and signing material
		masq.WithFieldName("token"),
		masq.WithFieldName("Token"),
		masq.WithFieldName("accessToken"),
		masq.WithFieldName("access_token"),
		masq.WithFieldName("refreshToken"),
		masq.WithFieldName("refresh_token"),
		masq.WithFieldName("jwt_secret"),
		masq.WithFieldName("JWTSecret"),
		masq.WithFieldName("secret"),
		masq.WithFieldName("apiKey"),
		masq.WithFieldName("api_key"),
		masq.WithFieldName("privateKey"),
		masq.WithFieldName("secretKey"),

		// Transport headers
		masq.WithFieldName("authorization"),
		masq.WithFieldName("Authorization"),
		masq.WithFieldName("cookie"),

		// Database connection strings carry passwords
		masq.WithFieldName("dsn"),
		masq.WithFieldName("DSN"),

		masq.WithFieldPrefix("secret"),
		masq.WithFieldPrefix("private"),

		masq.WithRegex(jwtPattern),
		masq.WithRegex(bearerPattern),
		masq.WithRegex(basicAuthPattern),
		masq.WithRegex(postgresURLPattern),
	}
}

// NewReplaceAttr creates a ReplaceAttr function for slog.HandlerOptions
// that redacts sensitive data. Uses DefaultRedactOptions which can be
// extended for project-specific needs.
//
// Usage:
//
//	opts := &slog.HandlerOptions{
//	    ReplaceAttr: logging.NewReplaceAttr(),
//	}
//	handler := slog.NewJSONHandler(os.Stdout, opts)
func NewReplaceAttr(opts ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	allOpts := append(DefaultRedactOptions(), opts...)
	return masq.New(allOpts...)
}
