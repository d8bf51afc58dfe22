package ports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubChecker implements HealthChecker for testing.
type stubChecker struct {
	name string
	err  error
}

func (s *stubChecker) Name() string { return s.name }

func (s *stubChecker) Check(context.Context) error { return s.err }

// blockingChecker waits until its context is done.
type blockingChecker struct {
	name string
}

func (b *blockingChecker) Name() string { return b.name }

func (b *blockingChecker) Check(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestNewHealthRegistry_DefaultTimeout(t *testing.T) {
	registry := NewHealthRegistry(0)

	require.NotNil(t, registry)
	assert.Empty(t, registry.checkers)
	assert.Equal(t, DefaultCheckTimeout, registry.checkTimeout)
}

func TestRegister_DuplicateName(t *testing.T) {
	registry := NewHealthRegistry(time.Second)

	require.NoError(t, registry.Register(&stubChecker{name: "postgres"}))

	err := registry.Register(&stubChecker{name: "postgres"})

	require.ErrorIs(t, err, ErrDuplicateChecker)
	assert.Contains(t, err.Error(), "postgres")
	assert.Len(t, registry.checkers, 1)
}

func TestCheckAll_NoCheckers(t *testing.T) {
	result := NewHealthRegistry(time.Second).CheckAll(context.Background())

	require.NotNil(t, result)
	assert.Equal(t, HealthStatusHealthy, result.Status)
	assert.Empty(t, result.Checks)
	assert.False(t, result.Timestamp.IsZero())
}

func TestCheckAll_Mixed(t *testing.T) {
	tests := []struct {
		name     string
		checkers []HealthChecker
		expected HealthStatus
	}{
		{
			name: "all healthy",
			checkers: []HealthChecker{
				&stubChecker{name: "postgres"},
				&stubChecker{name: "token-issuer"},
			},
			expected: HealthStatusHealthy,
		},
		{
			name: "one unhealthy",
			checkers: []HealthChecker{
				&stubChecker{name: "postgres", err: errors.New("connection refused")},
				&stubChecker{name: "token-issuer"},
			},
			expected: HealthStatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewHealthRegistry(time.Second)
			for _, c := range tt.checkers {
				require.NoError(t, registry.Register(c))
			}

			result := registry.CheckAll(context.Background())

			assert.Equal(t, tt.expected, result.Status)
			assert.Len(t, result.Checks, len(tt.checkers))
		})
	}
}

func TestCheckAll_MessageCarriesError(t *testing.T) {
	registry := NewHealthRegistry(time.Second)
	require.NoError(t, registry.Register(&stubChecker{name: "postgres", err: errors.New("connection refused")}))

	result := registry.CheckAll(context.Background())

	assert.Equal(t, HealthStatusUnhealthy, result.Checks["postgres"].Status)
	assert.Equal(t, "connection refused", result.Checks["postgres"].Message)
}

func TestCheckAll_TimeoutBoundsSlowCheck(t *testing.T) {
	registry := NewHealthRegistry(20 * time.Millisecond)
	require.NoError(t, registry.Register(&blockingChecker{name: "slow-db"}))

	start := time.Now()
	result := registry.CheckAll(context.Background())

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, HealthStatusUnhealthy, result.Status)
	assert.Contains(t, result.Checks["slow-db"].Message, "deadline exceeded")
}

func TestCheckAll_ContextCancelled(t *testing.T) {
	registry := NewHealthRegistry(time.Second)
	require.NoError(t, registry.Register(&blockingChecker{name: "slow-db"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := registry.CheckAll(ctx)

	assert.Equal(t, HealthStatusUnhealthy, result.Status)
	assert.Contains(t, result.Checks["slow-db"].Message, "context canceled")
}
