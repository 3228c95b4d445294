package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBusinessMetrics(t *testing.T) {
	provider, err := NewProvider("keyguard")
	require.NoError(t, err)
	defer func() { _ = provider.Shutdown(context.Background()) }()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "keyguard")
	require.NoError(t, err)

	// Recording must not panic or error
	bm.RecordOperation(context.Background(), "keys", "unlock", "success")
	bm.RecordDuration(context.Background(), "keys", "unlock", 25*time.Millisecond, "success")
}

func TestNoOpBusinessMetrics(t *testing.T) {
	bm := NewNoOpBusinessMetrics()
	assert.NotNil(t, bm)

	bm.RecordOperation(context.Background(), "recovery", "reveal", "error")
	bm.RecordDuration(context.Background(), "recovery", "reveal", time.Second, "error")
}
