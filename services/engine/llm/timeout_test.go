package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// deadlineClient records whether each call's context carried a deadline.
type deadlineClient struct {
	sawDeadline bool
	remaining   time.Duration
}

func (d *deadlineClient) Complete(ctx context.Context, _ Role, _, _ string) (string, error) {
	if dl, ok := ctx.Deadline(); ok {
		d.sawDeadline = true
		d.remaining = time.Until(dl)
	}
	return `{"stop": "sufficient_information"}`, nil
}

// blockingClient never answers; it only honors cancellation.
type blockingClient struct{}

func (blockingClient) Complete(ctx context.Context, _ Role, _, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestWithTimeout_AttachesDeadline(t *testing.T) {
	inner := &deadlineClient{}
	c := WithTimeout(inner, 0)

	// A bare background context must still reach the backend with a deadline.
	_, err := RequestPlan(context.Background(), c, "sys", "user")
	require.NoError(t, err)
	assert.True(t, inner.sawDeadline, "completion must run under a deadline")
	assert.LessOrEqual(t, inner.remaining, defaultCompletionTimeout)
	assert.Greater(t, inner.remaining, time.Duration(0))
}

func TestWithTimeout_HungBackendReportsTimeout(t *testing.T) {
	c := WithTimeout(blockingClient{}, 20*time.Millisecond)

	_, err := RequestPlan(context.Background(), c, "sys", "user")
	require.Error(t, err)
	le, ok := AsLLMError(err)
	require.True(t, ok)
	assert.Equal(t, KindTimeout, le.Kind)
}

func TestWithTimeout_CallerDeadlineStillWins(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	c := WithTimeout(blockingClient{}, time.Hour)

	start := time.Now()
	_, err := RequestPlan(ctx, c, "sys", "user")
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second, "the tighter caller deadline applies")
}
