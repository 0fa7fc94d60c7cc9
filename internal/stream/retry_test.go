package stream

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/RishiKendai/overlap/internal/ingest"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDeadLetter struct {
	added []*redis.XAddArgs
}

func (f *fakeDeadLetter) XAdd(_ context.Context, a *redis.XAddArgs) *redis.StringCmd {
	f.added = append(f.added, a)
	return redis.NewStringResult("1-0", nil)
}

func newTestRetryHandler(dlq DeadLetterWriter) *RetryHandler {
	h := NewRetryHandler(dlq, "overlap:dlq")
	h.baseDelay = time.Millisecond
	h.maxDelay = 2 * time.Millisecond
	return h
}

func TestRetryWithBackoff_SucceedsAfterFailures(t *testing.T) {
	dlq := &fakeDeadLetter{}
	calls := 0

	err := newTestRetryHandler(dlq).RetryWithBackoff(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, "1-0", nil)

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Empty(t, dlq.added)
}

func TestRetryWithBackoff_ExhaustedGoesToDeadLetter(t *testing.T) {
	dlq := &fakeDeadLetter{}
	calls := 0

	err := newTestRetryHandler(dlq).RetryWithBackoff(context.Background(), func() error {
		calls++
		return errors.New("mongo down")
	}, "7-0", map[string]interface{}{"ownerId": "a"})

	assert.ErrorContains(t, err, "mongo down")
	assert.Equal(t, 4, calls)
	require.Len(t, dlq.added, 1)
	assert.Equal(t, "overlap:dlq", dlq.added[0].Stream)
	values := dlq.added[0].Values.(map[string]interface{})
	assert.Equal(t, "a", values["ownerId"])
	assert.Equal(t, "7-0", values["original_message_id"])
	assert.Equal(t, "mongo down", values["error"])
}

func TestRetryWithBackoff_InvalidSubmissionNotRetried(t *testing.T) {
	dlq := &fakeDeadLetter{}
	calls := 0

	err := newTestRetryHandler(dlq).RetryWithBackoff(context.Background(), func() error {
		calls++
		return fmt.Errorf("%w: ownerId is required", ingest.ErrInvalidSubmission)
	}, "2-0", nil)

	assert.ErrorIs(t, err, ingest.ErrInvalidSubmission)
	assert.Equal(t, 1, calls)
	assert.Len(t, dlq.added, 1)
}

func TestRetryWithBackoff_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := newTestRetryHandler(&fakeDeadLetter{})
	h.baseDelay = time.Hour

	err := h.RetryWithBackoff(ctx, func() error {
		cancel()
		return errors.New("fail")
	}, "3-0", nil)

	assert.ErrorIs(t, err, context.Canceled)
}
