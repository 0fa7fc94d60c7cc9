package stream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RishiKendai/overlap/internal/ingest"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DeadLetterWriter appends failed messages to the dead-letter stream
type DeadLetterWriter interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

type RetryHandler struct {
	client        DeadLetterWriter
	deadLetterKey string
	maxRetries    int
	baseDelay     time.Duration
	maxDelay      time.Duration
}

func NewRetryHandler(client DeadLetterWriter, deadLetterKey string) *RetryHandler {
	return &RetryHandler{
		client:        client,
		deadLetterKey: deadLetterKey,
		maxRetries:    3,
		baseDelay:     500 * time.Millisecond,
		maxDelay:      10 * time.Second,
	}
}

// RetryWithBackoff runs fn until it succeeds or the retries are used up,
// doubling the delay between attempts. Invalid submissions are not retried.
// A message that finally fails is copied to the dead-letter stream.
func (h *RetryHandler) RetryWithBackoff(ctx context.Context, fn func() error, messageID string, fields map[string]interface{}) error {
	var err error
	delay := h.baseDelay

	for attempt := 0; attempt <= h.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay = min(delay*2, h.maxDelay)
		}

		if err = fn(); err == nil {
			return nil
		}
		if errors.Is(err, ingest.ErrInvalidSubmission) {
			break
		}

		log.Warn().
			Err(err).
			Str("message_id", messageID).
			Int("attempt", attempt+1).
			Int("max_attempts", h.maxRetries+1).
			Msg("Processing failed, retrying")
	}

	if dlqErr := h.sendToDeadLetter(ctx, messageID, fields, err); dlqErr != nil {
		log.Error().Err(dlqErr).Str("message_id", messageID).Msg("Failed to send message to dead letter queue")
	}
	return err
}

func (h *RetryHandler) sendToDeadLetter(ctx context.Context, messageID string, fields map[string]interface{}, cause error) error {
	values := make(map[string]interface{}, len(fields)+3)
	for k, v := range fields {
		values[k] = v
	}
	values["original_message_id"] = messageID
	values["error"] = cause.Error()
	values["failed_at"] = time.Now().UTC().Format(time.RFC3339)

	if err := h.client.XAdd(ctx, &redis.XAddArgs{Stream: h.deadLetterKey, Values: values}).Err(); err != nil {
		return fmt.Errorf("failed to add to dead letter stream: %w", err)
	}

	log.Warn().
		Str("message_id", messageID).
		Str("dead_letter_key", h.deadLetterKey).
		Err(cause).
		Msg("Message moved to dead letter queue")
	return nil
}
