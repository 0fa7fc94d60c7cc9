package stream

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RishiKendai/overlap/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// SubmissionProcessor stores one parsed submission
type SubmissionProcessor interface {
	ProcessSubmission(ctx context.Context, submission *models.Submission) error
}

// StreamClient is the part of redis.Cmdable the consumer talks to
type StreamClient interface {
	XGroupCreateMkStream(ctx context.Context, stream, group, start string) *redis.StatusCmd
	XReadGroup(ctx context.Context, a *redis.XReadGroupArgs) *redis.XStreamSliceCmd
	XPendingExt(ctx context.Context, a *redis.XPendingExtArgs) *redis.XPendingExtCmd
	XClaim(ctx context.Context, a *redis.XClaimArgs) *redis.XMessageSliceCmd
	XAck(ctx context.Context, stream, group string, ids ...string) *redis.IntCmd
	XTrimMinID(ctx context.Context, key string, minID string) *redis.IntCmd
}

// ConsumerOptions names the submissions stream and tunes how it is drained
type ConsumerOptions struct {
	StreamKey string
	Group     string
	Name      string
	// Retention bounds how long entries stay in the stream before trimming
	Retention time.Duration
	// Submissions left pending longer than ClaimMinIdle are claimed every ClaimInterval
	ClaimInterval time.Duration
	ClaimMinIdle  time.Duration
	TrimInterval  time.Duration
	BatchSize     int64
	Block         time.Duration
}

func (o ConsumerOptions) withDefaults() ConsumerOptions {
	if o.ClaimInterval <= 0 {
		o.ClaimInterval = 30 * time.Second
	}
	if o.ClaimMinIdle <= 0 {
		o.ClaimMinIdle = time.Minute
	}
	if o.TrimInterval <= 0 {
		o.TrimInterval = time.Hour
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 10
	}
	if o.Block <= 0 {
		o.Block = time.Second
	}
	return o
}

// Consumer drains submissions from a Redis stream into a SubmissionProcessor.
// A submission is acknowledged once it is stored or dead-lettered.
type Consumer struct {
	client    StreamClient
	opts      ConsumerOptions
	processor SubmissionProcessor
	retry     *RetryHandler
	lastClaim time.Time
}

func NewConsumer(client StreamClient, opts ConsumerOptions, processor SubmissionProcessor, retry *RetryHandler) *Consumer {
	return &Consumer{
		client:    client,
		opts:      opts.withDefaults(),
		processor: processor,
		retry:     retry,
	}
}

// Start blocks until ctx is cancelled, ingesting submissions as they arrive
func (c *Consumer) Start(ctx context.Context) error {
	if err := c.ensureGroup(ctx); err != nil {
		log.Warn().Err(err).Str("group", c.opts.Group).Msg("Could not create consumer group")
	}

	// pick up submissions a crashed consumer left behind
	if err := c.claimStale(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to claim stale submissions on startup")
	}

	go c.trimLoop(ctx)

	for ctx.Err() == nil {
		if time.Since(c.lastClaim) >= c.opts.ClaimInterval {
			if err := c.claimStale(ctx); err != nil {
				log.Warn().Err(err).Msg("Failed to claim stale submissions")
			}
		}
		if err := c.readBatch(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Str("stream", c.opts.StreamKey).Msg("Error reading submissions")
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
		}
	}
	return ctx.Err()
}

func (c *Consumer) ensureGroup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.opts.StreamKey, c.opts.Group, "$").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}
	log.Debug().Str("group", c.opts.Group).Str("stream", c.opts.StreamKey).Msg("Consumer group ready")
	return nil
}

// claimStale takes over pending submissions that have sat idle past ClaimMinIdle
func (c *Consumer) claimStale(ctx context.Context) error {
	c.lastClaim = time.Now()

	pending, err := c.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: c.opts.StreamKey,
		Group:  c.opts.Group,
		Start:  "-",
		End:    "+",
		Count:  100,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to list pending submissions: %w", err)
	}

	var ids []string
	for _, p := range pending {
		if p.Idle >= c.opts.ClaimMinIdle {
			ids = append(ids, p.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	claimed, err := c.client.XClaim(ctx, &redis.XClaimArgs{
		Stream:   c.opts.StreamKey,
		Group:    c.opts.Group,
		Consumer: c.opts.Name,
		MinIdle:  c.opts.ClaimMinIdle,
		Messages: ids,
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to claim pending submissions: %w", err)
	}

	log.Info().Int("claimed", len(claimed)).Msg("Claimed stale submissions")
	c.handleAll(ctx, claimed)
	return nil
}

func (c *Consumer) readBatch(ctx context.Context) error {
	streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.opts.Group,
		Consumer: c.opts.Name,
		Streams:  []string{c.opts.StreamKey, ">"},
		Count:    c.opts.BatchSize,
		Block:    c.opts.Block,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read submissions: %w", err)
	}

	for _, s := range streams {
		if s.Stream == c.opts.StreamKey {
			c.handleAll(ctx, s.Messages)
		}
	}
	return nil
}

func (c *Consumer) handleAll(ctx context.Context, msgs []redis.XMessage) {
	for i := range msgs {
		if err := c.processMessage(ctx, &msgs[i]); err != nil {
			log.Error().Err(err).Str("message_id", msgs[i].ID).Msg("Submission not ingested")
		}
	}
}

// processMessage stores a single submission. The message is acknowledged
// once it is stored or has been moved to the dead letter queue.
func (c *Consumer) processMessage(ctx context.Context, msg *redis.XMessage) error {
	streamMsg, raw := decodeMessage(msg)

	submission, parseErr := ParseSubmission(streamMsg)
	err := c.retry.RetryWithBackoff(ctx, func() error {
		if parseErr != nil {
			return parseErr
		}
		return c.processor.ProcessSubmission(ctx, submission)
	}, msg.ID, raw)

	if ctx.Err() != nil {
		// leave it pending so another consumer can claim it
		return ctx.Err()
	}
	if ackErr := c.client.XAck(ctx, c.opts.StreamKey, c.opts.Group, msg.ID).Err(); ackErr != nil {
		return fmt.Errorf("failed to acknowledge %s: %w", msg.ID, ackErr)
	}
	if err == nil {
		log.Debug().
			Str("message_id", msg.ID).
			Str("corpusId", submission.CorpusID).
			Str("ownerId", submission.OwnerID).
			Msg("Submission ingested")
	}
	return err
}

// decodeMessage keeps the string-valued fields of msg. raw is what the
// dead-letter stream receives.
func decodeMessage(msg *redis.XMessage) (*StreamMessage, map[string]interface{}) {
	fields := make(map[string]string, len(msg.Values))
	raw := make(map[string]interface{}, len(msg.Values))
	for key, val := range msg.Values {
		if s, ok := val.(string); ok {
			fields[key] = s
			raw[key] = s
		}
	}
	return &StreamMessage{ID: msg.ID, Fields: fields}, raw
}

// trim drops stream entries older than the retention window
func (c *Consumer) trim(ctx context.Context, now time.Time) error {
	cutoff := now.Add(-c.opts.Retention)
	trimmed, err := c.client.XTrimMinID(ctx, c.opts.StreamKey, fmt.Sprintf("%d-0", cutoff.UnixMilli())).Result()
	if err != nil {
		return fmt.Errorf("failed to trim stream: %w", err)
	}
	if trimmed > 0 {
		log.Debug().Int64("trimmed", trimmed).Time("cutoff", cutoff).Msg("Trimmed old submissions")
	}
	return nil
}

func (c *Consumer) trimLoop(ctx context.Context) {
	ticker := time.NewTicker(c.opts.TrimInterval)
	defer ticker.Stop()

	for {
		if err := c.trim(ctx, time.Now()); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("Failed to trim submissions stream")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
