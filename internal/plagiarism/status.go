package plagiarism

import (
	"context"
	"fmt"
	"time"

	"github.com/RishiKendai/overlap/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const statusTTL = 12 * time.Hour

// StatusStore is the subset of the Redis client used for progress tracking
type StatusStore interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// StatusKey is the Redis key holding the progress of a corpus run
func StatusKey(corpusID string) string {
	return "plagiarism_report_status:" + corpusID
}

func UpdateStatus(ctx context.Context, store StatusStore, corpusID string, step models.Step) error {
	validSteps := map[models.Step]bool{
		models.StepIdle:         true,
		models.StepInitiated:    true,
		models.StepLoading:      true,
		models.StepMatching:     true,
		models.StepHighlighting: true,
		models.StepCompleted:    true,
		models.StepFailed:       true,
	}
	if !validSteps[step] {
		return fmt.Errorf("unknown step: %s", step)
	}
	if store == nil {
		return nil
	}

	rkey := StatusKey(corpusID)

	err := store.Set(ctx, rkey, string(step), statusTTL).Err()
	if err != nil {
		log.Error().Err(err).
			Str("step", string(step)).
			Str("corpusId", corpusID).
			Str("redisKey", rkey).
			Msg("Failed to update status in Redis")
		return fmt.Errorf("failed to update status in Redis: %w", err)
	}

	log.Trace().
		Str("step", string(step)).
		Str("corpusId", corpusID).
		Msg("Status updated in Redis")

	return nil
}
