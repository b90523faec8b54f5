package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// deadJob is the DLQ envelope: the failed job plus enough context to replay
// it by hand.
type deadJob struct {
	Job      Job       `json:"job"`
	Queue    string    `json:"queue"`
	Error    string    `json:"error"`
	FailedAt time.Time `json:"failed_at"`
}

// pushToDLQ parks a job that exhausted its retries under dlq:<queue>.
func pushToDLQ(ctx context.Context, rdb *redis.Client, queue string, job Job, cause error) {
	dead := deadJob{
		Job:      job,
		Queue:    queue,
		Error:    cause.Error(),
		FailedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(dead)
	if err != nil {
		return
	}
	if err := rdb.LPush(ctx, "dlq:"+queue, data).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dead letter push failed")
		return
	}
	log.Error().Err(cause).Str("queue", queue).Int("attempts", job.Attempts).Msg("job moved to dead letter queue")
}
