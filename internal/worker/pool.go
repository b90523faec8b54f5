package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Job queues. Each queue carries one job type; workers BRPop across all of
// them so a single pool drains everything.
const (
	QueueReceipt   = "jobs:receipt"
	QueueDayReport = "jobs:dayreport"
)

const maxAttempts = 3

// Job is the envelope pushed onto a Redis list.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Handler processes one job payload. A returned error triggers a retry; jobs
// past maxAttempts land in the dead letter queue.
type Handler interface {
	Handle(ctx context.Context, payload json.RawMessage) error
}

// Dispatcher enqueues background jobs. Services hold it as a nil-able pointer
// so unit tests can run without Redis.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueReceipt schedules receipt PDF rendering for a settled invoice.
func (d *Dispatcher) EnqueueReceipt(ctx context.Context, payload map[string]interface{}) error {
	return d.enqueue(ctx, QueueReceipt, payload)
}

// EnqueueDayReport schedules the closing report for a just-closed day.
func (d *Dispatcher) EnqueueDayReport(ctx context.Context, payload map[string]interface{}) error {
	return d.enqueue(ctx, QueueDayReport, payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue string, payload map[string]interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: queue, Payload: raw}
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	if err := d.rdb.LPush(ctx, queue, data).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("enqueue failed")
		return err
	}
	return nil
}

// StartWorkerPool launches size goroutines that drain the job queues until
// ctx is cancelled.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, size int, handlers map[string]Handler) {
	queues := make([]string, 0, len(handlers))
	for q := range handlers {
		queues = append(queues, q)
	}

	for i := 0; i < size; i++ {
		go workerLoop(ctx, rdb, i, queues, handlers)
	}
	log.Info().Int("workers", size).Msg("worker pool started")
}

func workerLoop(ctx context.Context, rdb *redis.Client, id int, queues []string, handlers map[string]Handler) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		// BRPop blocks across all queues; timeout lets us observe ctx.
		res, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
		if err != nil {
			if err == redis.Nil || ctx.Err() != nil {
				continue
			}
			log.Error().Err(err).Int("worker", id).Msg("queue pop failed")
			time.Sleep(time.Second)
			continue
		}
		// res[0] = queue name, res[1] = raw job
		queue, raw := res[0], res[1]

		var job Job
		if err := json.Unmarshal([]byte(raw), &job); err != nil {
			log.Error().Err(err).Str("queue", queue).Msg("malformed job discarded")
			continue
		}

		handler := handlers[queue]
		if err := handler.Handle(ctx, job.Payload); err != nil {
			retryOrBury(ctx, rdb, queue, job, err)
			continue
		}
	}
}

func retryOrBury(ctx context.Context, rdb *redis.Client, queue string, job Job, cause error) {
	job.Attempts++
	if job.Attempts >= maxAttempts {
		pushToDLQ(ctx, rdb, queue, job, cause)
		return
	}
	data, err := json.Marshal(job)
	if err != nil {
		return
	}
	log.Warn().Err(cause).Str("queue", queue).Int("attempt", job.Attempts).Msg("job retry")
	if err := rdb.LPush(ctx, queue, data).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("requeue failed")
	}
}
