package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tpv/internal/metrics"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueTicket = "jobs:ticket"

	JobTicket = "ticket"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Redrives int             `json:"redrives,omitempty"`
}

// Handler processes one job payload. A returned error sends the job to the DLQ.
type Handler interface {
	Process(ctx context.Context, raw json.RawMessage) error
}

// WorkerHandlers maps job types to their processors.
type WorkerHandlers struct {
	Ticket Handler
}

func (h *WorkerHandlers) forType(t string) Handler {
	switch t {
	case JobTicket:
		return h.Ticket
	}
	return nil
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP. A nil Dispatcher, or one without
// a Redis client, accepts and drops every job.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueTicket pushes a receipt job for the sale.
func (d *Dispatcher) EnqueueTicket(ctx context.Context, ventaID uint) error {
	if d == nil || d.rdb == nil {
		return nil
	}
	return d.enqueue(ctx, QueueTicket, JobTicket, TicketJobPayload{VentaID: ventaID}, 0)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}, redrives int) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{ID: uuid.NewString(), Type: jobType, Payload: data, Redrives: redrives})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// StartWorkerPool launches numWorkers goroutines consuming the job queues.
// Each goroutine blocks on BRPOP: zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, handlers, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, id int) {
	queues := []string{QueueTicket}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop: waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, handlers, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, queue, raw string) {
	job, err := handleJob(ctx, handlers, raw)
	if err == nil {
		metrics.JobsProcesados.WithLabelValues(job.Type, "ok").Inc()
		return
	}
	metrics.JobsProcesados.WithLabelValues(job.Type, "error").Inc()
	log.Error().Err(err).Str("queue", queue).Str("job_id", job.ID).Str("type", job.Type).Msg("job failed")
	if job.Type == "" {
		// Undecodable envelope: nothing to redrive.
		return
	}
	SendToDLQ(ctx, rdb, queue, job, err.Error())
}

var errUnknownJob = errors.New("unknown job type")

// handleJob decodes the envelope and runs the matching handler.
func handleJob(ctx context.Context, handlers *WorkerHandlers, raw string) (Job, error) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return Job{}, fmt.Errorf("decode job: %w", err)
	}
	h := handlers.forType(job.Type)
	if h == nil {
		return job, fmt.Errorf("%w: %q", errUnknownJob, job.Type)
	}
	return job, h.Process(ctx, job.Payload)
}
