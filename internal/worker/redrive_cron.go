package worker

// redrive_cron.go
// Background goroutine that periodically moves dead-lettered receipt jobs back
// onto their queue. Uses the mailer Circuit Breaker to avoid redriving while
// the SMTP relay is still down. Jobs redriven MaxRedrives times are parked.

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"tpv/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	redriveTickInterval = 60 * time.Second
	redriveBatchSize    = 10

	MaxRedrives = 5

	// ParkedSuffix marks the list of jobs that exhausted their redrives.
	ParkedSuffix = ":parked"
)

// RedriveCronConfig holds all dependencies for the redrive goroutine.
type RedriveCronConfig struct {
	RDB *redis.Client
	CB  *infra.CircuitBreaker
}

// StartRedriveCron launches a goroutine that ticks every minute and redrives
// up to redriveBatchSize dead-lettered ticket jobs.
func StartRedriveCron(ctx context.Context, cfg RedriveCronConfig) {
	go func() {
		ticker := time.NewTicker(redriveTickInterval)
		defer ticker.Stop()

		log.Info().Msg("redrive_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("redrive_cron: shutting down")
				return
			case <-ticker.C:
				if _, err := RedriveDLQ(ctx, cfg, QueueTicket, redriveBatchSize); err != nil {
					log.Error().Err(err).Msg("redrive_cron: tick failed")
				}
			}
		}
	}()
}

// RedriveDLQ pops at most batch entries from dlq:{queue} and re-enqueues
// them. Returns the number of jobs put back on the queue.
func RedriveDLQ(ctx context.Context, cfg RedriveCronConfig, queue string, batch int) (int, error) {
	if cfg.CB != nil && cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("redrive_cron: circuit breaker is open, skipping tick")
		return 0, nil
	}

	d := NewDispatcher(cfg.RDB)
	redriven := 0
	for i := 0; i < batch; i++ {
		raw, err := cfg.RDB.RPop(ctx, DLQPrefix+queue).Result()
		if errors.Is(err, redis.Nil) {
			break
		}
		if err != nil {
			return redriven, err
		}

		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Error().Err(err).Msg("redrive_cron: discarding undecodable DLQ entry")
			continue
		}

		if entry.Job.Redrives >= MaxRedrives {
			if err := cfg.RDB.LPush(ctx, DLQPrefix+queue+ParkedSuffix, raw).Err(); err != nil {
				return redriven, err
			}
			log.Error().
				Str("job_id", entry.Job.ID).
				Int("redrives", entry.Job.Redrives).
				Msg("redrive_cron: max redrives exceeded, job parked")
			continue
		}

		target := entry.OriginalQueue
		if target == "" {
			target = queue
		}
		if err := d.enqueue(ctx, target, entry.Job.Type, entry.Job.Payload, entry.Job.Redrives+1); err != nil {
			return redriven, err
		}
		redriven++
	}

	if redriven > 0 {
		log.Info().Int("count", redriven).Str("queue", queue).Msg("redrive_cron: jobs redriven")
	}
	return redriven, nil
}
