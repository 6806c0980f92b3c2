package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tpv/internal/config"
	"tpv/internal/infra"
	"tpv/internal/repository"
	"tpv/internal/router"
	"tpv/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg)

	db, err := infra.NewDatabase(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("failed to connect to database")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb, err := infra.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	eventos, err := infra.NewEventPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to rabbitmq")
	}
	defer eventos.Close()

	// Receipt pipeline: only when both the queue and the SMTP relay exist.
	mailer := infra.NewMailer(cfg)
	var mailerCB *infra.CircuitBreaker
	if rdb != nil && mailer.Configurado() {
		mailerCB = infra.NewCircuitBreaker(infra.DefaultCBConfig("smtp"))
		ventaRepo := repository.NewVentaRepository(db)

		workerHandlers := &worker.WorkerHandlers{
			Ticket: worker.NewTicketWorker(ventaRepo, mailer, mailerCB, cfg.NombreNegocio, cfg.PDFStoragePath),
		}
		worker.StartWorkerPool(ctx, rdb, workerHandlers, cfg.WorkerPoolSize)
		worker.StartRedriveCron(ctx, worker.RedriveCronConfig{RDB: rdb, CB: mailerCB})
	} else {
		log.Warn().Msg("receipt emails disabled (REDIS_URL or SMTP_HOST not set)")
	}

	r := router.New(cfg, db, router.Deps{Redis: rdb, Eventos: eventos, MailerCB: mailerCB})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("TPV backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	log.Info().Msg("server exited")
}

// Structured logger. dev: pretty, prod: JSON
func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
