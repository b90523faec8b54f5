package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lazvegas61/MyCafe-sql/internal/config"
	"github.com/Lazvegas61/MyCafe-sql/internal/infra"
	"github.com/Lazvegas61/MyCafe-sql/internal/repository"
	"github.com/Lazvegas61/MyCafe-sql/internal/router"
	"github.com/Lazvegas61/MyCafe-sql/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Worker handlers are wired here (composition root) so the pool has full
	// access to repositories and infrastructure.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pdfGen, err := infra.NewPDFGenerator(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init pdf storage")
	}
	mailer := infra.NewMailer(cfg)
	smtpBreaker := infra.NewCircuitBreaker(5, 2*time.Minute)

	dayRepo := repository.NewDayRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	tableRepo := repository.NewTableRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)

	handlers := map[string]worker.Handler{
		worker.QueueReceipt:   worker.NewReceiptWorker(ledgerRepo, invoiceRepo, tableRepo, pdfGen),
		worker.QueueDayReport: worker.NewReportWorker(dayRepo, pdfGen, mailer, smtpBreaker, cfg.ReportEmail),
	}
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, handlers)

	dispatcher := worker.NewDispatcher(rdb)
	r := router.New(cfg, db, rdb, dispatcher)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("MyCafe backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
