package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/AaronAPerez/AMP-Vending-Machines-Website-sub001/internal/api"
	"github.com/AaronAPerez/AMP-Vending-Machines-Website-sub001/internal/common"
	"github.com/AaronAPerez/AMP-Vending-Machines-Website-sub001/internal/email"
	"github.com/AaronAPerez/AMP-Vending-Machines-Website-sub001/internal/monitor"
	"github.com/AaronAPerez/AMP-Vending-Machines-Website-sub001/internal/notify"
	"github.com/AaronAPerez/AMP-Vending-Machines-Website-sub001/internal/submission"
	"github.com/AaronAPerez/AMP-Vending-Machines-Website-sub001/internal/template"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	_ = godotenv.Load()

	cfg, err := common.LoadConfig("contact-service")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := common.NewLogger(cfg.ServiceName, cfg.Environment)
	shutdown, err := common.SetupOTel(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialise telemetry")
	}
	defer common.ShutdownTelemetry(context.Background(), shutdown)

	metricsSrv := common.StartMetricsServer(cfg.MetricsPort)
	defer metricsSrv.Shutdown(context.Background())

	if cfg.DatabaseURL == "" {
		logger.Fatal().Msg("DATABASE_URL must be provided")
	}
	pool, err := connectPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	store := submission.NewPostgresStore(pool)
	templates := template.NewPostgresStore(pool)
	renderer := template.NewRenderer(templates, logger)

	provider := &email.ResendProvider{
		Endpoint: cfg.EmailEndpoint,
		APIKey:   cfg.EmailAPIKey,
	}
	sender := email.NewAdapter(provider, cfg, logger)

	orch := notify.NewOrchestrator(store, renderer, sender, cfg, logger)
	mon := monitor.New(store, provider, sender, cfg, logger)

	h := api.NewHandler(orch, mon, store, provider, cfg, logger)

	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.HTTPPort),
		Handler: h.Router(),
	}

	go func() {
		logger.Info().Int("port", cfg.HTTPPort).Str("environment", cfg.Environment).Msg("contact service listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// connectPostgres retries the startup connection with exponential backoff.
// This is boot-time only: pipeline operations themselves are attempt-once.
func connectPostgres(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	op := backoff.NewExponentialBackOff()
	op.MaxElapsedTime = 30 * time.Second

	err := backoff.Retry(func() error {
		p, err := pgxpool.New(ctx, databaseURL)
		if err != nil {
			return backoff.Permanent(err)
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return err
		}
		pool = p
		return nil
	}, backoff.WithContext(op, ctx))
	if err != nil {
		return nil, err
	}
	return pool, nil
}
