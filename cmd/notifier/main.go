package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"rent_my_house/internal/adapters/mailapi"
	"rent_my_house/internal/adapters/mailer"
	"rent_my_house/internal/adapters/observability"
	"rent_my_house/internal/shared"
)

// The notifier drains the outbound mail queue and delivers each message over
// the mail provider's HTTP API. It runs until interrupted.
func main() {
	_ = godotenv.Load()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	client, err := mailapi.New(cfg.MailBase, cfg.MailKey, 5)
	if err != nil {
		log.Fatal().Err(err).Msg("mail client init failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Int("workers", cfg.Workers).Msg("notifier consuming")
	if err := mailer.Consume(ctx, cfg.AMQPURL, client, cfg.Workers); err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("consumer failed")
	}
	log.Info().Msg("notifier stopped")
}
