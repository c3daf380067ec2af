package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	queueadapter "github.com/flori92/FloService-sub000/internal/infrastructure/queue/adapter"
	"github.com/flori92/FloService-sub000/internal/pkg/messaging/application/task"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Str("service", "messaging-worker").Logger()

	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg(".env file not found or could not be loaded")
	}

	srv, err := queueadapter.NewAsynqServer(log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create worker server")
	}

	task.RegisterNotifyMessageTask(srv, task.LogNotifier{Log: log})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Msg("worker started")
	if err := srv.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("worker exited")
	}
}
