package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/doodledash/doodledash-server/internal/game"
	"github.com/doodledash/doodledash-server/internal/server"
)

func main() {
	// .env is optional, plain env vars win
	_ = godotenv.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()

	cfg := server.LoadConfig()

	g := game.New(game.Config{
		TurnDuration:  cfg.TurnDuration,
		RoundEndDelay: cfg.RoundEndDelay,
		Logger:        logger.With().Str("component", "game").Logger(),
	})

	srv := server.New(cfg, g, logger.With().Str("component", "server").Logger())

	logger.Info().Str("port", cfg.Port).Msg("starting doodledash server")
	if err := srv.Run(); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}
