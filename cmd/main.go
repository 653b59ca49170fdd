package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/trackdrop/internal/services"
	"github.com/desertthunder/trackdrop/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var spotifyService services.Service
	if config.Credentials.Spotify.ClientID != "" && config.Credentials.Spotify.ClientSecret != "" {
		if svc, err := services.NewSpotifyService(config.Credentials.Spotify.Map()); err == nil {
			spotifyService = svc
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Spotify: spotifyService,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "trackdrop",
		Usage:    "Drop the currently playing track into a playlist by saying its name",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNoActiveTrack) || errors.Is(err, shared.ErrNoMatch) {
			logger.Warn(err.Error())
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}
