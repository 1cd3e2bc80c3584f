// Mural - Social Networking Backend
// Copyright 2026 Mural Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/muralsocial/mural

// Command server runs the Mural API: registration and login, profiles
// and follow edges, posts and likes, the personalized feed, community
// events, product listings, and media storage.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/muralsocial/mural/internal/api"
	"github.com/muralsocial/mural/internal/auth"
	"github.com/muralsocial/mural/internal/config"
	"github.com/muralsocial/mural/internal/database"
	"github.com/muralsocial/mural/internal/feed"
	"github.com/muralsocial/mural/internal/logging"
	"github.com/muralsocial/mural/internal/media"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		logger := logging.Logger()
		logger.Fatal().Err(err).Msg("Server exited")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()

	logger.Info().
		Str("addr", cfg.Server.Addr()).
		Str("environment", cfg.Server.Environment).
		Str("database", cfg.Database.Path).
		Msg("Starting mural server")

	db, err := database.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error().Err(err).Msg("Closing database")
		}
	}()

	localStore, err := media.NewLocalStore(cfg.Media.Path)
	if err != nil {
		return err
	}
	store := media.NewBreakerStore(localStore, &cfg.Media)

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		return err
	}

	composer, err := feed.NewComposer(db, feed.Config{
		FollowedRatio:     cfg.Feed.FollowedRatio,
		SecondDegreeRatio: cfg.Feed.SecondDegreeRatio,
		OrganizationRatio: cfg.Feed.OrganizationRatio,
		MaxPostsPerAuthor: cfg.Feed.MaxPostsPerAuthor,
		MaxOrganizations:  cfg.Feed.MaxOrganizations,
		FetchTimeout:      cfg.Feed.FetchTimeout,
	}, logger)
	if err != nil {
		return err
	}

	handler := api.NewHandler(cfg, db, composer, store, jwtManager)
	defer handler.Close()

	router := api.NewRouter(handler, auth.NewMiddleware(jwtManager), cfg)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info().Msg("Shutdown complete")
	return nil
}
