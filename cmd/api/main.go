package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/vaughan-dsouza/medium-blog/internal/config"
	"github.com/vaughan-dsouza/medium-blog/internal/db"
	"github.com/vaughan-dsouza/medium-blog/internal/handlers"
	"github.com/vaughan-dsouza/medium-blog/internal/logger"
	"github.com/vaughan-dsouza/medium-blog/internal/metrics"
	"github.com/vaughan-dsouza/medium-blog/internal/router"
)

func main() {
	dotenvErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.New(cfg.LogLevel, cfg.IsProduction())
	if dotenvErr != nil {
		log.Debug().Msg("no .env file found")
	}
	log = log.With().Str("env", cfg.Env).Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	defer database.Close()

	h := handlers.NewHandler(database.ORM, database, cfg.JWTSecret, cfg.JWTTTL)

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: router.New(h, router.Options{
			JWTSecret: cfg.JWTSecret,
			Logger:    log,
			Metrics:   metrics.New(),
		}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return log.WithContext(context.Background()) },
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	log.Info().Msg("server exited")
}
