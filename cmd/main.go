package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BuxoGabriel/http-server/internal/config"
	"github.com/BuxoGabriel/http-server/internal/content"
	"github.com/BuxoGabriel/http-server/internal/handler"
	"github.com/BuxoGabriel/http-server/internal/logging"
	"github.com/BuxoGabriel/http-server/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Parse(os.Args[0], os.Args[1:], os.Getenv, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	pages, err := content.NewRenderer()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load templates")
	}
	h, err := handler.NewHTTPHandler(pages, handler.Options{
		ServerHeader: cfg.ServerHeader,
		Gzip:         cfg.Gzip,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build routes")
	}

	srv := server.NewServer(cfg, h, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	log.Info().Str("addr", cfg.Addr()).Msg("starting server")

	select {
	case err := <-errc:
		log.Fatal().Err(err).Msg("server failed")
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown incomplete")
	}
	if err := <-errc; err != nil && !errors.Is(err, server.ErrServerClosed) {
		log.Error().Err(err).Msg("server stopped with error")
	}
}
