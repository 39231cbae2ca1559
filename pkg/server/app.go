// Package server owns the serve-mode application lifecycle.
package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"NewsPulse/pkg/config"
	xhttp "NewsPulse/pkg/http"
	"NewsPulse/pkg/logger"
)

// App encapsulates the HTTP serving lifecycle around the feature API.
type App struct {
	cfg        *config.Config
	log        *logger.Logger
	httpServer *xhttp.Server
}

// New creates an App serving the given handler.
func New(cfg *config.Config, log *logger.Logger, handler xhttp.Handler) *App {
	srv := xhttp.NewServer(handler,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
	)
	return &App{cfg: cfg, log: log, httpServer: srv}
}

// Run starts the HTTP server and blocks until an interrupt or termination
// signal arrives, then shuts down gracefully.
func (a *App) Run() error {
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", logger.Error(err))
		return err
	}
	a.log.Info("feature api listening", logger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", logger.Error(err))
		return err
	}
	a.log.Info("shutdown complete")
	return nil
}
