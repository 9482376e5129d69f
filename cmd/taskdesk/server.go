package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const shutdownTimeout = 10 * time.Second

// run serves the console and drives the session coordinator until ctx is
// done, then shuts the server down gracefully.
func (app *application) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	watcherDone := make(chan error, 1)
	go func() {
		watcherDone <- app.watcher.Run(ctx)
	}()

	server := &http.Server{
		Addr:              app.config.Console.Addr,
		Handler:           app.console.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		app.logger.Info("starting console", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		app.logger.Info("shutting down console")
	case err := <-serverErr:
		if err != nil {
			runErr = fmt.Errorf("console server failed: %w", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("console shutdown failed", "error", err)
		runErr = errors.Join(runErr, fmt.Errorf("console shutdown failed: %w", err))
	}

	cancel()
	if err := <-watcherDone; err != nil && !errors.Is(err, context.Canceled) {
		runErr = errors.Join(runErr, fmt.Errorf("session coordinator failed: %w", err))
	}

	app.logger.Info("shutdown completed")
	return runErr
}
