package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vk/pixelgridgo/internal/server"
)

// serve runs the live render server until the context is cancelled or the
// process receives SIGINT or SIGTERM.
func (a *App) serve(ctx context.Context) error {
	srv := server.New(a.logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe(a.config.ListenAddr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		a.logger.Info("Received signal, shutting down.", "signal", sig.String())
	case <-ctx.Done():
		a.logger.Info("Context cancelled, shutting down.")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
