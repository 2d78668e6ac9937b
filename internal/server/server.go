package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/bazaar/config"
	"github.com/shashiranjanraj/bazaar/internal/kernel"
	"github.com/shashiranjanraj/bazaar/internal/store"
	"github.com/shashiranjanraj/bazaar/pkg/cache"
	"github.com/shashiranjanraj/bazaar/pkg/logger"
)

// Start loads configuration, selects the storage backend once, and serves
// HTTP until the process is signalled. A document store that cannot be
// reached never prevents startup; the selector degrades to memory.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	ctx := context.Background()

	sel := store.NewSelector(ctx)
	defer sel.Close(ctx)

	if sel.Available() {
		// Ship WARN+ records into the store's logs collection.
		h := logger.NewStoreHandler(sel.Primary().Collection("logs"), slog.LevelWarn)
		logger.Attach(h)
		defer h.Close()
	}

	if err := cache.Connect(); err != nil {
		logger.Warn("cache unavailable, product list served uncached", "error", err)
	}

	srv := &http.Server{
		Addr:    ":" + config.AppPort(),
		Handler: kernel.NewHTTPKernel(sel),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	storeMode := "memory"
	if sel.Available() {
		storeMode = "document"
	}
	logger.Info("bazaar running", "addr", srv.Addr, "store", storeMode)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
