// Command workbenchd runs the relational schema workbench's HTTP service.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skeema/normalizeworkbench/internal/api"
	"github.com/skeema/normalizeworkbench/internal/dbexec"
	"github.com/skeema/normalizeworkbench/internal/wbconfig"
	"github.com/skeema/normalizeworkbench/internal/wblog"
)

func main() {
	logger := wblog.New()

	cfg := wbconfig.FromEnv()
	if err := cfg.Validate(); err != nil {
		logger.Fatal(err)
	}

	executor, err := dbexec.Open(cfg.DSN())
	if err != nil {
		logger.WithError(err).Fatal("could not open database connection pool")
	}
	defer executor.Close()

	addr := os.Getenv("WORKBENCH_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:    addr,
		Handler: api.NewServer(executor, logger),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.WithField("addr", addr).Info("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
}
