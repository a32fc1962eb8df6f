package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agencydesk/internal/config"
	"agencydesk/internal/stub"
	"agencydesk/internal/util"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		util.Fatal("Failed to load configuration", util.ErrorField(err))
	}
	util.Init(cfg.Environment, cfg.Logging.Level, cfg.Logging.Format)
	defer util.Sync()

	store := stub.NewStore()
	if err := stub.Seed(store); err != nil {
		util.Fatal("Failed to seed dataset", util.ErrorField(err))
	}

	cache, err := stub.NewCredentialCache(cfg.Stub.RedisURL)
	if err != nil {
		util.Fatal("Failed to initialize challenge cache", util.ErrorField(err))
	}

	server := &http.Server{
		Addr:         cfg.Stub.Addr,
		Handler:      stub.NewServer(store, cache, util.Get()).Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			util.Fatal("Server failed to start", util.ErrorField(err))
		}
	}()

	util.Info("Stub server started",
		util.String("environment", cfg.Environment),
		util.String("address", cfg.Stub.Addr),
	)

	waitForShutdown(server)
}

func waitForShutdown(server *http.Server) {
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-signalChan
	util.Info("Received shutdown signal", util.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		util.Error("Failed to shutdown server gracefully", util.ErrorField(err))
		return
	}
	util.Info("Server shutdown completed")
}
