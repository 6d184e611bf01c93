package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"live-analyser/src/broadcast"
	"live-analyser/src/config"
	"live-analyser/src/data_source/yahoo"
	"live-analyser/src/engine"
	"live-analyser/src/interfaces"
	"live-analyser/src/logger"
	"live-analyser/src/network"
	"live-analyser/src/notifier"
	"live-analyser/src/server"
	"live-analyser/src/storage"
	"live-analyser/src/utils"

	"github.com/joho/godotenv"
)

// -----------------------------------------------------------------------------

func main() {

	// Parse command line flags
	configPath := flag.String("config", "../../config/default.yaml", "path to config file")
	flag.Parse()

	// Secrets from .env when present (TELEGRAM_BOT_TOKEN, NTFY_ENDPOINT, ...)
	_ = godotenv.Load()

	// Load config from YAML file
	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	appLogger := logger.NewLogger(cfg.LogLevel, cfg.Name)

	// Setup Components
	stores := storage.NewStoreManager(cfg.MConfig, logger.NewLogger(cfg.LogLevel, "Storage"))
	defer stores.CloseAll()

	var netMgr interfaces.INetworkManager = network.NewNetworkManager(cfg.MConfig, logger.NewLogger(cfg.LogLevel, "Network"))
	var source interfaces.ICandleSource = yahoo.NewYahooFinanceSource(cfg.MConfig, netMgr)
	var gateway interfaces.IBroadcaster = broadcast.NewGateway(logger.NewLogger(cfg.LogLevel, "Broadcast"))

	notify, err := notifier.FromConfig(cfg.MConfig, netMgr, logger.NewLogger(cfg.LogLevel, "Notifier"))
	if err != nil {
		appLogger.Critical("Failed to init notifier: %v", err)
	}

	cache := utils.NewSnapshotCache(cfg.Storage.MaxScoresStored)
	evaluator := engine.NewAlertEvaluator(cfg.BreakoutRules, gateway, notify, logger.NewLogger(cfg.LogLevel, "Alerts"))

	eng := engine.NewEngine(cfg.MConfig, source, stores, gateway, evaluator, cache,
		logger.NewLogger(cfg.LogLevel, "Engine"))

	srv := server.NewAPIServer(cfg.MConfig, gateway, stores, cache, logger.NewLogger(cfg.LogLevel, "Server"))

	// Start server
	go func() {
		if err := srv.Start(); err != nil {
			appLogger.Critical("Server failed: %v", err)
		}
	}()

	// Start update engine
	eng.Start()
	appLogger.Info("Analyser running: %d symbols, %d intervals, cycle every %d min",
		len(cfg.Symbols), len(cfg.Intervals), cfg.UpdateIntervalMinutes)

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down...")
	eng.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		appLogger.Warning("Server shutdown: %v", err)
	}

	appLogger.Info("Bye")
}
