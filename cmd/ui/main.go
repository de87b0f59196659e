package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"crypto-trading-sim/internal/config"
	"crypto-trading-sim/internal/database"
	"crypto-trading-sim/internal/logger"
	"crypto-trading-sim/internal/server"
	"crypto-trading-sim/internal/trader"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "./configs", "directory holding config.yml")
	flag.Parse()

	// A missing .env file is fine, the environment may be set already.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	prices, err := cfg.MarketPrices()
	if err != nil {
		log.Fatal("Invalid market prices", zap.Error(err))
	}

	// Open the session store, reset to the seed portfolio
	db, err := database.NewDatabase(&cfg)
	if err != nil {
		log.Fatal("Failed to open session store", zap.Error(err))
	}

	// Setup context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	session, err := trader.NewSession(ctx, log, prices, database.NewSessionStore(db))
	if err != nil {
		log.Fatal("Failed to start session", zap.Error(err))
	}
	log.Info("Session started", zap.String("total_value", session.Valuation().Total.String()))

	srv, err := server.NewServer(cfg.Server, session, log)
	if err != nil {
		log.Fatal("Failed to create web server", zap.Error(err))
	}

	if err := srv.Run(ctx); err != nil {
		log.Fatal("Web server failed", zap.Error(err))
	}
	log.Info("Session ended.")
}
