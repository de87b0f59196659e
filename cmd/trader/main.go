package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path"
	"syscall"

	"crypto-trading-sim/internal/cli"
	"crypto-trading-sim/internal/client"
	"crypto-trading-sim/internal/config"
	"crypto-trading-sim/internal/logger"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "./configs", "directory holding config.yml")
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	// Commands are registered before parsing so that -help lists them.
	app := &cli.App{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
	cli.Register(commander, app)
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr, stdout is for the user.
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	app.Cfg = &cfg
	app.Logger = log
	app.Client = client.NewClient(&cfg.Client, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	status := commander.Execute(ctx)
	stop()
	_ = log.Sync()
	os.Exit(int(status))
}
