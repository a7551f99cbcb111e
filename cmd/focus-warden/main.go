package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/rs/zerolog"

	"focus-warden/internal/app"
	"focus-warden/pkg/config"
	"focus-warden/pkg/logger"
)

const version = "1.0.0"

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "path to config file")
	debug := flag.Bool("debug", false, "enable debug logging")
	logFile := flag.String("log-file", "", "log to this file instead of the default one")
	flag.Parse()

	// Setup logging level
	logLevel := zerolog.InfoLevel
	if *debug {
		logLevel = zerolog.DebugLevel
	}

	opts := []logger.Option{
		logger.WithConsole(),
		logger.WithLevel(logLevel),
	}
	if *logFile != "" {
		opts = append(opts, logger.WithFile(*logFile))
	}

	// Initialize logger first for early logging
	log, err := logger.NewLogger(opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting Focus Warden",
		"version", version,
		"pid", os.Getpid(),
		"os", runtime.GOOS,
		"arch", runtime.GOARCH,
		"debug", *debug)

	// Load configuration
	log.Debug("Loading configuration", "provided_path", *configPath)

	cfg, err := config.FindConfig(*configPath, log)
	if err != nil {
		log.Error("Failed to load configuration", err,
			"provided_path", *configPath)
		os.Exit(1)
	}
	log.Info("Configuration loaded successfully",
		"path", cfg.GetPath(),
		"focus_policy", cfg.GetFocusPolicy(),
		"rule_count", len(cfg.GetRules()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fw, err := app.New(cfg, log)
	if err != nil {
		log.Fatal("Failed to create Focus Warden", err)
	}

	runErr := fw.Run(ctx)
	fw.Close()
	if runErr != nil {
		log.Error("Application error", runErr)
		log.Close()
		os.Exit(1)
	}
}
