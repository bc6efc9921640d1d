// Package main runs the background worker that delivers queued email.
// The API server enqueues messages when queue.enabled is set; this process
// drains them from Redis and hands them to the configured email transport.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/config"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/jobs"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/mail"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/utils"
)

func init() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found or couldn't be loaded")
	}
}

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "./configs/config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	utils.InitLogger(cfg)

	if !cfg.Redis.CacheEnabled() {
		log.Fatal().Msg("REDIS_ADDR is required to run the email worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sender, err := mail.NewSender(ctx, &cfg.Email)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize email sender")
	}

	worker, err := jobs.NewWorker(cfg, jobs.NewEmailHandler(sender, cfg.Email.SendTimeout))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create worker")
	}

	log.Info().
		Str("redis", cfg.Redis.Addr).
		Str("provider", cfg.Email.Provider).
		Msg("Starting Shopfront email worker")

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("Worker error")
	}
}
