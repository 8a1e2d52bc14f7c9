package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"voicecat/internal/adapters/queue"
	"voicecat/internal/api/worker"
	"voicecat/internal/bootstrap"
	"voicecat/internal/config"
	"voicecat/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (default ./config.yaml when present)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format).With("component", "worker")
	slog.SetDefault(logger)
	if cfg.Queue.URL == "" {
		logger.Error("queue.url is required for the worker")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	consumer, err := queue.NewRabbitMQConsumer(cfg.Queue.URL, cfg.Queue.CommandQueue, cfg.Queue.Prefetch)
	if err != nil {
		logger.Error("consumer", "error", err)
		return
	}
	defer consumer.Close()
	msgs, err := consumer.StartConsuming()
	if err != nil {
		logger.Error("consume", "queue", cfg.Queue.CommandQueue, "error", err)
		return
	}

	proc := worker.NewCommandProcessor(a.Processor, a.Producer, cfg.Queue.ResultQueue, cfg.Translator.Timeout+cfg.LLM.Timeout, logger)
	logger.Info("worker started", "commands", cfg.Queue.CommandQueue, "results", cfg.Queue.ResultQueue)

	for {
		select {
		case <-ctx.Done():
			logger.Info("worker stopping")
			return
		case d, ok := <-msgs:
			if !ok {
				logger.Error("delivery channel closed")
				return
			}
			if err := proc.ProcessMessage(ctx, d.Body); err != nil {
				// keep the command for another attempt
				logger.Error("publish result", "error", err)
				_ = d.Nack(false, true)
				continue
			}
			if err := d.Ack(false); err != nil {
				logger.Error("ack", "error", err)
				return
			}
		}
	}
}
