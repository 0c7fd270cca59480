package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/cnslab/cipherform-go"
	"github.com/cnslab/cipherform-go/internal/config"
	"github.com/cnslab/cipherform-go/internal/gateway"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	client, err := cipherform.New(
		cipherform.WithBaseURL(cfg.Backend.BaseURL),
		cipherform.WithTimeout(cfg.Backend.Timeout),
		cipherform.WithFill(cfg.Backend.OTPFill),
		cipherform.WithLogger(logger),
		cipherform.WithMetrics(reg),
	)
	if err != nil {
		logger.Fatal("create client", zap.Error(err))
	}

	logger.Info("configuration loaded",
		zap.String("backend", client.BaseURL()),
		zap.Duration("timeout", cfg.Backend.Timeout),
		zap.String("listen", cfg.Server.Listen),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := gateway.New(client, logger, reg).ListenAndServe(ctx, cfg.Server.Listen); err != nil {
		logger.Fatal("gateway server failed", zap.Error(err))
	}
	logger.Info("gateway stopped")
}
