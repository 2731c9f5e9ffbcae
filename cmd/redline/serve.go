package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/redline/internal/config"
	"github.com/jonathan/redline/internal/db"
	"github.com/jonathan/redline/internal/interview"
	"github.com/jonathan/redline/internal/llm"
	"github.com/jonathan/redline/internal/payment"
	"github.com/jonathan/redline/internal/server"
	"github.com/jonathan/redline/internal/server/ratelimit"
)

// dbPingInterval is how often the lead database is checked while serving
const dbPingInterval = 30 * time.Second

func newServeCmd(root *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long:  "Start an HTTP server exposing resume analysis, question improvement, payment confirmation and lead capture.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := root.load(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, logger)
		},
	}
	cmd.Flags().IntVar(&port, "port", config.DefaultPort, "Port to listen on (overrides PORT)")
	return cmd
}

// runServe wires the services and serves until ctx is cancelled
func runServe(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	client, err := modelClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	payCfg := cfg.PaymentConfig()
	payments := payment.NewService(payment.NewTossClient(payCfg), payCfg.ExpectedAmount, logger)
	if payCfg.SecretKey == "" {
		logger.Warn("TOSS_SECRET_KEY is not set; payment confirmations will fail")
	}

	var (
		leads    server.LeadSaver = db.NewLogStore(logger)
		database *db.DB
	)
	if cfg.DatabaseURL != "" {
		database, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()
		if err := database.Migrate(ctx); err != nil {
			return err
		}
		leads = database
	} else {
		logger.Info("DATABASE_URL is not set; leads are only logged")
	}

	srv := server.New(server.Config{
		Port:           cfg.Port,
		MaxUploadBytes: cfg.MaxUploadBytes,
		RateLimit:      ratelimit.LoadConfig(),
	}, server.Dependencies{
		Analyzer: interview.NewService(client, logger),
		Payments: payments,
		Leads:    leads,
		Logger:   logger,
	})

	logger.WithFields(logrus.Fields{
		"provider": cfg.LLMProvider,
		"model":    client.GetModel(llm.TierStandard),
		"port":     cfg.Port,
	}).Info("starting redline")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	if database != nil {
		g.Go(func() error {
			watchDatabase(gctx, database, logger, dbPingInterval)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}

// pinger is the part of *db.DB that watchDatabase needs
type pinger interface {
	Ping(ctx context.Context) error
}

// watchDatabase logs when the lead database becomes unreachable or recovers
func watchDatabase(ctx context.Context, database pinger, logger logrus.FieldLogger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	healthy := true
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := database.Ping(pingCtx)
			cancel()

			switch {
			case err != nil && healthy:
				logger.WithError(err).Warn("lead database unreachable")
				healthy = false
			case err == nil && !healthy:
				logger.Info("lead database reachable again")
				healthy = true
			}
		}
	}
}
