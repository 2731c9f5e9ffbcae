// Package main provides the entry point for the REDLINE API server and CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jonathan/redline/internal/config"
	"github.com/jonathan/redline/internal/llm"
	"github.com/jonathan/redline/internal/logging"
)

// newLLMClient is replaced in tests
var newLLMClient = llm.NewClient

// rootOptions are the flags shared by every command
type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "redline",
		Short:         "REDLINE resume pressure-test API and CLI",
		Long:          "REDLINE reads a resume the way a skeptical interviewer would: it finds the claims that will be challenged and sharpens generic interview questions.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a JSON config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (overrides LOG_LEVEL)")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newAnalyzeCmd(opts))
	cmd.AddCommand(newImproveCmd(opts))
	return cmd
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// load builds the effective configuration and logger for a command
func (o *rootOptions) load(cmd *cobra.Command) (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(o.configPath, os.LookupEnv)
	if err != nil {
		return nil, nil, err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}

	logger, err := logging.NewWithOutput(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// modelClient creates the model client selected by cfg
func modelClient(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	llmCfg, err := cfg.LLMConfig()
	if err != nil {
		return nil, err
	}
	client, err := newLLMClient(ctx, llmCfg, cfg.APIKey())
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}
	return client, nil
}
