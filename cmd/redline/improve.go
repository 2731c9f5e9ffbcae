package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/redline/internal/interview"
	"github.com/jonathan/redline/internal/observability"
	"github.com/jonathan/redline/internal/types"
)

type improveOptions struct {
	question string
	jdPath   string
	asJSON   bool
}

func newImproveCmd(root *rootOptions) *cobra.Command {
	opts := &improveOptions{}

	cmd := &cobra.Command{
		Use:   "improve",
		Short: "Rewrite a generic interview question into a verifiable one",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runImprove(cmd, root, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.question, "question", "q", "", "Interview question to review (required)")
	cmd.Flags().StringVar(&opts.jdPath, "jd", "", "Path to the job description text file")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the raw JSON result")
	_ = cmd.MarkFlagRequired("question")
	return cmd
}

func runImprove(cmd *cobra.Command, root *rootOptions, opts *improveOptions) error {
	cfg, logger, err := root.load(cmd)
	if err != nil {
		return err
	}

	req := types.ImproveQuestionRequest{Question: opts.question}
	if opts.jdPath != "" {
		jd, err := os.ReadFile(opts.jdPath)
		if err != nil {
			return fmt.Errorf("failed to read job description: %w", err)
		}
		req.JobDescription = string(jd)
	}

	ctx := cmd.Context()
	client, err := modelClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	improvement, err := interview.NewService(client, logger).ImproveQuestion(ctx, req)
	if err != nil {
		return err
	}

	if opts.asJSON {
		return writeJSON(cmd, improvement)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintImprovement(improvement)
	return nil
}
