package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/redline/internal/interview"
	"github.com/jonathan/redline/internal/observability"
)

type analyzeOptions struct {
	jdPath     string
	resumePath string
	language   string
	asJSON     bool
}

func newAnalyzeCmd(root *rootOptions) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Find the resume claims an interviewer would press on",
		Long:  "Analyze a PDF or TXT resume against a job description and print the key risks and pressure questions.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd, root, opts)
		},
	}
	cmd.Flags().StringVar(&opts.jdPath, "jd", "", "Path to the job description text file (required)")
	cmd.Flags().StringVar(&opts.resumePath, "resume", "", "Path to the resume (.pdf or .txt) (required)")
	cmd.Flags().StringVar(&opts.language, "lang", string(interview.DefaultLanguage), "Output language: ko or en")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the raw JSON result")
	_ = cmd.MarkFlagRequired("jd")
	_ = cmd.MarkFlagRequired("resume")
	return cmd
}

func runAnalyze(cmd *cobra.Command, root *rootOptions, opts *analyzeOptions) error {
	cfg, logger, err := root.load(cmd)
	if err != nil {
		return err
	}

	jd, err := os.ReadFile(opts.jdPath)
	if err != nil {
		return fmt.Errorf("failed to read job description: %w", err)
	}

	ctx := cmd.Context()
	client, err := modelClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	analysis, err := interview.NewService(client, logger).AnalyzeResumeFile(ctx, string(jd), opts.resumePath, opts.language)
	if err != nil {
		return err
	}

	if opts.asJSON {
		return writeJSON(cmd, analysis)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintAnalysis(analysis)
	return nil
}

// writeJSON prints v as indented JSON to the command output
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
