package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/validify-dev/validify/internal/docsource"
	"github.com/validify-dev/validify/internal/engine"
	"github.com/validify-dev/validify/internal/output"
	"github.com/validify-dev/validify/internal/profileio"
	"github.com/validify-dev/validify/internal/redaction"
	"github.com/validify-dev/validify/internal/sandbox"
	"github.com/validify-dev/validify/internal/version"
)

var (
	format            string
	outFile           string
	maxDisplayed      int
	logPassedChecks   bool
	showErrorMessages bool
	showProgress      bool
	redact            bool
)

var checkCmd = &cobra.Command{
	Use:   "check <profile.yaml> <document.json>",
	Short: "Validate a document against a profile",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd.Context(), args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&format, "format", "table", "output format: table, json, junit, sarif")
	checkCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file path (default: stdout)")
	checkCmd.Flags().IntVar(&maxDisplayed, "max-displayed-failed-checks", engine.DefaultMaxDisplayedFailedChecks, "per-rule cap on recorded failed checks (-1 for unlimited)")
	checkCmd.Flags().BoolVar(&logPassedChecks, "log-passed-checks", false, "also record passing checks as assertions")
	checkCmd.Flags().BoolVar(&showErrorMessages, "show-error-messages", true, "render each failed rule's error message")
	checkCmd.Flags().BoolVar(&showProgress, "show-progress", false, "track object/check counters during the run")
	checkCmd.Flags().BoolVar(&redact, "redact", false, "scrub secret-shaped substrings from the rendered report")
}

func runCheck(ctx context.Context, profilePath, documentPath string) error {
	loader := profileio.NewLoader(version.Get().Version)
	validatedProfile, err := loader.Load(profilePath)
	if err != nil {
		return fmt.Errorf("loading profile: %w", err)
	}

	docFile, err := os.Open(documentPath)
	if err != nil {
		return fmt.Errorf("opening document: %w", err)
	}
	defer docFile.Close()

	eng := engine.NewEngine(validatedProfile, sandbox.New(), engine.Options{
		MaxDisplayedFailedChecks: maxDisplayed,
		LogPassedChecks:          logPassedChecks,
		ShowErrorMessages:        showErrorMessages,
		ShowProgress:             showProgress,
	})
	defer eng.Close()

	result, err := eng.Validate(ctx, docsource.NewSource(docFile))
	if err != nil {
		return fmt.Errorf("validating: %w", err)
	}

	if redact {
		red, err := redaction.New(redaction.Config{})
		if err != nil {
			return fmt.Errorf("building redactor: %w", err)
		}
		result = red.Redact(result)
	}

	slog.Info("validation complete", "profile", result.ProfileName, "total_checks", result.TotalChecks, "failed", result.TotalFailedChecks)

	w, err := outputWriter(outFile)
	if err != nil {
		return err
	}
	if closer, ok := w.(io.Closer); ok && outFile != "" {
		defer closer.Close()
	}

	formatter, err := output.NewFormatter(format, w)
	if err != nil {
		return err
	}
	if err := formatter.Format(result); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if !result.Compliant() {
		return fmt.Errorf("document is not compliant with profile %q", result.ProfileName)
	}
	return nil
}

func outputWriter(path string) (io.Writer, error) {
	if path == "" {
		return os.Stdout, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, nil
}
