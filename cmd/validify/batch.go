package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/validify-dev/validify/internal/docsource"
	"github.com/validify-dev/validify/internal/engine"
	"github.com/validify-dev/validify/internal/model"
	"github.com/validify-dev/validify/internal/output"
	"github.com/validify-dev/validify/internal/profileio"
	"github.com/validify-dev/validify/internal/sandbox"
	"github.com/validify-dev/validify/internal/version"
)

var batchConcurrency int

var batchCmd = &cobra.Command{
	Use:   "batch <profile.yaml> <document.json...>",
	Short: "Validate several independent documents against one profile concurrently",
	Long: `Runs a separate traversal, scope, and result per document, up to
--concurrency at a time. This does not parallelize the traversal of a
single document; each document is still walked by exactly one
goroutine from start to finish.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd.Context(), args[0], args[1:])
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringVar(&format, "format", "table", "output format: table, json, junit, sarif")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 4, "maximum number of documents validated at once")
}

func runBatch(ctx context.Context, profilePath string, documentPaths []string) error {
	loader := profileio.NewLoader(version.Get().Version)
	validatedProfile, err := loader.Load(profilePath)
	if err != nil {
		return fmt.Errorf("loading profile: %w", err)
	}

	sb := sandbox.New()
	results := make([]*model.ValidationResult, len(documentPaths))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(batchConcurrency)

	for i, path := range documentPaths {
		i, path := i, path
		group.Go(func() error {
			docFile, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("opening %s: %w", path, err)
			}
			defer docFile.Close()

			eng := engine.NewEngine(validatedProfile, sb, engine.DefaultOptions())
			result, err := eng.Validate(groupCtx, docsource.NewSource(docFile))
			if err != nil {
				return fmt.Errorf("validating %s: %w", path, err)
			}
			results[i] = result
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	formatter, err := output.NewFormatter(format, os.Stdout)
	if err != nil {
		return err
	}

	nonCompliant := 0
	for i, result := range results {
		if !result.Compliant() {
			nonCompliant++
		}
		fmt.Fprintf(os.Stdout, "--- %s ---\n", documentPaths[i])
		if err := formatter.Format(result); err != nil {
			return fmt.Errorf("formatting output for %s: %w", documentPaths[i], err)
		}
	}

	if nonCompliant > 0 {
		return fmt.Errorf("%d of %d documents are not compliant with profile %q", nonCompliant, len(results), validatedProfile.Profile.Metadata.Name)
	}
	return nil
}
