package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fileorg/fileorg/internal/app"
	"github.com/fileorg/fileorg/internal/entity"
	"github.com/fileorg/fileorg/internal/progress"
	"github.com/fileorg/fileorg/internal/util"
	"github.com/spf13/cobra"
)

func newAnalyzeCommand() *cobra.Command {
	var (
		excludes  []string
		save      bool
		reportDir string
		formats   []string
	)

	cmd := &cobra.Command{
		Use:   "analyze <root>",
		Short: "Scan a directory tree and print per-category statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sink := progress.NewLatestSink()
			r := newRenderer()
			done := make(chan struct{})

			var (
				result *entity.AnalysisResult
				runID  string
				runErr error
			)

			go func() {
				defer close(done)

				result, runID, runErr = a.Analyze(ctx, app.AnalyzeParams{
					Root:      args[0],
					Excludes:  excludes,
					Save:      save,
					ReportDir: reportDir,
					Formats:   formats,
				}, sink)
			}()

			r.drain(sink, done)

			if runErr != nil {
				return runErr
			}

			printSummary(result)
			if runID != "" {
				fmt.Printf("Saved as run %s\n", runID)
			}

			return nil
		},
	}

	cmd.Flags().StringSliceVar(&excludes, "exclude", nil, "glob pattern to skip (repeatable)")
	cmd.Flags().BoolVar(&save, "save", false, "save the result in the inventory store")
	cmd.Flags().StringVar(&reportDir, "report", "", "directory to write reports into")
	cmd.Flags().StringSliceVar(&formats, "format", []string{"csv"}, "report formats: csv, json, html")

	return cmd
}

func printSummary(result *entity.AnalysisResult) {
	fmt.Printf("%s: %d files, %s\n", result.Root, result.TotalFiles, util.FormatSize(result.TotalSize))

	for _, cat := range entity.Categories() {
		stat, ok := result.ByCategory[cat]
		if !ok {
			continue
		}
		fmt.Printf("  %-11s %6d  %s\n", cat, stat.Count, util.FormatSize(stat.Size))
	}

	if n := len(result.Errors); n > 0 {
		fmt.Printf("  %d items skipped with errors:\n", n)
		for _, se := range result.Errors {
			fmt.Printf("    [%s] %s: %s\n", se.Kind, se.Path, se.Message)
		}
	}
}
