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

func newExportCommand() *cobra.Command {
	var (
		move       bool
		preserve   bool
		extensions []string
		excludes   []string
		runID      string
	)

	cmd := &cobra.Command{
		Use:   "export <root> <dest>",
		Short: "Copy or move scanned files into per-category folders under dest",
		Args:  cobra.ExactArgs(2),
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
				result *entity.ExportResult
				runErr error
			)

			go func() {
				defer close(done)

				result, runErr = a.Export(ctx, app.ExportParams{
					Root:              args[0],
					Dest:              args[1],
					RunID:             runID,
					Move:              move,
					PreserveStructure: preserve,
					Extensions:        extensions,
					Excludes:          excludes,
				}, sink)
			}()

			r.drain(sink, done)

			if runErr != nil {
				return runErr
			}

			fmt.Printf("Exported %d files (%s), %d failed\n",
				result.Copied, util.FormatSize(result.Bytes), result.Failed)
			for _, ee := range result.Errors {
				fmt.Printf("  [%s] %s: %s\n", ee.Kind, ee.Source, ee.Message)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&move, "move", false, "move files instead of copying")
	cmd.Flags().BoolVar(&preserve, "preserve", false, "keep the original directory structure under each category")
	cmd.Flags().StringSliceVar(&extensions, "ext", nil, "only export files with these extensions")
	cmd.Flags().StringSliceVar(&excludes, "exclude", nil, "glob pattern to skip while scanning (repeatable)")
	cmd.Flags().StringVar(&runID, "run", "", "export a saved run instead of scanning (id or 'last')")

	return cmd
}
