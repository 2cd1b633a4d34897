package main

import (
	"github.com/fileorg/fileorg/internal/app"
	"github.com/fileorg/fileorg/internal/config"
	"github.com/spf13/cobra"
)

var cfgPath string

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "fileorg",
		Short:         "Scan a directory tree, classify files and export them into an organized structure",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yml", "path to config file")

	root.AddCommand(newAnalyzeCommand())
	root.AddCommand(newExportCommand())

	return root
}

func buildApp() (*app.App, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	log := app.NewLogger(cfg.LogLevel)

	return app.New(cfg, log), nil
}
