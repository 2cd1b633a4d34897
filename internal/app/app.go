// Package app wires the configuration, logger and engine components
// together for the CLI. Each operation is a blocking call; callers run it
// on its own goroutine and drain the progress sink concurrently.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fileorg/fileorg/internal/analyze"
	"github.com/fileorg/fileorg/internal/config"
	"github.com/fileorg/fileorg/internal/entity"
	"github.com/fileorg/fileorg/internal/export"
	"github.com/fileorg/fileorg/internal/progress"
	"github.com/fileorg/fileorg/internal/report"
	"github.com/fileorg/fileorg/internal/storage/inventory"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

type App struct {
	cfg *config.Config
	fs  afero.Fs
	log *slog.Logger
}

func New(cfg *config.Config, log *slog.Logger) *App {
	return NewWithFs(afero.NewOsFs(), cfg, log)
}

func NewWithFs(fs afero.Fs, cfg *config.Config, log *slog.Logger) *App {
	return &App{
		cfg: cfg,
		fs:  fs,
		log: log,
	}
}

// NewLogger builds the process logger from the configured level.
func NewLogger(level config.LogLevel) *slog.Logger {
	lo := &slog.HandlerOptions{}
	switch level {
	case config.LogLevelDebug:
		lo.Level = slog.LevelDebug
	case config.LogLevelInfo:
		lo.Level = slog.LevelInfo
	case config.LogLevelWarn:
		lo.Level = slog.LevelWarn
	case config.LogLevelError:
		lo.Level = slog.LevelError
	default:
		lo.Level = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, lo))
}

type AnalyzeParams struct {
	Root      string
	Excludes  []string
	Save      bool   // persist the result in the inventory store
	ReportDir string // write reports here when non-empty
	Formats   []string
}

// Analyze scans Root and optionally persists the run and writes reports.
// The returned run id is empty unless Save was requested.
func (a *App) Analyze(ctx context.Context, p AnalyzeParams, sink progress.Sink) (*entity.AnalysisResult, string, error) {
	log := a.log.With(slog.String("op_id", uuid.NewString()))

	excludes := append([]string{}, a.cfg.Analyzer.Excludes...)
	excludes = append(excludes, p.Excludes...)

	analyzer := analyze.NewWithFs(a.fs, analyze.Options{
		ProgressEvery: a.cfg.Analyzer.ProgressEvery,
		Excludes:      excludes,
		Sink:          sink,
	}, log)

	result, err := analyzer.Analyze(ctx, p.Root)
	if err != nil {
		return nil, "", err
	}

	var runID string
	if p.Save {
		runID, err = a.saveRun(result)
		if err != nil {
			return nil, "", err
		}
	}

	if p.ReportDir != "" {
		if err := a.writeReports(p.ReportDir, p.Formats, result); err != nil {
			return nil, "", err
		}
	}

	return result, runID, nil
}

type ExportParams struct {
	Root              string
	Dest              string
	RunID             string // export a saved run instead of scanning
	Move              bool
	PreserveStructure bool
	Extensions        []string
	Excludes          []string
}

// Export transfers files into Dest, either from a saved run or from a
// fresh scan of Root.
func (a *App) Export(ctx context.Context, p ExportParams, sink progress.Sink) (*entity.ExportResult, error) {
	log := a.log.With(slog.String("op_id", uuid.NewString()))

	var (
		result *entity.AnalysisResult
		err    error
	)

	if p.RunID != "" {
		result, err = a.loadRun(p.RunID)
	} else {
		analyzer := analyze.NewWithFs(a.fs, analyze.Options{
			ProgressEvery: a.cfg.Analyzer.ProgressEvery,
			Excludes:      append(append([]string{}, a.cfg.Analyzer.Excludes...), p.Excludes...),
		}, log)
		result, err = analyzer.Analyze(ctx, p.Root)
	}
	if err != nil {
		return nil, err
	}

	mode := export.Mode(a.cfg.Exporter.Mode)
	if p.Move {
		mode = export.ModeMove
	}

	exporter := export.NewWithFs(a.fs, export.Options{
		PreserveStructure: p.PreserveStructure || a.cfg.Exporter.PreserveStructure,
		Mode:              mode,
		Extensions:        p.Extensions,
		ProgressEvery:     a.cfg.Exporter.ProgressEvery,
		Sink:              sink,
	}, log)

	return exporter.Run(ctx, result.Records, result.Root, p.Dest)
}

func (a *App) saveRun(result *entity.AnalysisResult) (string, error) {
	store, err := inventory.New(a.cfg.InventoryPath, a.log)
	if err != nil {
		return "", fmt.Errorf("cannot open inventory: %w", err)
	}
	defer store.Close()

	return store.Save(result)
}

func (a *App) loadRun(runID string) (*entity.AnalysisResult, error) {
	store, err := inventory.New(a.cfg.InventoryPath, a.log)
	if err != nil {
		return nil, fmt.Errorf("cannot open inventory: %w", err)
	}
	defer store.Close()

	if runID == "last" {
		runID, err = store.LastRun("")
		if err != nil {
			return nil, err
		}
	}

	return store.Load(runID)
}

func (a *App) writeReports(dir string, formats []string, result *entity.AnalysisResult) error {
	if err := a.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create report directory: %w", err)
	}

	w := report.NewWithFs(a.fs, a.log)

	if len(formats) == 0 {
		formats = []string{"csv"}
	}

	for _, format := range formats {
		switch format {
		case "csv":
			if err := w.WriteFilesCSV(filepath.Join(dir, "files.csv"), result); err != nil {
				return err
			}
			if err := w.WriteCategoriesCSV(filepath.Join(dir, "categories.csv"), result); err != nil {
				return err
			}
			if err := w.WriteExtensionsCSV(filepath.Join(dir, "extensions.csv"), result); err != nil {
				return err
			}
		case "json":
			if err := w.WriteJSON(filepath.Join(dir, "report.json"), result); err != nil {
				return err
			}
		case "html":
			if err := w.WriteHTML(filepath.Join(dir, "report.html"), result); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown report format: %s", format)
		}
	}

	return nil
}
