// Package analyze walks a directory tree, classifies every regular file
// and accumulates per-category and per-extension statistics. Per-item
// failures are recorded and never abort the scan; only an unreadable root
// does.
package analyze

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fileorg/fileorg/internal/classify"
	"github.com/fileorg/fileorg/internal/common"
	"github.com/fileorg/fileorg/internal/entity"
	"github.com/fileorg/fileorg/internal/progress"
	"github.com/fileorg/fileorg/internal/util"
	"github.com/spf13/afero"
)

const defaultProgressEvery = 25

// errScanCancelled stops the walk from inside the walk callback. It never
// escapes Analyze: cancellation returns the partial result, not an error.
var errScanCancelled = fmt.Errorf("scan cancelled")

type Options struct {
	// ProgressEvery is the file interval between progress events.
	ProgressEvery int
	// Excludes holds doublestar patterns matched against the slash-form
	// path relative to the root. Matching files and directory subtrees
	// are skipped silently.
	Excludes []string
	// Sink receives progress events; nil means no progress reporting.
	Sink progress.Sink
}

type Analyzer struct {
	fs   afero.Fs
	opts Options
	log  *slog.Logger
}

func New(opts Options, log *slog.Logger) *Analyzer {
	return NewWithFs(afero.NewOsFs(), opts, log)
}

func NewWithFs(fs afero.Fs, opts Options, log *slog.Logger) *Analyzer {
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = defaultProgressEvery
	}
	if opts.Sink == nil {
		opts.Sink = progress.NopSink{}
	}

	return &Analyzer{
		fs:   fs,
		opts: opts,
		log:  log.With(slog.String("item", "Analyzer")),
	}
}

// Analyze scans the tree rooted at root and returns the accumulated
// result. The call blocks until the scan finishes or ctx is cancelled;
// cancellation returns the partial result with a nil error. The only
// failure is an unreadable root, reported before any progress event.
func (a *Analyzer) Analyze(ctx context.Context, root string) (*entity.AnalysisResult, error) {
	root = filepath.Clean(root)

	if err := a.checkRoot(root); err != nil {
		return nil, err
	}

	result := entity.NewAnalysisResult(root)
	sinceEmit := 0

	err := afero.Walk(a.fs, root, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			if info != nil && info.IsDir() {
				// Unreadable directory: record once, siblings continue.
				a.log.Warn("Cannot read directory", slog.String("path", path), slog.Any("error", walkErr))
				result.AddError(path, common.ErrorKindRead, walkErr)

				return nil
			}

			a.log.Warn("Cannot stat file", slog.String("path", path), slog.Any("error", walkErr))
			result.AddError(path, common.ErrorKindStat, walkErr)

			return nil
		}

		if excluded, rel := a.isExcluded(root, path); excluded {
			a.log.Debug("Excluded", slog.String("path", rel))
			if info.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if info.IsDir() {
			return nil
		}

		if err := ctx.Err(); err != nil {
			return errScanCancelled
		}

		a.addFile(result, path, info)

		sinceEmit++
		if sinceEmit >= a.opts.ProgressEvery {
			sinceEmit = 0
			a.emit(result, path)
		}

		return nil
	})

	result.FinishedAt = time.Now()
	a.emit(result, root)

	if err != nil && err != errScanCancelled {
		// Walk errors on anything below the root are swallowed by the
		// callback above, so this is a root-level read failure.
		return nil, fmt.Errorf("%w: %s: %v", common.ErrRootUnreadable, root, err)
	}

	a.log.Info("Scan finished",
		slog.String("root", root),
		slog.Int("files", result.TotalFiles),
		slog.Int64("bytes", result.TotalSize),
		slog.Int("errors", len(result.Errors)),
		slog.Bool("cancelled", err == errScanCancelled))

	return result, nil
}

// addFile classifies one file and updates every aggregate before the next
// file is visited. Symlinks are recorded with the target's metadata when
// the target resolves, otherwise with the link's own.
func (a *Analyzer) addFile(result *entity.AnalysisResult, path string, info os.FileInfo) {
	if info.Mode()&os.ModeSymlink != 0 {
		if target, err := a.fs.Stat(path); err == nil {
			if target.IsDir() {
				// Symlinked directories are never followed.
				return
			}
			info = target
		}
	} else if !info.Mode().IsRegular() {
		return
	}

	category, mimeType, ext := classify.Classify(path)

	result.Add(&entity.FileRecord{
		ID:        util.GetIDFromString(&path),
		Path:      path,
		Size:      info.Size(),
		Category:  category,
		MIMEType:  mimeType,
		Extension: ext,
	})
}

func (a *Analyzer) checkRoot(root string) error {
	info, err := a.fs.Stat(root)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", common.ErrRootUnreadable, root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s: not a directory", common.ErrRootUnreadable, root)
	}

	f, err := a.fs.Open(root)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", common.ErrRootUnreadable, root, err)
	}
	defer f.Close()

	if _, err := f.Readdirnames(1); err != nil && err != io.EOF {
		return fmt.Errorf("%w: %s: %v", common.ErrRootUnreadable, root, err)
	}

	return nil
}

func (a *Analyzer) isExcluded(root, path string) (bool, string) {
	if len(a.opts.Excludes) == 0 || path == root {
		return false, ""
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false, ""
	}
	rel = filepath.ToSlash(rel)

	for _, pattern := range a.opts.Excludes {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true, rel
		}
	}

	return false, rel
}

func (a *Analyzer) emit(result *entity.AnalysisResult, current string) {
	a.opts.Sink.Publish(progress.Event{
		Processed:   result.TotalFiles,
		Total:       progress.TotalUnknown,
		CurrentPath: current,
		Bytes:       result.TotalSize,
		Errors:      len(result.Errors),
	})
}
