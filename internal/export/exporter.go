// Package export plans and executes the reorganization of scanned files
// into per-category folders under a destination root. Planning resolves
// name collisions up front so every destination in one run is distinct;
// execution records per-file failures and never aborts the batch.
package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fileorg/fileorg/internal/common"
	"github.com/fileorg/fileorg/internal/entity"
	"github.com/fileorg/fileorg/internal/progress"
	"github.com/spf13/afero"
)

type Mode string

const (
	ModeCopy Mode = "copy"
	ModeMove Mode = "move"

	defaultProgressEvery = 25

	// maxCollisionAttempts caps the suffix counter so a pathological
	// destination cannot loop forever. An exhausted entry is reported as
	// a transfer error at execute time.
	maxCollisionAttempts = 10000

	dirPerm = 0o755
)

type Options struct {
	PreserveStructure bool
	Mode              Mode
	// Extensions filters the plan to the given extensions (lowercase,
	// without dot). Empty means every record is exported.
	Extensions []string
	// ProgressEvery is the file interval between progress events.
	ProgressEvery int
	// Sink receives progress events; nil means no progress reporting.
	Sink progress.Sink
}

type Exporter struct {
	fs   afero.Fs
	opts Options
	log  *slog.Logger
}

func New(opts Options, log *slog.Logger) *Exporter {
	return NewWithFs(afero.NewOsFs(), opts, log)
}

func NewWithFs(fs afero.Fs, opts Options, log *slog.Logger) *Exporter {
	if opts.Mode == "" {
		opts.Mode = ModeCopy
	}
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = defaultProgressEvery
	}
	if opts.Sink == nil {
		opts.Sink = progress.NopSink{}
	}

	return &Exporter{
		fs:   fs,
		opts: opts,
		log:  log.With(slog.String("item", "Exporter")),
	}
}

// Run plans the export of records into destRoot and executes it. scanRoot
// is the root the records were scanned from; it anchors relative paths
// when structure preservation is on and guards against exporting into the
// source tree.
func (e *Exporter) Run(ctx context.Context, records []*entity.FileRecord, scanRoot, destRoot string) (*entity.ExportResult, error) {
	plan, err := e.Plan(records, scanRoot, destRoot)
	if err != nil {
		return nil, err
	}

	return e.Execute(ctx, plan), nil
}

// Plan computes one destination per record. Collisions, both with files
// already on disk and between entries of the same plan, are resolved with
// a " (n)" suffix before the extension. An entry whose suffix counter is
// exhausted keeps an empty destination and fails at execute time.
func (e *Exporter) Plan(records []*entity.FileRecord, scanRoot, destRoot string) ([]entity.PlanEntry, error) {
	scanRoot = filepath.Clean(scanRoot)
	destRoot = filepath.Clean(destRoot)

	if isUnder(destRoot, scanRoot) {
		return nil, fmt.Errorf("%w: %s", common.ErrDestInsideSource, destRoot)
	}

	filter := extensionFilter(e.opts.Extensions)
	reserved := make(map[string]struct{})

	var plan []entity.PlanEntry
	for _, rec := range records {
		if filter != nil {
			if _, ok := filter[rec.Extension]; !ok {
				continue
			}
		}

		dest := e.resolveDest(rec, scanRoot, destRoot, reserved)
		if dest != "" {
			reserved[dest] = struct{}{}
		}

		plan = append(plan, entity.PlanEntry{Record: rec, Dest: dest})
	}

	return plan, nil
}

// Execute transfers every plan entry, collecting per-file failures.
// Cancellation between files returns the partial result; a partially
// written destination is removed so no truncated copy survives without an
// error record.
func (e *Exporter) Execute(ctx context.Context, plan []entity.PlanEntry) *entity.ExportResult {
	result := &entity.ExportResult{}
	sinceEmit := 0

	for _, item := range plan {
		if ctx.Err() != nil {
			e.log.Info("Export cancelled",
				slog.Int("copied", result.Copied),
				slog.Int("failed", result.Failed))

			break
		}

		e.exportOne(item, result)

		sinceEmit++
		if sinceEmit >= e.opts.ProgressEvery {
			sinceEmit = 0
			e.emit(result, len(plan), item.Record.Path)
		}
	}

	e.emit(result, len(plan), "")

	e.log.Info("Export finished",
		slog.Int("copied", result.Copied),
		slog.Int("failed", result.Failed),
		slog.Int64("bytes", result.Bytes))

	return result
}

func (e *Exporter) exportOne(item entity.PlanEntry, result *entity.ExportResult) {
	src := item.Record.Path

	if item.Dest == "" {
		result.AddError(src, common.ErrorKindTransfer,
			fmt.Errorf("cannot resolve destination: collision suffixes exhausted"))

		return
	}

	written, err := e.copyFile(src, item.Dest)
	if err != nil {
		e.log.Warn("Cannot transfer file", slog.String("src", src), slog.Any("error", err))
		result.AddError(src, common.ErrorKindTransfer, err)

		return
	}

	if e.opts.Mode == ModeMove {
		if err := e.fs.Remove(src); err != nil {
			// The copy is in place; the caller must know the source
			// still exists as a duplicate.
			e.log.Warn("Cannot remove source after move", slog.String("src", src), slog.Any("error", err))
			result.AddError(src, common.ErrorKindCleanup, err)

			return
		}
	}

	result.Copied++
	result.Bytes += written
}

func (e *Exporter) copyFile(src, dest string) (int64, error) {
	in, err := e.fs.Open(src)
	if err != nil {
		return 0, fmt.Errorf("cannot open source: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return 0, fmt.Errorf("cannot stat source: %w", err)
	}

	if err := e.fs.MkdirAll(filepath.Dir(dest), dirPerm); err != nil {
		return 0, fmt.Errorf("cannot create destination directory: %w", err)
	}

	out, err := e.fs.Create(dest)
	if err != nil {
		return 0, fmt.Errorf("cannot create destination: %w", err)
	}

	written, err := io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err == nil && written != info.Size() {
		err = fmt.Errorf("short copy: %d of %d bytes", written, info.Size())
	}
	if err != nil {
		// Best effort: do not leave a truncated file behind.
		_ = e.fs.Remove(dest)

		return 0, fmt.Errorf("cannot copy to %s: %w", dest, err)
	}

	return written, nil
}

// resolveDest picks the destination path for one record, never reusing a
// path already on disk or already reserved by this plan.
func (e *Exporter) resolveDest(rec *entity.FileRecord, scanRoot, destRoot string, reserved map[string]struct{}) string {
	dir := filepath.Join(destRoot, rec.Category.String())

	if e.opts.PreserveStructure {
		if rel, err := filepath.Rel(scanRoot, rec.Path); err == nil && !strings.HasPrefix(rel, "..") {
			dir = filepath.Join(dir, filepath.Dir(rel))
		}
	}

	name := filepath.Base(rec.Path)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	candidate := filepath.Join(dir, name)
	for i := 1; ; i++ {
		if !e.taken(candidate, reserved) {
			return candidate
		}
		if i > maxCollisionAttempts {
			return ""
		}

		candidate = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, i, ext))
	}
}

func (e *Exporter) taken(path string, reserved map[string]struct{}) bool {
	if _, ok := reserved[path]; ok {
		return true
	}

	exists, err := afero.Exists(e.fs, path)

	return err == nil && exists
}

func (e *Exporter) emit(result *entity.ExportResult, total int, current string) {
	e.opts.Sink.Publish(progress.Event{
		Processed:   result.Copied + result.Failed,
		Total:       total,
		CurrentPath: current,
		Bytes:       result.Bytes,
		Errors:      len(result.Errors),
	})
}

func extensionFilter(exts []string) map[string]struct{} {
	if len(exts) == 0 {
		return nil
	}

	filter := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		filter[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}

	return filter
}

func isUnder(path, base string) bool {
	if path == base {
		return true
	}

	return strings.HasPrefix(path, base+string(filepath.Separator))
}
