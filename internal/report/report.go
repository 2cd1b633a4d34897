// Package report serializes an analysis result for consumption outside
// the engine: CSV tables, a JSON document and an HTML summary page.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/fileorg/fileorg/internal/entity"
	"github.com/spf13/afero"
)

const largestFilesLimit = 50

type Writer struct {
	fs  afero.Fs
	log *slog.Logger
}

func New(log *slog.Logger) *Writer {
	return NewWithFs(afero.NewOsFs(), log)
}

func NewWithFs(fs afero.Fs, log *slog.Logger) *Writer {
	return &Writer{
		fs:  fs,
		log: log.With(slog.String("item", "ReportWriter")),
	}
}

// WriteFilesCSV writes one row per scanned file in scan order.
func (w *Writer) WriteFilesCSV(path string, result *entity.AnalysisResult) error {
	rows := [][]string{{"path", "category", "size", "extension"}}
	for _, rec := range result.Records {
		rows = append(rows, []string{
			rec.Path,
			rec.Category.String(),
			strconv.FormatInt(rec.Size, 10),
			rec.Extension,
		})
	}

	return w.writeCSV(path, rows)
}

// WriteCategoriesCSV writes one aggregate row per category, in the fixed
// category order, skipping empty buckets.
func (w *Writer) WriteCategoriesCSV(path string, result *entity.AnalysisResult) error {
	rows := [][]string{{"category", "count", "total_size"}}
	for _, cat := range entity.Categories() {
		stat, ok := result.ByCategory[cat]
		if !ok {
			continue
		}

		rows = append(rows, []string{
			cat.String(),
			strconv.Itoa(stat.Count),
			strconv.FormatInt(stat.Size, 10),
		})
	}

	return w.writeCSV(path, rows)
}

// WriteExtensionsCSV writes one aggregate row per extension, sorted
// alphabetically for stable output.
func (w *Writer) WriteExtensionsCSV(path string, result *entity.AnalysisResult) error {
	exts := make([]string, 0, len(result.ByExtension))
	for ext := range result.ByExtension {
		exts = append(exts, ext)
	}
	sort.Strings(exts)

	rows := [][]string{{"extension", "count", "total_size"}}
	for _, ext := range exts {
		stat := result.ByExtension[ext]
		rows = append(rows, []string{
			ext,
			strconv.Itoa(stat.Count),
			strconv.FormatInt(stat.Size, 10),
		})
	}

	return w.writeCSV(path, rows)
}

func (w *Writer) writeCSV(path string, rows [][]string) error {
	f, err := w.fs.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create report file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("cannot write report rows: %w", err)
	}

	w.log.Info("Report written", slog.String("path", path), slog.Int("rows", len(rows)-1))

	return nil
}

type jsonFile struct {
	ID        string `json:"id,omitempty"`
	Path      string `json:"path"`
	Category  string `json:"category"`
	Size      int64  `json:"size"`
	Extension string `json:"extension"`
	MIMEType  string `json:"mime_type,omitempty"`
}

type jsonAggregate struct {
	Key       string `json:"key"`
	Count     int    `json:"count"`
	TotalSize int64  `json:"total_size"`
}

type jsonError struct {
	Path    string `json:"path"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type jsonReport struct {
	Root         string          `json:"root"`
	TotalFiles   int             `json:"total_files"`
	TotalSize    int64           `json:"total_size"`
	StartedAt    time.Time       `json:"started_at"`
	FinishedAt   time.Time       `json:"finished_at"`
	Categories   []jsonAggregate `json:"categories"`
	Extensions   []jsonAggregate `json:"extensions"`
	LargestFiles []jsonFile      `json:"largest_files"`
	Files        []jsonFile      `json:"files"`
	Errors       []jsonError     `json:"errors"`
}

// WriteJSON writes the full structured report: totals, both aggregates,
// the largest files and the complete inventory with errors.
func (w *Writer) WriteJSON(path string, result *entity.AnalysisResult) error {
	report := jsonReport{
		Root:       result.Root,
		TotalFiles: result.TotalFiles,
		TotalSize:  result.TotalSize,
		StartedAt:  result.StartedAt,
		FinishedAt: result.FinishedAt,
	}

	for _, cat := range entity.Categories() {
		if stat, ok := result.ByCategory[cat]; ok {
			report.Categories = append(report.Categories,
				jsonAggregate{Key: cat.String(), Count: stat.Count, TotalSize: stat.Size})
		}
	}

	exts := make([]string, 0, len(result.ByExtension))
	for ext := range result.ByExtension {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	for _, ext := range exts {
		stat := result.ByExtension[ext]
		report.Extensions = append(report.Extensions,
			jsonAggregate{Key: ext, Count: stat.Count, TotalSize: stat.Size})
	}

	for _, rec := range result.LargestFiles(largestFilesLimit) {
		report.LargestFiles = append(report.LargestFiles, toJSONFile(rec))
	}
	for _, rec := range result.Records {
		report.Files = append(report.Files, toJSONFile(rec))
	}
	for _, se := range result.Errors {
		report.Errors = append(report.Errors,
			jsonError{Path: se.Path, Kind: string(se.Kind), Message: se.Message})
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot marshal report: %w", err)
	}

	if err := afero.WriteFile(w.fs, path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write report file: %w", err)
	}

	w.log.Info("Report written", slog.String("path", path), slog.Int("files", len(report.Files)))

	return nil
}

func toJSONFile(rec *entity.FileRecord) jsonFile {
	return jsonFile{
		ID:        rec.ID,
		Path:      rec.Path,
		Category:  rec.Category.String(),
		Size:      rec.Size,
		Extension: rec.Extension,
		MIMEType:  rec.MIMEType,
	}
}
