package report

import (
	"bytes"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/fileorg/fileorg/internal/entity"
	"github.com/fileorg/fileorg/internal/util"
	"github.com/spf13/afero"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const htmlPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Scan report</title>
</head>
<body>
%s</body>
</html>
`

// Markdown renders the summary part of the report: totals, the category
// table and the extension table. Extensions are sorted for stable output.
func Markdown(result *entity.AnalysisResult) string {
	var b bytes.Buffer

	fmt.Fprintf(&b, "# Scan report: %s\n\n", result.Root)
	fmt.Fprintf(&b, "Total: **%d** files, **%s**, %d errors.\n\n",
		result.TotalFiles, util.FormatSize(result.TotalSize), len(result.Errors))

	b.WriteString("## Categories\n\n")
	b.WriteString("| Category | Count | Size |\n| --- | --- | --- |\n")
	for _, cat := range entity.Categories() {
		stat, ok := result.ByCategory[cat]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "| %s | %d | %s |\n", cat, stat.Count, util.FormatSize(stat.Size))
	}

	exts := make([]string, 0, len(result.ByExtension))
	for ext := range result.ByExtension {
		exts = append(exts, ext)
	}
	sort.Strings(exts)

	b.WriteString("\n## Extensions\n\n")
	b.WriteString("| Extension | Count | Size |\n| --- | --- | --- |\n")
	for _, ext := range exts {
		stat := result.ByExtension[ext]
		name := ext
		if name == "" {
			name = "(none)"
		}
		fmt.Fprintf(&b, "| %s | %d | %s |\n", name, stat.Count, util.FormatSize(stat.Size))
	}

	if n := len(result.Errors); n > 0 {
		fmt.Fprintf(&b, "\n## Errors\n\n%s skipped items.\n", strconv.Itoa(n))
	}

	return b.String()
}

// WriteHTML renders the Markdown summary to a standalone HTML page.
func (w *Writer) WriteHTML(path string, result *entity.AnalysisResult) error {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(result)), &body); err != nil {
		return fmt.Errorf("cannot render summary: %w", err)
	}

	page := fmt.Sprintf(htmlPage, body.String())
	if err := afero.WriteFile(w.fs, path, []byte(page), 0o644); err != nil {
		return fmt.Errorf("cannot write report file: %w", err)
	}

	w.log.Info("Report written", slog.String("path", path))

	return nil
}
