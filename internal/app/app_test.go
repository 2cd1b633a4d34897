package app

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/fileorg/fileorg/internal/config"
	"github.com/fileorg/fileorg/internal/entity"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testApp(t *testing.T, fs afero.Fs) *App {
	t.Helper()

	cfg := config.MustLoad("/nonexistent-config.yml")
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewWithFs(fs, cfg, log)
}

func TestAnalyzeWithReports(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/pic.jpg", []byte("abc"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/data/doc.pdf", []byte("defg"), 0o644))

	a := testApp(t, fs)

	result, runID, err := a.Analyze(context.Background(), AnalyzeParams{
		Root:      "/data",
		ReportDir: "/reports",
		Formats:   []string{"csv", "json", "html"},
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, runID)

	assert.Equal(t, 2, result.TotalFiles)
	assert.Equal(t, 1, result.ByCategory[entity.CategoryImage].Count)
	assert.Equal(t, 1, result.ByCategory[entity.CategoryDocument].Count)

	for _, name := range []string{
		"/reports/files.csv",
		"/reports/categories.csv",
		"/reports/extensions.csv",
		"/reports/report.json",
		"/reports/report.html",
	} {
		exists, err := afero.Exists(fs, name)
		require.NoError(t, err)
		assert.True(t, exists, "expected report %s", name)
	}
}

func TestExportFreshScan(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/pic.jpg", []byte("abc"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/data/sub/doc.pdf", []byte("defg"), 0o644))

	a := testApp(t, fs)

	result, err := a.Export(context.Background(), ExportParams{
		Root: "/data",
		Dest: "/sorted",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Copied)
	assert.Equal(t, 0, result.Failed)

	data, err := afero.ReadFile(fs, "/sorted/image/pic.jpg")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))

	data, err = afero.ReadFile(fs, "/sorted/document/doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, "defg", string(data))
}
