package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/fileorg/fileorg/internal/common"
	"github.com/fileorg/fileorg/internal/entity"
	"github.com/fileorg/fileorg/internal/progress"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, fs afero.Fs, path, content string) *entity.FileRecord {
	t.Helper()

	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))

	return &entity.FileRecord{
		Path:      path,
		Size:      int64(len(content)),
		Category:  entity.CategoryDocument,
		Extension: "txt",
	}
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err, "expected %s to exist", path)

	return string(data)
}

func TestExportCollisionResolution(t *testing.T) {
	fs := afero.NewMemMapFs()
	records := []*entity.FileRecord{
		writeFile(t, fs, "/src/a/x.txt", "one"),
		writeFile(t, fs, "/src/b/x.txt", "two"),
	}

	e := NewWithFs(fs, Options{}, testLogger())
	result, err := e.Run(context.Background(), records, "/src", "/out")
	require.NoError(t, err)

	assert.Equal(t, 2, result.Copied)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, int64(6), result.Bytes)

	// Both files survive under distinct names with no data loss.
	assert.Equal(t, "one", readFile(t, fs, "/out/document/x.txt"))
	assert.Equal(t, "two", readFile(t, fs, "/out/document/x (1).txt"))
}

func TestExportCollisionWithExistingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/out/document/x.txt", []byte("old"), 0o644))
	records := []*entity.FileRecord{writeFile(t, fs, "/src/x.txt", "new")}

	e := NewWithFs(fs, Options{}, testLogger())
	result, err := e.Run(context.Background(), records, "/src", "/out")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Copied)
	assert.Equal(t, "old", readFile(t, fs, "/out/document/x.txt"))
	assert.Equal(t, "new", readFile(t, fs, "/out/document/x (1).txt"))
}

func TestExportPlanDestinationsDistinct(t *testing.T) {
	fs := afero.NewMemMapFs()
	var records []*entity.FileRecord
	for i := 0; i < 10; i++ {
		records = append(records, writeFile(t, fs, fmt.Sprintf("/src/d%d/same.txt", i), "x"))
	}

	e := NewWithFs(fs, Options{}, testLogger())
	plan, err := e.Plan(records, "/src", "/out")
	require.NoError(t, err)
	require.Len(t, plan, 10)

	seen := make(map[string]struct{})
	for _, item := range plan {
		require.NotEmpty(t, item.Dest)
		_, dup := seen[item.Dest]
		assert.False(t, dup, "duplicate destination %s", item.Dest)
		seen[item.Dest] = struct{}{}
	}
}

func TestExportPreserveStructure(t *testing.T) {
	fs := afero.NewMemMapFs()
	records := []*entity.FileRecord{
		writeFile(t, fs, "/src/docs/deep/a.txt", "abc"),
		writeFile(t, fs, "/src/b.txt", "de"),
	}

	e := NewWithFs(fs, Options{PreserveStructure: true}, testLogger())
	result, err := e.Run(context.Background(), records, "/src", "/out")
	require.NoError(t, err)

	assert.Equal(t, 2, result.Copied)
	assert.Equal(t, "abc", readFile(t, fs, "/out/document/docs/deep/a.txt"))
	assert.Equal(t, "de", readFile(t, fs, "/out/document/b.txt"))
}

func TestExportMoveRemovesSource(t *testing.T) {
	fs := afero.NewMemMapFs()
	records := []*entity.FileRecord{writeFile(t, fs, "/src/a.txt", "abc")}

	e := NewWithFs(fs, Options{Mode: ModeMove}, testLogger())
	result, err := e.Run(context.Background(), records, "/src", "/out")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Copied)
	assert.Equal(t, "abc", readFile(t, fs, "/out/document/a.txt"))

	exists, err := afero.Exists(fs, "/src/a.txt")
	require.NoError(t, err)
	assert.False(t, exists, "moved source must be gone")
}

// failRemoveFs refuses to remove one path, simulating a source that cannot
// be cleaned up after a move.
type failRemoveFs struct {
	afero.Fs
	path string
}

func (f *failRemoveFs) Remove(name string) error {
	if name == f.path {
		return fmt.Errorf("remove %s: permission denied", name)
	}

	return f.Fs.Remove(name)
}

func TestExportMoveCleanupFailure(t *testing.T) {
	mem := afero.NewMemMapFs()
	records := []*entity.FileRecord{writeFile(t, mem, "/src/a.txt", "abc")}
	fs := &failRemoveFs{Fs: mem, path: "/src/a.txt"}

	e := NewWithFs(fs, Options{Mode: ModeMove}, testLogger())
	result, err := e.Run(context.Background(), records, "/src", "/out")
	require.NoError(t, err)

	// The copy succeeded but the duplicate must be reported distinctly.
	assert.Equal(t, 0, result.Copied)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, common.ErrorKindCleanup, result.Errors[0].Kind)

	assert.Equal(t, "abc", readFile(t, fs, "/out/document/a.txt"))
	assert.Equal(t, "abc", readFile(t, fs, "/src/a.txt"))
}

func TestExportSourceVanished(t *testing.T) {
	fs := afero.NewMemMapFs()
	records := []*entity.FileRecord{
		{Path: "/src/ghost.txt", Size: 3, Category: entity.CategoryDocument, Extension: "txt"},
		writeFile(t, fs, "/src/real.txt", "ok"),
	}

	e := NewWithFs(fs, Options{}, testLogger())
	result, err := e.Run(context.Background(), records, "/src", "/out")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Copied)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, common.ErrorKindTransfer, result.Errors[0].Kind)
	assert.Equal(t, "/src/ghost.txt", result.Errors[0].Source)

	// One failure never aborts the batch.
	assert.Equal(t, "ok", readFile(t, fs, "/out/document/real.txt"))
}

func TestExportExtensionFilter(t *testing.T) {
	fs := afero.NewMemMapFs()
	txt := writeFile(t, fs, "/src/a.txt", "abc")
	jpg := &entity.FileRecord{Path: "/src/p.jpg", Size: 1, Category: entity.CategoryImage, Extension: "jpg"}
	require.NoError(t, afero.WriteFile(fs, jpg.Path, []byte("x"), 0o644))

	e := NewWithFs(fs, Options{Extensions: []string{".TXT"}}, testLogger())
	result, err := e.Run(context.Background(), []*entity.FileRecord{txt, jpg}, "/src", "/out")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Copied)
	exists, _ := afero.Exists(fs, "/out/image/p.jpg")
	assert.False(t, exists)
}

func TestExportDestInsideSource(t *testing.T) {
	fs := afero.NewMemMapFs()
	records := []*entity.FileRecord{writeFile(t, fs, "/src/a.txt", "abc")}

	e := NewWithFs(fs, Options{}, testLogger())
	_, err := e.Run(context.Background(), records, "/src", "/src/organized")
	require.ErrorIs(t, err, common.ErrDestInsideSource)
}

type cancelAfterSink struct {
	cancel context.CancelFunc
}

func (s *cancelAfterSink) Publish(progress.Event) {
	s.cancel()
}

func TestExportCancellation(t *testing.T) {
	fs := afero.NewMemMapFs()
	var records []*entity.FileRecord
	for i := 0; i < 10; i++ {
		records = append(records, writeFile(t, fs, fmt.Sprintf("/src/f%d.txt", i), "abc"))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	e := NewWithFs(fs, Options{ProgressEvery: 1, Sink: &cancelAfterSink{cancel: cancel}}, testLogger())
	result, err := e.Run(ctx, records, "/src", "/out")
	require.NoError(t, err, "cancellation is not an error")

	assert.Less(t, result.Copied+result.Failed, 10, "export should have stopped early")
	assert.GreaterOrEqual(t, result.Copied, 1)
	assert.Len(t, result.Errors, result.Failed)
}
