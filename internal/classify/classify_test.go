package classify

import (
	"testing"

	"github.com/fileorg/fileorg/internal/entity"
	"github.com/stretchr/testify/assert"
)

func TestClassifyCategories(t *testing.T) {
	cases := []struct {
		path string
		want entity.Category
	}{
		{"/photos/holiday.jpg", entity.CategoryImage},
		{"/photos/RAW/IMG_0001.CR2", entity.CategoryImage},
		{"/movies/clip.mp4", entity.CategoryVideo},
		{"/movies/old.MKV", entity.CategoryVideo},
		{"/music/song.mp3", entity.CategoryAudio},
		{"/music/take.flac", entity.CategoryAudio},
		{"/docs/report.pdf", entity.CategoryDocument},
		{"/docs/letter.docx", entity.CategoryDocument},
		{"/docs/notes.txt", entity.CategoryDocument},
		{"/backup/archive.zip", entity.CategoryArchive},
		{"/backup/data.tar", entity.CategoryArchive},
		{"/bin/setup.exe", entity.CategoryExecutable},
		{"/bin/pkg.deb", entity.CategoryExecutable},
		{"/misc/file.unknownext", entity.CategoryUnknown},
		{"/misc/noextension", entity.CategoryUnknown},
		{"", entity.CategoryUnknown},
	}

	for _, tc := range cases {
		cat, _, _ := Classify(tc.path)
		assert.Equal(t, tc.want, cat, "path %q", tc.path)
	}
}

func TestClassifyNeverFails(t *testing.T) {
	valid := make(map[entity.Category]struct{})
	for _, c := range entity.Categories() {
		valid[c] = struct{}{}
	}

	inputs := []string{
		"", ".", "..", "...", "/", "////", ".hidden", "name.", "a.b.c.JPG",
		"weird\x00name", "verylongname" + string(make([]byte, 300)),
	}

	for _, in := range inputs {
		cat, _, _ := Classify(in)
		_, ok := valid[cat]
		assert.True(t, ok, "category %q for input %q is not one of the fixed buckets", cat, in)
	}
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "jpg", Extension("/a/b/photo.JPG"))
	assert.Equal(t, "gz", Extension("backup.tar.gz"))
	assert.Equal(t, "", Extension("/a/b/README"))
	assert.Equal(t, "", Extension(""))
}

func TestClassifyExtensionFallback(t *testing.T) {
	// No platform MIME entry exists for these; the static tables decide.
	cat, _, ext := Classify("/files/data.7z")
	assert.Equal(t, entity.CategoryArchive, cat)
	assert.Equal(t, "7z", ext)

	cat, _, _ = Classify("/files/tool.exe")
	assert.Equal(t, entity.CategoryExecutable, cat)
}
