// Package classify maps a file path to one of the fixed category buckets
// using the platform MIME table first and static extension tables as a
// fallback. Classification is pure and total: any input resolves to
// exactly one category, unrecognized inputs degrade to unknown.
package classify

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/fileorg/fileorg/internal/entity"
)

var mimePrefixes = []struct {
	prefix   string
	category entity.Category
}{
	{"image/", entity.CategoryImage},
	{"video/", entity.CategoryVideo},
	{"audio/", entity.CategoryAudio},
	{"text/", entity.CategoryDocument},
	{"application/pdf", entity.CategoryDocument},
	{"application/msword", entity.CategoryDocument},
	{"application/vnd.openxmlformats-officedocument", entity.CategoryDocument},
	{"application/vnd.oasis.opendocument", entity.CategoryDocument},
	{"application/json", entity.CategoryDocument},
	{"application/xml", entity.CategoryDocument},
	{"application/zip", entity.CategoryArchive},
	{"application/x-rar", entity.CategoryArchive},
	{"application/x-tar", entity.CategoryArchive},
	{"application/gzip", entity.CategoryArchive},
	{"application/x-7z-compressed", entity.CategoryArchive},
	{"application/x-executable", entity.CategoryExecutable},
	{"application/x-msdownload", entity.CategoryExecutable},
}

var extCategories = map[string]entity.Category{
	// images
	"jpg": entity.CategoryImage, "jpeg": entity.CategoryImage,
	"png": entity.CategoryImage, "gif": entity.CategoryImage,
	"bmp": entity.CategoryImage, "tiff": entity.CategoryImage,
	"tif": entity.CategoryImage, "webp": entity.CategoryImage,
	"svg": entity.CategoryImage, "ico": entity.CategoryImage,
	"raw": entity.CategoryImage, "cr2": entity.CategoryImage,
	"nef": entity.CategoryImage, "arw": entity.CategoryImage,

	// videos
	"mp4": entity.CategoryVideo, "avi": entity.CategoryVideo,
	"mkv": entity.CategoryVideo, "mov": entity.CategoryVideo,
	"wmv": entity.CategoryVideo, "flv": entity.CategoryVideo,
	"webm": entity.CategoryVideo, "m4v": entity.CategoryVideo,
	"mpg": entity.CategoryVideo, "mpeg": entity.CategoryVideo,
	"3gp": entity.CategoryVideo, "ts": entity.CategoryVideo,
	"vob": entity.CategoryVideo,

	// audio
	"mp3": entity.CategoryAudio, "wav": entity.CategoryAudio,
	"flac": entity.CategoryAudio, "aac": entity.CategoryAudio,
	"ogg": entity.CategoryAudio, "wma": entity.CategoryAudio,
	"m4a": entity.CategoryAudio, "opus": entity.CategoryAudio,
	"aiff": entity.CategoryAudio, "au": entity.CategoryAudio,

	// documents
	"pdf": entity.CategoryDocument, "doc": entity.CategoryDocument,
	"docx": entity.CategoryDocument, "txt": entity.CategoryDocument,
	"rtf": entity.CategoryDocument, "odt": entity.CategoryDocument,
	"xls": entity.CategoryDocument, "xlsx": entity.CategoryDocument,
	"ppt": entity.CategoryDocument, "pptx": entity.CategoryDocument,
	"odp": entity.CategoryDocument, "ods": entity.CategoryDocument,
	"csv": entity.CategoryDocument, "md": entity.CategoryDocument,
	"html": entity.CategoryDocument, "htm": entity.CategoryDocument,
	"xml": entity.CategoryDocument, "json": entity.CategoryDocument,
	"yaml": entity.CategoryDocument, "yml": entity.CategoryDocument,

	// archives
	"zip": entity.CategoryArchive, "rar": entity.CategoryArchive,
	"7z": entity.CategoryArchive, "tar": entity.CategoryArchive,
	"gz": entity.CategoryArchive, "bz2": entity.CategoryArchive,
	"xz": entity.CategoryArchive, "jar": entity.CategoryArchive,
	"war": entity.CategoryArchive, "ear": entity.CategoryArchive,

	// executables
	"exe": entity.CategoryExecutable, "msi": entity.CategoryExecutable,
	"deb": entity.CategoryExecutable, "rpm": entity.CategoryExecutable,
	"dmg": entity.CategoryExecutable, "pkg": entity.CategoryExecutable,
	"app": entity.CategoryExecutable, "run": entity.CategoryExecutable,
	"bin": entity.CategoryExecutable,
}

// Classify resolves a path to (category, mimeType, extension). The MIME
// type comes from the platform extension table and may be empty; the
// extension is lowercased with the leading dot stripped.
func Classify(path string) (entity.Category, string, string) {
	ext := Extension(path)

	var mimeType string
	if ext != "" {
		mimeType = mime.TypeByExtension("." + ext)
	}

	if mimeType != "" {
		for _, m := range mimePrefixes {
			if strings.HasPrefix(mimeType, m.prefix) {
				return m.category, mimeType, ext
			}
		}
	}

	if cat, ok := extCategories[ext]; ok {
		return cat, mimeType, ext
	}

	return entity.CategoryUnknown, mimeType, ext
}

// Extension extracts the lowercased extension of the final path segment
// without the leading dot; empty when the name has none. A dotfile like
// ".bashrc" counts as having no extension.
func Extension(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == base {
		return ""
	}

	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
