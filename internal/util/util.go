package util

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
)

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB", "PB"}

func GetIDFromString(str *string) string {
	hasher := sha1.New()
	hasher.Write([]byte(*str))

	return hex.EncodeToString(hasher.Sum(nil))
}

// FormatSize renders a byte count in a human-readable form: "512 B",
// "1.5 MB".
func FormatSize(size int64) string {
	if size < 0 {
		size = 0
	}

	value := float64(size)
	idx := 0
	for value >= 1024.0 && idx < len(sizeUnits)-1 {
		value /= 1024.0
		idx++
	}

	if idx == 0 {
		return fmt.Sprintf("%d %s", size, sizeUnits[idx])
	}

	return fmt.Sprintf("%.1f %s", value, sizeUnits[idx])
}

// SanitizeFilename replaces characters that are invalid in file names on
// common filesystems and guarantees a non-empty result.
func SanitizeFilename(name string) string {
	const invalid = `<>:"/\|?*`

	var b strings.Builder
	for _, r := range name {
		if strings.ContainsRune(invalid, r) {
			b.WriteRune('_')

			continue
		}
		b.WriteRune(r)
	}

	out := strings.Trim(b.String(), ". ")
	if out == "" {
		return "unnamed_file"
	}

	return out
}
