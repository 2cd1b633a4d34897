package entity

import "github.com/fileorg/fileorg/internal/common"

// FileRecord describes a single scanned file. Records are created by the
// analyzer during a scan and never mutated afterwards.
type FileRecord struct {
	ID        string   // Stable identifier, a hash of the file path
	Path      string   // Absolute path to the file
	Size      int64    // Size in bytes
	Category  Category // Classification bucket
	MIMEType  string   // MIME type, empty when no table entry matched
	Extension string   // Lowercased extension without the leading dot, may be empty
}

// ScanError is a per-item failure recorded during a scan. The list order
// matches discovery order and entries are never removed.
type ScanError struct {
	Path    string
	Kind    common.ErrorKind
	Message string
}
