package entity

import "github.com/fileorg/fileorg/internal/common"

// PlanEntry maps one source record to the destination path chosen for it.
// All destinations within one plan are pairwise distinct.
type PlanEntry struct {
	Record *FileRecord
	Dest   string
}

// ExportError is a per-file transfer failure. KindCleanup means the copy
// itself succeeded but the source could not be removed afterwards, so the
// file now exists in both places.
type ExportError struct {
	Source  string
	Kind    common.ErrorKind
	Message string
}

// ExportResult summarizes one export run. Copied + Failed always equals
// the number of plan entries attempted, and every failed entry has exactly
// one entry in Errors.
type ExportResult struct {
	Copied int
	Failed int
	Bytes  int64
	Errors []ExportError
}

func (r *ExportResult) AddError(source string, kind common.ErrorKind, err error) {
	r.Failed++
	r.Errors = append(r.Errors, ExportError{Source: source, Kind: kind, Message: err.Error()})
}
