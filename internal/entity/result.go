package entity

import (
	"sort"
	"time"

	"github.com/fileorg/fileorg/internal/common"
)

// Stat is an aggregate bucket: how many files and how many bytes.
type Stat struct {
	Count int
	Size  int64
}

// AnalysisResult accumulates everything a scan discovers. Every file
// updates the record list, both aggregate maps and the totals before the
// next file is processed, so the counting invariants hold at any point,
// including after a cancelled scan:
//
//	sum(ByCategory[*].Count) == TotalFiles == len(Records)
//	sum(ByCategory[*].Size)  == TotalSize
type AnalysisResult struct {
	Root        string
	Records     []*FileRecord
	ByCategory  map[Category]Stat
	ByExtension map[string]Stat
	TotalFiles  int
	TotalSize   int64
	Errors      []ScanError
	StartedAt   time.Time
	FinishedAt  time.Time
}

func NewAnalysisResult(root string) *AnalysisResult {
	return &AnalysisResult{
		Root:        root,
		ByCategory:  make(map[Category]Stat),
		ByExtension: make(map[string]Stat),
		StartedAt:   time.Now(),
	}
}

// Add registers a discovered file in the record list, both aggregate maps
// and the totals.
func (r *AnalysisResult) Add(rec *FileRecord) {
	r.Records = append(r.Records, rec)

	cs := r.ByCategory[rec.Category]
	cs.Count++
	cs.Size += rec.Size
	r.ByCategory[rec.Category] = cs

	es := r.ByExtension[rec.Extension]
	es.Count++
	es.Size += rec.Size
	r.ByExtension[rec.Extension] = es

	r.TotalFiles++
	r.TotalSize += rec.Size
}

// AddError records a per-item scan failure. The failed item is not part
// of any aggregate.
func (r *AnalysisResult) AddError(path string, kind common.ErrorKind, err error) {
	r.Errors = append(r.Errors, ScanError{Path: path, Kind: kind, Message: err.Error()})
}

// LargestFiles returns up to n records ordered by size, largest first.
// Ties keep scan order.
func (r *AnalysisResult) LargestFiles(n int) []*FileRecord {
	out := make([]*FileRecord, len(r.Records))
	copy(out, r.Records)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Size > out[j].Size })

	if n < len(out) {
		out = out[:n]
	}

	return out
}
