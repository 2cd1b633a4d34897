package common

import "fmt"

// ErrorKind labels a recorded per-item error so callers can group and
// render them. Only the root-level condition aborts an operation; every
// other kind is collected into the result and the run continues.
type ErrorKind string

const (
	ErrorKindRootUnreadable ErrorKind = "root_unreadable"
	ErrorKindStat           ErrorKind = "stat_error"
	ErrorKindRead           ErrorKind = "read_error"
	ErrorKindTransfer       ErrorKind = "transfer_error"
	ErrorKindCleanup        ErrorKind = "cleanup_failed"
)

var (
	ErrRootUnreadable   = fmt.Errorf("root directory does not exist or is not readable")
	ErrDestInsideSource = fmt.Errorf("destination directory is inside the source tree")
	ErrNoRunsFound      = fmt.Errorf("no saved runs found")
	ErrRunNotFound      = fmt.Errorf("run not found")
)
