package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/fileorg/fileorg/internal/progress"
	"github.com/fileorg/fileorg/internal/util"
	"github.com/mattn/go-isatty"
)

var (
	pathColor  = color.New(color.FgCyan)
	countColor = color.New(color.FgGreen, color.Bold)
	errColor   = color.New(color.FgRed)
)

// renderer draws progress updates on a single terminal line. On a
// non-terminal it stays silent; progress is advisory, not a log.
type renderer struct {
	tty bool
}

func newRenderer() *renderer {
	return &renderer{tty: isatty.IsTerminal(os.Stderr.Fd())}
}

func (r *renderer) render(ev progress.Event) {
	if !r.tty {
		return
	}

	line := fmt.Sprintf("%s files, %s", countColor.Sprint(ev.Processed), util.FormatSize(ev.Bytes))
	if ev.Total != progress.TotalUnknown {
		line = fmt.Sprintf("%s/%d files, %s", countColor.Sprint(ev.Processed), ev.Total, util.FormatSize(ev.Bytes))
	}
	if ev.Errors > 0 {
		line += errColor.Sprintf(", %d errors", ev.Errors)
	}
	if ev.CurrentPath != "" {
		line += "  " + pathColor.Sprint(ev.CurrentPath)
	}

	fmt.Fprintf(os.Stderr, "\r\033[K%s", line)
}

func (r *renderer) finish() {
	if r.tty {
		fmt.Fprint(os.Stderr, "\r\033[K")
	}
}

// drain consumes progress events until done closes, keeping the latest
// state on screen.
func (r *renderer) drain(sink *progress.LatestSink, done <-chan struct{}) {
	for {
		select {
		case ev := <-sink.Events():
			r.render(ev)
		case <-done:
			r.finish()

			return
		}
	}
}
