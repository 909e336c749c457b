package config

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
)

// Logger is the small leveled logger every pass writes progress through
// when `verbose` is set, centralising what the teacher scattered as
// ad hoc fmt.Fprintf(os.Stderr, ...) calls across its CLI.
type Logger struct {
	Out     io.Writer
	Enabled bool
}

func NewLogger(out io.Writer, enabled bool) *Logger {
	return &Logger{Out: out, Enabled: enabled}
}

func (l *Logger) Progress(format string, args ...any) {
	if l == nil || !l.Enabled {
		return
	}
	fmt.Fprintf(l.Out, "-- "+format+"\n", args...)
}

// Stage logs a named stage's duration and a byte count, humanised, the way
// a verbose build log reports "parsed 3 modules in 12ms (4.1 kB)".
func (l *Logger) Stage(name string, start time.Time, bytes int) {
	if l == nil || !l.Enabled {
		return
	}
	fmt.Fprintf(l.Out, "-- %s: %s (%s)\n", name, time.Since(start), humanize.Bytes(uint64(bytes)))
}
