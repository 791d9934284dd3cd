//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/muesli/termenv"
)

type hostLogger struct {
	mu  sync.Mutex
	w   io.Writer
	out *termenv.Output
}

// newHostLogger writes lines to w. With color set, lines carrying a slog
// WARN or ERROR level are tinted for the terminal.
func newHostLogger(w io.Writer, color bool) *hostLogger {
	l := &hostLogger{w: w}
	if color {
		l.out = termenv.NewOutput(w)
	}
	return l
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, l.tint(s))
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.WriteLineString(strings.TrimRight(string(b), "\n"))
}

func (l *hostLogger) tint(s string) string {
	if l.out == nil {
		return s
	}
	switch {
	case strings.Contains(s, "level=ERROR"):
		return l.out.String(s).Foreground(l.out.Color("#FF6B6B")).String()
	case strings.Contains(s, "level=WARN"):
		return l.out.String(s).Foreground(l.out.Color("#FFA500")).String()
	}
	return s
}
