package log

import (
	stdlog "log"
	"strings"
)

// RedirectStdLog routes the standard library's default logger through l at
// Info level, so libraries logging via the stdlib logger end up in the
// structured output.
func RedirectStdLog(l Logger) {
	stdlog.SetFlags(0)
	stdlog.SetOutput(stdWriter{l: l})
}

type stdWriter struct{ l Logger }

func (w stdWriter) Write(p []byte) (int, error) {
	w.l.Info(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
