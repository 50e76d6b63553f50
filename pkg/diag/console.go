package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// ConsoleSink writes diagnostics as single lines to an io.Writer,
// colourizing severity when the writer is an interactive terminal.
type ConsoleSink struct {
	w      io.Writer
	colour bool
}

// NewConsoleSink wraps w. If w is os.Stdout/os.Stderr and that
// descriptor is an interactive terminal, output is colourized through
// a Windows-safe ANSI writer; otherwise colour codes are omitted so
// redirected/piped output stays clean.
func NewConsoleSink(w io.Writer) *ConsoleSink {
	colour := false
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		w = colorable.NewColorable(f)
		colour = true
	}
	return &ConsoleSink{w: w, colour: colour}
}

const (
	ansiYellow = "\x1b[33m"
	ansiRed    = "\x1b[31m"
	ansiReset  = "\x1b[0m"
)

func (s *ConsoleSink) Warn(op, message string, ctx map[string]any) {
	if s.colour {
		fmt.Fprintf(s.w, "%swarn%s  [%s] %s %v\n", ansiYellow, ansiReset, op, message, ctx)
		return
	}
	fmt.Fprintf(s.w, "warn  [%s] %s %v\n", op, message, ctx)
}

func (s *ConsoleSink) Error(err *Error) {
	if s.colour {
		fmt.Fprintf(s.w, "%serror%s [%s] %s: %s %v\n", ansiRed, ansiReset, err.Op, err.Code, err.Detail, err.Context)
		return
	}
	fmt.Fprintf(s.w, "error [%s] %s: %s %v\n", err.Op, err.Code, err.Detail, err.Context)
}
