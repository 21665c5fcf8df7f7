package progress

import (
	"io"

	"github.com/mattn/go-isatty"

	"github.com/firstaide/firstaide/internal/log"
)

// Reporter logs build steps and shows a spinner during slow ones when its
// output is a terminal.
type Reporter struct {
	log *log.Logger
	out io.Writer
	tty bool
}

// NewReporter returns a Reporter logging to l and drawing spinners on out.
// Spinners are disabled when out is not a terminal or l is quiet.
func NewReporter(l *log.Logger, out io.Writer, quiet bool) *Reporter {
	return &Reporter{log: l, out: out, tty: !quiet && IsTerminal(out)}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Step logs msg.
func (r *Reporter) Step(msg string) {
	r.log.Info("%s", msg)
}

// Spin logs msg and runs fn, showing a spinner until it returns.
func (r *Reporter) Spin(msg string, fn func() error) error {
	r.log.Info("%s", msg)
	if !r.tty {
		return fn()
	}
	s := NewSpinner(r.out, msg)
	s.Start()
	defer s.Stop()
	return fn()
}
