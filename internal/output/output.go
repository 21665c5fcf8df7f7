// Package output provides context-aware primary output for firstaide.
// Stdout carries the hook script and status reports.
// Stderr (via log package) is used for diagnostics.
package output

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/colorprofile"
)

type ctxKey struct{}

// Printer writes primary output to stdout.
type Printer struct {
	w      io.Writer
	styled io.Writer
}

// New creates a Printer writing to w. Styled output is downsampled to the
// colour profile detected for w and environ (NO_COLOR, TERM, ...).
func New(w io.Writer, environ []string) *Printer {
	return &Printer{
		w: w,
		styled: &colorprofile.Writer{
			Forward: w,
			Profile: colorprofile.Detect(w, environ),
		},
	}
}

// WithPrinter attaches a Printer to the context.
func WithPrinter(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext retrieves the Printer from context.
// Returns a Printer writing to os.Stdout if none is attached.
func FromContext(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stdout, os.Environ())
}

// Emit writes b with a single write call, so the reader sees either all of
// it or, if the write fails, an error.
func (p *Printer) Emit(b []byte) error {
	n, err := p.w.Write(b)
	if err != nil {
		return err
	}
	if n != len(b) {
		return io.ErrShortWrite
	}
	return nil
}

// Println writes a line of output.
func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.w, a...)
}

// Styled returns a writer that strips or downsamples ANSI styling to what
// the output supports.
func (p *Printer) Styled() io.Writer {
	return p.styled
}
