package cmd

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/firstaide/firstaide/internal/log"
)

// tailSize bounds how much of a streamed child's stderr is kept for errors.
const tailSize = 4096

// Error is a failed command. Its message is the last non-empty line of the
// child's stderr when there was any, otherwise the underlying error.
type Error struct {
	Name string
	// Stderr is the child's trimmed stderr, or its tail for streamed
	// commands.
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	if line := lastLine(e.Stderr); line != "" {
		return line
	}
	return e.Err.Error()
}

func lastLine(s string) string {
	lines := strings.Split(s, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

func (e *Error) Unwrap() error { return e.Err }

// Options configures a streamed command.
type Options struct {
	Dir string
	// Env replaces the child's environment when non-nil.
	Env    []string
	Stdout io.Writer
	Stderr io.Writer
}

// OutputContext executes a command and returns stdout, with stderr in the
// error if it fails.
func OutputContext(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	c := command(ctx, Options{Dir: dir, Stdout: &stdout, Stderr: &stderr}, name, args...)
	if err := run(ctx, c, name); err != nil {
		return nil, wrap(ctx, name, stderr.String(), err)
	}
	return stdout.Bytes(), nil
}

// Stream executes a command forwarding its output to opts.Stdout and
// opts.Stderr as it runs. A nil writer discards that stream. Stdout and
// Stderr may be the same writer.
func Stream(ctx context.Context, opts Options, name string, args ...string) error {
	o := opts
	if o.Stdout != nil && sameWriter(o.Stdout, o.Stderr) {
		shared := &syncWriter{w: o.Stdout}
		o.Stdout, o.Stderr = shared, shared
	}
	tail := &tailBuffer{max: tailSize}
	o.Stderr = teeTail(o.Stderr, tail)
	c := command(ctx, o, name, args...)
	if err := run(ctx, c, name); err != nil {
		return wrap(ctx, name, tail.String(), err)
	}
	return nil
}

func command(ctx context.Context, opts Options, name string, args ...string) *exec.Cmd {
	c := exec.CommandContext(ctx, name, args...)
	c.Dir = opts.Dir
	if opts.Env != nil {
		c.Env = opts.Env
	}
	c.Stdout = opts.Stdout
	c.Stderr = opts.Stderr
	return c
}

func run(ctx context.Context, c *exec.Cmd, name string) error {
	done := log.FromContext(ctx).Command(c.Dir, name, c.Args[1:]...)
	start := time.Now()
	err := c.Run()
	done(time.Since(start))
	return err
}

func wrap(ctx context.Context, name, stderr string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return &Error{Name: name, Stderr: strings.TrimSpace(stderr), Err: err}
}

func teeTail(w io.Writer, tail *tailBuffer) io.Writer {
	if w == nil {
		return tail
	}
	return io.MultiWriter(w, tail)
}

// sameWriter reports whether a and b are the same writer. Writers whose
// dynamic type is not comparable are never the same.
func sameWriter(a, b io.Writer) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}

// syncWriter serializes writes from the stdout and stderr copy goroutines
// into one writer.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	max int
	buf []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string { return string(t.buf) }
