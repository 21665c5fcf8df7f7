// Package direnv drives the direnv executable: version checks, allowing a
// directory, and capturing the environment direnv produces inside and
// outside a project.
//
// Captures work by asking direnv to execute this program's hidden env
// command, which writes the environment it was started with to a file in
// a scratch directory. The scratch directory is removed before the capture
// returns, whatever the outcome.
package direnv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"

	"github.com/firstaide/firstaide/internal/cmd"
	"github.com/firstaide/firstaide/internal/config"
	"github.com/firstaide/firstaide/internal/env"
	"github.com/firstaide/firstaide/internal/log"
	"github.com/firstaide/firstaide/internal/storage"
)

// BuildMarker is set in the environment of the inside capture. A project's
// .envrc checks for it to decide whether to perform the real (and possibly
// slow) activation.
const BuildMarker = "FIRSTAIDE_BUILD"

// EnvCommand is the hidden subcommand direnv runs to dump an environment.
const EnvCommand = "env"

var (
	ErrOutsideCapture = errors.New("could not capture outside environment")
	ErrOutsideDecode  = errors.New("problem decoding outside environment")
	ErrInsideCapture  = errors.New("could not capture inside environment")
	ErrInsideDecode   = errors.New("problem decoding inside environment")
)

// Client runs direnv for one project.
type Client struct {
	// Exe is the direnv executable.
	Exe string
	// BuildDir is the project directory direnv activates.
	BuildDir string
	// ParentDir is where the outside environment is captured.
	ParentDir string
	// SelfExe is the executable direnv runs to dump the environment.
	SelfExe string
	// ScratchDir is where per-capture scratch directories are created.
	ScratchDir string
	// Output receives everything the children print. Nil discards it.
	Output io.Writer
	// Environ returns the environment for the outside capture.
	// Defaults to os.Environ.
	Environ func() []string
}

// New returns a Client for the project described by cfg.
func New(cfg *config.Config, output io.Writer) *Client {
	return &Client{
		Exe:        cfg.DirenvExe,
		BuildDir:   cfg.BuildDir,
		ParentDir:  cfg.ParentDir(),
		SelfExe:    cfg.SelfExe,
		ScratchDir: cfg.CacheDir,
		Output:     output,
	}
}

// Version returns the version reported by `direnv version`.
func (c *Client) Version(ctx context.Context) (*semver.Version, error) {
	out, err := cmd.OutputContext(ctx, "", c.Exe, "version")
	if err != nil {
		return nil, fmt.Errorf("run %s version: %w", c.Exe, err)
	}
	raw := string(bytes.TrimSpace(out))
	v, err := semver.NewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("could not parse direnv version %q: %w", raw, err)
	}
	return v, nil
}

// Allow runs `direnv allow` for the build directory.
func (c *Client) Allow(ctx context.Context) error {
	return cmd.Stream(ctx, c.options(nil), c.Exe, "allow", c.BuildDir)
}

// CaptureOutside returns the environment direnv produces in ParentDir,
// starting from the current process environment.
func (c *Client) CaptureOutside(ctx context.Context) (env.Snapshot, error) {
	environ := os.Environ
	if c.Environ != nil {
		environ = c.Environ
	}
	snap, err := c.capture(ctx, c.ParentDir, "outside", environ())
	if err != nil {
		return nil, classify(err, ErrOutsideCapture, ErrOutsideDecode)
	}
	return snap, nil
}

// CaptureInside returns the environment direnv produces in the build
// directory, starting from baseline plus [BuildMarker]. This is where the
// project's build runs; it may take a long time.
func (c *Client) CaptureInside(ctx context.Context, baseline env.Snapshot) (env.Snapshot, error) {
	seed := baseline.With(BuildMarker, "1")
	snap, err := c.capture(ctx, c.BuildDir, "inside", seed.Environ())
	if err != nil {
		return nil, classify(err, ErrInsideCapture, ErrInsideDecode)
	}
	return snap, nil
}

type decodeError struct{ err error }

func (e decodeError) Error() string { return e.err.Error() }
func (e decodeError) Unwrap() error { return e.err }

func classify(err, captureErr, decodeErr error) error {
	var de decodeError
	if errors.As(err, &de) {
		return fmt.Errorf("%w: %w", decodeErr, de.err)
	}
	return fmt.Errorf("%w: %w", captureErr, err)
}

func (c *Client) capture(ctx context.Context, dir, name string, environ []string) (env.Snapshot, error) {
	scratch, cleanup, err := storage.TempDir(c.ScratchDir, "capture-*")
	if err != nil {
		return nil, fmt.Errorf("create scratch directory: %w", err)
	}
	defer cleanup()

	dump := filepath.Join(scratch, name)
	log.FromContext(ctx).Debug("capturing environment", "dir", dir, "dump", dump)
	err = cmd.Stream(ctx, c.options(environ), c.Exe, "exec", dir, c.SelfExe, EnvCommand, dump)
	if err != nil {
		return nil, err
	}

	var snap env.Snapshot
	if err := storage.LoadEncoded(dump, &snap); err != nil {
		return nil, decodeError{err}
	}
	if snap == nil {
		snap = env.Snapshot{}
	}
	return snap, nil
}

func (c *Client) options(environ []string) cmd.Options {
	return cmd.Options{Env: environ, Stdout: c.Output, Stderr: c.Output}
}

// Dump writes the current process environment to path. It is the body of
// the hidden env command.
func Dump(path string) error {
	return storage.SaveEncoded(path, env.Capture())
}
