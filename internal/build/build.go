// Package build runs the build pipeline: it has direnv produce the project
// environment, records how it differs from the environment outside the
// project, fingerprints the watched files, and commits both to the cache.
//
// Every step is fatal on failure and nothing is written until all earlier
// steps have succeeded, so a failed build never replaces a good cache.
package build

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"

	"github.com/firstaide/firstaide/internal/cache"
	"github.com/firstaide/firstaide/internal/config"
	"github.com/firstaide/firstaide/internal/env"
	"github.com/firstaide/firstaide/internal/log"
	"github.com/firstaide/firstaide/internal/sums"
)

// BookkeepingPrefix marks variables firstaide sets for its own use. They
// never end up in the cached diff.
const BookkeepingPrefix = "FIRSTAIDE_"

// MinDirenvVersion is the oldest direnv known to activate environments
// correctly.
var MinDirenvVersion = semver.MustParse("2.20.1")

var (
	ErrDirenvTooOld = errors.New("direnv is too old")
	ErrDirenvAllow  = errors.New("could not allow direnv")
	ErrChecksum     = errors.New("could not calculate checksums")
	ErrCacheSave    = errors.New("could not save cache")
)

// Loader produces environments. It is implemented by direnv.Client.
type Loader interface {
	Version(ctx context.Context) (*semver.Version, error)
	Allow(ctx context.Context) error
	CaptureOutside(ctx context.Context) (env.Snapshot, error)
	CaptureInside(ctx context.Context, baseline env.Snapshot) (env.Snapshot, error)
}

// Reporter shows build progress. Spin runs fn while showing msg.
type Reporter interface {
	Step(msg string)
	Spin(msg string, fn func() error) error
}

// Builder runs one build for a project.
type Builder struct {
	Config   *config.Config
	Loader   Loader
	Reporter Reporter
}

// Run executes the pipeline and returns the entry it saved.
func (b *Builder) Run(ctx context.Context) (*cache.Entry, error) {
	l := log.FromContext(ctx)
	r := b.Reporter
	if r == nil {
		r = logReporter{l}
	}

	r.Step("Check direnv version.")
	if err := b.checkVersion(ctx); err != nil {
		return nil, err
	}

	r.Step(fmt.Sprintf("Allow direnv in %s.", b.Config.BuildDir))
	if err := b.Loader.Allow(ctx); err != nil {
		return nil, fmt.Errorf("%w in %s: %w", ErrDirenvAllow, b.Config.BuildDir, err)
	}

	r.Step(fmt.Sprintf("Create cache dir at %s.", b.Config.CacheDir))
	if err := os.MkdirAll(b.Config.CacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	lock := cache.NewFileLock(b.Config.LockFile())
	if err := lock.Lock(ctx); err != nil {
		return nil, err
	}
	defer func() { _ = lock.Unlock() }()

	var outside, inside env.Snapshot
	err := r.Spin("Capture outside environment.", func() error {
		var err error
		outside, err = b.Loader.CaptureOutside(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = r.Spin("Capture inside environment (may involve a full build).", func() error {
		var err error
		inside, err = b.Loader.CaptureInside(ctx, outside)
		return err
	})
	if err != nil {
		return nil, err
	}

	r.Step("Calculate environment diff.")
	diff := env.Diff(outside, inside).ExcludeByPrefix(BookkeepingPrefix)
	l.Debug("environment diff", "changes", len(diff))

	var set sums.Set
	err = r.Spin("Calculate file checksums.", func() error {
		paths, err := b.Config.WatchPaths(ctx)
		if err != nil {
			return err
		}
		set, err = sums.Compute(paths)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrChecksum, err)
	}

	r.Step("Write out cache.")
	entry := &cache.Entry{Diff: diff, Sums: set}
	if err := cache.Save(b.Config.CacheFile(), entry); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCacheSave, err)
	}
	return entry, nil
}

func (b *Builder) checkVersion(ctx context.Context) error {
	v, err := b.Loader.Version(ctx)
	if err != nil {
		return err
	}
	if v.LessThan(MinDirenvVersion) {
		return fmt.Errorf("%w (%s); upgrade to %s or later (hint: use `nix-env -i direnv`)",
			ErrDirenvTooOld, v, MinDirenvVersion)
	}
	return nil
}

// logReporter reports steps as log lines and runs spun steps inline.
type logReporter struct {
	l *log.Logger
}

func (r logReporter) Step(msg string) { r.l.Info("%s", msg) }

func (r logReporter) Spin(msg string, fn func() error) error {
	r.l.Info("%s", msg)
	return fn()
}
