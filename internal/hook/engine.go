package hook

import (
	"context"
	"errors"

	"github.com/firstaide/firstaide/internal/cache"
	"github.com/firstaide/firstaide/internal/config"
	"github.com/firstaide/firstaide/internal/env"
	"github.com/firstaide/firstaide/internal/log"
	"github.com/firstaide/firstaide/internal/sums"
)

// OutsideCapturer captures the environment outside the project. It is
// implemented by direnv.Client.
type OutsideCapturer interface {
	CaptureOutside(ctx context.Context) (env.Snapshot, error)
}

// Engine produces the hook script for one project.
type Engine struct {
	Config *config.Config
	Loader OutsideCapturer
	// Live returns the environment of the calling shell.
	// Defaults to env.Capture.
	Live func() env.Snapshot
}

// Run captures the outside environment, classifies the cache and renders
// the script. Only a failed outside capture is an error; a missing or
// unreadable cache is the Unknown state.
func (e *Engine) Run(ctx context.Context) ([]byte, error) {
	s, err := e.Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	return Render(s), nil
}

// Evaluate gathers the inputs of the hook script without rendering it.
func (e *Engine) Evaluate(ctx context.Context) (Script, error) {
	l := log.FromContext(ctx)

	outside, err := e.Loader.CaptureOutside(ctx)
	if err != nil {
		return Script{}, err
	}
	live := env.Capture
	if e.Live != nil {
		live = e.Live
	}

	s := Script{
		Parent:         ParentDiff(live(), outside),
		GettingStarted: e.Config.Messages.GettingStarted,
		CacheFile:      e.Config.CacheFile(),
	}

	entry, loadErr := cache.Load(s.CacheFile)
	if loadErr != nil {
		var corrupt *cache.CorruptError
		s.Corrupt = errors.As(loadErr, &corrupt)
		if !errors.Is(loadErr, cache.ErrNotFound) {
			l.Debug("cache unreadable", "err", loadErr)
		}
		s.State = Unknown
		return s, nil
	}

	current, sumErr := e.currentSums(ctx)
	if sumErr != nil {
		l.Warn("Could not checksum watched files: %v", sumErr)
	}
	s.Entry = entry
	s.State = Classify(entry, nil, current, sumErr)
	return s, nil
}

func (e *Engine) currentSums(ctx context.Context) (sums.Set, error) {
	paths, err := e.Config.WatchPaths(ctx)
	if err != nil {
		return nil, err
	}
	return sums.Compute(paths)
}
