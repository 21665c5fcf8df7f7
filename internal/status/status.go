// Package status reports how a project's cache relates to its watched
// files, for the status command.
package status

import (
	"context"
	"errors"
	"slices"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/firstaide/firstaide/internal/cache"
	"github.com/firstaide/firstaide/internal/config"
	"github.com/firstaide/firstaide/internal/hook"
	"github.com/firstaide/firstaide/internal/sums"
)

// FileState is the state of one watched file relative to the cache.
type FileState int

const (
	Unchanged FileState = iota
	Changed
	Missing
	// Added is watched now but was not when the cache was built.
	Added
	// Unwatched was watched when the cache was built but no longer is.
	Unwatched
)

func (s FileState) String() string {
	switch s {
	case Unchanged:
		return "unchanged"
	case Changed:
		return "changed"
	case Missing:
		return "missing"
	case Added:
		return "added"
	default:
		return "unwatched"
	}
}

// File is one row of the report.
type File struct {
	Path  string
	State FileState
}

// Report describes the cache of one project.
type Report struct {
	State hook.State
	// LoadErr is why the cache could not be loaded, if it could not.
	LoadErr error
	// WatchErr is why the watch list could not be determined.
	WatchErr error
	Files    []File
	// Cached and Current are the checksums recorded in the cache and the
	// checksums of the readable watched files now.
	Cached  sums.Set
	Current sums.Set
}

// Corrupt reports whether a cache file exists but cannot be decoded.
func (r *Report) Corrupt() bool {
	var corrupt *cache.CorruptError
	return errors.As(r.LoadErr, &corrupt)
}

// Inspect builds the report for cfg. It classifies the same way the hook
// does.
func Inspect(ctx context.Context, cfg *config.Config) *Report {
	r := &Report{Cached: sums.Set{}, Current: sums.Set{}}

	entry, loadErr := cache.Load(cfg.CacheFile())
	r.LoadErr = loadErr
	if entry != nil {
		r.Cached = entry.Sums
	}

	paths, err := cfg.WatchPaths(ctx)
	if err != nil {
		r.WatchErr = err
	}

	var unreadable error
	for _, p := range paths {
		set, err := sums.Compute([]string{p})
		if err != nil {
			unreadable = errors.Join(unreadable, err)
			continue
		}
		r.Current = append(r.Current, set...)
	}

	r.Files = compare(r.Cached, paths, r.Current)

	currentErr := errors.Join(r.WatchErr, unreadable)
	r.State = hook.Classify(entry, loadErr, r.Current, currentErr)
	return r
}

func compare(cached sums.Set, watched []string, current sums.Set) []File {
	all := slices.Concat(cached.Paths(), watched)
	slices.Sort(all)
	all = slices.Compact(all)

	files := make([]File, 0, len(all))
	for _, p := range all {
		was, inCache := cached.Lookup(p)
		now, readable := current.Lookup(p)
		isWatched := slices.Contains(watched, p)

		var state FileState
		switch {
		case !isWatched:
			state = Unwatched
		case !readable:
			state = Missing
		case !inCache:
			state = Added
		case was.Digest != now.Digest:
			state = Changed
		default:
			state = Unchanged
		}
		files = append(files, File{Path: p, State: state})
	}
	return files
}

// ManifestDiff returns a unified diff of the cached checksum manifest
// against the current one. Empty when they agree.
func ManifestDiff(r *Report) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        sums.Manifest(r.Cached),
		B:        sums.Manifest(r.Current),
		FromFile: "cached",
		ToFile:   "current",
		Context:  3,
	})
}
