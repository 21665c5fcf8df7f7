package hook

import (
	"github.com/firstaide/firstaide/internal/cache"
	"github.com/firstaide/firstaide/internal/sums"
)

// State classifies the cache at hook time.
type State int

const (
	Unknown State = iota
	Stale
	Okay
)

func (s State) String() string {
	switch s {
	case Okay:
		return "okay"
	case Stale:
		return "stale"
	default:
		return "unknown"
	}
}

// Title is the banner shown for the state.
func (s State) Title() string {
	switch s {
	case Okay:
		return "Development environment is up to date."
	case Stale:
		return "Development environment is STALE; run `firstaide build` to update it."
	default:
		return "Development environment has not been built; run `firstaide build`."
	}
}

// CorruptTitle replaces the Unknown banner when a cache file exists but
// cannot be decoded.
const CorruptTitle = "Development environment cache could not be read; run `firstaide build`."

// Classify decides the state from the cache load result and the checksums
// of the watched files as they are now. Failing to checksum the watched
// files (one was deleted, say) makes a loaded cache stale.
func Classify(entry *cache.Entry, loadErr error, current sums.Set, currentErr error) State {
	if loadErr != nil || entry == nil {
		return Unknown
	}
	if currentErr != nil || !sums.Equal(current, entry.Sums) {
		return Stale
	}
	return Okay
}
