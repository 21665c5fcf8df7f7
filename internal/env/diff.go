package env

import (
	"slices"
	"strings"
)

// Kind identifies the type of a Change.
type Kind uint8

const (
	Added Kind = iota + 1
	Changed
	Removed
)

func (k Kind) String() string {
	switch k {
	case Added:
		return "added"
	case Changed:
		return "changed"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// Change records what happened to one variable between two snapshots.
// Old is empty for Added, New is empty for Removed.
type Change struct {
	Kind Kind
	Key  string
	Old  string
	New  string
}

// Changes is a list of changes sorted by key, at most one per key.
type Changes []Change

// Diff returns the changes that turn before into after.
func Diff(before, after Snapshot) Changes {
	changes := make(Changes, 0)
	for k, vb := range before {
		va, ok := after[k]
		switch {
		case !ok:
			changes = append(changes, Change{Kind: Removed, Key: k, Old: vb})
		case va != vb:
			changes = append(changes, Change{Kind: Changed, Key: k, Old: vb, New: va})
		}
	}
	for k, va := range after {
		if _, ok := before[k]; !ok {
			changes = append(changes, Change{Kind: Added, Key: k, New: va})
		}
	}
	changes.sort()
	return changes
}

func (c Changes) sort() {
	slices.SortFunc(c, func(a, b Change) int {
		return strings.Compare(a.Key, b.Key)
	})
}

// ExcludeByPrefix returns the changes whose key does not start with prefix.
// The receiver is not modified.
func (c Changes) ExcludeByPrefix(prefix string) Changes {
	out := make(Changes, 0, len(c))
	for _, ch := range c {
		if !strings.HasPrefix(ch.Key, prefix) {
			out = append(out, ch)
		}
	}
	return out
}

// With returns a copy of c that contains ch, replacing any existing change
// for the same key.
func (c Changes) With(ch Change) Changes {
	out := make(Changes, 0, len(c)+1)
	for _, existing := range c {
		if existing.Key != ch.Key {
			out = append(out, existing)
		}
	}
	out = append(out, ch)
	out.sort()
	return out
}

// Invert returns the changes that undo c: additions become removals and
// changed values swap.
func (c Changes) Invert() Changes {
	out := make(Changes, len(c))
	for i, ch := range c {
		switch ch.Kind {
		case Added:
			out[i] = Change{Kind: Removed, Key: ch.Key, Old: ch.New}
		case Removed:
			out[i] = Change{Kind: Added, Key: ch.Key, New: ch.Old}
		default:
			out[i] = Change{Kind: ch.Kind, Key: ch.Key, Old: ch.New, New: ch.Old}
		}
	}
	return out
}

// Apply returns a copy of s with the changes applied.
func (c Changes) Apply(s Snapshot) Snapshot {
	out := make(Snapshot, len(s))
	for k, v := range s {
		out[k] = v
	}
	for _, ch := range c {
		if ch.Kind == Removed {
			delete(out, ch.Key)
			continue
		}
		out[ch.Key] = ch.New
	}
	return out
}
