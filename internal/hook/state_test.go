package hook

import (
	"errors"
	"testing"

	"github.com/firstaide/firstaide/internal/cache"
	"github.com/firstaide/firstaide/internal/sums"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	a := sums.Set{{Path: "/a", Digest: [32]byte{1}}, {Path: "/b", Digest: [32]byte{2}}}
	reordered := sums.Set{a[1], a[0]}
	changed := sums.Set{{Path: "/a", Digest: [32]byte{9}}, a[1]}
	entry := &cache.Entry{Sums: a}

	tests := []struct {
		name       string
		entry      *cache.Entry
		loadErr    error
		current    sums.Set
		currentErr error
		want       State
	}{
		{"not found", nil, cache.ErrNotFound, a, nil, Unknown},
		{"corrupt", nil, &cache.CorruptError{Path: "/c", Err: errors.New("bad")}, a, nil, Unknown},
		{"matching", entry, nil, a, nil, Okay},
		{"matching in other order", entry, nil, reordered, nil, Okay},
		{"content changed", entry, nil, changed, nil, Stale},
		{"file added", entry, nil, append(sums.Set{{Path: "/z"}}, a...), nil, Stale},
		{"watched file unreadable", entry, nil, nil, errors.New("gone"), Stale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Classify(tt.entry, tt.loadErr, tt.current, tt.currentErr); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestState_String(t *testing.T) {
	t.Parallel()
	for state, want := range map[State]string{Okay: "okay", Stale: "stale", Unknown: "unknown"} {
		if state.String() != want {
			t.Errorf("%d.String() = %q, want %q", state, state.String(), want)
		}
	}
}
