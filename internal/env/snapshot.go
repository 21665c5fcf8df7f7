package env

import (
	"os"
	"slices"
	"strings"
)

// Snapshot is the set of environment variables at one point in time.
type Snapshot map[string]string

// Capture returns the environment of the running process.
func Capture() Snapshot {
	return FromEnviron(os.Environ())
}

// FromEnviron parses KEY=VALUE entries as returned by os.Environ.
// Entries without "=" are ignored. Later duplicates win.
func FromEnviron(environ []string) Snapshot {
	s := make(Snapshot, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		s[k] = v
	}
	return s
}

// Keys returns the variable names in sorted order.
func (s Snapshot) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Environ renders the snapshot as sorted KEY=VALUE entries, suitable for
// exec.Cmd.Env.
func (s Snapshot) Environ() []string {
	out := make([]string, 0, len(s))
	for _, k := range s.Keys() {
		out = append(out, k+"="+s[k])
	}
	return out
}

// With returns a copy of s with key set to value.
func (s Snapshot) With(key, value string) Snapshot {
	out := make(Snapshot, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	out[key] = value
	return out
}
