package hook

import (
	"bytes"
	"strings"

	"github.com/firstaide/firstaide/internal/cache"
	"github.com/firstaide/firstaide/internal/env"
	"github.com/firstaide/firstaide/internal/shell"
)

// WatchesKey is the variable in which direnv records the files it watches.
// It is carried through the parent diff so direnv keeps watching them.
const WatchesKey = "DIRENV_WATCHES"

// Prefixes of variables that are never replayed from a diff.
var internalPrefixes = []string{"DIRENV_", "SSH_"}

const helpers = `firstaide_notice() {
  if [ -t 2 ]; then
    printf '\033[%sm%s\033[0m\n' "$1" "$2" >&2
  else
    printf '%s\n' "$2" >&2
  fi
}
`

// Script is everything the hook script is rendered from.
type Script struct {
	// Parent takes the live shell back to the outside environment.
	Parent env.Changes
	State  State
	// Entry is the loaded cache; ignored when State is Unknown.
	Entry *cache.Entry
	// Corrupt reports that a cache file exists but could not be decoded.
	Corrupt        bool
	GettingStarted string
	CacheFile      string
}

// ParentDiff returns the changes that take the live environment to the
// outside environment, without direnv and SSH bookkeeping except for
// direnv's watch list.
func ParentDiff(live, outside env.Snapshot) env.Changes {
	diff := excludeInternal(env.Diff(live, outside))
	if watches, ok := outside[WatchesKey]; ok {
		diff = diff.With(env.Change{Kind: env.Added, Key: WatchesKey, New: watches})
	}
	return diff
}

func excludeInternal(c env.Changes) env.Changes {
	for _, p := range internalPrefixes {
		c = c.ExcludeByPrefix(p)
	}
	return c
}

// Render produces the hook script.
func Render(s Script) []byte {
	var buf bytes.Buffer
	buf.WriteString("{ # Start.\n\n")

	chunk(&buf, "Parent environment follows:", dump(s.Parent))
	chunk(&buf, "Helpers.", helpers)

	applied := s.State != Unknown && s.Entry != nil
	switch {
	case s.State == Okay && applied:
		body := notice("1;32", Okay.Title())
		if s.GettingStarted != "" {
			body += notice("0", s.GettingStarted)
		}
		chunk(&buf, Okay.Title(), body)
	case s.State == Stale && applied:
		chunk(&buf, Stale.Title(), notice("1;33", Stale.Title()))
	case s.Corrupt:
		chunk(&buf, CorruptTitle, notice("1;31", CorruptTitle))
	default:
		chunk(&buf, Unknown.Title(), notice("1;31", Unknown.Title()))
	}

	if applied {
		chunk(&buf, "Cached environment follows:", dump(excludeInternal(s.Entry.Diff)))
		var watches strings.Builder
		for _, p := range s.Entry.Sums.Paths() {
			watches.WriteString(shell.WatchFile(p) + "\n")
		}
		chunk(&buf, "Watch dependencies.", watches.String())
	}

	chunk(&buf, "Watch the cache file.", shell.WatchFile(s.CacheFile)+"\n")

	buf.WriteString("} # End.\n")
	return buf.Bytes()
}

// chunk writes one banner-headed block terminated by a blank line.
func chunk(buf *bytes.Buffer, title, body string) {
	buf.WriteString(shell.Comment("###", title))
	buf.WriteString(body)
	buf.WriteString("\n")
}

func notice(sgr, msg string) string {
	return "firstaide_notice " + shell.Quote(sgr) + " " + shell.Quote(msg) + "\n"
}

// dump renders changes as export and unset statements, one per line.
func dump(c env.Changes) string {
	var b strings.Builder
	for _, ch := range c {
		switch ch.Kind {
		case env.Removed:
			b.WriteString(shell.Unset(ch.Key))
		default:
			b.WriteString(shell.Export(ch.Key, ch.New))
		}
		b.WriteString("\n")
	}
	return b.String()
}
