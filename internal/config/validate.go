package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sahilm/fuzzy"
)

// knownKeys lists every key the config file may contain.
var knownKeys = []string{
	"cache_dir",
	"direnv_exe",
	"messages",
	"messages.getting_started",
	"watch_exe",
	"watch_files",
}

// checkUndecoded rejects keys the decoder did not map onto Config.
func checkUndecoded(keys []toml.Key) error {
	if len(keys) == 0 {
		return nil
	}
	key := keys[0].String()
	if s := suggest(key); s != "" {
		return fmt.Errorf("unknown key %q (did you mean %q?)", key, s)
	}
	return fmt.Errorf("unknown key %q: must be %s", key, formatOptions(knownKeys))
}

// suggest returns the known key closest to an unknown one, or "".
// A match in either direction counts so that both a truncated key and one
// with extra characters find their intended spelling.
func suggest(key string) string {
	if matches := fuzzy.Find(key, knownKeys); len(matches) > 0 {
		return matches[0].Str
	}
	best, bestScore := "", 0
	for _, known := range knownKeys {
		for _, m := range fuzzy.Find(known, []string{key}) {
			if best == "" || m.Score > bestScore {
				best, bestScore = known, m.Score
			}
		}
	}
	return best
}

// validateWatchFiles checks that every watch_files entry names a path.
func validateWatchFiles(files []string) error {
	var errs []error
	for i, f := range files {
		if strings.TrimSpace(f) == "" {
			errs = append(errs, fmt.Errorf("invalid watch_files[%d]: empty path", i))
		}
	}
	return errors.Join(errs...)
}

// formatOptions formats a list of allowed values for error messages.
// E.g., ["a", "b", "c"] -> `"a", "b", or "c"`
func formatOptions(opts []string) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = fmt.Sprintf("%q", o)
	}
	if len(quoted) <= 2 {
		return strings.Join(quoted, " or ")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}
