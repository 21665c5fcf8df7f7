// Package shell renders values as POSIX shell source.
//
// Every value that reaches a generated script passes through [Quote], so
// arbitrary bytes (quotes, newlines, $(...), backticks, invalid UTF-8) stay
// inert data when the script is evaluated.
package shell

import "strings"

// Quote escapes a string for safe use in shell commands.
// It wraps the value in single quotes and escapes any embedded single quotes.
func Quote(s string) string {
	// Single quotes preserve everything literally except single quotes themselves.
	// To include a single quote, we end the quoted string, add an escaped quote, and restart.
	// e.g., "it's" becomes 'it'\''s'
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// IsName reports whether s is a valid shell variable name.
func IsName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// Name renders a variable name. Valid names are emitted bare; anything
// else is quoted so it cannot inject code (the shell will reject it).
func Name(s string) string {
	if IsName(s) {
		return s
	}
	return Quote(s)
}

// Export returns `export NAME='value'`.
func Export(name, value string) string {
	return "export " + Name(name) + "=" + Quote(value)
}

// Unset returns `unset NAME`.
func Unset(name string) string {
	return "unset " + Name(name)
}

// WatchFile returns a direnv watch_file directive for path.
func WatchFile(path string) string {
	return "watch_file " + Quote(path)
}

// Comment returns s as one or more comment lines. Each line of s gets its
// own prefix so embedded newlines cannot terminate the comment.
func Comment(prefix, s string) string {
	var b strings.Builder
	for _, line := range strings.Split(s, "\n") {
		b.WriteString(prefix)
		b.WriteString(" ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
