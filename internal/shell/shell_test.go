package shell

import (
	"os/exec"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestQuote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"", "''"},
		{"simple", "'simple'"},
		{"with space", "'with space'"},
		{"it's", `'it'\''s'`},
		{"''", `''\'''\'''`},
		{"$(rm -rf /)", "'$(rm -rf /)'"},
		{"`id`", "'`id`'"},
		{"a\nb", "'a\nb'"},
		{`back\slash`, `'back\slash'`},
	}

	for _, tt := range tests {
		if got := Quote(tt.input); got != tt.want {
			t.Errorf("Quote(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestIsName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"FOO", true},
		{"_private", true},
		{"path2", true},
		{"A_B_C", true},
		{"", false},
		{"2FOO", false},
		{"FOO-BAR", false},
		{"FOO BAR", false},
		{"FOO;rm", false},
		{"ÄPFEL", false},
	}

	for _, tt := range tests {
		if got := IsName(tt.input); got != tt.want {
			t.Errorf("IsName(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestExportUnsetWatch(t *testing.T) {
	t.Parallel()

	if got, want := Export("FOO", "2"), "export FOO='2'"; got != want {
		t.Errorf("Export() = %q, want %q", got, want)
	}
	if got, want := Export("bad;name", "x"), "export 'bad;name'='x'"; got != want {
		t.Errorf("Export() = %q, want %q", got, want)
	}
	if got, want := Unset("FOO"), "unset FOO"; got != want {
		t.Errorf("Unset() = %q, want %q", got, want)
	}
	if got, want := WatchFile("/p/it's.nix"), `watch_file '/p/it'\''s.nix'`; got != want {
		t.Errorf("WatchFile() = %q, want %q", got, want)
	}
}

func TestComment(t *testing.T) {
	t.Parallel()

	got := Comment("###", "first\nsecond")
	want := "### first\n### second\n"
	if got != want {
		t.Errorf("Comment() = %q, want %q", got, want)
	}
}

// evalAssignment runs `v=<quoted>` in sh and returns the resulting value.
func evalAssignment(t *testing.T, value string) string {
	t.Helper()
	script := "v=" + Quote(value) + "\nprintf '%s' \"$v\""
	out, err := exec.Command("sh", "-c", script).Output()
	if err != nil {
		t.Fatalf("sh failed for %q: %v", value, err)
	}
	return string(out)
}

func TestQuote_ShellRoundtrip(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	adversarial := []string{
		"",
		"'",
		"it's",
		"'; echo pwned; '",
		"$(echo pwned)",
		"`echo pwned`",
		"${HOME}",
		"line one\nline two\n",
		"\n\n",
		"tab\there",
		`\'\\'`,
		"\"double\"",
		"\xff\xfe not utf-8",
		"glob * ? [a]",
		"#not a comment",
	}

	for _, v := range adversarial {
		if got := evalAssignment(t, v); got != v {
			t.Errorf("shell roundtrip of %q = %q", v, got)
		}
	}
}

func TestQuote_ShellRoundtrip_Property(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("evaluating a quoted value yields the value", prop.ForAll(
		func(raw []byte) bool {
			// NUL cannot appear in a shell word or argv.
			v := strings.ReplaceAll(string(raw), "\x00", "")
			return evalAssignment(t, v) == v
		},
		gen.SliceOf(gen.OneGenOf(
			gen.UInt8(),
			gen.OneConstOf(byte('\''), byte('$'), byte('`'), byte('\n'), byte('\\'), byte('"'), byte('('), byte(')')),
		)),
	))

	properties.TestingRun(t)
}
