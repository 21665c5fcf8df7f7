package hook

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/firstaide/firstaide/internal/cache"
	"github.com/firstaide/firstaide/internal/config"
	"github.com/firstaide/firstaide/internal/env"
	"github.com/firstaide/firstaide/internal/log"
	"github.com/firstaide/firstaide/internal/sums"
)

type fakeOutside struct {
	snap env.Snapshot
	err  error
}

func (f fakeOutside) CaptureOutside(context.Context) (env.Snapshot, error) {
	return f.snap, f.err
}

type project struct {
	cfg    *config.Config
	engine *Engine
}

func newProject(t *testing.T) *project {
	t.Helper()
	dir := t.TempDir()
	for name, content := range map[string]string{".envrc": "use nix\n", "default.nix": "{ }\n"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	cfg := &config.Config{
		BuildDir:   dir,
		CacheDir:   filepath.Join(dir, ".firstaide"),
		WatchFiles: []string{".envrc", "default.nix"},
		Messages:   config.Messages{GettingStarted: "Welcome."},
	}
	outside := env.Snapshot{"HOME": "/home/me", "FOO": "1", "DIRENV_WATCHES": "eJzs"}
	live := env.Snapshot{"HOME": "/home/me", "FOO": "1", "DIRENV_DIR": "-/src", "SSH_TTY": "/dev/pts/1"}
	return &project{
		cfg: cfg,
		engine: &Engine{
			Config: cfg,
			Loader: fakeOutside{snap: outside},
			Live:   func() env.Snapshot { return live },
		},
	}
}

// build saves a cache whose diff is FOO=1 -> FOO=2, BAR=x over the current
// watched files, as a successful build would.
func (p *project) build(t *testing.T) *cache.Entry {
	t.Helper()
	paths, err := p.cfg.WatchPaths(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	set, err := sums.Compute(paths)
	if err != nil {
		t.Fatal(err)
	}
	entry := &cache.Entry{
		Diff: env.Diff(env.Snapshot{"FOO": "1"}, env.Snapshot{"FOO": "2", "BAR": "x"}),
		Sums: set,
	}
	if err := os.MkdirAll(p.cfg.CacheDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := cache.Save(p.cfg.CacheFile(), entry); err != nil {
		t.Fatal(err)
	}
	return entry
}

func (p *project) run(t *testing.T) string {
	t.Helper()
	out, err := p.engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return string(out)
}

func section(script, title string) string {
	start := strings.Index(script, "### "+title+"\n")
	if start < 0 {
		return ""
	}
	rest := script[start+len("### "+title+"\n"):]
	end := strings.Index(rest, "\n\n")
	if end < 0 {
		return rest
	}
	return rest[:end+1]
}

func TestEngine_Okay(t *testing.T) {
	t.Parallel()
	p := newProject(t)
	p.build(t)

	first := p.run(t)
	if !strings.Contains(first, "### "+Okay.Title()+"\n") {
		t.Fatalf("script is not Okay:\n%s", first)
	}
	if got, want := section(first, "Cached environment follows:"), "export BAR='x'\nexport FOO='2'\n"; got != want {
		t.Errorf("cached chunk = %q, want %q", got, want)
	}
	if !strings.Contains(first, "firstaide_notice '0' 'Welcome.'") {
		t.Error("Okay script lacks the getting-started message")
	}
	if second := p.run(t); second != first {
		t.Error("repeated runs produced different scripts")
	}
}

func TestEngine_Stale(t *testing.T) {
	t.Parallel()
	p := newProject(t)
	p.build(t)
	okay := p.run(t)

	if err := os.WriteFile(filepath.Join(p.cfg.BuildDir, "default.nix"), []byte("{ pkgs }: { }\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	stale := p.run(t)

	if !strings.Contains(stale, "### "+Stale.Title()+"\n") {
		t.Fatalf("script is not Stale:\n%s", stale)
	}
	if got := section(stale, "Cached environment follows:"); got != "export BAR='x'\nexport FOO='2'\n" {
		t.Errorf("Stale script does not apply the cached diff: %q", got)
	}
	if section(stale, "Watch dependencies.") != section(okay, "Watch dependencies.") {
		t.Error("watch directives changed between Okay and Stale")
	}
}

func TestEngine_StaleWhenWatchedFileDeleted(t *testing.T) {
	t.Parallel()
	p := newProject(t)
	p.build(t)
	if err := os.Remove(filepath.Join(p.cfg.BuildDir, ".envrc")); err != nil {
		t.Fatal(err)
	}
	var logs bytes.Buffer
	ctx := log.WithLogger(context.Background(), log.New(&logs, false, true))
	out, err := p.engine.Run(ctx)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(string(out), "### "+Stale.Title()+"\n") {
		t.Errorf("script is not Stale:\n%s", out)
	}
	if !strings.Contains(logs.String(), "WARN   Could not checksum watched files: ") || !strings.Contains(logs.String(), ".envrc") {
		t.Errorf("no warning about the unreadable file, log = %q", logs.String())
	}
}

func TestEngine_Unknown(t *testing.T) {
	t.Parallel()
	p := newProject(t)
	got := p.run(t)

	if !strings.Contains(got, "### "+Unknown.Title()+"\n") {
		t.Fatalf("script is not Unknown:\n%s", got)
	}
	if strings.Contains(got, "Cached environment follows:") {
		t.Error("Unknown script applies a diff")
	}
	want := "watch_file '" + p.cfg.CacheFile() + "'\n"
	if section(got, "Watch the cache file.") != want {
		t.Errorf("cache watch chunk = %q, want %q", section(got, "Watch the cache file."), want)
	}
}

func TestEngine_Corrupt(t *testing.T) {
	t.Parallel()
	p := newProject(t)
	if err := os.MkdirAll(p.cfg.CacheDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p.cfg.CacheFile(), []byte("not a cache"), 0o600); err != nil {
		t.Fatal(err)
	}
	got := p.run(t)
	if !strings.Contains(got, "### "+CorruptTitle+"\n") {
		t.Errorf("script does not report a corrupt cache:\n%s", got)
	}
	if strings.Contains(got, "Cached environment follows:") {
		t.Error("corrupt cache applied a diff")
	}
}

func TestEngine_ParentChunk(t *testing.T) {
	t.Parallel()
	p := newProject(t)
	// live differs from outside only in DIRENV_ and SSH_ keys, which are
	// dropped; DIRENV_WATCHES comes back from outside.
	got := section(p.run(t), "Parent environment follows:")
	if want := "export DIRENV_WATCHES='eJzs'\n"; got != want {
		t.Errorf("parent chunk = %q, want %q", got, want)
	}
}

func TestEngine_OutsideCaptureFails(t *testing.T) {
	t.Parallel()
	p := newProject(t)
	boom := errors.New("could not capture outside environment")
	p.engine.Loader = fakeOutside{err: boom}
	out, err := p.engine.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("Run() error = %v, want %v", err, boom)
	}
	if out != nil {
		t.Errorf("Run() emitted %d bytes on failure", len(out))
	}
}

func TestParentDiff(t *testing.T) {
	t.Parallel()

	live := env.Snapshot{
		"PATH":          "/nix/bin:/usr/bin",
		"VIRTUAL_ENV":   "/src/.venv",
		"DIRENV_DIFF":   "abc",
		"SSH_AUTH_SOCK": "/tmp/a",
		"HOME":          "/home/me",
	}
	outside := env.Snapshot{
		"PATH":           "/usr/bin",
		"HOME":           "/home/me",
		"DIRENV_WATCHES": "w",
		"SSH_AUTH_SOCK":  "/tmp/b",
	}
	got := ParentDiff(live, outside)
	want := env.Changes{
		{Kind: env.Added, Key: "DIRENV_WATCHES", New: "w"},
		{Kind: env.Changed, Key: "PATH", Old: "/nix/bin:/usr/bin", New: "/usr/bin"},
		{Kind: env.Removed, Key: "VIRTUAL_ENV", Old: "/src/.venv"},
	}
	if len(got) != len(want) {
		t.Fatalf("ParentDiff() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ParentDiff()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	// Without DIRENV_WATCHES outside nothing is re-added.
	delete(outside, "DIRENV_WATCHES")
	for _, ch := range ParentDiff(live, outside) {
		if ch.Key == "DIRENV_WATCHES" {
			t.Error("ParentDiff() added DIRENV_WATCHES that outside does not have")
		}
	}
}

// Scenario: outside FOO=1, inside FOO=2 BAR=x.
func TestDump_ExportsSortedByKey(t *testing.T) {
	t.Parallel()
	diff := env.Diff(env.Snapshot{"FOO": "1"}, env.Snapshot{"FOO": "2", "BAR": "x"})
	if got, want := dump(diff), "export BAR='x'\nexport FOO='2'\n"; got != want {
		t.Errorf("dump() = %q, want %q", got, want)
	}

	if got := dump(env.Changes{{Kind: env.Removed, Key: "GONE", Old: "v"}}); got != "unset GONE\n" {
		t.Errorf("dump(removed) = %q", got)
	}
}
