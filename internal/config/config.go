package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/firstaide/firstaide/internal/cache"
	"github.com/firstaide/firstaide/internal/cmd"
)

// FileName is the name of the per-project config file.
const FileName = ".firstaide.toml"

// Defaults for unset keys.
const (
	DefaultDirenvExe = "direnv"
	DefaultCacheDir  = ".firstaide"
)

// Environment variables that override config file settings.
const (
	EnvDirenvExe = "FIRSTAIDE_DIRENV_EXE"
	EnvCacheDir  = "FIRSTAIDE_CACHE_DIR"
)

// ErrNotFound is returned when no config file exists in the directory or
// any of its parents.
var ErrNotFound = errors.New("no " + FileName + " found")

// Messages holds user-facing text emitted by the hook.
type Messages struct {
	GettingStarted string `toml:"getting_started"`
}

// Config holds the firstaide configuration of one project.
type Config struct {
	DirenvExe  string   `toml:"direnv_exe"`
	CacheDir   string   `toml:"cache_dir"`
	WatchFiles []string `toml:"watch_files"`
	WatchExe   string   `toml:"watch_exe"`
	Messages   Messages `toml:"messages"`

	// BuildDir is the directory holding the config file.
	BuildDir string `toml:"-"`
	// File is the path of the config file that was loaded.
	File string `toml:"-"`
	// SelfExe is the executable direnv runs to dump an environment.
	SelfExe string `toml:"-"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		DirenvExe: DefaultDirenvExe,
		CacheDir:  DefaultCacheDir,
	}
}

// CacheFile returns the path of the cache file.
func (c *Config) CacheFile() string {
	return cache.Path(c.CacheDir)
}

// LockFile returns the path of the build lock.
func (c *Config) LockFile() string {
	return cache.LockPath(c.CacheDir)
}

// ParentDir returns the directory whose environment is "outside" the project.
func (c *Config) ParentDir() string {
	return filepath.Dir(c.BuildDir)
}

// WatchPaths returns the absolute paths of all watched files: watch_files
// plus the output of watch_exe, sorted and without duplicates.
func (c *Config) WatchPaths(ctx context.Context) ([]string, error) {
	paths := make([]string, 0, len(c.WatchFiles))
	for _, f := range c.WatchFiles {
		paths = append(paths, c.resolve(f))
	}

	if c.WatchExe != "" {
		exe := c.WatchExe
		if strings.ContainsRune(exe, filepath.Separator) {
			exe = c.resolve(exe)
		}
		out, err := cmd.OutputContext(ctx, c.BuildDir, exe)
		if err != nil {
			return nil, fmt.Errorf("watch_exe %s: %w", c.WatchExe, err)
		}
		for line := range strings.Lines(string(out)) {
			if line = strings.TrimSpace(line); line != "" {
				paths = append(paths, c.resolve(line))
			}
		}
	}

	slices.Sort(paths)
	return slices.Compact(paths), nil
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(c.BuildDir, path)
}

// Find walks up from dir looking for the config file and returns the
// directory containing it.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		info, err := os.Stat(filepath.Join(dir, FileName))
		if err == nil && !info.IsDir() {
			return dir, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to look for config: %w", err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotFound
		}
		dir = parent
	}
}

// Load discovers and reads the config for the project containing dir.
// An empty dir means the current working directory.
func Load(dir string) (*Config, error) {
	return load(dir, os.LookupEnv)
}

func load(dir string, lookupEnv func(string) (string, bool)) (*Config, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		dir = wd
	}

	buildDir, err := Find(dir)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(buildDir, FileName)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := checkUndecoded(md.Undecoded()); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.BuildDir = buildDir
	cfg.File = path

	if v, ok := lookupEnv(EnvDirenvExe); ok && v != "" {
		cfg.DirenvExe = v
	}
	if v, ok := lookupEnv(EnvCacheDir); ok && v != "" {
		cfg.CacheDir = v
	}

	if cfg.DirenvExe == "" {
		cfg.DirenvExe = DefaultDirenvExe
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = DefaultCacheDir
	}

	// Expand ~ in cache_dir (shell doesn't expand in config files)
	expanded, err := expandPath(cfg.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("expand cache_dir: %w", err)
	}
	cfg.CacheDir = cfg.resolve(expanded)

	if err := validateWatchFiles(cfg.WatchFiles); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	self, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locate firstaide executable: %w", err)
	}
	cfg.SelfExe = self

	return &cfg, nil
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

const defaultConfig = `# firstaide configuration
# firstaide looks for this file in the current directory and its parents.
# The directory holding it is where direnv is allowed and run.

# direnv executable (FIRSTAIDE_DIRENV_EXE overrides)
# direnv_exe = "direnv"

# Where the cache and build lock are kept (FIRSTAIDE_CACHE_DIR overrides).
# Relative paths are resolved against this directory; ~ is expanded.
# cache_dir = ".firstaide"

# Files whose content decides whether the cached environment is stale.
# When any of them changes, "firstaide hook" reports STALE.
watch_files = [".envrc"]

# Optional program printing more files to watch, one per line.
# It runs in this directory; relative output paths are resolved here too.
# watch_exe = "./scripts/watch-files"

# [messages]
# getting_started = "Run 'make help' to see what you can do."
`

// Init creates a default config file in dir.
// If force is true, overwrites an existing file.
// Returns the path to the created file.
func Init(dir string, force bool) (string, error) {
	path := filepath.Join(dir, FileName)

	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", errors.New("config file already exists: " + path)
		}
	}

	if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
