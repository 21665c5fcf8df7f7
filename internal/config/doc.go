// Package config handles discovery, loading and validation of a project's
// firstaide configuration.
//
// Configuration is read from a .firstaide.toml file found by walking up
// from the requested directory. The directory holding the file is the
// build directory: direnv is allowed and executed there, and relative
// paths in the file are resolved against it.
//
// # Configuration Sources (highest priority first)
//
//   - FIRSTAIDE_DIRENV_EXE env var: direnv executable
//   - FIRSTAIDE_CACHE_DIR env var: cache directory
//   - Config file settings
//   - Default values
//
// # Key Settings
//
//   - direnv_exe: direnv executable name or path (default: "direnv")
//   - cache_dir: where the cache and build lock live (default: ".firstaide")
//   - watch_files: files whose content decides whether the cache is stale
//   - watch_exe: program printing additional watch paths, one per line
//
// The [messages] section holds text shown by the hook:
//
//	[messages]
//	getting_started = "Run `make help` to get started."
//
// Unknown keys are rejected so that a typo does not silently disable a
// watch list.
package config
