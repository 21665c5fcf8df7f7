// Command firstaide caches the environment direnv builds for a project and
// replays it on every shell entry until a watched file changes.
package main

import (
	"fmt"
	"os"
	"runtime"
)

// Version information - set by goreleaser
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// versionString returns the version string.
func versionString() string {
	return fmt.Sprintf("firstaide %s (%s, %s, %s)", version, commit[:min(7, len(commit))], date, runtime.Version())
}
