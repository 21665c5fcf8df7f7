// Package cmd provides helpers for executing external commands with proper
// error handling.
//
// The helpers wrap [os/exec.Cmd] so that a failing command reports the last
// line of its stderr instead of a bare "exit status 1", and so that every
// invocation is echoed through the context logger in verbose mode.
//
// # Usage
//
//	out, err := cmd.OutputContext(ctx, "", "direnv", "version")
//	if err != nil {
//	    // err carries the last line of direnv's stderr
//	}
//
// Long-running children whose output the user should see while they run
// (a project build triggered by direnv) go through [Stream], which forwards
// stdout and stderr live and keeps the tail of stderr on the [Error].
package cmd
