// Package cache persists the result of the last successful build.
//
// A cache [Entry] pairs the environment change set produced by the build
// with the checksums of the watched files at build time. Exactly one entry
// exists per project, stored at <cache_dir>/cache and replaced wholesale on
// every successful build:
//
//	<cache_dir>/
//	  cache        encoded Entry (see storage.Encode)
//	  build.lock   advisory lock held while a build runs
//	  scratch-*/   per-capture handoff directories, removed after use
//
// # Concurrency
//
// [Save] writes via temp-file-and-rename, so a concurrent [Load] sees either
// the old entry or the new one, never a mix. Builds additionally serialize
// on [Lock]; the hook path never takes the lock.
//
// # Failure modes
//
// [Load] distinguishes a missing file ([ErrNotFound]) from one that exists
// but does not decode ([CorruptError]). The hook treats both as "no cache";
// the status command reports them separately.
package cache
