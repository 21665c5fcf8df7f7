// Package hook decides, on every shell entry, whether the cached
// environment is current, and emits the shell script that applies it.
//
// The decision has three outcomes:
//
//   - [Okay]: the watched files match the cache; the cached diff is applied.
//   - [Stale]: the cache exists but a watched file changed; the cached diff
//     is still applied and the user is told to rebuild.
//   - [Unknown]: there is no readable cache; nothing is applied.
//
// The emitted script is wrapped in a single { ... } group so the calling
// shell evaluates nothing until it has read all of it. Rendering is a pure
// function of its inputs; identical inputs give identical bytes.
package hook
