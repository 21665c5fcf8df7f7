// Package env captures process environments and computes the change set
// between two of them.
//
// A [Snapshot] maps variable names to values. Both are treated as opaque
// byte strings: nothing here assumes UTF-8.
//
// [Diff] compares a before and an after snapshot and yields a [Changes]
// list sorted by key:
//
//	before: FOO=1 OLD=x
//	after:  FOO=2 BAR=y
//	diff:   Added(BAR, y) Changed(FOO, 1, 2) Removed(OLD, x)
//
// The sort makes every rendering of a diff reproducible, which the hook
// script depends on.
package env
