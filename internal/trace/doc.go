// Package trace records exception breadcrumbs into a ring store and
// reconstructs best-effort propagation paths from its contents.
//
// The recorder side is three O(1) appends: a frame when an in-flight
// exception passes a call boundary, an origin marker when an exception is
// newly raised, and a re-raise marker when a caught exception is propagated
// onward after cleanup code ran. The recording convention at a raise site is
// frame first, marker second: the raise location is appended and then the
// origin marker for its token.
//
// The decoder walks the store backward from the latest write and groups
// entries into logical segments, one per exception identity. A re-raise
// marker is correlated with its origin by token equality only; two unrelated
// exceptions that recycle the same token will be fused. That is a documented
// approximation inherited from the recording scheme, not a bug: the buffer
// deliberately trades exactness for constant space.
//
// Everything here is infallible past construction. Decode and Render are
// invoked from the path that handles an already-unhandled exception, where a
// further failure must not occur, so neither returns an error.
package trace
