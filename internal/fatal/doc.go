// Package fatal terminates the process with a post-mortem traceback when an
// exception reaches the top of the stack with no remaining handler.
//
// The handler is the sole external consumer of the decoder. It runs after
// recovery has already failed, so nothing it does may fail, recurse into
// exception handling, or depend on a scheduler: rendering ignores stream
// errors, archiving is wrapped in a recover guard and logged on failure, and
// the exit function is called unconditionally at the end.
package fatal
