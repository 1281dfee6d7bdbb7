// Package ring implements the fixed-capacity circular store that holds
// traceback breadcrumbs.
//
// The store is a power-of-two-sized array of tagged entries plus a masked
// write cursor, the classic mask-based ring buffer:
//
//	slot(i) = entries[i & (capacity-1)]
//
// Appends are O(1), never fail, and never allocate. Once more than capacity
// entries have been written, each append silently overwrites the oldest
// surviving entry. That loss is the design: the buffer trades completeness
// for constant space on a path where allocation failure is not an option.
//
// In addition to the masked cursor the store counts total writes ever, so the
// currently valid window is min(writes, capacity). Without the counter a
// reader cannot distinguish "never wrapped" from "wrapped exactly once" and
// would surface zero-value garbage slots before the first wrap.
//
// CONCURRENCY CONTRACT:
//
// One store per owning goroutine. Appends and reads are unsynchronized and
// must come from that owner; cross-goroutine inspection requires an external
// synchronization layer that is out of scope here. This keeps Append free of
// locks and safe to call on the terminal fatal-error path where no scheduler
// may be available.
package ring
