package ring

import "fmt"

// Capacity presets. Compact is the production default; Verbose is the
// debug-build depth for long propagation chains. Both are powers of two.
const (
	CompactCapacity = 128
	VerboseCapacity = 8192
)

// Token is an opaque exception identity. The store never interprets a token
// beyond equality comparison; display names come from the owning runtime.
// Values must be comparable with ==.
type Token any

// Location identifies one source position in generated code.
type Location struct {
	Source  string // source file or unit name
	Routine string // routine (function) name
	Line    int    // 1-based line number, >= 0
}

// String renders the location the way tracebacks print frames.
func (l Location) String() string {
	return fmt.Sprintf("%s:%d", l.Routine, l.Line)
}

// Kind distinguishes the three breadcrumb forms.
type Kind uint8

const (
	// KindFrame records an in-flight exception passing a call boundary.
	KindFrame Kind = iota + 1
	// KindOrigin records that an exception was newly raised.
	KindOrigin
	// KindReraise records a previously caught exception being propagated
	// onward after recovery/cleanup code ran.
	KindReraise
)

// Entry is one breadcrumb. The tag is explicit: Loc is meaningful only for
// KindFrame, Token only for KindOrigin and KindReraise. A zero Entry (Kind 0)
// is never produced by an append and marks a never-written slot.
type Entry struct {
	Kind  Kind
	Loc   Location
	Token Token
}

// CapacityError reports a capacity that cannot back a masked ring buffer.
// It is the one construction-time failure this package defines; everything
// after construction is infallible.
type CapacityError struct {
	Capacity int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("ring: capacity %d is not a positive power of two", e.Capacity)
}

// Store is the fixed-capacity circular breadcrumb buffer.
//
// The cursor always indexes the slot that receives the next write, which
// after the first wrap is also the oldest still-valid slot. writes counts
// appends ever, so Len can report the valid window exactly.
type Store struct {
	entries []Entry
	mask    int
	cursor  int
	writes  uint64
}

// New creates an empty store. capacity must be a positive power of two;
// anything else is a configuration error because the masked indexing is
// unsound otherwise.
func New(capacity int) (*Store, error) {
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		return nil, &CapacityError{Capacity: capacity}
	}
	return &Store{
		entries: make([]Entry, capacity),
		mask:    capacity - 1,
	}, nil
}

// Append writes one entry and advances the cursor. O(1), no allocation,
// cannot fail. Overwriting the oldest entry after the buffer has wrapped is
// intentional and silent.
func (s *Store) Append(e Entry) {
	s.entries[s.cursor] = e
	s.cursor = (s.cursor + 1) & s.mask
	s.writes++
}

// Capacity returns the fixed slot count.
func (s *Store) Capacity() int {
	return len(s.entries)
}

// Len returns the number of currently valid entries:
// min(total writes, capacity).
func (s *Store) Len() int {
	if s.writes < uint64(len(s.entries)) {
		return int(s.writes)
	}
	return len(s.entries)
}

// TotalWrites returns the number of appends since creation, including
// appends whose entries have since been overwritten.
func (s *Store) TotalWrites() uint64 {
	return s.writes
}

// Back returns the i-th most recent entry; Back(0) is the latest write.
// i must be in [0, Len()).
func (s *Store) Back(i int) Entry {
	return s.entries[(s.cursor-1-i)&s.mask]
}
