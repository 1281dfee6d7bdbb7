package trace

import "github.com/roach88/tracering/internal/ring"

// Recorder appends breadcrumbs to one ring store. It is bound to the store's
// owning goroutine and shares its concurrency contract: no locking, no
// cross-goroutine use.
//
// Every method is O(1), never fails, and never allocates. Once the store has
// wrapped, each call silently discards the oldest surviving breadcrumb.
type Recorder struct {
	store *ring.Store
}

// NewRecorder binds a recorder to a store.
func NewRecorder(store *ring.Store) *Recorder {
	return &Recorder{store: store}
}

// Store returns the underlying ring store, for handing to Decode or to a
// fatal handler.
func (r *Recorder) Store() *ring.Store {
	return r.store
}

// Frame records an in-flight exception passing the call boundary at loc.
// At a raise site the generated code records the raise location with Frame
// and then marks it with Origin.
func (r *Recorder) Frame(loc ring.Location) {
	r.store.Append(ring.Entry{Kind: ring.KindFrame, Loc: loc})
}

// Origin records that the exception identified by tok was newly raised.
// Called exactly once per exception, immediately after the Frame for its
// raise site.
func (r *Recorder) Origin(tok ring.Token) {
	r.store.Append(ring.Entry{Kind: ring.KindOrigin, Token: tok})
}

// Reraise records that a previously caught exception identified by tok is
// being propagated onward after recovery/cleanup code ran.
func (r *Recorder) Reraise(tok ring.Token) {
	r.store.Append(ring.Entry{Kind: ring.KindReraise, Token: tok})
}
