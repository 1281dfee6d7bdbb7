package trace

import "github.com/roach88/tracering/internal/ring"

// Step is one element of a reconstructed propagation path: either a frame
// the exception passed through, or a re-raise boundary.
type Step struct {
	Reraise bool
	Loc     ring.Location // meaningful only when !Reraise
}

// Segment is one reconstructed exception path.
//
// Steps are chronological: the oldest surviving frame first, the frame
// nearest the point where propagation was last observed last. When
// OriginKnown is true the first step is the raise site. When TokenKnown is
// false the buffer held propagation frames whose markers were overwritten,
// so not even the exception's identity survived.
type Segment struct {
	Token       ring.Token
	TokenKnown  bool
	OriginKnown bool
	Steps       []Step
}

// Decode reconstructs logical exception segments from the store's current
// contents, most recent exception first.
//
// It is a pure function of the store: repeated calls without intervening
// appends yield identical results. It scans exactly the valid window
// (min(total writes, capacity) entries), runs in O(capacity), and cannot
// fail; an empty store decodes to an empty slice.
//
// The scan walks backward from the latest write, accumulating frames into an
// open segment. A re-raise marker assigns the open segment its token (the
// frames already seen are the post-re-raise propagation) and the scan keeps
// attributing older entries to it until a matching origin is found. An origin
// marker closes the segment; the entry immediately older than an origin, when
// it is a frame, is the raise site and belongs to the closed segment. A
// marker carrying a different token than the open segment closes it as
// origin-unknown rather than scanning past foreign history: correlation is by
// token equality only and kept local on purpose.
func Decode(s *ring.Store) []Segment {
	n := s.Len()
	segs := make([]Segment, 0, 4)

	var cur Segment
	closeSegment := func() {
		reverseSteps(cur.Steps)
		segs = append(segs, cur)
		cur = Segment{}
	}

	for i := 0; i < n; i++ {
		e := s.Back(i)
		switch e.Kind {
		case ring.KindFrame:
			cur.Steps = append(cur.Steps, Step{Loc: e.Loc})

		case ring.KindReraise:
			if cur.TokenKnown && cur.Token != e.Token {
				closeSegment()
			}
			cur.Token = e.Token
			cur.TokenKnown = true
			cur.Steps = append(cur.Steps, Step{Reraise: true})

		case ring.KindOrigin:
			if cur.TokenKnown && cur.Token != e.Token {
				closeSegment()
			}
			cur.Token = e.Token
			cur.TokenKnown = true
			cur.OriginKnown = true
			if i+1 < n {
				if next := s.Back(i + 1); next.Kind == ring.KindFrame {
					cur.Steps = append(cur.Steps, Step{Loc: next.Loc})
					i++
				}
			}
			closeSegment()

		default:
			// A zero-kind slot cannot appear inside the valid window, but a
			// partially corrupted store must still decode rather than fault.
		}
	}

	if len(cur.Steps) > 0 || cur.TokenKnown {
		closeSegment()
	}
	return segs
}

// reverseSteps flips scan order (newest first) into chronological order.
func reverseSteps(steps []Step) {
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
}
