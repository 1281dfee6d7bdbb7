package trace

import (
	"fmt"
	"io"

	"github.com/roach88/tracering/internal/ring"
)

// Namer resolves an exception token to its external display name. Naming
// lives with the owning runtime's type system; this package only threads the
// lookup through.
type Namer func(ring.Token) string

// DefaultNamer falls back to fmt formatting of the raw token.
func DefaultNamer(tok ring.Token) string {
	return fmt.Sprintf("%v", tok)
}

// Render writes a human-readable traceback for the decoded segments.
//
// Per segment: a header with the exception's display name, then one line per
// step, frames as routine:line. Re-raise boundaries are rendered distinctly
// from fresh origins, and a segment whose origin was overwritten says so in
// its header. An empty segment slice renders nothing.
//
// Render never fails; errors on the diagnostic stream are ignored because the
// caller is usually already handling a fatal condition.
func Render(w io.Writer, segs []Segment, namer Namer) {
	if namer == nil {
		namer = DefaultNamer
	}
	for i, seg := range segs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "exception %s%s:\n", displayName(seg, namer), originNote(seg))
		for j, step := range seg.Steps {
			switch {
			case step.Reraise:
				fmt.Fprintln(w, "  [re-raised]")
			case j == 0 && seg.OriginKnown:
				fmt.Fprintf(w, "  raised at %s\n", step.Loc)
			default:
				fmt.Fprintf(w, "  at %s\n", step.Loc)
			}
		}
	}
}

func displayName(seg Segment, namer Namer) string {
	if !seg.TokenKnown {
		return "<unknown>"
	}
	return namer(seg.Token)
}

func originNote(seg Segment) string {
	if seg.OriginKnown {
		return ""
	}
	return " (origin not in buffer)"
}
