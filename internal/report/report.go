package report

import (
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/tracering/internal/trace"
)

// Report is one archived crash: the decoded segments plus the rendered text
// the fatal handler wrote to the diagnostic stream.
type Report struct {
	ID        string    // UUIDv7, assigned by Save
	CreatedAt time.Time // assigned by Save
	Exception string    // display name of the most recent exception
	Rendered  string    // full rendered traceback text
	Segments  []SegmentRecord
}

// SegmentRecord is the stored form of one decoded segment. Exception tokens
// are opaque in-process, so only the external display name survives
// archiving.
type SegmentRecord struct {
	Exception   string
	OriginKnown bool
	Steps       []StepRecord
}

// StepRecord is the stored form of one propagation step.
type StepRecord struct {
	Reraise bool
	Source  string
	Routine string
	Line    int
}

// Summary is one row of a report listing.
type Summary struct {
	ID        string
	CreatedAt time.Time
	Exception string
}

// FromSegments converts decoded segments into an archivable report, resolving
// tokens through namer and NFC-normalizing the resulting display names.
func FromSegments(segs []trace.Segment, namer trace.Namer, rendered string) *Report {
	if namer == nil {
		namer = trace.DefaultNamer
	}

	r := &Report{
		Exception: "<unknown>",
		Rendered:  rendered,
		Segments:  make([]SegmentRecord, 0, len(segs)),
	}
	for i, seg := range segs {
		name := "<unknown>"
		if seg.TokenKnown {
			name = norm.NFC.String(namer(seg.Token))
		}
		if i == 0 {
			r.Exception = name
		}

		rec := SegmentRecord{
			Exception:   name,
			OriginKnown: seg.OriginKnown,
			Steps:       make([]StepRecord, 0, len(seg.Steps)),
		}
		for _, step := range seg.Steps {
			rec.Steps = append(rec.Steps, StepRecord{
				Reraise: step.Reraise,
				Source:  step.Loc.Source,
				Routine: step.Loc.Routine,
				Line:    step.Loc.Line,
			})
		}
		r.Segments = append(r.Segments, rec)
	}
	return r
}
