package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Save writes a report and all its segments in one transaction, assigning
// the report a UUIDv7 id and creation timestamp.
//
// Uses github.com/google/uuid for RFC 4122 compliant UUIDs; v7 ids are
// time-ordered, so listing by id matches listing by creation time.
func (s *Store) Save(ctx context.Context, r *Report) error {
	r.ID = uuid.Must(uuid.NewV7()).String()
	r.CreatedAt = time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO reports (id, created_at, exception, rendered) VALUES (?, ?, ?, ?)`,
		r.ID, r.CreatedAt.Format(time.RFC3339Nano), r.Exception, r.Rendered,
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}

	for segSeq, seg := range r.Segments {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO segments (report_id, seq, exception, origin_known) VALUES (?, ?, ?, ?)`,
			r.ID, segSeq, seg.Exception, boolToInt(seg.OriginKnown),
		)
		if err != nil {
			return fmt.Errorf("insert segment %d: %w", segSeq, err)
		}

		for stepSeq, step := range seg.Steps {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO steps (report_id, segment_seq, seq, reraise, source, routine, line)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				r.ID, segSeq, stepSeq, boolToInt(step.Reraise), step.Source, step.Routine, step.Line,
			)
			if err != nil {
				return fmt.Errorf("insert step %d/%d: %w", segSeq, stepSeq, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
