package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by Get for an unknown report id.
var ErrNotFound = errors.New("report not found")

// List returns summaries of all archived reports, newest first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, exception FROM reports ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		var created string
		if err := rows.Scan(&sum.ID, &created, &sum.Exception); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		sum.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", created, err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Get loads one report with all its segments and steps.
func (s *Store) Get(ctx context.Context, id string) (*Report, error) {
	r := &Report{ID: id}

	var created string
	err := s.db.QueryRowContext(ctx,
		`SELECT created_at, exception, rendered FROM reports WHERE id = ?`, id).
		Scan(&created, &r.Exception, &r.Rendered)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load report: %w", err)
	}
	r.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", created, err)
	}

	segRows, err := s.db.QueryContext(ctx,
		`SELECT seq, exception, origin_known FROM segments WHERE report_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("load segments: %w", err)
	}
	defer segRows.Close()

	var segSeqs []int
	for segRows.Next() {
		var seq, originKnown int
		var rec SegmentRecord
		if err := segRows.Scan(&seq, &rec.Exception, &originKnown); err != nil {
			return nil, fmt.Errorf("scan segment row: %w", err)
		}
		rec.OriginKnown = originKnown != 0
		r.Segments = append(r.Segments, rec)
		segSeqs = append(segSeqs, seq)
	}
	if err := segRows.Err(); err != nil {
		return nil, err
	}

	for i, seq := range segSeqs {
		steps, err := s.loadSteps(ctx, id, seq)
		if err != nil {
			return nil, err
		}
		r.Segments[i].Steps = steps
	}
	return r, nil
}

func (s *Store) loadSteps(ctx context.Context, reportID string, segSeq int) ([]StepRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT reraise, source, routine, line FROM steps
		 WHERE report_id = ? AND segment_seq = ? ORDER BY seq`, reportID, segSeq)
	if err != nil {
		return nil, fmt.Errorf("load steps: %w", err)
	}
	defer rows.Close()

	var out []StepRecord
	for rows.Next() {
		var step StepRecord
		var reraise int
		if err := rows.Scan(&reraise, &step.Source, &step.Routine, &step.Line); err != nil {
			return nil, fmt.Errorf("scan step row: %w", err)
		}
		step.Reraise = reraise != 0
		out = append(out, step)
	}
	return out, rows.Err()
}
