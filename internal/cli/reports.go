package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/tracering/internal/report"
)

// ReportsOptions holds flags shared by the reports subcommands.
type ReportsOptions struct {
	*RootOptions
	Database string
}

// ReportSummary is one archived crash in JSON listing output.
type ReportSummary struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
	Exception string `json:"exception"`
}

// NewReportsCommand creates the reports command group.
func NewReportsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Browse archived crash reports",
		Long: `Browse the SQLite crash-report archive written by the fatal handler.

Examples:
  tracering reports list --db ./crash.db
  tracering reports show --db ./crash.db --id 0190b5c0-...
  tracering reports list --db ./crash.db --format json`,
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite crash archive (required)")
	_ = cmd.MarkPersistentFlagRequired("db")

	cmd.AddCommand(newReportsListCommand(opts))
	cmd.AddCommand(newReportsShowCommand(opts))

	return cmd
}

func newReportsListCommand(opts *ReportsOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List archived crash reports, newest first",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReportsList(opts, cmd)
		},
	}
}

func newReportsShowCommand(opts *ReportsOptions) *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:           "show",
		Short:         "Show one archived crash report",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReportsShow(opts, id, cmd)
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "report id (required)")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func runReportsList(opts *ReportsOptions, cmd *cobra.Command) error {
	st, err := report.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open crash archive", err)
	}
	defer st.Close()

	sums, err := st.List(context.Background())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list reports", err)
	}

	if opts.Format == "json" {
		out := make([]ReportSummary, 0, len(sums))
		for _, s := range sums {
			out = append(out, ReportSummary{
				ID:        s.ID,
				CreatedAt: s.CreatedAt.Format(time.RFC3339),
				Exception: s.Exception,
			})
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	w := cmd.OutOrStdout()
	if len(sums) == 0 {
		fmt.Fprintln(w, "No crash reports archived.")
		return nil
	}
	for _, s := range sums {
		fmt.Fprintf(w, "%s  %s  %s\n", s.ID, s.CreatedAt.Format(time.RFC3339), s.Exception)
	}
	return nil
}

func runReportsShow(opts *ReportsOptions, id string, cmd *cobra.Command) error {
	st, err := report.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open crash archive", err)
	}
	defer st.Close()

	rep, err := st.Get(context.Background(), id)
	if errors.Is(err, report.ErrNotFound) {
		return WrapExitError(ExitFailure, "report not found", err)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load report", err)
	}

	if opts.Format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(reportJSON(rep))
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "report %s\n", rep.ID)
	fmt.Fprintf(w, "recorded %s\n", rep.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "exception %s\n\n", rep.Exception)
	fmt.Fprint(w, rep.Rendered)
	return nil
}

// reportJSONDoc mirrors report.Report with stable JSON field names.
type reportJSONDoc struct {
	ID        string          `json:"id"`
	CreatedAt string          `json:"created_at"`
	Exception string          `json:"exception"`
	Rendered  string          `json:"rendered"`
	Segments  []ReplaySegment `json:"segments"`
}

func reportJSON(rep *report.Report) reportJSONDoc {
	doc := reportJSONDoc{
		ID:        rep.ID,
		CreatedAt: rep.CreatedAt.Format(time.RFC3339),
		Exception: rep.Exception,
		Rendered:  rep.Rendered,
		Segments:  make([]ReplaySegment, 0, len(rep.Segments)),
	}
	for _, seg := range rep.Segments {
		rs := ReplaySegment{
			Exception:   seg.Exception,
			OriginKnown: seg.OriginKnown,
			Steps:       make([]ReplayStep, 0, len(seg.Steps)),
		}
		for _, step := range seg.Steps {
			rs.Steps = append(rs.Steps, ReplayStep{
				Reraise: step.Reraise,
				Source:  step.Source,
				Routine: step.Routine,
				Line:    step.Line,
			})
		}
		doc.Segments = append(doc.Segments, rs)
	}
	return doc
}
