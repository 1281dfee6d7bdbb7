package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tracering/internal/config"
	"github.com/roach88/tracering/internal/ring"
	"github.com/roach88/tracering/internal/trace"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Log      string
	Config   string
	Capacity int
}

// logEvent is one line of a JSONL breadcrumb log. The token doubles as the
// exception's display name on this offline path; in-process recorders keep
// tokens opaque and resolve names through the runtime's type system.
type logEvent struct {
	Kind    string `json:"kind"` // "frame" | "origin" | "reraise"
	Source  string `json:"source,omitempty"`
	Routine string `json:"routine,omitempty"`
	Line    int    `json:"line,omitempty"`
	Token   string `json:"token,omitempty"`
}

// ReplayStep is one propagation step in JSON output.
type ReplayStep struct {
	Reraise bool   `json:"reraise,omitempty"`
	Source  string `json:"source,omitempty"`
	Routine string `json:"routine,omitempty"`
	Line    int    `json:"line,omitempty"`
}

// ReplaySegment is one decoded exception path in JSON output.
type ReplaySegment struct {
	Exception   string       `json:"exception"`
	OriginKnown bool         `json:"origin_known"`
	Steps       []ReplayStep `json:"steps"`
}

// ReplayResult holds the complete replay output.
type ReplayResult struct {
	EntriesRead int             `json:"entries_read"`
	Capacity    int             `json:"capacity"`
	Overwritten uint64          `json:"overwritten"`
	Segments    []ReplaySegment `json:"segments"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Decode a breadcrumb log into a traceback",
		Long: `Feed a JSON-lines breadcrumb log through a ring buffer of the configured
capacity and print the decoded traceback.

Each input line is one recorded event:
  {"kind":"frame","source":"h.src","routine":"h","line":5}
  {"kind":"origin","token":"KeyError"}
  {"kind":"reraise","token":"KeyError"}

Logs longer than the buffer capacity wrap exactly as the in-process recorder
does: only the most recent entries survive.

Exit codes:
  0 - Log decoded
  2 - Command error (unreadable log, malformed entry, bad capacity)

Examples:
  tracering replay --log crash.jsonl
  tracering replay --log crash.jsonl --capacity 8192
  tracering replay --log crash.jsonl --config tracering.yaml --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Log, "log", "", "path to JSONL breadcrumb log (required)")
	_ = cmd.MarkFlagRequired("log")
	cmd.Flags().StringVar(&opts.Config, "config", "", "path to YAML buffer config")
	cmd.Flags().IntVar(&opts.Capacity, "capacity", 0, "explicit buffer capacity (power of two, overrides config)")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	store, err := replayStore(opts)
	if err != nil {
		return err
	}

	entries, err := feedLog(opts.Log, store)
	if err != nil {
		return err
	}
	slog.Debug("breadcrumb log replayed",
		"entries", entries, "capacity", store.Capacity(), "writes", store.TotalWrites())

	segs := trace.Decode(store)

	if opts.Format == "json" {
		result := ReplayResult{
			EntriesRead: entries,
			Capacity:    store.Capacity(),
			Overwritten: overwritten(store),
			Segments:    toReplaySegments(segs),
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	out := cmd.OutOrStdout()
	if len(segs) == 0 {
		fmt.Fprintln(out, "No breadcrumbs recorded.")
		return nil
	}
	fmt.Fprintln(out, "traceback (most recent exception first):")
	trace.Render(out, segs, stringNamer)
	if dropped := overwritten(store); dropped > 0 {
		fmt.Fprintf(out, "\n(%d older entries overwritten by the ring buffer)\n", dropped)
	}
	return nil
}

// replayStore builds the ring store from flags: explicit capacity wins,
// then the config file, then the compact default.
func replayStore(opts *ReplayOptions) (*ring.Store, error) {
	cfg := config.Default()
	if opts.Config != "" {
		loaded, err := config.Load(opts.Config)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load config", err)
		}
		cfg = loaded
	}
	if opts.Capacity != 0 {
		cfg.Capacity = opts.Capacity
	}

	store, err := cfg.NewStore()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid buffer configuration", err)
	}
	return store, nil
}

// feedLog records every event in the log file into the store, in order.
func feedLog(path string, store *ring.Store) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, WrapExitError(ExitCommandError, "failed to open breadcrumb log", err)
	}
	defer f.Close()

	rec := trace.NewRecorder(store)
	scanner := bufio.NewScanner(f)
	lineNo := 0
	entries := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var ev logEvent
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			return 0, WrapExitError(ExitCommandError,
				fmt.Sprintf("malformed breadcrumb at line %d", lineNo), err)
		}

		switch ev.Kind {
		case "frame":
			rec.Frame(ring.Location{Source: ev.Source, Routine: ev.Routine, Line: ev.Line})
		case "origin":
			rec.Origin(ev.Token)
		case "reraise":
			rec.Reraise(ev.Token)
		default:
			return 0, NewExitError(ExitCommandError,
				fmt.Sprintf("unknown breadcrumb kind %q at line %d", ev.Kind, lineNo))
		}
		entries++
	}
	if err := scanner.Err(); err != nil {
		return 0, WrapExitError(ExitCommandError, "failed to read breadcrumb log", err)
	}
	return entries, nil
}

func overwritten(store *ring.Store) uint64 {
	if store.TotalWrites() <= uint64(store.Capacity()) {
		return 0
	}
	return store.TotalWrites() - uint64(store.Capacity())
}

// stringNamer resolves offline tokens, which are their own display names.
func stringNamer(tok ring.Token) string {
	if s, ok := tok.(string); ok {
		return s
	}
	return trace.DefaultNamer(tok)
}

func toReplaySegments(segs []trace.Segment) []ReplaySegment {
	out := make([]ReplaySegment, 0, len(segs))
	for _, seg := range segs {
		name := "<unknown>"
		if seg.TokenKnown {
			name = stringNamer(seg.Token)
		}
		rs := ReplaySegment{
			Exception:   name,
			OriginKnown: seg.OriginKnown,
			Steps:       make([]ReplayStep, 0, len(seg.Steps)),
		}
		for _, step := range seg.Steps {
			rs.Steps = append(rs.Steps, ReplayStep{
				Reraise: step.Reraise,
				Source:  step.Loc.Source,
				Routine: step.Loc.Routine,
				Line:    step.Loc.Line,
			})
		}
		out = append(out, rs)
	}
	return out
}
