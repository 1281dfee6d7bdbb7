package fatal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/roach88/tracering/internal/report"
	"github.com/roach88/tracering/internal/ring"
	"github.com/roach88/tracering/internal/trace"
)

// archiveTimeout bounds the best-effort archive write so a wedged disk
// cannot keep a crashing process alive.
const archiveTimeout = 2 * time.Second

// Handler renders and reports unhandled exceptions. The zero value is not
// usable; construct with New and override fields before first use only.
type Handler struct {
	// Out receives the rendered traceback. Defaults to os.Stderr.
	Out io.Writer

	// Log receives diagnostics about the handler's own best-effort steps
	// (archive failures). Defaults to a text handler on Out.
	Log *slog.Logger

	// Namer resolves exception tokens to display names. Defaults to
	// trace.DefaultNamer.
	Namer trace.Namer

	// Archive, when non-nil, receives a crash report before exit.
	Archive *report.Store

	// Exit terminates the process. Defaults to os.Exit. Tests inject a
	// recorder here; production code has no reason to.
	Exit func(code int)
}

// New returns a handler writing to stderr and exiting via os.Exit.
func New() *Handler {
	return &Handler{}
}

// OnUnhandled is invoked once, when the exception identified by tok has no
// remaining handler. It decodes the store, renders the traceback to the
// diagnostic stream, best-effort archives it, and terminates the process
// with a non-zero status. It never returns (unless a test injects a
// non-terminating Exit) and never panics, even with a nil store.
func (h *Handler) OnUnhandled(store *ring.Store, tok ring.Token) {
	out := h.Out
	if out == nil {
		out = os.Stderr
	}
	namer := h.Namer
	if namer == nil {
		namer = trace.DefaultNamer
	}
	exit := h.Exit
	if exit == nil {
		exit = os.Exit
	}

	fmt.Fprintf(out, "fatal: unhandled exception %s\n", namer(tok))

	var segs []trace.Segment
	if store != nil {
		segs = trace.Decode(store)
	}
	if len(segs) == 0 {
		fmt.Fprintln(out, "(no traceback recorded)")
	} else {
		fmt.Fprintln(out, "traceback (most recent exception first):")
		trace.Render(out, segs, namer)
	}

	h.archive(out, segs, namer)
	exit(1)
}

// archive persists the crash best-effort. Any failure, including a panic out
// of the storage layer, is logged and swallowed: this code runs on the
// error-reporting path and must not fail.
func (h *Handler) archive(out io.Writer, segs []trace.Segment, namer trace.Namer) {
	if h.Archive == nil {
		return
	}

	log := h.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(out, nil))
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error("crash archive panicked", "panic", fmt.Sprintf("%v", r))
		}
	}()

	var buf strings.Builder
	trace.Render(&buf, segs, namer)
	rep := report.FromSegments(segs, namer, buf.String())

	ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
	defer cancel()

	if err := h.Archive.Save(ctx, rep); err != nil {
		log.Error("failed to archive crash report", "error", err)
		return
	}
	log.Info("crash report archived", "id", rep.ID)
}
