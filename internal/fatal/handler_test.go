package fatal

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tracering/internal/report"
	"github.com/roach88/tracering/internal/ring"
	"github.com/roach88/tracering/internal/trace"
)

func TestOnUnhandled_RendersAndExitsNonZero(t *testing.T) {
	store, err := ring.New(8)
	require.NoError(t, err)
	r := trace.NewRecorder(store)
	r.Frame(ring.Location{Routine: "h", Line: 5})
	r.Origin("KeyError")
	r.Frame(ring.Location{Routine: "entry", Line: 25})

	var out strings.Builder
	exitCode := -1
	h := &Handler{
		Out:  &out,
		Exit: func(code int) { exitCode = code },
	}

	h.OnUnhandled(store, "KeyError")

	assert.Equal(t, 1, exitCode, "must terminate with non-zero status")
	assert.Contains(t, out.String(), "fatal: unhandled exception KeyError")
	assert.Contains(t, out.String(), "raised at h:5")
	assert.Contains(t, out.String(), "at entry:25")
}

func TestOnUnhandled_EmptyStoreIsSafe(t *testing.T) {
	store, err := ring.New(ring.CompactCapacity)
	require.NoError(t, err)

	var out strings.Builder
	exitCode := -1
	h := &Handler{Out: &out, Exit: func(code int) { exitCode = code }}

	require.NotPanics(t, func() {
		h.OnUnhandled(store, "KeyError")
	})
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, out.String(), "(no traceback recorded)")
}

func TestOnUnhandled_NilStoreIsSafe(t *testing.T) {
	var out strings.Builder
	exitCode := -1
	h := &Handler{Out: &out, Exit: func(code int) { exitCode = code }}

	require.NotPanics(t, func() {
		h.OnUnhandled(nil, "KeyError")
	})
	assert.Equal(t, 1, exitCode)
}

func TestOnUnhandled_ArchivesCrashReport(t *testing.T) {
	archive, err := report.Open(filepath.Join(t.TempDir(), "crash.db"))
	require.NoError(t, err)
	defer archive.Close()

	store, err := ring.New(8)
	require.NoError(t, err)
	r := trace.NewRecorder(store)
	r.Frame(ring.Location{Routine: "f", Line: 17})
	r.Origin("IOError")

	var out strings.Builder
	h := &Handler{
		Out:     &out,
		Archive: archive,
		Exit:    func(int) {},
	}
	h.OnUnhandled(store, "IOError")

	sums, err := archive.List(context.Background())
	require.NoError(t, err)
	require.Len(t, sums, 1)
	assert.Equal(t, "IOError", sums[0].Exception)

	rep, err := archive.Get(context.Background(), sums[0].ID)
	require.NoError(t, err)
	assert.Contains(t, rep.Rendered, "raised at f:17")
}

func TestOnUnhandled_ArchiveFailureStillExits(t *testing.T) {
	archive, err := report.Open(filepath.Join(t.TempDir(), "crash.db"))
	require.NoError(t, err)
	// Closed archive: Save will fail, the handler must log and exit anyway.
	require.NoError(t, archive.Close())

	store, err := ring.New(8)
	require.NoError(t, err)
	trace.NewRecorder(store).Origin("KeyError")

	var out strings.Builder
	exitCode := -1
	h := &Handler{
		Out:     &out,
		Archive: archive,
		Exit:    func(code int) { exitCode = code },
	}

	require.NotPanics(t, func() {
		h.OnUnhandled(store, "KeyError")
	})
	assert.Equal(t, 1, exitCode)
	assert.Contains(t, out.String(), "failed to archive crash report")
}
