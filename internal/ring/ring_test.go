package ring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ValidCapacities(t *testing.T) {
	for _, capacity := range []int{1, 2, CompactCapacity, VerboseCapacity} {
		s, err := New(capacity)
		require.NoError(t, err, "capacity %d should be accepted", capacity)
		assert.Equal(t, capacity, s.Capacity())
		assert.Equal(t, 0, s.Len())
		assert.Equal(t, uint64(0), s.TotalWrites())
	}
}

func TestNew_RejectsNonPowerOfTwo(t *testing.T) {
	for _, capacity := range []int{0, -1, 100, 129, 3} {
		_, err := New(capacity)
		require.Error(t, err, "capacity %d should be rejected", capacity)

		var capErr *CapacityError
		require.ErrorAs(t, err, &capErr)
		assert.Equal(t, capacity, capErr.Capacity)
	}
}

func TestStore_AppendAndBack(t *testing.T) {
	s, err := New(8)
	require.NoError(t, err)

	s.Append(Entry{Kind: KindFrame, Loc: Location{Source: "f.src", Routine: "f", Line: 17}})
	s.Append(Entry{Kind: KindOrigin, Token: "KeyError"})

	require.Equal(t, 2, s.Len())
	assert.Equal(t, uint64(2), s.TotalWrites())

	// Back(0) is the most recent write.
	assert.Equal(t, KindOrigin, s.Back(0).Kind)
	assert.Equal(t, "KeyError", s.Back(0).Token)
	assert.Equal(t, KindFrame, s.Back(1).Kind)
	assert.Equal(t, 17, s.Back(1).Loc.Line)
}

func TestStore_LenBeforeWrapIsWriteCount(t *testing.T) {
	s, err := New(16)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		s.Append(Entry{Kind: KindFrame, Loc: Location{Routine: "f", Line: i}})
	}

	// Before the first wrap only written slots are visible; the 11 untouched
	// zero-value slots must not leak into the valid window.
	assert.Equal(t, 5, s.Len())
	for i := 0; i < s.Len(); i++ {
		assert.Equal(t, KindFrame, s.Back(i).Kind)
	}
}

func TestStore_WrapOverwritesOldest(t *testing.T) {
	s, err := New(4)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		s.Append(Entry{Kind: KindFrame, Loc: Location{Routine: "f", Line: i}})
	}

	// Capacity+1 writes: length stays at capacity, the oldest write (line 0)
	// is gone, and the survivors are exactly the most recent four.
	require.Equal(t, 4, s.Len())
	assert.Equal(t, uint64(5), s.TotalWrites())
	for i := 0; i < 4; i++ {
		assert.Equal(t, 4-i, s.Back(i).Loc.Line)
	}
}

func TestStore_WrapManyTimes(t *testing.T) {
	s, err := New(8)
	require.NoError(t, err)

	for i := 0; i < 1000; i++ {
		s.Append(Entry{Kind: KindFrame, Loc: Location{Routine: "loop", Line: i}})
	}

	require.Equal(t, 8, s.Len())
	for i := 0; i < 8; i++ {
		assert.Equal(t, 999-i, s.Back(i).Loc.Line)
	}
}

func TestLocation_String(t *testing.T) {
	loc := Location{Source: "mod.src", Routine: "handler", Line: 42}
	assert.Equal(t, "handler:42", loc.String())
}
