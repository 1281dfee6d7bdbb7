package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tracering/internal/ring"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tracering.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Modes(t *testing.T) {
	cfg, err := Load(writeConfig(t, "mode: compact\n"))
	require.NoError(t, err)
	capacity, err := cfg.RingCapacity()
	require.NoError(t, err)
	assert.Equal(t, ring.CompactCapacity, capacity)

	cfg, err = Load(writeConfig(t, "mode: verbose\n"))
	require.NoError(t, err)
	capacity, err = cfg.RingCapacity()
	require.NoError(t, err)
	assert.Equal(t, ring.VerboseCapacity, capacity)
}

func TestLoad_ExplicitCapacityOverridesMode(t *testing.T) {
	cfg, err := Load(writeConfig(t, "mode: compact\ncapacity: 256\n"))
	require.NoError(t, err)

	capacity, err := cfg.RingCapacity()
	require.NoError(t, err)
	assert.Equal(t, 256, capacity)
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	_, err := Load(writeConfig(t, "mod: compact\n"))
	require.Error(t, err, "typoed field names must be rejected")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestRingCapacity_UnknownMode(t *testing.T) {
	cfg := &Config{Mode: "chatty"}
	_, err := cfg.RingCapacity()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chatty")
}

func TestNewStore_ValidatesPowerOfTwo(t *testing.T) {
	store, err := Default().NewStore()
	require.NoError(t, err)
	assert.Equal(t, ring.CompactCapacity, store.Capacity())

	_, err = (&Config{Capacity: 100}).NewStore()
	require.Error(t, err)
	var capErr *ring.CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 100, capErr.Capacity)
}
