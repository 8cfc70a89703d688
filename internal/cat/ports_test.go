package cat

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobPorts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"ttyUSB0", "ttyUSB1", "ttyACM0", "null"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}

	ports, err := globPorts(filepath.Join(dir, "ttyUSB*"), filepath.Join(dir, "ttyACM*"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "ttyUSB0"),
		filepath.Join(dir, "ttyUSB1"),
		filepath.Join(dir, "ttyACM0"),
	}, ports)

	_, err = globPorts(filepath.Join(dir, "["))
	assert.Error(t, err)
}

func TestListPortsSorted(t *testing.T) {
	ports, _ := ListPorts()
	assert.True(t, slices.IsSorted(ports))
	assert.Equal(t, len(slices.Compact(slices.Clone(ports))), len(ports))
}
