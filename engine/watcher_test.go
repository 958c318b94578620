package engine

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMeshWatcherDebouncesChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mesh.obj")
	require.NoError(t, os.WriteFile(path, []byte("v 0 0 0\n"), 0o644))

	var changes atomic.Int32
	w, err := newMeshWatcher(path, 50*time.Millisecond, zap.NewNop(), func() { changes.Add(1) })
	require.NoError(t, err)
	defer w.Close()

	for i := range 5 {
		require.NoError(t, os.WriteFile(path, []byte{byte('0' + i)}, 0o644))
	}

	require.Eventually(t, func() bool { return changes.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), changes.Load(), "a burst of writes reloads once")
}

func TestMeshWatcherIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mesh.obj")
	require.NoError(t, os.WriteFile(path, []byte("v 0 0 0\n"), 0o644))

	var changes atomic.Int32
	w, err := newMeshWatcher(path, 10*time.Millisecond, zap.NewNop(), func() { changes.Add(1) })
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.obj"), []byte("v 1 1 1\n"), 0o644))
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, int32(0), changes.Load())
}

func TestMeshWatcherClose(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mesh.obj")
	require.NoError(t, os.WriteFile(path, []byte("v 0 0 0\n"), 0o644))

	var changes atomic.Int32
	w, err := newMeshWatcher(path, 20*time.Millisecond, zap.NewNop(), func() { changes.Add(1) })
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("v 1 1 1\n"), 0o644))
	w.Close()
	w.Close()
	time.Sleep(60 * time.Millisecond)

	assert.Equal(t, int32(0), changes.Load(), "pending notifications are dropped on close")
}

func TestNewMeshWatcherMissingDir(t *testing.T) {
	_, err := newMeshWatcher(filepath.Join(t.TempDir(), "nope", "mesh.obj"), time.Millisecond, zap.NewNop(), func() {})
	assert.Error(t, err)
}
