package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkspace_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "work")

	w, err := NewWorkspace(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, w.TempDir())
	assert.DirExists(t, dir)
}

func TestNewWorkspace_DefaultDirectory(t *testing.T) {
	w, err := NewWorkspace("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(os.TempDir(), "letmehear"), w.TempDir())
}

func TestWorkspace_MergedPath(t *testing.T) {
	w, err := NewWorkspace(t.TempDir())
	require.NoError(t, err)

	a := w.MergedPath()
	b := w.MergedPath()

	assert.True(t, strings.HasPrefix(filepath.Base(a), "merged_"))
	assert.True(t, strings.HasSuffix(a, ".wav"))
	assert.NotEqual(t, a, b, "paths must be unique per call")
	assert.Equal(t, w.TempDir(), filepath.Dir(a))
}

func TestWorkspace_Cleanup(t *testing.T) {
	w, err := NewWorkspace(t.TempDir())
	require.NoError(t, err)

	existing := filepath.Join(w.TempDir(), "leftover.wav")
	require.NoError(t, os.WriteFile(existing, []byte("x"), 0600))
	missing := filepath.Join(w.TempDir(), "never-created.wav")

	require.NoError(t, w.Cleanup(context.Background(), []string{existing, missing}))
	assert.NoFileExists(t, existing)
}

func TestWorkspace_Cleanup_Cancelled(t *testing.T) {
	w, err := NewWorkspace(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = w.Cleanup(ctx, []string{filepath.Join(w.TempDir(), "x.wav")})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
