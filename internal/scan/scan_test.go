package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// touch creates an empty file, creating parent directories as needed.
func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, nil, 0600))
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("chapter01.mp3"))
	assert.True(t, Supported("CHAPTER01.MP3"))
	assert.True(t, Supported("book.m4b"))
	assert.False(t, Supported("cover.jpg"))
	assert.False(t, Supported("notes.txt"))
	assert.False(t, Supported("noext"))
}

func TestScan_SourceMissing(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "nope"), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceNotFound)
}

func TestScan_SourceIsFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.mp3")
	touch(t, file)

	_, err := Scan(file, false)
	assert.ErrorIs(t, err, ErrNotADirectory)
}

func TestScan_NoAudioFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "readme.txt"))

	_, err := Scan(dir, false)
	assert.ErrorIs(t, err, ErrNoAudioFiles)
}

func TestScan_NonRecursive(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "02.mp3"))
	touch(t, filepath.Join(dir, "01.mp3"))
	touch(t, filepath.Join(dir, "cover.jpg"))
	touch(t, filepath.Join(dir, "sub", "03.mp3"))

	groups, err := Scan(dir, false)
	require.NoError(t, err)
	require.Len(t, groups, 1)

	// Sorted, filtered, and not descending into subdirectories.
	assert.Equal(t, []string{
		filepath.Join(dir, "01.mp3"),
		filepath.Join(dir, "02.mp3"),
	}, groups[0].Files)
}

func TestScan_Recursive(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "book_a", "01.mp3"))
	touch(t, filepath.Join(dir, "book_a", "02.mp3"))
	touch(t, filepath.Join(dir, "book_b", "disc1", "01.flac"))
	touch(t, filepath.Join(dir, "book_b", "notes.txt"))

	groups, err := Scan(dir, true)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, filepath.Join(dir, "book_a"), groups[0].Dir)
	assert.Len(t, groups[0].Files, 2)
	assert.Equal(t, filepath.Join(dir, "book_b", "disc1"), groups[1].Dir)
	assert.Len(t, groups[1].Files, 1)
}

func TestScan_SkipsOwnOutput(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "book", "01.mp3"))
	touch(t, filepath.Join(dir, "book", DefaultOutputDirName, "1.mp3"))

	groups, err := Scan(dir, true)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, filepath.Join(dir, "book"), groups[0].Dir)
}
