// Package storage manages the temporary workspace holding the merged
// intermediate audio artifact between the merge and split stages.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Workspace is a directory for temporary files produced while processing.
// Merged intermediates are named uniquely per run so concurrent letmehear
// invocations over different sources cannot collide.
type Workspace struct {
	tempDir string
}

// NewWorkspace creates a workspace rooted at tempDir, creating the
// directory if needed. If tempDir is empty, a "letmehear" directory
// under os.TempDir() is used.
func NewWorkspace(tempDir string) (*Workspace, error) {
	if tempDir == "" {
		tempDir = filepath.Join(os.TempDir(), "letmehear")
	}

	if err := os.MkdirAll(tempDir, 0750); err != nil {
		return nil, fmt.Errorf("create temp directory: %w", err)
	}

	return &Workspace{tempDir: tempDir}, nil
}

// TempDir returns the workspace directory path.
func (w *Workspace) TempDir() string {
	return w.tempDir
}

// MergedPath returns a fresh path for a merged intermediate WAV file.
// The file itself is not created.
func (w *Workspace) MergedPath() string {
	return filepath.Join(w.tempDir, fmt.Sprintf("merged_%s.wav", uuid.NewString()))
}

// Cleanup removes the given temporary files. Missing files are not an
// error; cleanup continues past failures and the first one is returned.
func (w *Workspace) Cleanup(ctx context.Context, paths []string) error {
	var firstErr error
	for _, p := range paths {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			if firstErr == nil {
				firstErr = fmt.Errorf("remove temp file %s: %w", p, err)
			}
		}
	}
	return firstErr
}
