// Package scan enumerates audio files under a source directory and groups
// them per directory, so each directory of an audio book is merged and
// split on its own.
package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultOutputDirName is the name of the output directory created inside
// a source directory when no destination is given. Directories with this
// name are skipped during scanning so re-runs do not consume their own
// output.
const DefaultOutputDirName = "letmehear"

// Static errors for scanning.
var (
	// ErrSourceNotFound is returned when the source path does not exist.
	ErrSourceNotFound = errors.New("scan: source path not found")
	// ErrNotADirectory is returned when the source path is not a directory.
	ErrNotADirectory = errors.New("scan: source path is not a directory")
	// ErrNoAudioFiles is returned when no supported audio files are found.
	ErrNoAudioFiles = errors.New("scan: no supported audio files found")
)

// supportedExtensions lists the input container extensions handed to
// ffmpeg. Selection is by extension only; content sniffing is up to
// ffmpeg itself.
var supportedExtensions = map[string]struct{}{
	".aac":  {},
	".ac3":  {},
	".aif":  {},
	".aiff": {},
	".flac": {},
	".m4a":  {},
	".m4b":  {},
	".mka":  {},
	".mp3":  {},
	".oga":  {},
	".ogg":  {},
	".opus": {},
	".wav":  {},
	".wma":  {},
}

// Supported reports whether the file name has a supported audio extension.
func Supported(name string) bool {
	_, ok := supportedExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Group is an ordered set of audio files from a single directory.
// Files are absolute paths sorted lexicographically, which is the order
// they are concatenated in.
type Group struct {
	Dir   string
	Files []string
}

// Scan enumerates supported audio files under sourceDir and returns one
// Group per directory containing at least one of them, sorted by
// directory path. When recursive is false only files directly in
// sourceDir are considered and at most one group is returned.
func Scan(sourceDir string, recursive bool) ([]Group, error) {
	abs, err := filepath.Abs(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("resolve source path: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, abs)
		}
		return nil, fmt.Errorf("stat source path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, abs)
	}

	byDir := map[string][]string{}

	if recursive {
		err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if d.Name() == DefaultOutputDirName && path != abs {
					return filepath.SkipDir
				}
				return nil
			}
			if Supported(d.Name()) {
				dir := filepath.Dir(path)
				byDir[dir] = append(byDir[dir], path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk source path: %w", err)
		}
	} else {
		entries, err := os.ReadDir(abs)
		if err != nil {
			return nil, fmt.Errorf("read source path: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !Supported(entry.Name()) {
				continue
			}
			byDir[abs] = append(byDir[abs], filepath.Join(abs, entry.Name()))
		}
	}

	if len(byDir) == 0 {
		return nil, fmt.Errorf("%w under %s", ErrNoAudioFiles, abs)
	}

	dirs := make([]string, 0, len(byDir))
	for dir := range byDir {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	groups := make([]Group, 0, len(dirs))
	for _, dir := range dirs {
		files := byDir[dir]
		sort.Strings(files)
		groups = append(groups, Group{Dir: dir, Files: files})
	}

	return groups, nil
}
