package report

import (
	"fmt"
	"os"
	"path/filepath"
)

// PendingWrite is one file SaveAllAtomic puts in place.
type PendingWrite struct {
	Path string
	Data []byte
}

// SaveAtomic writes data to path through a temp file in the same directory
// followed by a rename, so path either keeps its old content or holds all of data.
func SaveAtomic(path string, data []byte) error {
	return SaveAllAtomic([]PendingWrite{{Path: path, Data: data}})
}

// SaveAllAtomic stages every write in a temp file next to its target and only
// renames once all of them are fully written. A failure while staging leaves
// every target untouched.
func SaveAllAtomic(writes []PendingWrite) error {
	staged := make([]string, 0, len(writes))
	discard := func(names []string) {
		for _, name := range names {
			os.Remove(name)
		}
	}

	for _, w := range writes {
		tmpName, err := writeTemp(w.Path, w.Data)
		if err != nil {
			discard(staged)
			return err
		}
		staged = append(staged, tmpName)
	}

	for i, w := range writes {
		if err := os.Rename(staged[i], w.Path); err != nil {
			discard(staged[i:])
			return &RenderError{Stage: "save", Err: fmt.Errorf("failed to move %s into place: %w", w.Path, err)}
		}
	}
	return nil
}

func writeTemp(path string, data []byte) (string, error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return "", &RenderError{Stage: "save", Err: fmt.Errorf("failed to create temp file in %s: %w", dir, err)}
	}
	tmpName := tmp.Name()
	cleanup := func(cause error) (string, error) {
		tmp.Close()
		os.Remove(tmpName)
		return "", &RenderError{Stage: "save", Err: cause}
	}

	if _, err := tmp.Write(data); err != nil {
		return cleanup(fmt.Errorf("failed to write %s: %w", tmpName, err))
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(fmt.Errorf("failed to sync %s: %w", tmpName, err))
	}
	if err := tmp.Chmod(0o644); err != nil {
		return cleanup(fmt.Errorf("failed to chmod %s: %w", tmpName, err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", &RenderError{Stage: "save", Err: fmt.Errorf("failed to close %s: %w", tmpName, err)}
	}
	return tmpName, nil
}
