package utils

import (
	"fmt"
	"os"
)

// EnsureDir ensures the provided directory exists.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// SafeWriteFile writes data to a temp file and atomically renames it into place.
func SafeWriteFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}

// StagedFile is one entry of a SafeWriteFiles batch.
type StagedFile struct {
	Path string
	Data []byte
}

// SafeWriteFiles writes every file to its temp sibling and renames them into
// place, in order, only after all temp writes succeed. On failure the
// remaining temp files are removed. Targets renamed before a failed rename
// keep their new content.
func SafeWriteFiles(files ...StagedFile) error {
	tmps := make([]string, 0, len(files))
	cleanup := func() {
		for _, tmp := range tmps {
			_ = RemoveIfExists(tmp)
		}
	}
	for _, f := range files {
		tmp := f.Path + ".tmp"
		tmps = append(tmps, tmp)
		if err := os.WriteFile(tmp, f.Data, 0o644); err != nil {
			cleanup()
			return fmt.Errorf("write temp file: %w", err)
		}
	}
	for i, f := range files {
		if err := os.Rename(tmps[i], f.Path); err != nil {
			tmps = tmps[i:]
			cleanup()
			return fmt.Errorf("atomic rename: %w", err)
		}
	}
	return nil
}

// RemoveIfExists deletes path, treating a missing file as success.
func RemoveIfExists(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
