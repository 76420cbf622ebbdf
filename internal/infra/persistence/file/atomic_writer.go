package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// TempPrefix marks in-flight temp files; readers listing a directory skip them.
const TempPrefix = ".tmp-"

// WriteFileAtomic writes data to path via temp file + rename so readers never
// observe a partially written document.
func WriteFileAtomic(fs afero.Fs, path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	// Temp file must live in the same directory for the rename to be atomic.
	tmpFile, err := afero.TempFile(fs, dir, TempPrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// No-op after a successful rename.
	defer fs.Remove(tmpPath)

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if perm != 0 {
		if err := fs.Chmod(tmpPath, perm); err != nil {
			return fmt.Errorf("failed to chmod temp file: %w", err)
		}
	}

	if err := fs.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}
	return nil
}

// ReadFileIfExists returns (nil, false, nil) when path does not exist.
func ReadFileIfExists(fs afero.Fs, path string) ([]byte, bool, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, true, nil
}

// IsTemp reports whether name is an in-flight temp file.
func IsTemp(name string) bool {
	return len(name) > len(TempPrefix) && name[:len(TempPrefix)] == TempPrefix
}
