package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func ExpandHomeDir(path string) string {
	if len(path) == 0 {
		return path
	}
	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return strings.Replace(path, "~", home, 1)
	}
	return path
}

// WriteFile atomically writes data to the file at path creating the parent directories if needed. The data is
// written to a temporary file in the same directory first which is then renamed to path.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory '%s': %w", dir, err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temporary file: %w", err)
	}
	tmpPath := f.Name()
	defer func() {
		// No-op if the file has been renamed.
		_ = os.Remove(tmpPath)
	}()

	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write file '%s': %w", tmpPath, err)
	}
	if err = f.Chmod(perm); err != nil {
		_ = f.Close()
		return fmt.Errorf("chmod file '%s': %w", tmpPath, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("close file '%s': %w", tmpPath, err)
	}

	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename file '%s' to '%s': %w", tmpPath, path, err)
	}
	return nil
}
