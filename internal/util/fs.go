package util

import (
	"errors"
	"os"
	"path/filepath"
)

// EnsureDir creates the directory path if it does not exist.
func EnsureDir(path string) error {
	if path == "" {
		return errors.New("empty path")
	}
	return os.MkdirAll(path, 0o755)
}

// EnsureParentDir creates the directory that will hold file.
func EnsureParentDir(file string) error {
	return EnsureDir(filepath.Dir(file))
}

// RemoveIfExists deletes the file if present.
func RemoveIfExists(path string) error {
	err := os.Remove(path)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// FileSize returns the size of a regular file. Directories are an error.
func FileSize(path string) (int64, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if fi.IsDir() {
		return 0, &os.PathError{Op: "stat", Path: path, Err: errors.New("is a directory")}
	}
	return fi.Size(), nil
}
