package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRemoveIfExists(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "clip.webm")
	if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := RemoveIfExists(p); err != nil {
		t.Fatalf("RemoveIfExists() error = %v", err)
	}
	if _, err := os.Stat(p); !os.IsNotExist(err) {
		t.Errorf("file still present: %v", err)
	}
	// Missing file is not an error.
	if err := RemoveIfExists(p); err != nil {
		t.Errorf("RemoveIfExists(missing) error = %v", err)
	}
}

func TestFileSize(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "out.mp4")
	if err := os.WriteFile(p, make([]byte, 2048), 0o644); err != nil {
		t.Fatal(err)
	}
	n, err := FileSize(p)
	if err != nil || n != 2048 {
		t.Errorf("FileSize() = %d, %v; want 2048", n, err)
	}
	if _, err := FileSize(dir); err == nil {
		t.Errorf("FileSize(dir) should fail")
	}
	if _, err := FileSize(filepath.Join(dir, "missing")); err == nil {
		t.Errorf("FileSize(missing) should fail")
	}
}

func TestEnsureParentDir(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "a", "b", "clip.mp4")
	if err := EnsureParentDir(target); err != nil {
		t.Fatalf("EnsureParentDir() error = %v", err)
	}
	if fi, err := os.Stat(filepath.Join(dir, "a", "b")); err != nil || !fi.IsDir() {
		t.Errorf("parent dir not created: %v", err)
	}
	if err := EnsureDir(""); err == nil {
		t.Errorf("EnsureDir(\"\") should fail")
	}
}
