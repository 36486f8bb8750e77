package deps

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ytrim/internal/util"
)

func TestFindDownloader_CustomPath(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "yt-dlp")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	got, err := FindDownloader(bin)
	if err != nil || got != bin {
		t.Errorf("FindDownloader(%q) = %q, %v", bin, got, err)
	}
}

func TestFind_MissingCustomPath(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	_, err := FindFFmpeg(missing)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("FindFFmpeg(missing) error = %v, want ErrNotFound", err)
	}
}

func TestFind_DirectoryIsNotABinary(t *testing.T) {
	dir := t.TempDir()
	if _, err := FindFFmpeg(dir); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindFFmpeg(dir) error = %v, want ErrNotFound", err)
	}
}

type stubRunner struct {
	out  string
	err  error
	spec util.CmdSpec
}

func (s *stubRunner) Run(_ context.Context, spec util.CmdSpec) (util.CmdResult, error) {
	s.spec = spec
	return util.CmdResult{Stdout: []byte(s.out)}, s.err
}

func TestVersion(t *testing.T) {
	r := &stubRunner{out: "ffmpeg version 6.1.1 Copyright (c) 2000-2023\nbuilt with gcc\n"}
	v, err := Version(context.Background(), r, "/usr/bin/ffmpeg", "-version")
	if err != nil {
		t.Fatalf("Version() error = %v", err)
	}
	if v != "ffmpeg version 6.1.1 Copyright (c) 2000-2023" {
		t.Errorf("Version() = %q", v)
	}
	if len(r.spec.Args) != 1 || r.spec.Args[0] != "-version" {
		t.Errorf("args = %v", r.spec.Args)
	}

	r = &stubRunner{err: errors.New("boom")}
	if _, err := Version(context.Background(), r, "/usr/bin/yt-dlp", "--version"); err == nil {
		t.Errorf("Version() should propagate runner errors")
	}
}
