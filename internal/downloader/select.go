package downloader

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"
)

// ErrNoOutput means the downloader exited cleanly but the expected file is missing.
var ErrNoOutput = errors.New("downloader reported success but produced no file")

// ResolveDownloaded returns the file the downloader actually wrote for
// expected. yt-dlp may append its own container extension when merging
// formats, so siblings named "<expected>.*" or "<stem>.*" modified since
// notBefore are considered when expected itself is absent.
func ResolveDownloaded(expected string, notBefore time.Time) (string, error) {
	if fi, err := os.Stat(expected); err == nil && !fi.IsDir() {
		return expected, nil
	}

	stem := strings.TrimSuffix(expected, filepath.Ext(expected))
	seen := map[string]bool{}
	var candidates []string
	for _, pattern := range []string{expected + ".*", stem + ".*"} {
		matches, err := filepath.Glob(escapeGlob(pattern))
		if err != nil {
			return "", err
		}
		for _, m := range matches {
			if seen[m] || isPartial(m) {
				continue
			}
			seen[m] = true
			fi, err := os.Stat(m)
			if err != nil || fi.IsDir() || fi.ModTime().Before(notBefore.Add(-time.Second)) {
				continue
			}
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		return "", ErrNoOutput
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		pi, pj := extPriority(filepath.Ext(candidates[i])), extPriority(filepath.Ext(candidates[j]))
		if pi == pj {
			return candidates[i] < candidates[j]
		}
		return pi < pj
	})
	return candidates[0], nil
}

// escapeGlob escapes glob metacharacters in everything but the trailing "*".
// filepath.Match has no escape character on Windows.
func escapeGlob(pattern string) string {
	if runtime.GOOS == "windows" {
		return pattern
	}
	body := strings.TrimSuffix(pattern, "*")
	var b strings.Builder
	for _, r := range body {
		switch r {
		case '*', '?', '[', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String() + "*"
}

func isPartial(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".part", ".ytdl", ".temp", ".tmp":
		return true
	}
	return strings.Contains(filepath.Base(path), ".part-")
}

// extPriority returns a priority score for file extensions (lower = better).
func extPriority(ext string) int {
	switch strings.ToLower(ext) {
	case ".webm":
		return 0
	case ".mkv":
		return 1
	case ".mp4":
		return 2
	case ".mov":
		return 3
	default:
		return 100
	}
}
