package deps

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"ytrim/internal/util"
)

// ErrNotFound is returned when a required external tool cannot be located.
var ErrNotFound = errors.New("dependency not found")

// FindDownloader returns the path to yt-dlp or youtube-dl.
// If customPath is non-empty, it tries that path or looks it up in PATH.
func FindDownloader(customPath string) (string, error) {
	return find(customPath, "yt-dlp or youtube-dl", "yt-dlp", "youtube-dl")
}

// FindFFmpeg returns the path to ffmpeg, honoring customPath when set.
func FindFFmpeg(customPath string) (string, error) {
	return find(customPath, "ffmpeg", "ffmpeg")
}

func find(customPath, what string, names ...string) (string, error) {
	if customPath != "" {
		if fi, err := os.Stat(customPath); err == nil && !fi.IsDir() {
			return customPath, nil
		}
		if p, err := exec.LookPath(customPath); err == nil {
			return p, nil
		}
		return "", fmt.Errorf("%w: could not find %s at %q", ErrNotFound, what, customPath)
	}
	for _, n := range names {
		if p, err := exec.LookPath(n); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: could not find %s in PATH, please install %s", ErrNotFound, what, names[0])
}

// Version runs the tool's version flag and returns the first line of output.
func Version(ctx context.Context, r util.CmdRunner, path string, flag string) (string, error) {
	res, err := r.Run(ctx, util.CmdSpec{Path: path, Args: []string{flag}, CaptureStdout: true})
	if err != nil {
		return "", err
	}
	out := strings.TrimSpace(string(res.Stdout))
	if i := strings.IndexByte(out, '\n'); i >= 0 {
		out = out[:i]
	}
	return strings.TrimSpace(out), nil
}
