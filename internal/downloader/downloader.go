package downloader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ytrim/internal/model"
	"ytrim/internal/progress"
	"ytrim/internal/util"
)

// Options controls downloader behavior.
type Options struct {
	DownloaderPath string // Path to yt-dlp or youtube-dl
	Verbose        bool
	Runner         util.CmdRunner    // nil uses util.NewDefaultRunner
	Reporter       progress.Reporter // optional
	JobID          string
}

// Request is one trimmed download.
type Request struct {
	URL        string
	Trim       model.TrimRange
	OutputPath string // Intermediate file the downloader is told to write.
}

// BuildArgs constructs the downloader command line for req.
func BuildArgs(req Request) []string {
	return []string{
		req.URL,
		"--download-sections", req.Trim.Section(),
		"--output", req.OutputPath,
		"--force-overwrites",
		"--newline",
	}
}

// Download runs the downloader for the requested section and blocks until it
// exits. A spawn failure or non-zero exit is returned as the runner's typed
// error; a clean exit that left no file behind is ErrNoOutput.
func Download(ctx context.Context, req Request, opts Options) (model.ClipFile, error) {
	if opts.DownloaderPath == "" {
		return model.ClipFile{}, errors.New("downloader path is required")
	}
	if req.OutputPath == "" {
		return model.ClipFile{}, errors.New("output path is required")
	}
	if err := util.EnsureParentDir(req.OutputPath); err != nil {
		return model.ClipFile{}, fmt.Errorf("ensure output dir: %w", err)
	}

	runner := opts.Runner
	if runner == nil {
		runner = util.NewDefaultRunner()
	}
	rep := opts.Reporter
	if rep == nil {
		rep = progress.Nop{}
	}
	clip, _ := req.Trim.Duration()

	onLine := func(stream progress.LogStream) func(string) {
		return func(line string) {
			if u, ok := ParseProgress(line, opts.JobID, clip); ok {
				rep.Update(u)
				return
			}
			if line != "" {
				rep.Log(progress.Log{JobID: opts.JobID, Stream: stream, Line: line})
			}
		}
	}

	start := time.Now()
	_, err := runner.Run(ctx, util.CmdSpec{
		Path:       opts.DownloaderPath,
		Args:       BuildArgs(req),
		Verbose:    opts.Verbose,
		StdoutLine: onLine(progress.StreamStdout),
		StderrLine: onLine(progress.StreamStderr),
	})
	if err != nil {
		return model.ClipFile{}, err
	}

	path, err := ResolveDownloaded(req.OutputPath, start)
	if err != nil {
		return model.ClipFile{}, err
	}
	size, err := util.FileSize(path)
	if err != nil {
		return model.ClipFile{}, fmt.Errorf("stat download: %w", err)
	}
	return model.ClipFile{Path: path, Bytes: size}, nil
}
