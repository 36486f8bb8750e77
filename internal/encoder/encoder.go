package encoder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"ytrim/internal/model"
	"ytrim/internal/progress"
	"ytrim/internal/util"
)

// Options control ffmpeg execution.
type Options struct {
	FFmpegPath string
	Verbose    bool
	Runner     util.CmdRunner    // nil uses util.NewDefaultRunner
	Reporter   progress.Reporter // optional
	JobID      string
	Clip       time.Duration // expected output length for percent; 0 if unknown
}

// Transcode converts the intermediate file and blocks until ffmpeg exits.
// On failure a partial output written by this run is removed (when
// overwriting); an output that predates the run and the input are left alone.
func Transcode(ctx context.Context, tc model.TranscodeOptions, opts Options) (model.ClipFile, error) {
	if opts.FFmpegPath == "" {
		return model.ClipFile{}, errors.New("ffmpeg path is required")
	}
	if tc.InputPath == "" {
		return model.ClipFile{}, errors.New("input path is required")
	}
	if tc.OutputPath == "" {
		return model.ClipFile{}, errors.New("output path is required")
	}
	if tc.InputPath == tc.OutputPath {
		return model.ClipFile{}, fmt.Errorf("input and output are the same file: %s", tc.InputPath)
	}
	if !tc.Copy && tc.VideoMbps <= 0 {
		return model.ClipFile{}, fmt.Errorf("invalid video bitrate %d", tc.VideoMbps)
	}
	if err := util.EnsureParentDir(tc.OutputPath); err != nil {
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

	before, hadOutput := statOutput(tc.OutputPath)

	var ps ProgressState
	_, runErr := runner.Run(ctx, util.CmdSpec{
		Path:    opts.FFmpegPath,
		Args:    BuildArgs(tc, true),
		Verbose: opts.Verbose,
		StdoutLine: func(line string) {
			if u, ok := ps.UpdateFromLine(line, opts.JobID, opts.Clip); ok {
				rep.Update(u)
			}
		},
		StderrLine: func(line string) {
			if line != "" {
				rep.Log(progress.Log{JobID: opts.JobID, Stream: progress.StreamStderr, Line: line})
			}
		},
	})
	if runErr != nil {
		if tc.Overwrite && touchedOutput(runErr, tc.OutputPath, before, hadOutput) {
			_ = util.RemoveIfExists(tc.OutputPath)
		}
		return model.ClipFile{}, runErr
	}

	size, err := util.FileSize(tc.OutputPath)
	if err != nil {
		return model.ClipFile{}, fmt.Errorf("stat output: %w", err)
	}
	return model.ClipFile{Path: tc.OutputPath, Bytes: size}, nil
}

func statOutput(path string) (os.FileInfo, bool) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	return fi, true
}

// touchedOutput reports whether a failed run left a partial file of its own
// at path. A file that predates the run and was not rewritten is the user's.
func touchedOutput(runErr error, path string, before os.FileInfo, existed bool) bool {
	var se *util.StartError
	if errors.As(runErr, &se) {
		return false
	}
	after, exists := statOutput(path)
	if !exists {
		return false
	}
	if !existed {
		return true
	}
	return !after.ModTime().Equal(before.ModTime()) || after.Size() != before.Size()
}
