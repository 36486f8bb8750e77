// Package pipeline provides planning and orchestration for the ytrim workflow.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"ytrim/internal/downloader"
	"ytrim/internal/encoder"
	"ytrim/internal/model"
	"ytrim/internal/progress"
	"ytrim/internal/util"
	"ytrim/internal/util/format"
)

// StageError ties a failure to the pipeline stage that produced it.
type StageError struct {
	Stage progress.Stage
	Err   error

	// Intermediate is the downloaded file left on disk by a failed
	// conversion, as resolved after yt-dlp exited.
	Intermediate string
}

func (e *StageError) Error() string {
	switch e.Stage {
	case progress.StageDownloading:
		return "download failed: " + e.Err.Error()
	case progress.StageTranscoding:
		return "transcode failed: " + e.Err.Error()
	default:
		return e.Err.Error()
	}
}

func (e *StageError) Unwrap() error { return e.Err }

// ToolExitCode returns the external tool's exit status carried by err, or
// -1 when err is not an exit-status failure.
func ToolExitCode(err error) int {
	var ee *util.ExitStatusError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return -1
}

// Service orchestrates the download → transcode → cleanup workflow.
type Service struct {
	dlPath           string
	ffmpegPath       string
	verbose          bool
	keepIntermediate bool
	runner           util.CmdRunner
	reporter         progress.Reporter
	jobID            string
}

// Option configures a Service.
type Option func(*Service)

// WithDownloaderPath sets the downloader (yt-dlp/youtube-dl) binary path.
func WithDownloaderPath(p string) Option {
	return func(s *Service) {
		s.dlPath = p
	}
}

// WithFFmpegPath sets the ffmpeg binary path.
func WithFFmpegPath(p string) Option {
	return func(s *Service) {
		s.ffmpegPath = p
	}
}

// WithVerbose echoes tool command lines and streams their output.
func WithVerbose(v bool) Option {
	return func(s *Service) {
		s.verbose = v
	}
}

// WithKeepIntermediate skips deleting the downloaded file after a conversion.
func WithKeepIntermediate(v bool) Option {
	return func(s *Service) {
		s.keepIntermediate = v
	}
}

// WithRunner injects a custom command runner (useful for testing).
func WithRunner(r util.CmdRunner) Option {
	return func(s *Service) {
		s.runner = r
	}
}

// WithReporter attaches a progress reporter.
func WithReporter(rp progress.Reporter) Option {
	return func(s *Service) {
		s.reporter = rp
	}
}

// WithJobID sets the job ID associated with reporter events.
func WithJobID(id string) Option {
	return func(s *Service) {
		s.jobID = id
	}
}

// NewService constructs a new Service with the provided options.
func NewService(opts ...Option) *Service {
	s := &Service{}
	for _, o := range opts {
		o(s)
	}
	if s.runner == nil {
		s.runner = util.NewDefaultRunner()
	}
	if s.reporter == nil {
		s.reporter = progress.Nop{}
	}
	if s.jobID == "" {
		s.jobID = uuid.NewString()
	}
	return s
}

// JobID returns the ID used on reporter events.
func (s *Service) JobID() string { return s.jobID }

// Result is the outcome of RunJob.
type Result struct {
	JobID      string
	Plan       Plan
	Output     model.ClipFile
	Transcoded bool

	// Intermediate is the file yt-dlp actually wrote, which may carry a
	// container extension other than Plan.Intermediate.
	Intermediate string

	// IntermediateRemoved is false when no conversion ran, when the file was
	// kept on request, or when removal failed (see CleanupErr).
	IntermediateRemoved bool
	CleanupErr          error
}

// RunJob executes the plan. Each external tool must exit cleanly before the
// next step runs; on failure the intermediate file is left on disk for
// diagnosis. A failed intermediate deletion is only a warning.
func (s *Service) RunJob(ctx context.Context, p Plan) (Result, error) {
	res := Result{JobID: s.jobID, Plan: p}

	if s.dlPath == "" {
		return res, s.fail(&StageError{Stage: progress.StageDeps, Err: errors.New("downloader path is required")})
	}
	if p.Transcode && s.ffmpegPath == "" {
		return res, s.fail(&StageError{Stage: progress.StageDeps, Err: errors.New("ffmpeg path is required")})
	}

	// Step 1: download the section
	s.stage(progress.StageDownloading, "Downloading video")
	dl, err := downloader.Download(ctx, downloader.Request{
		URL:        p.URL,
		Trim:       p.Trim,
		OutputPath: p.Intermediate,
	}, downloader.Options{
		DownloaderPath: s.dlPath,
		Verbose:        s.verbose,
		Runner:         s.runner,
		Reporter:       s.reporter,
		JobID:          s.jobID,
	})
	if err != nil {
		return res, s.fail(&StageError{Stage: progress.StageDownloading, Err: err})
	}
	res.Intermediate = dl.Path

	// Step 2: no conversion, the intermediate is the deliverable
	if !p.Transcode {
		res.Output = dl
		s.emitSaved(dl)
		return res, nil
	}

	// Step 3: convert
	s.stage(progress.StageTranscoding, p.Describe())
	clip, _ := p.Trim.Duration()
	out, err := encoder.Transcode(ctx, p.TranscodeOptions(dl.Path), encoder.Options{
		FFmpegPath: s.ffmpegPath,
		Verbose:    s.verbose,
		Runner:     s.runner,
		Reporter:   s.reporter,
		JobID:      s.jobID,
		Clip:       clip,
	})
	if err != nil {
		return res, s.fail(&StageError{Stage: progress.StageTranscoding, Err: err, Intermediate: dl.Path})
	}
	res.Output = out
	res.Transcoded = true

	// Step 4: cleanup
	if !s.keepIntermediate {
		s.stage(progress.StageCleanup, "Removing intermediate file")
		if err := util.RemoveIfExists(dl.Path); err != nil {
			res.CleanupErr = err
			s.reporter.Log(progress.Log{
				JobID:  s.jobID,
				Stream: progress.StreamStderr,
				Line:   fmt.Sprintf("warning: could not remove intermediate file %s: %v", dl.Path, err),
			})
		} else {
			res.IntermediateRemoved = true
		}
	}

	s.emitSaved(out)
	return res, nil
}

func (s *Service) stage(st progress.Stage, msg string) {
	s.reporter.Update(progress.Update{
		JobID:   s.jobID,
		Stage:   st,
		Percent: -1,
		Message: msg,
	})
}

// fail reports err as the job's terminal event and returns it.
func (s *Service) fail(err error) error {
	s.reporter.Update(progress.Update{
		JobID:   s.jobID,
		Stage:   progress.StageError,
		Percent: -1,
		Message: err.Error(),
	})
	s.reporter.Result(progress.Result{JobID: s.jobID, Err: err})
	return err
}

func (s *Service) emitSaved(out model.ClipFile) {
	s.reporter.Update(progress.Update{
		JobID:   s.jobID,
		Stage:   progress.StageCompleted,
		Percent: 100,
		Message: fmt.Sprintf("Saved: %s (%s)", filepath.Base(out.Path), format.Size(out.Bytes)),
	})
	s.reporter.Result(progress.Result{
		JobID:      s.jobID,
		OutputPath: out.Path,
		Bytes:      out.Bytes,
	})
}
