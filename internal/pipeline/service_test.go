package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ytrim/internal/model"
	"ytrim/internal/progress"
	"ytrim/internal/util"
)

type recordingReporter struct {
	updates []progress.Update
	results []progress.Result
	logs    []progress.Log
}

func (r *recordingReporter) Update(u progress.Update) {
	r.updates = append(r.updates, u)
}
func (r *recordingReporter) Log(l progress.Log) {
	r.logs = append(r.logs, l)
}
func (r *recordingReporter) Result(res progress.Result) {
	r.results = append(r.results, res)
}

func (r *recordingReporter) stages() []progress.Stage {
	var out []progress.Stage
	for _, u := range r.updates {
		if len(out) == 0 || out[len(out)-1] != u.Stage {
			out = append(out, u.Stage)
		}
	}
	return out
}

type fakeRunner struct {
	t          *testing.T
	dlPath     string
	ffmpegPath string

	dlExit     int
	ffmpegExit int
	ffmpegSize int64
	// dlSuffix is appended to --output, as yt-dlp does when it merges into
	// another container.
	dlSuffix string
	// beforeFFmpeg runs after the download and before ffmpeg writes output.
	beforeFFmpeg func()

	calls []string
}

// Run implements util.CmdRunner and simulates yt-dlp and ffmpeg on disk.
func (f *fakeRunner) Run(ctx context.Context, spec util.CmdSpec) (util.CmdResult, error) {
	f.calls = append(f.calls, filepath.Base(spec.Path))

	switch spec.Path {
	case f.dlPath:
		if f.dlExit != 0 {
			err := &util.ExitStatusError{Path: spec.Path, Code: f.dlExit, Stderr: "ERROR: Unsupported URL"}
			return util.CmdResult{Code: f.dlExit, Err: err}, err
		}
		out := argAfter(spec.Args, "--output")
		if out == "" {
			f.t.Fatalf("downloader run missing --output: %v", spec.Args)
		}
		if err := os.WriteFile(out+f.dlSuffix, []byte("downloaded"), 0o644); err != nil {
			f.t.Fatalf("failed to create fake download: %v", err)
		}
		if spec.StdoutLine != nil {
			spec.StdoutLine("[download]  50.0% of 10.00MiB at  1.0MiB/s ETA 00:04")
			spec.StdoutLine("[download] 100.0% of 10.00MiB at  1.0MiB/s ETA 00:00")
		}
		return util.CmdResult{}, nil

	case f.ffmpegPath:
		if f.beforeFFmpeg != nil {
			f.beforeFFmpeg()
		}
		input := argAfter(spec.Args, "-i")
		if _, err := os.Stat(input); err != nil {
			f.t.Fatalf("ffmpeg input missing: %v", err)
		}
		outputPath := spec.Args[len(spec.Args)-1]
		size := f.ffmpegSize
		if size <= 0 {
			size = 1024
		}
		if err := os.WriteFile(outputPath, make([]byte, size), 0o644); err != nil {
			return util.CmdResult{}, err
		}
		if spec.StdoutLine != nil {
			spec.StdoutLine("out_time_us=45000000")
			spec.StdoutLine("speed=1.0x")
			spec.StdoutLine("progress=continue")
			spec.StdoutLine("progress=end")
		}
		if f.ffmpegExit != 0 {
			err := &util.ExitStatusError{Path: spec.Path, Code: f.ffmpegExit}
			return util.CmdResult{Code: f.ffmpegExit, Err: err}, err
		}
		return util.CmdResult{}, nil
	}

	return util.CmdResult{}, errors.New("unexpected tool path: " + spec.Path)
}

func argAfter(ss []string, flag string) string {
	for i, s := range ss {
		if s == flag && i+1 < len(ss) {
			return ss[i+1]
		}
	}
	return ""
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

func newTestService(t *testing.T, fr *fakeRunner, rep progress.Reporter, extra ...Option) *Service {
	t.Helper()
	fr.t = t
	fr.dlPath = "/bin/yt-dlp"
	fr.ffmpegPath = "/bin/ffmpeg"
	opts := []Option{
		WithDownloaderPath(fr.dlPath),
		WithFFmpegPath(fr.ffmpegPath),
		WithRunner(fr),
		WithReporter(rep),
		WithJobID("job-1"),
	}
	return NewService(append(opts, extra...)...)
}

func mustPlan(t *testing.T, opts model.CLIOptions) Plan {
	t.Helper()
	opts.URL = "https://example.com/watch?v=abc"
	opts.Trim = model.TrimRange{Start: "0:00", End: "1:30"}
	p, err := BuildPlan(opts)
	if err != nil {
		t.Fatalf("BuildPlan() error = %v", err)
	}
	return p
}

// ---------- Tests ----------

func TestNewService_Defaults(t *testing.T) {
	s := NewService()
	if s.runner == nil {
		t.Error("runner not defaulted")
	}
	if s.reporter == nil {
		t.Error("reporter not defaulted")
	}
	if s.JobID() == "" {
		t.Error("job ID not generated")
	}
	if NewService().JobID() == s.JobID() {
		t.Error("job IDs should be unique")
	}
}

func TestRunJob_TranscodeWithQuality(t *testing.T) {
	dir := t.TempDir()
	rep := &recordingReporter{}
	fr := &fakeRunner{ffmpegSize: 2048}
	s := newTestService(t, fr, rep)

	p := mustPlan(t, model.CLIOptions{Output: filepath.Join(dir, "output.mp4"), Quality: "50", QualitySet: true})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := s.RunJob(ctx, p)
	if err != nil {
		t.Fatalf("RunJob() error = %v", err)
	}
	if !res.Transcoded || !res.IntermediateRemoved || res.CleanupErr != nil {
		t.Errorf("result = %+v", res)
	}
	if res.Output.Path != p.Output || res.Output.Bytes != 2048 {
		t.Errorf("output = %+v", res.Output)
	}
	if exists(p.Intermediate) {
		t.Errorf("intermediate %s should be deleted", p.Intermediate)
	}
	if strings.Join(fr.calls, ",") != "yt-dlp,ffmpeg" {
		t.Errorf("calls = %v", fr.calls)
	}

	want := []progress.Stage{progress.StageDownloading, progress.StageTranscoding, progress.StageCleanup, progress.StageCompleted}
	if got := rep.stages(); strings.Join(stageNames(got), ",") != strings.Join(stageNames(want), ",") {
		t.Errorf("stages = %v, want %v", got, want)
	}
	last := rep.updates[len(rep.updates)-1]
	if !strings.Contains(last.Message, "Saved: output.mp4") {
		t.Errorf("final update = %+v", last)
	}
	if len(rep.results) != 1 || rep.results[0].Err != nil || rep.results[0].OutputPath != p.Output {
		t.Errorf("results = %+v", rep.results)
	}
}

func TestRunJob_WebmWithoutQualitySkipsTranscode(t *testing.T) {
	dir := t.TempDir()
	rep := &recordingReporter{}
	fr := &fakeRunner{}
	s := newTestService(t, fr, rep)

	p := mustPlan(t, model.CLIOptions{Output: filepath.Join(dir, "output.webm")})
	res, err := s.RunJob(context.Background(), p)
	if err != nil {
		t.Fatalf("RunJob() error = %v", err)
	}
	if res.Transcoded || res.IntermediateRemoved {
		t.Errorf("result = %+v, want no transcode and no deletion", res)
	}
	if !exists(p.Output) || res.Output.Path != p.Output {
		t.Errorf("intermediate should be the final output: %+v", res.Output)
	}
	if strings.Join(fr.calls, ",") != "yt-dlp" {
		t.Errorf("calls = %v", fr.calls)
	}
}

func TestRunJob_WebmWithQualityTranscodesAndDeletes(t *testing.T) {
	dir := t.TempDir()
	fr := &fakeRunner{}
	s := newTestService(t, fr, &recordingReporter{})

	p := mustPlan(t, model.CLIOptions{Output: filepath.Join(dir, "output.webm"), Quality: "50%", QualitySet: true})
	res, err := s.RunJob(context.Background(), p)
	if err != nil {
		t.Fatalf("RunJob() error = %v", err)
	}
	if !res.Transcoded || !res.IntermediateRemoved {
		t.Errorf("result = %+v", res)
	}
	if !exists(p.Output) {
		t.Errorf("output %s missing", p.Output)
	}
	if exists(p.Intermediate) {
		t.Errorf("intermediate %s should be deleted", p.Intermediate)
	}
}

func TestRunJob_KeepIntermediate(t *testing.T) {
	dir := t.TempDir()
	fr := &fakeRunner{}
	s := newTestService(t, fr, &recordingReporter{}, WithKeepIntermediate(true))

	p := mustPlan(t, model.CLIOptions{Output: filepath.Join(dir, "output.mkv")})
	res, err := s.RunJob(context.Background(), p)
	if err != nil {
		t.Fatalf("RunJob() error = %v", err)
	}
	if res.IntermediateRemoved || !exists(p.Intermediate) {
		t.Errorf("intermediate should be kept, result = %+v", res)
	}
}

func TestRunJob_DownloadFailureStopsPipeline(t *testing.T) {
	dir := t.TempDir()
	rep := &recordingReporter{}
	fr := &fakeRunner{dlExit: 1}
	s := newTestService(t, fr, rep)

	p := mustPlan(t, model.CLIOptions{Output: filepath.Join(dir, "output.mp4"), Quality: "50", QualitySet: true})
	_, err := s.RunJob(context.Background(), p)

	var se *StageError
	if !errors.As(err, &se) || se.Stage != progress.StageDownloading {
		t.Fatalf("error = %v, want download StageError", err)
	}
	if ToolExitCode(err) != 1 {
		t.Errorf("ToolExitCode = %d, want 1", ToolExitCode(err))
	}
	if !strings.HasPrefix(err.Error(), "download failed: ") {
		t.Errorf("error text = %q", err.Error())
	}
	if strings.Join(fr.calls, ",") != "yt-dlp" {
		t.Errorf("ffmpeg must not run after a failed download, calls = %v", fr.calls)
	}
	if len(rep.results) != 1 || rep.results[0].Err == nil {
		t.Errorf("expected one failed result, got %+v", rep.results)
	}
	if rep.updates[len(rep.updates)-1].Stage != progress.StageError {
		t.Errorf("final stage = %v", rep.updates[len(rep.updates)-1].Stage)
	}
}

func TestRunJob_TranscodeFailurePreservesIntermediate(t *testing.T) {
	dir := t.TempDir()
	fr := &fakeRunner{ffmpegExit: 69}
	s := newTestService(t, fr, &recordingReporter{})

	p := mustPlan(t, model.CLIOptions{Output: filepath.Join(dir, "output.mp4"), Quality: "10", QualitySet: true})
	res, err := s.RunJob(context.Background(), p)

	var se *StageError
	if !errors.As(err, &se) || se.Stage != progress.StageTranscoding {
		t.Fatalf("error = %v, want transcode StageError", err)
	}
	if ToolExitCode(err) != 69 {
		t.Errorf("ToolExitCode = %d, want 69", ToolExitCode(err))
	}
	if !exists(p.Intermediate) {
		t.Errorf("intermediate must be preserved for diagnosis")
	}
	if exists(p.Output) {
		t.Errorf("partial output should be removed")
	}
	if res.Transcoded || res.IntermediateRemoved {
		t.Errorf("result = %+v", res)
	}
}

func TestRunJob_TranscodeFailureReportsResolvedIntermediate(t *testing.T) {
	dir := t.TempDir()
	fr := &fakeRunner{ffmpegExit: 1, dlSuffix: ".mkv"}
	s := newTestService(t, fr, &recordingReporter{})

	p := mustPlan(t, model.CLIOptions{Output: filepath.Join(dir, "output.mp4")})
	res, err := s.RunJob(context.Background(), p)

	want := p.Intermediate + ".mkv"
	var se *StageError
	if !errors.As(err, &se) || se.Stage != progress.StageTranscoding {
		t.Fatalf("error = %v, want transcode StageError", err)
	}
	if se.Intermediate != want || res.Intermediate != want {
		t.Errorf("intermediate = %q / %q, want %q", se.Intermediate, res.Intermediate, want)
	}
	if !exists(want) {
		t.Errorf("renamed intermediate must be preserved")
	}
}

func TestRunJob_CleanupFailureIsAWarning(t *testing.T) {
	dir := t.TempDir()
	rep := &recordingReporter{}
	fr := &fakeRunner{}
	s := newTestService(t, fr, rep)
	p := mustPlan(t, model.CLIOptions{Output: filepath.Join(dir, "output.mp4")})

	// Swap the intermediate file for a non-empty directory so it cannot be removed.
	fr.beforeFFmpeg = func() {
		if err := os.Rename(p.Intermediate, p.Intermediate+".bak"); err != nil {
			t.Fatal(err)
		}
		if err := os.MkdirAll(filepath.Join(p.Intermediate, "busy"), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.Rename(p.Intermediate+".bak", filepath.Join(p.Intermediate, "busy", "x")); err != nil {
			t.Fatal(err)
		}
	}

	res, err := s.RunJob(context.Background(), p)
	if err != nil {
		t.Fatalf("cleanup failure must not fail the job: %v", err)
	}
	if res.CleanupErr == nil || res.IntermediateRemoved {
		t.Errorf("expected a cleanup warning, result = %+v", res)
	}
	var warned bool
	for _, l := range rep.logs {
		if strings.HasPrefix(l.Line, "warning: could not remove intermediate file") {
			warned = true
		}
	}
	if !warned {
		t.Errorf("expected a warning log, got %+v", rep.logs)
	}
	if !exists(p.Output) {
		t.Errorf("output should still be delivered")
	}
}

func TestRunJob_MissingPaths(t *testing.T) {
	p := Plan{URL: "https://x", Output: "o.mp4", Intermediate: "o.webm", Transcode: true, Copy: true}

	s1 := NewService(WithRunner(&fakeRunner{}))
	_, err := s1.RunJob(context.Background(), p)
	if err == nil || !strings.Contains(err.Error(), "downloader path is required") {
		t.Errorf("expected downloader path error, got %v", err)
	}

	s2 := NewService(WithDownloaderPath("/bin/yt-dlp"), WithRunner(&fakeRunner{}))
	_, err = s2.RunJob(context.Background(), p)
	if err == nil || !strings.Contains(err.Error(), "ffmpeg path is required") {
		t.Errorf("expected ffmpeg path error, got %v", err)
	}
}

func stageNames(ss []progress.Stage) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = string(s)
	}
	return out
}
