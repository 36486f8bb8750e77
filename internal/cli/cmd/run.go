package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ytrim/internal/cli"
	"ytrim/internal/config"
	"ytrim/internal/model"
	"ytrim/internal/pipeline"
	"ytrim/internal/progress"
	"ytrim/internal/ui"
	"ytrim/internal/util/deps"
)

type runMode struct {
	ForceTUI bool
}

func newRunCmd() *cobra.Command {
	var jf cli.JobFlags
	cmd := &cobra.Command{
		Use:           "run <url> -o <output> -t <start,end> [-q <percent>]",
		Short:         "Download the section and convert it (same as the root command)",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          exactURL,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExecute(cmd, args[0], &jf, runMode{})
		},
	}
	bindJobFlags(cmd, &jf)
	return cmd
}

// jobInputs gathers flags and settings into job options, with precedence
// flag > env > config > default for the persistent settings.
func jobInputs(url string, jf *cli.JobFlags) model.CLIOptions {
	s := config.Current()
	opts := jf.Options(url)
	opts.DLBinary = s.DLBinary
	opts.FFmpegBinary = s.FFmpegBinary
	opts.MaxBitrateMbps = s.MaxBitrateMbps
	opts.KeepIntermediate = s.KeepIntermediate
	opts.Verbose = s.Verbose
	opts.NoUI = s.NoUI
	return opts
}

// resolveTools locates the downloader, and ffmpeg when the plan converts.
func resolveTools(opts model.CLIOptions, plan pipeline.Plan) (dl, ff string, err error) {
	dl, err = deps.FindDownloader(opts.DLBinary)
	if err != nil {
		return "", "", err
	}
	if plan.Transcode {
		ff, err = deps.FindFFmpeg(opts.FFmpegBinary)
		if err != nil {
			return "", "", err
		}
	}
	return dl, ff, nil
}

func runExecute(cmd *cobra.Command, url string, jf *cli.JobFlags, mode runMode) error {
	opts := jobInputs(url, jf)

	plan, err := pipeline.BuildPlan(opts)
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}

	dlPath, ffPath, err := resolveTools(opts, plan)
	if err != nil {
		return &ExitError{Code: ExitMissingDep, Err: err}
	}

	useTUI := mode.ForceTUI || (!opts.NoUI && isTerminal())
	svcOpts := []pipeline.Option{
		pipeline.WithDownloaderPath(dlPath),
		pipeline.WithFFmpegPath(ffPath),
		pipeline.WithKeepIntermediate(opts.KeepIntermediate),
		pipeline.WithRunner(newRunner()),
	}

	var res pipeline.Result
	if useTUI {
		// Raw tool output would tear the TUI; the view shows its tail instead.
		res, err = ui.Run(cmd.Context(), plan, svcOpts...)
	} else {
		printer := progress.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
		svcOpts = append(svcOpts, pipeline.WithVerbose(opts.Verbose), pipeline.WithReporter(printer))
		res, err = pipeline.NewService(svcOpts...).RunJob(cmd.Context(), plan)
	}
	if err != nil {
		return exitErrorFor(err, plan)
	}
	if useTUI && res.CleanupErr != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not remove intermediate file %s: %v\n", res.Intermediate, res.CleanupErr)
	}
	return nil
}

// exitErrorFor maps a pipeline failure to the process exit code.
func exitErrorFor(err error, plan pipeline.Plan) error {
	var se *pipeline.StageError
	if !errors.As(err, &se) {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	switch se.Stage {
	case progress.StageDownloading:
		return &ExitError{Code: ExitDownloadError, Err: err}
	case progress.StageTranscoding:
		kept := se.Intermediate
		if kept == "" {
			kept = plan.Intermediate
		}
		return &ExitError{Code: ExitTranscodeError, Err: fmt.Errorf("%w (intermediate kept at %s)", err, kept)}
	case progress.StageDeps:
		return &ExitError{Code: ExitMissingDep, Err: err}
	}
	return &ExitError{Code: ExitCLIError, Err: err}
}

var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
