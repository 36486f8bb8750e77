package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"ytrim/internal/cli"
	"ytrim/internal/downloader"
	"ytrim/internal/encoder"
	"ytrim/internal/model"
	"ytrim/internal/pipeline"
	"ytrim/internal/util"
	"ytrim/internal/util/deps"
	"ytrim/internal/util/format"
)

// planOutput is the machine-readable form printed by `plan --format yaml`.
type planOutput struct {
	pipeline.Plan    `yaml:",inline"`
	KeepIntermediate bool     `yaml:"keep_intermediate"`
	Commands         []string `yaml:"commands"`
}

func newPlanCmd() *cobra.Command {
	var jf cli.JobFlags
	var outFormat string
	cmd := &cobra.Command{
		Use:           "plan <url> -o <output> -t <start,end> [-q <percent>]",
		Short:         "Show the paths, conversion and tool command lines without running anything",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          exactURL,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outFormat != "text" && outFormat != "yaml" {
				return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("invalid --format: %q (valid: text|yaml)", outFormat)}
			}
			opts := jobInputs(args[0], &jf)
			plan, err := pipeline.BuildPlan(opts)
			if err != nil {
				return &ExitError{Code: ExitCLIError, Err: err}
			}
			out := describePlan(plan, opts)
			if outFormat == "yaml" {
				b, err := yaml.Marshal(out)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(b)
				return err
			}
			printPlan(cmd.OutOrStdout(), out)
			return nil
		},
	}
	bindJobFlags(cmd, &jf)
	cmd.Flags().StringVar(&outFormat, "format", "text", "Output format: text, yaml")
	return cmd
}

// describePlan renders the tool invocations the plan would run. Tools that
// cannot be located are shown by their default names.
func describePlan(plan pipeline.Plan, opts model.CLIOptions) planOutput {
	dl, err := deps.FindDownloader(opts.DLBinary)
	if err != nil {
		dl = fallbackName(opts.DLBinary, "yt-dlp")
	}
	cmds := []string{util.ShellQuote(dl, downloader.BuildArgs(downloader.Request{
		URL:        plan.URL,
		Trim:       plan.Trim,
		OutputPath: plan.Intermediate,
	}))}

	if plan.Transcode {
		ff, err := deps.FindFFmpeg(opts.FFmpegBinary)
		if err != nil {
			ff = fallbackName(opts.FFmpegBinary, "ffmpeg")
		}
		cmds = append(cmds, util.ShellQuote(ff, encoder.BuildArgs(plan.TranscodeOptions(plan.Intermediate), false)))
	}
	return planOutput{Plan: plan, KeepIntermediate: opts.KeepIntermediate, Commands: cmds}
}

func fallbackName(custom, def string) string {
	if custom != "" {
		return custom
	}
	return def
}

// printPlan outputs a dry-run plan of actions without executing them.
func printPlan(w io.Writer, p planOutput) {
	fmt.Fprintln(w, "Dry-run plan:")
	fmt.Fprintf(w, "- URL:            %s\n", p.URL)
	fmt.Fprintf(w, "- Section:        %s\n", p.Trim.Section())
	if d, ok := p.Trim.Duration(); ok {
		fmt.Fprintf(w, "- Length:         %s\n", format.Clock(d))
	}
	fmt.Fprintf(w, "- Intermediate:   %s\n", p.Intermediate)
	fmt.Fprintf(w, "- Output:         %s\n", p.Output)
	switch {
	case !p.Transcode:
		fmt.Fprintln(w, "- Conversion:     none (the intermediate is the output)")
	case p.Copy:
		fmt.Fprintf(w, "- Conversion:     stream copy (quality %d%%)\n", p.Quality)
	default:
		fmt.Fprintf(w, "- Conversion:     video bitrate %s (quality %d%%)\n", format.Mbps(p.VideoMbps), p.Quality)
	}
	if p.Transcode {
		fmt.Fprintf(w, "- Delete intermediate: %v\n", !p.KeepIntermediate)
	}
	fmt.Fprintln(w, "Commands:")
	for _, c := range p.Commands {
		fmt.Fprintf(w, "  %s\n", c)
	}
}
