package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ytrim/internal/config"
	"ytrim/internal/dirs"
	"ytrim/internal/util/deps"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "doctor",
		Short:         "Diagnose external dependencies (yt-dlp/youtube-dl, ffmpeg)",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := config.Current()
			dl, derr := deps.FindDownloader(s.DLBinary)
			if derr != nil {
				return &ExitError{Code: ExitMissingDep, Err: derr}
			}
			ff, ferr := deps.FindFFmpeg(s.FFmpegBinary)
			if ferr != nil {
				return &ExitError{Code: ExitMissingDep, Err: ferr}
			}

			runner := newRunner()
			dlVer, err := deps.Version(cmd.Context(), runner, dl, "--version")
			if err != nil {
				dlVer = "unknown (" + err.Error() + ")"
			}
			ffVer, err := deps.Version(cmd.Context(), runner, ff, "-version")
			if err != nil {
				ffVer = "unknown (" + err.Error() + ")"
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Downloader: %s (%s)\n", dl, dlVer)
			fmt.Fprintf(cmd.OutOrStdout(), "FFmpeg:     %s (%s)\n", ff, ffVer)
			fmt.Fprintf(cmd.OutOrStdout(), "Config:     %s\n", configStatus())
			return nil
		},
	}
}

func configStatus() string {
	if used := config.FileUsed(); used != "" {
		return used + " (loaded)"
	}
	p, err := dirs.ConfigFile()
	if err != nil {
		return "unknown (" + err.Error() + ")"
	}
	return p + " (not found)"
}
