package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"ytrim/internal/cli"
	"ytrim/internal/config"
	"ytrim/internal/model"
	"ytrim/internal/util"
)

const (
	ExitOK             = 0
	ExitCLIError       = 1
	ExitMissingDep     = 2
	ExitDownloadError  = 3
	ExitTranscodeError = 4
)

// ExitError wraps an error with a process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// newRunner builds the command runner used for yt-dlp and ffmpeg.
var newRunner = func() util.CmdRunner { return util.NewDefaultRunner() }

func newRootCmd() *cobra.Command {
	var jf cli.JobFlags
	root := &cobra.Command{
		Use:   "ytrim <url> -o <output> -t <start,end> [-q <percent>]",
		Short: "Download a section of an online video and convert it",
		Long: "ytrim downloads only the requested section of a video with yt-dlp, " +
			"then converts it with ffmpeg when the output container is not webm or a quality is given.\n\n" +
			"Example: ytrim https://youtu.be/abc -o clip.mp4 -t 0:00,0:10 -q 50",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          exactURL,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.Init(cmd.Root()); err != nil {
				return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("config: %w", err)}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExecute(cmd, args[0], &jf, runMode{})
		},
	}

	// Persistent flags available to all subcommands
	pf := root.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Show full subprocess commands/output")
	pf.String("dl-binary", "", "Path to yt-dlp or youtube-dl")
	pf.String("ffmpeg-binary", "", "Path to ffmpeg")
	pf.Bool("no-ui", false, "Disable TUI; use plain textual output")
	pf.Int("max-bitrate", model.DefaultMaxBitrateMbps, "Video bitrate in Mbit/s at quality 100")
	pf.Bool("keep-intermediate", false, "Keep the downloaded webm after a conversion")

	// Job flags also live on root so `ytrim <url> -o ... -t ...` works.
	bindJobFlags(root, &jf)

	root.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("%w\n\n%s", err, c.UsageString())}
	})

	// Subcommands
	root.AddCommand(newRunCmd())
	root.AddCommand(newPlanCmd())
	root.AddCommand(newTuiCmd())
	root.AddCommand(newDoctorCmd())
	root.AddCommand(newCompletionCmd())

	return root
}

func bindJobFlags(cmd *cobra.Command, jf *cli.JobFlags) {
	jf.Bind(cmd.Flags())
	_ = cmd.MarkFlagRequired("output")
	_ = cmd.MarkFlagRequired("trim")
	_ = cmd.MarkFlagFilename("output", "webm", "mp4", "mkv", "mov")
}

// exactURL is cobra.ExactArgs(1) with a usage exit code.
func exactURL(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		return &ExitError{Code: ExitCLIError, Err: fmt.Errorf("%w\n\n%s", err, cmd.UsageString())}
	}
	return nil
}

// Execute runs the CLI with the provided context.
func Execute(ctx context.Context) error {
	root := newRootCmd()
	return root.ExecuteContext(ctx)
}
