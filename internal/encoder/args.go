package encoder

import (
	"ytrim/internal/model"
	"ytrim/internal/util/format"
)

// BuildArgs constructs the ffmpeg command line for a conversion of the
// intermediate file. Stream copy and bitrate are mutually exclusive; options
// always precede the output path.
func BuildArgs(opts model.TranscodeOptions, includeProgress bool) []string {
	args := []string{"-hide_banner"}
	if opts.Overwrite {
		args = append(args, "-y")
	} else {
		args = append(args, "-n")
	}
	args = append(args, "-i", opts.InputPath)

	if opts.Copy {
		args = append(args, "-c", "copy")
	} else {
		args = append(args, "-b:v", format.Mbps(opts.VideoMbps))
	}

	if includeProgress {
		args = append(args, "-progress", "pipe:1", "-nostats")
	}
	return append(args, opts.OutputPath)
}
