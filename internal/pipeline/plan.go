package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"ytrim/internal/model"
	"ytrim/internal/util/bitrate"
	"ytrim/internal/util/media"
)

// Plan is the fully derived description of one job. It depends only on the
// inputs, so it can be printed before anything runs.
type Plan struct {
	URL          string          `yaml:"url"`
	Trim         model.TrimRange `yaml:"trim"`
	Output       string          `yaml:"output"`
	Intermediate string          `yaml:"intermediate"`
	Transcode    bool            `yaml:"transcode"`
	Quality      int             `yaml:"quality,omitempty"`
	Copy         bool            `yaml:"copy,omitempty"`
	VideoMbps    int             `yaml:"video_mbps,omitempty"`
}

// BuildPlan derives the intermediate path, the transcode decision and the
// bitrate directive from the options. Quality is only parsed when a
// transcode will run.
func BuildPlan(opts model.CLIOptions) (Plan, error) {
	if strings.TrimSpace(opts.URL) == "" {
		return Plan{}, errors.New("a source URL is required")
	}
	if strings.TrimSpace(opts.Output) == "" {
		return Plan{}, errors.New("an output path is required")
	}
	maxMbps := opts.MaxBitrateMbps
	if maxMbps <= 0 {
		maxMbps = model.DefaultMaxBitrateMbps
	}

	p := Plan{
		URL:          opts.URL,
		Trim:         opts.Trim,
		Output:       opts.Output,
		Intermediate: media.IntermediatePath(opts.Output),
		Transcode:    media.NeedsTranscode(opts.Output, opts.QualitySet),
	}
	if !p.Transcode {
		return p, nil
	}

	q, err := bitrate.ParsePercent(opts.Quality)
	if err != nil {
		return Plan{}, err
	}
	p.Quality = q
	if q >= bitrate.FullQuality {
		p.Copy = true
	} else {
		p.VideoMbps = bitrate.VideoMbps(q, maxMbps)
	}

	// "clip.webm -q 50" would otherwise read and write the same file and
	// then delete the result as the intermediate.
	if samePath(p.Intermediate, p.Output) {
		p.Intermediate = strings.TrimSuffix(p.Intermediate, "."+model.IntermediateExt) + ".src." + model.IntermediateExt
	}
	return p, nil
}

// TranscodeOptions returns the encoder settings for the plan.
func (p Plan) TranscodeOptions(input string) model.TranscodeOptions {
	return model.TranscodeOptions{
		InputPath:  input,
		OutputPath: p.Output,
		Copy:       p.Copy,
		VideoMbps:  p.VideoMbps,
		Overwrite:  true,
	}
}

// Describe is the one-line summary of the conversion step.
func (p Plan) Describe() string {
	if !p.Transcode {
		return fmt.Sprintf("No conversion needed; keeping %s", p.Intermediate)
	}
	return fmt.Sprintf("Converting '%s' to %s (quality=%d%%)", p.Intermediate, p.Output, p.Quality)
}

func samePath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}
