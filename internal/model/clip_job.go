package model

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// IntermediateExt is the extension the downloader writes the trimmed section with.
const IntermediateExt = "webm"

// DefaultMaxBitrateMbps is the reference video bitrate that quality 100% maps to.
const DefaultMaxBitrateMbps = 12

// TrimRange is the (start, end) pair handed to the downloader's section selector.
type TrimRange struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// Section renders the range in yt-dlp --download-sections syntax.
func (t TrimRange) Section() string {
	return "*" + t.Start + "-" + t.End
}

// Duration returns the length of the range when both ends are plain
// [[HH:]MM:]SS[.frac] timestamps. ok is false otherwise (e.g. "inf").
func (t TrimRange) Duration() (d time.Duration, ok bool) {
	start, err := ParseTimestamp(t.Start)
	if err != nil {
		return 0, false
	}
	end, err := ParseTimestamp(t.End)
	if err != nil || end <= start {
		return 0, false
	}
	return end - start, true
}

// ParseTimestamp parses "SS", "MM:SS" or "HH:MM:SS", each optionally with a
// fractional seconds part.
func ParseTimestamp(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if s == "" || len(parts) > 3 {
		return 0, &strconv.NumError{Func: "ParseTimestamp", Num: s, Err: strconv.ErrSyntax}
	}
	var total float64
	for i, p := range parts {
		var v float64
		var err error
		if i == len(parts)-1 {
			v, err = strconv.ParseFloat(p, 64)
		} else {
			var n int
			n, err = strconv.Atoi(p)
			v = float64(n)
		}
		if err != nil || v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			return 0, &strconv.NumError{Func: "ParseTimestamp", Num: s, Err: strconv.ErrSyntax}
		}
		total = total*60 + v
	}
	return time.Duration(total * float64(time.Second)), nil
}

// CLIOptions holds user-configurable runtime options as parsed from flags,
// environment and config file.
type CLIOptions struct {
	URL        string
	Output     string    // Final output path, including extension.
	Quality    string    // Raw quality string as typed; empty when the flag was not given.
	QualitySet bool      // Whether -q/--quality was supplied at all.
	Trim       TrimRange // Required section to download.

	DLBinary       string // Optional explicit path to yt-dlp/youtube-dl
	FFmpegBinary   string // Optional explicit path to ffmpeg
	MaxBitrateMbps int    // Bitrate quality 100% corresponds to. 0 = DefaultMaxBitrateMbps.

	KeepIntermediate bool
	Verbose          bool
	NoUI             bool
}

// TranscodeOptions controls the ffmpeg conversion of the intermediate file.
type TranscodeOptions struct {
	InputPath  string
	OutputPath string
	Copy       bool // Stream copy instead of re-encoding.
	VideoMbps  int  // Target video bitrate; ignored when Copy is set.
	Overwrite  bool
}

// ClipFile describes a file produced by a pipeline step.
type ClipFile struct {
	Path  string
	Bytes int64
}
