package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"ytrim/internal/model"
)

// TrimValue is a pflag.Value for "-t <start>,<end>". Only the first comma
// separates the two timestamps; they are passed to the downloader verbatim.
type TrimValue struct {
	Range model.TrimRange
	set   bool
}

var _ pflag.Value = (*TrimValue)(nil)

func (v *TrimValue) String() string {
	if !v.set {
		return ""
	}
	return v.Range.Start + "," + v.Range.End
}

func (v *TrimValue) Set(s string) error {
	r, err := ParseTrim(s)
	if err != nil {
		return err
	}
	v.Range = r
	v.set = true
	return nil
}

func (v *TrimValue) Type() string { return "start,end" }

// IsSet reports whether the flag was given.
func (v *TrimValue) IsSet() bool { return v.set }

// ParseTrim splits "start,end" on the first comma.
func ParseTrim(s string) (model.TrimRange, error) {
	start, end, ok := strings.Cut(s, ",")
	if !ok {
		return model.TrimRange{}, fmt.Errorf("invalid trim %q: expected <start>,<end> (for example: 0 to 10 seconds is \"0:00,0:10\")", s)
	}
	return model.TrimRange{Start: start, End: end}, nil
}

// QualityValue is a pflag.Value for "-q <percent>". The raw text is kept;
// it is reduced to its digits when the plan is built.
type QualityValue struct {
	Raw string
	set bool
}

var _ pflag.Value = (*QualityValue)(nil)

func (v *QualityValue) String() string { return v.Raw }

func (v *QualityValue) Set(s string) error {
	v.Raw = s
	v.set = true
	return nil
}

func (v *QualityValue) Type() string { return "percent" }

// IsSet reports whether the flag was given, even with an empty value.
func (v *QualityValue) IsSet() bool { return v.set }

// JobFlags holds the per-job flags shared by the root, run, plan and tui
// commands.
type JobFlags struct {
	Output  string
	Quality QualityValue
	Trim    TrimValue
}

// Bind registers the job flags on fs. Output and trim are required by the
// caller via cobra.
func (f *JobFlags) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&f.Output, "output", "o", "", "Output file path (extension picks the container)")
	fs.VarP(&f.Quality, "quality", "q", "Quality percent; below 100 re-encodes at a reduced bitrate")
	fs.VarP(&f.Trim, "trim", "t", "Section to download as <start>,<end>, e.g. 0:00,0:10")
}

// Options converts the flags into job options for url.
func (f *JobFlags) Options(url string) model.CLIOptions {
	return model.CLIOptions{
		URL:        url,
		Output:     f.Output,
		Quality:    f.Quality.Raw,
		QualitySet: f.Quality.IsSet(),
		Trim:       f.Trim.Range,
	}
}
