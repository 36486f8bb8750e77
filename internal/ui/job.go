package ui

import (
	"strings"

	bubblesprogress "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"

	"ytrim/internal/progress"
	"ytrim/internal/util/format"
)

const maxLogLines = 4

type jobState struct {
	stage   progress.Stage
	status  string
	detail  string  // speed and ETA of the running tool
	percent float64 // -1 means unknown

	outputPath string
	bytes      int64
	err        error
	done       bool

	spinner spinner.Model
	bar     bubblesprogress.Model

	// tail of the tool's stderr, warnings included
	logs []string
}

func newJobState(styles Styles) jobState {
	sp := spinner.New()
	sp.Style = styles.Spinner
	bar := bubblesprogress.New(
		bubblesprogress.WithDefaultGradient(),
		bubblesprogress.WithWidth(40),
	)
	return jobState{
		stage:   progress.StageDeps,
		status:  "Starting",
		percent: -1,
		spinner: sp,
		bar:     bar,
	}
}

func (js *jobState) apply(u progress.Update) {
	if u.Stage != js.stage {
		js.detail = ""
	}
	js.stage = u.Stage
	js.percent = u.Percent
	// Percent-only updates from tool output keep the stage headline.
	if u.Percent < 0 || u.Stage == progress.StageCompleted || js.status == "" {
		js.status = u.Message
	}

	var parts []string
	if u.Speed != nil && *u.Speed != "" {
		parts = append(parts, *u.Speed)
	}
	if u.ETA != nil {
		parts = append(parts, "ETA "+format.Clock(*u.ETA))
	}
	if len(parts) > 0 {
		js.detail = strings.Join(parts, " • ")
	}
}

func (js *jobState) log(line string) {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return
	}
	js.logs = append(js.logs, line)
	if len(js.logs) > maxLogLines {
		js.logs = js.logs[len(js.logs)-maxLogLines:]
	}
}
