package ui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"ytrim/internal/pipeline"
	"ytrim/internal/progress"
	"ytrim/internal/util"
	"ytrim/internal/util/format"
)

func (m Model) viewHeader() string {
	title := m.styles.Title.Render("ytrim")
	src := truncate(util.SourceLabel(m.plan.URL), 56)
	sub := m.styles.Subtitle.Render(fmt.Sprintf("%s [%s → %s] • q: cancel", src, m.plan.Trim.Start, m.plan.Trim.End))
	return title + "  " + sub
}

func (m Model) viewJob() string {
	js := m.job
	stage := m.styles.stage(js.stage).Render(string(js.stage))

	var bar string
	switch {
	case js.percent >= 0 && js.percent <= 100:
		bar = fmt.Sprintf("%s %5.1f%%", js.bar.ViewAs(js.percent/100.0), js.percent)
	case js.done && js.err == nil:
		bar = m.styles.Success.Render("✓ done")
	case js.err != nil:
		bar = m.styles.Error.Render("✗ error")
	default:
		bar = m.styles.Spinner.Render(js.spinner.View()) + " " + m.styles.Faint.Render("working")
	}

	target := "→ " + filepath.Base(m.plan.Output)
	switch {
	case !m.plan.Transcode:
		target += " (no conversion)"
	case m.plan.Copy:
		target += " (stream copy)"
	default:
		target += fmt.Sprintf(" (%s, quality %d%%)", format.Mbps(m.plan.VideoMbps), m.plan.Quality)
	}

	lines := []string{
		stage + "  " + m.styles.Faint.Render(target),
		bar,
		m.styles.JobInfo.Render(js.status),
	}
	if js.detail != "" && !js.done {
		lines = append(lines, m.styles.Faint.Render(js.detail))
	}
	for _, l := range js.logs {
		if strings.HasPrefix(l, "warning:") {
			lines = append(lines, m.styles.Warning.Render(l))
		} else if js.err != nil {
			lines = append(lines, m.styles.Faint.Render(truncate(l, 100)))
		}
	}
	return m.styles.Box.Render(strings.Join(lines, "\n")) + "\n"
}

func (m Model) viewSummary() string {
	if !m.finished {
		return ""
	}
	if m.err != nil {
		var se *pipeline.StageError
		if errors.As(m.err, &se) && se.Stage == progress.StageTranscoding {
			kept := se.Intermediate
			if kept == "" {
				kept = m.plan.Intermediate
			}
			return "\n" + m.styles.Faint.Render("intermediate kept at "+kept) + "\n"
		}
		return ""
	}
	out := m.result.Output
	return "\n" + m.styles.Success.Render(fmt.Sprintf("✓ Saved: %s (%s)", out.Path, format.Size(out.Bytes))) + "\n"
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if n <= 0 || len(rs) <= n {
		return s
	}
	return string(rs[:n-1]) + "…"
}
