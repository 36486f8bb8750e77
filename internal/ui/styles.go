package ui

import (
	"github.com/charmbracelet/lipgloss"

	"ytrim/internal/progress"
)

type Styles struct {
	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	JobInfo    lipgloss.Style
	Success    lipgloss.Style
	Error      lipgloss.Style
	Warning    lipgloss.Style
	Faint      lipgloss.Style
	Box        lipgloss.Style
	Spinner    lipgloss.Style
	StageDeps  lipgloss.Style
	StageDL    lipgloss.Style
	StageEnc   lipgloss.Style
	StageClean lipgloss.Style
}

func defaultStyles() Styles {
	base := lipgloss.NewStyle()
	return Styles{
		Title:      base.Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		Subtitle:   base.Faint(true),
		JobInfo:    base.Foreground(lipgloss.Color("#D1D5DB")),
		Success:    base.Foreground(lipgloss.Color("#22C55E")),
		Error:      base.Foreground(lipgloss.Color("#EF4444")),
		Warning:    base.Foreground(lipgloss.Color("#F59E0B")),
		Faint:      base.Faint(true),
		Box:        base.Padding(0, 1),
		Spinner:    base.Foreground(lipgloss.Color("#22D3EE")),
		StageDeps:  base.Foreground(lipgloss.Color("#60A5FA")),
		StageDL:    base.Foreground(lipgloss.Color("#06B6D4")),
		StageEnc:   base.Foreground(lipgloss.Color("#D946EF")),
		StageClean: base.Foreground(lipgloss.Color("#A3A3A3")),
	}
}

func (s Styles) stage(st progress.Stage) lipgloss.Style {
	switch st {
	case progress.StageDeps:
		return s.StageDeps
	case progress.StageDownloading:
		return s.StageDL
	case progress.StageTranscoding:
		return s.StageEnc
	case progress.StageCleanup:
		return s.StageClean
	case progress.StageCompleted:
		return s.Success
	case progress.StageError:
		return s.Error
	}
	return s.JobInfo
}
