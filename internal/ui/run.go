package ui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"ytrim/internal/pipeline"
)

// ErrInterrupted is returned when the program exits before the job finished.
var ErrInterrupted = errors.New("interrupted")

// Run shows the TUI while plan executes and returns the job's outcome.
func Run(ctx context.Context, plan pipeline.Plan, opts ...pipeline.Option) (pipeline.Result, error) {
	m := NewModel(ctx, plan, opts...)
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		m.cancel()
		return pipeline.Result{}, err
	}
	fm, ok := final.(Model)
	if !ok || !fm.Finished() {
		m.cancel()
		return pipeline.Result{}, ErrInterrupted
	}
	return fm.Result()
}
