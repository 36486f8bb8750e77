package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"ytrim/internal/pipeline"
	"ytrim/internal/progress"
)

// Model is the bubbletea model for a single clip job.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	plan pipeline.Plan
	svc  *pipeline.Service

	job        jobState
	cancelling bool
	finished   bool
	result     pipeline.Result
	err        error

	width  int
	styles Styles

	// Internal event channel used by reporter to feed tea messages
	eventCh chan tea.Msg
}

// NewModel prepares a model that runs plan with a Service built from opts.
// The reporter option is always replaced by the TUI's own.
func NewModel(ctx context.Context, plan pipeline.Plan, opts ...pipeline.Option) Model {
	c, cancel := context.WithCancel(ctx)
	sty := defaultStyles()
	ch := make(chan tea.Msg, 256)

	svcOpts := append([]pipeline.Option{}, opts...)
	svcOpts = append(svcOpts, pipeline.WithReporter(teaReporter{ch: ch, done: c.Done()}))

	return Model{
		ctx:     c,
		cancel:  cancel,
		plan:    plan,
		svc:     pipeline.NewService(svcOpts...),
		job:     newJobState(sty),
		styles:  sty,
		eventCh: ch,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.job.spinner.Tick, m.listenEventsCmd(), m.runJobCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.finished {
				return m, tea.Quit
			}
			// Wait for the tool to exit so the result reflects what is on disk.
			m.cancelling = true
			m.job.status = "Cancelling..."
			m.cancel()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if w := msg.Width - 4; w > 10 && w < 60 {
			m.job.bar.Width = w
		}
		return m, nil

	case jobUpdateMsg:
		m.job.apply(msg.U)
		return m, m.listenEventsCmd()

	case jobLogMsg:
		m.job.log(msg.L.Line)
		return m, m.listenEventsCmd()

	case jobResultMsg:
		m.job.done = true
		m.job.err = msg.R.Err
		if msg.R.Err == nil {
			m.job.outputPath = msg.R.OutputPath
			m.job.bytes = msg.R.Bytes
		}
		return m, m.listenEventsCmd()

	case jobFinishedMsg:
		m.finished = true
		m.result = msg.Res
		m.err = msg.Err
		m.job.done = true
		if msg.Err != nil {
			m.job.err = msg.Err
			m.job.stage = progress.StageError
			m.job.status = msg.Err.Error()
			m.job.percent = -1
		}
		m.cancel()
		return m, tea.Quit

	case spinner.TickMsg:
		var c tea.Cmd
		m.job.spinner, c = m.job.spinner.Update(msg)
		return m, c
	}
	return m, nil
}

func (m Model) View() string {
	return m.viewHeader() + "\n\n" + m.viewJob() + m.viewSummary()
}

// Finished reports whether RunJob has returned.
func (m Model) Finished() bool { return m.finished }

// Result returns what RunJob returned.
func (m Model) Result() (pipeline.Result, error) {
	return m.result, m.err
}

func (m Model) listenEventsCmd() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
			return nil
		case msg := <-m.eventCh:
			return msg
		}
	}
}

func (m Model) runJobCmd() tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.RunJob(m.ctx, m.plan)
		return jobFinishedMsg{Res: res, Err: err}
	}
}

// teaReporter forwards pipeline events into the program. Progress and log
// events are dropped when the channel is full; stage changes and results
// wait unless the job has been torn down.
type teaReporter struct {
	ch   chan tea.Msg
	done <-chan struct{}
}

func (r teaReporter) Update(u progress.Update) {
	if u.Percent < 0 || u.Stage == progress.StageCompleted || u.Stage == progress.StageError {
		r.send(jobUpdateMsg{U: u})
		return
	}
	select {
	case r.ch <- jobUpdateMsg{U: u}:
	default:
	}
}

func (r teaReporter) Log(l progress.Log) {
	select {
	case r.ch <- jobLogMsg{L: l}:
	default:
	}
}

func (r teaReporter) Result(res progress.Result) {
	r.send(jobResultMsg{R: res})
}

func (r teaReporter) send(msg tea.Msg) {
	select {
	case r.ch <- msg:
	case <-r.done:
	}
}
