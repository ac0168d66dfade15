package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ticketProgress describes the server round trip a ticket command waits on.
type ticketProgress struct {
	action  string
	tickets int // zero when the count is not known up front
	profile string
}

func (p ticketProgress) String() string {
	what := "tickets"
	switch {
	case p.tickets == 1:
		what = "ticket"
	case p.tickets > 1:
		what = fmt.Sprintf("%d tickets", p.tickets)
	}

	label := p.action + " " + what
	if p.profile != "" {
		label += " on " + p.profile
	}
	return label
}

type progressDoneMsg struct {
	err error
}

type progressModel struct {
	spinner  spinner.Model
	progress ticketProgress
	now      func() time.Time
	started  time.Time
	run      tea.Cmd
	err      error
	done     bool
}

func newProgressModel(progress ticketProgress, now func() time.Time, run tea.Cmd) progressModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return progressModel{
		spinner:  s,
		progress: progress,
		now:      now,
		started:  now(),
		run:      run,
	}
}

func (m progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run)
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case progressDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

// View shows the elapsed time once a call has taken longer than a second,
// which is usually a slow server or a worker logging in again.
func (m progressModel) View() string {
	if m.done {
		return ""
	}

	line := fmt.Sprintf("%s %s...", m.spinner.View(), m.progress)
	if elapsed := m.now().Sub(m.started); elapsed >= time.Second {
		line += fmt.Sprintf(" (%s)", elapsed.Truncate(100*time.Millisecond))
	}
	return line
}

// runWithProgress reports progress on output until run returns.
func runWithProgress(ctx context.Context, output io.Writer, progress ticketProgress, run func(context.Context) error) error {
	runCmd := func() tea.Msg {
		return progressDoneMsg{err: run(ctx)}
	}

	p := tea.NewProgram(
		newProgressModel(progress, time.Now, runCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(progressModel)
	if !ok {
		return fmt.Errorf("unexpected final progress model type %T", finalModel)
	}

	return result.err
}
