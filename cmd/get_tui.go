package cmd

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"doomdeck/acquire"
	"doomdeck/idgames"
)

// acquireProgressMsg is one human-readable stage update from the pipeline.
type acquireProgressMsg string

// acquireDoneMsg carries the batch outcome.
type acquireDoneMsg struct {
	result *acquire.Result
	err    error
}

// acquireModel drives the spinner view while the pipeline runs in the
// background.
type acquireModel struct {
	spinner      spinner.Model
	progressChan chan string
	doneChan     chan acquireDoneMsg

	recent []string
	result *acquire.Result
	err    error
	done   bool
}

func newAcquireModel(pipeline *acquire.Pipeline, candidates []idgames.Candidate) acquireModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := acquireModel{
		spinner:      s,
		progressChan: make(chan string, 100), // Buffer slightly to avoid blocking
		doneChan:     make(chan acquireDoneMsg, 1),
	}

	pipeline.Progress = func(message string) {
		m.progressChan <- message
	}

	go func() {
		result, err := pipeline.DownloadAndExtract(candidates)
		close(m.progressChan)
		m.doneChan <- acquireDoneMsg{result: result, err: err}
	}()

	return m
}

func (m acquireModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForActivity())
}

func (m acquireModel) waitForActivity() tea.Cmd {
	return func() tea.Msg {
		message, ok := <-m.progressChan
		if !ok {
			return <-m.doneChan
		}
		return acquireProgressMsg(message)
	}
}

func (m acquireModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case acquireProgressMsg:
		m.recent = append(m.recent, string(msg))
		if len(m.recent) > 6 {
			m.recent = m.recent[len(m.recent)-6:]
		}
		return m, m.waitForActivity()
	case acquireDoneMsg:
		m.result = msg.result
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m acquireModel) View() string {
	if m.done {
		return ""
	}
	s := fmt.Sprintf("%s Downloading maps...\n\n", m.spinner.View())
	for _, line := range m.recent {
		s += "  " + line + "\n"
	}
	return s
}

// outcome reports the batch result, or ErrCancelled when the view was quit
// before the pipeline finished.
func (m acquireModel) outcome() (*acquire.Result, error) {
	if !m.done {
		return nil, ErrCancelled
	}
	return m.result, m.err
}

// runAcquireTUI runs the pipeline behind a spinner and returns the outcome.
func runAcquireTUI(pipeline *acquire.Pipeline, candidates []idgames.Candidate) (*acquire.Result, error) {
	final, err := tea.NewProgram(newAcquireModel(pipeline, candidates)).Run()
	if err != nil {
		return nil, err
	}
	return final.(acquireModel).outcome()
}
