package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"doomdeck/idgames"
)

var (
	pickerCursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	pickerSelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pickerHelpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// pickerModel is an interactive candidate selector: space toggles, enter
// confirms, q abandons the selection.
type pickerModel struct {
	candidates []idgames.Candidate
	selected   map[int]bool
	cursor     int
	confirmed  bool
	cancelled  bool
}

func newPickerModel(candidates []idgames.Candidate) pickerModel {
	return pickerModel{
		candidates: candidates,
		selected:   make(map[int]bool),
	}
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "ctrl+c", "q", "esc":
		m.cancelled = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.candidates)-1 {
			m.cursor++
		}
	case " ":
		m.selected[m.cursor] = !m.selected[m.cursor]
	case "enter":
		m.confirmed = true
		return m, tea.Quit
	}
	return m, nil
}

func (m pickerModel) View() string {
	s := "Select archives to download:\n\n"
	for i, c := range m.candidates {
		cursor := "  "
		if i == m.cursor {
			cursor = pickerCursorStyle.Render("> ")
		}
		mark := "[ ]"
		if m.selected[i] {
			mark = pickerSelectedStyle.Render("[x]")
		}
		s += fmt.Sprintf("%s%s %s: %s (%s, %d bytes)\n", cursor, mark, c.Filename, c.Title, c.Author, c.Size)
	}
	s += "\n" + pickerHelpStyle.Render("space: toggle  enter: confirm  q: cancel")
	return s
}

// pickCandidates runs the interactive picker. Abandoning the picker, or
// confirming with nothing selected, is a cancellation, not an error.
func pickCandidates(candidates []idgames.Candidate) ([]idgames.Candidate, error) {
	final, err := tea.NewProgram(newPickerModel(candidates)).Run()
	if err != nil {
		return nil, err
	}

	m := final.(pickerModel)
	if m.cancelled || !m.confirmed {
		return nil, ErrCancelled
	}

	var chosen []idgames.Candidate
	for i, c := range m.candidates {
		if m.selected[i] {
			chosen = append(chosen, c)
		}
	}
	if len(chosen) == 0 {
		return nil, ErrCancelled
	}
	return chosen, nil
}
