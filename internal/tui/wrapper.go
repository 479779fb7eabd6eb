package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/phravins/pyscaffold/internal/project"
)

// StandaloneWrapper quits the program when the wrapped model sends BackMsg.
type StandaloneWrapper struct {
	model tea.Model
}

func Wrap(m tea.Model) StandaloneWrapper {
	return StandaloneWrapper{model: m}
}

func (m StandaloneWrapper) Init() tea.Cmd {
	return m.model.Init()
}

func (m StandaloneWrapper) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(BackMsg); ok {
		return m, tea.Quit
	}
	newModel, cmd := m.model.Update(msg)
	m.model = newModel
	return m, cmd
}

func (m StandaloneWrapper) View() string {
	return m.model.View()
}

// RunWizard runs the wizard full screen and returns the result, nil when the
// user left early.
func RunWizard(m WizardModel) (*project.Result, error) {
	final, err := tea.NewProgram(Wrap(m), tea.WithAltScreen()).Run()
	if err != nil {
		return nil, err
	}
	if w, ok := final.(StandaloneWrapper); ok {
		if wm, ok := w.model.(WizardModel); ok {
			return wm.Result(), nil
		}
	}
	return nil, nil
}
