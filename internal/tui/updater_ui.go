package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/phravins/pyscaffold/internal/preview"
	"github.com/phravins/pyscaffold/internal/updater"
)

// UpdaterModel checks for a release and installs it on request
type UpdaterModel struct {
	width   int
	height  int
	info    *updater.UpdateInfo
	err     error
	status  string
	updated bool

	check   func(context.Context) (*updater.UpdateInfo, error)
	perform func(context.Context) error
}

// UpdateCheckMsg contains the result of checking for updates
type UpdateCheckMsg struct {
	info *updater.UpdateInfo
	err  error
}

// UpdateCompleteMsg indicates the update completed
type UpdateCompleteMsg struct {
	err error
}

func NewUpdaterModel() UpdaterModel {
	return UpdaterModel{
		status:  "Checking for updates...",
		check:   updater.CheckForUpdates,
		perform: updater.PerformUpdate,
	}
}

func (m UpdaterModel) Init() tea.Cmd {
	check := m.check
	return func() tea.Msg {
		info, err := check(context.Background())
		return UpdateCheckMsg{info: info, err: err}
	}
}

func (m UpdaterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return m, func() tea.Msg { return BackMsg{} }
		case "ctrl+c":
			return m, tea.Quit
		case "u":
			if m.info != nil && m.info.IsUpdateAvailable && !m.updated {
				m.status = "Downloading and installing update..."
				perform := m.perform
				return m, func() tea.Msg { return UpdateCompleteMsg{err: perform(context.Background())} }
			}
		}

	case UpdateCheckMsg:
		m.info = msg.info
		m.err = msg.err
		switch {
		case msg.err != nil:
			m.status = fmt.Sprintf("Error: %v", msg.err)
		case msg.info.IsUpdateAvailable:
			m.status = "Update available! Press 'u' to update"
		default:
			m.status = "You are up to date!"
		}
		return m, nil

	case UpdateCompleteMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Update failed: %v", msg.err)
		} else {
			m.status = "Update successful! Please restart pyscaffold."
			m.updated = true
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

func (m UpdaterModel) View() string {
	statusStyle := lipgloss.NewStyle().Foreground(colorGreen).Padding(1, 2)
	versionStyle := lipgloss.NewStyle().Foreground(colorYellow).Padding(0, 2)

	content := titleStyle.Render("pyscaffold Update Checker") + "\n\n"
	content += statusStyle.Render(m.status) + "\n\n"

	if m.info != nil {
		content += versionStyle.Render(fmt.Sprintf("Current Version: %s", m.info.CurrentVersion)) + "\n"
		content += versionStyle.Render(fmt.Sprintf("Latest Version:  %s", m.info.LatestVersion)) + "\n\n"

		if m.info.IsUpdateAvailable && m.info.ReleaseNotes != "" {
			notes, err := preview.Markdown(m.info.ReleaseNotes, m.width-12)
			if err != nil {
				notes = m.info.ReleaseNotes
			}
			content += notes + "\n"
		}
	}

	footer := "Q/Esc: Back • Ctrl+C: Quit"
	if m.info != nil && m.info.IsUpdateAvailable && !m.updated {
		footer = "U: Update • " + footer
	}
	content += subtleStyle.Render(footer)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorPurple).
		Padding(2, 4).
		Render(content)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
