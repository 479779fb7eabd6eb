package tui

import "github.com/charmbracelet/lipgloss"

// Color Palette (Dracula-inspired)
var (
	colorPurple = lipgloss.Color("#BD93F9")
	colorGreen  = lipgloss.Color("#50FA7B")
	colorRed    = lipgloss.Color("#FF5555")
	colorPink   = lipgloss.Color("#FF79C6")
	colorGray   = lipgloss.Color("#6272A4")
	colorYellow = lipgloss.Color("#F1FA8C")
)

// Shared Styles
var (
	docStyle = lipgloss.NewStyle().Margin(0, 0)

	// Global App Border
	AppBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPurple).
			Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
			Foreground(colorPurple).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPurple)

	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray).
			Padding(1, 3).
			Align(lipgloss.Center)

	focusedInputBoxStyle = inputBoxStyle.
				BorderForeground(colorPurple)

	successBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGreen).
			Padding(1, 4)

	errorBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorRed).
			Padding(1, 4)

	subtleStyle = lipgloss.NewStyle().Foreground(colorGray)

	loadingStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Bold(true).
			Align(lipgloss.Center)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	WizardCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPurple).
			Padding(1, 2).
			Width(65).
			Align(lipgloss.Center)

	// Step text like "Step 1/4"
	StepStyle = lipgloss.NewStyle().
			Foreground(colorPink).
			Bold(true).
			MarginBottom(1)
)

// SuccessBox frames CLI output after a successful run.
func SuccessBox(title, body string) string {
	head := lipgloss.NewStyle().Foreground(colorGreen).Bold(true).Render(title)
	return successBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, head, "", body))
}

// ErrorBox frames a failure; hint may be empty.
func ErrorBox(title, hint string) string {
	content := errorStyle.Render(title)
	if hint != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, content, "", subtleStyle.Render(hint))
	}
	return errorBoxStyle.Render(content)
}

// Subtle renders secondary text.
func Subtle(s string) string {
	return subtleStyle.Render(s)
}
