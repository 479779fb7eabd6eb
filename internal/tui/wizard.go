package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/phravins/pyscaffold/internal/preview"
	"github.com/phravins/pyscaffold/internal/project"
	"github.com/phravins/pyscaffold/internal/templates"
)

// GenerateFunc runs one generation for the wizard; the caller wires the
// secret source, logging and history.
type GenerateFunc func(ctx context.Context, d project.Descriptor, dir string) (*project.Result, error)

const (
	StateFlavor = iota
	StateName
	StateApps
	StateOptions
	StatePath
	StateCreating
	StateSuccess
)

type item struct {
	title, desc string
	key         string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title }

type toggleItem struct {
	key, title, desc string
	on               bool
}

func (i toggleItem) Title() string {
	box := "[ ]"
	if i.on {
		box = "[x]"
	}
	return box + " " + i.title
}
func (i toggleItem) Description() string { return i.desc }
func (i toggleItem) FilterValue() string { return i.title }

// Option keys in the options step.
const (
	optMicroservices = "microservices"
	optAPI           = "api"
	optAuth          = "auth"
	optDatabase      = "database"
)

type generatedMsg struct {
	res *project.Result
	err error
}

// BackMsg asks the wrapper to leave the wizard.
type BackMsg struct{}

// WizardModel walks through the descriptor one step at a time.
type WizardModel struct {
	flavorList list.Model
	optionList list.Model
	nameInput  textinput.Model
	appsInput  textinput.Model
	pathInput  textinput.Model
	spinner    spinner.Model
	resultView viewport.Model
	state      int
	width      int
	height     int
	flavor     project.Flavor
	manager    *project.Manager
	generate   GenerateFunc
	result     *project.Result
	err        error
}

func NewWizardModel(workspace string, defaultFlavor string, generate GenerateFunc) WizardModel {
	mgr := project.NewManager(workspace)

	var flavors []list.Item
	selected := 0
	for i, bp := range templates.Blueprints {
		flavors = append(flavors, item{title: bp.Name, desc: bp.Description, key: bp.Flavor})
		if bp.Flavor == defaultFlavor {
			selected = i
		}
	}
	fl := list.New(flavors, list.NewDefaultDelegate(), 0, 0)
	fl.Title = "Select a Framework"
	fl.SetShowHelp(false)
	fl.Select(selected)

	ol := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	ol.Title = "Options"
	ol.SetShowHelp(false)
	ol.SetFilteringEnabled(false)

	ni := textinput.New()
	ni.Placeholder = "Project package name"
	ni.CharLimit = 50
	ni.Width = 40

	ai := textinput.New()
	ai.Placeholder = "Apps, comma separated (optional)"
	ai.CharLimit = 200
	ai.Width = 50

	pi := textinput.New()
	pi.Placeholder = "Parent Directory (e.g. ~/code)"
	pi.SetValue(mgr.Workspace)
	pi.CharLimit = 200
	pi.Width = 50

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorPink)

	vp := viewport.New(80, 20)
	vp.Style = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorPurple)

	return WizardModel{
		flavorList: fl,
		optionList: ol,
		nameInput:  ni,
		appsInput:  ai,
		pathInput:  pi,
		spinner:    s,
		resultView: vp,
		state:      StateFlavor,
		manager:    mgr,
		generate:   generate,
	}
}

func (m WizardModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func optionsFor(flavor project.Flavor) []list.Item {
	if flavor == project.FlavorFastAPI {
		return []list.Item{
			toggleItem{key: optDatabase, title: "Database", desc: "SQLAlchemy session and Alembic migrations", on: true},
			toggleItem{key: optAuth, title: "Auth", desc: "JWT token login plus a user module"},
		}
	}
	return []list.Item{
		toggleItem{key: optMicroservices, title: "Microservices layout", desc: "models package, split tests and a versioned REST API per app"},
		toggleItem{key: optAPI, title: "REST API", desc: "Django REST framework and drf-yasg"},
		toggleItem{key: optAuth, title: "Auth", desc: "Custom user model in a users app"},
	}
}

// Descriptor is what the wizard has collected so far.
func (m WizardModel) Descriptor() project.Descriptor {
	d := project.Descriptor{
		Name:   strings.TrimSpace(m.nameInput.Value()),
		Flavor: m.flavor,
		Apps:   splitApps(m.appsInput.Value()),
	}
	for _, it := range m.optionList.Items() {
		t, ok := it.(toggleItem)
		if !ok || !t.on {
			continue
		}
		switch t.key {
		case optMicroservices:
			d.Layout = project.LayoutMicroservices
		case optAPI:
			d.API = true
		case optAuth:
			d.Auth = true
		case optDatabase:
			d.Database = true
		}
	}
	return d
}

func splitApps(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
}

func (m WizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		h, v := AppBorderStyle.GetFrameSize()
		innerW, innerH := msg.Width-h-2, msg.Height-v
		m.flavorList.SetSize(innerW, innerH-4)
		m.optionList.SetSize(innerW, innerH-4)
		m.resultView.Width = innerW
		m.resultView.Height = innerH - 6
		return m, nil

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case generatedMsg:
		m.result, m.err = msg.res, msg.err
		if msg.err != nil {
			m.state = StatePath
			return m, nil
		}
		m.state = StateSuccess
		m.resultView.SetContent(m.summary())
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m WizardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.state {
	case StateFlavor:
		switch msg.String() {
		case "enter":
			if i, ok := m.flavorList.SelectedItem().(item); ok {
				m.flavor = project.Flavor(i.key)
				m.optionList.SetItems(optionsFor(m.flavor))
				m.nameInput.SetValue(m.manager.SuggestProjectName(m.flavor))
				m.state = StateName
				m.nameInput.Focus()
				return m, textinput.Blink
			}
		case "q", "esc":
			return m, func() tea.Msg { return BackMsg{} }
		}
		m.flavorList, cmd = m.flavorList.Update(msg)
		return m, cmd

	case StateName:
		switch msg.String() {
		case "enter":
			d := project.Descriptor{Name: strings.TrimSpace(m.nameInput.Value()), Flavor: m.flavor}
			if err := d.Validate(); err != nil {
				m.err = err
				return m, nil
			}
			m.err = nil
			m.state = StateApps
			m.nameInput.Blur()
			m.appsInput.Focus()
			return m, textinput.Blink
		case "esc":
			m.state = StateFlavor
			return m, nil
		}
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd

	case StateApps:
		switch msg.String() {
		case "enter":
			m.appsInput.Blur()
			m.state = StateOptions
			return m, nil
		case "esc":
			m.state = StateName
			m.nameInput.Focus()
			return m, nil
		}
		m.appsInput, cmd = m.appsInput.Update(msg)
		return m, cmd

	case StateOptions:
		switch msg.String() {
		case " ", "x":
			idx := m.optionList.Index()
			if t, ok := m.optionList.SelectedItem().(toggleItem); ok {
				t.on = !t.on
				m.optionList.SetItem(idx, t)
			}
			return m, nil
		case "enter":
			if err := m.Descriptor().Normalize().Validate(); err != nil {
				m.err = err
				return m, nil
			}
			m.err = nil
			m.state = StatePath
			m.pathInput.Focus()
			return m, textinput.Blink
		case "esc":
			m.state = StateApps
			m.appsInput.Focus()
			return m, nil
		}
		m.optionList, cmd = m.optionList.Update(msg)
		return m, cmd

	case StatePath:
		switch msg.String() {
		case "enter":
			dir, err := m.manager.ValidateParentDir(m.pathInput.Value())
			if err != nil {
				m.err = err
				return m, nil
			}
			m.err = nil
			m.state = StateCreating
			return m, tea.Batch(m.spinner.Tick, m.runGenerate(dir))
		case "esc":
			m.state = StateOptions
			return m, nil
		}
		m.pathInput, cmd = m.pathInput.Update(msg)
		return m, cmd

	case StateCreating:
		return m, nil

	case StateSuccess:
		switch msg.String() {
		case "enter", "esc", "q":
			return m, func() tea.Msg { return BackMsg{} }
		}
		m.resultView, cmd = m.resultView.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m WizardModel) runGenerate(dir string) tea.Cmd {
	d := m.Descriptor()
	generate := m.generate
	return func() tea.Msg {
		if generate == nil {
			return generatedMsg{err: fmt.Errorf("no generator configured")}
		}
		res, err := generate(context.Background(), d, dir)
		return generatedMsg{res: res, err: err}
	}
}

func (m WizardModel) summary() string {
	if m.result == nil || m.result.Report == nil {
		return ""
	}
	tree, err := preview.Tree(m.result.Root, m.result.Report.Files)
	if err != nil {
		tree = strings.Join(m.result.Report.Files, "\n")
	}
	var b strings.Builder
	b.WriteString(tree)
	if m.result.InstallCmd != "" {
		fmt.Fprintf(&b, "\nNext steps:\n  cd %s\n  %s\n  %s\n", m.result.Root, m.result.InstallCmd, m.result.RunCmd)
	}
	return b.String()
}

func (m WizardModel) View() string {
	h, v := AppBorderStyle.GetFrameSize()
	contentWidth := m.width - h - 2
	contentHeight := m.height - v

	header := func(title string) string {
		return lipgloss.NewStyle().Width(contentWidth).Align(lipgloss.Center).Render(titleStyle.Render(title))
	}
	errLine := ""
	if m.err != nil {
		errLine = errorStyle.Render(m.err.Error())
	}

	switch m.state {
	case StateFlavor:
		return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			header("New Python Project"),
			m.flavorList.View(),
			subtleStyle.Render(" [Enter] Select • [q] Quit"),
		))

	case StateName, StateApps, StatePath:
		var step, inputView, footer string
		switch m.state {
		case StateName:
			step, inputView, footer = "Step 1/4: Project Name", m.nameInput.View(), "(Enter to Next, Esc to Back)"
		case StateApps:
			step, inputView, footer = "Step 2/4: "+appsLabel(m.flavor), m.appsInput.View(), "(Enter to Next, Esc to Back)"
		case StatePath:
			step, inputView, footer = "Step 4/4: Parent Directory", m.pathInput.View(), "(Enter to Create, Esc to Back)"
		}
		content := lipgloss.JoinVertical(lipgloss.Center,
			StepStyle.Render(step),
			focusedInputBoxStyle.Render(inputView),
			errLine,
			subtleStyle.Render(footer),
		)
		return lipgloss.Place(contentWidth, contentHeight, lipgloss.Center, lipgloss.Center, WizardCardStyle.Render(content))

	case StateOptions:
		return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			header("Step 3/4: Options"),
			m.optionList.View(),
			errLine,
			subtleStyle.Render(" [Space] Toggle • [Enter] Next • [Esc] Back"),
		))

	case StateCreating:
		msg := fmt.Sprintf("%s Generating %s...", m.spinner.View(), m.Descriptor().Name)
		return lipgloss.Place(contentWidth, contentHeight, lipgloss.Center, lipgloss.Center, loadingStyle.Render(msg))

	case StateSuccess:
		title := lipgloss.NewStyle().Foreground(colorGreen).Bold(true).Render(" PROJECT CREATED ")
		return lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Width(contentWidth).Align(lipgloss.Center).Render(title),
			m.resultView.View(),
			subtleStyle.Render(" (Press Enter to Exit)"),
		)
	}
	return ""
}

func appsLabel(flavor project.Flavor) string {
	if flavor == project.FlavorFastAPI {
		return "CRUD Modules"
	}
	return "Django Apps"
}

// State exposes the current step.
func (m WizardModel) State() int {
	return m.state
}

// Result is set once generation succeeded.
func (m WizardModel) Result() *project.Result {
	return m.result
}
