package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phravins/pyscaffold/internal/project"
	"github.com/phravins/pyscaffold/internal/scaffold"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m WizardModel, msgs ...tea.Msg) (WizardModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	var next tea.Model = m
	for _, msg := range msgs {
		next, cmd = next.Update(msg)
	}
	wm, ok := next.(WizardModel)
	require.True(t, ok)
	return wm, cmd
}

func TestWizardCollectsDescriptor(t *testing.T) {
	dir := t.TempDir()
	var got project.Descriptor
	var gotDir string
	gen := func(ctx context.Context, d project.Descriptor, parent string) (*project.Result, error) {
		got, gotDir = d, parent
		return &project.Result{Root: parent + "/" + d.Name, Report: &scaffold.Report{Files: []string{"manage.py"}}}, nil
	}

	m := NewWizardModel(dir, "django", gen)
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	m, _ = send(t, m, key("enter"))
	require.Equal(t, StateName, m.State())
	assert.Equal(t, "django_project", m.nameInput.Value())

	m.nameInput.SetValue("shop")
	m, _ = send(t, m, key("enter"))
	require.Equal(t, StateApps, m.State())

	m.appsInput.SetValue("book, order_item")
	m, _ = send(t, m, key("enter"))
	require.Equal(t, StateOptions, m.State())

	// toggle microservices, then auth
	m, _ = send(t, m, key(" "), key("down"), key("down"), key(" "))
	d := m.Descriptor()
	assert.Equal(t, project.LayoutMicroservices, d.Layout)
	assert.True(t, d.Auth)
	assert.Equal(t, []string{"book", "order_item"}, d.Apps)

	m, _ = send(t, m, key("enter"))
	require.Equal(t, StatePath, m.State())

	m, cmd := send(t, m, key("enter"))
	require.Equal(t, StateCreating, m.State())
	require.NotNil(t, cmd)

	res, err := gen(context.Background(), m.Descriptor(), dir)
	require.NoError(t, err)
	m, _ = send(t, m, generatedMsg{res: res})

	assert.Equal(t, StateSuccess, m.State())
	assert.Equal(t, "shop", got.Name)
	assert.Equal(t, dir, gotDir)
	assert.NotEmpty(t, m.View())
}

func TestWizardRejectsInvalidName(t *testing.T) {
	m := NewWizardModel(t.TempDir(), "fastapi", nil)
	m, _ = send(t, m, key("enter"))
	m.nameInput.SetValue("my-api")

	m, _ = send(t, m, key("enter"))

	assert.Equal(t, StateName, m.State())
	assert.Error(t, m.err)
}

func TestWizardFastAPIDefaultsDatabaseOn(t *testing.T) {
	m := NewWizardModel(t.TempDir(), "fastapi", nil)
	m, _ = send(t, m, key("enter"))
	assert.Equal(t, project.FlavorFastAPI, m.flavor)

	m.nameInput.SetValue("api")
	m, _ = send(t, m, key("enter"))
	m.appsInput.SetValue("book")
	m, _ = send(t, m, key("enter"))

	d := m.Descriptor()
	assert.True(t, d.Database)
	assert.NoError(t, d.Validate())
}

func TestWizardGenerationErrorReturnsToPath(t *testing.T) {
	m := NewWizardModel(t.TempDir(), "django", nil)
	m.state = StateCreating

	m, _ = send(t, m, generatedMsg{err: assert.AnError})

	assert.Equal(t, StatePath, m.State())
	assert.Equal(t, assert.AnError, m.err)
}

func TestWrapperQuitsOnBack(t *testing.T) {
	w := Wrap(NewWizardModel(t.TempDir(), "django", nil))
	_, cmd := w.Update(BackMsg{})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
