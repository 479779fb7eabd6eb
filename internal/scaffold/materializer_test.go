package scaffold

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLayout(t *testing.T) (*Structure, Source) {
	t.Helper()
	reg := NewRegistry("app").
		Register("main.py", Static("app = '{{PROJECT_NAME}}'\n")).
		Register("app/core/config.py", Static("NAME = '{{PROJECT_NAME}}'\n")).
		Register("app/__init__.py", Static("")).
		Freeze()
	s := NewStructure().
		Add("", "main.py").
		Add("app", "__init__.py", "core/config.py", "modules/")
	layout := NewLayout(NewResolver(P("PROJECT_NAME", "shop"))).Mount("", reg, "")
	return s, layout.Source()
}

func TestMaterializeWritesTree(t *testing.T) {
	root := filepath.Join(t.TempDir(), "shop")
	s, src := testLayout(t)

	report, err := NewMaterializer(root, nil).Materialize(s, src)
	require.NoError(t, err)

	assert.Equal(t, []string{"main.py", "app/__init__.py", "app/core/config.py"}, report.Files)
	assert.DirExists(t, filepath.Join(root, "app", "modules"))

	data, err := os.ReadFile(filepath.Join(root, "app", "core", "config.py"))
	require.NoError(t, err)
	assert.Equal(t, "NAME = 'shop'\n", string(data))
}

func TestMaterializeIsRepeatable(t *testing.T) {
	root := t.TempDir()
	s, src := testLayout(t)
	m := NewMaterializer(root, nil)

	require.NoError(t, os.WriteFile(filepath.Join(root, "main.py"), []byte("stale"), 0644))

	_, err := m.Materialize(s, src)
	require.NoError(t, err)
	_, err = m.Materialize(s, src)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "main.py"))
	require.NoError(t, err)
	assert.Equal(t, "app = 'shop'\n", string(data))
}

func TestMaterializeLeavesDiskUntouchedOnTemplateError(t *testing.T) {
	root := filepath.Join(t.TempDir(), "shop")
	s, src := testLayout(t)
	s.Add("app/db", "session.py")

	_, err := NewMaterializer(root, nil).Materialize(s, src)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoTemplate))
	assert.NoDirExists(t, root)
}

func TestMaterializeLeavesDiskUntouchedOnSubstitutionError(t *testing.T) {
	root := filepath.Join(t.TempDir(), "shop")
	reg := NewRegistry("env").Register(".env", Static("SECRET_KEY={{SECRET_KEY}}\n")).Freeze()
	s := NewStructure().Add("", ".env")

	_, err := NewMaterializer(root, nil).Materialize(s, NewLayout(nil).Mount("", reg, "").Source())

	assert.True(t, IsKind(err, KindSubstitution))
	assert.NoDirExists(t, root)
}

func TestRemoveStaleIsIdempotent(t *testing.T) {
	root := t.TempDir()
	m := NewMaterializer(root, nil)
	require.NoError(t, m.WriteFile("book/models.py", "x"))
	require.NoError(t, m.WriteFile("book/forms.py", "x"))

	removed, err := m.RemoveStale("book/models.py", "book/forms.py", "book/tests.py")
	require.NoError(t, err)
	assert.Equal(t, []string{"book/models.py", "book/forms.py"}, removed)
	assert.NoFileExists(t, filepath.Join(root, "book", "models.py"))

	removed, err = m.RemoveStale("book/models.py", "book/forms.py", "book/tests.py")
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestWriteFileRejectsEscapingPaths(t *testing.T) {
	m := NewMaterializer(t.TempDir(), nil)
	err := m.WriteFile("../outside.py", "x")
	assert.True(t, errors.Is(err, ErrPathEscapesRoot))
}
