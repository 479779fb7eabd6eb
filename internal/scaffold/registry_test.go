package scaffold

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() *Registry {
	return NewRegistry("test").
		Register("models.py", Static("class {{APP_CLASS}}: pass\n")).
		Register("router.py", Generated(func(name string) string {
			return "router = '" + RoutePrefix(name) + "'\n"
		})).
		Register("core/config.py", Static("DEBUG = True\n")).
		Freeze()
}

func TestRegistryLookupAndRender(t *testing.T) {
	reg := newTestRegistry()

	text, err := reg.Render("router.py", "book")
	require.NoError(t, err)
	assert.Equal(t, "router = '/books'\n", text)

	text, err = reg.Render("./core//config.py", "ignored")
	require.NoError(t, err)
	assert.Equal(t, "DEBUG = True\n", text)

	assert.Equal(t, []string{"core/config.py", "models.py", "router.py"}, reg.Paths())
}

func TestRegistryMissingPathFailsLoudly(t *testing.T) {
	reg := newTestRegistry()

	_, err := reg.Render("modls.py", "book")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoTemplate))
	assert.True(t, IsKind(err, KindTemplate))

	var se *Error
	require.True(t, errors.As(err, &se))
	assert.Contains(t, se.Suggestions, "models.py")
}

func TestRegistryRejectsMutationAfterFreeze(t *testing.T) {
	reg := newTestRegistry()
	assert.Panics(t, func() { reg.Register("extra.py", Static("")) })
}

func TestRegistryRejectsBadPaths(t *testing.T) {
	assert.Panics(t, func() { NewRegistry("x").Register("../escape.py", Static("")) })
	assert.Panics(t, func() { NewRegistry("x").Register("", Static("")) })
	assert.Panics(t, func() {
		NewRegistry("x").Register("a.py", Static("")).Register("a.py", Static(""))
	})
}

func TestStructureDirsParentsFirst(t *testing.T) {
	s := NewStructure().
		Add("app", "__init__.py", "modules/", "core/helpers/message.py", "core/config.py").
		Add("app/db", "base.py").
		Add("", "main.py").
		Add("tests", "__init__.py")

	require.NoError(t, s.Err())
	assert.Equal(t, []string{"app", "tests", "app/modules", "app/core", "app/db", "app/core/helpers"}, s.Dirs())
	assert.Equal(t, []string{
		"app/__init__.py",
		"app/core/helpers/message.py",
		"app/core/config.py",
		"app/db/base.py",
		"main.py",
		"tests/__init__.py",
	}, s.Files())
}

func TestStructureUnderAndMerge(t *testing.T) {
	app := NewStructure().Add("", "models.py").Add("migrations", "__init__.py")
	root := NewStructure().Add("", "manage.py")

	merged := root.Merge(app.Under("book"), app.Under("book"))

	assert.Equal(t, []string{"manage.py", "book/models.py", "book/migrations/__init__.py"}, merged.Files())
	assert.True(t, merged.Contains("book/models.py"))
	assert.False(t, merged.Contains("models.py"))
}

func TestStructureRecordsInvalidPaths(t *testing.T) {
	s := NewStructure().Add("../outside", "x.py")
	assert.True(t, errors.Is(s.Err(), ErrPathEscapesRoot))

	s = NewStructure().Add("app", "../../x.py")
	assert.True(t, errors.Is(s.Err(), ErrPathEscapesRoot))

	merged := NewStructure().Add("", "ok.py").Merge(s)
	assert.Error(t, merged.Err())
}

func TestLayoutLongestMountWins(t *testing.T) {
	root := NewRegistry("root").
		Register("README.md", Static("# {{PROJECT_NAME}}\n")).
		Register("shop/apis/__init__.py", Static("")).
		Freeze()
	api := NewRegistry("api").
		Register("views.py", Static("from {{PROJECT_NAME}}.apis.v1.{{APP_NAME}} import serializers\n")).
		Freeze()

	layout := NewLayout(NewResolver(P("PROJECT_NAME", "shop"))).
		Mount("", root, "").
		Mount("shop/apis/v1/book", api, "book", P("APP_NAME", "book"))

	text, err := layout.Resolve("shop/apis/v1/book/views.py")
	require.NoError(t, err)
	assert.Equal(t, "from shop.apis.v1.book import serializers\n", text)

	text, err = layout.Resolve("README.md")
	require.NoError(t, err)
	assert.Equal(t, "# shop\n", text)

	_, err = layout.Resolve("shop/apis/v1/book/missing.py")
	assert.True(t, errors.Is(err, ErrNoTemplate))
}
