package project

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phravins/pyscaffold/internal/scaffold"
	"github.com/phravins/pyscaffold/internal/secret"
	"github.com/phravins/pyscaffold/internal/templates"
)

type fakeSource struct {
	key   string
	err   error
	calls int
}

func (f *fakeSource) Generate(ctx context.Context) (string, error) {
	f.calls++
	return f.key, f.err
}

func generate(t *testing.T, dir string, d Descriptor) *Result {
	t.Helper()
	res, err := Generate(context.Background(), d, Options{Dir: dir, Secret: secret.NewRandSource()})
	require.NoError(t, err)
	return res
}

func read(t *testing.T, parts ...string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(parts...))
	require.NoError(t, err)
	return string(data)
}

func TestGenerateDjangoStandard(t *testing.T) {
	dir := t.TempDir()
	res := generate(t, dir, Descriptor{
		Name: "shop", Flavor: FlavorDjango, Apps: []string{"book", "order_item"}, API: true, Auth: true,
	})

	root := filepath.Join(dir, "shop")
	assert.Equal(t, root, res.Root)
	assert.Equal(t, "python manage.py runserver", res.RunCmd)

	settings := read(t, root, "shop", "settings.py")
	assert.Contains(t, settings, `    "book",`)
	assert.Contains(t, settings, `    "order_item",`)
	assert.Contains(t, settings, `    "users",`)
	assert.Contains(t, settings, `    "rest_framework",`)
	assert.Contains(t, settings, `AUTH_USER_MODEL = "users.CustomUser"`)

	urls := read(t, root, "shop", "urls.py")
	assert.Contains(t, urls, `path("book/", include("book.urls")),`)
	assert.NotContains(t, urls, "api/v1/")

	assert.Contains(t, read(t, root, "order_item", "apps.py"), "class OrderItemConfig(AppConfig):")
	assert.Contains(t, read(t, root, "requirements.txt"), "djangorestframework")
	assert.Contains(t, read(t, root, "users", "models.py"), "class CustomUser(AbstractUser):")
	assert.FileExists(t, filepath.Join(root, "book", "serializers.py"))
	assert.FileExists(t, filepath.Join(root, "book", "templates", "book", "index.html"))
	assert.FileExists(t, filepath.Join(root, "book", "templates", "book", "error.html"))
	assert.FileExists(t, filepath.Join(root, "book", "migrations", "__init__.py"))
	assert.NoDirExists(t, filepath.Join(root, "shop", "apis"))
}

func TestGenerateDjangoWithoutOptions(t *testing.T) {
	dir := t.TempDir()
	generate(t, dir, Descriptor{Name: "shop", Flavor: FlavorDjango, Apps: []string{"book"}})
	root := filepath.Join(dir, "shop")

	settings := read(t, root, "shop", "settings.py")
	assert.NotContains(t, settings, "rest_framework")
	assert.NotContains(t, settings, "AUTH_USER_MODEL")
	assert.NotContains(t, read(t, root, "requirements.txt"), "djangorestframework")
	assert.NoFileExists(t, filepath.Join(root, "book", "serializers.py"))
	assert.NoDirExists(t, filepath.Join(root, "users"))
}

func TestGenerateFastAPIWithAuthAndModules(t *testing.T) {
	dir := t.TempDir()
	res := generate(t, dir, Descriptor{
		Name: "api", Flavor: FlavorFastAPI, Apps: []string{"book", "order_item"}, Auth: true, Database: true,
	})
	root := res.Root

	router := read(t, root, "app", "api", "main_router.py")
	for _, m := range []string{"auth", "user", "book", "order_item"} {
		assert.Contains(t, router, ImportLine(m))
		assert.Contains(t, router, IncludeLine(m))
	}

	env := read(t, root, "alembic", "env.py")
	assert.Contains(t, env, "from app.modules.book import models as book_models")
	assert.Contains(t, env, "from app.modules.user import models as user_models")

	assert.Contains(t, read(t, root, "app", "modules", "order_item", "models.py"), "class Order_item(Base):")
	assert.Contains(t, read(t, root, "app", "modules", "book", "router.py"), `prefix="/books"`)
	assert.FileExists(t, filepath.Join(root, "tests", "test_auth.py"))
	assert.FileExists(t, filepath.Join(root, "app", "db", "session.py"))
	assert.DirExists(t, filepath.Join(root, "alembic", "versions"))
	assert.Contains(t, read(t, root, "alembic.ini"), "script_location = alembic")
}

func TestGenerateFastAPIWithoutDatabase(t *testing.T) {
	dir := t.TempDir()
	res := generate(t, dir, Descriptor{Name: "api", Flavor: FlavorFastAPI})

	assert.FileExists(t, filepath.Join(res.Root, "main.py"))
	assert.NoDirExists(t, filepath.Join(res.Root, "app", "db"))
	assert.NoDirExists(t, filepath.Join(res.Root, "alembic"))
	assert.NoDirExists(t, filepath.Join(res.Root, "app", "modules", "auth"))
	assert.NotContains(t, read(t, res.Root, "app", "api", "main_router.py"), "include_router")
}

var fromImport = regexp.MustCompile(`(?m)^\s*from ([A-Za-z_][\w.]*) import`)

func TestMicroservicesImportsResolve(t *testing.T) {
	dir := t.TempDir()
	d := Descriptor{
		Name: "shop", Flavor: FlavorDjango, Layout: LayoutMicroservices,
		Apps: []string{"book", "order_item"}, Auth: true,
	}
	res := generate(t, dir, d)

	local := map[string]bool{"shop": true, "users": true, "book": true, "order_item": true}
	checked := 0
	err := filepath.WalkDir(res.Root, func(p string, e fs.DirEntry, err error) error {
		if err != nil || e.IsDir() || !strings.HasSuffix(p, ".py") {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		for _, m := range fromImport.FindAllStringSubmatch(string(data), -1) {
			mod := m[1]
			if !local[strings.SplitN(mod, ".", 2)[0]] {
				continue
			}
			target := filepath.Join(res.Root, filepath.FromSlash(strings.ReplaceAll(mod, ".", "/")))
			exists := fileExists(target+".py") || fileExists(filepath.Join(target, "__init__.py"))
			assert.True(t, exists, "%s imports %s", p, mod)
			checked++
		}
		return nil
	})
	require.NoError(t, err)
	assert.Greater(t, checked, 20)

	urls := read(t, res.Root, "shop", "apis", "v1", "urls.py")
	assert.Contains(t, urls, "from shop.apis.v1.book.views import entity1_views as book_entity1_views")
	assert.Contains(t, urls, `router.register(r"order_item/entity2", order_item_entity2_views.Entity2ViewSet, basename="order_item-entity2")`)
	assert.Contains(t, read(t, res.Root, "shop", "urls.py"), `include("shop.apis.v1.urls")`)
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

func TestMicroservicesReplacesMonolithFiles(t *testing.T) {
	dir := t.TempDir()
	d := Descriptor{Name: "shop", Flavor: FlavorDjango, Apps: []string{"book"}}
	generate(t, dir, d)
	root := filepath.Join(dir, "shop")
	require.FileExists(t, filepath.Join(root, "book", "models.py"))

	d.Layout = LayoutMicroservices
	res, err := Generate(context.Background(), d, Options{Dir: dir, Secret: secret.NewRandSource(), Backup: true})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"book/models.py", "book/forms.py", "book/tests.py"}, res.Report.Removed)
	assert.NoFileExists(t, filepath.Join(root, "book", "models.py"))
	assert.FileExists(t, filepath.Join(root, "book", "models", "entity1_model.py"))
	assert.FileExists(t, filepath.Join(root, "book", "tests", "unit", "test_models.py"))

	require.NotEmpty(t, res.BackupPath)
	assert.FileExists(t, filepath.Join(res.BackupPath, "book", "models.py"))
}

func TestGenerateFailsFastOnEmptyName(t *testing.T) {
	dir := t.TempDir()
	src := &fakeSource{key: "k"}

	_, err := Generate(context.Background(), Descriptor{Flavor: FlavorDjango}, Options{Dir: dir, Secret: src})

	assert.True(t, errors.Is(err, scaffold.ErrEmptyName))
	assert.Zero(t, src.calls)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGenerateStopsOnSecretFailure(t *testing.T) {
	dir := t.TempDir()
	src := &fakeSource{err: &scaffold.Error{Kind: scaffold.KindExternal, Op: "generate secret", Err: errors.New("exit status 1")}}

	_, err := Generate(context.Background(), Descriptor{Name: "shop", Flavor: FlavorDjango}, Options{Dir: dir, Secret: src})

	assert.True(t, scaffold.IsKind(err, scaffold.KindExternal))
	assert.NoDirExists(t, filepath.Join(dir, "shop"))
}

func TestGenerateRequiresSecretSource(t *testing.T) {
	_, err := Generate(context.Background(), Descriptor{Name: "shop", Flavor: FlavorDjango}, Options{Dir: t.TempDir()})
	assert.True(t, scaffold.IsKind(err, scaffold.KindConfig))
}

func TestTwoRunsWriteDifferentSecrets(t *testing.T) {
	secretLine := regexp.MustCompile(`(?m)^SECRET_KEY=(.+)$`)
	var keys []string
	for i := 0; i < 2; i++ {
		res := generate(t, t.TempDir(), Descriptor{Name: "shop", Flavor: FlavorDjango})
		m := secretLine.FindStringSubmatch(read(t, res.Root, ".env"))
		require.Len(t, m, 2)
		assert.Len(t, m[1], secret.DefaultLength)
		keys = append(keys, m[1])
	}
	assert.NotEqual(t, keys[0], keys[1])
}

func TestDryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	res, err := Generate(context.Background(),
		Descriptor{Name: "shop", Flavor: FlavorFastAPI, Apps: []string{"book"}, Database: true},
		Options{Dir: dir, Secret: &fakeSource{key: "dry-secret"}, DryRun: true})
	require.NoError(t, err)

	assert.NoDirExists(t, res.Root)
	assert.Nil(t, res.Report)

	var env string
	for _, f := range res.Files {
		if f.Path == ".env" {
			env = f.Content
		}
	}
	assert.Contains(t, env, "SECRET_KEY=dry-secret")
}

func TestGenerateIsRepeatable(t *testing.T) {
	dir := t.TempDir()
	d := Descriptor{Name: "shop", Flavor: FlavorDjango, Apps: []string{"book"}}
	first := generate(t, dir, d)
	second := generate(t, dir, d)
	assert.Equal(t, first.Report.Files, second.Report.Files)
}

func TestRegenerateWithDifferentOptionsOverwrites(t *testing.T) {
	dir := t.TempDir()
	generate(t, dir, Descriptor{Name: "shop", Flavor: FlavorDjango, Apps: []string{"book"}, API: true})
	res := generate(t, dir, Descriptor{Name: "shop", Flavor: FlavorDjango, Apps: []string{"order"}})

	settings := read(t, res.Root, "shop", "settings.py")
	assert.Contains(t, settings, `"order",`)
	assert.NotContains(t, settings, `"book"`)
	assert.NotContains(t, settings, "rest_framework")
	assert.NotContains(t, read(t, res.Root, "requirements.txt"), "djangorestframework")
}

var variants = []Descriptor{
	{Name: "shop", Flavor: FlavorDjango},
	{Name: "shop", Flavor: FlavorDjango, Apps: []string{"book", "order_item"}, API: true, Auth: true},
	{Name: "shop", Flavor: FlavorDjango, Apps: []string{"book"}, Layout: LayoutMicroservices, Auth: true},
	{Name: "shop", Flavor: FlavorFastAPI},
	{Name: "shop", Flavor: FlavorFastAPI, Database: true},
	{Name: "shop", Flavor: FlavorFastAPI, Apps: []string{"book"}, Auth: true, Database: true},
}

func TestEveryVariantRendersWithoutLeftovers(t *testing.T) {
	for _, d := range variants {
		t.Run(Summary(d), func(t *testing.T) {
			plan, err := BuildPlan(d, t.TempDir(), Values{Secret: "s3cret"})
			require.NoError(t, err)
			files, err := plan.Render()
			require.NoError(t, err)
			require.NotEmpty(t, files)
			for _, f := range files {
				assert.Empty(t, scaffold.Leftovers(f.Content), f.Path)
			}
		})
	}
}

func TestEveryRegistryEntryIsBound(t *testing.T) {
	djangoPlan, err := BuildPlan(variants[2], t.TempDir(), Values{Secret: "s3cret"})
	require.NoError(t, err)
	fastapiPlan, err := BuildPlan(variants[5], t.TempDir(), Values{Secret: "s3cret"})
	require.NoError(t, err)

	for _, tc := range []struct {
		set      *templates.Set
		bindings *scaffold.Resolver
	}{
		{templates.Django, djangoPlan.Bindings.With(AppBindings("book")...)},
		{templates.FastAPI, fastapiPlan.Bindings},
	} {
		for _, ref := range tc.set.Paths() {
			e, err := tc.set.Lookup(ref)
			require.NoError(t, err, ref)
			_, err = tc.bindings.Apply(ref, e.Render("book"))
			assert.NoError(t, err, ref)
		}
	}
}
