package templates

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/phravins/pyscaffold/assets"
	"github.com/phravins/pyscaffold/internal/scaffold"
)

// Template represents a flavor blueprint
type Template struct {
	Name        string
	Flavor      string // "django", "fastapi"
	Description string
	Stack       string
	InstallCmd  string
	RunCmd      string
	Groups      []string
}

// Registry group names. A group is one scaffold.Registry, loaded from
// assets/templates/<flavor>/<group>.
const (
	GroupRoot          = "root"
	GroupProject       = "project"
	GroupApp           = "app"
	GroupPages         = "pages"
	GroupMicroservices = "microservices"
	GroupAPI           = "api"
	GroupUsers         = "users"
	GroupSnippets      = "snippets"

	GroupBase   = "base"
	GroupModule = "module"
)

// Blueprints holds the available flavors
var Blueprints = []Template{
	{
		Name:        "Django",
		Flavor:      "django",
		Description: "Batteries-included web framework with apps, admin and ORM",
		Stack:       "Python",
		InstallCmd:  "pip install -r requirements.txt",
		RunCmd:      "python manage.py runserver",
		Groups: []string{
			GroupRoot, GroupProject, GroupApp, GroupPages,
			GroupMicroservices, GroupAPI, GroupUsers, GroupSnippets,
		},
	},
	{
		Name:        "FastAPI",
		Flavor:      "fastapi",
		Description: "Async API service with SQLAlchemy, Alembic and JWT auth",
		Stack:       "Python",
		InstallCmd:  "pip install -r requirements.txt",
		RunCmd:      "uvicorn main:app --reload",
		Groups:      []string{GroupBase, GroupModule},
	},
}

// Blueprint returns the blueprint for a flavor.
func Blueprint(flavor string) (Template, bool) {
	for _, t := range Blueprints {
		if t.Flavor == flavor {
			return t, true
		}
	}
	return Template{}, false
}

// Set is the frozen group of registries of one flavor.
type Set struct {
	Flavor string
	groups map[string]*scaffold.Registry
	order  []string
}

// Group returns a registry by name. Asking for a group the flavor does not
// have is a programming defect.
func (s *Set) Group(name string) *scaffold.Registry {
	reg, ok := s.groups[name]
	if !ok {
		panic(fmt.Sprintf("templates: flavor %s has no group %q", s.Flavor, name))
	}
	return reg
}

// Groups lists group names in load order.
func (s *Set) Groups() []string {
	return append([]string(nil), s.order...)
}

// Paths lists every template as "<group>/<path>", sorted.
func (s *Set) Paths() []string {
	var out []string
	for _, g := range s.order {
		for _, p := range s.groups[g].Paths() {
			out = append(out, g+"/"+p)
		}
	}
	sort.Strings(out)
	return out
}

// Lookup resolves a "<group>/<path>" reference. Misses carry fuzzy
// suggestions over the whole set.
func (s *Set) Lookup(ref string) (scaffold.Entry, error) {
	clean, err := scaffold.CleanPath(ref)
	if err != nil {
		return scaffold.Entry{}, err
	}
	group, key, _ := strings.Cut(clean, "/")
	if reg, ok := s.groups[group]; ok && key != "" {
		if e, err := reg.Lookup(key); err == nil {
			return e, nil
		}
	}
	var suggestions []string
	for i, m := range fuzzy.Find(clean, s.Paths()) {
		if i == 3 {
			break
		}
		suggestions = append(suggestions, m.Str)
	}
	return scaffold.Entry{}, &scaffold.Error{
		Kind:        scaffold.KindTemplate,
		Op:          "lookup in " + s.Flavor,
		Path:        clean,
		Err:         scaffold.ErrNoTemplate,
		Suggestions: suggestions,
	}
}

func (s *Set) add(reg *scaffold.Registry) {
	s.groups[reg.Name()] = reg.Freeze()
	s.order = append(s.order, reg.Name())
}

var (
	Django  = loadDjango()
	FastAPI = loadFastAPI()
)

// For returns the registry set of a flavor.
func For(flavor string) (*Set, bool) {
	switch flavor {
	case Django.Flavor:
		return Django, true
	case FastAPI.Flavor:
		return FastAPI, true
	}
	return nil, false
}

// Files shared by every Django app package, whatever its layout.
var djangoAppShared = []string{"__init__.py", "apps.py", "migrations/__init__.py"}

func loadDjango() *Set {
	s := &Set{Flavor: "django", groups: map[string]*scaffold.Registry{}}
	s.add(loadDir(scaffold.NewRegistry(GroupRoot), "django/root", nil))
	s.add(loadDir(scaffold.NewRegistry(GroupProject), "django/project", nil))
	s.add(loadDir(scaffold.NewRegistry(GroupApp), "django/app", nil))
	s.add(loadDir(scaffold.NewRegistry(GroupPages), "django/app_templates", nil))

	micro := loadDir(scaffold.NewRegistry(GroupMicroservices), "django/app", append(djangoAppShared, "urls.py"))
	s.add(loadDir(micro, "django/microservices", nil))

	s.add(loadDir(scaffold.NewRegistry(GroupAPI), "django/api", nil))

	users := loadDir(scaffold.NewRegistry(GroupUsers), "django/app", djangoAppShared)
	s.add(loadDir(users, "django/users", nil))

	s.add(loadDir(scaffold.NewRegistry(GroupSnippets), "django/snippets", nil))
	return s
}

func loadFastAPI() *Set {
	s := &Set{Flavor: "fastapi", groups: map[string]*scaffold.Registry{}}
	s.add(loadDir(scaffold.NewRegistry(GroupBase), "fastapi/base", nil))

	module := scaffold.NewRegistry(GroupModule)
	for _, rel := range mustList("fastapi/module") {
		text := mustRead(path.Join("fastapi/module", rel))
		if text == "" {
			module.Register(rel, scaffold.Static(""))
			continue
		}
		module.Register(rel, scaffold.Generated(func(name string) string {
			return scaffold.NewResolver(ModuleBindings(name)...).Resolve(text)
		}))
	}
	s.add(module)
	return s
}

// ModuleBindings are the placeholder values of a CRUD module named name.
func ModuleBindings(name string) []scaffold.Pair {
	return []scaffold.Pair{
		scaffold.P("MODULE_NAME", name),
		scaffold.P("MODULE_TYPE", scaffold.Capitalize(name)),
		scaffold.P("MODULE_PLURAL", scaffold.Pluralize(name)),
		scaffold.P("MODULE_ROUTE", scaffold.RoutePrefix(name)),
	}
}

// loadDir registers every file below dir as a static entry. With only set,
// just those paths are taken.
func loadDir(reg *scaffold.Registry, dir string, only []string) *scaffold.Registry {
	for _, rel := range mustList(dir) {
		if only != nil && !contains(only, rel) {
			continue
		}
		reg.Register(rel, scaffold.Static(mustRead(path.Join(dir, rel))))
	}
	return reg
}

func mustList(dir string) []string {
	files, err := assets.ListTemplates(dir)
	if err != nil {
		panic(fmt.Sprintf("templates: list %s: %v", dir, err))
	}
	return files
}

func mustRead(name string) string {
	data, err := fs.ReadFile(assets.TemplatesFS(), name)
	if err != nil {
		panic(fmt.Sprintf("templates: read %s: %v", name, err))
	}
	return string(data)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
