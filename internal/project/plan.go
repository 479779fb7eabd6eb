package project

import (
	"path/filepath"
	"strings"

	"github.com/phravins/pyscaffold/internal/scaffold"
	"github.com/phravins/pyscaffold/internal/templates"
)

// DefaultPythonVersion is written into Dockerfiles and pyproject.toml.
const DefaultPythonVersion = "3.13"

// Values are the run-time inputs that do not come from the descriptor.
type Values struct {
	Secret        string
	PythonVersion string
}

// Plan is everything a run will write: the tree, where each file's template
// comes from, and files to clear first. Building a plan touches nothing.
type Plan struct {
	Root      string
	Flavor    Flavor
	Structure *scaffold.Structure
	Layout    *scaffold.Layout
	Bindings  *scaffold.Resolver
	Stale     []string
}

// Render resolves every file in memory.
func (p *Plan) Render() ([]scaffold.File, error) {
	return scaffold.Render(p.Structure, p.Layout.Source())
}

// BuildPlan lays out the project d below parent.
func BuildPlan(d Descriptor, parent string, v Values) (*Plan, error) {
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if v.PythonVersion == "" {
		v.PythonVersion = DefaultPythonVersion
	}
	root := filepath.Join(parent, d.Name)

	var p *Plan
	switch d.Flavor {
	case FlavorDjango:
		p = djangoPlan(d, v)
	default:
		p = fastapiPlan(d, v)
	}
	p.Root = root
	p.Flavor = d.Flavor
	if err := p.Structure.Err(); err != nil {
		return nil, err
	}
	return p, nil
}

// AppBindings are the placeholder values of one Django app.
func AppBindings(app string) []scaffold.Pair {
	return []scaffold.Pair{
		scaffold.P("APP_NAME", app),
		scaffold.P("APP_CLASS", scaffold.Camel(app)),
		scaffold.P("APP_TITLE", scaffold.Title(app)),
	}
}

func commonBindings(d Descriptor, v Values) []scaffold.Pair {
	return []scaffold.Pair{
		scaffold.P("PROJECT_NAME", d.Name),
		scaffold.P("PROJECT_TITLE", scaffold.Title(d.Name)),
		scaffold.P("SECRET_KEY", v.Secret),
		scaffold.P("PYTHON_VERSION", v.PythonVersion),
	}
}

func bulletList(items []string, empty string) string {
	if len(items) == 0 {
		return empty
	}
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = "- " + it
	}
	return strings.Join(lines, "\n")
}

func joinLines(format string, items []string) string {
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = strings.ReplaceAll(format, "%s", it)
	}
	return strings.Join(lines, "\n")
}

func set(flavor Flavor) *templates.Set {
	s, _ := templates.For(string(flavor))
	return s
}
