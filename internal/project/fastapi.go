package project

import (
	"fmt"
	"path"
	"strings"

	"github.com/phravins/pyscaffold/internal/scaffold"
	"github.com/phravins/pyscaffold/internal/templates"
)

// FastAPIBaseStructure is the tree every FastAPI project gets.
func FastAPIBaseStructure() *scaffold.Structure {
	return scaffold.NewStructure().
		Add("", "main.py", "Dockerfile", "docker-compose.yml", ".dockerignore", ".gitignore",
			".env", "requirements.txt", "pyproject.toml", "README.md").
		Add("app", "__init__.py", "dependencies.py").
		Add("app/core", "__init__.py", "config.py", "logger.py", "middleware.py", "security.py", "redis_client.py").
		Add("app/core/helpers", "__init__.py", "message.py", "exception.py").
		Add("app/api", "__init__.py", "main_router.py").
		Add("app/utils", "__init__.py", "retry_utils.py").
		Add("app/modules", "__init__.py").
		Add("tests", "__init__.py", "conftest.py", "test_health.py")
}

// FastAPIDatabaseStructure adds SQLAlchemy and Alembic.
func FastAPIDatabaseStructure() *scaffold.Structure {
	return scaffold.NewStructure().
		Add("app/db", "__init__.py", "base.py", "session.py").
		Add("", "alembic.ini").
		Add("alembic", "env.py", "script.py.mako", "versions/")
}

// FastAPIAuthStructure adds token login and the user module.
func FastAPIAuthStructure() *scaffold.Structure {
	return scaffold.NewStructure().
		Add(path.Join("app/modules", FastAPIAuth), "__init__.py", "models.py", "schemas.py", "utility.py", "crud.py", "router.py").
		Add(path.Join("app/modules", FastAPIUser), "__init__.py", "models.py", "schemas.py", "crud.py", "router.py").
		Add("tests", "test_auth.py", "test_users.py")
}

// ModuleStructure is one CRUD module, relative to the project root.
func ModuleStructure(name string) *scaffold.Structure {
	return scaffold.NewStructure().
		Add(ModuleDir(name), "__init__.py", "models.py", "schemas.py", "crud.py", "router.py")
}

// ModuleDir is where module name lives inside a FastAPI project.
func ModuleDir(name string) string {
	return path.Join("app/modules", name)
}

// IncludeLine is the main router line wiring module name in.
func IncludeLine(name string) string {
	return fmt.Sprintf("api_router.include_router(%s_router)", name)
}

// ImportLine is the import matching IncludeLine.
func ImportLine(name string) string {
	return fmt.Sprintf("from app.modules.%s.router import %s_router", name, name)
}

func fastapiPlan(d Descriptor, v Values) *Plan {
	tpl := set(FlavorFastAPI)

	s := FastAPIBaseStructure()
	var routed, models []string
	if d.Database {
		s = s.Merge(FastAPIDatabaseStructure())
	}
	if d.Auth {
		s = s.Merge(FastAPIAuthStructure())
		routed = append(routed, FastAPIAuth, FastAPIUser)
		models = append(models, FastAPIUser)
	}
	for _, m := range d.Apps {
		s = s.Merge(ModuleStructure(m))
		routed = append(routed, m)
		models = append(models, m)
	}

	imports := make([]string, len(routed))
	includes := make([]string, len(routed))
	for i, r := range routed {
		imports[i] = ImportLine(r)
		includes[i] = IncludeLine(r)
	}
	modelImports := make([]string, len(models))
	for i, m := range models {
		modelImports[i] = fmt.Sprintf("from app.modules.%s import models as %s_models  # noqa: F401", m, m)
	}

	bindings := scaffold.NewResolver(append(commonBindings(d, v),
		scaffold.P("APPS_LIST", bulletList(d.Apps, "_No modules yet._")),
		scaffold.P("ROUTER_IMPORTS", strings.Join(imports, "\n")),
		scaffold.P("ROUTER_INCLUDES", strings.Join(includes, "\n")),
		scaffold.P("MODEL_IMPORTS", strings.Join(modelImports, "\n")),
	)...)

	layout := scaffold.NewLayout(bindings).Mount("", tpl.Group(templates.GroupBase), d.Name)
	for _, m := range d.Apps {
		layout.Mount(ModuleDir(m), tpl.Group(templates.GroupModule), m)
	}
	return &Plan{Structure: s, Layout: layout, Bindings: bindings}
}
