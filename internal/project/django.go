package project

import (
	"fmt"
	"path"
	"strings"

	"github.com/phravins/pyscaffold/internal/scaffold"
	"github.com/phravins/pyscaffold/internal/templates"
)

var (
	djangoRootFiles = []string{
		"README.md", ".gitignore", ".env", "Dockerfile", "docker-compose.yml",
		"docker-compose.prod.yml", "requirements.txt", ".dockerignore", "manage.py",
	}
	djangoProjectFiles = []string{
		"__init__.py", "settings.py", "urls.py", "wsgi.py", "asgi.py", "logger.py", "health.py",
	}
	djangoAppFiles = []string{
		"__init__.py", "apps.py", "models.py", "views.py", "urls.py", "admin.py",
		"tests.py", "forms.py", "migrations/__init__.py",
	}
	djangoPageFiles = []string{"index.html", "error.html"}
	djangoAPIApps   = []string{"rest_framework", "rest_framework.authtoken", "drf_yasg"}
)

func djangoPlan(d Descriptor, v Values) *Plan {
	tpl := set(FlavorDjango)
	micro := d.Layout == LayoutMicroservices

	s := scaffold.NewStructure().
		Add("", djangoRootFiles...).
		Add(d.Name, djangoProjectFiles...)
	var stale []string

	apps := d.Apps
	if d.Auth {
		apps = append([]string{DjangoUsersApp}, apps...)
		s = s.Merge(UsersStructure().Under(DjangoUsersApp))
	}

	for _, app := range d.Apps {
		if micro {
			s = s.Merge(MicroserviceStructure(d.Name, app))
			stale = append(stale, MicroserviceStale(app)...)
			continue
		}
		files := djangoAppFiles
		if d.API {
			files = append(append([]string(nil), files...), "serializers.py")
		}
		s = s.Merge(
			scaffold.NewStructure().Add(app, files...),
			scaffold.NewStructure().Add(pagesDir(app), djangoPageFiles...),
		)
	}
	if micro {
		s = s.Add(path.Join(d.Name, "apis"), "__init__.py", "v1/__init__.py", "v1/urls.py")
	}

	var apiRequirements string
	if d.API {
		apiRequirements, _ = tpl.Group(templates.GroupSnippets).Render("requirements_api.txt", "")
	}
	var authModel string
	if d.Auth {
		authModel = fmt.Sprintf("AUTH_USER_MODEL = \"%s.CustomUser\"", DjangoUsersApp)
	}

	bindings := scaffold.NewResolver(append(commonBindings(d, v),
		scaffold.P("APPS_LIST", bulletList(apps, "_No apps yet._")),
		scaffold.P("INSTALLED_APPS", installedApps(apps)),
		scaffold.P("APP_URLS", appURLs(d, micro)),
		scaffold.P("API_APPS", apiApps(d.API)),
		scaffold.P("API_REQUIREMENTS", strings.TrimRight(apiRequirements, "\n")),
		scaffold.P("AUTH_USER_MODEL", authModel),
		scaffold.P("API_IMPORTS", apiImports(d, micro)),
		scaffold.P("API_ROUTES", apiRoutes(d, micro)),
	)...)
	layout := scaffold.NewLayout(bindings).
		Mount("", tpl.Group(templates.GroupRoot), d.Name).
		Mount(d.Name, tpl.Group(templates.GroupProject), d.Name)

	if d.Auth {
		layout.Mount(DjangoUsersApp, tpl.Group(templates.GroupUsers), DjangoUsersApp, AppBindings(DjangoUsersApp)...)
	}
	for _, app := range d.Apps {
		group := templates.GroupApp
		if micro {
			group = templates.GroupMicroservices
			layout.Mount(apiDir(d.Name, app), tpl.Group(templates.GroupAPI), app, AppBindings(app)...)
		}
		layout.Mount(app, tpl.Group(group), app, AppBindings(app)...)
		layout.Mount(pagesDir(app), tpl.Group(templates.GroupPages), app, AppBindings(app)...)
	}

	return &Plan{Structure: s, Layout: layout, Bindings: bindings, Stale: stale}
}

// UsersStructure is the custom user app added by the auth option, relative to
// the app directory.
func UsersStructure() *scaffold.Structure {
	return scaffold.NewStructure().
		Add("", "__init__.py", "apps.py", "models.py", "admin.py", "migrations/__init__.py")
}

// MicroserviceStructure is one app in the microservices layout: a models
// package, split test packages and its versioned API surface under the
// project package.
func MicroserviceStructure(project, app string) *scaffold.Structure {
	return scaffold.NewStructure().
		Add(app, "__init__.py", "apps.py", "urls.py", "views.py", "admin.py", "migrations/__init__.py").
		Add(path.Join(app, "models"), "__init__.py", "entity1_model.py", "entity2_model.py").
		Add(path.Join(app, "tests"), "__init__.py", "unit/__init__.py", "unit/test_models.py",
			"integration/__init__.py", "fixtures/__init__.py").
		Add(pagesDir(app), djangoPageFiles...).
		Add(apiDir(project, app), "__init__.py",
			"serializers/__init__.py", "serializers/entity1_serializers.py", "serializers/entity2_serializers.py",
			"views/__init__.py", "views/entity1_views.py", "views/entity2_views.py")
}

// MicroserviceStale lists the single-module files the microservices layout
// replaces with packages.
func MicroserviceStale(app string) []string {
	return []string{path.Join(app, "models.py"), path.Join(app, "forms.py"), path.Join(app, "tests.py")}
}

func pagesDir(app string) string {
	return path.Join(app, "templates", app)
}

func apiDir(project, app string) string {
	return path.Join(project, "apis", "v1", app)
}

func installedApps(apps []string) string {
	return joinLines(`    "%s",`, apps)
}

func apiApps(api bool) string {
	if !api {
		return ""
	}
	return joinLines(`    "%s",`, djangoAPIApps)
}

func appURLs(d Descriptor, micro bool) string {
	var lines []string
	for _, app := range d.Apps {
		lines = append(lines, fmt.Sprintf(`    path("%s/", include("%s.urls")),`, app, app))
	}
	if micro {
		lines = append(lines, fmt.Sprintf(`    path("api/v1/", include("%s.apis.v1.urls")),`, d.Name))
	}
	return strings.Join(lines, "\n")
}

func apiImports(d Descriptor, micro bool) string {
	if !micro {
		return ""
	}
	var lines []string
	for _, app := range d.Apps {
		lines = append(lines, fmt.Sprintf("from %s.apis.v1.%s.views import entity1_views as %s_entity1_views", d.Name, app, app))
		lines = append(lines, fmt.Sprintf("from %s.apis.v1.%s.views import entity2_views as %s_entity2_views", d.Name, app, app))
	}
	return strings.Join(lines, "\n")
}

func apiRoutes(d Descriptor, micro bool) string {
	if !micro {
		return ""
	}
	var lines []string
	for _, app := range d.Apps {
		for _, entity := range []string{"entity1", "entity2"} {
			lines = append(lines, fmt.Sprintf(`router.register(r"%s/%s", %s_%s_views.%sViewSet, basename="%s-%s")`,
				app, entity, app, entity, scaffold.Capitalize(entity), app, entity))
		}
	}
	return strings.Join(lines, "\n")
}
