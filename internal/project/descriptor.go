package project

import (
	"fmt"

	"github.com/phravins/pyscaffold/internal/scaffold"
)

type Flavor string

const (
	FlavorDjango  Flavor = "django"
	FlavorFastAPI Flavor = "fastapi"
)

type Layout string

const (
	LayoutStandard      Layout = "standard"
	LayoutMicroservices Layout = "microservices"
)

// Names taken by the auth variant of each flavor.
const (
	DjangoUsersApp = "users"
	FastAPIAuth    = "auth"
	FastAPIUser    = "user"
)

// Descriptor describes one generation run. Apps are Django apps or FastAPI
// CRUD modules depending on the flavor.
type Descriptor struct {
	Name     string   `yaml:"name"`
	Flavor   Flavor   `yaml:"flavor"`
	Apps     []string `yaml:"apps,omitempty"`
	Layout   Layout   `yaml:"layout,omitempty"`
	API      bool     `yaml:"api,omitempty"`
	Auth     bool     `yaml:"auth,omitempty"`
	Database bool     `yaml:"database"`
}

// Normalize fills defaults: the standard layout, and the REST API for the
// Django microservices layout, whose API surface needs it.
func (d Descriptor) Normalize() Descriptor {
	if d.Layout == "" {
		d.Layout = LayoutStandard
	}
	if d.Flavor == FlavorDjango && d.Layout == LayoutMicroservices {
		d.API = true
	}
	d.Apps = append([]string(nil), d.Apps...)
	return d
}

// Validate rejects a descriptor before anything touches the disk.
func (d Descriptor) Validate() error {
	if err := scaffold.ValidateName("project name", d.Name); err != nil {
		return err
	}
	switch d.Flavor {
	case FlavorDjango, FlavorFastAPI:
	case "":
		return configErr("validate flavor", "", "flavor is required (django or fastapi)")
	default:
		return configErr("validate flavor", string(d.Flavor), "unknown flavor %q (want django or fastapi)", d.Flavor)
	}
	switch d.Layout {
	case "", LayoutStandard:
	case LayoutMicroservices:
		if d.Flavor != FlavorDjango {
			return configErr("validate layout", string(d.Layout), "the microservices layout is only available for django")
		}
	default:
		return configErr("validate layout", string(d.Layout), "unknown layout %q (want standard or microservices)", d.Layout)
	}

	role := "app name"
	if d.Flavor == FlavorFastAPI {
		role = "module name"
	}
	seen := map[string]bool{}
	for _, app := range d.Apps {
		if err := scaffold.ValidateName(role, app); err != nil {
			return err
		}
		if seen[app] {
			return configErr("validate "+role, app, "%s %q is listed twice", role, app)
		}
		seen[app] = true
		if app == d.Name {
			return configErr("validate "+role, app, "%s %q collides with the project package", role, app)
		}
		if d.Auth && d.reserved(app) {
			return configErr("validate "+role, app, "%s %q is generated by the auth option", role, app)
		}
	}

	if d.Flavor == FlavorFastAPI && !d.Database && (d.Auth || len(d.Apps) > 0) {
		return configErr("validate database", "", "auth and modules need the database option")
	}
	return nil
}

func (d Descriptor) reserved(app string) bool {
	if d.Flavor == FlavorDjango {
		return app == DjangoUsersApp
	}
	return app == FastAPIAuth || app == FastAPIUser
}

func configErr(op, path, format string, args ...any) error {
	return &scaffold.Error{Kind: scaffold.KindConfig, Op: op, Path: path, Err: fmt.Errorf(format, args...)}
}
