// Package manifest reads and writes project descriptor files.
//
//	name: shop
//	flavor: django
//	apps: [catalog, orders]
//	layout: microservices
//	auth: true
package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/phravins/pyscaffold/internal/project"
	"github.com/phravins/pyscaffold/internal/scaffold"
	"github.com/phravins/pyscaffold/pkg/utils"
)

// DefaultFile is the name `manifest init` writes when given no path.
const DefaultFile = "scaffold.yaml"

// Load parses the descriptor at path. Unknown keys are rejected and
// database defaults to true when absent.
func Load(path string) (project.Descriptor, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return project.Descriptor{}, scaffold.Wrap(scaffold.KindConfig, "read manifest", path, err)
	}
	return Parse(path, content)
}

func Parse(path string, content []byte) (project.Descriptor, error) {
	d := project.Descriptor{Database: true}
	if err := yaml.UnmarshalStrict(content, &d); err != nil {
		return project.Descriptor{}, scaffold.Wrap(scaffold.KindConfig, "parse manifest", path, err)
	}
	return d, nil
}

// Example is the descriptor written by Init.
func Example(flavor project.Flavor, name string) project.Descriptor {
	d := project.Descriptor{Name: name, Flavor: flavor, Database: true}
	switch flavor {
	case project.FlavorFastAPI:
		d.Apps = []string{"book"}
		d.Auth = true
	default:
		d.Flavor = project.FlavorDjango
		d.Apps = []string{"catalog", "orders"}
		d.Layout = project.LayoutStandard
		d.API = true
	}
	return d
}

// Init writes an example descriptor to path. An existing file is kept unless
// force is set.
func Init(path string, d project.Descriptor, force bool) error {
	if utils.FileExists(path) && !force {
		return scaffold.Errorf(scaffold.KindConfig, "init manifest", path, "file exists (use --force to overwrite)")
	}
	body, err := yaml.Marshal(d)
	if err != nil {
		return err
	}
	header := fmt.Sprintf("# pyscaffold project descriptor\n# generate with: pyscaffold new --from %s\n", path)
	if err := utils.WriteFile(path, append([]byte(header), body...)); err != nil {
		return scaffold.Wrap(scaffold.KindIO, "init manifest", path, err)
	}
	return nil
}
