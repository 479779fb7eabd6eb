package assets

import (
	"embed"
	"io/fs"
	"path"
)

// templates/<flavor>/<group>/... holds the raw template text. The all: prefix
// keeps dotfiles (.env, .gitignore) and __init__.py.
//
//go:embed all:templates
var assetsFS embed.FS

// TemplatesFS returns the template tree rooted at "templates".
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(assetsFS, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// GetAsset reads one file relative to the assets root.
func GetAsset(name string) ([]byte, error) {
	return assetsFS.ReadFile(name)
}

// AssetExists reports whether name is an embedded file.
func AssetExists(name string) bool {
	_, err := assetsFS.ReadFile(name)
	return err == nil
}

// ListTemplates returns every file below templates/<dir>, relative to that
// directory, in lexical order.
func ListTemplates(dir string) ([]string, error) {
	root := path.Join("templates", dir)
	var files []string
	err := fs.WalkDir(assetsFS, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, p[len(root)+1:])
		}
		return nil
	})
	return files, err
}
