package scaffold

import (
	"path"
	"path/filepath"
	"strings"
)

// CleanPath normalizes a slash-separated template path and rejects absolute
// paths and paths that climb out of the root. "" and "." both mean the root.
func CleanPath(p string) (string, error) {
	if strings.Contains(p, `\`) {
		p = strings.ReplaceAll(p, `\`, "/")
	}
	if path.IsAbs(p) || filepath.IsAbs(p) || filepath.VolumeName(p) != "" {
		return "", &Error{Kind: KindConfig, Op: "clean path", Path: p, Err: ErrPathEscapesRoot}
	}
	cleaned := path.Clean("/" + p)[1:]
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", &Error{Kind: KindConfig, Op: "clean path", Path: p, Err: ErrPathEscapesRoot}
		}
	}
	return cleaned, nil
}

// JoinPath joins slash-separated segments and cleans the result.
func JoinPath(elem ...string) (string, error) {
	return CleanPath(path.Join(elem...))
}

// depth counts path segments; the root has depth 0.
func depth(p string) int {
	if p == "" {
		return 0
	}
	return strings.Count(p, "/") + 1
}
