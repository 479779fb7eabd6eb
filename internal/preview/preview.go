// Package preview renders templates and dry-run results for the terminal.
package preview

import (
	"bytes"
	"path"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/glamour"
	"github.com/ddddddO/gtree"
)

const DefaultTheme = "monokai"

// Tree draws the files below root as an ASCII tree, directories first in
// the order they appear.
func Tree(root string, files []string) (string, error) {
	node := gtree.NewRoot(root)
	for _, f := range files {
		cur := node
		for _, part := range strings.Split(f, "/") {
			cur = cur.Add(part)
		}
	}
	var buf bytes.Buffer
	if err := gtree.OutputProgrammably(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Highlight colors code by the lexer matching name. Unknown types and
// highlighter errors return code unchanged.
func Highlight(name, code, theme string) string {
	if theme == "" {
		theme = DefaultTheme
	}
	lexer := "text"
	if l := lexers.Match(path.Base(name)); l != nil {
		lexer = l.Config().Name
	} else if strings.HasPrefix(path.Base(name), "Dockerfile") {
		lexer = "docker"
	}
	b := new(strings.Builder)
	if err := quick.Highlight(b, code, lexer, "terminal256", theme); err != nil {
		return code
	}
	return b.String()
}

// Markdown renders text with glamour.
func Markdown(text string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(text)
}

// File picks Markdown for .md files and Highlight otherwise.
func File(name, content, theme string) string {
	if strings.EqualFold(path.Ext(name), ".md") {
		if out, err := Markdown(content, 0); err == nil {
			return out
		}
	}
	return Highlight(name, content, theme)
}

// Dirs lists the distinct parent directories of files, sorted.
func Dirs(files []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, f := range files {
		for d := path.Dir(f); d != "." && !seen[d]; d = path.Dir(d) {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Strings(out)
	return out
}
