package scaffold

import (
	"regexp"
	"sort"
	"strings"
)

// tokenPattern matches any placeholder marker, known or not. Django template
// tags such as "{{ page_obj }}" carry spaces and lower case, so they never match.
var tokenPattern = regexp.MustCompile(`\{\{[A-Z][A-Z0-9_]*\}\}`)

// Token returns the marker for a placeholder name: Token("APP_NAME") is "{{APP_NAME}}".
func Token(name string) string {
	return "{{" + name + "}}"
}

// Pair binds one placeholder name to its run-time value.
type Pair struct {
	Name  string
	Value string
}

// P is shorthand for Pair{Name: name, Value: value}.
func P(name, value string) Pair {
	return Pair{Name: name, Value: value}
}

// Resolver substitutes placeholder values into template text.
//
// Substitution is a single left-to-right pass: replaced text is never scanned
// again, so a value that equals or contains a token (an app called
// "PROJECT_NAME", or literally "{{APP_NAME}}") survives unchanged. Pairs are
// kept longest token first, ties in the order given, and when a name is bound
// twice the later binding wins.
type Resolver struct {
	pairs    []Pair
	replacer *strings.Replacer
}

func NewResolver(pairs ...Pair) *Resolver {
	merged := make([]Pair, 0, len(pairs))
	index := make(map[string]int, len(pairs))
	for _, p := range pairs {
		if i, ok := index[p.Name]; ok {
			merged[i] = p
			continue
		}
		index[p.Name] = len(merged)
		merged = append(merged, p)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return len(merged[i].Name) > len(merged[j].Name)
	})

	oldnew := make([]string, 0, 2*len(merged))
	for _, p := range merged {
		oldnew = append(oldnew, Token(p.Name), p.Value)
	}
	return &Resolver{pairs: merged, replacer: strings.NewReplacer(oldnew...)}
}

// With returns a resolver holding r's pairs plus extra; extra wins on conflicts.
func (r *Resolver) With(extra ...Pair) *Resolver {
	all := make([]Pair, 0, len(r.pairs)+len(extra))
	all = append(all, r.pairs...)
	all = append(all, extra...)
	return NewResolver(all...)
}

// Pairs returns the bindings in resolution order.
func (r *Resolver) Pairs() []Pair {
	out := make([]Pair, len(r.pairs))
	copy(out, r.pairs)
	return out
}

// Resolve replaces every bound token in text.
func (r *Resolver) Resolve(text string) string {
	return r.replacer.Replace(text)
}

// Check fails when template contains a placeholder marker that no pair binds.
// The scan runs over the template rather than the output: resolution is a
// single pass, so any marker left in the output was either unbound in the
// template or carried in verbatim by a value.
func (r *Resolver) Check(template string) error {
	return r.check("", template)
}

// Apply checks then resolves. path only adds context to the error.
func (r *Resolver) Apply(path, template string) (string, error) {
	if err := r.check(path, template); err != nil {
		return "", err
	}
	return r.Resolve(template), nil
}

func (r *Resolver) check(path, template string) error {
	bound := make(map[string]bool, len(r.pairs))
	for _, p := range r.pairs {
		bound[Token(p.Name)] = true
	}
	var missing []string
	seen := map[string]bool{}
	for _, tok := range tokenPattern.FindAllString(template, -1) {
		if !bound[tok] && !seen[tok] {
			seen[tok] = true
			missing = append(missing, tok)
		}
	}
	if len(missing) > 0 {
		return Errorf(KindSubstitution, "resolve", path, "%w: %s", ErrUnresolvedToken, strings.Join(missing, ", "))
	}
	return nil
}

// Leftovers lists the distinct placeholder markers present in text, in order
// of first appearance.
func Leftovers(text string) []string {
	var out []string
	seen := map[string]bool{}
	for _, tok := range tokenPattern.FindAllString(text, -1) {
		if !seen[tok] {
			seen[tok] = true
			out = append(out, tok)
		}
	}
	return out
}
