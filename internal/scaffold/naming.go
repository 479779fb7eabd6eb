package scaffold

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var pythonKeywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true, "class": true,
	"continue": true, "def": true, "del": true, "elif": true, "else": true,
	"except": true, "finally": true, "for": true, "from": true, "global": true,
	"if": true, "import": true, "in": true, "is": true, "lambda": true,
	"nonlocal": true, "not": true, "or": true, "pass": true, "raise": true,
	"return": true, "try": true, "while": true, "with": true, "yield": true,
}

// ValidateName checks that name can be used verbatim as a directory and as a
// Python import segment. role names the field in the returned error.
func ValidateName(role, name string) error {
	if strings.TrimSpace(name) == "" {
		return &Error{Kind: KindConfig, Op: "validate " + role, Err: ErrEmptyName}
	}
	if !identifierPattern.MatchString(name) {
		return &Error{Kind: KindConfig, Op: "validate " + role, Path: name, Err: ErrInvalidName}
	}
	if pythonKeywords[name] {
		return Errorf(KindConfig, "validate "+role, name, "%w: %s is a Python keyword", ErrInvalidName, name)
	}
	return nil
}

// Capitalize upper-cases the first letter and leaves the rest untouched:
// "book" -> "Book", "orderItem" -> "OrderItem". Unlike Python's
// str.capitalize the tail is not lower-cased, so camelCase module names keep
// their humps in generated class names.
func Capitalize(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// Pluralize appends "s". It is not linguistic pluralization: "entity" gives
// "entitys", "box" gives "boxs".
func Pluralize(name string) string {
	return name + "s"
}

// RoutePrefix is the URL prefix of a generated CRUD router: "/" + Pluralize(name).
func RoutePrefix(name string) string {
	return "/" + Pluralize(name)
}

// Title turns a snake_case identifier into words for human readable text:
// "order_items" -> "Order Items".
func Title(name string) string {
	return strings.Join(titleWords(name), " ")
}

// Camel joins the snake_case words of name, each title-cased, the way Django
// names AppConfig classes: "order_items" -> "OrderItems".
func Camel(name string) string {
	return strings.Join(titleWords(name), "")
}

func titleWords(name string) []string {
	parts := strings.FieldsFunc(name, func(r rune) bool { return r == '_' || r == '-' })
	caser := cases.Title(language.English)
	for i, part := range parts {
		parts[i] = caser.String(strings.ToLower(part))
	}
	return parts
}
