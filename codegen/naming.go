package codegen

import (
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// reservedWords are the Go keywords a derived identifier must not collide
// with.
var reservedWords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true,
	"continue": true, "default": true, "defer": true, "else": true,
	"fallthrough": true, "for": true, "func": true, "go": true,
	"goto": true, "if": true, "import": true, "interface": true,
	"map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true,
	"var": true,
}

// FileName derives the generated file name for a workspace name, e.g.
// "Hello World" becomes "hello_world.go".
func FileName(name string) string {
	s := snakeWords(name)
	if s == "" {
		s = "generated"
	}
	return s + ".go"
}

// exportedIdent derives an exported Go identifier from a free-form name.
func exportedIdent(name string) string {
	s := snakeWords(name)
	if s == "" {
		return "Generated"
	}
	return sanitizeIdent(inflect.Camelize(s))
}

// localIdent derives an unexported identifier, used for variables.
func localIdent(name string) string {
	s := snakeWords(name)
	if s == "" {
		return "v"
	}
	id := sanitizeIdent(inflect.CamelizeDownFirst(s))
	if reservedWords[id] {
		id += "_"
	}
	return id
}

// snakeWords normalizes a free-form name to lower snake case. Words are
// title-cased individually first so all-caps input does not survive
// camelization as-is.
func snakeWords(name string) string {
	caser := cases.Title(language.English)
	fields := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		words = append(words, caser.String(f))
	}
	return inflect.Underscore(strings.Join(words, "_"))
}

// sanitizeIdent prefixes names that would otherwise start with a digit.
func sanitizeIdent(s string) string {
	if s == "" {
		return s
	}
	if r := []rune(s)[0]; unicode.IsDigit(r) {
		return "N" + s
	}
	return s
}
