package extractor

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
)

// GoExtractor implements LanguageExtractor for Go.
type GoExtractor struct{}

func (g *GoExtractor) GetLanguage() *sitter.Language {
	return golang.GetLanguage()
}

func (g *GoExtractor) GetQuery() string {
	return `
		(comment) @opaque
		(interpreted_string_literal) @opaque
		(raw_string_literal) @opaque
		(rune_literal) @opaque
	`
}

// GetBlockPattern matches one of the example entry points followed by the
// parameter list of the function literal it receives, e.g.
// `d.Example(func(`.
func (g *GoExtractor) GetBlockPattern() string {
	return `(?s)\b(SuspendingExample|SuspendingBlock|Example|Block)\b.*?\bfunc\s*\(`
}

// GetBodyStart skips the signature starting at the parameter list and
// returns the index of the brace opening the body. Braces of interface and
// struct types in the results, e.g. `(interface{}, error)` or
// `map[string]struct{}`, are not the body.
func (g *GoExtractor) GetBodyStart(source string, paren int) int {
	depth := 0
	for i := paren; i < len(source); i++ {
		switch source[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case '{':
			if depth == 0 && !endsWithTypeKeyword(source[:i]) {
				return i
			}
			end := matchingBrace(source, i)
			if end < 0 {
				return -1
			}
			i = end
		}
	}
	return -1
}

func endsWithTypeKeyword(s string) bool {
	s = strings.TrimRight(s, " \t\r\n")
	for _, kw := range []string{"interface", "struct"} {
		if !strings.HasSuffix(s, kw) {
			continue
		}
		rest := s[:len(s)-len(kw)]
		if rest == "" || !isIdentByte(rest[len(rest)-1]) {
			return true
		}
	}
	return false
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func matchingBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
