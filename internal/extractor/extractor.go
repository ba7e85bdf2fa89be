package extractor

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"go4example/internal/errs"
	"go4example/internal/format"
)

// Mode selects how braces are counted.
type Mode int

const (
	// Lexical counts every brace character. Braces inside string or comment
	// literals of the block are counted too and can end the block early.
	Lexical Mode = iota
	// TokenAware parses the file with tree-sitter and ignores braces inside
	// string, rune and comment literals.
	TokenAware
)

func (m Mode) String() string {
	switch m {
	case Lexical:
		return "lexical"
	case TokenAware:
		return "token-aware"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Extractor locates example blocks at call sites.
type Extractor struct {
	langExtractor LanguageExtractor
	langName      string
	mode          Mode
	pattern       *regexp.Regexp
}

// NewExtractor creates a new extractor for a given language.
func NewExtractor(lang string, mode Mode) (*Extractor, error) {
	var langExt LanguageExtractor
	switch lang {
	case "go":
		langExt = &GoExtractor{}
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
	pattern, err := regexp.Compile(langExt.GetBlockPattern())
	if err != nil {
		return nil, fmt.Errorf("failed to compile block pattern for %s: %w", lang, err)
	}
	return &Extractor{langExtractor: langExt, langName: lang, mode: mode, pattern: pattern}, nil
}

// Mode returns the brace counting mode.
func (e *Extractor) Mode() Mode {
	return e.mode
}

// Extract finds the first block introduced at or after the 1-based line and
// returns its body with the common indentation removed.
func (e *Extractor) Extract(lines []string, line int) (Block, error) {
	if line < 1 || line > len(lines) {
		return Block{}, errs.Extraction("line %d outside source of %d lines", line, len(lines)).With("line", line)
	}
	// Line numbers start at 1, slices at 0.
	offset := 0
	for _, l := range lines[:line-1] {
		offset += len(l) + 1
	}
	source := strings.Join(lines[line-1:], "\n")

	var opaque []Span
	if e.mode == TokenAware {
		spans, err := e.opaqueSpans(strings.Join(lines, "\n"))
		if err != nil {
			return Block{}, err
		}
		opaque = shift(spans, offset)
	}

	start := -1
	for _, m := range e.pattern.FindAllStringIndex(source, -1) {
		if inside(opaque, m[0]) {
			continue
		}
		brace := e.langExtractor.GetBodyStart(source, m[1]-1)
		if brace >= 0 && !inside(opaque, brace) {
			start = brace
			break
		}
	}
	if start < 0 {
		return Block{}, errs.Extraction("no example block found from line %d", line).
			With("line", line).
			With("length", len(source))
	}

	depth := 1
	index := start + 1
	k := 0
	for depth > 0 && index < len(source) {
		for k < len(opaque) && opaque[k].End <= index {
			k++
		}
		if k < len(opaque) && opaque[k].Start <= index {
			index = opaque[k].End
			continue
		}
		switch source[index] {
		case '{':
			depth++
		case '}':
			depth--
		}
		index++
	}
	if depth != 0 {
		return Block{}, errs.Extraction("no matching closing brace for block from line %d", line).
			With("start", start).
			With("end", index).
			With("length", len(source)).
			With("depth", depth)
	}

	code := format.TrimIndent(source[start+1 : index-1])
	if code == "" {
		return Block{}, errs.Extraction("example block from line %d is empty", line).
			With("start", start).
			With("end", index)
	}

	return Block{
		Code:      code,
		StartLine: line + strings.Count(source[:start], "\n"),
		EndLine:   line + strings.Count(source[:index-1], "\n"),
	}, nil
}

// opaqueSpans returns the byte ranges of literals and comments, sorted by start.
func (e *Extractor) opaqueSpans(source string) ([]Span, error) {
	sourceCode := []byte(source)
	parser := sitter.NewParser()
	parser.SetLanguage(e.langExtractor.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, sourceCode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s source: %w", e.langName, err)
	}

	query, err := sitter.NewQuery([]byte(e.langExtractor.GetQuery()), e.langExtractor.GetLanguage())
	if err != nil {
		return nil, fmt.Errorf("failed to create query: %w", err)
	}

	qc := sitter.NewQueryCursor()
	qc.Exec(query, tree.RootNode())

	var spans []Span
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, c := range m.Captures {
			spans = append(spans, Span{Start: int(c.Node.StartByte()), End: int(c.Node.EndByte())})
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	return spans, nil
}

// shift moves spans so they are relative to offset, dropping those before it.
func shift(spans []Span, offset int) []Span {
	out := make([]Span, 0, len(spans))
	for _, s := range spans {
		if s.End <= offset {
			continue
		}
		start := s.Start - offset
		if start < 0 {
			start = 0
		}
		out = append(out, Span{Start: start, End: s.End - offset})
	}
	return out
}

func inside(spans []Span, pos int) bool {
	for _, s := range spans {
		if pos >= s.Start && pos < s.End {
			return true
		}
	}
	return false
}
