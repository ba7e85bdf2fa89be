package extractor

import sitter "github.com/smacker/go-tree-sitter"

// Block is the body of an example function literal as found in a source file.
type Block struct {
	Code      string
	StartLine int // line of the opening brace, 1-based
	EndLine   int // line of the closing brace, 1-based
}

// Span is a half-open byte range [Start, End) of a source file.
type Span struct {
	Start int
	End   int
}

// LanguageExtractor defines what each documented language must provide.
type LanguageExtractor interface {
	GetLanguage() *sitter.Language
	// GetQuery returns a tree-sitter query whose captures are literal and
	// comment nodes; braces inside them are not counted.
	GetQuery() string
	// GetBlockPattern returns the regular expression matching a block
	// keyword up to and including the opening parenthesis of the function
	// literal's parameter list.
	GetBlockPattern() string
	// GetBodyStart returns the index in source of the brace opening the
	// function body whose parameter list starts at paren, or -1.
	GetBodyStart(source string, paren int) int
}
