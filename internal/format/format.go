// Package format turns raw text into fenced markdown code blocks that fit a
// narrow display.
package format

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-runewidth"

	"go4example/internal/errs"
)

// Defaults used when an Options field is zero.
const (
	DefaultLineLength  = 80
	DefaultIndentWidth = 2
	DefaultTabWidth    = 4
)

// Options controls how a code block is rendered.
type Options struct {
	// Type is the info string of the fence, used for syntax highlighting.
	Type string
	// AllowLongLines disables the line length gate.
	AllowLongLines bool
	// Wrap splits lines longer than LineLength into LineLength wide chunks.
	Wrap bool
	// LineLength is the maximum display width of a line. Default 80.
	LineLength int
	// ReIndent compresses indentation to IndentWidth spaces per level.
	ReIndent bool
	// IndentWidth defaults to 2.
	IndentWidth int
	// TabWidth is used to expand leading tabs. Defaults to 4.
	TabWidth int
}

// DefaultOptions returns the options used for source code blocks.
func DefaultOptions() Options {
	return Options{
		Type:        "go",
		LineLength:  DefaultLineLength,
		ReIndent:    true,
		IndentWidth: DefaultIndentWidth,
		TabWidth:    DefaultTabWidth,
	}
}

func (o Options) withDefaults() Options {
	if o.LineLength <= 0 {
		o.LineLength = DefaultLineLength
	}
	if o.IndentWidth <= 0 {
		o.IndentWidth = DefaultIndentWidth
	}
	if o.TabWidth <= 0 {
		o.TabWidth = DefaultTabWidth
	}
	return o
}

// Formatter renders code blocks. Long lines are reported on its logger.
type Formatter struct {
	logger *log.Logger
}

// New creates a formatter logging to logger.
func New(logger *log.Logger) *Formatter {
	return &Formatter{logger: logger}
}

// Code applies tab expansion, re-indentation, wrapping and the line length
// gate, returning the text that goes between the fences.
func (f *Formatter) Code(code string, opts Options) (string, error) {
	opts = opts.withDefaults()
	c := ExpandTabs(code, opts.TabWidth)
	if opts.ReIndent {
		c = ReIndent(c, opts.IndentWidth)
	}
	if opts.Wrap {
		c = WrapLines(c, opts.LineLength)
	}
	if !opts.AllowLongLines {
		if err := f.checkLineLength(c, opts.LineLength); err != nil {
			return "", err
		}
	}
	return c, nil
}

// Block renders a complete fenced code block followed by a blank line.
func (f *Formatter) Block(code string, opts Options) (string, error) {
	c, err := f.Code(code, opts)
	if err != nil {
		return "", err
	}
	return Fence(c, opts.Type), nil
}

func (f *Formatter) checkLineLength(code string, limit int) error {
	long := LongLines(code, limit)
	for _, l := range long {
		if f.logger != nil {
			f.logger.Warn("code block line exceeds line length", "line", l.Number, "width", l.Width, "limit", limit, "content", l.Text)
		}
	}
	if len(long) == 0 {
		return nil
	}
	first := long[0]
	return errs.Validation("code block exceeds line length of %d at line %d: %s", limit, first.Number, first.Text).
		With("line", first.Number).
		With("width", first.Width)
}

// LongLine is a line wider than the allowed length.
type LongLine struct {
	// Number is 1-based.
	Number int
	Width  int
	Text   string
}

// LongLines returns every line of code whose display width exceeds limit.
func LongLines(code string, limit int) []LongLine {
	var long []LongLine
	for i, line := range strings.Split(code, "\n") {
		if w := runewidth.StringWidth(line); w > limit {
			long = append(long, LongLine{Number: i + 1, Width: w, Text: line})
		}
	}
	return long
}

// Fence wraps code in a markdown fence of the given type.
func Fence(code, typ string) string {
	return fmt.Sprintf("```%s\n%s\n```\n\n", typ, code)
}

// ExpandTabs replaces tabs in the leading whitespace of each line with width spaces.
func ExpandTabs(text string, width int) string {
	if !strings.Contains(text, "\t") {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		var sb strings.Builder
		j := 0
		for ; j < len(line) && (line[j] == ' ' || line[j] == '\t'); j++ {
			if line[j] == '\t' {
				sb.WriteString(strings.Repeat(" ", width))
			} else {
				sb.WriteByte(' ')
			}
		}
		lines[i] = sb.String() + line[j:]
	}
	return strings.Join(lines, "\n")
}

// ReIndent finds the smallest run of leading spaces that is at least width
// wide and rewrites every repetition of that run in the indentation to width
// spaces. Relative nesting is kept: with width 2, 4 becomes 2 and 8 becomes 4.
func ReIndent(text string, width int) string {
	lines := strings.Split(text, "\n")
	unit := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := leadingSpaces(line)
		if n >= width && (unit == 0 || n < unit) {
			unit = n
		}
	}
	if unit == 0 || unit == width {
		return text
	}
	for i, line := range lines {
		n := leadingSpaces(line)
		if n == 0 {
			continue
		}
		indent := (n/unit)*width + n%unit
		lines[i] = strings.Repeat(" ", indent) + line[n:]
	}
	return strings.Join(lines, "\n")
}

// WrapLines splits every line wider than limit into chunks of at most limit
// columns. Chunks are cut at the column boundary, not at word boundaries.
func WrapLines(text string, limit int) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if runewidth.StringWidth(line) <= limit {
			out = append(out, line)
			continue
		}
		var chunk strings.Builder
		w := 0
		for _, r := range line {
			rw := runewidth.RuneWidth(r)
			if w+rw > limit && w > 0 {
				out = append(out, chunk.String())
				chunk.Reset()
				w = 0
			}
			chunk.WriteRune(r)
			w += rw
		}
		if chunk.Len() > 0 {
			out = append(out, chunk.String())
		}
	}
	return strings.Join(out, "\n")
}

// TrimIndent drops leading and trailing blank lines and removes the
// indentation common to all non-blank lines.
func TrimIndent(text string) string {
	lines := strings.Split(text, "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	common := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := leadingWhitespace(line)
		if common < 0 || n < common {
			common = n
		}
	}
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
			continue
		}
		lines[i] = line[common:]
	}
	return strings.Join(lines, "\n")
}

func leadingSpaces(line string) int {
	n := 0
	for n < len(line) && line[n] == ' ' {
		n++
	}
	return n
}

func leadingWhitespace(line string) int {
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	return n
}
