// Package lint checks code blocks in markdown files against the same line
// length gate that is applied when the blocks are generated.
package lint

import (
	"bytes"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"go4example/internal/crawler"
	"go4example/internal/format"
)

// Issue is a code block line wider than the limit.
type Issue struct {
	File string
	// Line is the 1-based line in the markdown file.
	Line     int
	Width    int
	Limit    int
	Language string
	Text     string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s:%d: code line is %d wide, limit %d", i.File, i.Line, i.Width, i.Limit)
}

// Linter checks markdown sources.
type Linter struct {
	markdown goldmark.Markdown
	opts     format.Options
	logger   *log.Logger
}

// New creates a linter using the line length and tab width of opts.
func New(opts format.Options, logger *log.Logger) *Linter {
	if opts.LineLength <= 0 {
		opts.LineLength = format.DefaultLineLength
	}
	if opts.TabWidth <= 0 {
		opts.TabWidth = format.DefaultTabWidth
	}
	return &Linter{markdown: goldmark.New(), opts: opts, logger: logger}
}

// Check returns the issues found in the fenced code blocks of src. file is
// only used to label the issues.
func (l *Linter) Check(file string, src []byte) []Issue {
	doc := l.markdown.Parser().Parse(text.NewReader(src))

	var issues []Issue
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		block, ok := n.(*ast.FencedCodeBlock)
		if !entering || !ok {
			return ast.WalkContinue, nil
		}
		lang := string(block.Language(src))
		lines := block.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			line := string(bytes.TrimRight(seg.Value(src), "\r\n"))
			line = format.ExpandTabs(line, l.opts.TabWidth)
			for _, long := range format.LongLines(line, l.opts.LineLength) {
				issues = append(issues, Issue{
					File:     file,
					Line:     bytes.Count(src[:seg.Start], []byte("\n")) + 1,
					Width:    long.Width,
					Limit:    l.opts.LineLength,
					Language: lang,
					Text:     long.Text,
				})
			}
		}
		return ast.WalkSkipChildren, nil
	})
	return issues
}

// CheckFile reads and checks one markdown file.
func (l *Linter) CheckFile(path string) ([]Issue, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return l.Check(path, src), nil
}

// Run checks every markdown file below root.
func (l *Linter) Run(root string, c *crawler.Crawler) ([]Issue, error) {
	var issues []Issue
	files := 0
	err := c.Walk(root, func(path string) error {
		found, err := l.CheckFile(path)
		if err != nil {
			return err
		}
		files++
		if len(found) > 0 && l.logger != nil {
			l.logger.Debug("long code lines", "file", path, "count", len(found))
		}
		issues = append(issues, found...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if l.logger != nil {
		l.logger.Info("markdown checked", "root", root, "files", files, "issues", len(issues))
	}
	return issues, nil
}
