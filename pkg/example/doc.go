// Package example builds markdown documentation from Go code that is
// extracted from the caller's own source file, optionally executed, and
// rendered together with what it printed.
//
// A Doc is driven from a single goroutine:
//
//	md, err := example.Markdown(repo, func(d *example.Doc) error {
//		d.Section("Getting started", func() {
//			d.Text("Hello!")
//		})
//		out, err := d.Example(func(out *capture.Capture) (any, error) {
//			out.Println("Hello" + " World!")
//			return nil, nil
//		})
//		if err != nil {
//			return err
//		}
//		return d.RenderExampleOutput(out, true)
//	})
package example

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/charmbracelet/log"

	"go4example/internal/callsite"
	"go4example/internal/extractor"
	"go4example/internal/format"
	"go4example/internal/resolver"
	"go4example/internal/runner"
)

// ExampleOutput is what an executed example returned and printed.
type ExampleOutput = runner.Output

// Result is the success or failure of an example.
type Result = runner.Result

// Doc accumulates a markdown document.
//
// Operations that fail because of a configuration, extraction or validation
// problem return the error and also record the first one, so link helpers
// can be used inline and the builder can check Err once at the end. Errors
// raised by example code are not failures of the Doc; they are part of the
// ExampleOutput.
type Doc struct {
	repo      Repository
	buf       strings.Builder
	logger    *log.Logger
	ctx       context.Context
	locator   *callsite.Locator
	resolver  *resolver.Resolver
	extractor *extractor.Extractor
	formatter *format.Formatter
	runner    *runner.Runner
	err       error
}

var docMethods = reflect.TypeOf((*Doc)(nil)).Elem().PkgPath() + ".(*Doc)."

// New creates an empty document for repo.
func New(repo Repository, opts ...DocOption) (*Doc, error) {
	cfg := docConfig{ctx: context.Background()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "go4example", Level: log.WarnLevel})
	}

	repo = repo.withDefaults()
	if repo.ModulePath == "" {
		repo.ModulePath = resolver.DetectModulePath(repo.SourcePaths)
	}

	mode := extractor.Lexical
	if cfg.tokenAware {
		mode = extractor.TokenAware
	}
	ext, err := extractor.NewExtractor("go", mode)
	if err != nil {
		return nil, err
	}

	return &Doc{
		repo:      repo,
		logger:    cfg.logger,
		ctx:       cfg.ctx,
		locator:   callsite.NewLocator(docMethods),
		resolver:  resolver.NewDefault(repo.SourcePaths, repo.ModulePath),
		extractor: ext,
		formatter: format.New(cfg.logger),
		runner:    runner.New(),
	}, nil
}

// Markdown creates a Doc, runs build on it and returns the markdown. The
// error is the one returned by build or, failing that, the first error
// recorded on the Doc.
func Markdown(repo Repository, build func(d *Doc) error, opts ...DocOption) (string, error) {
	d, err := New(repo, opts...)
	if err != nil {
		return "", err
	}
	if err := build(d); err != nil {
		return "", err
	}
	if err := d.Err(); err != nil {
		return "", err
	}
	return d.String(), nil
}

// Repository returns the repository configuration with defaults applied.
func (d *Doc) Repository() Repository {
	return d.repo
}

// Err returns the first error recorded on the Doc.
func (d *Doc) Err() error {
	return d.err
}

// String returns the markdown accumulated so far.
func (d *Doc) String() string {
	return d.buf.String()
}

func (d *Doc) fail(err error) error {
	if err != nil && d.err == nil {
		d.err = err
	}
	return err
}

// Text appends text with its common indentation removed, followed by a blank line.
func (d *Doc) Text(text string) {
	d.buf.WriteString(format.TrimIndent(text))
	d.buf.WriteString("\n\n")
}

// Textf formats and appends text like Text.
func (d *Doc) Textf(layout string, args ...any) {
	d.Text(fmt.Sprintf(layout, args...))
}

// Heading appends a heading of the given level, clamped to 1..6.
func (d *Doc) Heading(level int, title string) {
	level = min(max(level, 1), 6)
	fmt.Fprintf(&d.buf, "%s %s\n\n", strings.Repeat("#", level), title)
}

// Section appends a level 2 heading and then runs body, if any.
func (d *Doc) Section(title string, body func()) {
	d.Heading(2, title)
	if body != nil {
		body()
	}
}

// SubSection appends a level 3 heading and then runs body, if any.
func (d *Doc) SubSection(title string, body func()) {
	d.Heading(3, title)
	if body != nil {
		body()
	}
}

// BulletList appends an unordered list.
func (d *Doc) BulletList(items ...string) {
	for _, item := range items {
		fmt.Fprintf(&d.buf, "- %s\n", item)
	}
	d.buf.WriteString("\n")
}

// NumberedList appends an ordered list.
func (d *Doc) NumberedList(items ...string) {
	for i, item := range items {
		fmt.Fprintf(&d.buf, "%d. %s\n", i+1, item)
	}
	d.buf.WriteString("\n")
}

// Blockquote appends text as a quote.
func (d *Doc) Blockquote(text string) {
	for _, line := range strings.Split(format.TrimIndent(text), "\n") {
		if line == "" {
			d.buf.WriteString(">\n")
			continue
		}
		fmt.Fprintf(&d.buf, "> %s\n", line)
	}
	d.buf.WriteString("\n")
}

// HorizontalRule appends a thematic break.
func (d *Doc) HorizontalRule() {
	d.buf.WriteString("---\n\n")
}

// CodeBlock appends code as a fenced block. The fence type defaults to go.
func (d *Doc) CodeBlock(code string, opts ...Option) error {
	cfg := newBlockConfig("go", opts)
	return d.codeBlock(code, cfg.format)
}

func (d *Doc) codeBlock(code string, opts format.Options) error {
	block, err := d.formatter.Block(code, opts)
	if err != nil {
		return d.fail(err)
	}
	d.buf.WriteString(block)
	return nil
}

// IncludeMDFile appends a markdown file that lives next to the calling source file.
func (d *Doc) IncludeMDFile(name string) error {
	loc, err := d.locate(callsite.Location{})
	if err != nil {
		return err
	}
	src, err := d.resolver.Lines(d.callerRelative(loc, name))
	if err != nil {
		var fallbackErr error
		src, fallbackErr = d.resolver.Lines(filepath.Join(filepath.Dir(loc.File), name))
		if fallbackErr != nil {
			return d.fail(err)
		}
	}
	d.buf.WriteString(strings.Join(src.Lines, "\n"))
	d.buf.WriteString("\n\n")
	return nil
}

// callerRelative joins name with the directory of the caller's package
// relative to the module root.
func (d *Doc) callerRelative(loc callsite.Location, name string) string {
	pkg := strings.TrimSuffix(loc.Package(), "_test")
	if dir, ok := d.resolver.PackageDir(pkg); ok {
		return filepath.Join(dir, name)
	}
	return name
}
