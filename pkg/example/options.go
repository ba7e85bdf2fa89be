package example

import (
	"context"

	"github.com/charmbracelet/log"

	"go4example/internal/callsite"
	"go4example/internal/format"
	"go4example/pkg/capture"
)

// DocOption configures a Doc.
type DocOption func(*docConfig)

type docConfig struct {
	logger     *log.Logger
	ctx        context.Context
	tokenAware bool
}

// WithLogger sets the logger for the document session.
func WithLogger(logger *log.Logger) DocOption {
	return func(c *docConfig) { c.logger = logger }
}

// WithContext sets the context handed to suspending examples.
func WithContext(ctx context.Context) DocOption {
	return func(c *docConfig) { c.ctx = ctx }
}

// WithTokenAwareExtraction ignores braces inside string and comment literals
// when extracting example blocks.
func WithTokenAwareExtraction() DocOption {
	return func(c *docConfig) { c.tokenAware = true }
}

// Option configures a single code block, example or snippet.
type Option func(*blockConfig)

type blockConfig struct {
	format   format.Options
	skipRun  bool
	sink     *capture.Capture
	location callsite.Location

	noStdout          bool
	noReturnValue     bool
	stdoutPrefix      string
	returnValuePrefix string
}

func newBlockConfig(typ string, opts []Option) blockConfig {
	cfg := blockConfig{
		format:            format.DefaultOptions(),
		stdoutPrefix:      "Captured Output:",
		returnValuePrefix: "->",
	}
	cfg.format.Type = typ
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Type sets the fence info string, e.g. "go", "json" or "text".
func Type(typ string) Option {
	return func(c *blockConfig) { c.format.Type = typ }
}

// AllowLongLines disables the line length check.
func AllowLongLines() Option {
	return func(c *blockConfig) { c.format.AllowLongLines = true }
}

// Wrap splits lines longer than the line length.
func Wrap() Option {
	return func(c *blockConfig) { c.format.Wrap = true }
}

// LineLength sets the maximum line width. Default 80.
func LineLength(n int) Option {
	return func(c *blockConfig) { c.format.LineLength = n }
}

// IndentWidth sets the width of one indentation level in rendered code. Default 2.
func IndentWidth(n int) Option {
	return func(c *blockConfig) { c.format.IndentWidth = n }
}

// NoReIndent keeps the original indentation.
func NoReIndent() Option {
	return func(c *blockConfig) { c.format.ReIndent = false }
}

// NoRun shows the example without executing it.
func NoRun() Option {
	return func(c *blockConfig) { c.skipRun = true }
}

// WithCapture makes the example print into a shared capture, so output of
// several examples can be rendered together.
func WithCapture(sink *capture.Capture) Option {
	return func(c *blockConfig) { c.sink = sink }
}

// At uses an explicit source location instead of inspecting the stack.
func At(loc callsite.Location) Option {
	return func(c *blockConfig) { c.location = loc }
}

// Here returns the location of its caller, for use with At.
func Here() callsite.Location {
	return callsite.Caller(1)
}
