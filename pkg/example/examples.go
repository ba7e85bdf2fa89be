package example

import (
	"fmt"
	"strings"

	"go4example/internal/callsite"
	"go4example/internal/errs"
	"go4example/internal/format"
	"go4example/internal/runner"
	"go4example/internal/snippet"
	"go4example/pkg/capture"
)

// Example runs fn under an output capture and appends its source code, taken
// from the body of the function literal at the call site, as a code block.
// Errors and panics from fn end up in the returned output; the returned
// error is about locating or rendering the source.
func (d *Doc) Example(fn runner.Func, opts ...Option) (ExampleOutput, error) {
	cfg := newBlockConfig("go", opts)
	out := runner.Run(fn, cfg.sink, !cfg.skipRun)
	return out, d.renderSource(cfg)
}

// SuspendingExample is Example for code that blocks on a context. The
// calling goroutine waits until fn returns. Suspending examples must not be
// nested.
func (d *Doc) SuspendingExample(fn runner.SuspendFunc, opts ...Option) (ExampleOutput, error) {
	cfg := newBlockConfig("go", opts)
	out := d.runner.RunSuspending(d.ctx, fn, cfg.sink, !cfg.skipRun)
	return out, d.renderSource(cfg)
}

// RenderExampleOutput appends what an example printed as a text block. Unless
// stdoutOnly is set, the returned value (or the error) is rendered first.
func (d *Doc) RenderExampleOutput(out ExampleOutput, stdoutOnly bool, opts ...Option) error {
	cfg := newBlockConfig("text", opts)
	if !stdoutOnly {
		switch {
		case out.Result.Err != nil:
			if err := d.codeBlock(out.Result.Err.Error(), cfg.format); err != nil {
				return err
			}
		case out.Result.Value != nil:
			if err := d.codeBlock(fmt.Sprint(out.Result.Value), cfg.format); err != nil {
				return err
			}
		}
	}
	if strings.TrimSpace(out.Stdout) != "" {
		return d.codeBlock(out.Stdout, cfg.format)
	}
	return nil
}

// ExampleFromSnippet appends the lines between two occurrences of marker in
// file. The file is looked up in the source paths, then as given.
func (d *Doc) ExampleFromSnippet(file, marker string, opts ...Option) error {
	cfg := newBlockConfig("go", opts)
	src, err := d.resolver.Lines(file)
	if err != nil {
		return d.fail(err)
	}
	lines, err := snippet.Extract(src.Lines, marker)
	if err != nil {
		return d.fail(err)
	}
	return d.codeBlock(format.TrimIndent(strings.Join(lines, "\n")), cfg.format)
}

// ExampleFromSnippetFor is ExampleFromSnippet on the file declaring the type of v.
func (d *Doc) ExampleFromSnippetFor(v any, marker string, opts ...Option) error {
	file, err := d.typeSource(v)
	if err != nil {
		return d.fail(err)
	}
	return d.ExampleFromSnippet(file, marker, opts...)
}

func (d *Doc) locate(loc callsite.Location) (callsite.Location, error) {
	if !loc.IsZero() {
		return loc, nil
	}
	loc, err := d.locator.Caller()
	if err != nil {
		return loc, d.fail(errs.Config("cannot locate the calling source file").Wrap(err))
	}
	return loc, nil
}

func (d *Doc) renderSource(cfg blockConfig) error {
	loc, err := d.locate(cfg.location)
	if err != nil {
		return err
	}
	src, err := d.resolver.Resolve(loc)
	if err != nil {
		return d.fail(err)
	}
	block, err := d.extractor.Extract(src.Lines, loc.Line)
	if err != nil {
		return d.fail(errs.Extraction("source block could not be extracted at %s", loc).Wrap(err))
	}
	d.logger.Debug("extracted example block", "file", src.Path, "from", block.StartLine, "to", block.EndLine, "mode", d.extractor.Mode())
	return d.codeBlock(block.Code, cfg.format)
}

// StdoutPrefix sets the line written before captured output by Block.
func StdoutPrefix(prefix string) Option {
	return func(c *blockConfig) { c.stdoutPrefix = prefix }
}

// ReturnValuePrefix sets the line written before the return value by Block.
func ReturnValuePrefix(prefix string) Option {
	return func(c *blockConfig) { c.returnValuePrefix = prefix }
}

// NoStdout stops Block from rendering captured output.
func NoStdout() Option {
	return func(c *blockConfig) { c.noStdout = true }
}

// NoReturnValue stops Block from rendering the return value.
func NoReturnValue() Option {
	return func(c *blockConfig) { c.noReturnValue = true }
}

// Block renders the source of fn, runs it, and renders its return value and
// captured output. The capture is reset after its output is rendered, so a
// shared capture can collect output over several examples.
//
// Deprecated: Use Example followed by RenderExampleOutput.
func (d *Doc) Block(fn runner.Func, opts ...Option) error {
	cfg := newBlockConfig("go", opts)
	if err := d.renderSource(cfg); err != nil {
		return err
	}
	if cfg.sink == nil {
		cfg.sink = capture.New()
	}
	return d.renderBlockOutput(runner.Run(fn, cfg.sink, !cfg.skipRun), cfg)
}

// SuspendingBlock is Block for code that blocks on a context.
//
// Deprecated: Use SuspendingExample followed by RenderExampleOutput.
func (d *Doc) SuspendingBlock(fn runner.SuspendFunc, opts ...Option) error {
	cfg := newBlockConfig("go", opts)
	if err := d.renderSource(cfg); err != nil {
		return err
	}
	if cfg.sink == nil {
		cfg.sink = capture.New()
	}
	return d.renderBlockOutput(d.runner.RunSuspending(d.ctx, fn, cfg.sink, !cfg.skipRun), cfg)
}

func (d *Doc) renderBlockOutput(out ExampleOutput, cfg blockConfig) error {
	if cfg.skipRun {
		return nil
	}
	plain := cfg.format
	plain.Type = ""
	if out.Result.Value != nil && !cfg.noReturnValue {
		fmt.Fprintf(&d.buf, "%s\n\n", cfg.returnValuePrefix)
		if err := d.codeBlock(fmt.Sprint(out.Result.Value), plain); err != nil {
			return err
		}
	}
	if cfg.noStdout {
		return nil
	}
	output := cfg.sink.Output()
	cfg.sink.Reset()
	if strings.TrimSpace(output) != "" {
		fmt.Fprintf(&d.buf, "%s\n\n", cfg.stdoutPrefix)
		return d.codeBlock(output, plain)
	}
	return nil
}
