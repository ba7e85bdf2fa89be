package example

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go4example/internal/callsite"
	"go4example/internal/errs"
	"go4example/pkg/capture"
)

// testRepo resolves sources from the module root, two levels up.
var testRepo = Repository{
	RepoURL:     "https://github.com/acme/go4example",
	SourcePaths: []string{"../.."},
}

func TestExample_RendersSourceAndOutput(t *testing.T) {
	md, err := Markdown(testRepo, func(d *Doc) error {
		// FooBar
		out, err := d.Example(func(out *capture.Capture) (any, error) {
			// BarFoo
			out.Println("Hello" + " World!")
			return nil, nil
		})
		if err != nil {
			return err
		}
		return d.RenderExampleOutput(out, true)
	})
	require.NoError(t, err)

	t.Run("Comments outside the block are dropped", func(t *testing.T) {
		assert.NotContains(t, md, "FooBar")
		assert.Contains(t, md, "// BarFoo")
	})

	t.Run("Source and output are rendered", func(t *testing.T) {
		assert.Contains(t, md, "```go\n// BarFoo\nout.Println(\"Hello\" + \" World!\")\nreturn nil, nil\n```")
		assert.Contains(t, md, "```text\nHello World!\n")
	})
}

func TestExample_ReturnValue(t *testing.T) {
	md, err := Markdown(testRepo, func(d *Doc) error {
		out, err := d.Example(func(out *capture.Capture) (any, error) {
			return 1 + 1, nil
		})
		if err != nil {
			return err
		}
		assert.Equal(t, 2, out.Result.Value)
		assert.True(t, out.Result.OK())
		return d.RenderExampleOutput(out, false)
	})
	require.NoError(t, err)
	assert.Contains(t, md, "```text\n2\n```")
}

func TestExample_FailuresAreData(t *testing.T) {
	boom := errors.New("boom")

	md, err := Markdown(testRepo, func(d *Doc) error {
		out, err := d.Example(func(out *capture.Capture) (any, error) {
			out.Println("before")
			return nil, boom
		})
		require.NoError(t, err)
		assert.ErrorIs(t, out.Result.Err, boom)
		assert.Equal(t, "before\n", out.Stdout)

		out, err = d.Example(func(out *capture.Capture) (any, error) {
			panic("unexpected")
		})
		require.NoError(t, err)
		require.Error(t, out.Result.Err)
		assert.Contains(t, out.Result.Err.Error(), "example panicked: unexpected")

		return d.RenderExampleOutput(out, false)
	})
	require.NoError(t, err)
	assert.Contains(t, md, `panic("unexpected")`)
	assert.Contains(t, md, "example panicked: unexpected")
}

func TestExample_TypeLiteralResults(t *testing.T) {
	md, err := Markdown(testRepo, func(d *Doc) error {
		out, err := d.Example(func(out *capture.Capture) (interface{}, error) {
			out.Println("body")
			return struct{}{}, nil
		})
		if err != nil {
			return err
		}
		assert.Equal(t, struct{}{}, out.Result.Value)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "```go\nout.Println(\"body\")\nreturn struct{}{}, nil\n```\n\n", md)
}

func TestExample_StdoutKeptExactly(t *testing.T) {
	md, err := Markdown(testRepo, func(d *Doc) error {
		out, err := d.Example(func(out *capture.Capture) (any, error) {
			out.Println()
			out.Println("  indented")
			out.Println("flush")
			return nil, nil
		})
		if err != nil {
			return err
		}
		assert.Equal(t, "\n  indented\nflush\n", out.Stdout)
		return d.RenderExampleOutput(out, true)
	})
	require.NoError(t, err)
	assert.Contains(t, md, "```text\n\n  indented\nflush\n\n```")
}

func TestExample_NoRun(t *testing.T) {
	ran := false
	md, err := Markdown(testRepo, func(d *Doc) error {
		out, err := d.Example(func(out *capture.Capture) (any, error) {
			ran = true
			return nil, nil
		}, NoRun())
		assert.Empty(t, out.Stdout)
		return err
	})
	require.NoError(t, err)
	assert.False(t, ran)
	assert.Contains(t, md, "ran = true")
}

func TestExample_SharedCapture(t *testing.T) {
	t.Run("Shared sink accumulates in order", func(t *testing.T) {
		sink := capture.New()
		md, err := Markdown(testRepo, func(d *Doc) error {
			if _, err := d.Example(func(out *capture.Capture) (any, error) {
				out.Println("first")
				return nil, nil
			}, WithCapture(sink)); err != nil {
				return err
			}
			out, err := d.Example(func(out *capture.Capture) (any, error) {
				out.Println("second")
				return nil, nil
			}, WithCapture(sink))
			if err != nil {
				return err
			}
			return d.RenderExampleOutput(out, true)
		})
		require.NoError(t, err)
		assert.Contains(t, md, "```text\nfirst\nsecond\n")
	})

	t.Run("Private sinks are isolated", func(t *testing.T) {
		var outputs []string
		_, err := Markdown(testRepo, func(d *Doc) error {
			for _, word := range []string{"first", "second"} {
				out, err := d.Example(func(out *capture.Capture) (any, error) {
					out.Println(word)
					return nil, nil
				})
				if err != nil {
					return err
				}
				outputs = append(outputs, out.Stdout)
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"first\n", "second\n"}, outputs)
	})
}

func TestSuspendingExample(t *testing.T) {
	ctx := context.WithValue(context.Background(), ctxKey{}, "value from context")

	md, err := Markdown(testRepo, func(d *Doc) error {
		out, err := d.SuspendingExample(func(ctx context.Context, out *capture.Capture) (any, error) {
			out.Println(ctx.Value(ctxKey{}))
			return "done", nil
		})
		if err != nil {
			return err
		}
		assert.Equal(t, "done", out.Result.Value)
		return d.RenderExampleOutput(out, false)
	}, WithContext(ctx))
	require.NoError(t, err)
	assert.Contains(t, md, "out.Println(ctx.Value(ctxKey{}))")
	assert.Contains(t, md, "```text\ndone\n```")
	assert.Contains(t, md, "```text\nvalue from context\n")
}

type ctxKey struct{}

func TestExample_ExplicitLocation(t *testing.T) {
	md, err := Markdown(testRepo, func(d *Doc) error {
		loc := Here()
		_, err := d.Example(func(out *capture.Capture) (any, error) {
			return "located", nil
		}, At(loc))
		return err
	})
	require.NoError(t, err)
	assert.Contains(t, md, "```go\nreturn \"located\", nil\n```")

	t.Run("Unknown file is a configuration error", func(t *testing.T) {
		_, err := Markdown(testRepo, func(d *Doc) error {
			_, err := d.Example(func(out *capture.Capture) (any, error) {
				return nil, nil
			}, At(callsite.Location{File: "missing.go", Line: 1, Function: "go4example/pkg/example.Missing"}))
			return err
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrConfig)
		assert.Contains(t, err.Error(), "missing.go")
	})
}

func TestExample_TokenAwareExtraction(t *testing.T) {
	md, err := Markdown(testRepo, func(d *Doc) error {
		_, err := d.Example(func(out *capture.Capture) (any, error) {
			out.Println("}")
			return nil, nil
		})
		return err
	}, WithTokenAwareExtraction())
	require.NoError(t, err)
	assert.Contains(t, md, "```go\nout.Println(\"}\")\nreturn nil, nil\n```")
}

func TestCodeBlock_LineLength(t *testing.T) {
	long := strings.Repeat("x", 100)

	t.Run("Long lines fail validation", func(t *testing.T) {
		var logs bytes.Buffer
		_, err := Markdown(testRepo, func(d *Doc) error {
			return d.CodeBlock(long)
		}, WithLogger(log.New(&logs)))
		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValidation)
		assert.Contains(t, logs.String(), "exceeds line length")
	})

	t.Run("Wrapped lines fit", func(t *testing.T) {
		md, err := Markdown(testRepo, func(d *Doc) error {
			return d.CodeBlock(long, Wrap())
		})
		require.NoError(t, err)
		for _, line := range strings.Split(md, "\n") {
			assert.LessOrEqual(t, len(line), 80)
		}
		assert.Equal(t, 100, strings.Count(md, "x"))
	})

	t.Run("Long lines can be allowed", func(t *testing.T) {
		md, err := Markdown(testRepo, func(d *Doc) error {
			return d.CodeBlock(long, AllowLongLines(), Type("text"))
		})
		require.NoError(t, err)
		assert.Equal(t, "```text\n"+long+"\n```\n\n", md)
	})
}

func TestBlock_Deprecated(t *testing.T) {
	sink := capture.New()
	md, err := Markdown(testRepo, func(d *Doc) error {
		return d.Block(func(out *capture.Capture) (any, error) {
			out.Print("printed")
			return 42, nil
		}, WithCapture(sink))
	})
	require.NoError(t, err)

	assert.Contains(t, md, "```go\nout.Print(\"printed\")\nreturn 42, nil\n```")
	assert.Contains(t, md, "->\n\n```\n42\n```")
	assert.Contains(t, md, "Captured Output:\n\n```\nprinted\n```")
	assert.Empty(t, sink.Output(), "sink is reset after rendering")

	t.Run("Prefixes and sections can be changed", func(t *testing.T) {
		md, err := Markdown(testRepo, func(d *Doc) error {
			return d.Block(func(out *capture.Capture) (any, error) {
				out.Print("printed")
				return 42, nil
			}, NoReturnValue(), StdoutPrefix("Output:"))
		})
		require.NoError(t, err)
		assert.NotContains(t, md, "->")
		assert.Contains(t, md, "Output:\n\n```\nprinted\n```")
	})
}

func TestExampleFromSnippet(t *testing.T) {
	md, err := Markdown(testRepo, func(d *Doc) error {
		return d.ExampleFromSnippet("pkg/example/testdata/snippet.go", "MY_CODE_SNIPPET")
	})
	require.NoError(t, err)
	assert.Equal(t, "```go\ngreeting := fmt.Sprintf(\"Hello %s!\", name)\nfmt.Println(greeting)\n```\n\n", md)

	t.Run("Missing marker", func(t *testing.T) {
		_, err := Markdown(testRepo, func(d *Doc) error {
			return d.ExampleFromSnippet("pkg/example/testdata/snippet.go", "NO_SUCH_MARKER")
		})
		assert.ErrorIs(t, err, errs.ErrConfig)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := Markdown(testRepo, func(d *Doc) error {
			return d.ExampleFromSnippet("nowhere.go", "MY_CODE_SNIPPET")
		})
		assert.ErrorIs(t, err, errs.ErrConfig)
	})

	t.Run("File of a type", func(t *testing.T) {
		_, err := Markdown(testRepo, func(d *Doc) error {
			return d.ExampleFromSnippetFor(Page{}, "NO_SUCH_MARKER")
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrConfig)
		assert.Contains(t, err.Error(), "NO_SUCH_MARKER")
	})
}

func TestIncludeMDFile(t *testing.T) {
	md, err := Markdown(testRepo, func(d *Doc) error {
		return d.IncludeMDFile("testdata/include.md")
	})
	require.NoError(t, err)
	assert.Equal(t, "Included *markdown* with a [link](https://example.com).\n\n", md)
}

func TestLinks(t *testing.T) {
	d, err := New(testRepo)
	require.NoError(t, err)

	assert.Equal(t,
		"[this file](https://github.com/acme/go4example/tree/main/pkg/example/doc_test.go)",
		d.LinkToSelf("this file"))
	assert.Equal(t,
		"[Page](https://github.com/acme/go4example/tree/main/pkg/example/page.go)",
		d.LinkToTypeSource(&Page{}))
	assert.Equal(t,
		"[license](https://github.com/acme/go4example/LICENSE)",
		d.LinkToRepoResource("license", "/LICENSE"))
	assert.Equal(t, "[Intro](intro.md)", LinkToPage(Page{Title: "Intro"}))
	require.NoError(t, d.Err())

	t.Run("Unnamed types are reported", func(t *testing.T) {
		d, err := New(testRepo)
		require.NoError(t, err)
		assert.Equal(t, "", d.LinkToTypeSource([]string{}))
		assert.ErrorIs(t, d.Err(), errs.ErrConfig)
	})
}

func TestDoc_Structure(t *testing.T) {
	md, err := Markdown(testRepo, func(d *Doc) error {
		d.Section("Intro", func() {
			d.Text(`
				Some text
				  indented.
			`)
			d.SubSection("Details", nil)
		})
		d.Heading(9, "Deep")
		d.BulletList("a", "b")
		d.NumberedList("one", "two")
		d.Blockquote("quoted\n\nagain")
		d.HorizontalRule()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"## Intro\n",
		"Some text\n  indented.\n",
		"### Details\n",
		"###### Deep\n",
		"- a\n- b\n",
		"1. one\n2. two\n",
		"> quoted\n>\n> again\n",
		"---\n\n",
	}, "\n"), md)
}

func TestDoc_FirstErrorIsKept(t *testing.T) {
	d, err := New(testRepo)
	require.NoError(t, err)

	tableErr := d.Table([]string{"a"}, [][]string{{"1", "2"}})
	lineErr := d.CodeBlock(strings.Repeat("x", 81))

	assert.ErrorIs(t, tableErr, errs.ErrValidation)
	assert.ErrorIs(t, lineErr, errs.ErrValidation)
	assert.Same(t, tableErr, d.Err())
	assert.Empty(t, d.String())
}
