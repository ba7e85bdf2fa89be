package extractor

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go4example/internal/errs"
)

func sampleLines(t *testing.T) []string {
	t.Helper()
	return testdataLines(t, "sample.go")
}

func testdataLines(t *testing.T, name string) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return strings.Split(string(data), "\n")
}

func TestExtractor_Extract(t *testing.T) {
	lines := sampleLines(t)

	for _, mode := range []Mode{Lexical, TokenAware} {
		ext, err := NewExtractor("go", mode)
		require.NoError(t, err)

		t.Run(mode.String(), func(t *testing.T) {
			t.Run("comments inside the block only", func(t *testing.T) {
				block, err := ext.Extract(lines, 4)
				require.NoError(t, err)
				assert.Equal(t, "// inside the block: BarFoo\nout.Println(\"Hello\" + \" World!\")\nreturn nil, nil", block.Code)
				assert.NotContains(t, block.Code, "FooBar")
				assert.Equal(t, 5, block.StartLine)
				assert.Equal(t, 9, block.EndLine)
			})

			t.Run("nested braces", func(t *testing.T) {
				block, err := ext.Extract(lines, 11)
				require.NoError(t, err)
				assert.Equal(t, "if true {\n\tout.Println(\"nested\")\n}\nreturn 1 + 1, nil", block.Code)
				assert.Equal(t, 16, block.EndLine)
			})

			t.Run("suspending example", func(t *testing.T) {
				block, err := ext.Extract(lines, 23)
				require.NoError(t, err)
				assert.Contains(t, block.Code, "return ctx.Err(), nil")
			})

			t.Run("type literals in the signature", func(t *testing.T) {
				signatures := testdataLines(t, "signatures.go")
				tests := []struct {
					name string
					line int
					want string
				}{
					{"interface{} result", 4, "out.Println(\"interface\")\nreturn nil, nil"},
					{"struct{} result", 9, "return struct{ N int }{N: 1}, nil"},
					{"map of interface{} result", 13, "return map[string]interface{}{\"k\": 1}, nil"},
					{"unnamed interface{} result", 17, "return \"unnamed\""},
				}
				for _, tt := range tests {
					t.Run(tt.name, func(t *testing.T) {
						block, err := ext.Extract(signatures, tt.line)
						require.NoError(t, err)
						assert.Equal(t, tt.want, block.Code)
					})
				}
			})
		})
	}
}

func TestExtractor_BracesInLiterals(t *testing.T) {
	lines := sampleLines(t)

	lexical, err := NewExtractor("go", Lexical)
	require.NoError(t, err)
	tokenAware, err := NewExtractor("go", TokenAware)
	require.NoError(t, err)

	t.Run("string literal", func(t *testing.T) {
		block, err := lexical.Extract(lines, 18)
		require.NoError(t, err)
		// the brace inside the string ends the block early
		assert.Equal(t, `out.Println("a `, block.Code)

		block, err = tokenAware.Extract(lines, 18)
		require.NoError(t, err)
		assert.Equal(t, "out.Println(\"a } in a string\")\nreturn nil, nil", block.Code)
	})

	t.Run("comment", func(t *testing.T) {
		block, err := lexical.Extract(lines, 23)
		require.NoError(t, err)
		// the brace inside the comment swallows the closing brace of the literal
		assert.Contains(t, block.Code, "})")

		block, err = tokenAware.Extract(lines, 23)
		require.NoError(t, err)
		assert.Equal(t, "// a { in a comment\nreturn ctx.Err(), nil", block.Code)
	})
}

func TestExtractor_Errors(t *testing.T) {
	ext, err := NewExtractor("go", Lexical)
	require.NoError(t, err)

	t.Run("no block", func(t *testing.T) {
		_, err := ext.Extract(sampleLines(t), 26)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrExtraction))
	})

	t.Run("unbalanced", func(t *testing.T) {
		lines := []string{
			"d.Example(func(out *capture.Capture) (any, error) {",
			"\tx := 1",
		}
		_, err := ext.Extract(lines, 1)
		require.Error(t, err)

		var classified *errs.Error
		require.True(t, errors.As(err, &classified))
		depth, ok := classified.Context("depth")
		require.True(t, ok)
		assert.Equal(t, 1, depth)
		start, _ := classified.Context("start")
		assert.Equal(t, 50, start)
	})

	t.Run("empty body", func(t *testing.T) {
		_, err := ext.Extract(testdataLines(t, "signatures.go"), 21)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrExtraction))
		assert.Contains(t, err.Error(), "is empty")
	})

	t.Run("line out of range", func(t *testing.T) {
		_, err := ext.Extract([]string{"x"}, 0)
		assert.True(t, errors.Is(err, errs.ErrExtraction))
		_, err = ext.Extract([]string{"x"}, 2)
		assert.True(t, errors.Is(err, errs.ErrExtraction))
	})

	t.Run("unsupported language", func(t *testing.T) {
		_, err := NewExtractor("kotlin", Lexical)
		assert.Error(t, err)
	})
}
