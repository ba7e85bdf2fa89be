package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, fs afero.Fs, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(fs)
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), err
}

func TestSnippetCmd(t *testing.T) {
	file := filepath.Join(t.TempDir(), "sample.go")
	require.NoError(t, os.WriteFile(file, []byte(strings.Join([]string{
		"package sample",
		"",
		"func f() {",
		"\t// SNIP",
		"\tx := 1",
		"\t_ = x",
		"\t// SNIP",
		"}",
	}, "\n")), 0o644))

	out, err := run(t, afero.NewMemMapFs(), "snippet", file, "SNIP")
	require.NoError(t, err)
	assert.Equal(t, "```go\nx := 1\n_ = x\n```\n\n", out)

	t.Run("Fence type", func(t *testing.T) {
		out, err := run(t, afero.NewMemMapFs(), "snippet", "--type", "text", file, "SNIP")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "```text\n"))
	})

	t.Run("Unknown marker", func(t *testing.T) {
		_, err := run(t, afero.NewMemMapFs(), "snippet", file, "NOPE")
		assert.ErrorContains(t, err, "snippet NOPE not found")
	})
}

func TestPageCmd(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "fragment.md", []byte("Some *content*.\n"), 0o644))

	out, err := run(t, fs, "page", "--out", "docs", "--title-case", "getting started", "fragment.md")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join("docs", "getting-started.md"))

	content, err := afero.ReadFile(fs, filepath.Join("docs", "getting-started.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Getting Started\n\nSome *content*.\n", string(content))

	t.Run("Missing fragment", func(t *testing.T) {
		_, err := run(t, fs, "page", "Title", "missing.md")
		assert.ErrorContains(t, err, "read fragment")
	})
}

func TestLintCmd(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "ok.md"), []byte("```\nfits\n```\n"), 0o644))

	out, err := run(t, afero.NewMemMapFs(), "lint", root)
	require.NoError(t, err)
	assert.Contains(t, out, "All code blocks fit")

	bad := filepath.Join(root, "bad.md")
	require.NoError(t, os.WriteFile(bad, []byte("```\n"+strings.Repeat("z", 81)+"\n```\n"), 0o644))

	out, err = run(t, afero.NewMemMapFs(), "lint", root)
	assert.ErrorContains(t, err, "1 code lines exceed 80 columns")
	assert.Contains(t, out, bad+":2: code line is 81 wide, limit 80")
}

func TestPreviewCmd(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "README.md", []byte("# Preview Title\n\nBody text.\n"), 0o644))

	out, err := run(t, fs, "preview", "--style", "notty", "README.md")
	require.NoError(t, err)
	assert.Contains(t, out, "Preview Title")
	assert.Contains(t, out, "Body text.")
}

func TestConfigCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "go4example.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format:\n  line_length: 96\n"), 0o644))

	out, err := run(t, afero.NewMemMapFs(), "--config", path, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "# from "+path)
	assert.Contains(t, out, "line_length: 96")

	t.Run("Invalid log level", func(t *testing.T) {
		_, err := run(t, afero.NewMemMapFs(), "--log-level", "loud", "config")
		assert.ErrorContains(t, err, "invalid log level")
	})
}
