package example

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var whitespace = regexp.MustCompile(`\s+`)

// Page is a markdown file with a title heading.
type Page struct {
	Title string
	// OutputDir defaults to the working directory.
	OutputDir string
	// FileName defaults to the slug of the title with a .md extension.
	FileName string
}

// Slug lowercases title and replaces whitespace runs with hyphens.
func Slug(title string) string {
	lower := cases.Lower(language.Und).String(strings.TrimSpace(title))
	return whitespace.ReplaceAllString(lower, "-")
}

// Name returns the file name of the page.
func (p Page) Name() string {
	if p.FileName != "" {
		return p.FileName
	}
	return Slug(p.Title) + ".md"
}

// Path returns the output path of the page.
func (p Page) Path() string {
	dir := p.OutputDir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, p.Name())
}

// Content prefixes markdown with the title heading.
func (p Page) Content(markdown string) string {
	return fmt.Sprintf("# %s\n\n%s", p.Title, markdown)
}

// Write stores the page content on fs, creating the output directory.
func (p Page) Write(fs afero.Fs, markdown string) error {
	if err := fs.MkdirAll(filepath.Dir(p.Path()), 0o755); err != nil {
		return fmt.Errorf("create output dir for %s: %w", p.Name(), err)
	}
	if err := afero.WriteFile(fs, p.Path(), []byte(p.Content(markdown)), 0o644); err != nil {
		return fmt.Errorf("write page %s: %w", p.Path(), err)
	}
	return nil
}

// MDLink renders a markdown link.
func MDLink(title, target string) string {
	return fmt.Sprintf("[%s](%s)", title, target)
}

// LinkToPage renders a link to a page's file.
func LinkToPage(p Page) string {
	return MDLink(p.Title, p.Name())
}
