package crawler

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Crawler scans a directory tree for markdown files.
type Crawler struct {
	ignored    []string
	extensions []string
}

// NewCrawler creates a crawler for .md and .markdown files.
func NewCrawler() *Crawler {
	return &Crawler{
		ignored:    []string{".git", "vendor", "node_modules"},
		extensions: []string{".md", ".markdown"},
	}
}

// Ignore adds directory names that are not descended into.
func (c *Crawler) Ignore(names ...string) *Crawler {
	c.ignored = append(c.ignored, names...)
	return c
}

// Walk calls onFile for every markdown file below root, in lexical order.
// Walking stops at the first error returned by onFile. A root that is a
// file is passed to onFile as is.
func (c *Crawler) Walk(root string, onFile func(path string) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip ignored directories
		if d.IsDir() {
			if path != root && c.isIgnored(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if path != root && !c.isMarkdown(d.Name()) {
			return nil
		}
		return onFile(path)
	})
}

func (c *Crawler) isIgnored(name string) bool {
	for _, ign := range c.ignored {
		if name == ign {
			return true
		}
	}
	return false
}

func (c *Crawler) isMarkdown(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range c.extensions {
		if ext == e {
			return true
		}
	}
	return false
}
