package resolver

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"go4example/internal/callsite"
	"go4example/internal/errs"
)

// Source is a resolved file and its lines.
type Source struct {
	Path  string
	Lines []string
}

// Text joins the lines starting at the 0-based offset.
func (s Source) Text(from int) string {
	if from >= len(s.Lines) {
		return ""
	}
	return strings.Join(s.Lines[from:], "\n")
}

// Strategy proposes candidate paths for a call site.
type Strategy interface {
	Name() string
	Candidates(loc callsite.Location, r *Resolver) []string
}

// Resolver maps call sites and file names to files under the source roots.
type Resolver struct {
	roots      []string
	modulePath string
	strategies []Strategy
}

// New creates a resolver trying strategies in order.
func New(roots []string, modulePath string, strategies ...Strategy) *Resolver {
	return &Resolver{roots: roots, modulePath: modulePath, strategies: strategies}
}

// NewDefault creates a resolver with the root, test-suffix and runtime-path strategies.
func NewDefault(roots []string, modulePath string) *Resolver {
	return New(roots, modulePath, RootStrategy{}, SuffixStrategy{}, RuntimePathStrategy{})
}

// Roots returns the configured source roots.
func (r *Resolver) Roots() []string {
	return r.roots
}

// PackageDir returns the directory of an import path relative to the module
// root, or false when the package is outside the module.
func (r *Resolver) PackageDir(pkgPath string) (string, bool) {
	if r.modulePath == "" {
		return "", false
	}
	if pkgPath == r.modulePath {
		return ".", true
	}
	rel, ok := strings.CutPrefix(pkgPath, r.modulePath+"/")
	if !ok {
		return "", false
	}
	return filepath.FromSlash(rel), true
}

// Resolve finds the file containing loc.
func (r *Resolver) Resolve(loc callsite.Location) (Source, error) {
	var searched []string
	for _, s := range r.strategies {
		for _, candidate := range s.Candidates(loc, r) {
			searched = append(searched, candidate)
			if isFile(candidate) {
				return readSource(candidate)
			}
		}
	}
	return Source{}, errs.Config("source file %s not found in any source root", loc.Base()).
		With("searched", searched)
}

// Lines resolves a file name relative to the source roots, falling back to
// the name itself.
func (r *Resolver) Lines(name string) (Source, error) {
	var searched []string
	for _, root := range r.roots {
		candidate := filepath.Join(root, name)
		searched = append(searched, candidate)
		if isFile(candidate) {
			return readSource(candidate)
		}
	}
	searched = append(searched, name)
	if isFile(name) {
		return readSource(name)
	}
	return Source{}, errs.Config("file %s not found in any source root", name).With("searched", searched)
}

// Find returns the first existing root/name path.
func (r *Resolver) Find(name string) (string, bool) {
	for _, root := range r.roots {
		candidate := filepath.Join(root, name)
		if isFile(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// RootStrategy joins each root with the package directory and file name.
type RootStrategy struct{}

func (RootStrategy) Name() string { return "root" }

func (RootStrategy) Candidates(loc callsite.Location, r *Resolver) []string {
	dir, ok := r.PackageDir(loc.Package())
	if !ok {
		return nil
	}
	return joinRoots(r.roots, dir, loc.Base())
}

// SuffixStrategy handles external test packages: foo_test is compiled from
// the directory of foo.
type SuffixStrategy struct{}

func (SuffixStrategy) Name() string { return "suffix" }

func (SuffixStrategy) Candidates(loc callsite.Location, r *Resolver) []string {
	pkg := loc.Package()
	if !strings.HasSuffix(pkg, "_test") {
		return nil
	}
	dir, ok := r.PackageDir(strings.TrimSuffix(pkg, "_test"))
	if !ok {
		return nil
	}
	return joinRoots(r.roots, dir, loc.Base())
}

// RuntimePathStrategy uses the file path recorded by the compiler. Builds
// using -trimpath record "<module path>/<dir>/<file>", which is mapped back
// onto the roots.
type RuntimePathStrategy struct{}

func (RuntimePathStrategy) Name() string { return "runtime" }

func (RuntimePathStrategy) Candidates(loc callsite.Location, r *Resolver) []string {
	if loc.File == "" {
		return nil
	}
	if filepath.IsAbs(loc.File) {
		return []string{loc.File}
	}
	rel := loc.File
	if r.modulePath != "" {
		rel = strings.TrimPrefix(rel, r.modulePath+"/")
	}
	return joinRoots(r.roots, filepath.FromSlash(path.Dir(rel)), path.Base(rel))
}

func joinRoots(roots []string, dir, base string) []string {
	out := make([]string, 0, len(roots))
	for _, root := range roots {
		out = append(out, filepath.Join(root, dir, base))
	}
	return out
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

func readSource(p string) (Source, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return Source{}, errs.Config("read %s", p).Wrap(err)
	}
	lines := strings.Split(string(data), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return Source{Path: p, Lines: lines}, nil
}
