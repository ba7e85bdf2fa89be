package example

import (
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"go4example/internal/callsite"
	"go4example/internal/errs"
)

// LinkToRepoResource renders a link to a path relative to the repository URL.
func (d *Doc) LinkToRepoResource(title, rel string) string {
	return MDLink(title, d.repo.RepoURL+"/"+strings.TrimPrefix(rel, "/"))
}

// LinkToSelf renders a link to the source file that calls it. When the file
// cannot be placed in the repository the title is returned unlinked and the
// error is recorded on the Doc.
func (d *Doc) LinkToSelf(title string) string {
	loc, err := d.locate(callsite.Location{})
	if err != nil {
		return title
	}
	rel, ok := d.repoPath(loc)
	if !ok {
		d.fail(errs.Config("source file %s is not under any source root", loc.File).
			With("package", loc.Package()))
		return title
	}
	return MDLink(title, d.repo.URLForFile(filepath.ToSlash(rel)))
}

// repoPath places the file of loc in the repository, by its package when
// that belongs to the module and by its path under a source root otherwise.
func (d *Doc) repoPath(loc callsite.Location) (string, bool) {
	pkg := strings.TrimSuffix(loc.Package(), "_test")
	if dir, ok := d.resolver.PackageDir(pkg); ok {
		return filepath.Join(dir, loc.Base()), true
	}
	if !filepath.IsAbs(loc.File) {
		// -trimpath: <module path>/<dir>/<file>
		rel, ok := strings.CutPrefix(filepath.ToSlash(loc.File), d.repo.ModulePath+"/")
		return filepath.FromSlash(rel), ok && d.repo.ModulePath != ""
	}
	for _, root := range d.resolver.Roots() {
		abs, err := filepath.Abs(root)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(abs, loc.File)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return filepath.Join(root, rel), true
		}
	}
	return "", false
}

// LinkToTypeSource renders a link to the file declaring the type of v.
func (d *Doc) LinkToTypeSource(v any) string {
	rel, err := d.typeSource(v)
	t := indirect(reflect.TypeOf(v))
	name := "<nil>"
	if t != nil {
		name = t.Name()
	}
	if err != nil {
		d.fail(err)
		return name
	}
	return MDLink(name, d.repo.URLForFile(filepath.ToSlash(rel)))
}

// typeSource returns the path, relative to the source roots, of the file
// declaring the named type of v. Grouped type declarations are not found.
func (d *Doc) typeSource(v any) (string, error) {
	t := indirect(reflect.TypeOf(v))
	if t == nil || t.Name() == "" || t.PkgPath() == "" {
		return "", errs.Config("value of type %T has no named declaration", v)
	}
	dir, ok := d.resolver.PackageDir(t.PkgPath())
	if !ok {
		return "", errs.Config("package %s is not part of module %q", t.PkgPath(), d.repo.ModulePath)
	}
	decl := regexp.MustCompile(`(?m)^type\s+` + regexp.QuoteMeta(t.Name()) + `\b`)
	var searched []string
	for _, root := range d.resolver.Roots() {
		files, _ := filepath.Glob(filepath.Join(root, dir, "*.go"))
		sort.Strings(files)
		for _, file := range files {
			searched = append(searched, file)
			data, err := os.ReadFile(file)
			if err != nil {
				continue
			}
			if decl.Match(data) {
				return filepath.Join(dir, filepath.Base(file)), nil
			}
		}
	}
	return "", errs.Config("declaration of type %s not found", t.Name()).With("searched", searched)
}

func indirect(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
