package example

import (
	"fmt"
	"strings"
)

// DefaultBranch is used when Repository.Branch is empty.
const DefaultBranch = "main"

// Repository tells the engine where the documented code lives, both on disk
// and on the code hosting site.
type Repository struct {
	// RepoURL is the web address of the repository, e.g. https://github.com/acme/widgets.
	RepoURL string
	// Branch is used to build links. Defaults to main.
	Branch string
	// SourcePaths are directories, relative to the working directory, searched
	// in order for source files. Defaults to ".".
	SourcePaths []string
	// ModulePath is the Go module path of the repository. When empty it is
	// read from the first go.mod found.
	ModulePath string
}

func (r Repository) withDefaults() Repository {
	if r.Branch == "" {
		r.Branch = DefaultBranch
	}
	if len(r.SourcePaths) == 0 {
		r.SourcePaths = []string{"."}
	}
	r.RepoURL = strings.TrimSuffix(r.RepoURL, "/")
	return r
}

// URLForFile returns the web address of a repository path.
func (r Repository) URLForFile(path string) string {
	r = r.withDefaults()
	return fmt.Sprintf("%s/tree/%s/%s", r.RepoURL, r.Branch, strings.TrimPrefix(path, "/"))
}

// MD builds a markdown document for this repository.
func (r Repository) MD(build func(d *Doc) error, opts ...DocOption) (string, error) {
	return Markdown(r, build, opts...)
}
