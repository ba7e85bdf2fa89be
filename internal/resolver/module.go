package resolver

import (
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// DetectModulePath reads the module path from the first go.mod found in the
// roots, then in the working directory and its parents.
func DetectModulePath(roots []string) string {
	for _, root := range roots {
		if p := modulePathIn(root); p != "" {
			return p
		}
	}
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if p := modulePathIn(dir); p != "" {
			return p
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func modulePathIn(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return ""
	}
	return modfile.ModulePath(data)
}
