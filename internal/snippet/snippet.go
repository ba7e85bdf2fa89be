// Package snippet pulls marker delimited regions out of source files.
package snippet

import (
	"strings"

	"go4example/internal/errs"
)

// Extract returns the lines strictly between the first line containing
// marker and the next line containing it. The first occurrence opens and the
// next one closes, whatever the marker text says. A marker that never closes
// or that encloses nothing is a configuration error.
func Extract(lines []string, marker string) ([]string, error) {
	var snippet []string
	inSnippet, closed := false, false
	for _, line := range lines {
		if strings.Contains(line, marker) {
			if inSnippet {
				closed = true
				break
			}
			inSnippet = true
			continue
		}
		if inSnippet {
			snippet = append(snippet, line)
		}
	}
	if !closed || len(snippet) == 0 {
		return nil, errs.Config("snippet %s not found", marker).
			With("marker", marker).
			With("opened", inSnippet)
	}
	return snippet, nil
}
