// Package git reads repository metadata used to build links: the current
// branch and the web address of the origin remote.
package git

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// DefaultRemote is the remote whose URL is reported.
const DefaultRemote = "origin"

// Info describes the repository enclosing a directory.
type Info struct {
	// Root is the top level directory of the worktree.
	Root string
	// Branch is empty when HEAD is detached.
	Branch string
	// RemoteURL is the https address of the origin remote, empty without one.
	RemoteURL string
}

// Discover opens the repository containing dir, looking in parent
// directories as needed.
func Discover(dir string) (Info, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return Info{}, fmt.Errorf("open repository at %s: %w", dir, err)
	}

	var info Info
	if wt, err := repo.Worktree(); err == nil {
		info.Root = wt.Filesystem.Root()
	}

	// HEAD of a fresh repository points at a branch that has no commit yet.
	head, err := repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return Info{}, fmt.Errorf("read HEAD: %w", err)
	}
	if head.Type() == plumbing.SymbolicReference && head.Target().IsBranch() {
		info.Branch = head.Target().Short()
	}

	remote, err := repo.Remote(DefaultRemote)
	switch {
	case errors.Is(err, gogit.ErrRemoteNotFound):
	case err != nil:
		return Info{}, fmt.Errorf("read remote %s: %w", DefaultRemote, err)
	case len(remote.Config().URLs) > 0:
		info.RemoteURL = NormalizeURL(remote.Config().URLs[0])
	}
	return info, nil
}

var scpLike = regexp.MustCompile(`^(?:[\w.-]+@)?([\w.-]+):([^/].*)$`)

// NormalizeURL turns a clone URL into the web address of the repository:
// git@github.com:acme/widgets.git becomes https://github.com/acme/widgets.
// Local paths are returned unchanged.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "://") {
		m := scpLike.FindStringSubmatch(raw)
		if m == nil {
			return raw
		}
		return "https://" + m[1] + "/" + trimRepoPath(m[2])
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "file" {
		return raw
	}
	return "https://" + u.Hostname() + "/" + trimRepoPath(u.Path)
}

func trimRepoPath(p string) string {
	p = strings.Trim(p, "/")
	return strings.TrimSuffix(p, ".git")
}
