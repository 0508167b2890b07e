// Package forge detects which repository platform a working tree belongs
// to by inspecting its git remotes. The result feeds badge and usage URL
// generation; detection is best-effort and never required for rendering.
package forge

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"

	"git.home.luguber.info/inful/actiondocs/internal/errors"
)

// Kind identifies a repository platform.
type Kind string

const (
	KindGitHub  Kind = "github"
	KindGitLab  Kind = "gitlab"
	KindUnknown Kind = "unknown"
)

// EnvRepository overrides detection with an explicit "owner/name" slug
// (CI environments often have no origin remote checked out).
const EnvRepository = "ACTIONDOCS_REPOSITORY"

// Repository describes the detected hosting location of a working tree.
type Repository struct {
	Kind  Kind
	Host  string
	Owner string
	Name  string
	Ref   string // current branch short name, "main" when undetectable
}

// Detect inspects the git repository containing path. The environment
// override wins over git metadata. A missing repository or remote is an
// error; callers degrade to no-badge output.
func Detect(path string) (*Repository, error) {
	if slug := os.Getenv(EnvRepository); slug != "" {
		return fromSlug(slug)
	}

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryGit, errors.SeverityWarning, "open git repository").
			WithContext("path", path)
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryGit, errors.SeverityWarning, "no origin remote")
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return nil, errors.New(errors.CategoryGit, errors.SeverityWarning, "origin remote has no URL")
	}

	parsed, err := ParseRemoteURL(urls[0])
	if err != nil {
		return nil, err
	}

	parsed.Ref = "main"
	if head, err := repo.Head(); err == nil && head.Name().IsBranch() {
		parsed.Ref = head.Name().Short()
	}
	return parsed, nil
}

// ParseRemoteURL parses HTTPS and SSH remote forms:
//
//	https://github.com/owner/name.git
//	git@gitlab.com:owner/name.git
//	ssh://git@github.com/owner/name.git
func ParseRemoteURL(raw string) (*Repository, error) {
	rest := raw
	switch {
	case strings.HasPrefix(rest, "ssh://"):
		rest = strings.TrimPrefix(rest, "ssh://")
		if at := strings.Index(rest, "@"); at >= 0 {
			rest = rest[at+1:]
		}
		rest = strings.Replace(rest, "/", ":", 1)
	case strings.HasPrefix(rest, "https://"):
		rest = strings.TrimPrefix(rest, "https://")
		rest = strings.Replace(rest, "/", ":", 1)
	case strings.HasPrefix(rest, "http://"):
		rest = strings.TrimPrefix(rest, "http://")
		rest = strings.Replace(rest, "/", ":", 1)
	case strings.Contains(rest, "@"):
		// scp-like: git@host:owner/name.git
		rest = rest[strings.Index(rest, "@")+1:]
	default:
		return nil, errors.New(errors.CategoryGit, errors.SeverityWarning, "unrecognized remote URL form").
			WithContext("url", raw)
	}

	host, path, ok := strings.Cut(rest, ":")
	if !ok {
		return nil, errors.New(errors.CategoryGit, errors.SeverityWarning, "remote URL has no path").
			WithContext("url", raw)
	}
	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	parts := strings.SplitN(path, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, errors.New(errors.CategoryGit, errors.SeverityWarning, "remote URL path is not owner/name").
			WithContext("url", raw)
	}

	return &Repository{
		Kind:  kindForHost(host),
		Host:  host,
		Owner: parts[0],
		Name:  parts[1],
	}, nil
}

func fromSlug(slug string) (*Repository, error) {
	parts := strings.SplitN(slug, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, errors.New(errors.CategoryGit, errors.SeverityWarning, "repository override is not owner/name").
			WithContext("slug", slug)
	}
	return &Repository{
		Kind:  KindGitHub,
		Host:  "github.com",
		Owner: parts[0],
		Name:  parts[1],
		Ref:   "main",
	}, nil
}

func kindForHost(host string) Kind {
	switch {
	case strings.Contains(host, "github"):
		return KindGitHub
	case strings.Contains(host, "gitlab"):
		return KindGitLab
	}
	return KindUnknown
}

// Slug returns "owner/name".
func (r *Repository) Slug() string {
	return r.Owner + "/" + r.Name
}

// HTTPURL returns the web URL of the repository.
func (r *Repository) HTTPURL() string {
	return fmt.Sprintf("https://%s/%s", r.Host, r.Slug())
}

// UsesRef returns the "owner/name@ref" string used in workflow usage
// snippets.
func (r *Repository) UsesRef() string {
	ref := r.Ref
	if ref == "" {
		ref = "main"
	}
	return r.Slug() + "@" + ref
}
