package forge

import (
	"testing"

	"github.com/go-git/go-git/v5"
	gitcfg "github.com/go-git/go-git/v5/config"
	"github.com/stretchr/testify/require"
)

func TestParseRemoteURL(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		kind  Kind
		host  string
		owner string
		repo  string
	}{
		{"https github", "https://github.com/inful/setup-thing.git", KindGitHub, "github.com", "inful", "setup-thing"},
		{"https no suffix", "https://github.com/inful/setup-thing", KindGitHub, "github.com", "inful", "setup-thing"},
		{"scp gitlab", "git@gitlab.com:group/proj.git", KindGitLab, "gitlab.com", "group", "proj"},
		{"ssh scheme", "ssh://git@github.com/inful/setup-thing.git", KindGitHub, "github.com", "inful", "setup-thing"},
		{"self-hosted gitlab", "https://gitlab.example.org/team/tool.git", KindGitLab, "gitlab.example.org", "team", "tool"},
		{"unknown host", "https://git.example.org/a/b.git", KindUnknown, "git.example.org", "a", "b"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseRemoteURL(tc.url)
			require.NoError(t, err)
			require.Equal(t, tc.kind, got.Kind)
			require.Equal(t, tc.host, got.Host)
			require.Equal(t, tc.owner, got.Owner)
			require.Equal(t, tc.repo, got.Name)
		})
	}
}

func TestParseRemoteURL_Invalid(t *testing.T) {
	for _, url := range []string{"", "just-words", "https://github.com/", "git@github.com:loner"} {
		_, err := ParseRemoteURL(url)
		require.Error(t, err, "url %q", url)
	}
}

func TestDetect_UsesOriginRemote(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	_, err = repo.CreateRemote(&gitcfg.RemoteConfig{
		Name: "origin",
		URLs: []string{"https://github.com/inful/setup-thing.git"},
	})
	require.NoError(t, err)

	got, err := Detect(dir)
	require.NoError(t, err)
	require.Equal(t, KindGitHub, got.Kind)
	require.Equal(t, "inful/setup-thing", got.Slug())
	require.Equal(t, "https://github.com/inful/setup-thing", got.HTTPURL())
}

func TestDetect_NoRepositoryIsError(t *testing.T) {
	_, err := Detect(t.TempDir())
	require.Error(t, err)
}

func TestDetect_EnvOverride(t *testing.T) {
	t.Setenv(EnvRepository, "acme/widget")

	got, err := Detect(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, "acme/widget", got.Slug())
	require.Equal(t, "acme/widget@main", got.UsesRef())
}

func TestDetect_BadEnvOverride(t *testing.T) {
	t.Setenv(EnvRepository, "not-a-slug")
	_, err := Detect(t.TempDir())
	require.Error(t, err)
}
