package verify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/actiondocs/internal/content"
	"git.home.luguber.info/inful/actiondocs/internal/markdown"
)

const cleanDoc = `<!-- header:start -->

# Setup Thing

<!-- header:end -->
<!-- inputs:start -->

| Name | Description |
| ---- | ----------- |
| a    | b           |

<!-- inputs:end -->
`

func TestDocument_Clean(t *testing.T) {
	require.Empty(t, Document(content.FromString(cleanDoc)))
}

func TestDocument_UnclosedSection(t *testing.T) {
	doc := "<!-- header:start -->\n\nbody\n"
	issues := Document(content.FromString(doc))
	require.NotEmpty(t, issues)
	require.Contains(t, issues[0].String(), "never closed")
}

func TestDocument_EndWithoutStart(t *testing.T) {
	doc := "body\n\n<!-- inputs:end -->\n"
	issues := Document(content.FromString(doc))
	require.NotEmpty(t, issues)
	require.Contains(t, issues[0].String(), "without a matching start")
}

func TestDocument_NestedSections(t *testing.T) {
	doc := "<!-- header:start -->\n<!-- inputs:start -->\n<!-- inputs:end -->\n<!-- header:end -->\n"
	issues := Document(content.FromString(doc))
	require.NotEmpty(t, issues)
}

func TestDocument_DuplicateSection(t *testing.T) {
	doc := "<!-- inputs:start -->\n<!-- inputs:end -->\n<!-- inputs:start -->\n<!-- inputs:end -->\n"
	issues := Document(content.FromString(doc))
	require.NotEmpty(t, issues)
	require.Contains(t, issues[0].String(), "more than once")
}

func TestDocument_NonCanonicalMarkersIgnored(t *testing.T) {
	doc := "<!-- changelog:start -->\n\ntext\n"
	require.Empty(t, Document(content.FromString(doc)))
}

func TestDocument_MarkerInsideFence(t *testing.T) {
	doc := "<!-- usage:start -->\n\n```text\n<!-- usage:end -->\n```\n"
	issues := Document(content.FromString(doc))
	require.NotEmpty(t, issues)
}

func TestDocument_PreBlockRoundTrips(t *testing.T) {
	cell := markdown.HTMLFallback(content.FromString("echo `hi`\nnext <line>"), "bash")
	doc := "| Out |\n| --- |\n| " + cell.String() + " |\n"
	require.Empty(t, Document(content.FromString(doc)))
}

func TestDocument_PreBlockWithRawElement(t *testing.T) {
	doc := `<pre lang="bash">run <script>x</script></pre>` + "\n"
	issues := Document(content.FromString(doc))
	require.NotEmpty(t, issues)
}

func TestDocument_EmptyLinkDestination(t *testing.T) {
	issues := Document(content.FromString("See [broken]().\n"))
	require.NotEmpty(t, issues)
	require.Contains(t, issues[0].String(), "empty")
}

func TestDocument_UnexpectedLinkScheme(t *testing.T) {
	issues := Document(content.FromString("See [files](ftp://host/path).\n"))
	require.NotEmpty(t, issues)
	require.Contains(t, issues[0].String(), "scheme")
}

func TestError_NilForClean(t *testing.T) {
	require.NoError(t, Error(nil))
	require.Error(t, Error([]Issue{{Check: "markers", Message: "bad"}}))
}
