package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/actiondocs/internal/content"
)

func TestApplyEdits_SingleReplacement(t *testing.T) {
	src := content.FromString("See <!-- usage:start --> for details.\n")
	idx := src.Index("usage", 0)
	require.NotEqual(t, -1, idx)

	out, err := ApplyEdits(src, []Edit{{Start: idx, End: idx + len("usage"), Replacement: content.FromString("inputs")}})
	require.NoError(t, err)
	require.Equal(t, "See <!-- inputs:start --> for details.\n", out.String())
}

func TestApplyEdits_MultipleReplacements(t *testing.T) {
	src := content.FromString("A: old\nB: old\n")

	idx1 := src.Index("old", 0)
	idx2 := src.LastIndex("old")
	require.NotEqual(t, idx1, idx2)

	out, err := ApplyEdits(src, []Edit{
		{Start: idx1, End: idx1 + 3, Replacement: content.FromString("new")},
		{Start: idx2, End: idx2 + 3, Replacement: content.FromString("new")},
	})
	require.NoError(t, err)
	require.Equal(t, "A: new\nB: new\n", out.String())
}

func TestApplyEdits_Insertion(t *testing.T) {
	src := content.FromString("ab")

	out, err := ApplyEdits(src, []Edit{Insertion(1, content.FromString("X"))})
	require.NoError(t, err)
	require.Equal(t, "aXb", out.String())
}

func TestApplyEdits_RejectsOverlappingEdits(t *testing.T) {
	src := content.FromString("abcdef")
	_, err := ApplyEdits(src, []Edit{
		{Start: 1, End: 4, Replacement: content.FromString("X")},
		{Start: 3, End: 5, Replacement: content.FromString("Y")},
	})
	require.Error(t, err)
}

func TestApplyEdits_RejectsOutOfRange(t *testing.T) {
	src := content.FromString("abc")
	_, err := ApplyEdits(src, []Edit{{Start: 1, End: 9, Replacement: content.Empty}})
	require.Error(t, err)
}
