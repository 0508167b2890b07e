package docio

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/actiondocs/internal/content"
)

func TestFileResource_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "README.md")
	res := NewFile(path)

	require.False(t, res.Exists())

	got, err := res.Read(ctx)
	require.NoError(t, err)
	require.True(t, got.IsEmpty())

	require.NoError(t, res.ReplaceAll(ctx, content.FromString("# Title\n")))
	require.True(t, res.Exists())

	got, err = res.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, "# Title\n", got.String())
}

func TestFileResource_WriteAppends(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "doc.md")
	res := NewFile(path)

	require.NoError(t, res.Write(ctx, content.FromString("a\n")))
	require.NoError(t, res.Write(ctx, content.FromString("b\n")))

	got, err := res.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, "a\nb\n", got.String())
}

func TestFileResource_ReplaceAllLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	res := NewFile(filepath.Join(dir, "doc.md"))

	require.NoError(t, res.ReplaceAll(ctx, content.FromString("x")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "doc.md", entries[0].Name())
}

func TestMemResource(t *testing.T) {
	ctx := context.Background()
	res := NewMem("mem://doc")

	require.False(t, res.Exists())
	require.NoError(t, res.Write(ctx, content.FromString("one")))
	require.NoError(t, res.Write(ctx, content.FromString("two")))
	require.True(t, res.Exists())

	got, err := res.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, "onetwo", got.String())

	require.NoError(t, res.ReplaceAll(ctx, content.FromString("fresh")))
	got, err = res.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, "fresh", got.String())
}

func TestDiff_EmptyForEqualContent(t *testing.T) {
	c := content.FromString("same\n")
	require.Empty(t, Diff(c, c))
}

func TestDiff_ReportsChange(t *testing.T) {
	out := Diff(content.FromString("a\nb\n"), content.FromString("a\nc\n"))
	require.NotEmpty(t, out)
	require.Contains(t, out, "@@")
}
