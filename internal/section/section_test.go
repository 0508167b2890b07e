package section

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/actiondocs/internal/content"
	"git.home.luguber.info/inful/actiondocs/internal/docio"
)

func TestAll_CanonicalOrderIsTotal(t *testing.T) {
	ids := All()
	require.Len(t, ids, 12)
	require.Equal(t, Header, ids[0])
	require.Equal(t, Generated, ids[len(ids)-1])

	seen := map[Identifier]bool{}
	for i, id := range ids {
		require.False(t, seen[id])
		seen[id] = true
		require.Equal(t, i, Rank(id))
	}
}

func TestValid(t *testing.T) {
	require.True(t, Valid(Inputs))
	require.False(t, Valid(Identifier("bogus")))
	require.Equal(t, -1, Rank(Identifier("bogus")))
}

func TestMarkers(t *testing.T) {
	require.Equal(t, "<!-- inputs:start -->", Start(Inputs))
	require.Equal(t, "<!-- inputs:end -->", End(Inputs))

	m := MarkerPattern.FindStringSubmatch("<!-- license:end -->")
	require.NotNil(t, m)
	require.Equal(t, "license", m[1])
	require.Equal(t, "end", m[2])
}

func TestRender(t *testing.T) {
	got := Render(Usage, content.FromString("  use it\n")).String()
	require.Equal(t, "<!-- usage:start -->\n\nuse it\n\n<!-- usage:end -->\n", got)
}

func TestRender_EmptyBody(t *testing.T) {
	got := Render(License, content.Empty).String()
	require.Equal(t, "<!-- license:start -->\n\n<!-- license:end -->\n", got)
}

func TestReplace_AppendsWhenMarkerAbsent(t *testing.T) {
	doc := content.FromString("# Title\n\nIntro text.\n")

	got := Replace(doc, Inputs, content.FromString("table")).String()
	require.Equal(t,
		"# Title\n\nIntro text.\n<!-- inputs:start -->\n\ntable\n\n<!-- inputs:end -->\n",
		got)
}

func TestReplace_ReplacesExistingSpan(t *testing.T) {
	doc := content.FromString(
		"before\n<!-- inputs:start -->\n\nold\n\n<!-- inputs:end -->\nafter\n")

	got := Replace(doc, Inputs, content.FromString("new")).String()
	require.Equal(t,
		"before\n<!-- inputs:start -->\n\nnew\n\n<!-- inputs:end -->\nafter\n",
		got)
}

func TestReplace_IsIdempotent(t *testing.T) {
	doc := content.FromString("# Doc\n")
	body := content.FromString("| Name | Age |\n| ---- | --- |")

	once := Replace(doc, Inputs, body)
	twice := Replace(once, Inputs, body)
	require.Equal(t, once.String(), twice.String())
}

func TestReplace_MarkerMatchTrimsWhitespaceOnly(t *testing.T) {
	doc := content.FromString("  <!-- usage:start -->  \nold\n<!-- usage:end -->\n")

	got := Replace(doc, Usage, content.FromString("new")).String()
	require.Contains(t, got, "new")
	require.NotContains(t, got, "old")
}

func TestReplace_OtherSectionsUntouched(t *testing.T) {
	doc := content.FromString(
		"<!-- usage:start -->\n\nusage body\n\n<!-- usage:end -->\n" +
			"<!-- inputs:start -->\n\nold inputs\n\n<!-- inputs:end -->\n")

	got := Replace(doc, Inputs, content.FromString("new inputs")).String()
	require.Contains(t, got, "usage body")
	require.Contains(t, got, "new inputs")
	require.NotContains(t, got, "old inputs")
}

func TestWriter_WritesThroughResource(t *testing.T) {
	ctx := context.Background()
	w := NewWriter()
	res := docio.NewMemWith("mem://readme", content.FromString("# Hi\n"))

	require.NoError(t, w.Write(ctx, res, Usage, content.FromString("run it")))

	got, err := res.Read(ctx)
	require.NoError(t, err)
	require.Contains(t, got.String(), "<!-- usage:start -->")
	require.Contains(t, got.String(), "run it")
}

func TestWriter_ConcurrentWritesToOneDestinationSerialize(t *testing.T) {
	ctx := context.Background()
	w := NewWriter()
	res := docio.NewMem("mem://shared")

	ids := All()
	var wg sync.WaitGroup
	for i := 0; i < len(ids); i++ {
		wg.Add(1)
		go func(id Identifier, n int) {
			defer wg.Done()
			err := w.Write(ctx, res, id, content.FromString(fmt.Sprintf("body %d", n)))
			require.NoError(t, err)
		}(ids[i], i)
	}
	wg.Wait()

	got, err := res.Read(ctx)
	require.NoError(t, err)
	// Every section must have survived the concurrent writes intact.
	for _, id := range ids {
		require.Contains(t, got.String(), Start(id))
		require.Contains(t, got.String(), End(id))
	}
}

func TestLockRegistry_DistinctNamesDoNotContend(t *testing.T) {
	r := NewLockRegistry()

	releaseA := r.Acquire("a")
	done := make(chan struct{})
	go func() {
		releaseB := r.Acquire("b")
		releaseB()
		close(done)
	}()
	<-done // must complete while "a" is still held
	releaseA()
}
