package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/actiondocs/internal/state"
)

type countingRebuilder struct {
	mu    sync.Mutex
	calls map[string]int
}

func newCountingRebuilder() *countingRebuilder {
	return &countingRebuilder{calls: map[string]int{}}
}

func (c *countingRebuilder) rebuild(_ context.Context, manifest string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[manifest]++
	return nil
}

func (c *countingRebuilder) count(manifest string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[manifest]
}

func writeManifest(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)

	_, err = New(Options{Manifests: []string{"action.yml"}})
	require.Error(t, err, "rebuild function is required")
}

func TestRun_InitialBuildCoversAllManifests(t *testing.T) {
	dir := t.TempDir()
	a := writeManifest(t, dir, "action.yml", "name: A\n")
	b := writeManifest(t, dir, "other.yml", "name: B\n")

	rec := newCountingRebuilder()
	w, err := New(Options{
		Manifests: []string{a, b},
		Rebuild:   rec.rebuild,
		Debounce:  10 * time.Millisecond,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool {
		return rec.count(a) == 1 && rec.count(b) == 1
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestRun_RebuildsOnChange(t *testing.T) {
	dir := t.TempDir()
	a := writeManifest(t, dir, "action.yml", "name: A\n")

	rec := newCountingRebuilder()
	w, err := New(Options{
		Manifests: []string{a},
		Rebuild:   rec.rebuild,
		Debounce:  10 * time.Millisecond,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	require.Eventually(t, func() bool { return rec.count(a) == 1 },
		2*time.Second, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(a, []byte("name: A2\n"), 0o644))

	require.Eventually(t, func() bool { return rec.count(a) >= 2 },
		2*time.Second, 20*time.Millisecond)
}

func TestRun_SkipsUnchangedManifests(t *testing.T) {
	dir := t.TempDir()
	a := writeManifest(t, dir, "action.yml", "name: A\n")

	store, err := state.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	rec := newCountingRebuilder()
	w, err := New(Options{
		Manifests: []string{a},
		Rebuild:   rec.rebuild,
		Store:     store,
		Debounce:  10 * time.Millisecond,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	require.Eventually(t, func() bool { return rec.count(a) == 1 },
		2*time.Second, 20*time.Millisecond)

	// Touch without changing content: fingerprint match suppresses the rebuild.
	require.NoError(t, os.WriteFile(a, []byte("name: A\n"), 0o644))
	time.Sleep(200 * time.Millisecond)
	require.Equal(t, 1, rec.count(a))
}

func TestRun_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeManifest(t, dir, "action.yml", "name: A\n")

	rec := newCountingRebuilder()
	w, err := New(Options{
		Manifests: []string{a},
		Rebuild:   rec.rebuild,
		Debounce:  10 * time.Millisecond,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	require.Eventually(t, func() bool { return rec.count(a) == 1 },
		2*time.Second, 20*time.Millisecond)

	writeManifest(t, dir, "notes.txt", "unrelated\n")
	time.Sleep(200 * time.Millisecond)
	require.Equal(t, 1, rec.count(a))
}
