package refstore

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamusis/skilldex/internal/corpus"
)

func newTestStore(t *testing.T, files map[string]string) *Store {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		full := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return New(root, nil)
}

func TestGet_LoadsAndCaches(t *testing.T) {
	s := newTestStore(t, map[string]string{"net/net.md": "# Net\n"})

	doc, err := s.Get(context.Background(), "net/net.md")
	require.NoError(t, err)
	assert.Equal(t, "# Net\n", doc.Content)
	assert.Equal(t, int64(6), doc.Size)

	_, err = s.Get(context.Background(), "net/net.md")
	require.NoError(t, err)
	assert.EqualValues(t, 1, s.Reads(), "second hit is served from cache")
}

func TestGet_MissingFileIsLoadError(t *testing.T) {
	s := newTestStore(t, nil)

	_, err := s.Get(context.Background(), "gone.md")
	require.Error(t, err)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "gone.md", le.Path)
	// load errors are not cached: a restored file loads fine afterwards
	require.NoError(t, os.WriteFile(filepath.Join(s.root, "gone.md"), []byte("back"), 0o644))
	doc, err := s.Get(context.Background(), "gone.md")
	require.NoError(t, err)
	assert.Equal(t, "back", doc.Content)
}

func TestGet_ConcurrentCallersShareOneRead(t *testing.T) {
	s := newTestStore(t, map[string]string{"doc.md": "body"})

	// Block the underlying read until every caller is in flight.
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	realRead := s.readFile
	s.readFile = func(path string) ([]byte, error) {
		once.Do(func() { close(entered) })
		<-release
		return realRead(path)
	}

	const n = 16
	var wg sync.WaitGroup
	contents := make([]string, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc, err := s.Get(context.Background(), "doc.md")
			contents[i], errs[i] = doc.Content, err
		}()
	}

	<-entered
	close(release)
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "body", contents[i], "caller %d sees identical content", i)
	}
	assert.EqualValues(t, 1, s.Reads(), "exactly one underlying read")
}

func TestGet_AbandonedCallerDoesNotCorruptCache(t *testing.T) {
	s := newTestStore(t, map[string]string{"doc.md": "body"})

	entered := make(chan struct{})
	release := make(chan struct{})
	realRead := s.readFile
	s.readFile = func(path string) ([]byte, error) {
		close(entered)
		<-release
		return realRead(path)
	}

	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan error, 1)
	go func() {
		_, err := s.Get(ctx, "doc.md")
		got <- err
	}()

	<-entered
	cancel()
	require.ErrorIs(t, <-got, context.Canceled)

	// The in-flight load completes and populates the cache for later callers.
	close(release)
	doc, err := s.Get(context.Background(), "doc.md")
	require.NoError(t, err)
	assert.Equal(t, "body", doc.Content)
	assert.EqualValues(t, 1, s.Reads())
}

func TestGetAll_PartialFailureReturnsTheRest(t *testing.T) {
	s := newTestStore(t, map[string]string{
		"a.md": "A",
		"c.md": "C",
	})
	refs := []corpus.Reference{
		{Path: "a.md", Size: 1},
		{Path: "b.md", Size: 1}, // not on disk
		{Path: "c.md", Size: 1},
	}

	docs, loadErrs := s.GetAll(context.Background(), refs)
	require.Len(t, docs, 2)
	assert.Equal(t, "a.md", docs[0].Path, "declaration order preserved")
	assert.Equal(t, "c.md", docs[1].Path)
	require.Len(t, loadErrs, 1)
	assert.Equal(t, "b.md", loadErrs[0].Path)
	assert.ErrorIs(t, loadErrs[0].Err, os.ErrNotExist)
}
