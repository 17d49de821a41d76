// Package refstore loads reference document bodies lazily and caches them
// for the lifetime of the process. Documents are immutable once a corpus is
// published, so cache entries are never invalidated.
package refstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/kamusis/skilldex/internal/corpus"
)

// Document is one loaded reference document body.
type Document struct {
	Path    string `json:"path"` // corpus-relative, slash-separated
	Content string `json:"content"`
	Size    int64  `json:"size"`
}

// LoadError marks one declared document that could not be read. It is
// recoverable: the rest of the module's documents are still served.
type LoadError struct {
	Path string `json:"path"`
	Err  error  `json:"-"`
}

// MarshalJSON renders the error cause as text for machine-readable output.
func (e *LoadError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Path  string `json:"path"`
		Error string `json:"error"`
	}{Path: e.Path, Error: e.Err.Error()})
}

func (e *LoadError) Error() string { return fmt.Sprintf("cannot load %s: %v", e.Path, e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }

// Store is the process-wide document cache. The first request for a path
// performs the read; concurrent requests for the same path while that read
// is in flight block and share its result (at-most-once-load). Distinct
// paths load fully in parallel.
type Store struct {
	root   string
	logger *zap.Logger

	group singleflight.Group
	mu    sync.RWMutex
	docs  map[string]Document

	reads atomic.Int64

	// readFile is swapped in tests to observe and block loads.
	readFile func(string) ([]byte, error)
}

// New creates a store serving documents under the given corpus root.
func New(root string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		root:     root,
		logger:   logger,
		docs:     make(map[string]Document),
		readFile: os.ReadFile,
	}
}

// Get returns the document at the corpus-relative path, loading it on first
// use. If ctx is cancelled while a load is in flight, Get returns the
// context error but the load itself completes and populates the cache for
// later callers — an abandoned query never corrupts shared state.
func (s *Store) Get(ctx context.Context, relPath string) (Document, error) {
	s.mu.RLock()
	doc, ok := s.docs[relPath]
	s.mu.RUnlock()
	if ok {
		return doc, nil
	}

	ch := s.group.DoChan(relPath, func() (any, error) {
		return s.load(relPath)
	})
	select {
	case <-ctx.Done():
		return Document{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Document{}, res.Err
		}
		return res.Val.(Document), nil
	}
}

func (s *Store) load(relPath string) (Document, error) {
	// A racing caller may have populated the cache between the fast path
	// and singleflight admission.
	s.mu.RLock()
	doc, ok := s.docs[relPath]
	s.mu.RUnlock()
	if ok {
		return doc, nil
	}

	s.reads.Add(1)
	b, err := s.readFile(filepath.Join(s.root, filepath.FromSlash(relPath)))
	if err != nil {
		s.logger.Warn("document load failed", zap.String("path", relPath), zap.Error(err))
		return Document{}, &LoadError{Path: relPath, Err: err}
	}
	doc = Document{Path: relPath, Content: string(b), Size: int64(len(b))}

	s.mu.Lock()
	s.docs[relPath] = doc
	s.mu.Unlock()
	return doc, nil
}

// GetAll loads a set of declared references concurrently and returns the
// successfully loaded documents in declaration order, plus one LoadError per
// document that could not be read. A missing file never fails the whole
// request.
func (s *Store) GetAll(ctx context.Context, refs []corpus.Reference) ([]Document, []*LoadError) {
	docs := make([]*Document, len(refs))
	errs := make([]*LoadError, len(refs))

	g, ctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			d, err := s.Get(ctx, ref.Path)
			if err != nil {
				var le *LoadError
				if !errors.As(err, &le) {
					le = &LoadError{Path: ref.Path, Err: err}
				}
				errs[i] = le
				return nil
			}
			docs[i] = &d
			return nil
		})
	}
	_ = g.Wait()

	out := make([]Document, 0, len(refs))
	var loadErrs []*LoadError
	for i := range refs {
		if docs[i] != nil {
			out = append(out, *docs[i])
		}
		if errs[i] != nil {
			loadErrs = append(loadErrs, errs[i])
		}
	}
	return out, loadErrs
}

// Reads returns the number of underlying file reads performed so far.
// Diagnostic; the at-most-once-load tests assert on it.
func (s *Store) Reads() int64 { return s.reads.Load() }
