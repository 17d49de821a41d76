// Package engine ties the pipeline together: corpus metadata → trigger
// index → query matching → module resolution → document loading → bounded
// response assembly.
package engine

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kamusis/skilldex/internal/corpus"
	"github.com/kamusis/skilldex/internal/refstore"
	"github.com/kamusis/skilldex/internal/resolve"
	"github.com/kamusis/skilldex/internal/trigger"
)

// DefaultMaxResponseBytes bounds the total document content in one response.
const DefaultMaxResponseBytes = 48 << 10

// Options configures an Engine.
type Options struct {
	// MaxResponseBytes caps the total document content per response;
	// zero means DefaultMaxResponseBytes.
	MaxResponseBytes int
	// Limit caps the number of keyword-selected modules per response;
	// zero means unlimited. The root fallback is exempt.
	Limit int
	// Excludes overrides the loader's skipped directory names.
	Excludes []string
	// Logger receives structured engine logs; nil means no logging.
	Logger *zap.Logger
}

// Engine answers free-text queries against one loaded corpus. The corpus,
// index and document cache live in an immutable snapshot; Resolve only reads
// it, so any number of queries may run concurrently. Reload builds a fresh
// snapshot and swaps the pointer — the old index is never mutated in place.
type Engine struct {
	path string
	opts Options
	log  *zap.Logger

	mu   sync.RWMutex
	snap *snapshot
}

type snapshot struct {
	corpus *corpus.Corpus
	index  *trigger.Index
	store  *refstore.Store
}

// New loads the corpus at path and builds its trigger index.
func New(path string, opts Options) (*Engine, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.MaxResponseBytes <= 0 {
		opts.MaxResponseBytes = DefaultMaxResponseBytes
	}
	e := &Engine{path: path, opts: opts, log: opts.Logger}
	if err := e.Reload(); err != nil {
		return nil, err
	}
	return e, nil
}

// Reload rescans the corpus and atomically swaps in a fresh snapshot.
// In-flight queries keep using the snapshot they started with. The document
// cache is rebuilt too: a new corpus version may carry new document bytes.
func (e *Engine) Reload() error {
	c, err := corpus.Load(e.path, corpus.LoadOptions{
		Excludes: e.opts.Excludes,
		Logger:   e.log,
	})
	if err != nil {
		return err
	}
	snap := &snapshot{
		corpus: c,
		index:  trigger.Build(c),
		store:  refstore.New(c.Root, e.log),
	}
	e.mu.Lock()
	e.snap = snap
	e.mu.Unlock()
	e.log.Info("trigger index built",
		zap.Int("modules", len(c.Modules)),
		zap.Int("keywords", snap.index.Len()))
	return nil
}

func (e *Engine) snapshot() *snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap
}

// Corpus returns the currently loaded corpus metadata.
func (e *Engine) Corpus() *corpus.Corpus { return e.snapshot().corpus }

// Warnings returns the integrity warnings recorded during the last load.
func (e *Engine) Warnings() []corpus.Warning { return e.snapshot().corpus.Warnings }

// IndexedKeywords returns the number of distinct indexed trigger keywords.
func (e *Engine) IndexedKeywords() int { return e.snapshot().index.Len() }

// Resolve answers one query: match, rank, load documents, assemble. The
// result is always non-empty — a query matching nothing resolves to the root
// module. The only returned error is ctx cancellation; per-document load
// failures are reported inside the result, next to the documents that did
// load.
func (e *Engine) Resolve(ctx context.Context, query string) (*Result, error) {
	snap := e.snapshot()
	queryID := uuid.NewString()

	matches := resolve.Match(snap.index, query)
	selected := resolve.Rank(matches, snap.corpus.RootID, e.opts.Limit)

	res, err := assemble(ctx, snap, queryID, query, selected, e.opts.MaxResponseBytes)
	if err != nil {
		return nil, err
	}
	e.log.Info("query resolved",
		zap.String("query_id", queryID),
		zap.String("query", query),
		zap.Int("modules", len(res.Modules)),
		zap.Int("content_bytes", res.ContentBytes))
	return res, nil
}
