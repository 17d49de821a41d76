package engine

import (
	"context"

	"github.com/kamusis/skilldex/internal/corpus"
	"github.com/kamusis/skilldex/internal/refstore"
	"github.com/kamusis/skilldex/internal/resolve"
)

// Result is the assembled answer to one query.
type Result struct {
	QueryID      string         `json:"query_id"`
	Query        string         `json:"query"`
	Modules      []ModuleResult `json:"modules"`
	ContentBytes int            `json:"content_bytes"`
}

// ModuleResult is one resolved module with its loaded reference documents
// and the keywords that drove the match.
type ModuleResult struct {
	ModuleID    string                   `json:"module_id"`
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Score       int                      `json:"score,omitempty"`
	Fallback    bool                     `json:"fallback,omitempty"`
	Matched     []resolve.MatchedKeyword `json:"matched_keywords,omitempty"`
	Documents   []refstore.Document      `json:"documents"`
	// Omitted lists reference paths dropped whole to honor the response
	// budget; a document is never truncated mid-body.
	Omitted []string `json:"omitted,omitempty"`
	// LoadErrors reports declared documents that could not be read. They
	// accompany the documents that did load; they never abort the request.
	LoadErrors []*refstore.LoadError `json:"load_errors,omitempty"`
}

// assemble composes the final payload for a ranked selection. The budget is
// spent on document content in rank order, then declaration order, using the
// byte sizes recorded at scan time; the first document that would overrun
// the budget stops document inclusion entirely, so output stays deterministic
// even when a later, smaller document would still have fit. Descriptions and
// match explanations are always included and not counted against the budget.
func assemble(ctx context.Context, snap *snapshot, queryID, query string, selected []resolve.Selection, maxBytes int) (*Result, error) {
	res := &Result{QueryID: queryID, Query: query}

	budget := int64(maxBytes)
	stopped := false
	for _, sel := range selected {
		mod, ok := snap.corpus.Module(sel.ModuleID)
		if !ok {
			continue
		}
		mr := ModuleResult{
			ModuleID:    mod.ID,
			Name:        mod.Name,
			Description: mod.Description,
			Score:       sel.Score,
			Fallback:    sel.Fallback,
			Matched:     sel.Matched,
		}

		var include []corpus.Reference
		for _, ref := range mod.References {
			if stopped || ref.Size > budget {
				stopped = true
				mr.Omitted = append(mr.Omitted, ref.Path)
				continue
			}
			budget -= ref.Size
			include = append(include, ref)
		}

		docs, loadErrs := snap.store.GetAll(ctx, include)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		mr.Documents = docs
		mr.LoadErrors = loadErrs
		for _, d := range docs {
			res.ContentBytes += len(d.Content)
		}
		res.Modules = append(res.Modules, mr)
	}
	return res, nil
}
