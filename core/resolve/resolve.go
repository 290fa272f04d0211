// Package resolve orchestrates a full citation resolution: it generates the
// retrieval predicates, fans the fetches out per (reference, version) slot,
// runs the range-then-fallback matching cascade, orders each slot, and hands
// the grid to the assembler.
//
// The pipeline stages themselves are pure; the only suspension points are the
// Fetcher calls, which the caller owns. Slots are independent: one slot's
// failure or empty result never blocks or invalidates its siblings.
package resolve

import (
	"context"
	"sync"

	"github.com/Silberengel/wikistr-sub007/core/citation"
	"github.com/Silberengel/wikistr-sub007/core/errors"
	"github.com/Silberengel/wikistr-sub007/core/match"
	"github.com/Silberengel/wikistr-sub007/core/order"
	"github.com/Silberengel/wikistr-sub007/core/passage"
	"github.com/Silberengel/wikistr-sub007/core/query"
	"github.com/Silberengel/wikistr-sub007/core/record"
)

// Fetcher is the retrieval collaborator boundary. Fetch executes one
// serialized predicate query and returns candidate records. FetchIndex
// locates the index record governing the order of a reference's records
// within a version; how it is addressed is the collaborator's concern.
type Fetcher interface {
	Fetch(ctx context.Context, query string) ([]record.Record, error)
	FetchIndex(ctx context.Context, ref citation.Reference, version string) (*record.Record, error)
}

// SlotError reports one failed (reference, version) slot.
type SlotError struct {
	Reference citation.Reference
	Version   string
	Err       error
}

// Result is a completed resolution: the assembled passages from every slot
// that succeeded, plus the slots that did not.
type Result struct {
	Passages   []passage.Passage
	Unresolved []SlotError
}

// Resolver resolves parsed citations against a Fetcher.
type Resolver struct {
	fetcher Fetcher
}

// New returns a Resolver using f for retrieval.
func New(f Fetcher) *Resolver {
	return &Resolver{fetcher: f}
}

// Resolve normalizes the citation, fetches and matches every slot
// concurrently, orders each slot's records, and assembles the final passage
// sequence. Failed slots are reported in Result.Unresolved; Resolve itself
// errors only on unusable input or a cancelled context.
func (rv *Resolver) Resolve(ctx context.Context, parsed *citation.ParsedCitation) (*Result, error) {
	if parsed == nil || len(parsed.References) == 0 {
		return nil, errors.NewValidation("citation", "no parsable references")
	}
	norm := parsed.Normalized()

	type slot struct {
		ref     int
		version string
		pred    query.Predicate
	}
	var slots []slot
	for i, ref := range norm.References {
		for _, v := range ref.Versions {
			slots = append(slots, slot{ref: i, version: v, pred: query.Build(ref, v)})
		}
	}

	records := make([][]record.Record, len(slots))
	errs := make([]error, len(slots))
	var wg sync.WaitGroup
	for i, s := range slots {
		wg.Add(1)
		go func(i int, s slot) {
			defer wg.Done()
			records[i], errs[i] = rv.resolveSlot(ctx, s.pred)
		}(i, s)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{}
	grid := make(map[passage.Slot][]record.Record, len(slots))
	for i, s := range slots {
		if errs[i] != nil {
			result.Unresolved = append(result.Unresolved, SlotError{
				Reference: norm.References[s.ref],
				Version:   s.version,
				Err:       errs[i],
			})
			continue
		}
		grid[passage.Slot{Ref: s.ref, Version: s.version}] =
			rv.orderSlot(ctx, s.pred, records[i])
	}

	result.Passages = passage.Assemble(norm.References, effectiveVersions(norm), grid)
	return result, nil
}

// resolveSlot runs the retrieval cascade for one predicate: the range query
// first; only after observing an empty range result, the individual-unit
// queries, matched and de-duplicated locally.
func (rv *Resolver) resolveSlot(ctx context.Context, p query.Predicate) ([]record.Record, error) {
	candidates, err := rv.fetcher.Fetch(ctx, p.RangeQuery())
	if err != nil {
		return nil, err
	}
	if p.Range == nil {
		return match.Base(p, candidates), nil
	}
	if ranged := match.Range(p, candidates); len(ranged) > 0 {
		return ranged, nil
	}
	var pool []record.Record
	for _, q := range p.UnitQueries() {
		recs, err := rv.fetcher.Fetch(ctx, q)
		if err != nil {
			return nil, err
		}
		pool = append(pool, recs...)
	}
	return match.Units(p, pool), nil
}

// orderSlot orders one slot's records, fetching the governing index record
// only when numeric ordering cannot apply. An index fetch failure or miss
// falls back silently to stable arrival order.
func (rv *Resolver) orderSlot(ctx context.Context, p query.Predicate, recs []record.Record) []record.Record {
	sections := p.Reference.Sections
	if !order.NeedsIndex(recs, sections) {
		return order.Order(recs, sections, nil)
	}
	var idx *record.Index
	if rec, err := rv.fetcher.FetchIndex(ctx, p.Reference, p.Version); err == nil && rec != nil {
		idx = record.NewIndex(rec)
	}
	return order.Order(recs, sections, idx)
}

// effectiveVersions picks the assembly's version-major iteration order: the
// citation-wide list when present, else the distinct per-reference versions
// in first-appearance order.
func effectiveVersions(pc *citation.ParsedCitation) []string {
	if len(pc.Versions) > 0 {
		return pc.Versions
	}
	var out []string
	seen := make(map[string]bool)
	for _, ref := range pc.References {
		for _, v := range ref.Versions {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out
}
