// Package match evaluates predicates against batches of candidate records.
// All functions are pure over their inputs.
package match

import (
	"github.com/Silberengel/wikistr-sub007/core/query"
	"github.com/Silberengel/wikistr-sub007/core/record"
)

// Match runs the full cascade for p against one candidate batch: base
// constraints plus the range alternative first; on an empty range result the
// individual-unit alternatives, de-duplicated by record id. A predicate
// without a section spec filters on the base constraints alone.
func Match(p query.Predicate, candidates []record.Record) []record.Record {
	if p.Range == nil {
		return Base(p, candidates)
	}
	if ranged := Range(p, candidates); len(ranged) > 0 {
		return ranged
	}
	return Units(p, candidates)
}

// Base returns the candidates satisfying every base constraint.
func Base(p query.Predicate, candidates []record.Record) []record.Record {
	var out []record.Record
	for _, r := range candidates {
		if satisfiesAll(&r, p.Base) {
			out = append(out, r)
		}
	}
	return out
}

// Range returns the candidates satisfying the base constraints plus the
// undivided range constraint. Nil when the predicate has no range.
func Range(p query.Predicate, candidates []record.Record) []record.Record {
	if p.Range == nil {
		return nil
	}
	var out []record.Record
	for _, r := range candidates {
		if satisfiesAll(&r, p.Base) && satisfies(&r, *p.Range) {
			out = append(out, r)
		}
	}
	return out
}

// Units returns the union over the individual-unit alternatives, testing each
// unit predicate in declaration order and de-duplicating by record identity:
// a record matching several units appears exactly once, at its first match.
func Units(p query.Predicate, candidates []record.Record) []record.Record {
	var out []record.Record
	seen := make(map[string]bool)
	for _, unit := range p.Units {
		for _, r := range candidates {
			if seen[r.ID] {
				continue
			}
			if satisfiesAll(&r, p.Base) && satisfies(&r, unit) {
				seen[r.ID] = true
				out = append(out, r)
			}
		}
	}
	return out
}

// satisfies reports whether any occurrence of the constraint's key carries
// the constraint's value. Keys are repeatable: a record spanning several
// sections satisfies a constraint on any one of them.
func satisfies(r *record.Record, c query.Constraint) bool {
	return r.Has(c.Key, c.Value)
}

func satisfiesAll(r *record.Record, cs []query.Constraint) bool {
	for _, c := range cs {
		if !satisfies(r, c) {
			return false
		}
	}
	return true
}
