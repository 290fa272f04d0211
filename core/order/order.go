// Package order sorts matched records for one reference within one version.
//
// The common case is numeric: when every record's relevant section value is a
// pure non-negative integer string, records sort ascending by that value.
// Otherwise ordering defers to an index record's pointer lists, and records
// the index does not resolve keep their arrival order after the resolved
// ones. With neither numbers nor an index, arrival order stands.
package order

import (
	"sort"
	"strconv"

	"github.com/Silberengel/wikistr-sub007/core/record"
)

// Order returns the records ordered for display. sections is the reference's
// expanded section list; it picks the relevant section value for records that
// carry several. idx may be nil. The input slice is not modified.
func Order(records []record.Record, sections []string, idx *record.Index) []record.Record {
	if len(records) < 2 {
		return append([]record.Record(nil), records...)
	}

	keys := relevantValues(records, sections)
	// Sort a permutation so the key slice stays aligned with the records.
	perm := make([]int, len(records))
	for i := range perm {
		perm[i] = i
	}

	if allNumeric(keys) {
		sort.SliceStable(perm, func(i, j int) bool {
			a, _ := strconv.Atoi(keys[perm[i]])
			b, _ := strconv.Atoi(keys[perm[j]])
			return a < b
		})
		return applyPerm(records, perm)
	}

	if idx == nil {
		return append([]record.Record(nil), records...)
	}

	ranks := make([]int, len(records))
	resolved := make([]bool, len(records))
	any := false
	for i := range records {
		ranks[i], resolved[i] = idx.Rank(&records[i])
		any = any || resolved[i]
	}
	if !any {
		return append([]record.Record(nil), records...)
	}
	sort.SliceStable(perm, func(i, j int) bool {
		ri, rj := resolved[perm[i]], resolved[perm[j]]
		switch {
		case ri && rj:
			return ranks[perm[i]] < ranks[perm[j]]
		case ri:
			return true
		case rj:
			return false
		default:
			// Both unresolved: stable sort keeps arrival order.
			return false
		}
	})
	return applyPerm(records, perm)
}

// NeedsIndex reports whether ordering these records requires an index record:
// true when any relevant section value is non-numeric.
func NeedsIndex(records []record.Record, sections []string) bool {
	if len(records) < 2 {
		return false
	}
	return !allNumeric(relevantValues(records, sections))
}

// relevantValues picks each record's ordering value: its first section tag
// contained in the reference's expanded section list, else its first section
// tag, else "".
func relevantValues(records []record.Record, sections []string) []string {
	wanted := make(map[string]bool, len(sections))
	for _, s := range sections {
		wanted[s] = true
	}
	out := make([]string, len(records))
	for i := range records {
		values := records[i].Values(record.TagSection)
		if len(values) == 0 {
			continue
		}
		out[i] = values[0]
		if len(wanted) > 0 {
			for _, v := range values {
				if wanted[v] {
					out[i] = v
					break
				}
			}
		}
	}
	return out
}

func allNumeric(values []string) bool {
	for _, v := range values {
		if v == "" {
			return false
		}
		for _, c := range v {
			if c < '0' || c > '9' {
				return false
			}
		}
	}
	return true
}

func applyPerm(records []record.Record, perm []int) []record.Record {
	out := make([]record.Record, len(records))
	for i, p := range perm {
		out[i] = records[p]
	}
	return out
}
