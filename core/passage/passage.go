// Package passage composes ordered records across references and versions
// into the final, flat, display-ordered sequence.
//
// Assembly order is version-major, reference-minor: the opposite grouping
// from query generation, which batches by reference for retrieval. Reading
// order groups all of one version together first.
package passage

import (
	"strconv"
	"strings"

	"github.com/Silberengel/wikistr-sub007/core/citation"
	"github.com/Silberengel/wikistr-sub007/core/record"
)

// Passage is one resolved (record, reference, version) triple.
type Passage struct {
	Record    record.Record
	Reference citation.Reference
	Version   string
	// Section is the record's section value relevant to the reference,
	// "" for chapter- and book-level records.
	Section string
	// Key is the unique display/link key assigned during assembly.
	Key string
}

// Slot addresses one (reference, version) cell of the resolution grid by the
// reference's position in the citation and the version name.
type Slot struct {
	Ref     int
	Version string
}

// Assemble flattens per-slot ordered records into display order: versions in
// declared order, references in declared order within each version, records
// in their already-established order within each slot. Every emitted passage
// gets a unique key; colliding keys are disambiguated with a "~n" suffix
// rather than dropped.
func Assemble(refs []citation.Reference, versions []string, slots map[Slot][]record.Record) []Passage {
	if len(versions) == 0 {
		versions = []string{citation.UnspecifiedVersion}
	}
	var out []Passage
	seen := make(map[string]int)
	for _, v := range versions {
		for i, ref := range refs {
			for _, rec := range slots[Slot{Ref: i, Version: v}] {
				p := Passage{
					Record:    rec,
					Reference: ref,
					Version:   v,
					Section:   sectionValue(&rec, ref.Sections),
				}
				p.Key = uniqueKey(seen, displayKey(&p))
				out = append(out, p)
			}
		}
	}
	return out
}

// displayKey derives the base display key from the passage's coordinates.
func displayKey(p *Passage) string {
	return strings.Join([]string{
		p.Reference.Collection,
		p.Reference.Title,
		p.Reference.Chapter,
		p.Section,
		p.Version,
	}, "/")
}

func uniqueKey(seen map[string]int, key string) string {
	seen[key]++
	if n := seen[key]; n > 1 {
		return key + "~" + strconv.Itoa(n)
	}
	return key
}

// sectionValue picks the record's section value relevant to the reference:
// its first section tag contained in the reference's expanded list, else its
// first section tag.
func sectionValue(r *record.Record, sections []string) string {
	values := r.Values(record.TagSection)
	if len(values) == 0 {
		return ""
	}
	wanted := make(map[string]bool, len(sections))
	for _, s := range sections {
		wanted[s] = true
	}
	for _, v := range values {
		if wanted[v] {
			return v
		}
	}
	return values[0]
}
