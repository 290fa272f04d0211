// Package citation turns human-written citation text like "romans 3:4-6" or
// "[[book::bible | john 3:16 | kjv drb]]" into structured, canonicalized
// references ready for query generation.
package citation

// UnspecifiedVersion is the effective version of a reference that names no
// version and belongs to a citation that names none either. Predicates built
// for it carry no version constraint.
const UnspecifiedVersion = ""

// Reference is a single parsed reference within a citation. After
// Normalize, Title is canonical (lowercased, alias-resolved), Sections is the
// fully expanded ordered list of atomic section tokens, and RawSections keeps
// the undivided original section text for range-first matching.
type Reference struct {
	Collection  string
	Title       string
	Chapter     string
	Sections    []string
	RawSections string
	Versions    []string
}

// ParsedCitation is the result of parsing one citation body. Versions is the
// citation-wide version list; it is the fallback for any Reference that lacks
// its own.
type ParsedCitation struct {
	References []Reference
	Versions   []string
}

// Normalized returns a copy of the citation with every reference canonicalized
// and the citation-wide version list propagated.
func (pc *ParsedCitation) Normalized() *ParsedCitation {
	if pc == nil {
		return nil
	}
	out := &ParsedCitation{
		References: make([]Reference, len(pc.References)),
		Versions:   append([]string(nil), pc.Versions...),
	}
	for i, ref := range pc.References {
		out.References[i] = Normalize(ref, pc.Versions)
	}
	return out
}
