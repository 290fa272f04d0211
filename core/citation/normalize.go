package citation

import (
	"strconv"
	"strings"
)

// Normalize canonicalizes a raw parsed reference: the title is case-folded,
// stripped of punctuation and resolved through the alias table; section range
// tokens are expanded; and the citation-wide version list is adopted when the
// reference names none of its own. Normalization is pure and best-effort: an
// unknown title or an inexpandable range passes through unchanged.
func Normalize(ref Reference, citationVersions []string) Reference {
	out := Reference{
		Collection:  strings.ToLower(strings.TrimSpace(ref.Collection)),
		Title:       CanonicalTitle(ref.Title),
		Chapter:     strings.ToLower(strings.TrimSpace(ref.Chapter)),
		Sections:    ExpandSections(ref.Sections),
		RawSections: ref.RawSections,
	}
	switch {
	case len(ref.Versions) > 0:
		out.Versions = append([]string(nil), ref.Versions...)
	case len(citationVersions) > 0:
		out.Versions = append([]string(nil), citationVersions...)
	default:
		out.Versions = []string{UnspecifiedVersion}
	}
	return out
}

// CanonicalTitle case-folds a title, strips surrounding quotes and trailing
// punctuation, and resolves it through the alias table. Misses return the
// cleaned title unchanged.
func CanonicalTitle(title string) string {
	t := strings.ToLower(strings.TrimSpace(title))
	t = strings.Trim(t, `"'`)
	t = strings.TrimRight(t, ".")
	t = strings.Join(strings.Fields(t), " ")
	if canonical, ok := titleAliases[t]; ok {
		return canonical
	}
	return t
}

// ExpandSections expands every section token in declaration order,
// concatenating the expansions. No sorting, no de-duplication: declared order
// survives into the result. Expansion is idempotent: an already expanded
// list expands to itself.
func ExpandSections(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	var out []string
	for _, tok := range tokens {
		out = append(out, ExpandRange(tok)...)
	}
	return out
}

// ExpandRange expands a "low-high" token with integer low <= high into the
// inclusive ascending sequence of section strings. Any other token (a bare
// unit, a symbolic section, a descending or non-integer range) comes back as
// a one-element sequence.
func ExpandRange(tok string) []string {
	dash := strings.IndexByte(tok, '-')
	if dash <= 0 || dash == len(tok)-1 || strings.IndexByte(tok[dash+1:], '-') >= 0 {
		return []string{tok}
	}
	low, err1 := strconv.Atoi(tok[:dash])
	high, err2 := strconv.Atoi(tok[dash+1:])
	if err1 != nil || err2 != nil || low < 0 || low > high {
		return []string{tok}
	}
	out := make([]string, 0, high-low+1)
	for n := low; n <= high; n++ {
		out = append(out, strconv.Itoa(n))
	}
	return out
}
