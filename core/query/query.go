// Package query turns normalized references into retrieval predicates: the
// ordered tag constraints a record must satisfy to answer a reference, and
// their serialized form at the search boundary.
package query

import (
	"strings"

	"github.com/Silberengel/wikistr-sub007/core/citation"
	"github.com/Silberengel/wikistr-sub007/core/record"
)

// Constraint is one required (key, value) tag constraint, keyed by the record
// tag schema.
type Constraint struct {
	Key   string
	Value string
}

// Predicate is the full constraint set for one (reference, version) pair.
// Base always holds the collection/title/chapter (and version) constraints.
// When the reference carries a section spec, Range holds the original
// undivided range text and Units one constraint per expanded atomic token;
// the matcher tries Range first and falls back to Units.
type Predicate struct {
	Reference citation.Reference
	Version   string
	Base      []Constraint
	Range     *Constraint
	Units     []Constraint
}

// Generate cross-products references and their effective versions into
// retrieval order: reference-major, version-minor. For each reference in
// declared order it emits one predicate per version in declared order.
func Generate(refs []citation.Reference) []Predicate {
	var out []Predicate
	for _, ref := range refs {
		versions := ref.Versions
		if len(versions) == 0 {
			versions = []string{citation.UnspecifiedVersion}
		}
		for _, v := range versions {
			out = append(out, Build(ref, v))
		}
	}
	return out
}

// Build constructs the predicate for a single (reference, version) pair.
func Build(ref citation.Reference, version string) Predicate {
	p := Predicate{Reference: ref, Version: version}
	if ref.Collection != "" {
		p.Base = append(p.Base, Constraint{record.TagCollection, ref.Collection})
	}
	p.Base = append(p.Base, Constraint{record.TagTitle, ref.Title})
	if ref.Chapter != "" {
		p.Base = append(p.Base, Constraint{record.TagChapter, ref.Chapter})
	}
	if version != citation.UnspecifiedVersion {
		p.Base = append(p.Base, Constraint{record.TagVersion, version})
	}
	if ref.RawSections != "" {
		p.Range = &Constraint{record.TagSection, ref.RawSections}
		for _, s := range ref.Sections {
			p.Units = append(p.Units, Constraint{record.TagSection, s})
		}
	}
	return p
}

// boundaryNames maps tag-schema keys to the names used in serialized queries.
// The search collaborator consumes the serialized form opaquely.
var boundaryNames = map[string]string{
	record.TagCollection: "type",
	record.TagTitle:      "title",
	record.TagChapter:    "chapter",
	record.TagSection:    "section",
	record.TagVersion:    "version",
}

// String serializes the predicate with its range constraint (when present) as
// a space-joined sequence of name:value tokens, e.g.
// "type:bible title:john chapter:3 section:16 version:kjv".
func (p Predicate) String() string {
	return p.serialize(p.Range)
}

// RangeQuery is the serialized range alternative. Without a section spec it
// degenerates to the base query.
func (p Predicate) RangeQuery() string {
	return p.serialize(p.Range)
}

// BaseQuery is the serialized base constraints alone, without any section.
// Collaborators use it to address chapter-level resources such as the
// governing index record.
func (p Predicate) BaseQuery() string {
	return p.serialize(nil)
}

// UnitQueries returns the serialized individual-unit alternatives, one per
// expanded section token, in declaration order.
func (p Predicate) UnitQueries() []string {
	if len(p.Units) == 0 {
		return nil
	}
	out := make([]string, len(p.Units))
	for i := range p.Units {
		out[i] = p.serialize(&p.Units[i])
	}
	return out
}

// serialize emits base constraints plus the given section constraint in the
// boundary's canonical order: type, title, chapter, section, version.
func (p Predicate) serialize(section *Constraint) string {
	var sb strings.Builder
	emit := func(c Constraint) {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(boundaryNames[c.Key])
		sb.WriteByte(':')
		sb.WriteString(c.Value)
	}
	var version *Constraint
	for i, c := range p.Base {
		if c.Key == record.TagVersion {
			version = &p.Base[i]
			continue
		}
		emit(c)
	}
	if section != nil {
		emit(*section)
	}
	if version != nil {
		emit(*version)
	}
	return sb.String()
}
