package citation

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Grammar, informally:
//
//	"[[book::" citation "]]"  |  "book::" citation
//	citation           := [collectionAndTitle] [" | " versionSegment]
//	collectionAndTitle := [collection " | "] referenceList
//	referenceList      := reference (", " reference)*
//	reference          := title [" " chapter [":" sectionSpec]]
//	sectionSpec        := unitOrRange ("," unitOrRange)*
//	unitOrRange        := token | token "-" token
//
// Top-level " | " segmentation and the reference-list split on ", " are done
// by hand because both separators are multi-character and position-sensitive;
// each reference entry then goes through the participle grammar below. Range
// tokens ("4-6") are kept whole here and expanded by Normalize.
const marker = "book::"

// refEntry is the grammar for a single reference entry: title words (and an
// optional trailing chapter token) before the colon, section tokens after it.
type refEntry struct {
	Head  []string `@(Word | String)+`
	Units []string `( ":" @(Word | String) ( "," @(Word | String) )* )?`
}

var citationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"[^"]*"`},
	{Name: "Colon", Pattern: `:`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Word", Pattern: `[^\s:,]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var entryParser = participle.MustBuild[refEntry](
	participle.Lexer(citationLexer),
	participle.Elide("Whitespace"),
)

// Parse parses citation text into its structured form. It accepts both the
// bracketed inline form "[[book::...]]" and the bare form "book::...".
// Malformed input yields nil, never a panic or an error: unmatched brackets,
// a missing marker, an empty body, or a body in which no reference entry
// parses. Entries that fail to parse are dropped individually; sibling
// entries survive.
func Parse(text string) *ParsedCitation {
	body, ok := stripSurface(text)
	if !ok {
		return nil
	}

	collectionSeg, refsSeg, versionSeg, ok := segment(body)
	if !ok {
		return nil
	}

	pc := &ParsedCitation{}
	if versionSeg != "" {
		for _, v := range strings.Fields(versionSeg) {
			pc.Versions = append(pc.Versions, strings.ToLower(v))
		}
	}
	collection := strings.ToLower(strings.Trim(strings.TrimSpace(collectionSeg), `"`))

	for _, entry := range strings.Split(refsSeg, ", ") {
		ref, ok := parseEntry(entry)
		if !ok {
			continue
		}
		ref.Collection = collection
		pc.References = append(pc.References, ref)
	}
	if len(pc.References) == 0 {
		return nil
	}
	return pc
}

// stripSurface removes the surrounding brackets (when present) and the
// "book::" marker, returning the citation body.
func stripSurface(text string) (string, bool) {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "[[") {
		if !strings.HasSuffix(s, "]]") {
			return "", false
		}
		s = strings.TrimSpace(s[2 : len(s)-2])
	} else if strings.HasSuffix(s, "]]") {
		return "", false
	}
	if len(s) < len(marker) || !strings.EqualFold(s[:len(marker)], marker) {
		return "", false
	}
	body := strings.TrimSpace(s[len(marker):])
	if body == "" {
		return "", false
	}
	return body, true
}

// segment splits the body on " | " and decides which segments are the
// collection, the reference list and the version list. An empty trailing
// version segment ("john 3:16 | ") means "no version", not an error.
func segment(body string) (collection, refs, versions string, ok bool) {
	// A dangling trailing separator ("john 3:16 |", with or without trailing
	// whitespace) means "no version"; shed it before splitting so it cannot
	// stick to the last entry.
	body = strings.TrimSpace(body)
	for strings.HasSuffix(body, "|") {
		body = strings.TrimSpace(strings.TrimSuffix(body, "|"))
	}
	segs := strings.Split(body, " | ")
	// Drop empty trailing segments left by a dangling separator.
	for len(segs) > 0 && strings.TrimSpace(segs[len(segs)-1]) == "" {
		segs = segs[:len(segs)-1]
	}
	// Any remaining empty segment means a dangling or doubled separator.
	for _, s := range segs {
		if strings.TrimSpace(s) == "" {
			return "", "", "", false
		}
	}
	switch len(segs) {
	case 0:
		return "", "", "", false
	case 1:
		return "", segs[0], "", true
	case 2:
		// "a | b" is ambiguous: collection+references or references+versions.
		// Read it as references+versions only when the tail is a plausible
		// version list and the head carries reference structure; otherwise
		// the head is the collection.
		if looksLikeVersionList(segs[1]) && hasReferenceStructure(segs[0]) {
			return "", segs[0], segs[1], true
		}
		return segs[0], segs[1], "", true
	default:
		return segs[0], segs[1], strings.Join(segs[2:], " "), true
	}
}

// looksLikeVersionList reports whether seg is a plausible whitespace-separated
// version list: at least one token, none carrying section punctuation.
func looksLikeVersionList(seg string) bool {
	fields := strings.Fields(seg)
	if len(fields) == 0 {
		return false
	}
	for _, f := range fields {
		if strings.ContainsAny(f, ":,") {
			return false
		}
	}
	return true
}

// hasReferenceStructure reports whether seg looks like an actual reference
// list rather than a bare collection name: it mentions a chapter, a section
// spec, or a sibling entry.
func hasReferenceStructure(seg string) bool {
	return strings.ContainsAny(seg, ":,0123456789")
}

// parseEntry parses one reference entry via the grammar and resolves the
// title/chapter split: with a section spec present the chapter is the last
// head token; without one, a trailing integer token is read as a chapter.
func parseEntry(entry string) (Reference, bool) {
	entry = strings.TrimSpace(entry)
	// A stray pipe means the segment split already went wrong for this entry.
	if entry == "" || strings.ContainsRune(entry, '|') {
		return Reference{}, false
	}
	parsed, err := entryParser.ParseString("", entry)
	if err != nil || len(parsed.Head) == 0 {
		return Reference{}, false
	}

	head := make([]string, len(parsed.Head))
	for i, tok := range parsed.Head {
		head[i] = strings.Trim(tok, `"`)
	}

	ref := Reference{}
	switch {
	case len(parsed.Units) > 0:
		// A section spec requires a chapter before the colon.
		if len(head) < 2 {
			return Reference{}, false
		}
		ref.Chapter = head[len(head)-1]
		ref.Title = strings.Join(head[:len(head)-1], " ")
	case len(head) >= 2 && isInteger(head[len(head)-1]):
		ref.Chapter = head[len(head)-1]
		ref.Title = strings.Join(head[:len(head)-1], " ")
	default:
		ref.Title = strings.Join(head, " ")
	}
	if ref.Title == "" {
		return Reference{}, false
	}

	if len(parsed.Units) > 0 {
		units := make([]string, len(parsed.Units))
		for i, u := range parsed.Units {
			units[i] = strings.Trim(u, `"`)
		}
		ref.Sections = units
		ref.RawSections = strings.Join(units, ",")
	}
	return ref, true
}

func isInteger(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
