// Package record defines the immutable, signed, tagged document model that the
// resolution pipeline consumes. Records are produced by external publishers and
// are never mutated after creation; everything here is read-only access.
package record

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/zeebo/blake3"
)

// Tag keys consumed by the resolver. Keys are repeatable: a record spanning
// several sections carries one "s" tag per section.
const (
	TagCollection   = "C"
	TagTitle        = "T"
	TagChapter      = "c"
	TagSection      = "s"
	TagVersion      = "v"
	TagSlug         = "d"
	TagIDPointer    = "e"
	TagCoordPointer = "a"
)

// Tag is a single (key, value) pair. Declaration order is significant and is
// preserved by every accessor.
type Tag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Record is an immutable signed document. The Sig field is carried opaquely;
// integrity here is checked against the content-derived ID (see Verify).
type Record struct {
	ID        string
	Author    string
	Kind      int
	CreatedAt int64
	Tags      []Tag
	Content   string
	Sig       string
}

// Values returns every value carried for key, in declaration order.
func (r *Record) Values(key string) []string {
	var out []string
	for _, t := range r.Tags {
		if t.Key == key {
			out = append(out, t.Value)
		}
	}
	return out
}

// First returns the first value carried for key.
func (r *Record) First(key string) (string, bool) {
	for _, t := range r.Tags {
		if t.Key == key {
			return t.Value, true
		}
	}
	return "", false
}

// Has reports whether any occurrence of key carries value.
func (r *Record) Has(key, value string) bool {
	for _, t := range r.Tags {
		if t.Key == key && t.Value == value {
			return true
		}
	}
	return false
}

// Slug returns the record's "d" tag, or "" when it has none.
func (r *Record) Slug() string {
	v, _ := r.First(TagSlug)
	return v
}

// Coordinate returns the record's own address triple.
func (r *Record) Coordinate() Coordinate {
	return Coordinate{Kind: r.Kind, Author: r.Author, Slug: r.Slug()}
}

// ComputeID returns the canonical content hash of r: the hex BLAKE3-256 digest
// of the JSON array [author, created_at, kind, tags, content]. The ID field and
// signature are excluded from the digest.
func ComputeID(r *Record) string {
	tags := make([][2]string, len(r.Tags))
	for i, t := range r.Tags {
		tags[i] = [2]string{t.Key, t.Value}
	}
	payload, err := json.Marshal([]any{r.Author, r.CreatedAt, r.Kind, tags, r.Content})
	if err != nil {
		// Only unmarshalable values can fail here, and the payload is all
		// strings and integers.
		panic(fmt.Sprintf("record: marshal id payload: %v", err))
	}
	sum := blake3.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// Verify reports whether the record's ID matches its content.
func (r *Record) Verify() bool {
	return r.ID == ComputeID(r)
}

// Coordinate addresses a record by (kind, author, slug) instead of by id.
// The wire form is "kind:author:slug".
type Coordinate struct {
	Kind   int
	Author string
	Slug   string
}

// ParseCoordinate parses the "kind:author:slug" form used by "a" tags.
// The slug part may itself contain colons.
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 {
		return Coordinate{}, fmt.Errorf("record: coordinate %q: want kind:author:slug", s)
	}
	kind, err := strconv.Atoi(parts[0])
	if err != nil {
		return Coordinate{}, fmt.Errorf("record: coordinate %q: bad kind: %w", s, err)
	}
	return Coordinate{Kind: kind, Author: parts[1], Slug: parts[2]}, nil
}

// String returns the wire form of the coordinate.
func (c Coordinate) String() string {
	return strconv.Itoa(c.Kind) + ":" + c.Author + ":" + c.Slug
}
