package record

import (
	"encoding/json"
	"testing"
)

func testRecord() Record {
	r := Record{
		Author:    "npub-author",
		Kind:      30041,
		CreatedAt: 1700000000,
		Tags: []Tag{
			{Key: TagCollection, Value: "bible"},
			{Key: TagTitle, Value: "romans"},
			{Key: TagChapter, Value: "3"},
			{Key: TagSection, Value: "4"},
			{Key: TagSection, Value: "5"},
			{Key: TagVersion, Value: "kjv"},
			{Key: TagSlug, Value: "romans-3-4"},
		},
		Content: "What if some did not believe?",
	}
	r.ID = ComputeID(&r)
	return r
}

func TestValuesPreservesOrderAndRepetition(t *testing.T) {
	r := testRecord()
	got := r.Values(TagSection)
	want := []string{"4", "5"}
	if len(got) != len(want) {
		t.Fatalf("Values(s) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Values(s)[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFirst(t *testing.T) {
	r := testRecord()
	if v, ok := r.First(TagSection); !ok || v != "4" {
		t.Errorf("First(s) = %q, %v; want %q, true", v, ok, "4")
	}
	if _, ok := r.First("missing"); ok {
		t.Error("First(missing) reported a value")
	}
}

func TestHasMatchesAnyOccurrence(t *testing.T) {
	r := testRecord()
	if !r.Has(TagSection, "5") {
		t.Error("Has(s, 5) = false, want true")
	}
	if r.Has(TagSection, "6") {
		t.Error("Has(s, 6) = true, want false")
	}
}

func TestComputeIDAndVerify(t *testing.T) {
	r := testRecord()
	if !r.Verify() {
		t.Fatal("Verify() = false for freshly computed id")
	}
	tampered := r
	tampered.Content += "!"
	if tampered.Verify() {
		t.Error("Verify() = true after content change")
	}
	// The id is a function of content, not of the id or signature fields.
	signed := r
	signed.Sig = "deadbeef"
	if ComputeID(&signed) != r.ID {
		t.Error("ComputeID changed when only the signature changed")
	}
}

func TestCoordinateRoundTrip(t *testing.T) {
	c := Coordinate{Kind: 30040, Author: "pk", Slug: "romans-3"}
	parsed, err := ParseCoordinate(c.String())
	if err != nil {
		t.Fatalf("ParseCoordinate: %v", err)
	}
	if parsed != c {
		t.Errorf("round trip = %+v, want %+v", parsed, c)
	}
}

func TestParseCoordinateSlugWithColons(t *testing.T) {
	parsed, err := ParseCoordinate("30040:pk:a:b:c")
	if err != nil {
		t.Fatalf("ParseCoordinate: %v", err)
	}
	if parsed.Slug != "a:b:c" {
		t.Errorf("Slug = %q, want %q", parsed.Slug, "a:b:c")
	}
}

func TestParseCoordinateErrors(t *testing.T) {
	for _, in := range []string{"", "30040", "30040:pk", "x:pk:slug"} {
		if _, err := ParseCoordinate(in); err == nil {
			t.Errorf("ParseCoordinate(%q) succeeded, want error", in)
		}
	}
}

func TestJSONRoundTrip(t *testing.T) {
	r := testRecord()
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back Record
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.ID != r.ID || back.Author != r.Author || back.Kind != r.Kind {
		t.Errorf("header fields changed across round trip: %+v", back)
	}
	if len(back.Tags) != len(r.Tags) {
		t.Fatalf("tag count = %d, want %d", len(back.Tags), len(r.Tags))
	}
	for i := range r.Tags {
		if back.Tags[i] != r.Tags[i] {
			t.Errorf("tag[%d] = %+v, want %+v", i, back.Tags[i], r.Tags[i])
		}
	}
	if !back.Verify() {
		t.Error("round-tripped record fails Verify")
	}
}

func TestIndexRank(t *testing.T) {
	a := Record{ID: "id-a", Author: "pk", Kind: 30041, Tags: []Tag{{Key: TagSlug, Value: "a"}}}
	b := Record{ID: "id-b", Author: "pk", Kind: 30041, Tags: []Tag{{Key: TagSlug, Value: "b"}}}
	c := Record{ID: "id-c", Author: "pk", Kind: 30041, Tags: []Tag{{Key: TagSlug, Value: "c"}}}

	idx := NewIndex(&Record{
		Author: "pk",
		Kind:   30040,
		Tags: []Tag{
			// id pointer for b declared first; its coordinate pointer below
			// still wins the lookup.
			{Key: TagIDPointer, Value: "id-b"},
			{Key: TagCoordPointer, Value: "30041:pk:c"},
			{Key: TagCoordPointer, Value: "30041:pk:a"},
			{Key: TagCoordPointer, Value: "30041:pk:b"},
		},
	})

	rankC, okC := idx.Rank(&c)
	rankA, okA := idx.Rank(&a)
	rankB, okB := idx.Rank(&b)
	if !okA || !okB || !okC {
		t.Fatalf("resolved = %v %v %v, want all true", okA, okB, okC)
	}
	if !(rankC < rankA && rankA < rankB) {
		t.Errorf("ranks c=%d a=%d b=%d, want c < a < b", rankC, rankA, rankB)
	}

	unknown := Record{ID: "id-x", Author: "pk", Kind: 30041, Tags: []Tag{{Key: TagSlug, Value: "x"}}}
	if _, ok := idx.Rank(&unknown); ok {
		t.Error("unknown record resolved")
	}
}

func TestIndexRankFallsBackToIDPointer(t *testing.T) {
	b := Record{ID: "id-b", Author: "other", Kind: 30041, Tags: []Tag{{Key: TagSlug, Value: "b"}}}
	idx := NewIndex(&Record{
		Tags: []Tag{
			{Key: TagCoordPointer, Value: "30041:pk:a"},
			{Key: TagIDPointer, Value: "id-b"},
		},
	})
	rank, ok := idx.Rank(&b)
	if !ok || rank != 1 {
		t.Errorf("Rank = %d, %v; want 1, true", rank, ok)
	}
}

func TestNilIndexResolvesNothing(t *testing.T) {
	r := testRecord()
	var ix *Index
	if _, ok := ix.Rank(&r); ok {
		t.Error("nil index resolved a record")
	}
	if NewIndex(nil).IDPointers() != nil {
		t.Error("NewIndex(nil).IDPointers() != nil")
	}
}
