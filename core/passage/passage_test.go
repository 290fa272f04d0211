package passage

import (
	"testing"

	"github.com/Silberengel/wikistr-sub007/core/citation"
	"github.com/Silberengel/wikistr-sub007/core/record"
)

func sec(id, version, value string) record.Record {
	return record.Record{
		ID: id, Author: "pk", Kind: 30041,
		Tags: []record.Tag{
			{Key: record.TagSection, Value: value},
			{Key: record.TagVersion, Value: version},
		},
	}
}

func TestAssembleVersionMajorReferenceMinor(t *testing.T) {
	ref := citation.Reference{
		Collection: "bible", Title: "romans", Chapter: "3",
		Sections: []string{"4", "5", "6"}, RawSections: "4-6",
		Versions: []string{"kjv", "drb", "niv"},
	}
	versions := []string{"kjv", "drb", "niv"}
	slots := map[Slot][]record.Record{}
	for _, v := range versions {
		slots[Slot{Ref: 0, Version: v}] = []record.Record{
			sec(v+"-4", v, "4"), sec(v+"-5", v, "5"), sec(v+"-6", v, "6"),
		}
	}

	got := Assemble([]citation.Reference{ref}, versions, slots)
	if len(got) != 9 {
		t.Fatalf("passages = %d, want 9", len(got))
	}
	want := []struct{ version, section string }{
		{"kjv", "4"}, {"kjv", "5"}, {"kjv", "6"},
		{"drb", "4"}, {"drb", "5"}, {"drb", "6"},
		{"niv", "4"}, {"niv", "5"}, {"niv", "6"},
	}
	for i, w := range want {
		if got[i].Version != w.version || got[i].Section != w.section {
			t.Errorf("passage[%d] = (%s, %s), want (%s, %s)",
				i, got[i].Version, got[i].Section, w.version, w.section)
		}
	}
}

func TestAssembleMultipleReferencesWithinVersion(t *testing.T) {
	refs := []citation.Reference{
		{Title: "john", Chapter: "3", Sections: []string{"16"}},
		{Title: "romans", Chapter: "3", Sections: []string{"4"}},
	}
	slots := map[Slot][]record.Record{
		{Ref: 0, Version: "kjv"}: {sec("j", "kjv", "16")},
		{Ref: 1, Version: "kjv"}: {sec("r", "kjv", "4")},
		{Ref: 0, Version: "drb"}: {sec("j2", "drb", "16")},
		{Ref: 1, Version: "drb"}: {sec("r2", "drb", "4")},
	}
	got := Assemble(refs, []string{"kjv", "drb"}, slots)
	ids := make([]string, len(got))
	for i, p := range got {
		ids[i] = p.Record.ID
	}
	want := []string{"j", "r", "j2", "r2"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("order = %v, want %v", ids, want)
		}
	}
}

func TestAssembleUnspecifiedVersionSentinel(t *testing.T) {
	ref := citation.Reference{Title: "glorbzax"}
	slots := map[Slot][]record.Record{
		{Ref: 0, Version: citation.UnspecifiedVersion}: {sec("g", "", "")},
	}
	got := Assemble([]citation.Reference{ref}, nil, slots)
	if len(got) != 1 {
		t.Fatalf("passages = %d, want 1", len(got))
	}
	if got[0].Version != citation.UnspecifiedVersion {
		t.Errorf("Version = %q, want sentinel", got[0].Version)
	}
}

func TestAssembleMissingSlotsSkipped(t *testing.T) {
	refs := []citation.Reference{
		{Title: "john", Chapter: "3"},
		{Title: "romans", Chapter: "3"},
	}
	slots := map[Slot][]record.Record{
		{Ref: 1, Version: "kjv"}: {sec("r", "kjv", "4")},
	}
	got := Assemble(refs, []string{"kjv"}, slots)
	if len(got) != 1 || got[0].Record.ID != "r" {
		t.Fatalf("passages = %+v, want only r", got)
	}
}

func TestDisplayKeysAreUnique(t *testing.T) {
	ref := citation.Reference{
		Collection: "bible", Title: "romans", Chapter: "3",
		Sections: []string{"4"},
	}
	// Two distinct records collapse to the same display coordinates.
	slots := map[Slot][]record.Record{
		{Ref: 0, Version: "kjv"}: {sec("a", "kjv", "4"), sec("b", "kjv", "4")},
	}
	got := Assemble([]citation.Reference{ref}, []string{"kjv"}, slots)
	if len(got) != 2 {
		t.Fatalf("passages = %d, want 2", len(got))
	}
	if got[0].Key == got[1].Key {
		t.Errorf("keys collide: %q", got[0].Key)
	}
	if got[0].Key != "bible/romans/3/4/kjv" {
		t.Errorf("base key = %q", got[0].Key)
	}
}

func TestSectionValuePrefersReferenceSection(t *testing.T) {
	multi := record.Record{
		ID: "m", Author: "pk", Kind: 30041,
		Tags: []record.Tag{
			{Key: record.TagSection, Value: "99"},
			{Key: record.TagSection, Value: "5"},
		},
	}
	ref := citation.Reference{Title: "romans", Chapter: "3", Sections: []string{"4", "5", "6"}}
	got := Assemble([]citation.Reference{ref}, []string{"kjv"}, map[Slot][]record.Record{
		{Ref: 0, Version: "kjv"}: {multi},
	})
	if got[0].Section != "5" {
		t.Errorf("Section = %q, want %q", got[0].Section, "5")
	}
}
