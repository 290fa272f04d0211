package archive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Silberengel/wikistr-sub007/core/record"
)

func signedRecord(section, content string) record.Record {
	rec := record.Record{
		Author:    "author1",
		Kind:      30041,
		CreatedAt: 1700000000,
		Tags: []record.Tag{
			{Key: record.TagCollection, Value: "bible"},
			{Key: record.TagTitle, Value: "john"},
			{Key: record.TagChapter, Value: "3"},
			{Key: record.TagSection, Value: section},
			{Key: record.TagVersion, Value: "kjv"},
		},
		Content: content,
	}
	rec.ID = record.ComputeID(&rec)
	return rec
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json.xz")
	recs := []record.Record{
		signedRecord("16", "For God so loved the world"),
		signedRecord("17", "For God sent not his Son"),
	}

	if err := Write(path, "John 3:16-17 | kjv", recs); err != nil {
		t.Fatalf("Write: %v", err)
	}

	snap, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if snap.Citation != "John 3:16-17 | kjv" {
		t.Errorf("citation = %q", snap.Citation)
	}
	if snap.CreatedAt == 0 {
		t.Error("created_at not set")
	}
	if len(snap.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(snap.Records))
	}
	if snap.Records[0].ID != recs[0].ID || snap.Records[0].Content != recs[0].Content {
		t.Errorf("record 0 = %+v", snap.Records[0])
	}
	if len(snap.Records[1].Tags) != 5 {
		t.Errorf("tags = %+v", snap.Records[1].Tags)
	}
}

func TestSnapshotIsCompressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json.xz")
	if err := Write(path, "", []record.Record{signedRecord("16", "x")}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	// xz stream magic.
	if len(data) < 6 || string(data[:6]) != "\xfd7zXZ\x00" {
		t.Errorf("file does not start with xz magic: % x", data[:min(6, len(data))])
	}
}

func TestVerify(t *testing.T) {
	good := signedRecord("16", "text")
	bad := signedRecord("17", "text")
	bad.Content = "tampered"

	snap := &Snapshot{Records: []record.Record{good, bad}}
	got := Verify(snap)
	if len(got) != 1 || got[0] != bad.ID {
		t.Errorf("Verify = %v, want [%s]", got, bad.ID)
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "nope.json.xz")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
