package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Silberengel/wikistr-sub007/core/errors"
	"github.com/Silberengel/wikistr-sub007/core/record"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testRecord(id, section string) record.Record {
	return record.Record{
		ID:        id,
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
		Content: "content of " + id,
	}
}

func TestSaveLoadBatch(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	recs := []record.Record{
		testRecord("id-b", "17"),
		testRecord("id-a", "16"),
	}
	query := "type:bible title:john chapter:3 version:kjv"
	if err := s.SaveBatch(ctx, query, recs); err != nil {
		t.Fatalf("SaveBatch: %v", err)
	}

	got, err := s.LoadBatch(ctx, query)
	if err != nil {
		t.Fatalf("LoadBatch: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	// Stored order is preserved, not id order.
	if got[0].ID != "id-b" || got[1].ID != "id-a" {
		t.Errorf("order = %s, %s; want id-b, id-a", got[0].ID, got[1].ID)
	}
	if got[0].Content != "content of id-b" {
		t.Errorf("content = %q", got[0].Content)
	}
	if len(got[0].Tags) != 5 || got[0].Tags[3].Value != "17" {
		t.Errorf("tags not round-tripped: %+v", got[0].Tags)
	}
}

func TestLoadBatchMissing(t *testing.T) {
	s := openTestStore(t)

	_, err := s.LoadBatch(context.Background(), "never saved")
	if !errors.IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestEmptyBatchIsNotMissing(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SaveBatch(ctx, "empty query", nil); err != nil {
		t.Fatalf("SaveBatch: %v", err)
	}
	got, err := s.LoadBatch(ctx, "empty query")
	if err != nil {
		t.Fatalf("LoadBatch: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d records, want 0", len(got))
	}
}

func TestSaveBatchReplaces(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SaveBatch(ctx, "q", []record.Record{testRecord("id-a", "16")}); err != nil {
		t.Fatalf("SaveBatch: %v", err)
	}
	if err := s.SaveBatch(ctx, "q", []record.Record{testRecord("id-b", "17")}); err != nil {
		t.Fatalf("SaveBatch again: %v", err)
	}

	got, err := s.LoadBatch(ctx, "q")
	if err != nil {
		t.Fatalf("LoadBatch: %v", err)
	}
	if len(got) != 1 || got[0].ID != "id-b" {
		t.Fatalf("got %+v, want single id-b", got)
	}
}

func TestRecordSharedAcrossBatches(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := testRecord("id-a", "16")
	if err := s.SaveBatch(ctx, "q1", []record.Record{rec}); err != nil {
		t.Fatalf("SaveBatch q1: %v", err)
	}
	if err := s.SaveBatch(ctx, "q2", []record.Record{rec}); err != nil {
		t.Fatalf("SaveBatch q2: %v", err)
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Errorf("Count = %d, want 1 (deduplicated by id)", n)
	}
}

func TestGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SaveBatch(ctx, "q", []record.Record{testRecord("id-a", "16")}); err != nil {
		t.Fatalf("SaveBatch: %v", err)
	}

	rec, err := s.Get(ctx, "id-a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.Author != "author1" || rec.Kind != 30041 {
		t.Errorf("record = %+v", rec)
	}

	if _, err := s.Get(ctx, "nope"); !errors.IsNotFound(err) {
		t.Errorf("Get missing: err = %v, want not found", err)
	}
}
