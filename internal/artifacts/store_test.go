package artifacts

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func TestStore_PutGet(t *testing.T) {
	store := newTestStore(t)
	data := []byte("zip-bytes")
	if err := store.Put("doc1", "multiple_choice.h5p", data); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := store.Get("doc1", "multiple_choice.h5p")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("Get returned %q, want %q", got, data)
	}
}

func TestStore_GetMissing(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Get("nope", "nothing.h5p"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get missing: got %v, want ErrNotFound", err)
	}
}

func TestStore_ListSortedByName(t *testing.T) {
	store := newTestStore(t)
	for _, name := range []string{"true_false.h5p", "crossword_1.h5p", "multiple_choice.h5p"} {
		if err := store.Put("doc1", name, []byte("x")); err != nil {
			t.Fatalf("Put %s: %v", name, err)
		}
	}
	files, err := store.List("doc1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"crossword_1.h5p", "multiple_choice.h5p", "true_false.h5p"}
	if len(files) != len(want) {
		t.Fatalf("expected %d files, got %d", len(want), len(files))
	}
	for i, f := range files {
		if f.Name != want[i] {
			t.Errorf("file %d: got %q, want %q", i, f.Name, want[i])
		}
	}
}

func TestStore_ListMissingDocument(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.List("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("List missing: got %v, want ErrNotFound", err)
	}
}

func TestStore_Documents(t *testing.T) {
	store := newTestStore(t)
	store.Put("beta", "a.h5p", []byte("x"))
	store.Put("alpha", "a.h5p", []byte("x"))
	store.Put("alpha", "b.h5p", []byte("x"))

	docs, err := store.Documents()
	if err != nil {
		t.Fatalf("Documents: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].DocID != "alpha" || docs[0].FileCount != 2 {
		t.Errorf("unexpected first document %+v", docs[0])
	}
	if docs[1].DocID != "beta" || docs[1].FileCount != 1 {
		t.Errorf("unexpected second document %+v", docs[1])
	}
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)
	store.Put("doc1", "a.h5p", []byte("x"))
	if err := store.Delete("doc1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.List("doc1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("document still listable after delete: %v", err)
	}
	if err := store.Delete("doc1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestStore_SweepExpiresOldDocuments(t *testing.T) {
	root := t.TempDir()
	store, err := NewStore(root)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	store.Put("old", "a.h5p", []byte("x"))
	store.Put("new", "a.h5p", []byte("x"))

	past := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(filepath.Join(root, "old", "a.h5p"), past, past); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}

	removed, err := store.Sweep(time.Hour)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 removal, got %d", removed)
	}
	if _, err := store.List("old"); !errors.Is(err, ErrNotFound) {
		t.Error("expired document survived sweep")
	}
	if _, err := store.List("new"); err != nil {
		t.Errorf("fresh document removed by sweep: %v", err)
	}
}

func TestStore_SweepDisabled(t *testing.T) {
	store := newTestStore(t)
	store.Put("doc1", "a.h5p", []byte("x"))
	removed, err := store.Sweep(0)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if removed != 0 {
		t.Errorf("ttl 0 must disable expiry, removed %d", removed)
	}
}

func TestSanitizeSegment(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"doc1", "doc1"},
		{"../etc/passwd", "passwd"},
		{"a/b", "b"},
		{"", "unnamed"},
		{".", "unnamed"},
		{"name..with..dots", "name_with_dots"},
	}
	for _, tc := range cases {
		if got := sanitizeSegment(tc.in); got != tc.want {
			t.Errorf("sanitizeSegment(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
