package bleveIndex

import (
	"context"
	"testing"

	"github.com/akolanti/NotesAPI/internal/domain/fileModel"
)

func TestIndex_SearchByNote(t *testing.T) {
	idx, err := NewInMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()
	ctx := context.Background()

	files := []struct {
		file fileModel.StoredFile
		md   string
	}{
		{fileModel.StoredFile{Id: "f1", NoteId: "n1", Filename: "thermo.pdf"}, "# Thermodynamics\n\nEntropy always increases."},
		{fileModel.StoredFile{Id: "f2", NoteId: "n2", Filename: "bio.docx"}, "Entropy in living cells."},
		{fileModel.StoredFile{Id: "f3", NoteId: "n1", Filename: "algebra.txt"}, "Groups and rings."},
	}
	for _, f := range files {
		if err := idx.Index(ctx, f.file, f.md); err != nil {
			t.Fatalf("Index failed: %v", err)
		}
	}

	if n, _ := idx.Count(); n != 3 {
		t.Errorf("expected 3 documents, got %d", n)
	}

	hits, err := idx.Search(ctx, "", "entropy", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits across notes, got %d", len(hits))
	}

	hits, err = idx.Search(ctx, "n1", "entropy", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].FileId != "f1" || hits[0].NoteId != "n1" || hits[0].Filename != "thermo.pdf" {
		t.Errorf("unexpected hits %+v", hits)
	}
	if hits[0].Snippet == "" {
		t.Error("expected a snippet")
	}
}

func TestIndex_ReindexReplaces(t *testing.T) {
	idx, _ := NewInMemory()
	defer idx.Close()
	ctx := context.Background()
	f := fileModel.StoredFile{Id: "f1", NoteId: "n1", Filename: "a.txt"}

	_ = idx.Index(ctx, f, "first version")
	_ = idx.Index(ctx, f, "second version")

	if n, _ := idx.Count(); n != 1 {
		t.Errorf("expected a single document, got %d", n)
	}
	hits, _ := idx.Search(ctx, "", "first", 10)
	if len(hits) != 0 {
		t.Errorf("stale content still searchable: %+v", hits)
	}
}

func TestSnippet(t *testing.T) {
	long := make([]rune, 300)
	for i := range long {
		long[i] = 'a'
	}
	if got := []rune(snippet(string(long))); len(got) != snippetRunes+1 {
		t.Errorf("unexpected snippet length %d", len(got))
	}
	if snippet("  short ") != "short" {
		t.Error("short content should be trimmed only")
	}
}
