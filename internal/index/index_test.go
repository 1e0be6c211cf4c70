package index

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/akolanti/NotesAPI/internal/domain/commonModels"
	"github.com/akolanti/NotesAPI/internal/domain/fileModel"
)

type MockEmbedder struct {
	BatchSizes []int
	OnBatch    func(chunks []string) ([][]float32, error)
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	m.BatchSizes = append(m.BatchSizes, len(chunks))
	if m.OnBatch != nil {
		return m.OnBatch(chunks)
	}
	out := make([][]float32, len(chunks))
	for i := range out {
		out[i] = []float32{float32(i), 1}
	}
	return out, nil
}

func (m *MockEmbedder) Model() string { return "mock-embed" }

type MockVectorDB struct {
	Upserted   []commonModels.DocChunk
	LastNoteId string
}

func (m *MockVectorDB) CreateCollection(ctx context.Context, name string) error { return nil }

func (m *MockVectorDB) UpsertBatch(ctx context.Context, name string, chunks []commonModels.DocChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return errors.New("mismatch")
	}
	m.Upserted = append(m.Upserted, chunks...)
	return nil
}

func (m *MockVectorDB) Search(ctx context.Context, name string, noteId string, vector []float32, limit int) ([]commonModels.SearchHit, error) {
	m.LastNoteId = noteId
	return []commonModels.SearchHit{{FileId: "f1", NoteId: noteId, Score: 0.9}}, nil
}

func TestPrepareChunks_StableIds(t *testing.T) {
	md := strings.Repeat("A sentence about cells. ", 200)
	doc := commonModels.Document{Id: "f1", NoteId: "n1"}

	first := PrepareChunks(md, doc, "m")
	second := PrepareChunks(md, doc, "m")
	if len(first) < 2 {
		t.Fatalf("expected several chunks, got %d", len(first))
	}
	for i := range first {
		if first[i].ChunkId != second[i].ChunkId {
			t.Fatal("chunk ids must be deterministic")
		}
		if first[i].ChunkOrder != i {
			t.Errorf("chunk %d has order %d", i, first[i].ChunkOrder)
		}
	}
	if n := len(PrepareChunks("", doc, "m")); n != 0 {
		t.Error("empty markdown should produce no chunks")
	}
}

func TestVectorIndex_BatchesAndSearch(t *testing.T) {
	embedder := &MockEmbedder{}
	db := &MockVectorDB{}
	v := NewVectorIndex(embedder, db)
	v.batchSize = 2

	md := strings.Repeat("Mitochondria produce energy for the cell. ", 120)
	file := fileModel.StoredFile{Id: "f1", NoteId: "n1", Filename: "bio.txt"}
	if err := v.Index(context.Background(), file, md); err != nil {
		t.Fatalf("Index failed: %v", err)
	}
	total := 0
	for _, n := range embedder.BatchSizes {
		if n > 2 {
			t.Errorf("batch of %d exceeds the batch size", n)
		}
		total += n
	}
	if total != len(db.Upserted) || total == 0 {
		t.Errorf("embedded %d chunks but upserted %d", total, len(db.Upserted))
	}
	if db.Upserted[0].Doc.NoteId != "n1" || db.Upserted[0].EmbeddingModel != "mock-embed" {
		t.Errorf("unexpected chunk metadata %+v", db.Upserted[0])
	}

	hits, err := v.Search(context.Background(), "n1", "energy", 5)
	if err != nil || len(hits) != 1 || db.LastNoteId != "n1" {
		t.Errorf("unexpected search result %+v, %v", hits, err)
	}
}

func TestVectorIndex_EmbeddingFailure(t *testing.T) {
	embedder := &MockEmbedder{OnBatch: func(chunks []string) ([][]float32, error) {
		return nil, errors.New("quota")
	}}
	v := NewVectorIndex(embedder, &MockVectorDB{})
	err := v.Index(context.Background(), fileModel.StoredFile{Id: "f1"}, "some text")
	if err == nil {
		t.Error("expected embedding failure to be reported")
	}
}

func TestLogIndexer(t *testing.T) {
	l := NewLogIndexer()
	if err := l.Index(context.Background(), fileModel.StoredFile{Id: "f1"}, "md"); err != nil {
		t.Error(err)
	}
	if _, err := l.Search(context.Background(), "", "q", 1); !errors.Is(err, ErrSearchUnavailable) {
		t.Errorf("expected ErrSearchUnavailable, got %v", err)
	}
}
