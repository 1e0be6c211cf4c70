package commonModels

import (
	"time"

	"github.com/akolanti/NotesAPI/internal/domain/fileModel"
)

// Document is the searchable view of a processed file.
type Document struct {
	Id                  string             `json:"file_id"`
	NoteId              string             `json:"note_id"`
	Name                string             `json:"filename"`
	LastIngestTimestamp time.Time          `json:"ingested_at"`
	ContentType         fileModel.FileType `json:"file_type"`
}

type DocChunk struct {
	Doc            Document
	ChunkId        string `json:"chunk_id"`
	Chunk          string `json:"content"`
	ChunkOrder     int    `json:"chunk_order"`
	EmbeddingModel string `json:"embedding_model"`
}

type SearchHit struct {
	FileId   string  `json:"file_id"`
	NoteId   string  `json:"note_id"`
	Filename string  `json:"filename"`
	Snippet  string  `json:"snippet,omitempty"`
	Score    float64 `json:"score"`
}

func DocumentFromFile(f fileModel.StoredFile) Document {
	return Document{
		Id:                  f.Id,
		NoteId:              f.NoteId,
		Name:                f.Filename,
		LastIngestTimestamp: time.Now().UTC(),
		ContentType:         f.EffectiveType(),
	}
}
