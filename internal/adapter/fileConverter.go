package adapter

import (
	"fmt"

	"github.com/akolanti/NotesAPI/internal/api"
	"github.com/akolanti/NotesAPI/internal/domain/commonModels"
	"github.com/akolanti/NotesAPI/internal/domain/fileModel"
	"github.com/akolanti/NotesAPI/internal/domain/noteModel"
)

func ToFileResponse(f fileModel.StoredFile) api.FileResponse {
	return api.FileResponse{
		Id:              f.Id,
		NoteId:          f.NoteId,
		Filename:        f.Filename,
		FileType:        string(f.FileType),
		FileSize:        f.Size,
		Checksum:        f.Checksum,
		UploadedAt:      f.UploadedAt,
		Status:          string(f.Status),
		ProcessingError: f.ProcessingError,
		MdContent:       f.MdContent,
		StatusURL:       fmt.Sprintf("files/%s", f.Id),
	}
}

func ToFileResponses(files []fileModel.StoredFile) []api.FileResponse {
	out := make([]api.FileResponse, 0, len(files))
	for _, f := range files {
		out = append(out, ToFileResponse(f))
	}
	return out
}

func ToMarkdownResponse(f fileModel.StoredFile) api.MarkdownResponse {
	res := api.MarkdownResponse{Id: f.Id, Status: string(f.Status)}
	if f.MdContent != nil {
		res.MdContent = *f.MdContent
	}
	return res
}

func ToNotebookResponse(nb noteModel.Notebook) api.NotebookResponse {
	return api.NotebookResponse{
		Id:          nb.Id,
		Name:        nb.Name,
		Subject:     nb.Subject,
		Description: nb.Description,
		CreatedAt:   nb.CreatedAt,
	}
}

func ToNoteResponse(n noteModel.Note) api.NoteResponse {
	return api.NoteResponse{
		Id:         n.Id,
		NotebookId: n.NotebookId,
		Title:      n.Title,
		Content:    n.Content,
		CreatedAt:  n.CreatedAt,
		UpdatedAt:  n.UpdatedAt,
	}
}

func ToSearchResponse(query string, hits []commonModels.SearchHit) api.SearchResponse {
	res := api.SearchResponse{Query: query, Hits: make([]api.SearchHit, 0, len(hits))}
	for _, h := range hits {
		res.Hits = append(res.Hits, api.SearchHit{
			FileId:   h.FileId,
			Filename: h.Filename,
			Snippet:  h.Snippet,
			Score:    h.Score,
		})
	}
	return res
}

func BadRequest(id string, error string, code int) api.ErrorResponse {
	return api.ErrorResponse{
		Id: id,
		Error: api.OutgoingError{
			Code:    code,
			Message: error,
			Retry:   code >= 500 || code == 429,
		},
	}
}
