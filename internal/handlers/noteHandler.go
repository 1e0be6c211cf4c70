package handlers

import (
	"net/http"
	"strings"

	"github.com/akolanti/NotesAPI/internal/adapter"
	"github.com/akolanti/NotesAPI/internal/adapter/utils"
	"github.com/akolanti/NotesAPI/internal/api"
	"github.com/akolanti/NotesAPI/internal/config"
)

// CreateNotebook godoc
// @Summary      Create a notebook owned by the caller
// @Tags         Notes
// @Accept       json
// @Produce      json
// @Param        request  body      api.NotebookRequest  true  "Notebook"
// @Success      201      {object}  api.NotebookResponse
// @Router       /notebooks [post]
func (h *Handler) CreateNotebook(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	var req api.NotebookRequest
	if err := decodeBody(r, &req); err != nil || strings.TrimSpace(req.Name) == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "name is required")
		return
	}
	nb, err := h.files.CreateNotebook(r.Context(), userFromContext(r.Context()), req.Name, req.Subject, req.Description)
	if err != nil {
		writeServiceError(w, r, "", err)
		return
	}
	writeJsonResponse(w, http.StatusCreated, adapter.ToNotebookResponse(nb))
}

// CreateNote godoc
// @Summary      Create a note in a notebook
// @Tags         Notes
// @Accept       json
// @Produce      json
// @Param        id       path      string           true  "Notebook ID"
// @Param        request  body      api.NoteRequest  true  "Note"
// @Success      201      {object}  api.NoteResponse
// @Router       /notebooks/{id}/notes [post]
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	notebookID := utils.GetChiURLParam(r, "id")
	var req api.NoteRequest
	if err := decodeBody(r, &req); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, notebookID, "Bad Request")
		return
	}
	note, err := h.files.CreateNote(r.Context(), userFromContext(r.Context()), notebookID, req.Title, req.Content)
	if err != nil {
		writeServiceError(w, r, notebookID, err)
		return
	}
	writeJsonResponse(w, http.StatusCreated, adapter.ToNoteResponse(note))
}

func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	noteID := utils.GetChiURLParam(r, "id")
	note, err := h.files.GetNote(r.Context(), userFromContext(r.Context()), noteID)
	if err != nil {
		writeServiceError(w, r, noteID, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToNoteResponse(note))
}

// SearchNote godoc
// @Summary      Full-text or semantic search over the processed files of a note
// @Tags         Notes
// @Produce      json
// @Param        id     path      string  true   "Note ID"
// @Param        q      query     string  true   "Query"
// @Param        limit  query     int     false  "Max hits"
// @Success      200    {object}  api.SearchResponse
// @Failure      503    {object}  api.ErrorResponse  "No search backend configured"
// @Router       /notes/{id}/search [get]
func (h *Handler) SearchNote(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	noteID := utils.GetChiURLParam(r, "id")
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		WriteErrorResponse(w, http.StatusBadRequest, noteID, "q is required")
		return
	}
	if _, err := h.files.GetNote(r.Context(), userFromContext(r.Context()), noteID); err != nil {
		writeServiceError(w, r, noteID, err)
		return
	}

	limit := min(queryInt(r, "limit", config.DefaultSearchLimit), config.MaxSearchLimit)
	hits, err := h.search.Search(r.Context(), noteID, query, limit)
	if err != nil {
		writeServiceError(w, r, noteID, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToSearchResponse(query, hits))
}
