package handlers

import (
	"net/http"
	"strings"

	"github.com/akolanti/NotesAPI/internal/api"
)

// resolveText reads the text of a tools request, loading the note when note_id is given.
func (h *Handler) resolveText(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req api.TextRequest
	if err := decodeBody(r, &req); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
		return "", false
	}
	if req.NoteId == "" {
		return req.Text, true
	}
	note, err := h.files.GetNote(r.Context(), userFromContext(r.Context()), req.NoteId)
	if err != nil {
		writeServiceError(w, r, req.NoteId, err)
		return "", false
	}
	return note.Content, true
}

// Summarize godoc
// @Summary      Summarize a text or a note for studying
// @Tags         AI tools
// @Accept       json
// @Produce      json
// @Param        request  body      api.TextRequest  true  "text or note_id"
// @Success      200      {object}  api.SummaryResponse
// @Router       /ai/summarize [post]
func (h *Handler) Summarize(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	text, ok := h.resolveText(w, r)
	if !ok {
		return
	}
	summary, err := h.tools.Summarize(r.Context(), text)
	if err != nil {
		writeServiceError(w, r, "", err)
		return
	}
	writeJsonResponse(w, http.StatusOK, api.SummaryResponse{Summary: summary})
}

// Quiz answers with a JSON array of questions. Generation problems come back as a
// single open question rather than an error status.
func (h *Handler) Quiz(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	text, ok := h.resolveText(w, r)
	if !ok {
		return
	}
	if strings.TrimSpace(text) == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "", "text is required")
		return
	}
	writeJsonResponse(w, http.StatusOK, h.tools.GenerateQuiz(r.Context(), text))
}

func (h *Handler) ImproveNote(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	text, ok := h.resolveText(w, r)
	if !ok {
		return
	}
	writeJsonResponse(w, http.StatusOK, h.tools.ImproveNote(r.Context(), text))
}
