package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/akolanti/NotesAPI/internal/adapter"
	"github.com/akolanti/NotesAPI/internal/adapter/utils"
	"github.com/akolanti/NotesAPI/internal/aitools"
	"github.com/akolanti/NotesAPI/internal/api"
	"github.com/akolanti/NotesAPI/internal/config"
	"github.com/akolanti/NotesAPI/internal/domain/fileModel"
	"github.com/akolanti/NotesAPI/internal/files"
	"github.com/akolanti/NotesAPI/internal/index"
)

type Handler struct {
	files          *files.Service
	tools          *aitools.Service
	search         index.Searcher
	maxUploadBytes int64
}

func NewHandler(fileService *files.Service, tools *aitools.Service, search index.Searcher, maxUploadBytes int64) *Handler {
	if search == nil {
		search = index.NewLogIndexer()
	}
	return &Handler{
		files:          fileService,
		tools:          tools,
		search:         search,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// UploadFiles godoc
// @Summary      Upload files to a note
// @Description  Accepts one or more "file" parts. Each file is stored, recorded as queued and processed in the background.
// @Tags         Files
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string  true  "Note ID"
// @Param        file  formData  file    true  "pdf, docx, xlsx, pptx, png, jpg, jpeg, txt or md"
// @Success      201   {object}  api.FileResponse  "One object per file, a list when several were sent"
// @Failure      400   {object}  api.ErrorResponse
// @Failure      403   {object}  api.ErrorResponse
// @Failure      413   {object}  api.ErrorResponse
// @Router       /notes/{id}/files [post]
func (h *Handler) UploadFiles(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	noteID := utils.GetChiURLParam(r, "id")

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes*config.MaxFilesPerUpload+config.MultipartMemory)
	if err := r.ParseMultipartForm(config.MultipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteErrorResponse(w, http.StatusRequestEntityTooLarge, noteID, "request too large")
			return
		}
		WriteErrorResponse(w, http.StatusBadRequest, noteID, "expected a multipart form")
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			logRH.Error("could not clean multipart files", "error", err)
		}
	}()

	parts := r.MultipartForm.File["file"]
	if len(parts) == 0 {
		WriteErrorResponse(w, http.StatusBadRequest, noteID, "no file in the request (field 'file')")
		return
	}
	if len(parts) > config.MaxFilesPerUpload {
		WriteErrorResponse(w, http.StatusBadRequest, noteID, "too many files in one request")
		return
	}

	created := make([]api.FileResponse, 0, len(parts))
	for _, part := range parts {
		file, err := h.uploadPart(r, noteID, part)
		if err != nil {
			writeServiceError(w, r, part.Filename, err)
			return
		}
		created = append(created, adapter.ToFileResponse(file))
	}

	if len(created) == 1 {
		writeJsonResponse(w, http.StatusCreated, created[0])
		return
	}
	writeJsonResponse(w, http.StatusCreated, created)
}

func (h *Handler) uploadPart(r *http.Request, noteID string, part *multipart.FileHeader) (fileModel.StoredFile, error) {
	reader, err := part.Open()
	if err != nil {
		return fileModel.StoredFile{}, err
	}
	defer reader.Close()
	return h.files.Upload(r.Context(), userFromContext(r.Context()), noteID, part.Filename, reader)
}

// ListNoteFiles godoc
// @Summary      List the files of a note
// @Tags         Files
// @Produce      json
// @Param        id   path      string  true  "Note ID"
// @Success      200  {array}   api.FileResponse
// @Router       /notes/{id}/files [get]
func (h *Handler) ListNoteFiles(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	noteID := utils.GetChiURLParam(r, "id")
	list, err := h.files.ListByNote(r.Context(), userFromContext(r.Context()), noteID)
	if err != nil {
		writeServiceError(w, r, noteID, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToFileResponses(list))
}

// GetFile godoc
// @Summary      Get a file and its processing status
// @Tags         Files
// @Produce      json
// @Param        id   path      string  true  "File ID"
// @Success      200  {object}  api.FileResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /files/{id} [get]
func (h *Handler) GetFile(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	fileID := utils.GetChiURLParam(r, "id")
	file, err := h.files.Get(r.Context(), userFromContext(r.Context()), fileID)
	if err != nil {
		writeServiceError(w, r, fileID, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToFileResponse(file))
}

// GetFileMarkdown returns the converted Markdown, or 409 while the file is not done.
func (h *Handler) GetFileMarkdown(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	fileID := utils.GetChiURLParam(r, "id")
	file, err := h.files.Get(r.Context(), userFromContext(r.Context()), fileID)
	if err != nil {
		writeServiceError(w, r, fileID, err)
		return
	}
	if file.Status != fileModel.FileStatusDone {
		WriteErrorResponse(w, http.StatusConflict, fileID, "file is "+string(file.Status))
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToMarkdownResponse(file))
}

func (h *Handler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	fileID := utils.GetChiURLParam(r, "id")
	if err := h.files.Delete(r.Context(), userFromContext(r.Context()), fileID); err != nil {
		writeServiceError(w, r, fileID, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
