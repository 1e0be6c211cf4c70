package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/akolanti/NotesAPI/internal/adapter"
	"github.com/akolanti/NotesAPI/internal/config"
	"github.com/akolanti/NotesAPI/internal/domain/fileModel"
	"github.com/akolanti/NotesAPI/internal/domain/noteModel"
	"github.com/akolanti/NotesAPI/internal/files"
	"github.com/akolanti/NotesAPI/internal/index"
	"github.com/akolanti/NotesAPI/internal/llm"
	"github.com/akolanti/NotesAPI/pkg/logger_i"
)

var logRH = logger_i.NewLogger("RequestHandler")

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// headers are already out
		logRH.Error("Error encoding response", "error", err)
	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, id string, error string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(id, error, httpCode))
}

// writeServiceError maps domain errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, r *http.Request, id string, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		logRH.WithTrace(r.Context()).Error("request failed", "path", r.URL.Path, "error", err)
		WriteErrorResponse(w, code, id, http.StatusText(code))
		return
	}
	WriteErrorResponse(w, code, id, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, fileModel.ErrFileNotFound),
		errors.Is(err, noteModel.ErrNoteNotFound),
		errors.Is(err, noteModel.ErrNotebookNotFound):
		return http.StatusNotFound
	case errors.Is(err, noteModel.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, fileModel.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, fileModel.ErrFileTypeNotAllowed), errors.Is(err, files.ErrEmptyFile):
		return http.StatusBadRequest
	case errors.Is(err, index.ErrSearchUnavailable), errors.Is(err, llm.ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func validateContext(ctx context.Context) bool {
	if ctx.Err() != nil {
		logRH.WithTrace(ctx).Warn("context error", "error", ctx.Err())
		return false
	}
	return true
}

// userFromContext returns the authenticated user set by the auth middleware.
func userFromContext(ctx context.Context) string {
	user, _ := ctx.Value(config.USER_ID_KEY).(string)
	return user
}

func decodeBody(r *http.Request, dst interface{}) error {
	defer func() {
		if err := r.Body.Close(); err != nil {
			logRH.Error("Couldn't close the request body", "error", err)
		}
	}()
	return json.NewDecoder(r.Body).Decode(dst)
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
