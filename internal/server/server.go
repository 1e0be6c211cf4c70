package server

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/akolanti/NotesAPI/internal/adapter/utils"
	"github.com/akolanti/NotesAPI/internal/config"
	"github.com/akolanti/NotesAPI/internal/handlers"
	"github.com/akolanti/NotesAPI/internal/middleware"
	"github.com/akolanti/NotesAPI/pkg/logger_i"
	httpSwagger "github.com/swaggo/http-swagger"
)

var _logger = logger_i.NewLogger("Server")

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	// StopWorkers drains background processing once the listener is closed.
	StopWorkers   func(ctx context.Context) error
	CloseServices context.CancelFunc
}

type Server struct {
	httpServer *http.Server
}

// NewRouter registers every route behind the middleware chain.
func NewRouter(h *handlers.Handler, mw *middleware.Middleware) http.Handler {
	r := utils.GetRouter().Router

	r.Get("/health", mw.Public(h.Health))
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Post("/notebooks", mw.Wrap(h.CreateNotebook))
	r.Post("/notebooks/{id}/notes", mw.Wrap(h.CreateNote))

	r.Get("/notes/{id}", mw.Wrap(h.GetNote))
	r.Post("/notes/{id}/files", mw.Wrap(h.UploadFiles))
	r.Get("/notes/{id}/files", mw.Wrap(h.ListNoteFiles))
	r.Get("/notes/{id}/search", mw.Wrap(h.SearchNote))

	r.Get("/files/{id}", mw.Wrap(h.GetFile))
	r.Get("/files/{id}/markdown", mw.Wrap(h.GetFileMarkdown))
	r.Delete("/files/{id}", mw.Wrap(h.DeleteFile))

	r.Post("/ai/summarize", mw.Wrap(h.Summarize))
	r.Post("/ai/quiz", mw.Wrap(h.Quiz))
	r.Post("/ai/improve", mw.Wrap(h.ImproveNote))
	return r
}

func CreateServer(listenAddr string, handler http.Handler) *Server {
	return &Server{httpServer: &http.Server{
		Addr:         listenAddr,
		Handler:      handler,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}}
}

func (s *Server) ListenAndServe() {
	_logger.Info("Server is listening at", "address", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_logger.Error("Server crashed", "error", err, "addr", s.httpServer.Addr)
	}
}

// ShutDownHandler waits for a signal, stops accepting requests, drains the workers
// and closes external services. It exits the process if that takes too long.
func (s *Server) ShutDownHandler(shutdownParams ShutdownParams) {
	state := <-shutdownParams.GracefulShutdown
	_logger.Info("Server is shutting down", "signal", state.String())

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})

	go func() {
		s.httpServer.SetKeepAlivesEnabled(false)
		if err := s.httpServer.Shutdown(ctx); err != nil {
			_logger.Error("Could not shutdown gracefully", "error", err)
		}

		if shutdownParams.StopWorkers != nil {
			if err := shutdownParams.StopWorkers(ctx); err != nil {
				_logger.Error("Workers did not finish in time", "error", err)
			}
		}
		shutdownParams.CloseServices()
		close(done)
	}()

	select {
	case <-done:
		_logger.Info("Gracefully shut down")
		close(shutdownParams.StopExecution)
	case <-ctx.Done():
		_logger.Error("Force Shut down")
		os.Exit(1)
	}
}
