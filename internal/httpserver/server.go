package httpserver

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/nguyentantai21042004/video-digest/internal/config"
	"github.com/nguyentantai21042004/video-digest/internal/health"
	"github.com/nguyentantai21042004/video-digest/internal/logger"
	"github.com/nguyentantai21042004/video-digest/internal/processor"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const shutdownTimeout = 15 * time.Second

// Server is the web front end: a form that runs the pipeline, download links
// for the outputs, and the probe and metrics endpoints.
type Server struct {
	addr     string
	workDir  string
	proc     processor.Processor
	sessions *sessionStore
	logger   logger.Logger
	mux      *http.ServeMux
}

// New builds the server and registers its routes. metrics may be nil.
func New(cfg *config.Config, proc processor.Processor, probes *health.Handler, metrics http.Handler, log logger.Logger) *Server {
	s := &Server{
		addr:     cfg.Server.Addr,
		workDir:  cfg.Paths.WorkDir,
		proc:     proc,
		sessions: newSessionStore(),
		logger:   log,
		mux:      http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("POST /{$}", s.handleSummarize)
	s.mux.HandleFunc("GET /download/{filename}", s.handleDownload)
	s.mux.HandleFunc("GET /cleanup", s.handleCleanup)
	s.mux.HandleFunc("POST /cleanup", s.handleCleanup)

	if probes != nil {
		probes.Register(s.mux)
	}
	if metrics != nil {
		s.mux.Handle("GET "+cfg.Server.MetricsPath, metrics)
	}
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "HTTP server listening on %s", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info(ctx, "Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error(r.Context(), "Render %s: %v", name, err)
	}
}
