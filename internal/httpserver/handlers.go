package httpserver

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const (
	msgEmptyURL     = "Please enter a valid YouTube URL."
	msgFileNotFound = "File not found."
	msgCleanupDone  = "Cleanup complete."
)

type indexPage struct {
	URL   string
	Error string
}

type resultsPage struct {
	URL        string
	Transcript string
	Summary    string
	Files      []string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "index.html", indexPage{})
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rawURL := strings.TrimSpace(r.PostFormValue("youtube_url"))
	if rawURL == "" {
		s.render(w, r, http.StatusBadRequest, "index.html", indexPage{Error: msgEmptyURL})
		return
	}

	sessionID := s.sessions.id(w, r)

	res, err := s.proc.Run(ctx, rawURL)
	if err != nil {
		s.logger.Error(ctx, "Digest failed for %s: %v", rawURL, err)
		s.render(w, r, http.StatusOK, "index.html", indexPage{URL: rawURL, Error: "Error: " + err.Error()})
		return
	}

	var generated []string
	var names []string
	for _, p := range []string{res.TranscriptPath, res.SummaryPath, res.TranscriptDocx, res.SummaryDocx} {
		if p == "" {
			continue
		}
		generated = append(generated, p)
		names = append(names, filepath.Base(p))
	}
	s.sessions.set(sessionID, generated)

	transcript, err := os.ReadFile(res.TranscriptPath)
	if err != nil {
		s.render(w, r, http.StatusOK, "index.html", indexPage{URL: rawURL, Error: "Error: " + err.Error()})
		return
	}

	s.render(w, r, http.StatusOK, "results.html", resultsPage{
		URL:        rawURL,
		Transcript: string(transcript),
		Summary:    res.Digest,
		Files:      names,
	})
}

// handleDownload serves a file from the scratch directory as an attachment.
// Only plain file names are accepted.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("filename")
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") || strings.ContainsAny(name, `/\`) {
		http.Error(w, msgFileNotFound, http.StatusNotFound)
		return
	}

	path := filepath.Join(s.workDir, name)
	f, err := os.Open(path)
	if err != nil {
		http.Error(w, msgFileNotFound, http.StatusNotFound)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		http.Error(w, msgFileNotFound, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	http.ServeContent(w, r, name, info.ModTime(), f)
}

// handleCleanup deletes the files generated for the caller's session.
func (s *Server) handleCleanup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if c, err := r.Cookie(sessionCookie); err == nil {
		for _, p := range s.sessions.take(c.Value) {
			if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
				s.logger.Warn(ctx, "Failed to remove %s: %v", p, err)
			}
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(msgCleanupDone))
}
