package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/seminarops/rollcall/internal/config"
	"github.com/seminarops/rollcall/internal/roster"
	"github.com/seminarops/rollcall/internal/topics"
	"github.com/seminarops/rollcall/internal/transcript"
)

// maxUploadBytes bounds any single uploaded file.
const maxUploadBytes = 32 << 20

type Server struct {
	router    *chi.Mux
	port      int
	extractor *roster.Extractor
	builder   *topics.Builder
	scanner   *transcript.Scanner
}

func NewServer(cfg config.Config) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:    router,
		port:      cfg.Port,
		extractor: roster.NewExtractor(cfg.Rules),
		builder:   topics.NewBuilder(cfg.Rules, cfg.DefaultYear),
		scanner:   transcript.NewScanner(cfg.Rules, cfg.MatchThreshold, cfg.DefaultYear),
	}

	router.Get("/health", s.health)
	router.Get("/api/v1/status", s.status)
	router.Post("/api/v1/roster/parse", s.parseRoster)
	router.Post("/api/v1/topics/parse", s.parseTopics)
	router.Post("/api/v1/merge", s.mergeTranscript)
	router.Post("/api/v1/export", s.exportRows)

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	slog.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "rollcall",
		"status":  "ready",
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, format string, args ...any) {
	writeJSON(w, code, map[string]string{"error": fmt.Sprintf(format, args...)})
}
