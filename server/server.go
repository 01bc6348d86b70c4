// Package server exposes the generation pipeline and the review queue over
// HTTP: a cron trigger, trending topic suggestions, and authenticated admin
// endpoints for approving or rejecting drafts.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yuin/goldmark"

	"auto_blog_publisher/auth"
	"auto_blog_publisher/generator"
	"auto_blog_publisher/history"
	"auto_blog_publisher/pipeline"
	"auto_blog_publisher/publisher"
)

// runBudget is the wall-clock ceiling for one triggered generation run and
// for one approve/reject operation.
const runBudget = 60 * time.Second

// Server wires the pipeline components to their HTTP routes.
type Server struct {
	runner   *pipeline.Runner
	gen      *generator.Generator
	pub      *publisher.Publisher
	ledger   *history.Ledger
	sessions *auth.Service
	log      *slog.Logger
}

// New creates a Server. Every dependency is required.
func New(runner *pipeline.Runner, gen *generator.Generator, pub *publisher.Publisher, ledger *history.Ledger, sessions *auth.Service, log *slog.Logger) (*Server, error) {
	if runner == nil || gen == nil || pub == nil || ledger == nil || sessions == nil {
		return nil, errors.New("all server dependencies are required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Server{runner: runner, gen: gen, pub: pub, ledger: ledger, sessions: sessions, log: log}, nil
}

// Routes returns the configured handler tree.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", s.handleLogin)
	mux.HandleFunc("/api/cron/generate", s.handleCronGenerate)
	mux.HandleFunc("/api/post/trending", s.handleTrending)
	mux.Handle("/api/post/generate", s.sessions.Middleware(http.HandlerFunc(s.handleGenerate)))
	mux.Handle("/api/admin/action", s.sessions.Middleware(http.HandlerFunc(s.handleAdminAction)))
	mux.Handle("/api/admin/activity", s.sessions.Middleware(http.HandlerFunc(s.handleActivity)))
	return s.logMiddleware(mux)
}

// --- Handlers ---

type loginReq struct {
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	token, err := s.sessions.Login(req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleCronGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), runBudget)
	defer cancel()

	entry, err := s.runner.Run(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := map[string]any{
		"success": entry.Status != history.StatusFailed,
		"files":   entry.Files,
	}
	if entry.Error != nil {
		resp["message"] = *entry.Error
	}
	writeJSON(w, http.StatusOK, resp)
}

type trendingReq struct {
	Language string `json:"language"`
}

// handleTrending always answers 200 for a well-formed request: upstream
// failures are absorbed by the fallback topic table, flagged only through an
// advisory message.
func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req trendingReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Language == "" {
		writeError(w, http.StatusBadRequest, "language is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), runBudget)
	defer cancel()

	topics, fellBack := s.gen.SelectTopics(ctx, req.Language, 5)
	resp := map[string]any{"status": http.StatusOK, "data": topics}
	if fellBack {
		resp["message"] = "Using fallback topics due to API limits"
	}
	writeJSON(w, http.StatusOK, resp)
}

type generateReq struct {
	Topic    string `json:"topic"`
	Language string `json:"language"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req generateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Topic == "" || req.Language == "" {
		writeError(w, http.StatusBadRequest, "topic and language are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), runBudget)
	defer cancel()

	draft, err := s.gen.Generate(ctx, req.Topic, req.Language)
	if errors.Is(err, generator.ErrRateLimited) {
		writeError(w, http.StatusTooManyRequests, "Rate limit hit. Please try again later.")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "file": draft.Filename})
}

type decideReq struct {
	Filename string `json:"filename"`
	Action   string `json:"action"`
}

func (s *Server) handleAdminAction(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleDraftQueue(w, r)
	case http.MethodPost:
		s.handleDecide(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleDraftQueue(w http.ResponseWriter, r *http.Request) {
	filename := r.URL.Query().Get("filename")
	if filename == "" {
		drafts, err := s.pub.List()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if drafts == nil {
			drafts = []string{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"drafts": drafts})
		return
	}

	content, err := s.pub.Preview(filename)
	if errors.Is(err, publisher.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if r.URL.Query().Get("format") == "html" {
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(content), &buf); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = buf.WriteTo(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"content": content})
}

func (s *Server) handleDecide(w http.ResponseWriter, r *http.Request) {
	var req decideReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Filename == "" || req.Action == "" {
		writeError(w, http.StatusBadRequest, "missing filename or action")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), runBudget)
	defer cancel()

	err := s.pub.Decide(ctx, req.Filename, req.Action)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	case errors.Is(err, publisher.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, s.ledger.ReadAll())
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
