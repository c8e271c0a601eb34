package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"radiostore/internal/adapter/primary/presenter"
	"radiostore/internal/domain"
	"radiostore/internal/logging"
	"radiostore/internal/usecase"
)

// Server is a primary adapter that exposes the session over a JSON API.
// It depends on the use case (primary port).
type Server struct {
	usecase  usecase.SessionUseCase
	resolver domain.CapabilityResolver
	server   *http.Server
}

// NewServer creates the HTTP server bound to addr.
func NewServer(uc usecase.SessionUseCase, resolver domain.CapabilityResolver, addr string) *Server {
	srv := &Server{usecase: uc, resolver: resolver}
	srv.server = &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv
}

// Handler returns the routed API handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/session", s.handleSession)
	mux.HandleFunc("/api/load", s.handleLoad)
	mux.HandleFunc("/api/write", s.handleWrite)
	mux.HandleFunc("/api/boards", s.handleBoards)
	mux.HandleFunc("/api/config", s.handleConfig)
	return loggingMiddleware(mux)
}

// Start blocks and serves HTTP traffic.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

type pathPayload struct {
	Path string `json:"path"`
}

type configPayload struct {
	Board    string `json:"board"`
	Firmware string `json:"firmware"`
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		respondJSON(w, http.StatusOK, presenter.Radio(s.usecase.Snapshot()))
	case http.MethodDelete:
		s.usecase.Reset()
		respondJSON(w, http.StatusOK, presenter.Radio(s.usecase.Snapshot()))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	req, ok := decodePath(w, r)
	if !ok {
		return
	}
	outcome := s.usecase.Load(req.Path)
	respondOutcome(w, outcome, presenter.Radio(s.usecase.Snapshot()))
}

func (s *Server) handleWrite(w http.ResponseWriter, r *http.Request) {
	req, ok := decodePath(w, r)
	if !ok {
		return
	}
	respondOutcome(w, s.usecase.Write(req.Path), nil)
}

func (s *Server) handleBoards(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	current, err := s.usecase.CurrentBoard()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	fw := current.Firmware
	if q := r.URL.Query().Get("firmware"); q != "" {
		fw = domain.Firmware(q)
	}
	views, err := presenter.Boards(s.resolver, fw)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"current": current.String(),
		"boards":  views,
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPut:
		var req configPayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		prefs := domain.Preferences{Board: domain.BoardType(req.Board), Firmware: domain.Firmware(req.Firmware)}
		if err := s.usecase.SetPreferences(prefs); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	current, err := s.usecase.CurrentBoard()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, configPayload{Board: string(current.Type), Firmware: string(current.Firmware)})
}

func decodePath(w http.ResponseWriter, r *http.Request) (pathPayload, bool) {
	var req pathPayload
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return req, false
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		http.Error(w, "invalid JSON: path is required", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func respondOutcome(w http.ResponseWriter, o domain.Outcome, radio any) {
	status := http.StatusOK
	if !o.OK() {
		status = http.StatusUnprocessableEntity
	}
	body := map[string]any{"outcome": presenter.Outcome(o)}
	if radio != nil {
		body["radio"] = radio
	}
	respondJSON(w, status, body)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Errorf("encode JSON: %v", err)
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logging.Infof("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}
