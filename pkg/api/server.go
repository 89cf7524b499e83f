// Package api exposes the conversation system over a small JSON HTTP
// surface: chat, relationship management, image generation and debug
// traces.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"casdy/pkg/agent"
	"casdy/pkg/imagegen"
	"casdy/pkg/intent"
	"casdy/pkg/persona"
)

type Server struct {
	system *agent.System
	logger *zap.Logger
	http   *http.Server
}

func NewServer(addr string, system *agent.System, logger *zap.Logger) *Server {
	s := &Server{system: system, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /characters", s.handleCharacters)
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("GET /relationship", s.handleRelationship)
	mux.HandleFunc("POST /relationship/reset", s.handleReset)
	mux.HandleFunc("POST /relationship/boost", s.handleBoost)
	mux.HandleFunc("POST /image", s.handleImage)
	mux.HandleFunc("GET /traces", s.handleTraces)

	s.http = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute, // chat turns wait on the model
	}
	return s
}

func (s *Server) Handler() http.Handler { return s.http.Handler }

func (s *Server) Start() error {
	s.logger.Info("http server listening", zap.String("addr", s.http.Addr))
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn("response encode failed", zap.Error(err))
	}
}

// writeError maps internal error types onto HTTP statuses. Only bad input
// is the caller's fault; everything else is a 5xx.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var verr *persona.ValidationError
	var gerr *imagegen.GenerationError

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
	case errors.As(err, &gerr):
		status = http.StatusBadGateway
	}

	if status >= 500 {
		s.logger.Error("request failed", zap.Error(err))
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decode(r *http.Request, dest any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return &persona.ValidationError{Field: "body", Reason: "invalid JSON: " + err.Error()}
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCharacters(w http.ResponseWriter, r *http.Request) {
	type item struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Language string `json:"language"`
	}
	chars := s.system.Characters()
	out := make([]item, 0, len(chars))
	for _, c := range chars {
		out = append(out, item{ID: c.ID, Name: c.Name, Language: c.Language})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"characters": out})
}

type chatRequest struct {
	CharacterID string `json:"character_id"`
	UserID      string `json:"user_id"`
	Message     string `json:"message"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	resp, err := s.system.ProcessMessage(r.Context(), req.CharacterID, req.UserID, req.Message)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRelationship(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	state, err := s.system.RelationshipStatus(r.Context(), q.Get("character_id"), q.Get("user_id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, state)
}

type relationshipRequest struct {
	CharacterID string `json:"character_id"`
	UserID      string `json:"user_id"`
	Points      int    `json:"points"`
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req relationshipRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	state, err := s.system.ResetRelationship(r.Context(), req.CharacterID, req.UserID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleBoost(w http.ResponseWriter, r *http.Request) {
	var req relationshipRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Points == 0 {
		s.writeError(w, &persona.ValidationError{Field: "points", Reason: "must be non-zero"})
		return
	}

	state, err := s.system.BoostRelationship(r.Context(), req.CharacterID, req.UserID, req.Points)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, state)
}

type imageRequest struct {
	CharacterID string `json:"character_id"`
	UserID      string `json:"user_id"`
	NSFWLevel   int    `json:"nsfw_level"`
	Type        string `json:"type"`
	Outfit      string `json:"outfit"`
	Pose        string `json:"pose"`
	Setting     string `json:"setting"`
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	var req imageRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	url, err := s.system.GenerateImage(r.Context(), req.CharacterID, req.UserID, intent.ImageDetails{
		Type:    req.Type,
		Outfit:  req.Outfit,
		Pose:    req.Pose,
		Setting: req.Setting,
	}, req.NSFWLevel)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (s *Server) handleTraces(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"traces": s.system.RecentTraces()})
}
