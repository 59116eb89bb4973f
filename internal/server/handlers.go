package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hyperjump/smartutb/internal/chat"
	"github.com/hyperjump/smartutb/internal/history"
	"go.uber.org/zap"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// envelope is the response shape of every endpoint except /chat.
type envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type loginRequest struct {
	NIM      string `json:"nim"`
	Password string `json:"password"`
}

type sessionsRequest struct {
	NIM string `json:"nim"`
}

type chatDetailRequest struct {
	NIM       string `json:"nim"`
	SessionID string `json:"session_id"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	account, ok := s.auth.Authenticate(req.NIM, req.Password)
	if !ok {
		s.logger.Debug("login rejected", zap.String("nim", req.NIM))
		s.respondError(w, http.StatusUnauthorized, "NIM atau Password salah")
		return
	}
	s.logger.Debug("login accepted", zap.String("nim", account.NIM), zap.String("role", account.Role))
	s.respondJSON(w, http.StatusOK, envelope{Status: statusSuccess, Message: "Login Berhasil", Data: account})
}

func (s *Server) handleGetSessions(w http.ResponseWriter, r *http.Request) {
	var req sessionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sessions := s.history.ListSessions(r.Context(), req.NIM)
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"status": statusSuccess, "data": sessions})
}

func (s *Server) handleGetChatDetail(w http.ResponseWriter, r *http.Request) {
	var req chatDetailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	messages, err := s.history.GetSessionDetail(r.Context(), req.NIM, req.SessionID)
	if err != nil {
		if errors.Is(err, history.ErrSessionNotFound) {
			s.respondError(w, http.StatusNotFound, "Sesi tidak ditemukan")
			return
		}
		s.logger.Error("get chat detail failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to load chat history")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"status": statusSuccess, "data": messages})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chat.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.respondJSON(w, http.StatusOK, s.resolver.Resolve(r.Context(), req))
}

func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	id := s.newID()
	s.respondJSON(w, http.StatusOK, envelope{Status: statusSuccess, Data: map[string]string{"session_id": id}})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, envelope{Status: statusError, Message: message})
}
