package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Harshitk-cp/homesense/internal/domain"
	"github.com/Harshitk-cp/homesense/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultProfileID = "default"

type SessionHandler struct {
	mgr    *service.SessionManager
	logger *zap.Logger
}

func NewSessionHandler(mgr *service.SessionManager, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{mgr: mgr, logger: logger}
}

type createSessionRequest struct {
	ProfileID string `json:"profile_id"`
}

type sessionResponse struct {
	ID            uuid.UUID                `json:"id"`
	ProfileID     string                   `json:"profile_id"`
	ProfileStatus domain.ProfileLoadStatus `json:"profile_status,omitempty"`
	Scene         domain.SceneState        `json:"scene"`
	History       []domain.Turn            `json:"history"`
}

type turnRequest struct {
	Input string `json:"input"`
}

type turnResponse struct {
	Result     domain.Result     `json:"result"`
	SceneEnded bool              `json:"scene_ended"`
	Recorded   []string          `json:"recorded,omitempty"`
	Scene      domain.SceneState `json:"scene"`
}

func toSessionResponse(s *service.Session) sessionResponse {
	return sessionResponse{
		ID:        s.ID,
		ProfileID: s.ProfileID,
		Scene:     s.Scene.State(),
		History:   s.History.Turns(),
	}
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if req.ProfileID == "" {
		req.ProfileID = DefaultProfileID
	}
	if !validProfileID(req.ProfileID) {
		writeError(w, http.StatusBadRequest, "invalid profile id")
		return
	}

	s, load, err := h.mgr.Create(r.Context(), req.ProfileID)
	if err != nil {
		h.logger.Error("failed to create session", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	resp := toSessionResponse(s)
	resp.ProfileStatus = load.Status
	writeJSON(w, http.StatusCreated, resp)
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	s, err := h.mgr.Get(r.Context(), id)
	if err != nil {
		h.writeSessionError(w, err, "failed to get session")
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(s))
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	if err := h.mgr.Delete(r.Context(), id); err != nil {
		h.writeSessionError(w, err, "failed to delete session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) Turn(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Input) == "" {
		writeError(w, http.StatusBadRequest, "input is required")
		return
	}

	out, s, err := h.mgr.Turn(r.Context(), id, req.Input)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		if s != nil && out == nil {
			writeFallbackError(w, h.logger, err)
			return
		}
		h.logger.Error("turn failed", zap.String("session_id", id.String()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to process turn")
		return
	}

	writeJSON(w, http.StatusOK, turnResponse{
		Result:     out.Result,
		SceneEnded: out.SceneEnded,
		Recorded:   out.Recorded,
		Scene:      s.Scene.State(),
	})
}

func (h *SessionHandler) EndScene(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	s, err := h.mgr.EndScene(r.Context(), id)
	if err != nil {
		h.writeSessionError(w, err, "failed to end scene")
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(s))
}

func (h *SessionHandler) writeSessionError(w http.ResponseWriter, err error, msg string) {
	if errors.Is(err, service.ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	h.logger.Error(msg, zap.Error(err))
	writeError(w, http.StatusInternalServerError, msg)
}

func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return uuid.Nil, false
	}
	return id, true
}
