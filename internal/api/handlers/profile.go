package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Harshitk-cp/homesense/internal/domain"
	"github.com/Harshitk-cp/homesense/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ProfileHandler struct {
	mgr    *service.SessionManager
	logger *zap.Logger
}

func NewProfileHandler(mgr *service.SessionManager, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{mgr: mgr, logger: logger}
}

type profileResponse struct {
	ID      string                   `json:"id"`
	Status  domain.ProfileLoadStatus `json:"status"`
	Reason  string                   `json:"reason,omitempty"`
	Profile *domain.UserProfile      `json:"profile"`
}

// Get returns the stored profile, or the default one with status "defaulted".
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validProfileID(id) {
		writeError(w, http.StatusBadRequest, "invalid profile id")
		return
	}

	load := h.mgr.LoadProfile(r.Context(), id)
	resp := profileResponse{ID: id, Status: load.Status, Profile: load.Profile}
	if load.Reason != nil {
		resp.Reason = load.Reason.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ProfileHandler) Put(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validProfileID(id) {
		writeError(w, http.StatusBadRequest, "invalid profile id")
		return
	}

	var p domain.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if p.Region != "" && p.Region != domain.RegionNorth && p.Region != domain.RegionSouth {
		writeError(w, http.StatusBadRequest, "region must be north or south")
		return
	}
	p.Normalize()

	if err := h.mgr.SaveProfile(r.Context(), id, &p); err != nil {
		h.logger.Error("failed to save profile", zap.String("profile_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save profile")
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{ID: id, Status: domain.ProfileLoaded, Profile: &p})
}
