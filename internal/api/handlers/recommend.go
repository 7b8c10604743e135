package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Harshitk-cp/homesense/internal/domain"
	"github.com/Harshitk-cp/homesense/internal/service"
	"go.uber.org/zap"
)

type RecommendHandler struct {
	mgr    *service.SessionManager
	logger *zap.Logger
}

func NewRecommendHandler(mgr *service.SessionManager, logger *zap.Logger) *RecommendHandler {
	return &RecommendHandler{mgr: mgr, logger: logger}
}

type recommendRequest struct {
	Utterance string              `json:"utterance"`
	ProfileID string              `json:"profile_id,omitempty"`
	Profile   *domain.UserProfile `json:"profile,omitempty"`
}

type recommendResponse struct {
	Result        domain.Result            `json:"result"`
	ProfileStatus domain.ProfileLoadStatus `json:"profile_status"`
}

// Recommend answers one utterance without a session. The profile is taken
// from the body, else loaded by profile_id, else defaulted.
func (h *RecommendHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Utterance = strings.TrimSpace(req.Utterance)
	if req.Utterance == "" {
		writeError(w, http.StatusBadRequest, "utterance is required")
		return
	}

	var load domain.ProfileLoad
	switch {
	case req.Profile != nil:
		req.Profile.Normalize()
		load = domain.Loaded(req.Profile)
	case req.ProfileID != "":
		if !validProfileID(req.ProfileID) {
			writeError(w, http.StatusBadRequest, "invalid profile id")
			return
		}
		load = h.mgr.LoadProfile(r.Context(), req.ProfileID)
	default:
		load = domain.Defaulted(domain.ErrProfileNotFound)
	}

	result, err := h.mgr.RecommendOnce(r.Context(), req.Utterance, load.Profile)
	if err != nil {
		writeFallbackError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, recommendResponse{Result: result, ProfileStatus: load.Status})
}

func writeFallbackError(w http.ResponseWriter, logger *zap.Logger, err error) {
	if errors.Is(err, service.ErrFallbackUnavailable) {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	logger.Warn("recommendation failed", zap.Error(err))
	writeError(w, http.StatusBadGateway, "LLM fallback failed")
}
