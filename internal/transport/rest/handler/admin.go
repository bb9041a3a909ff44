package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/cache"
	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/catalog"
	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/model"
	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/repository"
	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/transport/rest/middleware"
)

// AdminHandler exposes the operator session controls that used to be chat
// commands: status, reset, and step jump. All routes sit behind operator
// auth; respondents cannot reach them.
type AdminHandler struct {
	repo         repository.SessionRepo
	sessionCache cache.SessionCache
	cat          *catalog.Catalog
}

// NewAdminHandler creates the handler.
func NewAdminHandler(repo repository.SessionRepo, sessionCache cache.SessionCache, cat *catalog.Catalog) *AdminHandler {
	return &AdminHandler{repo: repo, sessionCache: sessionCache, cat: cat}
}

// Status reports the respondent's latest session.
func (h *AdminHandler) Status(w http.ResponseWriter, r *http.Request) {
	respondentID := mux.Vars(r)["respondentId"]

	if h.sessionCache != nil {
		if cached, err := h.sessionCache.Get(r.Context(), respondentID); err == nil && cached != nil {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	session, err := h.repo.FindLatest(r.Context(), respondentID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if session == nil {
		writeError(w, http.StatusNotFound, "no session for respondent")
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Reset clears the respondent's session state so a fresh run can start.
// An active session is deleted; a completed one is archived.
func (h *AdminHandler) Reset(w http.ResponseWriter, r *http.Request) {
	respondentID := mux.Vars(r)["respondentId"]

	err := h.repo.ResetActive(r.Context(), respondentID)
	if errors.Is(err, model.ErrNoActiveSession) {
		writeError(w, http.StatusNotFound, "no active session")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "reset failed")
		return
	}

	if h.sessionCache != nil {
		h.sessionCache.Invalidate(r.Context(), respondentID)
	}
	log.Printf("[ADMIN] operator %s reset session for %s",
		middleware.GetOperatorID(r.Context()), respondentID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// JumpTo moves the active session's cursor to the requested step.
func (h *AdminHandler) JumpTo(w http.ResponseWriter, r *http.Request) {
	respondentID := mux.Vars(r)["respondentId"]

	var req struct {
		Step int `json:"step"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Step < 1 || req.Step > h.cat.Len() {
		writeError(w, http.StatusBadRequest, "step out of range")
		return
	}

	err := h.repo.JumpToStep(r.Context(), respondentID, req.Step)
	if errors.Is(err, model.ErrNoActiveSession) {
		writeError(w, http.StatusNotFound, "no active session")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "jump failed")
		return
	}

	if h.sessionCache != nil {
		h.sessionCache.Invalidate(r.Context(), respondentID)
	}
	log.Printf("[ADMIN] operator %s moved %s to step %d",
		middleware.GetOperatorID(r.Context()), respondentID, req.Step)
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "moved", "step": req.Step})
}
