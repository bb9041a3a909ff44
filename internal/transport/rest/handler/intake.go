package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/cache"
	"github.com/AndesAi-Repos/andes-ext-elder-market/internal/model"
)

// IntakeHandler accepts normalized inbound events from the webhook adapter
// and enqueues them for the worker pool. It performs no survey logic.
type IntakeHandler struct {
	queue cache.EventQueue
}

// NewIntakeHandler creates the handler.
func NewIntakeHandler(queue cache.EventQueue) *IntakeHandler {
	return &IntakeHandler{queue: queue}
}

// Enqueue validates and queues one event. The event id assigned here is
// what downstream duplicate detection keys on.
func (h *IntakeHandler) Enqueue(w http.ResponseWriter, r *http.Request) {
	var ev model.InboundEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if ev.RespondentID == "" {
		writeError(w, http.StatusBadRequest, "respondentId is required")
		return
	}
	switch ev.Kind {
	case model.EventText, model.EventInteractive:
		if ev.Content == "" {
			writeError(w, http.StatusBadRequest, "content is required")
			return
		}
	case model.EventAudio:
		if ev.MediaID == "" {
			writeError(w, http.StatusBadRequest, "mediaId is required")
			return
		}
	default:
		writeError(w, http.StatusBadRequest, "unknown event kind")
		return
	}

	if ev.EventID == "" {
		ev.EventID = uuid.New().String()
	}

	if err := h.queue.Enqueue(r.Context(), &ev); err != nil {
		log.Printf("[INTAKE] enqueue failed for %s: %v", ev.RespondentID, err)
		writeError(w, http.StatusServiceUnavailable, "queue unavailable")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"eventId": ev.EventID})
}
