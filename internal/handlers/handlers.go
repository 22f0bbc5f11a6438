package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gridironsim/mock-draft-service/internal/draft"
	"github.com/gridironsim/mock-draft-service/internal/logger"
	"github.com/gridironsim/mock-draft-service/internal/models"
	"github.com/gridironsim/mock-draft-service/internal/pubsub"
	"github.com/gridironsim/mock-draft-service/internal/session"
)

// APIHandlers contains all API handler methods.
type APIHandlers struct {
	manager *session.Manager
	pubsub  *pubsub.PubSub
}

// NewAPIHandlers creates a new API handlers instance.
func NewAPIHandlers(manager *session.Manager, ps *pubsub.PubSub) *APIHandlers {
	return &APIHandlers{
		manager: manager,
		pubsub:  ps,
	}
}

// GetDraftState returns the current draft snapshot.
func (h *APIHandlers) GetDraftState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.manager.State())
}

// GetAvailablePlayers returns the undrafted pool, rank-ordered. Supports
// ?position= and ?limit= query filters for dropdown rendering.
func (h *APIHandlers) GetAvailablePlayers(w http.ResponseWriter, r *http.Request) {
	position := r.URL.Query().Get("position")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = n
	}

	writeJSON(w, h.manager.Available(position, limit))
}

// GetSummary returns the full pick history in draft order.
func (h *APIHandlers) GetSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.manager.Summary())
}

// UserPick drafts a named player for the user's slot.
func (h *APIHandlers) UserPick(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Player string `json:"player"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Failed to decode user pick request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	logger.Info("User pick requested", "player", req.Player)
	result, err := h.manager.UserPick(req.Player)
	if err != nil {
		writePickError(w, err)
		return
	}

	h.publishPick(result)
	writeJSON(w, result)
}

// BotPick advances one bot pick. The request body is a PreferenceProfile; an
// empty body selects the basic best-available bot.
func (h *APIHandlers) BotPick(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var profile *models.PreferenceProfile
	var body models.PreferenceProfile
	switch err := json.NewDecoder(r.Body).Decode(&body); {
	case err == nil:
		profile = &body
	case errors.Is(err, io.EOF):
		// Empty body: basic best-available bot.
	default:
		logger.Warn("Failed to decode bot profile", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.manager.BotPick(profile)
	if err != nil {
		writePickError(w, err)
		return
	}

	logger.Info("Bot pick made",
		"overall_pick", result.OverallPick,
		"team", result.TeamName,
		"player", result.Player.Name,
		"position", result.Player.Position)

	h.publishPick(result)
	writeJSON(w, result)
}

// RestartDraft rebuilds the draft from the catalog source.
func (h *APIHandlers) RestartDraft(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	logger.Info("Restarting draft")
	if err := h.manager.Restart(r.Context()); err != nil {
		logger.Error("Failed to restart draft", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.pubsub.Publish(pubsub.Event{Type: pubsub.EventRestart})
	writeJSON(w, map[string]bool{"ok": true})
}

// publishPick emits the pick event, and a completion event when that pick
// ended the draft.
func (h *APIHandlers) publishPick(result session.PickResult) {
	h.pubsub.Publish(pubsub.Event{
		Type: pubsub.EventPick,
		Payload: map[string]interface{}{
			"overallPick": result.OverallPick,
			"round":       result.Round,
			"pickInRound": result.PickInRound,
			"team":        result.TeamName,
			"player":      result.Player.Name,
			"position":    result.Player.Position,
			"nflTeam":     result.Player.NFLTeam,
			"text": fmt.Sprintf("Pick #%d: %s drafted %s (%s - %s, ADP %.0f)",
				result.OverallPick, result.TeamName, result.Player.Name,
				result.Player.Position, result.Player.NFLTeam, result.Player.Rank),
		},
	})

	if h.manager.State().Finished {
		h.pubsub.Publish(pubsub.Event{Type: pubsub.EventComplete})
	}
}

// EventsSSE streams draft events to the presentation layer.
func (h *APIHandlers) EventsSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	eventChan := h.pubsub.Subscribe()
	defer h.pubsub.Unsubscribe(eventChan)

	fmt.Fprintf(w, "data: {\"type\":\"connected\"}\n\n")
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	for {
		select {
		case event := <-eventChan:
			data, _ := json.Marshal(event)
			fmt.Fprintf(w, "data: %s\n\n", data)
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		case <-r.Context().Done():
			logger.Debug("SSE client disconnected")
			return
		case <-time.After(30 * time.Second):
			fmt.Fprintf(w, ": keepalive\n\n")
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// writePickError maps engine errors to HTTP statuses. PlayerNotFound and
// PoolExhausted are soft results the caller recovers from; NotUsersTurn is a
// caller logic error.
func writePickError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, draft.ErrPlayerNotFound):
		status = http.StatusNotFound
	case errors.Is(err, draft.ErrPoolExhausted):
		status = http.StatusNotFound
	case errors.Is(err, draft.ErrNotUsersTurn):
		status = http.StatusConflict
	case errors.Is(err, draft.ErrDraftFinished):
		status = http.StatusConflict
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
