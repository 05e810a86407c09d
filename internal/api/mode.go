package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sawa9885/roomcore/internal/room"
)

// handleHealth responds with service liveness and version.
//
// GET /api/v1/health
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"devices": s.orch.ControllerCount(),
	})
}

// modeResponse describes the room's mode state.
type modeResponse struct {
	InProgress  bool              `json:"in_progress"`
	Pending     int               `json:"pending"`
	LastOutcome *room.RoomOutcome `json:"last_outcome,omitempty"`
}

// handleGetMode returns the last room outcome and whether a change is in
// flight.
//
// GET /api/v1/mode
func (s *Server) handleGetMode(w http.ResponseWriter, _ *http.Request) {
	resp := modeResponse{
		InProgress: s.orch.InProgress(),
		Pending:    s.queue.Pending(),
	}
	if outcome, ok := s.orch.LastOutcome(); ok {
		resp.LastOutcome = &outcome
	}
	writeJSON(w, http.StatusOK, resp)
}

// setModeRequest is the body for POST /api/v1/mode.
type setModeRequest struct {
	Mode string `json:"mode"`
}

// handleSetMode enqueues a mode change.
//
// POST /api/v1/mode
//
// Returns 202 when queued: a mode change can block for over 30 seconds
// (screen travel), so the request never waits for the fan-out. Poll
// GET /api/v1/mode for the result.
func (s *Server) handleSetMode(w http.ResponseWriter, r *http.Request) {
	var req setModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	mode, err := room.ParseMode(req.Mode)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	queued, err := s.queue.Enqueue(mode, "api")
	switch {
	case errors.Is(err, room.ErrQueueClosed):
		writeError(w, http.StatusServiceUnavailable, ErrCodeInternal, "service shutting down")
		return
	case err != nil:
		writeInternalError(w, err.Error())
		return
	case !queued:
		writeConflict(w, "mode change queue is full")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"queued": true,
		"mode":   mode,
	})
}
