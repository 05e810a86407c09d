package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sawa9885/roomcore/internal/signal"
)

// signalSummary is the wire shape for one learned signal. The raw code
// stays server-side; callers only need name, kind and frequency.
type signalSummary struct {
	Name         string   `json:"name"`
	Kind         string   `json:"kind"`
	FrequencyKHz *float64 `json:"frequency_khz,omitempty"`
	CodeBytes    int      `json:"code_bytes"`
}

// handleListSignals returns every learned signal, sorted by name.
//
// GET /api/v1/signals
func (s *Server) handleListSignals(w http.ResponseWriter, _ *http.Request) {
	names := s.signals.List()
	summaries := make([]signalSummary, 0, len(names))
	for _, name := range names {
		d, err := s.signals.Get(name)
		if err != nil {
			continue // deleted between List and Get
		}
		summaries = append(summaries, signalSummary{
			Name:         d.Name,
			Kind:         string(d.Kind),
			FrequencyKHz: d.FrequencyKHz,
			CodeBytes:    len(d.Code),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"signals": summaries})
}

// learnRequest is the body for POST /api/v1/signals/learn.
type learnRequest struct {
	Name         string   `json:"name"`
	Kind         string   `json:"kind"`
	FrequencyKHz *float64 `json:"frequency_khz,omitempty"`
}

// handleLearnSignal runs a learning session and persists the captured code.
//
// POST /api/v1/signals/learn
//
// The request blocks while the operator points the remote at the emitter,
// up to the configured learn timeout. Re-learning an existing name
// overwrites it.
func (s *Server) handleLearnSignal(w http.ResponseWriter, r *http.Request) {
	if s.learner == nil {
		writeConflict(w, "no emitter configured; signal store is read-only")
		return
	}

	var req learnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	kind, err := signal.ParseKind(req.Kind)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	d, err := s.learner.Learn(r.Context(), req.Name, kind, req.FrequencyKHz)
	switch {
	case errors.Is(err, signal.ErrInvalidName), errors.Is(err, signal.ErrFrequencyRequired):
		writeBadRequest(w, err.Error())
		return
	case errors.Is(err, signal.ErrLearnTimeout):
		writeError(w, http.StatusRequestTimeout, ErrCodeTimeout, "no signal captured before timeout")
		return
	case err != nil:
		writeInternalError(w, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, signalSummary{
		Name:         d.Name,
		Kind:         string(d.Kind),
		FrequencyKHz: d.FrequencyKHz,
		CodeBytes:    len(d.Code),
	})
}

// handleDeleteSignal removes a learned signal.
//
// DELETE /api/v1/signals/{name}
func (s *Server) handleDeleteSignal(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.signals.Delete(name); err != nil {
		if errors.Is(err, signal.ErrNotFound) {
			writeNotFound(w, err.Error())
			return
		}
		writeInternalError(w, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
