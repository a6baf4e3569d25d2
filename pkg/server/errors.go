package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/goliatone/go-builderkit/pkg/builders"
	"github.com/goliatone/go-builderkit/pkg/model"
	"github.com/goliatone/go-builderkit/pkg/presets"
	"github.com/goliatone/go-builderkit/pkg/render"
	"github.com/goliatone/go-builderkit/pkg/themes"
)

// ErrSessionNotFound is returned for unknown or removed session ids.
var ErrSessionNotFound = errors.New("server: session not found")

// errBadRequest marks malformed request bodies.
var errBadRequest = errors.New("server: bad request")

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, render.ErrUnknownFormat):
		return http.StatusBadRequest
	case errors.Is(err, ErrSessionNotFound),
		errors.Is(err, builders.ErrUnknownKind),
		errors.Is(err, render.ErrRendererNotFound),
		errors.Is(err, model.ErrUnknownField),
		errors.Is(err, presets.ErrPresetNotFound),
		errors.Is(err, themes.ErrThemeNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrFloorViolation),
		errors.Is(err, presets.ErrKindMismatch),
		errors.Is(err, render.ErrKindMismatch):
		return http.StatusConflict
	case errors.Is(err, model.ErrInvalidValue):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(err, "request failed")
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}
