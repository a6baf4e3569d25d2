package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goliatone/go-builderkit/pkg/export"
	"github.com/goliatone/go-builderkit/pkg/model"
	"github.com/goliatone/go-builderkit/pkg/render"
	"github.com/goliatone/go-builderkit/pkg/shell"
)

const maxBodyBytes = 64 << 10

// Handler returns the HTTP API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServerFS(AssetsFS())))
	mux.HandleFunc("GET /api/kinds", s.handleKinds)
	mux.HandleFunc("GET /api/themes", s.handleThemes)
	mux.HandleFunc("GET /api/presets/{kind}", s.handlePresets)

	mux.HandleFunc("POST /api/sessions", s.handleCreate)
	mux.HandleFunc("GET /api/sessions/{id}", s.withShell(s.handleGet))
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDelete)
	mux.HandleFunc("PUT /api/sessions/{id}/fields/{name}", s.withShell(s.handleSetField))
	mux.HandleFunc("POST /api/sessions/{id}/lists/{name}", s.withShell(s.handleAddItem))
	mux.HandleFunc("DELETE /api/sessions/{id}/lists/{name}/{index}", s.withShell(s.handleRemoveItem))
	mux.HandleFunc("PUT /api/sessions/{id}/lists/{name}/{index}/{sub}", s.withShell(s.handleSetItem))
	mux.HandleFunc("POST /api/sessions/{id}/reset", s.withShell(s.handleReset))
	mux.HandleFunc("POST /api/sessions/{id}/preview/toggle", s.withShell(s.handleToggle))
	mux.HandleFunc("POST /api/sessions/{id}/presets/{name}", s.withShell(s.handleApplyPreset))
	mux.HandleFunc("POST /api/sessions/{id}/themes/{name}", s.withShell(s.handleApplyTheme))
	mux.HandleFunc("GET /api/sessions/{id}/preview", s.withShell(s.handlePreview))
	mux.HandleFunc("GET /api/sessions/{id}/download/{format}", s.withShell(s.handleDownload))
	mux.HandleFunc("GET /api/sessions/{id}/live", s.handleLive)
	return mux
}

type shellHandler func(w http.ResponseWriter, r *http.Request, id string, sh *shell.Shell)

func (s *Server) withShell(next shellHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		sh, err := s.Shell(id)
		if err != nil {
			s.writeError(w, err)
			return
		}
		next(w, r, id, sh)
	}
}

type kindView struct {
	Name   string `json:"name"`
	Title  string `json:"title"`
	Fields int    `json:"fields"`
}

func (s *Server) handleKinds(w http.ResponseWriter, _ *http.Request) {
	kinds := s.catalog.Kinds()
	views := make([]kindView, len(kinds))
	for i, k := range kinds {
		views[i] = kindView{Name: k.Name, Title: k.Schema.Title, Fields: len(k.Schema.Fields)}
	}
	writeJSON(w, http.StatusOK, views)
}

type themeView struct {
	Name     string   `json:"name"`
	Variants []string `json:"variants"`
}

func (s *Server) handleThemes(w http.ResponseWriter, _ *http.Request) {
	names := s.themes.Names()
	views := make([]themeView, len(names))
	for i, name := range names {
		views[i] = themeView{Name: name, Variants: s.themes.Variants(name)}
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("kind")
	if _, err := s.catalog.Lookup(kind); err != nil {
		s.writeError(w, err)
		return
	}
	names := s.presets.Names(kind)
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

type createRequest struct {
	Kind    string `json:"kind"`
	Preset  string `json:"preset"`
	Theme   string `json:"theme"`
	Variant string `json:"variant"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Kind == "" {
		s.writeError(w, fmt.Errorf("%w: kind is required", errBadRequest))
		return
	}
	id, err := s.CreateSession(req.Kind, req.Preset)
	if err != nil {
		s.writeError(w, err)
		return
	}
	sh, err := s.Shell(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if req.Theme != "" {
		if err := s.applyTheme(sh, req.Theme, req.Variant); err != nil {
			_ = s.RemoveSession(id)
			s.writeError(w, err)
			return
		}
	}
	w.Header().Set("Location", "/api/sessions/"+id)
	writeJSON(w, http.StatusCreated, sessionView(id, sh))
}

func (s *Server) handleGet(w http.ResponseWriter, _ *http.Request, id string, sh *shell.Shell) {
	writeJSON(w, http.StatusOK, sessionView(id, sh))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.RemoveSession(r.PathValue("id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type valueRequest struct {
	Value any `json:"value"`
}

func (s *Server) handleSetField(w http.ResponseWriter, r *http.Request, id string, sh *shell.Shell) {
	raw, err := decodeValue(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, id, sh, sh.SetString(r.PathValue("name"), raw))
}

func (s *Server) handleSetItem(w http.ResponseWriter, r *http.Request, id string, sh *shell.Shell) {
	index, err := pathIndex(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	raw, err := decodeValue(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, id, sh, sh.SetItemString(r.PathValue("name"), index, r.PathValue("sub"), raw))
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request, id string, sh *shell.Shell) {
	s.respond(w, id, sh, sh.AddItem(r.PathValue("name")))
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request, id string, sh *shell.Shell) {
	index, err := pathIndex(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respond(w, id, sh, sh.RemoveItem(r.PathValue("name"), index))
}

func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request, id string, sh *shell.Shell) {
	s.respond(w, id, sh, sh.Reset())
}

func (s *Server) handleToggle(w http.ResponseWriter, _ *http.Request, id string, sh *shell.Shell) {
	sh.TogglePreview()
	s.respond(w, id, sh, nil)
}

func (s *Server) handleApplyPreset(w http.ResponseWriter, r *http.Request, id string, sh *shell.Shell) {
	preset, err := s.presets.Lookup(sh.Kind().Name, r.PathValue("name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := sh.ApplyPreset(preset); err != nil {
		s.writeError(w, err)
		return
	}
	s.bindPreset(id, preset.Name)
	s.respond(w, id, sh, nil)
}

func (s *Server) handleApplyTheme(w http.ResponseWriter, r *http.Request, id string, sh *shell.Shell) {
	err := s.applyTheme(sh, r.PathValue("name"), r.URL.Query().Get("variant"))
	s.respond(w, id, sh, err)
}

func (s *Server) applyTheme(sh *shell.Shell, name, variant string) error {
	palette, err := s.themes.Resolve(name, variant)
	if err != nil {
		return err
	}
	return sh.ApplyTheme(palette)
}

func (s *Server) handlePreview(w http.ResponseWriter, _ *http.Request, _ string, sh *shell.Shell) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'; img-src data: https:")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, sh.PreviewDocument())
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request, _ string, sh *shell.Shell) {
	format, err := render.ParseFormat(r.PathValue("format"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	text := sh.Output().Text(format)
	if err := export.WriteAttachment(w, export.Filename(sh.Kind().Name, format), format, text); err != nil {
		s.logger.Error(err, "download failed")
	}
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed: " + err.Error())
		return
	}
	sess.hub.serve(conn, func() []byte {
		return renderMessage(sess.shell.Snapshot())
	})
}

// respond writes the session view on success, or maps err to a status. A
// rejected edit leaves the session as it was.
func (s *Server) respond(w http.ResponseWriter, id string, sh *shell.Shell, err error) {
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionView(id, sh))
}

func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// decodeValue reads {"value": ...} and returns the raw text form the model
// parses. JSON numbers and booleans are accepted as well as strings.
func decodeValue(r *http.Request) (string, error) {
	var req valueRequest
	if err := decode(r, &req); err != nil {
		return "", err
	}
	switch v := req.Value.(type) {
	case string:
		return v, nil
	case float64:
		return model.FormatNumber(v), nil
	case bool:
		return strconv.FormatBool(v), nil
	case nil:
		return "", fmt.Errorf("%w: value is required", errBadRequest)
	default:
		return "", fmt.Errorf("%w: value must be a string, number or boolean", errBadRequest)
	}
}

func pathIndex(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.PathValue("index"))
	index, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: index %q is not an integer", errBadRequest, raw)
	}
	return index, nil
}
