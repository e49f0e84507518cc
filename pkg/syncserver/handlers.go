package syncserver

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vango-go/routesync/internal/errors"
	"github.com/vango-go/routesync/pkg/router"
	"github.com/vango-go/routesync/pkg/routetable"
	"github.com/vango-go/routesync/pkg/store"
)

const maxTableBytes = 4 << 20

// MatchResponse is the body of GET /match.
type MatchResponse struct {
	Name   string            `json:"name"`
	Method string            `json:"method,omitempty"`
	Path   string            `json:"path"`
	Params map[string]string `json:"params,omitempty"`
}

// PathResponse is the body of GET /paths/{name}.
type PathResponse struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("ok"))
}

func (s *Server) handleGetRoutes(w http.ResponseWriter, r *http.Request) {
	state, err := s.State()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handlePutRoutes(w http.ResponseWriter, r *http.Request) {
	format := routetable.FormatJSON
	if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil {
		switch mt {
		case "application/yaml", "application/x-yaml", "text/yaml":
			format = routetable.FormatYAML
		}
	}

	table, err := routetable.Decode(io.LimitReader(r.Body, maxTableBytes), format)
	if err != nil {
		s.writeError(w, errors.New("R004").Wrap(err))
		return
	}
	if err := table.Validate(); err != nil {
		s.writeError(w, err)
		return
	}
	// Reject tables the router cannot build before they reach the store.
	if _, err := router.New(table); err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.Dispatch(store.ReceiveRoutesAction, table); err != nil {
		s.writeError(w, err)
		return
	}
	s.handleGetRoutes(w, r)
}

func (s *Server) handleMakePath(w http.ResponseWriter, r *http.Request) {
	rt := s.Router()
	if rt == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no routes loaded"})
		return
	}

	name := chi.URLParam(r, "name")
	params := make(map[string]any)
	for k, v := range r.URL.Query() {
		if len(v) == 1 {
			params[k] = v[0]
		} else {
			params[k] = v
		}
	}

	path, err := rt.MakePath(name, params)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PathResponse{Name: name, Path: path})
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	rt := s.Router()
	if rt == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no routes loaded"})
		return
	}

	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "path is required"})
		return
	}

	var opts []router.LookupOption
	if method := r.URL.Query().Get("method"); method != "" {
		opts = append(opts, router.WithMethod(method))
	}

	m, ok := rt.GetRoute(path, opts...)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no route matches " + path})
		return
	}
	writeJSON(w, http.StatusOK, MatchResponse{
		Name:   m.Name,
		Method: m.Route.MethodUpper(),
		Path:   m.Path,
		Params: m.Params,
	})
}

// writeError renders RouteErrors as their JSON form with a status derived
// from the code.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	re := errors.FromError(err, "")
	status := http.StatusInternalServerError
	switch re.Code {
	case "R004":
		status = http.StatusUnprocessableEntity
	case "R005":
		status = http.StatusNotFound
	case "R006", "R008", "R009", "R013":
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, re.FormatJSON())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
