// Package api exposes the engine's command API over local HTTP for UI
// clients.
//
//   - POST /api/command – {"type": "...", ...} message, see engine.DecodeCommand
//   - GET  /api/state   – shortcut for the getState command
//   - POST /api/parse   – {"url": "..."} → parsed proxy fields
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"proxyswitch/internal/engine"
	"proxyswitch/internal/logger"
	"proxyswitch/internal/parser"
)

const maxBody = 64 << 10

type failure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Kind    string `json:"kind"`
}

type Server struct {
	engine *engine.Engine
	mux    *http.ServeMux
}

func New(e *engine.Engine) *Server {
	s := &Server{engine: e, mux: http.NewServeMux()}
	s.mux.HandleFunc("POST /api/command", s.handleCommand)
	s.mux.HandleFunc("GET /api/state", s.handleState)
	s.mux.HandleFunc("POST /api/parse", s.handleParse)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	logger.Log.Infof("Command API listening on http://%s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		writeError(w, err)
		return
	}
	cmd, err := engine.DecodeCommand(body)
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := s.engine.Dispatch(cmd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Snapshot())
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&req); err != nil {
		writeError(w, err)
		return
	}
	ep, err := parser.Parse(req.URL)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ep)
}

func statusFor(kind string) int {
	switch kind {
	case "NotFoundError":
		return http.StatusNotFound
	case "NoActiveProfileError":
		return http.StatusConflict
	case "PersistenceError":
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func writeError(w http.ResponseWriter, err error) {
	kind := engine.Kind(err)
	if kind == "InternalError" {
		// Body read and JSON syntax errors land here.
		kind = "ValidationError"
	}
	msg := err.Error()
	if errors.Is(err, engine.ErrUnknownCommand) {
		msg = "Unknown message type"
	}
	writeJSON(w, statusFor(kind), failure{Success: false, Error: msg, Kind: kind})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Warnf("api: encode response: %v", err)
	}
}
