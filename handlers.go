package main

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is the HTTP dispatcher. Each request runs one session command.
type Server struct {
	store   *Store
	journal *Journal
	metrics *Metrics
	log     *slog.Logger
	now     func() time.Time
}

func NewServer(store *Store, journal *Journal, m *Metrics, logger *slog.Logger) *Server {
	return &Server{store: store, journal: journal, metrics: m, log: logger.With("component", "http"), now: time.Now}
}

// Router wires every route; gatherer may be nil to skip /metrics.
func (s *Server) Router(gatherer prometheus.Gatherer) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/sessions", s.getSessions).Methods(http.MethodGet)
	r.HandleFunc("/sessions", s.postSession).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{sessionId}", s.getSession).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{sessionId}", s.deleteSession).Methods(http.MethodDelete)
	r.HandleFunc("/sessions/{sessionId}/journal", s.getJournal).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{sessionId}/{action:play|reserve|use|swap|invert|undo}", s.postAction).Methods(http.MethodPost)

	// Simple health check
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}
	return r
}

// JSON helpers
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps command errors to HTTP statuses. Every core failure is a
// recoverable precondition, so they all become 409.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEmptyQueue), errors.Is(err, ErrStackFull), errors.Is(err, ErrStackEmpty),
		errors.Is(err, ErrNothingToSwap), errors.Is(err, ErrNoSnapshot), errors.Is(err, ErrSnapshotMismatch):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// POST /sessions {"seed": 42}
// Body is optional.
func (s *Server) postSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	id, view := s.store.Create(req.Seed)
	s.metrics.setSessions(s.store.Len())
	s.log.Info("session started", "session", id)
	writeJSON(w, http.StatusCreated, startSessionResponse{ID: id, State: toSessionResponse(view)})
}

func (s *Server) getSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Summaries())
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.store.View(mux.Vars(r)["sessionId"])
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(view))
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["sessionId"]
	if err := s.store.Delete(id); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	s.metrics.setSessions(s.store.Len())
	w.WriteHeader(http.StatusNoContent)
}

// POST /sessions/{id}/{action}
func (s *Server) postAction(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, action := vars["sessionId"], vars["action"]

	var resp actionResponse
	err := s.store.Do(id, func(sess *Session) error {
		res, err := runAction(sess, action)
		resp = actionResponse{Action: action, State: toSessionResponse(sess.View())}
		if res.piece != nil {
			pv := toPieceView(*res.piece)
			resp.Piece = &pv
		}
		if action == "invert" {
			resp.Moved = &res.moved
		}
		return err
	})
	if errors.Is(err, ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.metrics.observeAction(action, err)
	s.journal.Enqueue(s.moveEvent(id, action, resp, err))
	if err != nil {
		s.log.Debug("command rejected", "session", id, "action", action, "error", err)
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) moveEvent(id, action string, resp actionResponse, err error) MoveEvent {
	ev := MoveEvent{SessionID: id, Action: action, Result: resultLabel(err), At: s.now().UTC()}
	if resp.Piece != nil {
		ev.PieceKind, ev.PieceID = resp.Piece.Kind, resp.Piece.ID
	}
	if resp.Moved != nil {
		ev.Moved = *resp.Moved
	}
	return ev
}

// GET /sessions/{id}/journal?limit=50
func (s *Server) getJournal(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		writeError(w, http.StatusNotImplemented, "database not configured")
		return
	}
	limit := 50
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	events, err := s.journal.Recent(r.Context(), mux.Vars(r)["sessionId"], limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, events)
}
