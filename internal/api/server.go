// Package api отдаёт состояние системы и команды управления станциями
// по HTTP. Только локальный мониторинг, без аутентификации.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"linewatch/internal/application"
)

// Server — HTTP-обёртка над системой станций.
type Server struct {
	system *application.System
	http   *http.Server
	log    *slog.Logger
}

// NewServer создаёт сервер на addr.
func NewServer(addr string, system *application.System) *Server {
	s := &Server{
		system: system,
		log:    slog.Default().With("component", "api"),
	}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/api/stations/{id}", s.handleStation).Methods(http.MethodGet)
	r.HandleFunc("/api/stations/{id}/start", s.handleStart).Methods(http.MethodPost)
	r.HandleFunc("/api/stations/{id}/stop", s.handleStop).Methods(http.MethodPost)
	r.HandleFunc("/api/stations/{id}/snapshot", s.handleSnapshot).Methods(http.MethodGet)

	s.http = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Handler возвращает корневой обработчик (для тестов).
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run запускает сервер; блокируется до остановки.
func (s *Server) Run() error {
	s.log.Info("http server listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown мягко останавливает сервер.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.system.Status())
}

func (s *Server) handleStation(w http.ResponseWriter, r *http.Request) {
	st, ok := s.system.Station(mux.Vars(r)["id"])
	if !ok {
		s.writeError(w, http.StatusNotFound, "station not found")
		return
	}
	s.writeJSON(w, http.StatusOK, st.Status())
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	st, ok := s.system.Station(mux.Vars(r)["id"])
	if !ok {
		s.writeError(w, http.StatusNotFound, "station not found")
		return
	}
	if err := st.Start(); err != nil {
		s.writeError(w, http.StatusConflict, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, st.Status())
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	st, ok := s.system.Station(mux.Vars(r)["id"])
	if !ok {
		s.writeError(w, http.StatusNotFound, "station not found")
		return
	}
	st.Stop()
	s.writeJSON(w, http.StatusOK, st.Status())
}

// handleSnapshot отдаёт JPEG изображения из последней инспекции. Параметр
// image выбирает кадр (original, processed, visualization...), по умолчанию
// original.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	st, ok := s.system.Station(mux.Vars(r)["id"])
	if !ok {
		s.writeError(w, http.StatusNotFound, "station not found")
		return
	}
	result, ok := st.LastResult()
	if !ok {
		s.writeError(w, http.StatusNotFound, "no inspection result yet")
		return
	}

	name := r.URL.Query().Get("image")
	if name == "" {
		name = "original"
	}
	img, ok := result.Image(name)
	if !ok {
		s.writeError(w, http.StatusNotFound, "image not found in last result")
		return
	}

	data, err := img.EncodeJPEG(90)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encode response failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	s.writeJSON(w, code, map[string]string{"error": msg})
}
