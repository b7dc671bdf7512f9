package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"wisdom-spin/internal/app"
	"wisdom-spin/internal/domain"
)

// NewRouter wires the HTTP API and the websocket endpoint.
func NewRouter(service *app.GameService) http.Handler {
	wsHandler := NewWSHandler(service)
	wheelHandler := NewWheelHandler(service)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/ws", wsHandler.ServeWS)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(15 * time.Second))
		r.Post("/sessions", createSession(service))
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", sessionSnapshot(service))
			r.Get("/round", sessionRound(service))
			r.Get("/leaderboard", sessionLeaderboard(service))
			r.Get("/wheel.png", wheelHandler.ServePNG)
		})
	})
	return r
}

type createSessionResponse struct {
	ID       string          `json:"id"`
	Language domain.Language `json:"language"`
}

func createSession(service *app.GameService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lang := negotiateLanguage(r)
		id, err := service.CreateSession(r.Context(), lang)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, createSessionResponse{ID: id, Language: lang})
	}
}

func sessionSnapshot(service *app.GameService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := service.Snapshot(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func sessionRound(service *app.GameService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, ok, err := service.Round(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func sessionLeaderboard(service *app.GameService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lb, err := service.Leaderboard(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, lb)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrParticipantNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidCategory), errors.Is(err, domain.ErrInvalidDifficulty), errors.Is(err, domain.ErrInvalidLanguage):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, errorPayload{Message: err.Error()})
}
