package http

import (
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"wisdom-spin/internal/app"
	"wisdom-spin/internal/wheel"
)

const (
	minPNGSize = 64
	maxPNGSize = 1024

	// pointerHeader carries the id of the participant under the pointer.
	pointerHeader = "X-Wheel-Pointer"
)

// WheelHandler renders the current wheel of a session as PNG.
type WheelHandler struct {
	service *app.GameService
}

func NewWheelHandler(service *app.GameService) *WheelHandler {
	return &WheelHandler{service: service}
}

func (h *WheelHandler) ServePNG(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Session(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	participants := session.Participants()
	rotation := session.Wheel().Rotation
	geom := wheel.Layout(participants, pngSize(r.URL.Query().Get("size")))
	img, err := wheel.Render(geom, rotation)
	if err != nil {
		log.Printf("render wheel: %v", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if slice, ok := geom.SliceAt(rotation); ok {
		w.Header().Set(pointerHeader, participants[slice.Index].ID)
	}
	if err := wheel.EncodePNG(w, img); err != nil {
		log.Printf("encode wheel: %v", err)
	}
}

func pngSize(raw string) float64 {
	size, err := strconv.Atoi(raw)
	if err != nil {
		return wheel.MaxSize
	}
	if size < minPNGSize {
		size = minPNGSize
	}
	if size > maxPNGSize {
		size = maxPNGSize
	}
	return float64(size)
}
