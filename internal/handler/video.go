package handler

import (
	"errors"
	"log"
	"net/http"

	"devhive/internal/httputil"
	"devhive/internal/model"
	"devhive/internal/service"
	"devhive/internal/transport/http/middleware"
)

type VideoHandler struct {
	videoService *service.VideoService
}

func NewVideoHandler(videoService *service.VideoService) *VideoHandler {
	return &VideoHandler{
		videoService: videoService,
	}
}

// Search handles GET /videos/search?q=...
// Proxies the search server-side so the API key stays out of clients.
func (h *VideoHandler) Search(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetSubjectFromContext(r.Context()); !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query().Get("q")

	result, err := h.videoService.Search(r.Context(), query)
	if err != nil {
		if errors.Is(err, model.ErrQueryRequired) {
			httputil.WriteBadRequest(w, "Query parameter 'q' is required")
			return
		}
		log.Printf("[ERROR] Video search handler: err=%v", err)
		httputil.WriteInternalError(w, "Failed to search videos")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}
