package handler

import (
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"devhive/internal/httputil"
	"devhive/internal/model"
	"devhive/internal/service"
	"devhive/internal/transport/http/middleware"
)

type MediaHandler struct {
	mediaService *service.MediaService
}

func NewMediaHandler(mediaService *service.MediaService) *MediaHandler {
	return &MediaHandler{
		mediaService: mediaService,
	}
}

type uploadFn func(r *http.Request, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error)

// UploadAvatar handles POST /media/avatar
// Accepts multipart form with an "avatar" field, normalized to 200x200 JPEG.
func (h *MediaHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, "avatar", model.MaxAvatarSizeBytes, func(r *http.Request, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error) {
		return h.mediaService.UploadAvatar(r.Context(), file, header)
	})
}

// UploadImage handles POST /media/images
// Accepts multipart form with an "image" field for post media.
func (h *MediaHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, "image", model.MaxUploadSizeBytes, func(r *http.Request, file multipart.File, header *multipart.FileHeader) (*model.UploadResult, error) {
		return h.mediaService.UploadImage(r.Context(), file, header)
	})
}

func (h *MediaHandler) upload(w http.ResponseWriter, r *http.Request, field string, maxSize int64, fn uploadFn) {
	if _, ok := middleware.GetSubjectFromContext(r.Context()); !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	maxFormSize := maxSize + 1024*1024 // allow form overhead
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			httputil.WriteBadRequest(w, "Content-Type must be multipart/form-data")
			return
		}
		if strings.Contains(err.Error(), "request body too large") {
			httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "File exceeds size limit")
			return
		}
		httputil.WriteBadRequest(w, "Invalid form data")
		return
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		httputil.WriteBadRequest(w, "Missing file field: "+field)
		return
	}
	defer file.Close()

	result, err := fn(r, file, header)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrFileTooLarge):
			httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "File exceeds size limit")
		case errors.Is(err, model.ErrInvalidImageType):
			httputil.WriteBadRequestWithCode(w, model.CodeInvalidImageType, "Unsupported image type. Allowed: jpeg, png, gif, webp")
		default:
			log.Printf("[ERROR] Upload handler: field=%s err=%v", field, err)
			httputil.WriteInternalError(w, "Failed to upload file")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, result)
}
