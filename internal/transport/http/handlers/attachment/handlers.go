package attachmenthandler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"opsconsole/internal/domain/attachment"
	"opsconsole/internal/transport/http/api"
	"opsconsole/internal/transport/http/middleware"
)

type Handler struct {
	Service *attachment.Service
}

func NewHandler(service *attachment.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attachments", func(r chi.Router) {
		r.Get("/quote/{quoteID}", h.handleList)
		r.Post("/quote/{quoteID}", h.handleUpload)
		// Drafts have no storage id yet; files are queued under the
		// client's temporary key and flushed when the quote is created.
		r.Post("/draft/{draftKey}", h.handleQueue)
		r.Get("/{attachmentID}/download", h.handleDownload)
		r.Delete("/{attachmentID}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	attachments, err := h.Service.List(r.Context(), chi.URLParam(r, "quoteID"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attachments_failed", "failed to list attachments", requestID)
		return
	}
	api.Success(w, attachments, requestID)
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	fileName, contentType, data, ok := readUpload(w, r, requestID)
	if !ok {
		return
	}

	uploaded, err := h.Service.Upload(r.Context(), chi.URLParam(r, "quoteID"), fileName, contentType, data)
	if err != nil {
		failUpload(w, err, requestID)
		return
	}
	api.Created(w, uploaded, requestID)
}

func (h *Handler) handleQueue(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	fileName, contentType, data, ok := readUpload(w, r, requestID)
	if !ok {
		return
	}

	draftKey := chi.URLParam(r, "draftKey")
	if err := h.Service.Queue(draftKey, fileName, contentType, data); err != nil {
		failUpload(w, err, requestID)
		return
	}
	api.Success(w, map[string]int{"pending": h.Service.PendingCount(draftKey)}, requestID)
}

func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	meta, data, err := h.Service.Open(r.Context(), chi.URLParam(r, "attachmentID"))
	if err != nil {
		if errors.Is(err, attachment.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "attachment_not_found", "attachment not found", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "attachment_download_failed", "failed to download attachment", requestID)
		return
	}
	w.Header().Set("Content-Type", meta.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(meta.SizeBytes, 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", meta.FileName))
	_, _ = w.Write(data)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "attachmentID")); err != nil {
		if errors.Is(err, attachment.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "attachment_not_found", "attachment not found", requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "attachment_delete_failed", "failed to delete attachment", requestID)
		return
	}
	api.Success(w, map[string]bool{"deleted": true}, requestID)
}

func readUpload(w http.ResponseWriter, r *http.Request, requestID string) (fileName, contentType string, data []byte, ok bool) {
	if err := r.ParseMultipartForm(attachment.MaxSizeBytes); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_upload", "invalid multipart upload", requestID)
		return "", "", nil, false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_upload", "file field is required", requestID)
		return "", "", nil, false
	}
	defer file.Close()

	contentType = header.Header.Get("Content-Type")
	// Reject on the declared type and size before reading the body, so
	// oversized or disallowed files never reach storage.
	if err := attachment.Validate(contentType, header.Size); err != nil {
		failUpload(w, err, requestID)
		return "", "", nil, false
	}

	data, err = io.ReadAll(file)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_upload", "failed to read upload", requestID)
		return "", "", nil, false
	}
	return header.Filename, contentType, data, true
}

func failUpload(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, attachment.ErrTypeNotAllowed):
		api.Fail(w, http.StatusUnsupportedMediaType, "type_not_allowed", err.Error(), requestID)
	case errors.Is(err, attachment.ErrTooLarge):
		api.Fail(w, http.StatusRequestEntityTooLarge, "file_too_large", err.Error(), requestID)
	case errors.Is(err, attachment.ErrEmptyFile):
		api.Fail(w, http.StatusBadRequest, "empty_file", err.Error(), requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "attachment_upload_failed", "failed to store attachment", requestID)
	}
}
