package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/Nrfhsa/Video-To-URL/internal/auth"
	"github.com/Nrfhsa/Video-To-URL/internal/storage"
)

// multipartMemory is the in-memory buffer for multipart parsing; larger
// parts spill to temporary files that are removed after the request.
const multipartMemory = 32 << 20

// maxBodyOverhead is the slack added on top of the file size limit for
// multipart boundaries and headers, so the store's own ceiling is the
// one that triggers on oversized files.
const maxBodyOverhead = 1 << 20

// Handlers contains the HTTP handlers for the service.
type Handlers struct {
	store       *storage.DiskStore
	gate        *auth.Gate
	logger      *slog.Logger
	maxBytes    int64
	development bool
}

// HandlerOption is a function that configures a Handlers instance.
type HandlerOption func(*Handlers)

// WithMaxUploadSize sets the upload size ceiling in bytes.
func WithMaxUploadSize(maxBytes int64) HandlerOption {
	return func(h *Handlers) {
		h.maxBytes = maxBytes
	}
}

// WithDevelopment toggles development mode. In development, raw error
// detail is included in 500 responses; in production it is suppressed.
func WithDevelopment(enabled bool) HandlerOption {
	return func(h *Handlers) {
		h.development = enabled
	}
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(store *storage.DiskStore, gate *auth.Gate, logger *slog.Logger, opts ...HandlerOption) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handlers{
		store:    store,
		gate:     gate,
		logger:   logger,
		maxBytes: 100 << 20,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Health handles GET /health requests.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Upload handles POST /upload requests carrying one multipart file part
// named "video".
func (h *Handlers) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+maxBodyOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeMessage(w, http.StatusRequestEntityTooLarge, h.sizeLimitMessage())
			return
		}
		writeMessage(w, http.StatusBadRequest, "Malformed upload request")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	stored, err := h.saveUpload(r)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNoFile):
			writeMessage(w, http.StatusBadRequest, "No file uploaded")
		case errors.Is(err, storage.ErrMultipleFiles):
			writeMessage(w, http.StatusBadRequest, "Only one file can be uploaded per request")
		case errors.Is(err, storage.ErrInvalidType):
			writeMessage(w, http.StatusBadRequest, "Invalid file type")
		case errors.Is(err, storage.ErrSizeExceeded):
			writeMessage(w, http.StatusRequestEntityTooLarge, h.sizeLimitMessage())
		default:
			h.serverError(w, r, "upload", err)
		}
		return
	}

	h.logger.Info("video uploaded",
		slog.String("file", stored.Name),
		slog.Int64("size", stored.Size),
		slog.String("client_ip", clientIP(r)),
	)

	writeJSON(w, http.StatusCreated, UploadResponse{
		Success:  true,
		Message:  "Upload successful",
		VideoURL: publicURL(r, stored.Name),
		FileInfo: FileInfo{
			Filename: stored.Name,
			Size:     stored.Size,
			MimeType: stored.MimeType,
		},
	})
}

// saveUpload extracts the single "video" part from the parsed multipart
// form and hands its stream to the store.
func (h *Handlers) saveUpload(r *http.Request) (storage.StoredFile, error) {
	parts := r.MultipartForm.File["video"]
	switch {
	case len(parts) == 0:
		return storage.StoredFile{}, storage.ErrNoFile
	case len(parts) > 1:
		return storage.StoredFile{}, storage.ErrMultipleFiles
	}

	part := parts[0]
	f, err := part.Open()
	if err != nil {
		return storage.StoredFile{}, fmt.Errorf("open upload part: %w", err)
	}
	defer func() { _ = f.Close() }()

	return h.store.Save(r.Context(), f, part.Header.Get("Content-Type"), part.Filename)
}

// Files handles GET /files requests. Gated by the API key.
func (h *Handlers) Files(w http.ResponseWriter, r *http.Request) {
	files, err := h.store.List(r.Context())
	if err != nil {
		h.serverError(w, r, "list files", err)
		return
	}

	entries := make([]FileEntry, 0, len(files))
	for _, f := range files {
		entries = append(entries, FileEntry{
			Filename:   f.Name,
			URL:        publicURL(r, f.Name),
			Size:       f.Size,
			UploadedAt: f.CreatedAt,
			ExpiresAt:  f.ExpiresAt,
			MimeType:   f.MimeType,
		})
	}

	writeJSON(w, http.StatusOK, ListResponse{
		Success: true,
		Count:   len(entries),
		Files:   entries,
	})
}

// Delete handles GET /delete?video=<name|all> requests. Gated by the
// API key.
func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	video := r.URL.Query().Get("video")
	if video == "" {
		writeMessage(w, http.StatusBadRequest, "Missing video parameter")
		return
	}

	if video == "all" {
		removed, err := h.store.DeleteAll(r.Context())
		if err != nil {
			h.logger.Error("delete all failed",
				slog.String("error", err.Error()),
				slog.Int("files_removed", removed),
				slog.String("client_ip", clientIP(r)),
			)
			resp := DeleteAllResponse{
				Success: false,
				Message: fmt.Sprintf("Delete operation failed, %d files deleted", removed),
				Count:   removed,
			}
			if h.development {
				resp.Error = err.Error()
			}
			writeJSON(w, http.StatusInternalServerError, resp)
			return
		}
		h.logger.Info("all files deleted",
			slog.Int("files_removed", removed),
			slog.String("client_ip", clientIP(r)),
		)
		writeJSON(w, http.StatusOK, DeleteAllResponse{
			Success: true,
			Message: "All files deleted successfully",
			Count:   removed,
		})
		return
	}

	if err := h.store.Delete(r.Context(), video); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "File not found")
			return
		}
		h.serverError(w, r, "delete", err)
		return
	}

	h.logger.Info("file deleted",
		slog.String("file", video),
		slog.String("client_ip", clientIP(r)),
	)
	writeMessage(w, http.StatusOK, "File deleted successfully")
}

// Video handles GET /video/{name} requests, serving a stored file.
func (h *Handlers) Video(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if !storage.ValidName(name) {
		writeMessage(w, http.StatusNotFound, "File not found")
		return
	}

	path := filepath.Join(h.store.Dir(), name)
	if _, err := os.Stat(path); err != nil {
		writeMessage(w, http.StatusNotFound, "File not found")
		return
	}

	w.Header().Set("X-Content-Type-Options", "nosniff")
	http.ServeFile(w, r, path)
}

// NotFound is the JSON catch-all for unknown routes.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusNotFound, "Route not found")
}

// RequireAPIKey wraps a handler with the shared-secret check. The key
// is read from the apikey query parameter or the X-API-Key header. A
// server without a configured key rejects everything with a
// configuration error rather than an authorization failure.
func (h *Handlers) RequireAPIKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		provided := r.URL.Query().Get("apikey")
		if provided == "" {
			provided = r.Header.Get("X-API-Key")
		}

		ok, err := h.gate.Authorize(provided)
		if err != nil {
			h.logger.Error("API key is not configured",
				slog.String("path", r.URL.Path),
				slog.String("client_ip", clientIP(r)),
			)
			writeMessage(w, http.StatusInternalServerError, "Server configuration error")
			return
		}
		if !ok {
			writeMessage(w, http.StatusForbidden, "Invalid API key")
			return
		}

		next(w, r)
	}
}

// serverError logs an internal failure and writes a 500 response,
// including raw detail only in development mode.
func (h *Handlers) serverError(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logger.Error(op+" failed",
		slog.String("error", err.Error()),
		slog.String("path", r.URL.Path),
		slog.String("client_ip", clientIP(r)),
	)

	resp := MessageResponse{Success: false, Message: "Internal Server Error"}
	if h.development {
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, resp)
}

func (h *Handlers) sizeLimitMessage() string {
	return fmt.Sprintf("File size exceeds %dMB limit", h.maxBytes>>20)
}

// publicURL reconstructs the serving URL for a stored file from the
// request context, honoring X-Forwarded-Proto behind a proxy.
func publicURL(r *http.Request, name string) string {
	scheme := "http"
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	} else if r.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/video/%s", scheme, r.Host, name)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeMessage writes a success/message response with the given status.
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, MessageResponse{
		Success: status < http.StatusBadRequest,
		Message: message,
	})
}
