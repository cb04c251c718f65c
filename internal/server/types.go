// Package server provides the HTTP surface for the video upload service.
// It includes handlers, middleware, routes, and DTOs separated from the
// storage core.
package server

import "time"

// FileInfo describes the stored upload in an upload response.
type FileInfo struct {
	// Filename is the generated storage name.
	Filename string `json:"filename"`
	// Size is the stored size in bytes.
	Size int64 `json:"size"`
	// MimeType is the declared content type of the upload.
	MimeType string `json:"mimetype"`
}

// UploadResponse is the HTTP response for a successful upload.
type UploadResponse struct {
	Success bool `json:"success"`
	Message string `json:"message"`
	// VideoURL is the public URL the stored file is served from.
	VideoURL string   `json:"videoUrl"`
	FileInfo FileInfo `json:"fileInfo"`
}

// FileEntry is one stored file in a listing response.
type FileEntry struct {
	Filename   string    `json:"filename"`
	URL        string    `json:"url"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploadedAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
	MimeType   string    `json:"mimetype"`
}

// ListResponse is the HTTP response for the file listing.
type ListResponse struct {
	Success bool        `json:"success"`
	Count   int         `json:"count"`
	Files   []FileEntry `json:"files"`
}

// DeleteAllResponse reports the aggregate outcome of a delete-all
// request. Count is the number of files removed, which is meaningful
// progress even when the batch only partially succeeded.
type DeleteAllResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count"`
	// Error carries raw error detail, only populated in development mode.
	Error string `json:"error,omitempty"`
}

// MessageResponse is the standard response for status and error messages.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	// Error carries raw error detail, only populated in development mode.
	Error string `json:"error,omitempty"`
}

// HealthResponse is the HTTP response for the health check endpoint.
type HealthResponse struct {
	// Status is the health status of the service.
	Status string `json:"status"`
}
