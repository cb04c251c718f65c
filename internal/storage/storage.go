// Package storage implements the upload directory lifecycle: accepting
// video streams, listing stored files, deleting them on request, and
// purging entries that outlive the retention window. The directory is
// the only source of truth; every description of a stored file is
// derived from filesystem metadata at read time.
package storage

import (
	"errors"
	"mime"
	"strings"
	"time"
)

// Static errors returned by store operations. The HTTP layer maps these
// to status codes; only wrapped I/O errors are server faults.
var (
	// ErrInvalidType is returned when the declared content type is not an
	// accepted video container.
	ErrInvalidType = errors.New("storage: invalid file type")
	// ErrSizeExceeded is returned when an upload stream exceeds the
	// configured size limit.
	ErrSizeExceeded = errors.New("storage: file size limit exceeded")
	// ErrNoFile is returned when a request carries no file part.
	ErrNoFile = errors.New("storage: no file uploaded")
	// ErrMultipleFiles is returned when a request carries more than one
	// file part.
	ErrMultipleFiles = errors.New("storage: more than one file uploaded")
	// ErrNotFound is returned when the named file does not exist.
	ErrNotFound = errors.New("storage: file not found")
)

// StoredFile describes one file in the upload directory, computed from
// filesystem metadata at read time. Nothing about it is persisted
// outside the filename and the file itself.
type StoredFile struct {
	// Name is the generated storage name, unique within the directory.
	Name string
	// Size is the filesystem-reported size in bytes.
	Size int64
	// MimeType is inferred from the extension on listing, or taken from
	// the declared content type on upload.
	MimeType string
	// CreatedAt is the filesystem creation timestamp.
	CreatedAt time.Time
	// ExpiresAt is always CreatedAt plus the retention window.
	ExpiresAt time.Time
}

// allowedTypes is the fixed allow-list of accepted video containers.
var allowedTypes = map[string]struct{}{
	"video/mp4":        {},
	"video/webm":       {},
	"video/x-matroska": {},
}

// AllowedType reports whether the declared content type is an accepted
// video container. Media type parameters (e.g. codecs) are ignored.
func AllowedType(declared string) bool {
	mt, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return false
	}
	_, ok := allowedTypes[mt]
	return ok
}

// mimeByExt maps known extensions to the mimetype reported on listing.
var mimeByExt = map[string]string{
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
}

// MimeTypeByExtension returns the mimetype for a file extension,
// falling back to a generic binary type for unknown extensions.
func MimeTypeByExtension(ext string) string {
	if mt, ok := mimeByExt[strings.ToLower(ext)]; ok {
		return mt
	}
	return "application/octet-stream"
}
