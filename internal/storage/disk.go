package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Nrfhsa/Video-To-URL/internal/storage/name"
)

// DiskStore stores uploads as regular files in a single flat directory.
// There is no index: listing and purging re-read the directory on every
// call, and concurrent deletions of the same entry are benign.
type DiskStore struct {
	dir       string
	maxBytes  int64
	retention time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a DiskStore.
type Option func(*DiskStore)

// WithClock overrides the wall clock used for name generation and
// expiry checks. Intended for tests with compressed retention windows.
func WithClock(now func() time.Time) Option {
	return func(s *DiskStore) {
		s.now = now
	}
}

// NewDiskStore creates a DiskStore rooted at dir, creating the
// directory if it does not exist. maxBytes caps the size of a single
// upload and retention is the window after which files expire.
func NewDiskStore(dir string, maxBytes int64, retention time.Duration, logger *slog.Logger, opts ...Option) (*DiskStore, error) {
	if dir == "" {
		dir = filepath.Join("public", "videos")
	}
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}

	s := &DiskStore{
		dir:       dir,
		maxBytes:  maxBytes,
		retention: retention,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dir returns the upload directory path.
func (s *DiskStore) Dir() string {
	return s.dir
}

// Retention returns the configured retention window.
func (s *DiskStore) Retention() time.Duration {
	return s.retention
}

// Save persists one upload stream under a generated name. The declared
// content type is checked against the allow-list before any byte is
// written; a stream exceeding maxBytes stops writing, removes the
// partial file and returns ErrSizeExceeded. On any failure the
// directory is left unchanged.
func (s *DiskStore) Save(ctx context.Context, r io.Reader, declaredType, originalName string) (StoredFile, error) {
	select {
	case <-ctx.Done():
		return StoredFile{}, fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	if !AllowedType(declaredType) {
		return StoredFile{}, ErrInvalidType
	}

	fileName := name.Generate(originalName, s.now())
	path := filepath.Join(s.dir, fileName)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return StoredFile{}, fmt.Errorf("create file: %w", err)
	}

	// Reading one byte past the limit distinguishes an oversized stream
	// from one of exactly maxBytes.
	written, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return StoredFile{}, fmt.Errorf("write file: %w", err)
	}
	if written > s.maxBytes {
		_ = f.Close()
		_ = os.Remove(path)
		return StoredFile{}, ErrSizeExceeded
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return StoredFile{}, fmt.Errorf("close file: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		_ = os.Remove(path)
		return StoredFile{}, fmt.Errorf("stat file: %w", err)
	}

	mt, _, _ := mime.ParseMediaType(declaredType)
	created := info.ModTime()
	return StoredFile{
		Name:      fileName,
		Size:      info.Size(),
		MimeType:  mt,
		CreatedAt: created,
		ExpiresAt: created.Add(s.retention),
	}, nil
}

// List returns every stored file ordered newest first. The directory is
// re-read on every call. Entries that disappear between the scan and
// the stat (raced by the sweeper or an explicit delete) are silently
// omitted; stat work fans out per entry and joins before returning.
func (s *DiskStore) List(ctx context.Context) ([]StoredFile, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read upload directory: %w", err)
	}

	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		files = make([]StoredFile, 0, len(entries))
	)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		wg.Add(1)
		go func(fileName string) {
			defer wg.Done()
			info, err := os.Stat(filepath.Join(s.dir, fileName))
			if err != nil {
				// Raced by a concurrent delete; skip the entry.
				return
			}
			created := info.ModTime()
			mu.Lock()
			files = append(files, StoredFile{
				Name:      fileName,
				Size:      info.Size(),
				MimeType:  MimeTypeByExtension(filepath.Ext(fileName)),
				CreatedAt: created,
				ExpiresAt: created.Add(s.retention),
			})
			mu.Unlock()
		}(entry.Name())
	}
	wg.Wait()

	// Creation times have filesystem granularity, so same-instant
	// uploads are tie-broken by name to keep the order stable across
	// calls. Generated names sort the same way as their timestamps.
	sort.SliceStable(files, func(i, j int) bool {
		if !files[i].CreatedAt.Equal(files[j].CreatedAt) {
			return files[i].CreatedAt.After(files[j].CreatedAt)
		}
		return files[i].Name > files[j].Name
	})
	return files, nil
}

// Delete removes one named file. The remove is attempted directly and a
// missing file maps to ErrNotFound, so a concurrent deleter winning the
// race is indistinguishable from the file never existing.
func (s *DiskStore) Delete(ctx context.Context, fileName string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	if !ValidName(fileName) {
		return ErrNotFound
	}
	if err := os.Remove(filepath.Join(s.dir, fileName)); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

// DeleteAll removes every stored file, best-effort: a failure on one
// entry does not stop the others. It returns the number of files
// removed and the first error encountered, if any.
func (s *DiskStore) DeleteAll(ctx context.Context) (int, error) {
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("read upload directory: %w", err)
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		removed  int
		firstErr error
	)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		wg.Add(1)
		go func(fileName string) {
			defer wg.Done()
			err := os.Remove(filepath.Join(s.dir, fileName))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				removed++
			case os.IsNotExist(err):
				// Already gone, counts as done.
			default:
				if firstErr == nil {
					firstErr = fmt.Errorf("remove file %s: %w", fileName, err)
				}
				s.logger.Warn("failed to delete file",
					slog.String("file", fileName),
					slog.String("error", err.Error()),
				)
			}
		}(entry.Name())
	}
	wg.Wait()

	return removed, firstErr
}

// PurgeExpired deletes every file whose age has reached the retention
// window and returns the number deleted. Per-entry failures are logged
// and do not abort the scan.
func (s *DiskStore) PurgeExpired(ctx context.Context) (int, error) {
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("read upload directory: %w", err)
	}

	now := s.now()
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		purged int
	)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		wg.Add(1)
		go func(fileName string) {
			defer wg.Done()
			path := filepath.Join(s.dir, fileName)
			info, err := os.Stat(path)
			if err != nil {
				return
			}
			if now.Before(info.ModTime().Add(s.retention)) {
				return
			}
			if err := os.Remove(path); err != nil {
				if !os.IsNotExist(err) {
					s.logger.Warn("failed to remove expired file",
						slog.String("file", fileName),
						slog.String("error", err.Error()),
					)
				}
				return
			}
			s.logger.Info("cleaned up expired file", slog.String("file", fileName))
			mu.Lock()
			purged++
			mu.Unlock()
		}(entry.Name())
	}
	wg.Wait()

	return purged, nil
}

// ValidName reports whether fileName is a plain directory entry name
// that cannot escape the upload directory. The serving layer applies
// the same rule before touching the filesystem.
func ValidName(fileName string) bool {
	return fileName != "" &&
		fileName == filepath.Base(fileName) &&
		fileName != "." &&
		fileName != ".." &&
		!strings.ContainsAny(fileName, `/\`)
}
