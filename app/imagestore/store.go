// Package imagestore keeps uploaded images on a storage disk and removes them
// once nothing references them.
//
// Uploads are written synchronously while a request is parsed. Deletions are
// fire-and-forget: they run on a bounded worker pool after the request's
// database work has finished, and their outcome is only logged and counted.
package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/beautydb/backoffice/pkg/logger"
	"github.com/beautydb/backoffice/pkg/metrics"
	"github.com/beautydb/backoffice/pkg/storage"
	"github.com/beautydb/backoffice/pkg/workerpool"
	"github.com/google/uuid"
)

// Slot names the form field an image was uploaded under.
type Slot string

const (
	PrimaryImage   Slot = "primary_image"
	SecondaryImage Slot = "secondary_image"
	ThirdImage     Slot = "third_image"
	BeforeImage    Slot = "before_image"
	AfterImage     Slot = "after_image"
	Image          Slot = "image"
)

// ErrUnsupportedType rejects uploads that are not images.
var ErrUnsupportedType = errors.New("imagestore: unsupported file type")

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".svg": true, ".avif": true,
}

// File is one stored upload.
type File struct {
	Slot Slot
	Key  string // path on the disk
	URL  string
}

// Uploads holds the files received with a single request.
type Uploads map[Slot]File

// Files returns every upload in u.
func (u Uploads) Files() []File {
	out := make([]File, 0, len(u))
	for _, f := range u {
		out = append(out, f)
	}
	return out
}

// Store saves and deletes image files on a disk.
type Store struct {
	disk    storage.Disk
	dir     string
	pool    *workerpool.Pool
	pending sync.WaitGroup
}

// New returns a Store writing below dir on disk with workers cleanup goroutines.
func New(disk storage.Disk, dir string, workers int) *Store {
	return &Store{
		disk: disk,
		dir:  strings.Trim(dir, "/"),
		pool: workerpool.New("image-cleanup", workers),
	}
}

// Disk exposes the underlying disk.
func (s *Store) Disk() storage.Disk { return s.disk }

// Dir is the directory uploads are written to.
func (s *Store) Dir() string { return s.dir }

// Save writes r under a fresh random name keeping filename's extension.
func (s *Store) Save(ctx context.Context, slot Slot, filename string, r io.Reader) (File, error) {
	ext := strings.ToLower(path.Ext(filename))
	if !imageExts[ext] {
		return File{}, fmt.Errorf("%w: %q", ErrUnsupportedType, filename)
	}

	key := path.Join(s.dir, uuid.NewString()+ext)
	if err := s.disk.Put(ctx, key, r); err != nil {
		return File{}, fmt.Errorf("imagestore: save %s: %w", slot, err)
	}

	return File{Slot: slot, Key: key, URL: s.disk.URL(key)}, nil
}

// URL is the public address of f.
func (s *Store) URL(f File) string {
	return s.disk.URL(f.Key)
}

// Discard schedules deletion of files uploaded by a request that failed.
func (s *Store) Discard(ctx context.Context, files ...File) {
	for _, f := range files {
		if f.Key == "" {
			continue
		}
		s.schedule(ctx, "discard", f.Key)
	}
}

// Delete schedules deletion of superseded or orphaned files by URL.
// Empty and foreign URLs are skipped.
func (s *Store) Delete(ctx context.Context, urls ...string) {
	for _, u := range urls {
		if u == "" {
			continue
		}
		key, ok := s.disk.PathFromURL(u)
		if !ok {
			logger.WithCtx(ctx).Warn("imagestore: url is not on this disk, skipping", "url", u)
			metrics.RecordCleanup("superseded", "skipped")
			continue
		}
		s.schedule(ctx, "superseded", key)
	}
}

func (s *Store) schedule(ctx context.Context, reason, key string) {
	ctx = context.WithoutCancel(ctx)
	s.pending.Add(1)
	s.pool.SubmitOrRun(func() {
		defer s.pending.Done()
		s.remove(ctx, reason, key)
	})
}

func (s *Store) remove(ctx context.Context, reason, key string) {
	log := logger.WithCtx(ctx).With("key", key, "reason", reason)

	exists, err := s.disk.Exists(ctx, key)
	if err == nil && !exists {
		log.Warn("imagestore: file already missing")
		metrics.RecordCleanup(reason, "missing")
		return
	}

	if err := s.disk.Delete(ctx, key); err != nil {
		log.Error("imagestore: delete failed", "error", err)
		metrics.RecordCleanup(reason, "failed")
		return
	}

	log.Debug("imagestore: file deleted")
	metrics.RecordCleanup(reason, "deleted")
}

// Wait blocks until every scheduled deletion has finished.
func (s *Store) Wait() {
	s.pending.Wait()
}

// Close waits for pending deletions and stops the cleanup workers.
func (s *Store) Close() {
	s.Wait()
	s.pool.Shutdown()
}
