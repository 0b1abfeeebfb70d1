package imagestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beautydb/backoffice/pkg/logger"
	"github.com/beautydb/backoffice/pkg/metrics"
	"github.com/beautydb/backoffice/pkg/storage"
	"github.com/robfig/cron/v3"
)

// References lists every image URL currently stored on an aggregate.
type References interface {
	ImageURLs(ctx context.Context) ([]string, error)
}

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Sweeper removes uploaded files that no aggregate references and that are
// older than grace. The grace period covers uploads whose request is still
// in flight.
type Sweeper struct {
	store *Store
	refs  References
	grace time.Duration
	sched *cron.Cron
	now   func() time.Time
}

func NewSweeper(store *Store, refs References, grace time.Duration) *Sweeper {
	return &Sweeper{store: store, refs: refs, grace: grace, now: time.Now}
}

// Sweep deletes orphans synchronously and reports how many were removed.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	urls, err := s.refs.ImageURLs(ctx)
	if err != nil {
		return 0, fmt.Errorf("imagestore: load references: %w", err)
	}

	disk := s.store.Disk()
	referenced := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		if key, ok := disk.PathFromURL(u); ok {
			referenced[key] = struct{}{}
		}
	}

	keys, err := disk.Files(ctx, s.store.Dir())
	if err != nil {
		return 0, fmt.Errorf("imagestore: list %s: %w", s.store.Dir(), err)
	}

	cutoff := s.now().Add(-s.grace)
	removed := 0
	for _, key := range keys {
		if _, ok := referenced[key]; ok {
			continue
		}
		modified, err := disk.LastModified(ctx, key)
		if errors.Is(err, storage.ErrNotExist) {
			continue
		}
		if err != nil {
			logger.Warn("imagestore: sweep stat failed", "key", key, "error", err)
			continue
		}
		if modified.After(cutoff) {
			continue
		}
		if err := disk.Delete(ctx, key); err != nil {
			logger.Error("imagestore: sweep delete failed", "key", key, "error", err)
			metrics.RecordCleanup("orphan", "failed")
			continue
		}
		metrics.RecordCleanup("orphan", "deleted")
		removed++
	}

	return removed, nil
}

// Start runs Sweep on the cron schedule spec.
func (s *Sweeper) Start(spec string) error {
	s.sched = cron.New(cron.WithParser(cronParser))
	_, err := s.sched.AddFunc(spec, func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("imagestore: sweep panicked", "panic", r)
			}
		}()
		n, err := s.Sweep(context.Background())
		if err != nil {
			logger.Error("imagestore: sweep failed", "error", err)
			return
		}
		logger.Info("imagestore: sweep finished", "removed", n)
	})
	if err != nil {
		return fmt.Errorf("imagestore: schedule %q: %w", spec, err)
	}
	s.sched.Start()
	return nil
}

// Stop halts the schedule and waits for a running sweep.
func (s *Sweeper) Stop() {
	if s.sched == nil {
		return
	}
	<-s.sched.Stop().Done()
}
