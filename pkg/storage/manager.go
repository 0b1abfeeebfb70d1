package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/beautydb/backoffice/config"
	"github.com/beautydb/backoffice/pkg/logger"
)

var (
	managerMu   sync.RWMutex
	disks       = map[string]Disk{}
	defaultDisk = "local"
)

// Connect boots the local disk and, when S3_BUCKET is set, the s3 disk.
// STORAGE_DISK picks the default.
func Connect(ctx context.Context) error {
	local := NewLocalDisk(config.StorageLocalRoot(), config.StorageURL())
	RegisterDisk("local", local)

	if config.StorageS3Bucket() != "" {
		d, err := NewS3Disk(ctx, S3Config{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
			BaseURL:  config.StorageS3URL(),
		})
		if err != nil {
			logger.Warn("storage: s3 disk disabled", "error", err)
		} else {
			RegisterDisk("s3", d)
		}
	}

	name := config.StorageDefault()
	managerMu.Lock()
	defer managerMu.Unlock()
	if _, ok := disks[name]; !ok {
		return fmt.Errorf("storage: default disk %q is not configured", name)
	}
	defaultDisk = name
	return nil
}

// Use returns the named disk.
func Use(name string) (Disk, error) {
	managerMu.RLock()
	d, ok := disks[name]
	managerMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: disk %q is not configured", name)
	}
	return d, nil
}

// Default returns the disk selected by STORAGE_DISK.
func Default() (Disk, error) {
	managerMu.RLock()
	name := defaultDisk
	managerMu.RUnlock()
	return Use(name)
}

// RegisterDisk plugs in a Disk under name, replacing any previous one.
func RegisterDisk(name string, d Disk) {
	managerMu.Lock()
	disks[name] = d
	managerMu.Unlock()
}
