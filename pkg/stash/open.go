package stash

import (
	"path/filepath"

	"github.com/ArkLabsHQ/rgbnode/pkg/rgb"
)

// Backend names a stash storage implementation.
type Backend string

const (
	BackendDisk   Backend = "disk"
	BackendBadger Backend = "badger"
	BackendMemory Backend = "memory"
)

// ClosableStore is a Store holding resources that must be released.
type ClosableStore interface {
	Store
	Close() error
}

// Open opens the stash kept by backend under dataDir. The badger database
// lives in the "db" subdirectory.
func Open(backend Backend, dataDir string) (ClosableStore, error) {
	switch backend {
	case BackendDisk, "":
		return NewDiskStorage(DiskStorageConfig{DataDir: dataDir})
	case BackendBadger:
		return NewBadgerStorage(filepath.Join(dataDir, "db"))
	case BackendMemory:
		return NewMemStorage(), nil
	default:
		return nil, rgb.Errorf(rgb.ErrUnsupported, "unknown stash backend %q", backend)
	}
}

// Close is a no-op; records are never held open.
func (s *DiskStorage) Close() error { return nil }

// Close is a no-op.
func (s *MemStorage) Close() error { return nil }
