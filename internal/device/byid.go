package device

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"go.uber.org/zap"
)

// DefaultByIDDir holds the udev stable-identity links on Linux.
const DefaultByIDDir = "/dev/disk/by-id"

var (
	byIDPattern = sync.OnceValue(func() *regexp.Regexp {
		return regexp.MustCompile(`^(?:mmc|usb)-([^_]*)_`)
	})
	byIDPartition = sync.OnceValue(func() *regexp.Regexp {
		return regexp.MustCompile(`-part[0-9]+$`)
	})
)

// PartitionPredicate reports whether a link name denotes a partition of a
// disk rather than the whole disk. Each naming convention needs its own rule.
type PartitionPredicate func(name string) bool

// IsByIDPartition is the udev by-id rule: partition links end in -partN.
func IsByIDPartition(name string) bool {
	return byIDPartition().MatchString(name)
}

// ByIDEnumerator scans a directory of udev by-id links for removable mmc and
// usb disks.
type ByIDEnumerator struct {
	Dir         string
	IsPartition PartitionPredicate
	Logger      *zap.Logger
}

// NewByIDEnumerator returns an enumerator over dir using the udev partition rule.
func NewByIDEnumerator(dir string, logger *zap.Logger) *ByIDEnumerator {
	if dir == "" {
		dir = DefaultByIDDir
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ByIDEnumerator{Dir: dir, IsPartition: IsByIDPartition, Logger: logger}
}

func (e *ByIDEnumerator) SupportsEnumeration() bool {
	return true
}

// Enumerate returns one Device per whole-disk link. Links that cannot be
// resolved or sized are skipped. A missing directory yields no devices.
func (e *ByIDEnumerator) Enumerate(ctx context.Context) ([]Device, error) {
	logger := e.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	entries, err := os.ReadDir(e.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug("device link directory missing", zap.String("dir", e.Dir))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", e.Dir, err)
	}

	var devices []Device
	seen := make(map[string]bool)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return devices, err
		}

		name, ok := e.match(entry.Name())
		if !ok {
			continue
		}

		link := filepath.Join(e.Dir, entry.Name())
		path, err := canonical(link)
		if err != nil {
			logger.Warn("skipping unresolvable device link", zap.String("link", link), zap.Error(err))
			continue
		}
		if seen[path] {
			continue
		}

		size, err := Size(path)
		if err != nil {
			logger.Warn("skipping device with unknown size", zap.String("path", path), zap.Error(err))
			continue
		}

		seen[path] = true
		devices = append(devices, Device{
			Name:   name,
			Path:   path,
			MBytes: uint64(size) / mebibyte,
		})
	}

	return devices, nil
}

func (e *ByIDEnumerator) match(name string) (string, bool) {
	isPartition := e.IsPartition
	if isPartition == nil {
		isPartition = IsByIDPartition
	}
	if isPartition(name) {
		return "", false
	}
	m := byIDPattern().FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	return m[1], true
}
