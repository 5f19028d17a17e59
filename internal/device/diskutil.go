package device

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// CommandRunner runs an external tool and returns its standard output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// DiskutilEnumerator lists external physical disks reported by macOS diskutil.
type DiskutilEnumerator struct {
	Run    CommandRunner
	Logger *zap.Logger
}

// NewDiskutilEnumerator returns an enumerator backed by the diskutil binary.
func NewDiskutilEnumerator(logger *zap.Logger) *DiskutilEnumerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DiskutilEnumerator{Run: execRunner, Logger: logger}
}

func (e *DiskutilEnumerator) SupportsEnumeration() bool {
	return true
}

func (e *DiskutilEnumerator) Enumerate(ctx context.Context) ([]Device, error) {
	logger := e.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	run := e.Run
	if run == nil {
		run = execRunner
	}

	output, err := run(ctx, "diskutil", "list")
	if err != nil {
		return nil, fmt.Errorf("failed to run diskutil: %w", err)
	}

	var devices []Device
	for _, path := range parseDiskutilList(string(output)) {
		info, err := run(ctx, "diskutil", "info", path)
		if err != nil {
			logger.Warn("skipping disk without info", zap.String("path", path), zap.Error(err))
			continue
		}
		devices = append(devices, parseDiskutilInfo(path, string(info)))
	}

	return devices, nil
}

// parseDiskutilList returns the external whole-disk nodes in `diskutil list` output.
func parseDiskutilList(output string) []string {
	var paths []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "/dev/disk") || !strings.Contains(line, "external") {
			continue
		}
		if fields := strings.Fields(line); len(fields) > 0 {
			paths = append(paths, fields[0])
		}
	}
	return paths
}

func parseDiskutilInfo(path, output string) Device {
	d := Device{Path: path}
	var volume string

	for _, line := range strings.Split(output, "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)

		switch strings.TrimSpace(key) {
		case "Disk Size":
			if bytes, ok := diskutilBytes(value); ok {
				d.MBytes = bytes / mebibyte
			}
		case "Device / Media Name":
			d.Name = value
		case "Volume Name":
			if !strings.HasPrefix(value, "Not applicable") {
				volume = value
			}
		}
	}

	if d.Name == "" {
		d.Name = volume
	}
	if d.Name == "" {
		d.Name = strings.TrimPrefix(path, "/dev/")
	}
	return d
}

// diskutilBytes extracts N from a value like "31.9 GB (31914983424 Bytes) (...)".
func diskutilBytes(value string) (uint64, bool) {
	start := strings.Index(value, "(")
	if start == -1 {
		return 0, false
	}
	end := strings.Index(value[start:], " Bytes)")
	if end == -1 {
		return 0, false
	}
	n, err := strconv.ParseUint(value[start+1:start+end], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
