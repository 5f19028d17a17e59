// Package device enumerates candidate target disks and resolves
// user-supplied identifiers to canonical device paths.
package device

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
)

const mebibyte = 1024 * 1024

// ErrUnsupported is returned by Enumerate on platforms without an
// enumeration backend.
var ErrUnsupported = errors.New("device enumeration is not supported on this platform")

// Device is one candidate target disk, observed at enumeration time.
type Device struct {
	// Name is the vendor/model token taken from the system naming scheme.
	Name string
	// Path is the canonical path of the block device node.
	Path string
	// MBytes is the capacity in mebibytes.
	MBytes uint64
}

// Bytes returns the capacity in bytes.
func (d Device) Bytes() uint64 {
	return d.MBytes * mebibyte
}

func (d Device) String() string {
	return fmt.Sprintf("%s (%s, %d MiB)", d.Name, d.Path, d.MBytes)
}

// Enumerator lists the whole-disk devices a burn may target.
type Enumerator interface {
	Enumerate(ctx context.Context) ([]Device, error)
	SupportsEnumeration() bool
}

type unsupported struct{}

func (unsupported) Enumerate(context.Context) ([]Device, error) {
	return nil, ErrUnsupported
}

func (unsupported) SupportsEnumeration() bool {
	return false
}

// Lookup returns the catalog entry whose path equals path.
func Lookup(devices []Device, path string) (Device, bool) {
	for _, d := range devices {
		if d.Path == path {
			return d, true
		}
	}
	return Device{}, false
}

func canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
