// Package burn writes a raw disk image onto a device byte for byte and
// reports the lifecycle of the operation as a stream of Progress events.
package burn

import (
	"fmt"
	"slices"
)

// Setting toggles optional burn behavior.
type Setting int

const (
	// Verify computes a digest of every byte written and reports it on End.
	Verify Setting = iota
)

func (s Setting) String() string {
	switch s {
	case Verify:
		return "verify"
	default:
		return fmt.Sprintf("setting(%d)", int(s))
	}
}

// Config describes a single burn. It is consumed by exactly one Burn call.
type Config struct {
	// Device is the destination path: a block device node or a regular file.
	Device string
	// Image is the source image path.
	Image string
	// Settings holds the enabled options.
	Settings []Setting
	// Digest selects the hash used with Verify. Empty means SHA-256.
	Digest Algorithm
}

// Has reports whether s is enabled.
func (c Config) Has(s Setting) bool {
	return slices.Contains(c.Settings, s)
}

// Kind tags which variant a Progress value holds.
type Kind int

const (
	KindStart Kind = iota
	KindProgress
	KindEnd
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindProgress:
		return "progress"
	case KindEnd:
		return "end"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Progress is one event in the lifecycle of a burn. A burn emits Start, zero
// or more Progress, then exactly one End or Error, and nothing afterwards.
type Progress struct {
	Kind Kind
	// Count is the cumulative number of bytes durably written (Progress).
	Count int64
	// Total is the image size in bytes (Start, Progress).
	Total int64
	// Digest is the hash of the image stream (End, only with Verify).
	Digest []byte
	// Err is the failure (Error). It is always a *Error.
	Err error
}

// Terminal reports whether p ends the event stream.
func (p Progress) Terminal() bool {
	return p.Kind == KindEnd || p.Kind == KindError
}

func (p Progress) String() string {
	switch p.Kind {
	case KindStart:
		return fmt.Sprintf("start total=%d", p.Total)
	case KindProgress:
		return fmt.Sprintf("progress %d/%d", p.Count, p.Total)
	case KindEnd:
		if p.Digest == nil {
			return "end"
		}
		return fmt.Sprintf("end digest=%x", p.Digest)
	case KindError:
		return fmt.Sprintf("error: %v", p.Err)
	default:
		return p.Kind.String()
	}
}

func startEvent(total int64) Progress {
	return Progress{Kind: KindStart, Total: total}
}

func progressEvent(count, total int64) Progress {
	return Progress{Kind: KindProgress, Count: count, Total: total}
}

func endEvent(digest []byte) Progress {
	return Progress{Kind: KindEnd, Digest: digest}
}

func errorEvent(err *Error) Progress {
	return Progress{Kind: KindError, Err: err}
}
