package burn

import (
	"errors"
	"fmt"
)

// ErrChannelClosed is returned by Channel.Send once the consumer has stopped.
var ErrChannelClosed = errors.New("progress channel closed")

// Op names the step of a burn that failed.
type Op string

const (
	OpConfig Op = "config"
	OpStat   Op = "stat"
	OpOpen   Op = "open"
	OpRead   Op = "read"
	OpWrite  Op = "write"
	OpSync   Op = "sync"
	OpCancel Op = "cancel"
)

// Error is the failure carried by an Error event.
type Error struct {
	Op   Op
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("burn %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("burn %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
