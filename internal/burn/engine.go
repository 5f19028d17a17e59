package burn

import (
	"context"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultChunkSize is how much of the image is read, written and synced per step.
const DefaultChunkSize = 4 * 1024 * 1024

// terminalSendTimeout bounds delivery of the final Error once ctx is done,
// so a consumer that cancels and walks away does not strand the engine.
var terminalSendTimeout = 30 * time.Second

// Engine runs burns. The zero value is ready to use.
type Engine struct {
	// ChunkSize bounds each read/write/sync step. Zero means DefaultChunkSize.
	ChunkSize int
	// OpenDevice opens the destination. Nil means OpenDevice.
	OpenDevice func(path string) (Target, error)
	// OpenImage opens the source. Nil means os.Open.
	OpenImage func(path string) (io.ReadCloser, error)
	Logger    *zap.Logger
}

// Burn runs cfg with a default Engine.
func Burn(ctx context.Context, cfg Config, sink Sink) {
	(&Engine{}).Burn(ctx, cfg, sink)
}

// Burn streams cfg.Image onto cfg.Device and reports every step to sink.
// It returns nothing: all outcomes, failures included, are events. If sink
// has a CloseSend method it is called once no further events will be sent.
func (e *Engine) Burn(ctx context.Context, cfg Config, sink Sink) {
	if closer, ok := sink.(interface{ CloseSend() }); ok {
		defer closer.CloseSend()
	}

	r := &run{
		cfg:  cfg,
		sink: sink,
		logger: e.logger().With(
			zap.String("burn_id", uuid.NewString()),
			zap.String("image", cfg.Image),
			zap.String("device", cfg.Device),
		),
	}
	r.burn(ctx, e.chunkSize(), e.openImage(), e.openDevice())
}

func (e *Engine) chunkSize() int {
	if e.ChunkSize <= 0 {
		return DefaultChunkSize
	}
	return e.ChunkSize
}

func (e *Engine) openDevice() func(string) (Target, error) {
	if e.OpenDevice == nil {
		return OpenDevice
	}
	return e.OpenDevice
}

func (e *Engine) openImage() func(string) (io.ReadCloser, error) {
	if e.OpenImage == nil {
		return func(path string) (io.ReadCloser, error) { return os.Open(path) }
	}
	return e.OpenImage
}

func (e *Engine) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

type run struct {
	cfg    Config
	sink   Sink
	logger *zap.Logger

	image  io.ReadCloser
	device Target
}

// release closes the image and device handles. It is called before any
// terminal event is sent and is safe to call more than once. The returned
// error is the device's, since closing it may flush outstanding writes.
func (r *run) release() error {
	if r.image != nil {
		r.image.Close()
		r.image = nil
	}
	var err error
	if r.device != nil {
		err = r.device.Close()
		r.device = nil
	}
	return err
}

func (r *run) burn(ctx context.Context, chunkSize int, openImage func(string) (io.ReadCloser, error), openDevice func(string) (Target, error)) {
	defer r.release()

	var h hash.Hash
	if r.cfg.Has(Verify) {
		var err error
		if h, err = r.cfg.Digest.New(); err != nil {
			r.fail(ctx, &Error{Op: OpConfig, Err: err})
			return
		}
	}

	info, err := os.Stat(r.cfg.Image)
	if err != nil {
		r.fail(ctx, &Error{Op: OpStat, Path: r.cfg.Image, Err: err})
		return
	}
	if !info.Mode().IsRegular() {
		r.fail(ctx, &Error{Op: OpStat, Path: r.cfg.Image, Err: errors.New("not a regular file")})
		return
	}
	total := info.Size()

	image, err := openImage(r.cfg.Image)
	if err != nil {
		r.fail(ctx, &Error{Op: OpOpen, Path: r.cfg.Image, Err: err})
		return
	}
	r.image = image

	device, err := openDevice(r.cfg.Device)
	if err != nil {
		r.fail(ctx, &Error{Op: OpOpen, Path: r.cfg.Device, Err: err})
		return
	}
	r.device = device

	r.logger.Debug("burn started", zap.Int64("total", total), zap.Bool("verify", h != nil))
	if !r.send(ctx, startEvent(total)) {
		return
	}

	buf := make([]byte, chunkSize)
	var count int64
	for {
		if err := ctx.Err(); err != nil {
			r.fail(ctx, &Error{Op: OpCancel, Path: r.cfg.Device, Err: err})
			return
		}

		n, readErr := io.ReadFull(r.image, buf)
		if n > 0 {
			chunk := buf[:n]
			if h != nil {
				h.Write(chunk)
			}
			if opErr := writeChunk(r.device, chunk); opErr != nil {
				opErr.Path = r.cfg.Device
				r.fail(ctx, opErr)
				return
			}
			count += int64(n)
			if !r.send(ctx, progressEvent(count, total)) {
				return
			}
		}

		if readErr == nil {
			continue
		}
		if errors.Is(readErr, io.EOF) || errors.Is(readErr, io.ErrUnexpectedEOF) {
			break
		}
		r.fail(ctx, &Error{Op: OpRead, Path: r.cfg.Image, Err: readErr})
		return
	}

	if err := r.release(); err != nil {
		r.fail(ctx, &Error{Op: OpSync, Path: r.cfg.Device, Err: err})
		return
	}

	var digest []byte
	if h != nil {
		digest = h.Sum(nil)
	}
	r.logger.Info("burn finished", zap.Int64("bytes", count))
	r.send(ctx, endEvent(digest))
}

func writeChunk(device Target, chunk []byte) *Error {
	written, err := device.Write(chunk)
	if err == nil && written < len(chunk) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return &Error{Op: OpWrite, Err: fmt.Errorf("after %d of %d bytes: %w", written, len(chunk), err)}
	}
	if err := device.Sync(); err != nil {
		return &Error{Op: OpSync, Err: err}
	}
	return nil
}

// send reports whether the burn may continue. A stopped consumer ends the
// burn silently; a cancelled context ends it with an Error event.
func (r *run) send(ctx context.Context, p Progress) bool {
	err := r.sink.Send(ctx, p)
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		r.fail(ctx, &Error{Op: OpCancel, Path: r.cfg.Device, Err: err})
		return false
	}
	r.logger.Warn("progress consumer gone, abandoning burn", zap.Error(err))
	return false
}

// fail releases the handles and emits the terminal Error event. The send
// is detached from cancellation so a cancelled burn still reports why it
// stopped, but only waits terminalSendTimeout for a consumer.
func (r *run) fail(ctx context.Context, err *Error) {
	if closeErr := r.release(); closeErr != nil {
		r.logger.Debug("closing device after failure", zap.Error(closeErr))
	}
	r.logger.Warn("burn failed", zap.String("op", string(err.Op)), zap.Error(err.Err))

	sendCtx := context.WithoutCancel(ctx)
	if ctx.Err() != nil {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(sendCtx, terminalSendTimeout)
		defer cancel()
	}
	if sendErr := r.sink.Send(sendCtx, errorEvent(err)); sendErr != nil {
		r.logger.Debug("error event not delivered", zap.Error(sendErr))
	}
}
