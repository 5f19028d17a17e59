package burn

import (
	"context"
	"sync"
)

// Sink receives Progress events from a burn. Send blocks until the event is
// accepted, the consumer is gone (ErrChannelClosed) or ctx is done.
type Sink interface {
	Send(ctx context.Context, p Progress) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, p Progress) error

func (f SinkFunc) Send(ctx context.Context, p Progress) error {
	return f(ctx, p)
}

// Channel is an ordered single-producer single-consumer Progress stream.
// The engine sends and closes it; the consumer ranges over Events and may
// call Stop to abandon the burn.
type Channel struct {
	events    chan Progress
	stop      chan struct{}
	stopOnce  sync.Once
	closeOnce sync.Once
}

// NewChannel returns a Channel holding up to buffer undelivered events.
// A buffer of zero makes every send wait for the consumer.
func NewChannel(buffer int) *Channel {
	if buffer < 0 {
		buffer = 0
	}
	return &Channel{
		events: make(chan Progress, buffer),
		stop:   make(chan struct{}),
	}
}

// Send delivers p in order.
func (c *Channel) Send(ctx context.Context, p Progress) error {
	select {
	case <-c.stop:
		return ErrChannelClosed
	default:
	}

	select {
	case c.events <- p:
		return nil
	case <-c.stop:
		return ErrChannelClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Events is closed after the terminal event, or when the producer gives up.
func (c *Channel) Events() <-chan Progress {
	return c.events
}

// Stop tells the producer that nobody is listening any more.
func (c *Channel) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// CloseSend is called by the producer when it will send nothing further.
func (c *Channel) CloseSend() {
	c.closeOnce.Do(func() { close(c.events) })
}
