package burn

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChannel_OrderedDelivery(t *testing.T) {
	ch := NewChannel(4)
	ctx := context.Background()

	want := []Progress{startEvent(3), progressEvent(1, 3), progressEvent(3, 3), endEvent(nil)}
	go func() {
		for _, p := range want {
			assert.NoError(t, ch.Send(ctx, p))
		}
		ch.CloseSend()
	}()

	var got []Progress
	for p := range ch.Events() {
		got = append(got, p)
	}
	assert.Equal(t, want, got)
}

func TestChannel_SendAfterStop(t *testing.T) {
	ch := NewChannel(8)
	ch.Stop()
	ch.Stop()

	err := ch.Send(context.Background(), startEvent(1))
	assert.ErrorIs(t, err, ErrChannelClosed)
}

func TestChannel_SendCancelled(t *testing.T) {
	ch := NewChannel(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ch.Send(ctx, startEvent(1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestChannel_CloseSendIdempotent(t *testing.T) {
	ch := NewChannel(1)
	ch.CloseSend()
	ch.CloseSend()

	_, ok := <-ch.Events()
	assert.False(t, ok)
}

func TestProgress_Terminal(t *testing.T) {
	assert.False(t, startEvent(1).Terminal())
	assert.False(t, progressEvent(1, 1).Terminal())
	assert.True(t, endEvent(nil).Terminal())
	assert.True(t, errorEvent(&Error{Op: OpRead}).Terminal())
}

func TestConfig_Has(t *testing.T) {
	assert.True(t, Config{Settings: []Setting{Verify}}.Has(Verify))
	assert.False(t, Config{}.Has(Verify))
}
