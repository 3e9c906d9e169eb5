package message

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pranshu258/OpenPrequal/internal/contracts"
)

func TestChannelFromTarget(t *testing.T) {
	assert.Equal(t, "writer_topic", ChannelFromTarget("writer"))
}

func TestInMemoryHandlerSendRecv(t *testing.T) {
	bus := NewBus()
	writer := bus.NewHandler("writer")
	router := bus.NewHandler("router")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	msg := contracts.NewMessage(1, "demo", contracts.MsgRequest)
	require.NoError(t, router.Send(ctx, msg, "writer"))

	got, err := writer.Recv(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)

	timings := got[0].ActionTimings()
	var sawSend, sawRecv bool
	for _, at := range timings {
		if at.Action == "send to writer" {
			sawSend = true
		}
		if at.Action == "recv" {
			sawRecv = true
		}
	}
	assert.True(t, sawSend)
	assert.True(t, sawRecv)
}

func TestInMemoryHandlerRecvEmpty(t *testing.T) {
	bus := NewBus()
	h := bus.NewHandler("idle")
	got, err := h.Recv(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestInMemoryHandlerPreservesOrder(t *testing.T) {
	bus := NewBus()
	sender := bus.NewHandler("sender")
	receiver := bus.NewHandler("receiver")
	ctx := context.Background()

	for i := int64(0); i < 5; i++ {
		require.NoError(t, sender.Send(ctx, contracts.NewMessage(i, "svc", contracts.MsgRequest), "receiver"))
	}

	got, err := receiver.Recv(ctx)
	require.NoError(t, err)
	require.Len(t, got, 5)
	for i, m := range got {
		assert.Equal(t, int64(i), m.ID)
	}
}
