package dispatcher

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Pranshu258/OpenPrequal/internal/contracts"
	"github.com/Pranshu258/OpenPrequal/internal/message"
)

func TestDispatcherForwardsToTarget(t *testing.T) {
	bus := message.NewBus()
	own := bus.NewHandler("writer-dispatch")
	downstream := bus.NewHandler("writer")

	d := New("writer-dispatch", own, "writer", nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx, 5*time.Millisecond)

	require.NoError(t, own.Send(ctx, contracts.NewMessage(1, "demo", contracts.MsgRequest), "writer-dispatch"))

	deadline := time.After(time.Second)
	for {
		got, err := downstream.Recv(ctx)
		require.NoError(t, err)
		if len(got) > 0 {
			return
		}
		select {
		case <-deadline:
			t.Fatal("message was never forwarded")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
