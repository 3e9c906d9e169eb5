package agent

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pranshu258/OpenPrequal/internal/contracts"
	"github.com/Pranshu258/OpenPrequal/internal/message"
)

func TestBaseHandleCallsRunAndForwards(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":["hello world"]}`))
	}))
	defer srv.Close()

	bus := message.NewBus()
	self := bus.NewHandler("writer")
	next := bus.NewHandler("router")

	var gotCompletion string
	run := func(ctx context.Context, input map[string]interface{}, generate GenerateFunc) (map[string]interface{}, string, error) {
		completion, err := generate(ctx, "a prompt", map[string]interface{}{"agent_name": "Writer"})
		if err != nil {
			return nil, "", err
		}
		gotCompletion = completion
		return map[string]interface{}{"text": completion}, "router", nil
	}

	base := NewBase("writer", self, srv.URL, run, nil)

	msg := contracts.NewMessage(1, "demo", contracts.MsgRequest)
	msg.SetPayload(map[string]interface{}{"prompt": "hi"})
	base.handle(context.Background(), msg)

	assert.Equal(t, "hello world", gotCompletion)

	got, err := next.Recv(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "hello world", got[0].GetPayload()["text"])
}

func TestBaseServeDispatchesRequestMessages(t *testing.T) {
	bus := message.NewBus()
	self := bus.NewHandler("router")

	called := make(chan struct{}, 1)
	run := func(ctx context.Context, input map[string]interface{}, generate GenerateFunc) (map[string]interface{}, string, error) {
		called <- struct{}{}
		return map[string]interface{}{}, "", nil
	}

	base := NewBase("router", self, "http://unused", run, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go base.Serve(ctx, 5*time.Millisecond)

	require.NoError(t, self.Send(ctx, contracts.NewMessage(1, "demo", contracts.MsgRequest), "router"))

	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("run was never invoked")
	}
}
