package frontend

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pranshu258/OpenPrequal/internal/message"
)

func TestSendRequestUsesDataset(t *testing.T) {
	bus := message.NewBus()
	entry := bus.NewHandler("router")
	ds := NewStaticDataset(map[string][]map[string]interface{}{
		"qa": {{"question": "2+2"}},
	})
	f := New(bus.NewHandler("frontend"), ds, "test", t.TempDir(), nil)

	require.NoError(t, f.SendRequest(context.Background(), "qa", "router"))

	got, err := entry.Recv(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2+2", got[0].GetPayload()["question"])
}

func TestFlushWritesJSONTrail(t *testing.T) {
	bus := message.NewBus()
	dir := t.TempDir()
	f := New(bus.NewHandler("frontend"), NewStaticDataset(nil), "run1", dir, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	go f.FlushLoop(ctx, 5*time.Millisecond)
	<-ctx.Done()

	path := filepath.Join(dir, "msg_data_run1.json")
	body, err := os.ReadFile(path)
	require.NoError(t, err)
	var rows []completionRecord
	require.NoError(t, json.Unmarshal(body, &rows))
	assert.Empty(t, rows)
}
