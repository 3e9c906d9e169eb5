package balancer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pranshu258/OpenPrequal/internal/config"
	"github.com/Pranshu258/OpenPrequal/internal/perceptor"
)

func newTestServer(t *testing.T) *Server {
	tables := config.DefaultTables()
	tables.MaxTokens = 100000
	manager := perceptor.NewManager()
	p := perceptor.New("http://backend-1", tables, 100*time.Millisecond, nil, nil)
	manager.Register("http://backend-1", p, nil)

	agentModel := map[string]string{"Writer": "big-model"}
	modelURLs := ModelBackends{"big-model": {"http://backend-1"}}

	s := New(tables, manager, agentModel, modelURLs, nil, nil, nil)
	s.tickInterval = 5 * time.Millisecond
	return s
}

func TestAdmitResolvesBackend(t *testing.T) {
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	url, err := s.Admit(ctx, 1, "Writer", 10)
	require.NoError(t, err)
	assert.Equal(t, "http://backend-1", url)
}

func TestAdmitUnknownAgentErrors(t *testing.T) {
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	_, err := s.Admit(ctx, 1, "NoSuchAgent", 10)
	assert.Error(t, err)
}

func TestAdmitRespectsPriorityOrdering(t *testing.T) {
	s := newTestServer(t)
	s.agentModel["Router"] = "big-model"
	s.agentModel["Writer"] = "big-model"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results := make(chan string, 2)
	go func() {
		url, _ := s.Admit(ctx, 2, "Writer", 10)
		results <- "writer:" + url
	}()
	time.Sleep(10 * time.Millisecond)
	go func() {
		url, _ := s.Admit(ctx, 3, "Router", 10)
		results <- "router:" + url
	}()

	// Start dispatching only once both are queued: Writer arrived first,
	// but Router's lower priority value must put it at the head.
	require.Eventually(t, func() bool { return s.queue.Len() == 2 }, time.Second, time.Millisecond)
	go s.Run(ctx)

	first := <-results
	assert.Equal(t, "router:http://backend-1", first)
}
