// Package balancer implements the memory-aware admission and placement
// front door: a priority dispatch loop that hands each waiting request
// off to the least-loaded backend willing to accept it, fronted by an
// HTTP surface compatible with the original balancer's /generate and
// /health routes.
package balancer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/Pranshu258/OpenPrequal/internal/config"
	"github.com/Pranshu258/OpenPrequal/internal/contracts"
	"github.com/Pranshu258/OpenPrequal/internal/metrics"
	"github.com/Pranshu258/OpenPrequal/internal/perceptor"
	"github.com/Pranshu258/OpenPrequal/internal/queue"
	"github.com/Pranshu258/OpenPrequal/internal/tokencount"
)

// ModelBackends maps a model name to the replica URLs serving it.
type ModelBackends map[string][]string

// Server is the balancer's admission + placement engine. It owns one
// dispatch goroutine that walks the priority queue every tick.
type Server struct {
	tables       *config.Tables
	manager      *perceptor.Manager
	agentModel   map[string]string
	modelURLs    ModelBackends
	exposition   *metrics.Exposition
	counter      *tokencount.Counter
	logger       *log.Logger
	tickInterval time.Duration

	queue *queue.PriorityDeque
}

// New builds a Server. agentModel resolves an agent name to the model it
// calls; modelURLs resolves a model to its candidate backend replicas;
// counter computes prompt_len the way the admission ledger expects it, in
// tokens rather than raw bytes.
func New(tables *config.Tables, manager *perceptor.Manager, agentModel map[string]string, modelURLs ModelBackends, exposition *metrics.Exposition, counter *tokencount.Counter, logger *log.Logger) *Server {
	return &Server{
		tables:       tables,
		manager:      manager,
		agentModel:   agentModel,
		modelURLs:    modelURLs,
		exposition:   exposition,
		counter:      counter,
		logger:       logger,
		tickInterval: 100 * time.Millisecond,
		queue:        queue.New(),
	}
}

// Admit enqueues a request and blocks until the dispatch loop resolves a
// backend for it or ctx is cancelled.
func (s *Server) Admit(ctx context.Context, msgID int64, agentName string, promptTokens int) (string, error) {
	priority := s.tables.PriorityFor(agentName)
	predicted := s.tables.PredictedDurationFor(agentName)

	req := contracts.NewAdmissionRequest(msgID, agentName, promptTokens, priority, predicted)
	s.queue.Append(req)

	select {
	case <-req.Done:
		return req.URL, req.Err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Release returns a request's reservation to the backend it ran on.
func (s *Server) Release(url string, msgID int64) {
	s.manager.Remove(url, msgID)
}

// Run drives the single dispatch loop: sort by priority, and only pop the
// head once it is admitted. A deferred head-of-line request blocks lower
// priority requests behind it from overtaking, by design (see the
// balancer's design notes on strict ordering).
func (s *Server) Run(ctx context.Context) {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.queue.Empty() {
				continue
			}
			s.queue.SortPriority()
			if s.exposition != nil {
				s.exposition.SetQueueSize(s.queue.Len())
			}

			head, ok := s.queue.PeekFront()
			if !ok {
				continue
			}

			urls := s.modelURLs[s.agentModel[head.AgentName]]
			if len(urls) == 0 {
				s.queue.PopLeft()
				head.Resolve("", fmt.Errorf("balancer: no backends configured for agent %q", head.AgentName))
				continue
			}

			url, ok := s.manager.TryAdd(urls, head.MsgID, head.PromptTokens, head.PredictedTime)
			if !ok {
				// Strict head-of-line blocking: nothing behind head may be
				// tried this tick.
				continue
			}

			s.queue.PopLeft()
			if s.exposition != nil {
				s.exposition.IncAdmitted()
			}
			head.Resolve(url, nil)
		}
	}
}

// HTTPHandler builds the mux.Router exposing /generate, /health and
// /metrics, matching the balancer's external contract.
func (s *Server) HTTPHandler(promHandler http.Handler) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/generate", s.handleGenerate).Methods(http.MethodPost)
	if promHandler != nil {
		r.Handle("/metrics", promHandler).Methods(http.MethodGet)
	}
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

type generateRequest struct {
	Prompt    string                 `json:"prompt"`
	Metadata  map[string]interface{} `json:"metadata"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	var req generateRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	agentName, _ := req.Metadata["agent_name"].(string)
	msgIDFloat, _ := req.Metadata["msg_id"].(float64)
	msgID := int64(msgIDFloat)

	promptTokens, err := s.counter.CountTokens(agentName, req.Prompt)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	url, err := s.Admit(r.Context(), msgID, agentName, promptTokens)
	if err != nil {
		if s.exposition != nil {
			s.exposition.IncRejected()
		}
		s.writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	defer s.Release(url, msgID)

	backendResp, err := http.Post(url+"/generate", "application/json", bytes.NewReader(raw))
	if err != nil {
		s.writeError(w, http.StatusBadGateway, err)
		return
	}
	defer backendResp.Body.Close()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(backendResp.StatusCode)
	_, _ = io.Copy(w, backendResp.Body)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
	if s.logger != nil {
		s.logger.Printf("balancer: request failed: %v", err)
	}
}
