// Command backend is a simulated LLM engine: it accepts the same
// /generate payload a real vLLM OpenAI-compatible server would and
// exposes a vllm:*-prefixed /metrics endpoint, so the balancer and
// perceptor can be exercised end to end without a GPU.
package main

import (
	"encoding/json"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Pranshu258/OpenPrequal/internal/config"
)

type generateRequest struct {
	Prompt      string                 `json:"prompt"`
	MaxTokens   int                    `json:"max_tokens"`
	Metadata    map[string]interface{} `json:"metadata"`
}

type generateResponse struct {
	Text []string `json:"text"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("backend: load config: %v", err)
	}
	logger, err := config.NewLogger(cfg, "backend")
	if err != nil {
		log.Fatalf("backend: setup logging: %v", err)
	}

	reg := prometheus.NewRegistry()
	bm := newBackendMetrics(reg)

	r := mux.NewRouter()
	r.HandleFunc("/generate", handleGenerate(bm, logger)).Methods(http.MethodPost)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	logger.Printf("simulated backend listening on %s", cfg.BackendAddr)
	logger.Fatal(http.ListenAndServe(cfg.BackendAddr, r))
}

func handleGenerate(bm *backendMetrics, logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		bm.begin()
		defer bm.end()

		// Simulate decode time with a random 50-200ms delay so the
		// perceptor's admission window has something real to project
		// against.
		delay := time.Duration(50+rand.Intn(150)) * time.Millisecond
		time.Sleep(delay)

		echoed := strings.Repeat("token ", minInt(req.MaxTokens, 32))
		resp := generateResponse{Text: []string{echoed}}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
