// Command balancer runs the memory-aware admission and placement front
// door: one perceptor per backend replica, a priority dispatch loop, and
// the /generate, /health and /metrics HTTP surface.
package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Pranshu258/OpenPrequal/internal/balancer"
	"github.com/Pranshu258/OpenPrequal/internal/config"
	"github.com/Pranshu258/OpenPrequal/internal/metrics"
	"github.com/Pranshu258/OpenPrequal/internal/perceptor"
	"github.com/Pranshu258/OpenPrequal/internal/tokencount"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("balancer: load config: %v", err)
	}
	logger, err := config.NewLogger(cfg, "balancer")
	if err != nil {
		log.Fatalf("balancer: setup logging: %v", err)
	}
	tables := config.DefaultTables()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	manager := perceptor.NewManager()

	// In a real deployment these come from service discovery / the
	// workflow's engine launch step; here they're the single simulated
	// backend started by cmd/backend.
	backendURLs := []string{cfg.BackendURL}
	modelURLs := balancer.ModelBackends{"default-model": backendURLs}
	agentModel := map[string]string{}
	for agent := range tables.Priority {
		agentModel[agent] = "default-model"
	}

	for _, url := range backendURLs {
		poller := metrics.NewPoller(url, cfg.MetricsInterval(), logger)
		go poller.Run(ctx)

		p := perceptor.New(url, tables, cfg.PerceptorSlot(), poller, logger)
		go p.RunBiasLoop(ctx, cfg.PredictInterval())

		manager.Register(url, p, poller)
	}

	reg := prometheus.NewRegistry()
	exposition := metrics.NewExposition(reg)
	counter := tokencount.NewCounter(agentModel, nil)

	srv := balancer.New(tables, manager, agentModel, modelURLs, exposition, counter, logger)
	go srv.Run(ctx)

	httpSrv := &http.Server{
		Addr:    cfg.BalancerAddr,
		Handler: srv.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
	}

	go func() {
		logger.Printf("balancer listening on %s", cfg.BalancerAddr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("balancer: server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = httpSrv.Shutdown(shutdownCtx)
}
