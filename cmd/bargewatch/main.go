package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"voiceqa/telemetry/internal/config"
	"voiceqa/telemetry/internal/diagws"
	"voiceqa/telemetry/internal/engine"
	"voiceqa/telemetry/internal/harness"
	"voiceqa/telemetry/internal/health"
)

func main() {
	// Load .env file if present (ignored if missing)
	_ = godotenv.Load()

	cfg := config.Load()

	session := flag.String("session", "", "Session ID to observe (required)")
	samples := flag.Int("samples", cfg.Collect.SampleCount, "Number of barge-in samples to collect")
	timeout := flag.Duration("timeout", time.Duration(cfg.Collect.SampleTimeoutMs)*time.Millisecond, "Per-sample wait")
	relax := flag.Float64("relax", cfg.Collect.RelaxMultiplier, "Threshold relaxation multiplier (1 = strict only)")
	flag.Parse()

	if *session == "" {
		log.Fatal("[watch] -session is required")
	}

	// probes/metrics
	go func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("ok\n")) })
		mux.Handle("/metrics", promhttp.Handler())
		log.Printf("[watch] probes/metrics on :%s", cfg.Server.ProbePort)
		_ = http.ListenAndServe(":"+cfg.Server.ProbePort, mux)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigc
		log.Printf("[watch] shutdown signal received; stopping collection...")
		cancel()
	}()

	if check := health.CheckHarness(ctx, cfg.Harness.BaseURL); !check.OK {
		// Not fatal; the poller treats absence as transient.
		log.Printf("[watch] preflight: %s", check)
	}

	src := harness.NewClient(cfg.Harness.BaseURL)
	eng := engine.New(src, *session, cfg.Thresholds(), time.Duration(cfg.Collect.PollIntervalMs)*time.Millisecond)
	log.Printf("[watch] run=%s session=%s harness=%s", eng.RunID(), *session, cfg.Harness.BaseURL)

	if cfg.Harness.DiagURL != "" {
		diag := diagws.NewClient(ctx, cfg.Harness.DiagURL, eng.ObserveLogLine)
		diag.Start()
		defer diag.Close()
	}

	got := eng.CollectSamples(ctx, *samples, *timeout)
	log.Printf("[watch] collected %d/%d samples", got, *samples)

	fmt.Println(eng.Report())

	verdict := eng.Evaluate(*relax)
	for _, f := range verdict.Failures {
		kind := "strict"
		if f.Relaxed {
			kind = "relaxed"
		}
		log.Printf("[watch] %s budget miss: %s observed=%.1f threshold=%.1f", kind, f.Metric, f.Observed, f.Threshold)
	}

	// The engine only produces data; failing the run is this tool's policy.
	if !verdict.Passed {
		os.Exit(1)
	}
}
