package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voiceqa/telemetry/internal/harnesssim"
	"voiceqa/telemetry/internal/types"
)

// harness-sim stands in for a live voice session: it emits synthetic
// barge-in events and diagnostic chatter so bargewatch can be exercised
// without a real pipeline.
func main() {
	addr := flag.String("addr", ":8080", "listen address")
	session := flag.String("session", "demo", "session ID to populate")
	interval := flag.Duration("interval", 2*time.Second, "time between synthetic barge-ins")
	baseMs := flag.Int64("base-ms", 30, "baseline detection-to-silence latency")
	jitterMs := flag.Int64("jitter-ms", 40, "random extra latency, up to this many ms")
	flag.Parse()

	store := harnesssim.NewStore()
	store.CreateSession(*session)
	srv := harnesssim.NewServer(store)

	httpSrv := &http.Server{
		Addr:              *addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigc
		log.Printf("[sim] shutdown signal received")
		cancel()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	go emit(ctx, store, srv, *session, *interval, *baseMs, *jitterMs)

	log.Printf("[sim] serving session %q on %s", *session, *addr)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Println("[sim] server error:", err)
		os.Exit(1)
	}
}

func emit(ctx context.Context, store *harnesssim.Store, srv *harnesssim.Server, session string, interval time.Duration, baseMs, jitterMs int64) {
	for seq := 0; ; seq++ {
		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}

		detect := time.Now().UnixMilli()
		fade := detect + 2 + rand.Int63n(8)
		silent := detect + baseMs + rand.Int63n(jitterMs+1)

		ev := types.BargeInEvent{
			SpeechDetectedAtMs:     types.MsPtr(detect),
			AudioSilentAtMs:        types.MsPtr(silent),
			WasPlaying:             true,
			ActiveSourcesAtTrigger: 1 + rand.Intn(3),
		}
		// Occasionally a hard stop with no fade stage.
		if rand.Intn(5) != 0 {
			ev.FadeStartedAtMs = types.MsPtr(fade)
		}
		// Structured events already carry the attempt; keep the diag line
		// free of the barge_in token so watchers do not double count.
		stored := store.Append(session, ev)
		srv.PublishDiag(fmt.Sprintf("playback interrupted seq=%d total_ms=%d", stored.Seq, silent-detect))

		if rand.Intn(10) == 0 {
			srv.PublishDiag(fmt.Sprintf("warn: queue_length=%d above threshold", 8+rand.Intn(8)))
		}
		if rand.Intn(20) == 0 {
			srv.PublishDiag("audio scheduler: schedule_reset after drift")
		}
	}
}
