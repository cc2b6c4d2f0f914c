package harnesssim

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"

	ws "nhooyr.io/websocket"

	"voiceqa/telemetry/internal/types"
)

// Server exposes the simulator over the same surfaces a real harness
// offers: a JSON telemetry snapshot per session and a websocket stream of
// diagnostic text lines. It exists so the engine can be exercised end to
// end without a live voice pipeline.
type Server struct {
	store *Store

	mu   sync.Mutex
	subs map[chan string]struct{}
}

func NewServer(store *Store) *Server {
	return &Server{store: store, subs: make(map[chan string]struct{})}
}

// PublishDiag fans one diagnostic line out to every connected stream
// reader. Slow readers drop lines rather than stall the publisher.
func (s *Server) PublishDiag(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- line:
		default:
		}
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/ws/diag", s.handleDiagWS)

	mux.HandleFunc("/sessions/", func(w http.ResponseWriter, r *http.Request) {
		// /sessions/{id}/telemetry | /barge-in
		path := strings.TrimSuffix(r.URL.Path, "/")
		rest := strings.TrimPrefix(path, "/sessions/")
		parts := strings.Split(rest, "/")
		if len(parts) < 2 || parts[0] == "" {
			http.NotFound(w, r)
			return
		}
		id, tail := parts[0], parts[1]

		switch tail {
		case "telemetry":
			if r.Method != http.MethodGet {
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
				return
			}
			s.handleTelemetry(w, r, id)
		case "barge-in":
			if r.Method != http.MethodPost {
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
				return
			}
			s.handleAppend(w, r, id)
		default:
			http.NotFound(w, r)
		}
	})

	return mux
}

func (s *Server) handleTelemetry(w http.ResponseWriter, r *http.Request, id string) {
	snap := s.store.Snapshot(id)
	if snap == nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(snap)
}

func (s *Server) handleAppend(w http.ResponseWriter, r *http.Request, id string) {
	var ev types.BargeInEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.store.CreateSession(id)
	stored := s.store.Append(id, ev)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(stored)
}

func (s *Server) handleDiagWS(w http.ResponseWriter, r *http.Request) {
	c, err := ws.Accept(w, r, nil)
	if err != nil {
		log.Printf("[sim] ws accept: %v", err)
		return
	}

	ch := make(chan string, 32)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.subs, ch)
		s.mu.Unlock()
		_ = c.Close(ws.StatusNormalClosure, "done")
	}()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case line := <-ch:
			if err := c.Write(ctx, ws.MessageText, []byte(line)); err != nil {
				return
			}
		}
	}
}
