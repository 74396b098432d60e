// Package debug serves a JSON introspection endpoint over the store's
// size, exposing process health over HTTP alongside the RESP listener —
// ops visibility bolted onto a connection-oriented server, not part of its
// wire protocol. The endpoint listens on whatever address the caller
// passes; it does not restrict that address to loopback.
package debug

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"respkv/internal/store"
)

// statsResponse is the JSON payload served at /debug/stats.
type statsResponse struct {
	Keys       int    `json:"keys"`
	Hashes     int    `json:"hashes"`
	KeysHuman  string `json:"keys_human"`
	HashHuman  string `json:"hashes_human"`
	UptimeSecs int64  `json:"uptime_seconds"`
}

func (s *statsResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// Server is a small HTTP server reporting store.Stats as JSON. It is kept
// separate from the RESP server.Server entirely: a different net.Listener,
// a different protocol, enabled only when the operator supplies a
// DebugAddr.
type Server struct {
	Store   *store.Store
	started time.Time
}

// NewServer builds a debug Server bound to st; started is recorded on
// construction so /debug/stats can report an uptime.
func NewServer(st *store.Store) *Server {
	return &Server{Store: st, started: time.Now()}
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/debug/stats", s.handleStats)
	return r
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st := s.Store.Stats()
	resp := &statsResponse{
		Keys:       st.Keys,
		Hashes:     st.Hashes,
		KeysHuman:  units.HumanSize(float64(st.Keys)),
		HashHuman:  units.HumanSize(float64(st.Hashes)),
		UptimeSecs: int64(time.Since(s.started).Seconds()),
	}
	render.JSON(w, r, resp)
}

// ListenAndServe runs the debug HTTP server on addr until ctx is done.
// An empty addr is a caller error: the decision of whether to run this
// server at all belongs to the caller, not to this function.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if strings.TrimSpace(addr) == "" {
		return errors.New("debug: empty listen address")
	}
	httpSrv := &http.Server{Addr: addr, Handler: s.routes()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()
	err := httpSrv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("debug server: %w", err)
	}
	return nil
}
