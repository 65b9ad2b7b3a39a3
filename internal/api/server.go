// Package api provides the HTTP and WebSocket control surface for the receiver.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"reachz/internal/carry"
	"reachz/internal/engine"
	"reachz/internal/network"
	"reachz/internal/protocol"
	"reachz/internal/router"
)

// Controller is the engine surface the API drives
type Controller interface {
	Dispatch(msg router.Message) bool
	Status() engine.Status
	Addresses() []string
	CancelCarry() bool
}

// Server provides HTTP API for remote control
type Server struct {
	ctl   Controller
	token string
	wsMgr *WSManager

	mu         sync.Mutex
	oscStats   func() network.Stats
	httpServer *http.Server
}

// NewServer creates a new API server. A non-empty token is required as a
// bearer token on every request except /health.
func NewServer(ctl Controller, token string) *Server {
	s := &Server{
		ctl:   ctl,
		token: token,
	}
	s.wsMgr = newWSManager(s)
	go s.wsMgr.start()
	return s
}

// SetReceiverStats adds the OSC receiver counters to /api/status
func (s *Server) SetReceiverStats(fn func() network.Stats) {
	s.mu.Lock()
	s.oscStats = fn
	s.mu.Unlock()
}

// Handler returns the routed handler with auth and recovery middleware
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/addresses", s.handleAddresses)
	mux.HandleFunc("/api/dispatch", s.handleDispatch)
	mux.HandleFunc("/api/carry/cancel", s.handleCancelCarry)
	mux.HandleFunc("/ws", s.wsMgr.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return s.authMiddleware(s.recoverMiddleware(mux))
}

// Start listens on addr and serves until Shutdown. This is blocking.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Errorf("API: failed to listen on %s: %v", addr, err)
		return err
	}
	return s.Serve(ln)
}

// Serve serves on an existing listener until Shutdown
func (s *Server) Serve(ln net.Listener) error {
	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.httpServer = server
	s.mu.Unlock()

	log.Printf("API: Serving on %s", ln.Addr())
	if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
		log.Errorf("API: server stopped: %v", err)
		return err
	}
	return nil
}

// Shutdown stops the HTTP server and disconnects WebSocket clients
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	server := s.httpServer
	s.mu.Unlock()

	s.wsMgr.stop()
	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}

// BroadcastCarry pushes a carry transition to every WebSocket client
func (s *Server) BroadcastCarry(st carry.State) {
	payload := protocol.CarryPayload{Holding: st.Holding}
	if st.Holding {
		payload.Preview = carry.Preview(st.Text, 40)
	}
	s.wsMgr.Broadcast(protocol.TypeCarry, payload)
}

// recoverMiddleware prevents panics from crashing the whole server
func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Errorf("API: recovered panic: %v", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// authMiddleware checks API token if configured
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Debugf("API: %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)

		// Skip auth for health check
		if r.URL.Path == "/health" || s.token == "" {
			next.ServeHTTP(w, r)
			return
		}

		// Browsers cannot set headers on a WebSocket upgrade, so /ws also
		// accepts the token as a query parameter.
		ok := r.Header.Get("Authorization") == "Bearer "+s.token
		if !ok && r.URL.Path == "/ws" {
			ok = r.URL.Query().Get("token") == s.token
		}
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusResponse struct {
	engine.Status
	OSC *network.Stats `json:"osc,omitempty"`
}

// handleStatus handles GET /api/status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, s.status())
}

func (s *Server) status() statusResponse {
	resp := statusResponse{Status: s.ctl.Status()}
	s.mu.Lock()
	fn := s.oscStats
	s.mu.Unlock()
	if fn != nil {
		st := fn()
		resp.OSC = &st
	}
	return resp
}

// handleAddresses handles GET /api/addresses
func (s *Server) handleAddresses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, s.ctl.Addresses())
}

// handleDispatch handles POST /api/dispatch with a control payload body
func (s *Server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return
	}
	msg, err := protocol.DecodeControl(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	handled := s.ctl.Dispatch(msg)
	writeJSON(w, map[string]any{"status": "ok", "handled": handled})
}

// handleCancelCarry handles POST /api/carry/cancel
func (s *Server) handleCancelCarry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	log.Printf("API: Cancel carry requested from %s", r.RemoteAddr)
	writeJSON(w, map[string]any{"status": "ok", "cancelled": s.ctl.CancelCarry()})
}

// handleHealth handles GET /health (for monitoring)
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debugf("API: failed to write response: %v", err)
	}
}
