package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pinchat/pinchat/chat/room"
	"github.com/pinchat/pinchat/transport/websocket"
)

// Server is the HTTP server combining the REST info endpoints and the
// WebSocket mount point.
type Server struct {
	registry   *room.Registry
	gateway    *websocket.Gateway
	router     *mux.Router
	corsOrigin string
}

// NewServer creates the HTTP server. corsOrigin is the allowed origin for
// browser clients; empty means allow any.
func NewServer(registry *room.Registry, gateway *websocket.Gateway, corsOrigin string) *Server {
	if corsOrigin == "" {
		corsOrigin = "*"
	}
	s := &Server{
		registry:   registry,
		gateway:    gateway,
		router:     mux.NewRouter(),
		corsOrigin: corsOrigin,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all routes.
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/info", s.handleInfo).Methods("GET")
	api.HandleFunc("/checkRoom/{pin}", s.handleCheckRoom).Methods("GET")

	s.router.HandleFunc("/ws", s.handleWebSocket)
	s.router.HandleFunc("/", s.handleIndex).Methods("GET")
}

// ServeHTTP implements http.Handler. CORS headers are applied before
// routing so preflight requests get answered for every path.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST")
	w.Header().Set("Access-Control-Allow-Credentials", "true")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "Realtime chat server")
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	rooms, activeUsers := s.registry.Stats()

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "online",
		"rooms":       rooms,
		"activeUsers": activeUsers,
		"serverTime":  time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleCheckRoom(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	pin := vars["pin"]

	st := s.registry.Check(pin)
	if !st.Exists {
		respondJSON(w, http.StatusOK, map[string]bool{"exists": false})
		return
	}
	respondJSON(w, http.StatusOK, st)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.gateway.ServeWS(w, r)
}
