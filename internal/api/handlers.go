// Package api wires the HTTP surface: the WebSocket upgrade endpoint that
// hands a connection off to a session.Client, a health check, and the
// optional leaderboard REST endpoints.
package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/strawfall/tetris-engine/internal/leaderboard"
	"github.com/strawfall/tetris-engine/internal/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server holds the dependencies every HTTP/WebSocket handler needs.
type Server struct {
	manager   *session.Manager
	board     *leaderboard.Board
	jwtSecret string
}

// NewServer builds the handler set. jwtSecret empty disables bearer-token
// verification — any client completing the hello handshake may connect;
// the token itself is optional, not required.
func NewServer(manager *session.Manager, board *leaderboard.Board, jwtSecret string) *Server {
	return &Server{manager: manager, board: board, jwtSecret: jwtSecret}
}

// Router builds the full gorilla/mux route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWebSocket)
	if s.board != nil {
		r.HandleFunc("/api/leaderboard", s.handleLeaderboardGet).Methods(http.MethodGet)
		r.HandleFunc("/api/leaderboard", s.handleLeaderboardPost).Methods(http.MethodPost)
	}
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":           "ok",
		"active_sessions":  s.manager.ActiveCount(),
	})
}

// handleWebSocket upgrades the connection, waits for a `hello` handshake
// (unless CLAUDE_DISABLE_HELLO_DEADLINE is set; its bearer token is checked
// only when jwtSecret is configured), then registers a session.Client to
// own the connection for its lifetime.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[api] websocket upgrade failed: %v", err)
		return
	}

	if os.Getenv("CLAUDE_DISABLE_HELLO_DEADLINE") == "" {
		if err := s.authenticateHandshake(conn); err != nil {
			log.Printf("[api] websocket handshake failed: %v", err)
			conn.WriteJSON(map[string]string{"error": err.Error()})
			conn.Close()
			return
		}
	}

	client := session.NewClient(uuid.NewString(), conn)
	s.manager.Register(client)
}

// authenticateHandshake waits up to 10 seconds for the first message after
// upgrade to be `hello`, mirroring a game handler's auth-message wait/
// timeout. The token is checked only when jwtSecret is configured; with no
// secret set, any hello (with or without a token) satisfies the deadline.
func (s *Server) authenticateHandshake(conn *websocket.Conn) error {
	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	defer conn.SetReadDeadline(time.Time{})

	_, message, err := conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("read handshake: %w", err)
	}

	var hello struct {
		Type  string `json:"type"`
		Token string `json:"token"`
	}
	if err := json.Unmarshal(message, &hello); err != nil {
		return fmt.Errorf("parse handshake: %w", err)
	}
	if hello.Type != "hello" {
		return fmt.Errorf("expected hello message, got %q", hello.Type)
	}
	if s.jwtSecret == "" {
		return nil
	}

	token, err := jwt.Parse(hello.Token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return fmt.Errorf("invalid token")
	}
	return nil
}

func (s *Server) handleLeaderboardGet(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	results, err := s.board.TopResults(limit)
	if err != nil {
		log.Printf("[api] leaderboard query failed: %v", err)
		http.Error(w, "failed to fetch leaderboard", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"results": results})
}

func (s *Server) handleLeaderboardPost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Player string `json:"player"`
		Score  int    `json:"score"`
		Seed   int64  `json:"seed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Player == "" {
		http.Error(w, "player is required", http.StatusBadRequest)
		return
	}

	entry, err := s.board.RecordResult(req.Player, req.Score, req.Seed)
	if err != nil {
		log.Printf("[api] leaderboard insert failed: %v", err)
		http.Error(w, "failed to record result", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"result": entry})
}
