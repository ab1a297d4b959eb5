package netplay

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/Mshel/gridsnake/internal/event"
	"github.com/Mshel/gridsnake/internal/game"
	"github.com/Mshel/gridsnake/internal/grid"
)

const (
	DefaultPublishInterval = 50 * time.Millisecond

	sendQueueSize = 64
	writeWait     = 5 * time.Second
	pongWait      = 60 * time.Second
	maxReadBytes  = 1 << 16
)

// InputMessage is what a browser sends: {"type":"move","command":"up"}.
type InputMessage struct {
	Type    string `json:"type"`
	Command string `json:"command"`
}

// ServerMessage is either a world snapshot or the notice that the player died.
type ServerMessage struct {
	Type     string         `json:"type"`
	You      string         `json:"you"`
	Snapshot *game.Snapshot `json:"snapshot,omitempty"`
	Length   int            `json:"length,omitempty"`
	Ticks    int            `json:"ticks,omitempty"`
}

// Server lets websocket clients play on a running GameManager.
type Server struct {
	gm       *game.GameManager
	interval time.Duration
	pongWait time.Duration
	upgrader websocket.Upgrader
}

func NewServer(gm *game.GameManager, publishInterval time.Duration) *Server {
	if publishInterval <= 0 {
		publishInterval = DefaultPublishInterval
	}
	return &Server{
		gm:       gm,
		interval: publishInterval,
		pongWait: pongWait,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Handler serves /ws?player=name, /metrics and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleWS)
	mux.HandleFunc("/metrics", s.HandleMetrics)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("player"))
	if name == "" {
		http.Error(w, "missing player query", http.StatusBadRequest)
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("Websocket upgrade failed", "error", err)
		return
	}

	player, updates, err := s.gm.JoinPlayer(name)
	if err != nil {
		log.Warn("Websocket player could not join", "player", name, "error", err)
		msg := websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "no room on the grid")
		_ = ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		_ = ws.Close()
		return
	}
	log.Info("Websocket player joined", "player", name, "id", player.ID, "remote", r.RemoteAddr)

	client := newClientConn(ws, s.pongWait)
	go client.writePump()
	go s.publish(client, player.ID, updates)
	go s.readPump(client, player.ID)
}

func (s *Server) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	snapshot := s.gm.Snapshot()
	payload := map[string]any{
		"frame":   snapshot.Frame,
		"players": len(snapshot.Players),
		"metrics": s.gm.Metrics.Snapshot(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

// readPump turns client input into events. When it exits the player leaves.
func (s *Server) readPump(c *clientConn, playerID string) {
	defer c.Close()
	defer s.gm.RemovePlayer(playerID)

	c.ws.SetReadLimit(maxReadBytes)
	_ = c.ws.SetReadDeadline(time.Now().Add(c.pongWait))
	c.ws.SetPongHandler(func(string) error { return c.ws.SetReadDeadline(time.Now().Add(c.pongWait)) })

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		_ = c.ws.SetReadDeadline(time.Now().Add(c.pongWait))

		var im InputMessage
		if err := json.Unmarshal(payload, &im); err != nil {
			continue
		}
		switch strings.ToLower(im.Type) {
		case "move":
			d, ok := grid.ParseDirection(im.Command)
			if !ok {
				continue
			}
			s.gm.Submit(event.CategoryInput, event.Subcategory(playerID), event.NewDirectionEvent(d))
		case "grow":
			if s.gm.Config.DebugKeys {
				s.gm.Submit(event.CategoryGameState, event.SubNone, event.NewGrowEvent(s.gm.Config.DebugGrowAmount))
			}
		}
	}
}

// publish pushes snapshots until the connection closes. A dead player keeps
// watching.
func (s *Server) publish(c *clientConn, playerID string, updates <-chan tea.Msg) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			snapshot := s.gm.Snapshot()
			c.EnqueueJSON(ServerMessage{Type: "snapshot", You: playerID, Snapshot: &snapshot})
		case msg, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			if dead, isDead := msg.(game.PlayerDeadMsg); isDead && dead.PlayerID == playerID {
				c.EnqueueJSON(ServerMessage{Type: "dead", You: playerID, Length: dead.Length, Ticks: dead.Ticks})
			}
		}
	}
}

// clientConn owns the write side of one websocket. The peer is pinged often
// enough that an idle but healthy client answers before pongWait runs out.
type clientConn struct {
	ws        *websocket.Conn
	send      chan []byte
	done      chan struct{}
	pongWait  time.Duration
	closeOnce sync.Once
}

func newClientConn(ws *websocket.Conn, pongWait time.Duration) *clientConn {
	return &clientConn{
		ws:       ws,
		send:     make(chan []byte, sendQueueSize),
		done:     make(chan struct{}),
		pongWait: pongWait,
	}
}

// Enqueue never blocks the caller; a full queue drops the message.
func (c *clientConn) Enqueue(b []byte) {
	select {
	case <-c.done:
	case c.send <- b:
	default:
	}
}

func (c *clientConn) EnqueueJSON(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error("Failed to encode websocket message", "error", err)
		return
	}
	c.Enqueue(b)
}

func (c *clientConn) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.ws.Close()
	})
}

func (c *clientConn) writePump() {
	ticker := time.NewTicker(c.pongWait * 9 / 10)
	defer func() {
		ticker.Stop()
		c.Close()
	}()
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
