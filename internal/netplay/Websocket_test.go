package netplay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mshel/gridsnake/internal/game"
	"github.com/Mshel/gridsnake/internal/grid"
)

func startTestServer(t *testing.T) (*game.GameManager, *httptest.Server) {
	t.Helper()
	return startTestServerWith(t, nil)
}

func startTestServerWith(t *testing.T, configure func(*Server)) (*game.GameManager, *httptest.Server) {
	t.Helper()
	config := game.DefaultConfig()
	config.GridWidth = 60
	config.Spawn = grid.Point{X: 30, Y: 0}
	config.MoveSpeed = 0
	config.FrameDuration = 20 * time.Millisecond

	graph, err := grid.NewGraph(config.GridWidth)
	require.NoError(t, err)
	gm := game.NewGameManager(&config, graph, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go gm.StartGameLoop(ctx)
	t.Cleanup(cancel)

	server := NewServer(gm, 10*time.Millisecond)
	if configure != nil {
		configure(server)
	}
	srv := httptest.NewServer(server.Handler())
	t.Cleanup(srv.Close)
	return gm, srv
}

func dial(t *testing.T, srv *httptest.Server, player string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?player=" + player
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil reads server messages until match accepts one.
func readUntil(t *testing.T, conn *websocket.Conn, match func(ServerMessage) bool) ServerMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		var msg ServerMessage
		require.NoError(t, conn.ReadJSON(&msg))
		if match(msg) {
			return msg
		}
	}
}

func TestHandleWS_PlayAndLeave(t *testing.T) {
	gm, srv := startTestServer(t)
	conn := dial(t, srv, "webby")

	first := readUntil(t, conn, func(m ServerMessage) bool {
		if m.Type != "snapshot" {
			return false
		}
		_, ok := m.Snapshot.Player(m.You)
		return ok
	})
	me, _ := first.Snapshot.Player(first.You)
	assert.Equal(t, "webby", me.Name)
	assert.Equal(t, 30, me.Head.X)

	require.NoError(t, conn.WriteJSON(InputMessage{Type: "move", Command: "RIGHT"}))
	readUntil(t, conn, func(m ServerMessage) bool {
		if m.Type != "snapshot" {
			return false
		}
		state, ok := m.Snapshot.Player(first.You)
		return ok && state.Direction == grid.Right
	})

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return len(gm.Players()) == 0 }, 3*time.Second, 10*time.Millisecond)
}

func TestHandleWS_DeathNotice(t *testing.T) {
	gm, srv := startTestServer(t)
	conn := dial(t, srv, "doomed")

	first := readUntil(t, conn, func(m ServerMessage) bool { return m.Type == "snapshot" && len(m.Snapshot.Players) == 1 })
	gm.RemovePlayer(first.You)

	dead := readUntil(t, conn, func(m ServerMessage) bool { return m.Type == "dead" })
	assert.Equal(t, first.You, dead.You)
	assert.Equal(t, 1, dead.Length)
}

func TestHandleWS_RequiresPlayer(t *testing.T) {
	_, srv := startTestServer(t)

	resp, err := http.Get(srv.URL + "/ws")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleMetrics(t *testing.T) {
	gm, srv := startTestServer(t)
	_, _, err := gm.JoinPlayer("counted")
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return len(gm.Snapshot().Players) == 1 }, 3*time.Second, 10*time.Millisecond)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	var payload struct {
		Frame   int64          `json:"frame"`
		Players int            `json:"players"`
		Metrics map[string]any `json:"metrics"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, 1, payload.Players)
	assert.Positive(t, payload.Frame)
	assert.Contains(t, payload.Metrics, "avg_frame_ms")
}

func TestHandleWS_IdleClientStaysConnected(t *testing.T) {
	gm, srv := startTestServerWith(t, func(s *Server) { s.pongWait = 200 * time.Millisecond })
	conn := dial(t, srv, "lurker")

	pings := 0
	conn.SetPingHandler(func(data string) error {
		pings++
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(time.Second))
	})

	// the client only reads, so only pongs keep the server's read deadline alive
	until := time.Now().Add(time.Second)
	for time.Now().Before(until) {
		readUntil(t, conn, func(m ServerMessage) bool { return m.Type == "snapshot" })
	}

	assert.Positive(t, pings)
	assert.Len(t, gm.Players(), 1)
}
