package observer_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/amalgam-go/internal/adapters/observer"
	"github.com/andrescamacho/amalgam-go/internal/adapters/persistence"
	"github.com/andrescamacho/amalgam-go/internal/application/game/commands"
	"github.com/andrescamacho/amalgam-go/internal/application/game/dtos"
	"github.com/andrescamacho/amalgam-go/internal/application/mediator"
	"github.com/andrescamacho/amalgam-go/internal/application/setup"
	"github.com/andrescamacho/amalgam-go/internal/domain/session"
	"github.com/andrescamacho/amalgam-go/internal/domain/shared"
)

type observerFixture struct {
	server    *httptest.Server
	hub       *observer.Hub
	mediator  mediator.Mediator
	sessionID string
}

func newObserverFixture(t *testing.T, cooldown time.Duration) *observerFixture {
	t.Helper()

	hub := observer.NewHub(nil)
	sessions := persistence.NewMemorySessionRepository(0)
	med, err := setup.NewHandlerRegistry(sessions, nil, hub, nil, session.DefaultSettings(), nil).CreateConfiguredMediator()
	require.NoError(t, err)

	resp, err := med.Send(context.Background(), &commands.StartGameCommand{Seed: 4})
	require.NoError(t, err)

	srv := httptest.NewServer(observer.NewServer(med, hub, observer.Options{MoveCooldown: cooldown}).Handler())
	t.Cleanup(srv.Close)

	return &observerFixture{
		server:    srv,
		hub:       hub,
		mediator:  med,
		sessionID: resp.(*commands.StartGameResponse).SessionID,
	}
}

func (f *observerFixture) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws?session=" + f.sessionID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) observer.ServerMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg observer.ServerMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

// readUntilPong collects every message before the next PONG
func readUntilPong(t *testing.T, conn *websocket.Conn) []observer.ServerMessage {
	t.Helper()
	var msgs []observer.ServerMessage
	for {
		msg := readMessage(t, conn)
		if msg.Type == observer.TypePong {
			return msgs
		}
		msgs = append(msgs, msg)
	}
}

func TestWebsocket_SnapshotThenTurn(t *testing.T) {
	// Arrange
	f := newObserverFixture(t, 0)
	conn := f.dial(t)

	// Act
	initial := readMessage(t, conn)
	require.NoError(t, conn.WriteJSON(observer.ClientMessage{Type: observer.TypeMove, Direction: "up"}))
	require.NoError(t, conn.WriteJSON(observer.ClientMessage{Type: observer.TypePing}))
	msgs := readUntilPong(t, conn)

	// Assert
	assert.Equal(t, observer.TypeSnapshot, initial.Type)
	require.NotNil(t, initial.Snapshot)
	assert.Equal(t, 0, initial.Snapshot.TurnCount)

	require.Len(t, msgs, 1)
	assert.Equal(t, observer.TypeTurn, msgs[0].Type)
	assert.Equal(t, "up", msgs[0].Turn.Direction)
	assert.Equal(t, 1, msgs[0].Turn.CellsClaimed)
	assert.Equal(t, 1, msgs[0].Snapshot.TurnCount)
	assert.True(t, msgs[0].Snapshot.Cell(9, 10).Owned)
}

func TestWebsocket_CooldownDropsRapidMoves(t *testing.T) {
	f := newObserverFixture(t, time.Hour)
	conn := f.dial(t)
	readMessage(t, conn)

	require.NoError(t, conn.WriteJSON(observer.ClientMessage{Type: observer.TypeMove, Direction: "up"}))
	require.NoError(t, conn.WriteJSON(observer.ClientMessage{Type: observer.TypeMove, Direction: "left"}))
	require.NoError(t, conn.WriteJSON(observer.ClientMessage{Type: observer.TypePing}))
	msgs := readUntilPong(t, conn)

	require.Len(t, msgs, 1)
	assert.Equal(t, "up", msgs[0].Turn.Direction)
}

func TestWebsocket_InvalidDirectionSendsNothing(t *testing.T) {
	f := newObserverFixture(t, 0)
	conn := f.dial(t)
	readMessage(t, conn)

	require.NoError(t, conn.WriteJSON(observer.ClientMessage{Type: observer.TypeMove, Direction: "sideways"}))
	require.NoError(t, conn.WriteJSON(observer.ClientMessage{Type: "DANCE"}))
	require.NoError(t, conn.WriteJSON(observer.ClientMessage{Type: observer.TypePing}))
	msgs := readUntilPong(t, conn)

	require.Len(t, msgs, 1)
	assert.Equal(t, observer.TypeError, msgs[0].Type)
	assert.Contains(t, msgs[0].Error, "DANCE")
}

func TestWebsocket_OtherObserversSeeTurns(t *testing.T) {
	f := newObserverFixture(t, 0)
	watcher := f.dial(t)
	readMessage(t, watcher)
	require.Eventually(t, func() bool { return f.hub.Subscribers(f.sessionID) == 1 }, time.Second, 10*time.Millisecond)

	_, err := f.mediator.Send(context.Background(), &commands.SubmitDirectionCommand{SessionID: f.sessionID, Direction: "right"})
	require.NoError(t, err)

	msg := readMessage(t, watcher)
	assert.Equal(t, observer.TypeTurn, msg.Type)
	assert.Equal(t, "right", msg.Turn.Direction)
}

func TestWebsocket_RejectsUnknownSession(t *testing.T) {
	f := newObserverFixture(t, 0)
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws?session=" + shared.NewSessionID().String()

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)

	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSnapshotEndpoint_Gzip(t *testing.T) {
	// Arrange
	f := newObserverFixture(t, 0)
	req, err := http.NewRequest(http.MethodGet, f.server.URL+"/api/sessions/"+f.sessionID, nil)
	require.NoError(t, err)
	req.Header.Set("Accept-Encoding", "gzip")

	// Act
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	// Assert
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))

	zr, err := gzip.NewReader(resp.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(zr)
	require.NoError(t, err)

	var snap dtos.SnapshotDTO
	require.NoError(t, json.Unmarshal(body, &snap))
	assert.Equal(t, f.sessionID, snap.SessionID)
	assert.Equal(t, 20, snap.Size)
}

func TestSnapshotEndpoint_BadID(t *testing.T) {
	f := newObserverFixture(t, 0)

	resp, err := http.Get(f.server.URL + "/api/sessions/garbage")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
