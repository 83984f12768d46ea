package feed_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/corsair/internal/feed"
	"github.com/cory-johannsen/corsair/internal/game/event"
	"github.com/cory-johannsen/corsair/internal/game/hex"
)

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func startHub(t *testing.T) (*feed.Hub, string) {
	t.Helper()
	hub := feed.NewHub(8, nil)
	srv := httptest.NewServer(hub)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var f map[string]any
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func TestHub_RelaysEventsInOrder(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.Observers() == 1 }, 5*time.Second, 10*time.Millisecond)

	bus := event.NewBus()
	detach := hub.Attach(bus)
	defer detach()

	bus.Publish(event.UnitMoved, event.UnitMovedPayload{UnitID: "sloop", To: hex.Coordinate{X: 2, Y: 1}})
	bus.Publish(event.LogMessage, event.LogPayload{Message: "Used Cutlass on Anne."})

	first := readFrame(t, conn)
	assert.Equal(t, "unit_moved", first["kind"])
	assert.EqualValues(t, 1, first["seq"])
	payload := first["payload"].(map[string]any)
	assert.Equal(t, "sloop", payload["unit_id"])
	assert.NotContains(t, payload, "from")

	second := readFrame(t, conn)
	assert.Equal(t, "log_message", second["kind"])
	assert.EqualValues(t, 2, second["seq"])
	assert.Equal(t, "Used Cutlass on Anne.", second["payload"].(map[string]any)["message"])
}

func TestHub_FansOutToEveryObserver(t *testing.T) {
	hub, url := startHub(t)
	a, b := dial(t, url), dial(t, url)
	require.Eventually(t, func() bool { return hub.Observers() == 2 }, 5*time.Second, 10*time.Millisecond)

	hub.Broadcast(event.Event{Kind: event.CombatStarted, Seq: 7, Payload: event.CombatPayload{SessionID: "s1"}})

	for _, conn := range []*websocket.Conn{a, b} {
		f := readFrame(t, conn)
		assert.Equal(t, "combat_started", f["kind"])
		assert.EqualValues(t, 7, f["seq"])
	}
}

func TestHub_DetachStopsRelay(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.Observers() == 1 }, 5*time.Second, 10*time.Millisecond)

	bus := event.NewBus()
	detach := hub.Attach(bus)
	detach()
	bus.Publish(event.TurnBegan, event.TurnPayload{ActorID: "ignored"})
	hub.Broadcast(event.Event{Kind: event.TurnEnded, Seq: 1})

	f := readFrame(t, conn)
	assert.Equal(t, "turn_ended", f["kind"])
}

func TestHub_ObserverDisconnectIsForgotten(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.Observers() == 1 }, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	conn.Close()
	require.Eventually(t, func() bool { return hub.Observers() == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestHub_CloseDisconnectsObservers(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.Observers() == 1 }, 5*time.Second, 10*time.Millisecond)

	hub.Close()
	assert.Equal(t, 0, hub.Observers())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)

	late, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer late.Close()
	require.NoError(t, late.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err = late.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}

func TestServer_ListenServeShutdown(t *testing.T) {
	hub := feed.NewHub(0, nil)
	srv, err := feed.Listen("127.0.0.1:0", hub, nil)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- srv.Serve() }()

	conn := dial(t, "ws://"+srv.Addr()+"/feed")
	require.Eventually(t, func() bool { return hub.Observers() == 1 }, 5*time.Second, 10*time.Millisecond)
	hub.Broadcast(event.Event{Kind: event.CombatEnded, Seq: 3, Payload: event.CombatPayload{Result: "victory"}})
	f := readFrame(t, conn)
	assert.Equal(t, "victory", f["payload"].(map[string]any)["result"])

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	require.NoError(t, <-done)
}
