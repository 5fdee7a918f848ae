package eventstream

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeogirlyun/pokertrainer/internal/engine"
	"github.com/yeogirlyun/pokertrainer/poker"
)

func dialTestClient(t *testing.T, b *Broadcaster) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool { return b.ClientCount() == 1 },
		2*time.Second, 10*time.Millisecond)
	return conn
}

func TestBroadcasterStreamsEventsAsJSON(t *testing.T) {
	b := NewBroadcaster(log.New(io.Discard))
	conn := dialTestClient(t, b)

	card, err := poker.ParseCard("As")
	require.NoError(t, err)
	b.OnEvent(engine.StreetAdvancedEvent{
		Street:   engine.Flop,
		NewCards: []poker.Card{card},
		Board:    []poker.Card{card},
	})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var envelope struct {
		Type  string          `json:"type"`
		Event json.RawMessage `json:"event"`
	}
	require.NoError(t, json.Unmarshal(data, &envelope))
	assert.Equal(t, string(engine.EventTypeStreetAdvanced), envelope.Type)
	assert.Contains(t, string(envelope.Event), `"As"`, "cards serialize as notation, not bitmasks")
}

func TestBroadcasterIgnoresClientWrites(t *testing.T) {
	b := NewBroadcaster(log.New(io.Discard))
	conn := dialTestClient(t, b)

	// A client can send whatever it likes; state is never written back
	// and the stream keeps working.
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"action":"raise"}`)))

	b.OnEvent(engine.RoundCompleteEvent{Street: engine.Turn})
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), string(engine.EventTypeRoundComplete))
}

func TestBroadcasterCloseDisconnectsClients(t *testing.T) {
	b := NewBroadcaster(log.New(io.Discard))
	conn := dialTestClient(t, b)

	b.Close()
	assert.Equal(t, 0, b.ClientCount())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
