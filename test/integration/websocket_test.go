//go:build integration

package integration

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"evidence-tracker/internal/event"
)

func TestStatusChangeIsBroadcast(t *testing.T) {
	server := newServer(t)
	token, _ := login(t, server, "mjohnson", "password123")

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	// Give the hub a moment to register the client before mutating.
	time.Sleep(100 * time.Millisecond)

	payload, _ := json.Marshal(map[string]string{"status": "verified"})
	resp := doRequest(t, newAuthRequest(t, http.MethodPut, server.URL+"/api/v1/evidence/EV002/status", payload, token))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, message, err := conn.ReadMessage()
	require.NoError(t, err)

	var received event.Event
	require.NoError(t, json.Unmarshal(message, &received))
	require.Equal(t, event.TypeEvidenceStatusChanged, received.Type)
	require.Equal(t, "supervisor1", received.ActorID)
}
