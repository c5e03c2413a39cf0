package websocket_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	gorilla "github.com/gorilla/websocket"
	"github.com/hbomb79/Cadence/internal/http/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T, hub *websocket.SocketHub) *httptest.Server {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		hub.Start(ctx)
	}()

	server := httptest.NewServer(http.HandlerFunc(hub.UpgradeToSocket))
	t.Cleanup(func() {
		cancel()
		<-done
		server.Close()
	})

	return server
}

func dial(t *testing.T, server *httptest.Server) *gorilla.Conn {
	url := "ws" + strings.TrimPrefix(server.URL, "http")

	var conn *gorilla.Conn
	require.Eventually(t, func() bool {
		c, _, err := gorilla.DefaultDialer.Dial(url, nil)
		if err != nil {
			return false
		}
		conn = c
		return true
	}, time.Second, 10*time.Millisecond)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func readMessage(t *testing.T, conn *gorilla.Conn) websocket.SocketMessage {
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var msg websocket.SocketMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestHub_WelcomesAndBroadcasts(t *testing.T) {
	hub := websocket.New()
	hub.WithConnectionCallback(func() map[string]any { return map[string]any{"version": "v1"} })
	server := startHub(t, hub)

	conn := dial(t, server)
	welcome := readMessage(t, conn)
	assert.Equal(t, "CONNECTION_ESTABLISHED", welcome.Title)
	assert.Equal(t, websocket.Welcome, welcome.Type)
	assert.Equal(t, "v1", welcome.Body["version"])
	assert.NotEmpty(t, welcome.Body["client"])

	taskID := uuid.New()
	hub.Send(&websocket.SocketMessage{Title: "TASK_UPDATE", Body: map[string]any{"task_id": taskID}, Type: websocket.Update})

	update := readMessage(t, conn)
	assert.Equal(t, "TASK_UPDATE", update.Title)
	assert.Equal(t, taskID.String(), update.Body["task_id"])
}

func TestHub_CommandHandlers(t *testing.T) {
	type echoArgs struct {
		Value string `mapstructure:"value"`
	}

	hub := websocket.New()
	hub.BindCommand("ECHO", func(hub *websocket.SocketHub, command *websocket.SocketMessage) error {
		var args echoArgs
		if err := command.DecodeArguments(&args); err != nil {
			return err
		}

		hub.Send(command.FormReply("ECHO_REPLY", map[string]any{"value": args.Value}, websocket.Response))
		return nil
	})
	server := startHub(t, hub)

	conn := dial(t, server)
	readMessage(t, conn)

	require.NoError(t, conn.WriteJSON(map[string]any{"title": "ECHO", "id": 7, "type": websocket.Command, "arguments": map[string]any{"value": "hello"}}))
	reply := readMessage(t, conn)
	assert.Equal(t, "ECHO_REPLY", reply.Title)
	assert.Equal(t, 7, reply.Id)
	assert.Equal(t, "hello", reply.Body["value"])

	require.NoError(t, conn.WriteJSON(map[string]any{"title": "ECHO", "id": 8, "type": websocket.Command, "arguments": map[string]any{"unexpected": 1}}))
	failure := readMessage(t, conn)
	assert.Equal(t, "COMMAND_FAILURE", failure.Title)
	assert.Equal(t, websocket.ErrorResponse, failure.Type)

	require.NoError(t, conn.WriteJSON(map[string]any{"title": "NOPE", "id": 9, "type": websocket.Command}))
	unknown := readMessage(t, conn)
	assert.Equal(t, "COMMAND_FAILURE", unknown.Title)
	assert.Equal(t, "Unknown command", unknown.Body["error"])
}

func TestHub_UpgradeRejectedWhenOffline(t *testing.T) {
	hub := websocket.New()
	rec := httptest.NewRecorder()
	hub.UpgradeToSocket(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
