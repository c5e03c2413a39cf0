package api_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/hbomb79/Cadence/internal/api"
	"github.com/hbomb79/Cadence/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type socketFrame struct {
	Title     string         `json:"title"`
	Arguments map[string]any `json:"arguments"`
	Type      int            `json:"type"`
	Id        int            `json:"id"`
}

// connectActivitySocket starts the gateway's socket hub and connects a client to it,
// discarding the initial welcome frame.
func connectActivitySocket(t *testing.T, gateway *api.RestGateway) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(gateway)
	t.Cleanup(server.Close)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go gateway.Run(ctx)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/cadence/v1/activity/ws/"
	var conn *websocket.Conn
	require.Eventually(t, func() bool {
		c, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			return false
		}
		conn = c
		return true
	}, 2*time.Second, 10*time.Millisecond)
	t.Cleanup(func() { conn.Close() })

	var welcome socketFrame
	require.NoError(t, conn.ReadJSON(&welcome))
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) socketFrame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var frame socketFrame
	require.NoError(t, conn.ReadJSON(&frame))
	return frame
}

func TestBroadcaster_TaskUpdates(t *testing.T) {
	service := newFakeService()
	gateway := api.NewRestGateway(&api.Config{HostAddr: "127.0.0.1:0"}, service)
	conn := connectActivitySocket(t, gateway)

	existing := &task.Task{ID: uuid.New(), Status: task.Downloading, Percent: 42, CurrentStep: "Downloading: 50.0%"}
	service.tasks[existing.ID] = existing

	require.NoError(t, gateway.BroadcastTaskProgressUpdate(existing.ID))
	frame := readFrame(t, conn)
	assert.Equal(t, api.TITLE_TASK_PROGRESS, frame.Title)
	assert.Equal(t, existing.ID.String(), frame.Arguments["task_id"])
	assert.EqualValues(t, 42, frame.Arguments["percent"])

	require.NoError(t, gateway.BroadcastTaskUpdate(existing.ID))
	frame = readFrame(t, conn)
	assert.Equal(t, api.TITLE_TASK_UPDATE, frame.Title)
	require.IsType(t, map[string]any{}, frame.Arguments["task"])
	assert.Equal(t, "downloading", frame.Arguments["task"].(map[string]any)["status"])

	// Deleted tasks are still announced, without a body
	missing := uuid.New()
	require.NoError(t, gateway.BroadcastTaskUpdate(missing))
	frame = readFrame(t, conn)
	assert.Equal(t, missing.String(), frame.Arguments["task_id"])
	assert.Nil(t, frame.Arguments["task"])

	assert.Error(t, gateway.BroadcastTaskProgressUpdate(missing))
}

func TestBroadcaster_TaskStatusCommand(t *testing.T) {
	service := newFakeService()
	gateway := api.NewRestGateway(&api.Config{HostAddr: "127.0.0.1:0"}, service)
	conn := connectActivitySocket(t, gateway)

	existing := &task.Task{ID: uuid.New(), Status: task.Pending}
	service.tasks[existing.ID] = existing

	require.NoError(t, conn.WriteJSON(map[string]any{
		"title":     api.COMMAND_TASK_STATUS,
		"id":        7,
		"type":      1,
		"arguments": map[string]any{"task_id": existing.ID.String()},
	}))

	frame := readFrame(t, conn)
	assert.Equal(t, api.TITLE_TASK_UPDATE, frame.Title)
	assert.Equal(t, 7, frame.Id)
	assert.Equal(t, "pending", frame.Arguments["task"].(map[string]any)["status"])

	require.NoError(t, conn.WriteJSON(map[string]any{
		"title":     api.COMMAND_TASK_STATUS,
		"id":        8,
		"type":      1,
		"arguments": map[string]any{"task_id": uuid.NewString()},
	}))

	frame = readFrame(t, conn)
	assert.Equal(t, "COMMAND_FAILURE", frame.Title)
	assert.Equal(t, 8, frame.Id)
}
