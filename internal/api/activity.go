package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hbomb79/Cadence/internal/api/downloads"
	"github.com/hbomb79/Cadence/internal/http/websocket"
	"github.com/hbomb79/Cadence/internal/task"
)

const (
	TITLE_TASK_UPDATE   = "TASK_UPDATE"
	TITLE_TASK_PROGRESS = "TASK_PROGRESS"
	TITLE_TRACK_CREATED = "TRACK_CREATED"

	COMMAND_TASK_STATUS = "TASK_STATUS"
)

type (
	taskStatusArguments struct {
		TaskID uuid.UUID `mapstructure:"task_id"`
	}

	broadcaster struct {
		socketHub *websocket.SocketHub
		service   downloads.Service
	}
)

func newBroadcaster(socketHub *websocket.SocketHub, service downloads.Service) *broadcaster {
	b := &broadcaster{socketHub, service}
	socketHub.BindCommand(COMMAND_TASK_STATUS, b.handleTaskStatusCommand)

	return b
}

// BroadcastTaskUpdate sends the full state of the task to every connected client. If
// the task no longer exists, only the ID is sent.
func (hub *broadcaster) BroadcastTaskUpdate(id uuid.UUID) error {
	t, err := hub.service.GetTask(context.Background(), id)
	if err != nil && !errors.Is(err, task.ErrTaskNotFound) {
		return err
	}

	update := map[string]any{"task_id": id, "task": nil}
	if t != nil {
		update["task"] = downloads.NewDto(t)
	}
	hub.broadcast(TITLE_TASK_UPDATE, update)

	return nil
}

func (hub *broadcaster) BroadcastTaskProgressUpdate(id uuid.UUID) error {
	t, err := hub.service.GetTask(context.Background(), id)
	if err != nil {
		return err
	}

	hub.broadcast(TITLE_TASK_PROGRESS, map[string]any{"task_id": id, "percent": t.Percent, "current_step": t.CurrentStep})
	return nil
}

func (hub *broadcaster) BroadcastTrackCreated(id uuid.UUID) error {
	hub.broadcast(TITLE_TRACK_CREATED, map[string]any{"track_id": id})
	return nil
}

func (hub *broadcaster) broadcast(title string, update map[string]any) {
	hub.socketHub.Send(&websocket.SocketMessage{
		Title: title,
		Body:  update,
		Type:  websocket.Update,
	})
}

// handleTaskStatusCommand replies to the requesting client with the
// current state of the task named in the command arguments.
func (hub *broadcaster) handleTaskStatusCommand(socket *websocket.SocketHub, command *websocket.SocketMessage) error {
	var args taskStatusArguments
	if err := command.DecodeArguments(&args); err != nil {
		return err
	}

	t, err := hub.service.GetTask(context.Background(), args.TaskID)
	if err != nil {
		return fmt.Errorf("task %s could not be fetched: %w", args.TaskID, err)
	}

	socket.Send(command.FormReply(TITLE_TASK_UPDATE, map[string]any{"task": downloads.NewDto(t)}, websocket.Response))
	return nil
}
