package websocket

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type socketClient struct {
	id     uuid.UUID
	socket *websocket.Conn

	// gorilla connections support a single concurrent writer
	writeLock sync.Mutex
}

func (client *socketClient) SendMessage(message *SocketMessage) error {
	client.writeLock.Lock()
	defer client.writeLock.Unlock()
	return client.socket.WriteJSON(message)
}

// Read starts a read-loop on the clients websocket connection, emitting
// all received messages on the channel provided. The loop exits when the
// connection errors or a message cannot be decoded, and it's the callers
// responsibility to deregister the client afterwards.
func (client *socketClient) Read(receiveCh chan<- *SocketMessage) error {
	for {
		var recv SocketMessage
		if err := client.socket.ReadJSON(&recv); err != nil {
			return err
		}

		recv.Origin = &client.id
		receiveCh <- &recv
	}
}

func (client *socketClient) Close() {
	client.socket.Close()
}
