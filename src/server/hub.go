package server

import (
	"net/http"

	"live-analyser/src/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
// The hub bridges the broadcast gateway to websocket clients: it holds one
// gateway subscription and fans events out to every connected client.
// -----------------------------------------------------------------------------

// runHub is the main Hub loop
func (s *APIServer) runHub() {
	subID, events := s.Gateway.Subscribe()
	defer s.Gateway.Unsubscribe(subID)

	for {
		select {
		case client := <-s.register:
			s.clients[client] = struct{}{}
			s.clientCount.Add(1)

			// Send the latest snapshot of every symbol on connect
			for _, snapshot := range s.Cache.All() {
				snap := snapshot
				select {
				case client.send <- models.MEvent{Type: models.EventScoreUpdate, Score: &snap}:
				default:
				}
			}

		case client := <-s.unregister:
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				s.clientCount.Add(-1)
				close(client.send)
			}

		case event, ok := <-events:
			if !ok {
				return
			}

			// Broadcast to all clients
			for client := range s.clients {
				select {
				case client.send <- event:
					// Message sent successfully
				default:
					// Client too slow, disconnect to prevent Hub blocking
					delete(s.clients, client)
					s.clientCount.Add(-1)
					close(client.send)
				}
			}

		case <-s.hubDone:
			for client := range s.clients {
				delete(s.clients, client)
				s.clientCount.Add(-1)
				close(client.send)
			}
			return
		}
	}
}

// -----------------------------------------------------------------------------
// WebSocket Handlers
// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// -----------------------------------------------------------------------------

func (s *APIServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	client := &Client{
		hub:  s,
		conn: conn,
		// Buffered channel to prevent blocking the Hub loop
		send: make(chan models.MEvent, 256),
	}

	s.register <- client

	// Start goroutines for reading/writing
	go client.writePump()
	go client.readPump()
}
