package websocket

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Conn is the subset of the transport used by a client connection.
// *websocket.Conn satisfies it; tests substitute a fake.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetReadLimit(limit int64)
	Close() error
}

// Client represents one live link to a chat room. The user id is set at
// open time and never changes; a client belongs to exactly one room.
type Client struct {
	Conn     Conn
	Send     chan []byte
	UserID   int
	RoomID   int
	done     chan struct{}
	mu       sync.Mutex // Mutex for connection access
	isClosed bool       // Flag to track connection state
}

func newClient(conn Conn, roomID, userID int) *Client {
	return &Client{
		Conn:   conn,
		Send:   make(chan []byte, 16),
		UserID: userID,
		RoomID: roomID,
		done:   make(chan struct{}),
	}
}

// enqueue hands a frame to the write pump without blocking the caller. A
// full buffer degrades only this recipient's delivery, never the sender.
func (cl *Client) enqueue(msg []byte) {
	select {
	case cl.Send <- msg:
	default:
		log.Printf("Dropping frame for user %d in room %d: send buffer full", cl.UserID, cl.RoomID)
	}
}

func (cl *Client) keepAlive() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-cl.done:
			return
		case <-ticker.C:
			cl.mu.Lock()
			if cl.isClosed {
				cl.mu.Unlock()
				return
			}
			err := cl.Conn.WriteMessage(websocket.PingMessage, nil)
			cl.mu.Unlock()

			if err != nil {
				log.Printf("Ping error for user %d in room %d: %v", cl.UserID, cl.RoomID, err)
				return
			}
		}
	}
}

// writeMessages drains the send queue onto the wire. A failed write is
// logged and skipped; the connection is torn down only through the normal
// close transition driven by the read side.
func (cl *Client) writeMessages() {
	defer func() {
		cl.mu.Lock()
		cl.isClosed = true
		cl.Conn.Close()
		cl.mu.Unlock()
	}()

	for {
		select {
		case <-cl.done:
			return
		case msg, ok := <-cl.Send:
			if !ok {
				return
			}

			cl.mu.Lock()
			if cl.isClosed {
				cl.mu.Unlock()
				return
			}
			err := cl.Conn.WriteMessage(websocket.TextMessage, msg)
			cl.mu.Unlock()

			if err != nil {
				log.Printf("Error sending frame to user %d in room %d: %v", cl.UserID, cl.RoomID, err)
			}
		}
	}
}
