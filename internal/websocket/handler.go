package websocket

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler drives connection lifecycle transitions against the registry and
// relays inbound chat frames. The registry is injected so the handler
// carries no hidden global state.
type Handler struct {
	registry *Registry
}

func NewHandler(registry *Registry) *Handler {
	return &Handler{
		registry: registry,
	}
}

func (h *Handler) Registry() *Registry {
	return h.registry
}

// JoinRoom upgrades the request and runs the Open transition: register,
// presence update, join notice to all current members including the
// joiner. Both ids are trusted; validation is the caller's concern.
func (h *Handler) JoinRoom(w http.ResponseWriter, r *http.Request, roomID, userID int) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cl := newClient(conn, roomID, userID)
	h.openConnection(cl)

	go cl.keepAlive()
	go cl.writeMessages()
	go h.readMessages(cl)
}

func (h *Handler) openConnection(cl *Client) {
	members := h.registry.Register(cl)
	log.Printf("User %d joined room %d (%d connections)", cl.UserID, cl.RoomID, len(members))

	h.broadcastPresence(members)
	h.broadcastNotice(members, fmt.Sprintf("User [%d] has joined the chat.", cl.UserID))
}

// closeConnection runs the Close transition: unregister, then notify the
// remaining members. When the room emptied out no broadcast occurs, the
// room is already gone.
func (h *Handler) closeConnection(cl *Client) {
	remaining, removed := h.registry.Unregister(cl)
	if !removed {
		log.Printf("Close for user %d in room %d: connection not registered", cl.UserID, cl.RoomID)
		return
	}

	if len(remaining) == 0 {
		log.Printf("Room %d dissolved after user %d left", cl.RoomID, cl.UserID)
		return
	}

	h.broadcastNotice(remaining, fmt.Sprintf("User [%d] has left the chat.", cl.UserID))
	h.broadcastPresence(remaining)
}

func (h *Handler) readMessages(cl *Client) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic in readMessages: %v", r)
		}

		close(cl.done)
		h.closeConnection(cl)
		log.Printf("User %d disconnected from room %d", cl.UserID, cl.RoomID)
	}()

	cl.Conn.SetReadLimit(512 * 1024) // Set a reasonable read limit

	for {
		_, payload, err := cl.Conn.ReadMessage()
		if err != nil {
			if closeErr, ok := err.(*websocket.CloseError); ok {
				if closeErr.Code == websocket.CloseNormalClosure ||
					closeErr.Code == websocket.CloseGoingAway ||
					closeErr.Code == websocket.CloseNoStatusReceived {
					break
				}
			}
			log.Printf("Error reading frame from user %d in room %d: %v", cl.UserID, cl.RoomID, err)
			break
		}

		h.relayMessage(cl, payload)
	}
}

// relayMessage decodes the envelope and fans the raw payload out, prefixed
// as a chat notice, to every connection in the room whose user id differs
// from the embedded sender id. The prefix carries the user id recorded on
// the connection, never the one embedded in the payload. A frame that
// fails to decode is dropped.
func (h *Handler) relayMessage(cl *Client, payload []byte) {
	env, err := DecodeEnvelope(payload)
	if err != nil {
		log.Printf("Dropping frame from user %d in room %d: %v", cl.UserID, cl.RoomID, err)
		return
	}

	members := h.registry.Connections(cl.RoomID)
	msg := []byte(fmt.Sprintf("User [%d]: %s", cl.UserID, env.Raw))

	delivered := 0
	for _, member := range members {
		if member.UserID == env.SenderID {
			continue
		}
		member.enqueue(msg)
		delivered++
	}
	if delivered > 0 {
		addDelivered(delivered)
	}
}

func (h *Handler) broadcastNotice(members []*Client, notice string) {
	for _, member := range members {
		member.enqueue([]byte(notice))
	}
	if len(members) > 0 {
		addDelivered(len(members))
	}
}
