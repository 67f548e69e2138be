package websocket

// Room groups the live connections sharing a chat id. A room exists only
// while it has at least one connection.
type Room struct {
	ID      int
	Clients map[*Client]struct{}
}

// PresenceEvent is the outbound membership update pushed to every
// connection in a room whenever someone joins or leaves.
type PresenceEvent struct {
	Type           string `json:"type"`
	ConnectedUsers []int  `json:"connectedUsers"`
}

const presenceEventType = "userStatusUpdate"
