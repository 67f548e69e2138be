package websocket

import (
	"encoding/json"
	"log"
)

// broadcastPresence recomputes the de-duplicated user ids of the given
// membership snapshot and pushes a presence event to every connection in
// it. Snapshots come straight from the registry's critical section, so the
// event reflects a consistent membership.
func (h *Handler) broadcastPresence(members []*Client) {
	if len(members) == 0 {
		return
	}

	event := PresenceEvent{
		Type:           presenceEventType,
		ConnectedUsers: userIDs(members),
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshaling presence event: %v", err)
		return
	}

	for _, member := range members {
		member.enqueue(data)
	}
	addDelivered(len(members))
}
