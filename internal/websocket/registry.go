package websocket

import (
	"sort"
	"sync"
)

// Registry tracks which connections are live in each room. It is shared
// mutable state: every mutation and every membership read used for a
// broadcast goes through the same lock so a snapshot always reflects a
// consistent membership at a point in time.
type Registry struct {
	mu    sync.RWMutex
	rooms map[int]*Room
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[int]*Room),
	}
}

// Register adds the connection to its room, creating the room entry if
// absent. It returns a snapshot of the room membership after the add, taken
// under the same critical section.
func (reg *Registry) Register(cl *Client) []*Client {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	room, ok := reg.rooms[cl.RoomID]
	if !ok {
		room = &Room{
			ID:      cl.RoomID,
			Clients: make(map[*Client]struct{}),
		}
		reg.rooms[cl.RoomID] = room
		setRooms(len(reg.rooms))
	}

	room.Clients[cl] = struct{}{}
	incConnections()

	return membersLocked(room)
}

// Unregister removes the connection from its room. If the room becomes
// empty its entry is deleted, so no residual empty rooms remain. The
// returned snapshot holds the members left after the removal; removed is
// false when the connection was not present (a benign no-op).
func (reg *Registry) Unregister(cl *Client) (remaining []*Client, removed bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	room, ok := reg.rooms[cl.RoomID]
	if !ok {
		return nil, false
	}

	if _, ok := room.Clients[cl]; !ok {
		return membersLocked(room), false
	}

	delete(room.Clients, cl)
	decConnections()

	if len(room.Clients) == 0 {
		delete(reg.rooms, cl.RoomID)
		setRooms(len(reg.rooms))
		return nil, true
	}

	return membersLocked(room), true
}

// Connections returns a snapshot of the connections currently in the room,
// or an empty slice when the room does not exist.
func (reg *Registry) Connections(roomID int) []*Client {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	room, ok := reg.rooms[roomID]
	if !ok {
		return nil
	}
	return membersLocked(room)
}

// ConnectedUserIDs returns the de-duplicated user ids connected to the
// room, sorted ascending. Two connections of the same user contribute a
// single entry.
func (reg *Registry) ConnectedUserIDs(roomID int) []int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	room, ok := reg.rooms[roomID]
	if !ok {
		return []int{}
	}
	return userIDs(membersLocked(room))
}

// RoomIDs lists the ids of rooms that currently have live connections.
func (reg *Registry) RoomIDs() []int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	ids := make([]int, 0, len(reg.rooms))
	for id := range reg.rooms {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func membersLocked(room *Room) []*Client {
	members := make([]*Client, 0, len(room.Clients))
	for cl := range room.Clients {
		members = append(members, cl)
	}
	return members
}

func userIDs(members []*Client) []int {
	seen := make(map[int]struct{}, len(members))
	ids := make([]int, 0, len(members))
	for _, cl := range members {
		if _, ok := seen[cl.UserID]; ok {
			continue
		}
		seen[cl.UserID] = struct{}{}
		ids = append(ids, cl.UserID)
	}
	sort.Ints(ids)
	return ids
}
