package live

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
)

// Hub is the ephemeral, room-keyed broadcast channel for connected UI
// sessions. It is a convenience layer only: a disconnected client misses
// the event and catches up from the notification list.
type Hub struct {
	rooms       map[string]map[*Client]struct{}
	memberships map[*Client]map[string]struct{}

	register   chan *Client
	unregister chan *Client
	join       chan membership
	leave      chan membership
	broadcast  chan frame
}

type membership struct {
	client *Client
	room   string
}

type frame struct {
	room string
	data []byte
}

// event is the JSON envelope written to clients.
type event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// UserRoom is the personal notification channel of one user.
func UserRoom(userID int64) string {
	return fmt.Sprintf("user:%d", userID)
}

// DiscussionRoom is the page room of one discussion.
func DiscussionRoom(discussionID int64) string {
	return fmt.Sprintf("discussion:%d", discussionID)
}

// NewHub creates an empty hub. Call Run before registering clients.
func NewHub() *Hub {
	return &Hub{
		rooms:       make(map[string]map[*Client]struct{}),
		memberships: make(map[*Client]map[string]struct{}),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		join:        make(chan membership),
		leave:       make(chan membership),
		broadcast:   make(chan frame, 256),
	}
}

// Run owns the room maps; all membership changes and broadcasts go through
// this single loop, so no locking is needed.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case c := <-h.register:
			h.memberships[c] = make(map[string]struct{})
		case c := <-h.unregister:
			// Already evicted clients unregister again when their read
			// pump exits; closing send twice would panic.
			if rooms, ok := h.memberships[c]; ok {
				for room := range rooms {
					h.dropFromRoom(c, room)
				}
				delete(h.memberships, c)
				close(c.send)
			}
		case m := <-h.join:
			if _, ok := h.memberships[m.client]; !ok {
				continue
			}
			if h.rooms[m.room] == nil {
				h.rooms[m.room] = make(map[*Client]struct{})
			}
			h.rooms[m.room][m.client] = struct{}{}
			h.memberships[m.client][m.room] = struct{}{}
		case m := <-h.leave:
			if _, ok := h.memberships[m.client]; !ok {
				continue
			}
			h.dropFromRoom(m.client, m.room)
			delete(h.memberships[m.client], m.room)
		case f := <-h.broadcast:
			for c := range h.rooms[f.room] {
				select {
				case c.send <- f.data:
				default:
					// Slow consumer; evict rather than stall the loop.
					for room := range h.memberships[c] {
						h.dropFromRoom(c, room)
					}
					delete(h.memberships, c)
					close(c.send)
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) dropFromRoom(c *Client, room string) {
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// Register adds a connected client to the hub.
func (h *Hub) Register(c *Client) {
	h.register <- c
}

// Unregister removes a client from all rooms and releases it.
func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

// JoinRoom adds a registered client to a room.
func (h *Hub) JoinRoom(c *Client, room string) {
	h.join <- membership{client: c, room: room}
}

// LeaveRoom removes a client from a room.
func (h *Hub) LeaveRoom(c *Client, room string) {
	h.leave <- membership{client: c, room: room}
}

// Broadcast sends an event to every client currently in the room. There are
// no delivery guarantees; when the hub is saturated the event is dropped.
func (h *Hub) Broadcast(room, eventName string, payload any) {
	data, err := json.Marshal(event{Event: eventName, Data: payload})
	if err != nil {
		log.Printf("Error marshaling live event %q: %v", eventName, err)
		return
	}
	select {
	case h.broadcast <- frame{room: room, data: data}:
	default:
		log.Printf("Live broadcast buffer full, dropping %q for room %s", eventName, room)
	}
}
