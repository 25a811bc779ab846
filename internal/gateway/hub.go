package gateway

import (
	"log"

	"github.com/terrence3333/Mindconnect-Demo/internal/models"

	"github.com/google/uuid"
)

// historyLimit is the number of recent messages delivered on join.
const historyLimit = 50

type commandKind int

const (
	cmdRegister commandKind = iota
	cmdUnregister
	cmdJoin
	cmdLeave
	cmdBroadcast
	cmdMembers
)

// command is one unit of work for the hub loop. All membership mutation and
// fan-out go through this single queue, so commands enqueued by one goroutine
// are applied in the order it sent them.
type command struct {
	kind    commandKind
	client  Client
	roomID  string
	exclude Client
	event   models.OutboundEvent
	reply   chan []string
}

// Hub owns the room registry for one gateway instance: an explicit mapping
// from room ID to the set of currently joined clients, plus the reverse
// per-client membership set. Rooms are transient; a room exists only while at
// least one client is joined.
type Hub struct {
	origin string

	clients  map[Client]map[string]struct{}
	rooms    map[string]map[Client]struct{}
	commands chan command
	quit     chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		origin:   uuid.New().String(),
		clients:  make(map[Client]map[string]struct{}),
		rooms:    make(map[string]map[Client]struct{}),
		commands: make(chan command, 64),
		quit:     make(chan struct{}),
	}
}

// Origin identifies this gateway instance on the relay channel.
func (h *Hub) Origin() string { return h.origin }

// Run processes hub commands until Stop is called. Exactly one Run loop per hub.
func (h *Hub) Run() {
	for {
		select {
		case cmd := <-h.commands:
			h.apply(cmd)
		case <-h.quit:
			return
		}
	}
}

// Stop terminates the Run loop.
func (h *Hub) Stop() {
	close(h.quit)
}

// Register attaches an authenticated client with no room memberships.
func (h *Hub) Register(c Client) {
	h.commands <- command{kind: cmdRegister, client: c}
}

// Unregister tears the client down: every room it was a member of is notified
// with a user-left event, then all of its state is discarded.
func (h *Hub) Unregister(c Client) {
	h.commands <- command{kind: cmdUnregister, client: c}
}

// Join adds the client to a room. Joining a room the client is already a
// member of leaves the registry unchanged.
func (h *Hub) Join(c Client, roomID string) {
	h.commands <- command{kind: cmdJoin, client: c, roomID: roomID}
}

// Leave removes the client from a room and notifies the remaining members.
// Leaving a room the client is not a member of is a no-op.
func (h *Hub) Leave(c Client, roomID string) {
	h.commands <- command{kind: cmdLeave, client: c, roomID: roomID}
}

// Broadcast fans the event out to every member of the room except exclude.
// Pass exclude nil to reach the whole room. Broadcasting to an unknown or
// empty room is a no-op.
func (h *Hub) Broadcast(roomID string, exclude Client, ev models.OutboundEvent) {
	h.commands <- command{kind: cmdBroadcast, roomID: roomID, exclude: exclude, event: ev}
}

// Members returns the user IDs currently joined to the room. The reply is
// produced by the hub loop, so all commands enqueued before the call have been
// applied by the time it returns.
func (h *Hub) Members(roomID string) []string {
	reply := make(chan []string, 1)
	h.commands <- command{kind: cmdMembers, roomID: roomID, reply: reply}
	return <-reply
}

func (h *Hub) apply(cmd command) {
	switch cmd.kind {
	case cmdRegister:
		if _, ok := h.clients[cmd.client]; !ok {
			h.clients[cmd.client] = make(map[string]struct{})
		}
	case cmdUnregister:
		h.drop(cmd.client)
	case cmdJoin:
		h.join(cmd.client, cmd.roomID)
	case cmdLeave:
		h.leave(cmd.client, cmd.roomID)
	case cmdBroadcast:
		h.fanOut(cmd.roomID, cmd.exclude, cmd.event)
	case cmdMembers:
		members := make([]string, 0, len(h.rooms[cmd.roomID]))
		for c := range h.rooms[cmd.roomID] {
			members = append(members, c.UserID())
		}
		cmd.reply <- members
	}
}

func (h *Hub) join(c Client, roomID string) {
	memberships, ok := h.clients[c]
	if !ok {
		return // already dropped
	}
	if _, joined := memberships[roomID]; joined {
		return
	}
	memberships[roomID] = struct{}{}

	room := h.rooms[roomID]
	if room == nil {
		room = make(map[Client]struct{})
		h.rooms[roomID] = room
	}
	room[c] = struct{}{}
}

func (h *Hub) leave(c Client, roomID string) {
	memberships, ok := h.clients[c]
	if !ok {
		return
	}
	if _, joined := memberships[roomID]; !joined {
		return
	}
	delete(memberships, roomID)
	h.removeFromRoom(c, roomID, true)
}

// drop removes the client entirely, announcing its departure to every room it
// was still a member of. Safe to call for clients that are already gone.
func (h *Hub) drop(c Client) {
	memberships, ok := h.clients[c]
	if !ok {
		return
	}
	delete(h.clients, c)
	for roomID := range memberships {
		h.removeFromRoom(c, roomID, true)
	}
	c.Close()
	log.Printf("client disconnected: %s", c.UserID())
}

func (h *Hub) removeFromRoom(c Client, roomID string, announce bool) {
	room := h.rooms[roomID]
	if room == nil {
		return
	}
	delete(room, c)
	if len(room) == 0 {
		delete(h.rooms, roomID)
		return
	}
	if announce {
		h.fanOut(roomID, nil, models.OutboundEvent{
			Event:    models.EventUserLeft,
			RoomID:   roomID,
			UserID:   c.UserID(),
			UserName: c.UserName(),
		})
	}
}

// fanOut delivers the event to the room's current members. Members whose
// buffers are full are dropped afterwards, which funnels them through the
// normal teardown path.
func (h *Hub) fanOut(roomID string, exclude Client, ev models.OutboundEvent) {
	var dropped []Client
	for c := range h.rooms[roomID] {
		if c == exclude {
			continue
		}
		if !c.Deliver(ev) {
			dropped = append(dropped, c)
		}
	}
	for _, c := range dropped {
		log.Printf("dropping slow client: %s", c.UserID())
		h.drop(c)
	}
}
