package gateway_test

import (
	"testing"

	"github.com/terrence3333/Mindconnect-Demo/internal/gateway"
	"github.com/terrence3333/Mindconnect-Demo/internal/models"

	"github.com/stretchr/testify/assert"
)

func newRunningHub(t *testing.T) *gateway.Hub {
	t.Helper()
	hub := gateway.NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)
	return hub
}

func TestHub_JoinAndMembers(t *testing.T) {
	hub := newRunningHub(t)
	clientA := newFakeClient("user_A", "Alice")

	hub.Register(clientA)
	hub.Join(clientA, "room1")

	assert.ElementsMatch(t, []string{"user_A"}, hub.Members("room1"))
}

func TestHub_JoinIsIdempotent(t *testing.T) {
	hub := newRunningHub(t)
	clientA := newFakeClient("user_A", "Alice")

	hub.Register(clientA)
	hub.Join(clientA, "room1")
	hub.Join(clientA, "room1")

	assert.Len(t, hub.Members("room1"), 1)
}

func TestHub_JoinWithoutRegisterIsIgnored(t *testing.T) {
	hub := newRunningHub(t)
	clientA := newFakeClient("user_A", "Alice")

	hub.Join(clientA, "room1")

	assert.Empty(t, hub.Members("room1"))
}

func TestHub_BroadcastExcludesSender(t *testing.T) {
	hub := newRunningHub(t)
	clientA := newFakeClient("user_A", "Alice")
	clientB := newFakeClient("user_B", "Bob")
	hub.Register(clientA)
	hub.Register(clientB)
	hub.Join(clientA, "room1")
	hub.Join(clientB, "room1")

	hub.Broadcast("room1", clientA, models.OutboundEvent{Event: models.EventUserTyping, UserID: "user_A"})
	hub.Members("room1") // barrier: all prior commands applied

	assert.Empty(t, clientA.drain())
	events := clientB.drain()
	if assert.Len(t, events, 1) {
		assert.Equal(t, models.EventUserTyping, events[0].Event)
		assert.Equal(t, "user_A", events[0].UserID)
	}
}

func TestHub_BroadcastToWholeRoom(t *testing.T) {
	hub := newRunningHub(t)
	clientA := newFakeClient("user_A", "Alice")
	clientB := newFakeClient("user_B", "Bob")
	hub.Register(clientA)
	hub.Register(clientB)
	hub.Join(clientA, "room1")
	hub.Join(clientB, "room1")

	hub.Broadcast("room1", nil, models.OutboundEvent{Event: models.EventNewMessage})
	hub.Members("room1")

	assert.Len(t, clientA.drain(), 1)
	assert.Len(t, clientB.drain(), 1)
}

func TestHub_BroadcastToUnknownRoomIsNoOp(t *testing.T) {
	hub := newRunningHub(t)
	clientA := newFakeClient("user_A", "Alice")
	hub.Register(clientA)

	hub.Broadcast("nowhere", nil, models.OutboundEvent{Event: models.EventNewMessage})
	hub.Members("nowhere")

	assert.Empty(t, clientA.drain())
}

func TestHub_LeaveAnnouncesToRemaining(t *testing.T) {
	hub := newRunningHub(t)
	clientA := newFakeClient("user_A", "Alice")
	clientB := newFakeClient("user_B", "Bob")
	hub.Register(clientA)
	hub.Register(clientB)
	hub.Join(clientA, "room1")
	hub.Join(clientB, "room1")

	hub.Leave(clientA, "room1")
	assert.ElementsMatch(t, []string{"user_B"}, hub.Members("room1"))

	events := clientB.drain()
	if assert.Len(t, events, 1) {
		assert.Equal(t, models.EventUserLeft, events[0].Event)
		assert.Equal(t, "user_A", events[0].UserID)
		assert.Equal(t, "Alice", events[0].UserName)
	}

	// Leaving again must not announce a second departure.
	hub.Leave(clientA, "room1")
	hub.Members("room1")
	assert.Empty(t, clientB.drain())
}

func TestHub_UnregisterAnnouncesEveryRoom(t *testing.T) {
	hub := newRunningHub(t)
	clientA := newFakeClient("user_A", "Alice")
	clientB := newFakeClient("user_B", "Bob")
	clientC := newFakeClient("user_C", "Cara")
	hub.Register(clientA)
	hub.Register(clientB)
	hub.Register(clientC)
	hub.Join(clientA, "room1")
	hub.Join(clientA, "room2")
	hub.Join(clientB, "room1")
	hub.Join(clientC, "room2")

	hub.Unregister(clientA)

	assert.ElementsMatch(t, []string{"user_B"}, hub.Members("room1"))
	assert.ElementsMatch(t, []string{"user_C"}, hub.Members("room2"))
	assert.True(t, clientA.closed)

	eventsB := clientB.drain()
	if assert.Len(t, eventsB, 1) {
		assert.Equal(t, models.EventUserLeft, eventsB[0].Event)
		assert.Equal(t, "room1", eventsB[0].RoomID)
	}
	eventsC := clientC.drain()
	if assert.Len(t, eventsC, 1) {
		assert.Equal(t, models.EventUserLeft, eventsC[0].Event)
		assert.Equal(t, "room2", eventsC[0].RoomID)
	}
}

func TestHub_UnregisterUnknownClientIsNoOp(t *testing.T) {
	hub := newRunningHub(t)
	clientA := newFakeClient("user_A", "Alice")

	hub.Unregister(clientA)
	hub.Unregister(clientA)
	hub.Members("room1")

	assert.False(t, clientA.closed)
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	hub := newRunningHub(t)
	stuck := newStuckClient("user_S", "Stuck")
	clientB := newFakeClient("user_B", "Bob")
	hub.Register(stuck)
	hub.Register(clientB)
	hub.Join(stuck, "room1")
	hub.Join(clientB, "room1")

	hub.Broadcast("room1", nil, models.OutboundEvent{Event: models.EventNewMessage})

	assert.ElementsMatch(t, []string{"user_B"}, hub.Members("room1"))
	assert.True(t, stuck.closed)

	// Bob sees the original broadcast plus the departure of the dropped client.
	events := clientB.drain()
	if assert.Len(t, events, 2) {
		assert.Equal(t, models.EventNewMessage, events[0].Event)
		assert.Equal(t, models.EventUserLeft, events[1].Event)
		assert.Equal(t, "user_S", events[1].UserID)
	}
}

func TestHub_OriginIsStable(t *testing.T) {
	hub := gateway.NewHub()
	assert.NotEmpty(t, hub.Origin())
	assert.Equal(t, hub.Origin(), hub.Origin())
	assert.NotEqual(t, hub.Origin(), gateway.NewHub().Origin())
}
