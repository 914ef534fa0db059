package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, c *Client) Envelope {
	t.Helper()
	select {
	case raw := <-c.Messages():
		var env Envelope
		require.NoError(t, json.Unmarshal(raw, &env))
		return env
	default:
		t.Fatal("expected a buffered message")
		return Envelope{}
	}
}

func assertEmpty(t *testing.T, c *Client) {
	t.Helper()
	select {
	case raw := <-c.Messages():
		t.Fatalf("unexpected message: %s", raw)
	default:
	}
}

func TestEmitReachesRoomMembers(t *testing.T) {
	hub := NewHub()

	admin := hub.Register()
	hub.Join(admin, AdminRoom)

	student := hub.Register()
	hub.Join(student, UserRoom("student@example.com"))

	hub.Emit("newPayment", map[string]string{"transactionId": "TXN-1"}, AdminRoom)

	env := receive(t, admin)
	assert.Equal(t, "newPayment", env.Event)
	assertEmpty(t, student)
}

func TestEmitToSeveralRoomsDeliversOncePerClient(t *testing.T) {
	hub := NewHub()

	// An admin watching their own user room as well
	client := hub.Register()
	hub.Join(client, AdminRoom)
	hub.Join(client, UserRoom("admin@example.com"))

	hub.Emit("courseAccessUpdated", map[string]string{"email": "admin@example.com"},
		AdminRoom, UserRoom("admin@example.com"))

	env := receive(t, client)
	assert.Equal(t, "courseAccessUpdated", env.Event)
	assertEmpty(t, client)
}

func TestEmitToEmptyRoomIsHarmless(t *testing.T) {
	hub := NewHub()
	hub.Emit("courseAccessUpdated", nil, UserRoom("nobody@example.com"))
}

func TestUnregisterLeavesAllRooms(t *testing.T) {
	hub := NewHub()

	client := hub.Register()
	hub.Join(client, AdminRoom)
	hub.Join(client, UserRoom("a@example.com"))
	require.Equal(t, 1, hub.RoomSize(AdminRoom))

	hub.Unregister(client)

	assert.Equal(t, 0, hub.RoomSize(AdminRoom))
	assert.Equal(t, 0, hub.RoomSize(UserRoom("a@example.com")))

	hub.Emit("newPayment", nil, AdminRoom)
	assertEmpty(t, client)
}

func TestSlowClientDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()

	client := hub.Register()
	hub.Join(client, AdminRoom)

	// Overfill the send buffer; Emit must return without blocking
	for i := 0; i < cap(client.send)+5; i++ {
		hub.Emit("newPayment", map[string]int{"seq": i}, AdminRoom)
	}

	delivered := 0
	for {
		select {
		case <-client.Messages():
			delivered++
			continue
		default:
		}
		break
	}
	assert.Equal(t, cap(client.send), delivered)
}

func TestUserRoomNaming(t *testing.T) {
	assert.Equal(t, "user_karim@example.com", UserRoom("karim@example.com"))
}
