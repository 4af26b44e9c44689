package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ballerhq/sportmate/internal/database"
	"github.com/ballerhq/sportmate/internal/stats"
	"github.com/ballerhq/sportmate/internal/testutil"
)

func TestNewChatServer(t *testing.T) {
	db := &database.MockSportMateRepository{}
	st := &stats.MockStatsUpdater{}
	st.On("RegisterMetric", StatActiveClients)
	st.On("RegisterMetric", StatActiveRooms)
	st.On("RegisterMetric", StatMessagesRelayed)

	cs, err := NewChatServer(testutil.TestLogger(t), db, st)
	assert.NoError(t, err, "expected no error creating chat server")
	assert.NotNil(t, cs.rooms, "expected room registry to be initialized")
	assert.NotNil(t, cs.joinChan, "expected join channel to be initialized")
	assert.NotNil(t, cs.unloadRoomChan, "expected unload channel to be initialized")

	st.AssertExpectations(t)
}

func Test_handleJoinRequest_createsRoom(t *testing.T) {
	event := database.Event{Id: 7, HostId: "host-1", Title: "Sunday pickup"}

	db := &database.MockSportMateRepository{}
	db.On("GetEventById", 7).Return(event, nil)
	db.On("GetUser", "host-1").Return(database.User{Id: "host-1", FirstName: "Hana"}, nil)

	cs := newTestChatServer(t, db)

	c := newTestClient("host-1", "Hana")
	cs.handleJoinRequest(&ClientFrame{Type: TypeJoinEvent, EventId: 7, UserId: "host-1", client: c})

	assert.Contains(t, cs.rooms, 7, "expected a room for the event")

	// The room actor picks the join up and admits the host.
	frame := recvFrame(t, c)
	assert.Equal(t, TypeJoined, frame.Type, "expected the join to be confirmed")
	assert.Equal(t, 7, frame.EventId, "expected the joined frame to carry the event id")

	db.AssertExpectations(t)
}

func Test_handleJoinRequest_routesToExistingRoom(t *testing.T) {
	event := database.Event{Id: 7, HostId: "host-1"}

	db := &database.MockSportMateRepository{}
	cs := newTestChatServer(t, db)

	room := newRoom(event, cs)
	cs.rooms[7] = room

	c := newTestClient("host-1", "Hana")
	frame := &ClientFrame{Type: TypeJoinEvent, EventId: 7, UserId: "host-1", client: c}
	cs.handleJoinRequest(frame)

	select {
	case got := <-room.joinChan:
		assert.Equal(t, frame, got, "expected the join routed to the existing room")
	default:
		t.Error("expected the join on the room's join channel")
	}

	// No second event lookup for an already loaded room.
	db.AssertNotCalled(t, "GetEventById", 7)
}

func Test_handleJoinRequest_eventNotFound(t *testing.T) {
	db := &database.MockSportMateRepository{}
	db.On("GetEventById", 404).Return(database.Event{}, sql.ErrNoRows)

	cs := newTestChatServer(t, db)

	c := newTestClient("user-1", "Hana")
	cs.handleJoinRequest(&ClientFrame{Type: TypeJoinEvent, EventId: 404, UserId: "user-1", client: c})

	frame := recvFrame(t, c)
	assert.Equal(t, TypeError, frame.Type, "expected an error notice")
	assert.Equal(t, "Event not found", frame.Message, "expected the not-found reason")

	assert.NotContains(t, cs.rooms, 404, "expected no room for a missing event")
	assert.Nil(t, c.getRoom(), "expected the connection to stay roomless")
}

func Test_handleJoinRequest_lookupError(t *testing.T) {
	db := &database.MockSportMateRepository{}
	db.On("GetEventById", 7).Return(database.Event{}, errors.New("db down"))

	cs := newTestChatServer(t, db)

	c := newTestClient("user-1", "Hana")
	cs.handleJoinRequest(&ClientFrame{Type: TypeJoinEvent, EventId: 7, UserId: "user-1", client: c})

	frame := recvFrame(t, c)
	assert.Equal(t, TypeError, frame.Type, "expected an error notice")
	assert.Equal(t, "Failed to join event chat", frame.Message, "expected the lookup-failure reason")
	assert.NotContains(t, cs.rooms, 7, "expected no room when the lookup fails")
}

func Test_handleUnloadRoom(t *testing.T) {
	db := &database.MockSportMateRepository{}
	cs := newTestChatServer(t, db)

	room := newRoom(database.Event{Id: 7, HostId: "host-1"}, cs)
	cs.rooms[7] = room
	go room.start()

	cs.handleUnloadRoom(7)

	assert.NotContains(t, cs.rooms, 7, "expected the room removed from the registry")
	select {
	case <-room.done:
	case <-time.After(time.Second):
		t.Error("expected the room goroutine to exit")
	}
}

func Test_handleUnloadRoom_skipsOccupiedRoom(t *testing.T) {
	db := &database.MockSportMateRepository{}
	cs := newTestChatServer(t, db)

	room := newRoom(database.Event{Id: 7, HostId: "host-1"}, cs)
	cs.rooms[7] = room

	// A participant joined after the unload was requested.
	room.addClient(newTestClient("host-1", "Hana"))

	cs.handleUnloadRoom(7)

	assert.Contains(t, cs.rooms, 7, "expected the occupied room to survive")
}

func Test_handleUnloadRoom_keepsRoomWithPendingJoin(t *testing.T) {
	db := &database.MockSportMateRepository{}
	db.On("GetUser", "host-1").Return(database.User{Id: "host-1", FirstName: "Hana"}, nil)

	cs := newTestChatServer(t, db)

	room := newRoom(database.Event{Id: 7, HostId: "host-1"}, cs)
	cs.rooms[7] = room

	// A join was routed to the room, but its actor hasn't drained it yet.
	c := newTestClient("host-1", "Hana")
	room.joinChan <- &ClientFrame{Type: TypeJoinEvent, EventId: 7, UserId: "host-1", client: c}

	cs.handleUnloadRoom(7)

	assert.Contains(t, cs.rooms, 7, "expected the room kept while a join is queued")

	// The queued join is still delivered once the actor runs.
	go room.start()
	frame := recvFrame(t, c)
	assert.Equal(t, TypeJoined, frame.Type, "expected the queued join confirmed")

	close(room.exit)
	select {
	case <-room.done:
	case <-time.After(time.Second):
		t.Error("expected the room goroutine to exit")
	}

	db.AssertExpectations(t)
}

// Last disconnect empties the room, which removes the registry entry.
func Test_disconnectUnloadsEmptyRoom(t *testing.T) {
	event := database.Event{Id: 7, HostId: "host-1"}

	db := &database.MockSportMateRepository{}
	db.On("GetEventById", 7).Return(event, nil)
	db.On("GetUser", "host-1").Return(database.User{Id: "host-1", FirstName: "Hana"}, nil)

	cs := newTestChatServer(t, db)

	c := newTestClient("host-1", "Hana")
	cs.handleJoinRequest(&ClientFrame{Type: TypeJoinEvent, EventId: 7, UserId: "host-1", client: c})

	frame := recvFrame(t, c)
	assert.Equal(t, TypeJoined, frame.Type, "expected the join to be confirmed")

	room := cs.rooms[7]
	room.leaveChan <- c

	select {
	case eventId := <-cs.unloadRoomChan:
		assert.Equal(t, 7, eventId, "expected an unload request for the emptied room")
		cs.handleUnloadRoom(eventId)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the unload request")
	}

	assert.NotContains(t, cs.rooms, 7, "expected the registry entry gone after the last disconnect")
	db.AssertExpectations(t)
}

func Test_concurrentJoins(t *testing.T) {
	event := database.Event{Id: 7, HostId: "host-1"}

	db := &database.MockSportMateRepository{}
	db.On("GetEventById", 7).Return(event, nil)
	db.On("GetUser", "host-1").Return(database.User{Id: "host-1", FirstName: "Hana"}, nil)
	for i := 0; i < 9; i++ {
		userId := fmt.Sprintf("user-%d", i)
		db.On("GetRsvpsByUser", userId).Return([]database.EventRsvp{{EventId: 7, UserId: userId}}, nil)
		db.On("GetUser", userId).Return(database.User{Id: userId}, nil)
	}

	cs := newTestChatServer(t, db)

	clients := make([]*Client, 0, 10)
	host := newTestClient("host-1", "Hana")
	clients = append(clients, host)
	cs.handleJoinRequest(&ClientFrame{Type: TypeJoinEvent, EventId: 7, UserId: "host-1", client: host})

	for i := 0; i < 9; i++ {
		userId := fmt.Sprintf("user-%d", i)
		c := newTestClient(userId, "")
		clients = append(clients, c)
		cs.handleJoinRequest(&ClientFrame{Type: TypeJoinEvent, EventId: 7, UserId: userId, client: c})
	}

	assert.Len(t, cs.rooms, 1, "expected a single room for the event")

	for _, c := range clients {
		frame := recvFrame(t, c)
		assert.Equal(t, TypeJoined, frame.Type, "expected every member admitted")
	}

	assert.Eventually(t, func() bool {
		return cs.rooms[7].numClients() == 10
	}, time.Second, 10*time.Millisecond, "expected all ten members in the room")
}

func TestShutdown(t *testing.T) {
	db := &database.MockSportMateRepository{}
	cs := newTestChatServer(t, db)

	room := newRoom(database.Event{Id: 7, HostId: "host-1"}, cs)
	cs.rooms[7] = room
	go room.start()

	c := newTestClient("host-1", "Hana")
	cs.addClient(c)

	go cs.Run()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := cs.Shutdown(ctx)
	assert.NoError(t, err, "expected clean shutdown")

	select {
	case <-c.stop:
	default:
		t.Error("expected client stop channel closed on shutdown")
	}

	select {
	case <-room.done:
	case <-time.After(time.Second):
		t.Error("expected room goroutine stopped on shutdown")
	}
}

func Test_addClient_removeClient(t *testing.T) {
	db := &database.MockSportMateRepository{}
	cs := newTestChatServer(t, db)

	c := newTestClient("user-1", "Hana")
	cs.addClient(c)
	assert.Contains(t, cs.clients, c, "expected client registered")

	cs.removeClient(c)
	assert.NotContains(t, cs.clients, c, "expected client deregistered")
}
