package server

import (
	"log"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/ballerhq/sportmate/internal/database"
)

// Room is the fan-out domain for one event's chat. A single goroutine owns
// the join/leave/message channels, so the participant set is only mutated
// from one place.
type Room struct {
	eventId     int
	event       database.Event
	cs          *ChatServer
	joinChan    chan *ClientFrame
	leaveChan   chan *Client
	messageChan chan *ClientFrame
	clients     map[*Client]struct{}
	clientLock  sync.RWMutex
	log         *log.Logger
	// exit signals the room to shut down; done is closed when it has.
	exit chan struct{}
	done chan struct{}
}

func newRoom(event database.Event, cs *ChatServer) *Room {
	return &Room{
		eventId:     event.Id,
		event:       event,
		cs:          cs,
		joinChan:    make(chan *ClientFrame, 256),
		leaveChan:   make(chan *Client, 256),
		messageChan: make(chan *ClientFrame, 256),
		clients:     make(map[*Client]struct{}),
		log:         cs.log,
		exit:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

func (r *Room) start() {
	r.log.Printf("starting room for event %d", r.eventId)

	for {
		select {
		case join := <-r.joinChan:
			r.handleJoin(join)
		case client := <-r.leaveChan:
			r.handleLeave(client)
		case frame := <-r.messageChan:
			r.saveAndBroadcast(frame)
		case <-r.exit:
			r.handleRoomExit()
			return
		}
	}
}

func (r *Room) handleRoomExit() {
	r.log.Printf("room for event %d is exiting", r.eventId)

	r.clientLock.Lock()
	for c := range r.clients {
		c.clearRoom()
	}
	clear(r.clients)
	r.clientLock.Unlock()

	close(r.done)
}

// handleJoin admits the client if they host the event or hold an RSVP for
// it. A denied or failed join leaves the connection open and roomless.
func (r *Room) handleJoin(join *ClientFrame) {
	c := join.client

	if c.user.Id != r.event.HostId {
		rsvps, err := r.cs.db.GetRsvpsByUser(c.user.Id)
		if err != nil {
			r.log.Println("GetRsvpsByUser:", err)
			c.queueFrame(ErrJoinFailed())
			r.unloadIfEmpty()
			return
		}

		eligible := lo.ContainsBy(rsvps, func(rsvp database.EventRsvp) bool {
			return rsvp.EventId == r.eventId
		})
		if !eligible {
			c.queueFrame(ErrAccessDenied())
			r.unloadIfEmpty()
			return
		}
	}

	// Refresh display fields so presence notices carry the current profile.
	user, err := r.cs.db.GetUser(c.user.Id)
	if err != nil {
		r.log.Println("GetUser:", err)
		c.queueFrame(ErrJoinFailed())
		r.unloadIfEmpty()
		return
	}
	c.user.FirstName = user.FirstName
	c.user.LastName = user.LastName
	c.user.ProfileImageUrl = user.ProfileImageUrl

	r.addClient(c)
	c.queueFrame(NewJoined(r.eventId, r.members()))

	// Tell everyone else the user is here.
	notice := NewUserJoined(ParticipantFor(c.user))
	notice.SkipClient = c
	r.broadcast(notice)
}

func (r *Room) handleLeave(c *Client) {
	if !r.removeClient(c) {
		return
	}

	r.broadcast(NewUserLeft(ParticipantFor(c.user)))

	r.unloadIfEmpty()
}

// saveAndBroadcast persists the message, then fans the stored record out to
// every participant including the sender. If the write fails, only the
// sender hears about it and nothing is broadcast.
func (r *Room) saveAndBroadcast(frame *ClientFrame) {
	c := frame.client

	text := strings.TrimSpace(frame.Message)
	if text == "" {
		c.queueFrame(ErrEmptyMessage())
		return
	}

	msg, err := r.cs.db.CreateEventMessage(database.CreateMessageParams{
		EventId: r.eventId,
		UserId:  c.user.Id,
		Message: text,
	})
	if err != nil {
		r.log.Println("CreateEventMessage:", err)
		c.queueFrame(ErrSaveFailed())
		return
	}

	r.broadcast(NewChatMessage(msg, ParticipantFor(c.user)))
	r.cs.stats.Incr(StatMessagesRelayed)
}

func (r *Room) addClient(c *Client) {
	r.clientLock.Lock()
	defer r.clientLock.Unlock()

	r.clients[c] = struct{}{}
	c.setRoom(r)
}

func (r *Room) removeClient(c *Client) bool {
	r.clientLock.Lock()
	defer r.clientLock.Unlock()

	if _, ok := r.clients[c]; !ok {
		return false
	}

	r.log.Printf("removing client %q from event %d", c.user.Id, r.eventId)
	delete(r.clients, c)
	c.clearRoom()

	return true
}

func (r *Room) numClients() int {
	r.clientLock.RLock()
	defer r.clientLock.RUnlock()
	return len(r.clients)
}

// members snapshots the current participant roster.
func (r *Room) members() []Participant {
	r.clientLock.RLock()
	defer r.clientLock.RUnlock()

	members := make([]Participant, 0, len(r.clients))
	for c := range r.clients {
		members = append(members, ParticipantFor(c.user))
	}

	return members
}

// unloadIfEmpty asks the chat server to drop the room once the last
// participant is gone. The server re-checks occupancy before unloading, so
// a join that races this request wins.
func (r *Room) unloadIfEmpty() {
	if r.numClients() > 0 {
		return
	}

	select {
	case r.cs.unloadRoomChan <- r.eventId:
	default:
		r.log.Printf("unloadRoomChan full, keeping room for event %d", r.eventId)
	}
}

func (r *Room) broadcast(frame *ServerFrame) {
	r.clientLock.RLock()
	defer r.clientLock.RUnlock()

	for client := range r.clients {
		if client == frame.SkipClient {
			continue
		}

		client.queueFrame(frame)
	}
}
