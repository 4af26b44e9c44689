package server

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"sync"

	"github.com/ballerhq/sportmate/internal/database"
	"github.com/ballerhq/sportmate/internal/stats"
)

const (
	StatActiveClients   = "NumActiveClients"
	StatActiveRooms     = "NumActiveRooms"
	StatMessagesRelayed = "NumMessagesRelayed"
)

// ChatServer owns the room registry. Rooms are created lazily on the first
// join for an event and unloaded once the last participant leaves.
type ChatServer struct {
	log            *log.Logger
	db             database.SportMateRepository
	stats          stats.StatsProvider
	clients        map[*Client]struct{}
	clientsLock    sync.Mutex
	joinChan       chan *ClientFrame
	registerChan   chan *Client
	deRegisterChan chan *Client
	unloadRoomChan chan int
	rooms          map[int]*Room
	stop           chan struct{}
	done           chan struct{}
}

func NewChatServer(logger *log.Logger, db database.SportMateRepository, statsProvider stats.StatsProvider) (*ChatServer, error) {
	cs := &ChatServer{
		log:            logger,
		db:             db,
		stats:          statsProvider,
		clients:        make(map[*Client]struct{}),
		joinChan:       make(chan *ClientFrame, 256),
		registerChan:   make(chan *Client),
		deRegisterChan: make(chan *Client),
		unloadRoomChan: make(chan int, 256),
		rooms:          make(map[int]*Room),
		stop:           make(chan struct{}),
		done:           make(chan struct{}),
	}

	cs.stats.RegisterMetric(StatActiveClients)
	cs.stats.RegisterMetric(StatActiveRooms)
	cs.stats.RegisterMetric(StatMessagesRelayed)

	return cs, nil
}

func (cs *ChatServer) Run() {
	for {
		select {
		case frame := <-cs.joinChan:
			cs.handleJoinRequest(frame)
		case client := <-cs.registerChan:
			cs.log.Printf("adding connection from %q", client.user.Id)
			cs.addClient(client)
			cs.stats.Incr(StatActiveClients)
		case client := <-cs.deRegisterChan:
			cs.log.Printf("removing connection from %q", client.user.Id)
			cs.removeClient(client)
			cs.stats.Decr(StatActiveClients)
		case eventId := <-cs.unloadRoomChan:
			cs.handleUnloadRoom(eventId)
		case <-cs.stop:
			cs.log.Println("shutting down rooms")
			for _, r := range cs.rooms {
				close(r.exit)
				<-r.done
			}
			clear(cs.rooms)

			close(cs.done)
			return
		}
	}
}

// handleJoinRequest routes a join to the event's room, creating it first if
// this is the first join since the room was last unloaded.
func (cs *ChatServer) handleJoinRequest(frame *ClientFrame) {
	if room, ok := cs.rooms[frame.EventId]; ok {
		select {
		case room.joinChan <- frame:
		default:
			cs.log.Printf("join channel full on room for event %d", room.eventId)
			frame.client.queueFrame(ErrServiceUnavailable())
		}
		return
	}

	event, err := cs.db.GetEventById(frame.EventId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			frame.client.queueFrame(ErrEventNotFound())
		} else {
			cs.log.Println("GetEventById:", err)
			frame.client.queueFrame(ErrJoinFailed())
		}
		return
	}

	room := newRoom(event, cs)
	cs.rooms[room.eventId] = room
	cs.stats.Incr(StatActiveRooms)

	room.joinChan <- frame
	go room.start()
}

// handleUnloadRoom drops the room unless a participant joined after the
// unload was requested. Joins already routed to the room but not yet
// drained by its actor count as occupancy.
func (cs *ChatServer) handleUnloadRoom(eventId int) {
	r, ok := cs.rooms[eventId]
	if !ok {
		return
	}
	if r.numClients() > 0 || len(r.joinChan) > 0 {
		return
	}

	cs.log.Printf("unloading room for event %d", eventId)
	delete(cs.rooms, eventId)
	cs.stats.Decr(StatActiveRooms)

	close(r.exit)
	<-r.done
}

func (cs *ChatServer) RegisterClient(c *Client) {
	cs.registerChan <- c
}

func (cs *ChatServer) addClient(c *Client) {
	cs.clientsLock.Lock()
	defer cs.clientsLock.Unlock()
	cs.clients[c] = struct{}{}
}

func (cs *ChatServer) removeClient(c *Client) {
	cs.clientsLock.Lock()
	defer cs.clientsLock.Unlock()
	delete(cs.clients, c)
}

func (cs *ChatServer) Shutdown(ctx context.Context) error {
	cs.log.Println("received shutdown signal")

	cs.clientsLock.Lock()
	for c := range cs.clients {
		c.stopClient()
	}
	clear(cs.clients)
	cs.clientsLock.Unlock()

	close(cs.stop)

	select {
	case <-cs.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
