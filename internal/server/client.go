package server

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/ballerhq/sportmate/internal/types"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = 1024
)

// Client is one websocket connection. It belongs to at most one event room
// at a time: frames other than join-event are rejected until a join succeeds.
type Client struct {
	conn       *websocket.Conn
	chatServer *ChatServer
	log        *log.Logger
	user       types.User
	send       chan *ServerFrame
	room       *Room
	roomLock   sync.RWMutex
	stop       chan struct{}
	stopOnce   sync.Once
}

func NewClient(user types.User, conn *websocket.Conn, cs *ChatServer, l *log.Logger) *Client {
	return &Client{
		conn:       conn,
		chatServer: cs,
		log:        l,
		user:       user,
		send:       make(chan *ServerFrame, 256),
		stop:       make(chan struct{}),
	}
}

func (c *Client) Write() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.log.Println("write exiting")
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if !ok {
				return
			}

			bytes, err := json.Marshal(frame)
			if err != nil {
				c.log.Println("failed to serialize frame:", err)
				continue
			}

			if !c.sendMessage(websocket.TextMessage, bytes) {
				return
			}
		case <-c.stop:
			return
		case <-ticker.C:
			if !c.sendMessage(websocket.PingMessage, nil) {
				return
			}
		}
	}
}

func (c *Client) Read() {
	defer func() {
		c.conn.Close()
		c.cleanup()
		c.log.Println("read exiting")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(appData string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				c.log.Printf("ws: read: %v", err)
			}
			break
		}

		var frame ClientFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.log.Println("error parsing frame:", err)
			c.queueFrame(ErrInvalidFrame())
			continue
		}

		frame.client = c
		c.handleFrame(&frame)
	}
}

// handleFrame dispatches one inbound frame. A malformed or unexpected frame
// produces an error notice and leaves the connection state unchanged.
func (c *Client) handleFrame(frame *ClientFrame) {
	switch frame.Type {
	case TypeJoinEvent:
		if c.getRoom() != nil {
			c.queueFrame(ErrAlreadyJoined())
			return
		}
		// The join frame names a user; it must be the authenticated one.
		if frame.UserId != "" && frame.UserId != c.user.Id {
			c.queueFrame(ErrAccessDenied())
			return
		}
		c.joinEvent(frame)
	case TypeSendMessage:
		r := c.getRoom()
		if r == nil || r.eventId != frame.EventId {
			c.queueFrame(ErrNotJoined())
			return
		}
		select {
		case r.messageChan <- frame:
		default:
			c.log.Printf("messageChan full for event %d", r.eventId)
			c.queueFrame(ErrServiceUnavailable())
		}
	default:
		c.queueFrame(ErrInvalidFrame())
	}
}

func (c *Client) joinEvent(frame *ClientFrame) {
	select {
	case c.chatServer.joinChan <- frame:
	default:
		c.log.Println("joinChan full")
		c.queueFrame(ErrServiceUnavailable())
	}
}

func (c *Client) queueFrame(frame *ServerFrame) bool {
	select {
	case c.send <- frame:
	default:
		c.log.Println("failed to send frame to client, channel is full")
		return false
	}

	return true
}

func (c *Client) sendMessage(msgType int, msg []byte) bool {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))

	if err := c.conn.WriteMessage(msgType, msg); err != nil {
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
			websocket.CloseNormalClosure) {
			c.log.Printf("write message: %s", err)
		}
		return false
	}

	return true
}

// stopClient may be reached from both the read pump's cleanup and a server
// shutdown, so the close is guarded.
func (c *Client) stopClient() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}

func (c *Client) cleanup() {
	c.chatServer.deRegisterChan <- c
	if r := c.getRoom(); r != nil {
		r.leaveChan <- c
	}
	c.stopClient()
}

func (c *Client) setRoom(r *Room) {
	c.roomLock.Lock()
	defer c.roomLock.Unlock()
	c.room = r
}

func (c *Client) clearRoom() {
	c.roomLock.Lock()
	defer c.roomLock.Unlock()
	c.room = nil
}

func (c *Client) getRoom() *Room {
	c.roomLock.RLock()
	defer c.roomLock.RUnlock()
	return c.room
}
