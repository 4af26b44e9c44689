package server

import (
	"time"

	"github.com/ballerhq/sportmate/internal/database"
	"github.com/ballerhq/sportmate/internal/types"
)

// Frame type discriminators. Inbound frames carry join-event or send-message,
// everything else is outbound.
const (
	TypeJoinEvent   = "join-event"
	TypeSendMessage = "send-message"
	TypeJoined      = "joined"
	TypeError       = "error"
	TypeNewMessage  = "new-message"
	TypeUserJoined  = "user-joined"
	TypeUserLeft    = "user-left"
)

// ClientFrame is an inbound frame. Type selects which fields are meaningful.
type ClientFrame struct {
	Type    string `json:"type"`
	EventId int    `json:"eventId,omitempty"`
	UserId  string `json:"userId,omitempty"`
	Message string `json:"message,omitempty"`

	client *Client
}

// Participant is the author view sent alongside messages and presence notices.
type Participant struct {
	Id              string `json:"id"`
	FirstName       string `json:"firstName,omitempty"`
	LastName        string `json:"lastName,omitempty"`
	ProfileImageUrl string `json:"profileImageUrl,omitempty"`
}

// ServerFrame is an outbound frame. The message field carries chat text on
// new-message frames and the reason on error frames; members carries the
// room roster on joined frames.
type ServerFrame struct {
	Type      string        `json:"type"`
	Id        int           `json:"id,omitempty"`
	EventId   int           `json:"eventId,omitempty"`
	UserId    string        `json:"userId,omitempty"`
	Message   string        `json:"message,omitempty"`
	CreatedAt *time.Time    `json:"createdAt,omitempty"`
	User      *Participant  `json:"user,omitempty"`
	Members   []Participant `json:"members,omitempty"`

	SkipClient *Client `json:"-"`
}

func errorFrame(reason string) *ServerFrame {
	return &ServerFrame{
		Type:    TypeError,
		Message: reason,
	}
}

func ErrEventNotFound() *ServerFrame {
	return errorFrame("Event not found")
}

func ErrAccessDenied() *ServerFrame {
	return errorFrame("Access denied to event chat")
}

func ErrJoinFailed() *ServerFrame {
	return errorFrame("Failed to join event chat")
}

func ErrInvalidFrame() *ServerFrame {
	return errorFrame("Invalid message format")
}

func ErrEmptyMessage() *ServerFrame {
	return errorFrame("Message content is required")
}

func ErrSaveFailed() *ServerFrame {
	return errorFrame("Failed to save message")
}

func ErrAlreadyJoined() *ServerFrame {
	return errorFrame("Already joined an event chat")
}

func ErrNotJoined() *ServerFrame {
	return errorFrame("Not joined to this event chat")
}

func ErrServiceUnavailable() *ServerFrame {
	return errorFrame("Service unavailable")
}

// NewJoined confirms a join and carries the roster at admission time, the
// joiner included.
func NewJoined(eventId int, members []Participant) *ServerFrame {
	return &ServerFrame{
		Type:    TypeJoined,
		EventId: eventId,
		Members: members,
	}
}

func NewUserJoined(p Participant) *ServerFrame {
	return &ServerFrame{
		Type: TypeUserJoined,
		User: &p,
	}
}

func NewUserLeft(p Participant) *ServerFrame {
	return &ServerFrame{
		Type: TypeUserLeft,
		User: &p,
	}
}

// NewChatMessage wraps a persisted message with its author's display fields.
func NewChatMessage(msg database.EventMessage, author Participant) *ServerFrame {
	createdAt := msg.CreatedAt
	return &ServerFrame{
		Type:      TypeNewMessage,
		Id:        msg.Id,
		EventId:   msg.EventId,
		UserId:    msg.UserId,
		Message:   msg.Message,
		CreatedAt: &createdAt,
		User:      &author,
	}
}

func ParticipantFor(u types.User) Participant {
	return Participant{
		Id:              u.Id,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		ProfileImageUrl: u.ProfileImageUrl,
	}
}

func Now() time.Time {
	return time.Now().UTC().Round(time.Millisecond)
}
