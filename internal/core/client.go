package core

import "time"

// DefaultDisplayName is used when a join request carries no name.
const DefaultDisplayName = "Anonymous"

// Connection is one live transport session as seen by the core layer.
// Fields other than the event queue change only through SessionManager.
type Connection struct {
	ID             string
	DisplayName    string
	AvatarRef      string
	CurrentChannel string
	ConnectedAt    time.Time

	events chan *Event
}

func newConnection(id string, buffer int, now time.Time) *Connection {
	if buffer <= 0 {
		buffer = 1
	}
	return &Connection{
		ID:          id,
		DisplayName: DefaultDisplayName,
		ConnectedAt: now,
		events:      make(chan *Event, buffer),
	}
}

// deliver queues an event without blocking. Returns false if the queue is full.
func (c *Connection) deliver(ev *Event) bool {
	select {
	case c.events <- ev:
		return true
	default:
		return false
	}
}

// Client is the transport-facing handle of a registered connection.
// Events is closed once the connection is removed from the registry.
type Client struct {
	ID     string
	Events <-chan *Event
}
